// Package scanner extracts candidate class tokens from source files.
//
// Markup and unknown file types are scanned as whole text. Source code files
// are scanned only inside string literals so identifiers, keywords and
// comments do not turn into candidates.
package scanner

import (
	"errors"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"
)

// ErrInvalidEncoding is returned for content that is not valid UTF-8.
var ErrInvalidEncoding = errors.New("invalid UTF-8 encoding")

// maxTokenLen bounds candidates; anything longer is minified data, not a class.
const maxTokenLen = 256

// Verdict is the vocabulary's classification of a candidate.
type Verdict uint8

const (
	// Reject drops the candidate silently. Most scanned text ends up here.
	Reject Verdict = iota
	Accept
	// UnknownVariant marks a candidate whose utility part is valid but whose
	// prefix chain contains an unrecognised variant.
	UnknownVariant
	// Malformed marks a candidate naming a known utility with an invalid
	// arbitrary value.
	Malformed
)

func (v Verdict) String() string {
	switch v {
	case Accept:
		return "accepted"
	case UnknownVariant:
		return "unknown variant"
	case Malformed:
		return "malformed"
	default:
		return "rejected"
	}
}

// Vocabulary decides which candidates are utilities. Implementations must be
// safe for concurrent use.
type Vocabulary interface {
	Classify(token string) Verdict
}

// Candidate is a raw token and the line it starts on.
type Candidate struct {
	Token string
	Line  int
}

// Note records a rejected candidate worth reporting.
type Note struct {
	Token   string  `json:"token"`
	Line    int     `json:"line"`
	Verdict Verdict `json:"verdict"`
}

// Result is the outcome of scanning one file.
type Result struct {
	Tokens []string // Sorted, unique, accepted
	Notes  []Note   // In order of first appearance
}

// Scanner filters candidates through a vocabulary.
type Scanner struct {
	vocab Vocabulary
}

// New returns a scanner that classifies with vocab.
func New(vocab Vocabulary) *Scanner {
	return &Scanner{vocab: vocab}
}

// Scan extracts the accepted tokens of one file. Each distinct candidate is
// classified once.
func (s *Scanner) Scan(content []byte, path string) (Result, error) {
	cands, err := Candidates(content, path)
	if err != nil {
		return Result{}, err
	}

	var res Result
	seen := make(map[string]struct{}, len(cands))
	for _, c := range cands {
		if _, ok := seen[c.Token]; ok {
			continue
		}
		seen[c.Token] = struct{}{}

		switch v := s.vocab.Classify(c.Token); v {
		case Accept:
			res.Tokens = append(res.Tokens, c.Token)
		case UnknownVariant, Malformed:
			res.Notes = append(res.Notes, Note{Token: c.Token, Line: c.Line, Verdict: v})
		}
	}

	sort.Strings(res.Tokens)
	return res, nil
}

// Candidates returns every candidate token in content, in order of
// appearance and with duplicates. path selects the scanning mode.
func Candidates(content []byte, path string) ([]Candidate, error) {
	if !utf8.Valid(content) {
		return nil, ErrInvalidEncoding
	}

	lang, code := languageOf(path)
	if !code {
		return tokenize(segment{text: string(content), line: 1}, true), nil
	}

	var out []Candidate
	for _, seg := range literals(content, lang) {
		out = append(out, tokenize(seg, false)...)
	}
	return out, nil
}

// languageOf returns the literal syntax for code files. Files that are not
// code are scanned as whole text.
func languageOf(path string) (language, bool) {
	lang, ok := codeLanguages[strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")]
	return lang, ok
}

type segment struct {
	text string
	line int
}

func tokenize(seg segment, unescape bool) []Candidate {
	var (
		out  []Candidate
		b    strings.Builder
		s    = seg.text
		line = seg.line
	)

	for i := 0; i < len(s); {
		c := s[i]
		if c == '\n' {
			line++
			i++
			continue
		}
		if !startsToken(c) {
			i++
			continue
		}

		b.Reset()
		depth := 0
	token:
		for i < len(s) {
			c = s[i]
			switch {
			case depth > 0:
				if isSpace(c) || isQuote(c) {
					break token
				}
				switch c {
				case '[':
					depth++
				case ']':
					depth--
				}
			case c == '[':
				depth++
			case c == '\\' && unescape && i+1 < len(s) && (isTokenByte(s[i+1]) || s[i+1] == '[' || s[i+1] == ']'):
				b.WriteByte(s[i+1])
				i += 2
				continue
			case !isTokenByte(c):
				break token
			}
			b.WriteByte(c)
			i++
		}

		tok := strings.TrimRight(b.String(), ".,")
		if tok != "" && len(tok) <= maxTokenLen {
			out = append(out, Candidate{Token: tok, Line: line})
		}
	}

	return out
}

func startsToken(c byte) bool {
	return isAlnum(c) || c == '-' || c == '!' || c == '['
}

func isTokenByte(c byte) bool {
	return isAlnum(c) || c == '-' || c == '_' || c == ':' || c == '/' || c == '.' || c == '!'
}

func isAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isQuote(c byte) bool {
	return c == '"' || c == '\'' || c == '`'
}
