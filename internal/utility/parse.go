package utility

import (
	"strings"

	"github.com/yacobolo/atomcss/internal/variant"
)

// Parsed is a class token decomposed into its parts. String reproduces the
// token it was parsed from.
type Parsed struct {
	Raw       string
	Variants  []variant.Variant
	Important bool
	Negative  bool

	// Base is the utility name without modifiers ("bg-red-500", "w-1").
	// For arbitrary values it is the part before "-[" and it is empty for
	// arbitrary properties ("[color:red]").
	Base string

	Arbitrary    string // Bracket content as written, "_" not yet decoded
	HasArbitrary bool

	Opacity    string // After the last top-level "/": "50" or "[.35]"
	HasOpacity bool
}

// Parse decomposes token using the variant vocabulary in set. ok is false for
// structurally invalid tokens (empty base, stray or unbalanced brackets).
func Parse(token string, set *variant.Set) (Parsed, bool) {
	p := Parsed{Raw: token}

	var rest string
	p.Variants, rest = set.Parse(token)

	if strings.HasPrefix(rest, "!") {
		p.Important = true
		rest = rest[1:]
	}
	if strings.HasPrefix(rest, "-") {
		p.Negative = true
		rest = rest[1:]
	}

	if i := lastTopLevelSlash(rest); i > 0 && i < len(rest)-1 {
		p.Opacity = rest[i+1:]
		p.HasOpacity = true
		rest = rest[:i]
	}

	if strings.HasSuffix(rest, "]") {
		open := matchingOpen(rest)
		switch {
		case open < 0 || open == len(rest)-2:
			return Parsed{}, false
		case open == 0:
			if p.Negative {
				return Parsed{}, false
			}
		case rest[open-1] != '-' || open == 1:
			return Parsed{}, false
		}

		p.Arbitrary = rest[open+1 : len(rest)-1]
		p.HasArbitrary = true
		if open > 0 {
			rest = rest[:open-1]
		} else {
			rest = ""
		}
	}

	if strings.ContainsAny(rest, "[]") {
		return Parsed{}, false
	}
	if rest == "" && !p.HasArbitrary {
		return Parsed{}, false
	}

	p.Base = rest
	return p, true
}

// String reassembles the token.
func (p Parsed) String() string {
	var b strings.Builder
	b.Grow(len(p.Raw))

	for _, v := range p.Variants {
		b.WriteString(v.Name)
		b.WriteByte(':')
	}
	if p.Important {
		b.WriteByte('!')
	}
	if p.Negative {
		b.WriteByte('-')
	}
	b.WriteString(p.Base)
	if p.HasArbitrary {
		if p.Base != "" {
			b.WriteByte('-')
		}
		b.WriteByte('[')
		b.WriteString(p.Arbitrary)
		b.WriteByte(']')
	}
	if p.HasOpacity {
		b.WriteByte('/')
		b.WriteString(p.Opacity)
	}

	return b.String()
}

// UnknownVariant reports the first unrecognised prefix segment left in Base.
func (p Parsed) UnknownVariant() (string, bool) {
	i := strings.IndexByte(p.Base, ':')
	if i < 0 {
		return "", false
	}
	return p.Base[:i], true
}

func lastTopLevelSlash(s string) int {
	depth := 0
	last := -1
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
		case '/':
			if depth == 0 {
				last = i
			}
		}
	}
	return last
}

// matchingOpen finds the '[' that pairs with the final ']' of s.
func matchingOpen(s string) int {
	depth := 0
	for i := len(s) - 1; i >= 0; i-- {
		switch s[i] {
		case ']':
			depth++
		case '[':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
