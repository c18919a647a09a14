// Package variant recognises the prefix chain of a class token (sm:, dark:,
// hover:, [&>*]:) and turns it into selector and at-rule wrapping.
package variant

import (
	"fmt"
	"strings"

	"github.com/yacobolo/atomcss/internal/theme"
)

// Kind is the variant family. It drives layer assignment in the emitter.
type Kind uint8

const (
	Responsive Kind = iota + 1
	DarkMode
	State
	Arbitrary
)

func (k Kind) String() string {
	switch k {
	case Responsive:
		return "responsive"
	case DarkMode:
		return "dark"
	case State:
		return "state"
	case Arbitrary:
		return "arbitrary"
	default:
		return "unknown"
	}
}

// DarkStrategy selects how the dark variant is expressed. It is a single
// run-wide switch.
type DarkStrategy string

const (
	DarkMedia DarkStrategy = "media"
	DarkClass DarkStrategy = "class"
)

// Variant is one recognised prefix segment.
type Variant struct {
	Kind Kind
	Name string // Segment as written in the token, e.g. "sm" or "[&>*]"

	// Selector is a template in which & stands for the wrapped selector.
	// Empty means the selector is left alone.
	Selector string

	// AtRule wraps the rule, e.g. "@media (min-width: 640px)".
	AtRule string

	// Rank orders responsive variants by breakpoint width, starting at 1.
	Rank int
}

// states maps pseudo-class and relational variants to selector templates.
var states = map[string]string{
	"hover":         "&:hover",
	"focus":         "&:focus",
	"active":        "&:active",
	"visited":       "&:visited",
	"focus-within":  "&:focus-within",
	"focus-visible": "&:focus-visible",
	"disabled":      "&:disabled",
	"enabled":       "&:enabled",
	"checked":       "&:checked",
	"required":      "&:required",
	"invalid":       "&:invalid",
	"first":         "&:first-child",
	"last":          "&:last-child",
	"odd":           "&:nth-child(odd)",
	"even":          "&:nth-child(even)",
	"empty":         "&:empty",
	"placeholder":   "&::placeholder",
	"before":        "&::before",
	"after":         "&::after",
	"selection":     "&::selection",
	"group-hover":   ".group:hover &",
	"group-focus":   ".group:focus &",
	"peer-hover":    ".peer:hover ~ &",
	"peer-focus":    ".peer:focus ~ &",
	"peer-checked":  ".peer:checked ~ &",
}

// Set is the variant vocabulary for one run. Lookups are safe for concurrent
// use once registration has finished.
type Set struct {
	byName map[string]Variant
}

// NewSet builds the vocabulary from the theme breakpoints and the dark-mode
// strategy.
func NewSet(screens []theme.Screen, dark DarkStrategy) *Set {
	s := &Set{
		byName: make(map[string]Variant, len(states)+len(screens)+1),
	}

	for i, screen := range screens {
		s.byName[screen.Name] = Variant{
			Kind:   Responsive,
			Name:   screen.Name,
			AtRule: "@media (min-width: " + screen.MinWidth + ")",
			Rank:   i + 1,
		}
	}

	for name, sel := range states {
		s.byName[name] = Variant{Kind: State, Name: name, Selector: sel}
	}

	darkVariant := Variant{Kind: DarkMode, Name: "dark"}
	if dark == DarkClass {
		darkVariant.Selector = ".dark &"
	} else {
		darkVariant.AtRule = "@media (prefers-color-scheme: dark)"
	}
	s.byName["dark"] = darkVariant

	return s
}

// Add registers an extra variant. It must be called before the set is shared.
func (s *Set) Add(v Variant) error {
	if v.Name == "" || strings.ContainsAny(v.Name, ":[] ") {
		return fmt.Errorf("invalid variant name %q", v.Name)
	}
	if _, exists := s.byName[v.Name]; exists {
		return fmt.Errorf("variant %q already registered", v.Name)
	}
	if v.Selector == "" && v.AtRule == "" {
		return fmt.Errorf("variant %q needs a selector or an at-rule", v.Name)
	}
	if v.Selector != "" && !strings.Contains(v.Selector, "&") {
		return fmt.Errorf("variant %q selector %q must contain &", v.Name, v.Selector)
	}
	if v.Kind == 0 {
		v.Kind = State
	}
	s.byName[v.Name] = v
	return nil
}

// Lookup resolves one segment, including arbitrary [..] selector variants.
func (s *Set) Lookup(segment string) (Variant, bool) {
	if v, ok := s.byName[segment]; ok {
		return v, true
	}
	return arbitrary(segment)
}

// Parse strips recognised variants from the front of token. Recognition is
// greedy left to right and stops at the first unknown segment; the rest of
// the token is returned as written.
func (s *Set) Parse(token string) (variants []Variant, rest string) {
	segments := Split(token)

	for i := 0; i < len(segments)-1; i++ {
		v, ok := s.Lookup(segments[i])
		if !ok {
			return variants, strings.Join(segments[i:], ":")
		}
		variants = append(variants, v)
	}

	return variants, segments[len(segments)-1]
}

// Split cuts token at every ':' outside square brackets.
func Split(token string) []string {
	var parts []string
	depth, start := 0, 0

	for i := 0; i < len(token); i++ {
		switch token[i] {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		case ':':
			if depth == 0 {
				parts = append(parts, token[start:i])
				start = i + 1
			}
		}
	}

	return append(parts, token[start:])
}

// Apply wraps selector with variants. The leftmost variant is outermost, so
// variants are applied from the right. At-rules are returned outermost first.
func Apply(variants []Variant, selector string) (string, []string) {
	var atRules []string

	for i := len(variants) - 1; i >= 0; i-- {
		v := variants[i]
		if v.Selector != "" {
			selector = strings.ReplaceAll(v.Selector, "&", selector)
		}
		if v.AtRule != "" {
			atRules = append(atRules, v.AtRule)
		}
	}

	for i, j := 0, len(atRules)-1; i < j; i, j = i+1, j-1 {
		atRules[i], atRules[j] = atRules[j], atRules[i]
	}

	return selector, atRules
}

// arbitrary parses "[&_>_*]" style segments. Underscores decode to spaces.
func arbitrary(segment string) (Variant, bool) {
	if len(segment) < 3 || segment[0] != '[' || segment[len(segment)-1] != ']' {
		return Variant{}, false
	}

	sel := strings.ReplaceAll(segment[1:len(segment)-1], "_", " ")
	if !strings.Contains(sel, "&") || strings.ContainsAny(sel, "{};\"'\\") {
		return Variant{}, false
	}

	return Variant{Kind: Arbitrary, Name: segment, Selector: sel}, true
}
