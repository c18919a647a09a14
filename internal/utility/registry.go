// Package utility compiles parsed class tokens into CSS rules.
//
// A Registry holds two kinds of utilities. Statics are exact class names with
// fixed declarations ("flex", "sr-only"). Templates are named prefixes that
// take a value from the theme or from a bracketed arbitrary value ("p-4",
// "bg-[#112233]"). Plugins extend the registry through Registrar before the
// first compilation.
package utility

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yacobolo/atomcss/internal/css"
	"github.com/yacobolo/atomcss/internal/theme"
	"github.com/yacobolo/atomcss/internal/variant"
)

// ErrFrozen is returned when registering after compilation has started.
var ErrFrozen = errors.New("registry is frozen")

// arbitraryPropertyOrder sorts arbitrary properties after every registered
// utility.
const arbitraryPropertyOrder = 1 << 30

// Template describes a valued utility.
type Template struct {
	Name string

	// Categories are theme categories searched in order for the key.
	Categories []string

	// Types lists the arbitrary value types the utility accepts. Zero
	// disables arbitrary values.
	Types css.ValueType

	// Negatable utilities accept a leading "-" on numeric values.
	Negatable bool

	// Color utilities accept an opacity modifier ("bg-red-500/50").
	Color bool

	// Suffix is appended to the selector after variants are applied.
	Suffix string

	Declare func(v theme.Value) []css.Declaration

	order int
}

type static struct {
	decls []css.Declaration
	order int
}

// Registrar is the surface plugins see during registration.
type Registrar interface {
	RegisterStatic(name string, decls ...css.Declaration) error
	RegisterUtility(t Template) error
	RegisterVariant(v variant.Variant) error
}

// Registry maps utility names to declaration builders. Registration is not
// safe for concurrent use; after Freeze the registry is read-only and
// Compile may be called from many goroutines.
type Registry struct {
	variants  *variant.Set
	statics   map[string]static
	templates map[string][]*Template
	next      int
	frozen    bool
}

// NewRegistry returns a registry preloaded with the core utilities.
func NewRegistry(variants *variant.Set) *Registry {
	r := &Registry{
		variants:  variants,
		statics:   make(map[string]static),
		templates: make(map[string][]*Template),
	}
	registerCore(r)
	return r
}

// Variants returns the variant vocabulary the registry parses with.
func (r *Registry) Variants() *variant.Set {
	return r.variants
}

// RegisterStatic adds a keyword utility.
func (r *Registry) RegisterStatic(name string, decls ...css.Declaration) error {
	if r.frozen {
		return ErrFrozen
	}
	if name == "" || strings.ContainsAny(name, ":[]/! ") {
		return fmt.Errorf("invalid utility name %q", name)
	}
	if len(decls) == 0 {
		return fmt.Errorf("utility %q has no declarations", name)
	}
	r.next++
	r.statics[name] = static{decls: decls, order: r.next}
	return nil
}

// RegisterUtility adds a valued utility. Several templates may share a name;
// they are tried in registration order.
func (r *Registry) RegisterUtility(t Template) error {
	if r.frozen {
		return ErrFrozen
	}
	if t.Name == "" || strings.ContainsAny(t.Name, ":[]/! ") {
		return fmt.Errorf("invalid utility name %q", t.Name)
	}
	if t.Declare == nil {
		return fmt.Errorf("utility %q has no declaration builder", t.Name)
	}
	if len(t.Categories) == 0 && t.Types == 0 {
		return fmt.Errorf("utility %q accepts neither theme nor arbitrary values", t.Name)
	}
	r.next++
	t.order = r.next
	r.templates[t.Name] = append(r.templates[t.Name], &t)
	return nil
}

// RegisterVariant adds a variant to the shared vocabulary.
func (r *Registry) RegisterVariant(v variant.Variant) error {
	if r.frozen {
		return ErrFrozen
	}
	return r.variants.Add(v)
}

// Freeze ends the registration phase.
func (r *Registry) Freeze() {
	r.frozen = true
}

// HasTemplate reports whether name is a valued utility.
func (r *Registry) HasTemplate(name string) bool {
	_, ok := r.templates[name]
	return ok
}

// Compile turns a parsed token into a rule. ok is false when the token is not
// a utility under this registry and theme; that is the common case for
// scanned text and not an error.
func (r *Registry) Compile(p Parsed, th *theme.Theme) (css.Rule, bool) {
	decls, order, suffix, ok := r.declarations(p, th)
	if !ok {
		return css.Rule{}, false
	}

	if p.Important {
		for i := range decls {
			decls[i].Value += " !important"
		}
	}

	selector, atRules := variant.Apply(p.Variants, css.ClassSelector(p.Raw))
	rule := css.Rule{
		Selector:     selector + suffix,
		Declarations: decls,
		AtRules:      atRules,
		Order:        order,
		Class:        p.Raw,
	}
	rule.Layer, rule.Screen, rule.State, rule.Dark = layerOf(p.Variants)
	return rule, true
}

// CompileToken parses and compiles in one step.
func (r *Registry) CompileToken(token string, th *theme.Theme) (css.Rule, bool) {
	p, ok := Parse(token, r.variants)
	if !ok {
		return css.Rule{}, false
	}
	return r.Compile(p, th)
}

func (r *Registry) declarations(p Parsed, th *theme.Theme) ([]css.Declaration, int, string, bool) {
	if strings.Contains(p.Base, ":") {
		return nil, 0, "", false
	}

	if p.HasArbitrary && p.Base == "" {
		d, ok := arbitraryProperty(p)
		return d, arbitraryPropertyOrder, "", ok
	}

	if !p.HasArbitrary && !p.Negative && !p.HasOpacity {
		if s, ok := r.statics[p.Base]; ok {
			return append([]css.Declaration(nil), s.decls...), s.order, "", true
		}
	}

	if p.HasArbitrary {
		for _, t := range r.templates[p.Base] {
			if d, ok := t.arbitrary(p, th); ok {
				return d, t.order, t.Suffix, true
			}
		}
		return nil, 0, "", false
	}

	for _, c := range candidates(p.Base) {
		for _, t := range r.templates[c.name] {
			if d, ok := t.themed(p, c.key, th); ok {
				return d, t.order, t.Suffix, true
			}
		}
	}
	return nil, 0, "", false
}

type candidate struct {
	name, key string
}

// candidates splits base at each '-' from the right: "bg-red-500" yields
// bg-red-500/DEFAULT, bg-red/500, bg/red-500.
func candidates(base string) []candidate {
	out := []candidate{{name: base, key: "DEFAULT"}}
	for i := len(base) - 1; i > 0; i-- {
		if base[i] == '-' && i < len(base)-1 {
			out = append(out, candidate{name: base[:i], key: base[i+1:]})
		}
	}
	return out
}

func (t *Template) lookup(th *theme.Theme, key string) (theme.Value, bool) {
	for _, cat := range t.Categories {
		if v, ok := th.Get(cat, key); ok {
			return v, true
		}
	}
	return theme.Value{}, false
}

func (t *Template) themed(p Parsed, key string, th *theme.Theme) ([]css.Declaration, bool) {
	var (
		v  theme.Value
		ok bool
	)

	switch {
	case p.HasOpacity && t.Color:
		if v, ok = t.lookup(th, key); !ok {
			return nil, false
		}
		alpha, ok := alphaValue(p.Opacity, th)
		if !ok {
			return nil, false
		}
		v.CSS = css.WithAlpha(v.CSS, alpha)
	case p.HasOpacity:
		// Fraction keys such as w-1/2 parse like an opacity modifier.
		if v, ok = t.lookup(th, key+"/"+p.Opacity); !ok {
			return nil, false
		}
	default:
		if v, ok = t.lookup(th, key); !ok {
			return nil, false
		}
	}

	return t.finish(p, v)
}

func (t *Template) arbitrary(p Parsed, th *theme.Theme) ([]css.Declaration, bool) {
	if t.Types == 0 {
		return nil, false
	}

	value := decodeArbitrary(p.Arbitrary)
	if !css.Valid(value) || css.InferType(value)&t.Types == 0 {
		return nil, false
	}

	v := theme.Value{CSS: value}
	if p.HasOpacity {
		if !t.Color {
			return nil, false
		}
		alpha, ok := alphaValue(p.Opacity, th)
		if !ok {
			return nil, false
		}
		v.CSS = css.WithAlpha(v.CSS, alpha)
	}

	return t.finish(p, v)
}

func (t *Template) finish(p Parsed, v theme.Value) ([]css.Declaration, bool) {
	if p.Negative {
		if !t.Negatable {
			return nil, false
		}
		neg, ok := css.Negate(v.CSS)
		if !ok {
			return nil, false
		}
		v.CSS = neg
	}

	decls := t.Declare(v)
	if len(decls) == 0 {
		return nil, false
	}
	return decls, true
}

// alphaValue resolves an opacity modifier from the theme opacity scale or a
// bracketed number/percentage.
func alphaValue(modifier string, th *theme.Theme) (string, bool) {
	if strings.HasPrefix(modifier, "[") && strings.HasSuffix(modifier, "]") {
		v := modifier[1 : len(modifier)-1]
		switch css.InferType(v) {
		case css.TypeNumber:
			return v, true
		case css.TypeLength:
			return v, strings.HasSuffix(v, "%")
		}
		return "", false
	}

	v, ok := th.Get("opacity", modifier)
	return v.CSS, ok
}

func arbitraryProperty(p Parsed) ([]css.Declaration, bool) {
	if p.Negative || p.HasOpacity {
		return nil, false
	}

	prop, value, found := strings.Cut(p.Arbitrary, ":")
	if !found || !validProperty(prop) {
		return nil, false
	}

	value = decodeArbitrary(value)
	if !css.Valid(value) {
		return nil, false
	}
	return []css.Declaration{{Property: prop, Value: value}}, true
}

func validProperty(prop string) bool {
	if prop == "" {
		return false
	}
	for i, r := range prop {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r == '-':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return strings.Trim(prop, "-") != ""
}

func decodeArbitrary(v string) string {
	return strings.ReplaceAll(v, "_", " ")
}

func layerOf(vs []variant.Variant) (layer css.Layer, screen int, state, dark bool) {
	responsive := false
	for _, v := range vs {
		switch v.Kind {
		case variant.Responsive:
			responsive = true
			if v.Rank > screen {
				screen = v.Rank
			}
		case variant.DarkMode:
			dark = true
		default:
			state = true
		}
	}

	switch {
	case responsive:
		layer = css.LayerResponsive
	case dark:
		layer = css.LayerDark
	case state:
		layer = css.LayerState
	default:
		layer = css.LayerBase
	}
	return layer, screen, state, dark
}
