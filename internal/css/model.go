// Package css holds the rule model shared by the utility compiler and the
// stylesheet emitter, plus the small amount of CSS value handling both need.
package css

import "strings"

// Declaration is a single property/value pair.
type Declaration struct {
	Property string
	Value    string
}

// Layer is an ordering tier in the emitted stylesheet. Later layers win the
// cascade over earlier ones.
type Layer int

// Layers in emission order.
const (
	LayerBase Layer = iota
	LayerResponsive
	LayerState
	LayerDark
)

func (l Layer) String() string {
	switch l {
	case LayerBase:
		return "base"
	case LayerResponsive:
		return "responsive"
	case LayerState:
		return "state"
	case LayerDark:
		return "dark"
	}
	return "unknown"
}

// Rule is one compiled utility rule with everything the emitter needs to
// order and serialize it.
type Rule struct {
	Selector     string
	Declarations []Declaration
	AtRules      []string // Wrapping at-rules, outermost first: "@media (min-width: 640px)"

	Layer  Layer
	Screen int  // 1-based breakpoint rank, only meaningful in LayerResponsive
	State  bool // Carries a state or arbitrary-selector variant
	Dark   bool // Carries the dark-mode variant
	Order  int  // Registration order of the utility that produced the rule
	Class  string
}

// Key identifies a rule for deduplication: at-rule chain, selector and the
// exact declaration list.
func (r Rule) Key() string {
	var b strings.Builder
	for _, a := range r.AtRules {
		b.WriteString(a)
		b.WriteByte('{')
	}
	b.WriteString(r.Selector)
	b.WriteByte('{')
	for _, d := range r.Declarations {
		b.WriteString(d.Property)
		b.WriteByte(':')
		b.WriteString(d.Value)
		b.WriteByte(';')
	}
	return b.String()
}

// Less reports whether r is emitted before o.
func (r Rule) Less(o Rule) bool {
	if r.Layer != o.Layer {
		return r.Layer < o.Layer
	}
	if r.Screen != o.Screen {
		return r.Screen < o.Screen
	}
	if r.State != o.State {
		return !r.State
	}
	if r.Dark != o.Dark {
		return !r.Dark
	}
	if r.Order != o.Order {
		return r.Order < o.Order
	}
	if r.Class != o.Class {
		return r.Class < o.Class
	}
	return r.Key() < o.Key()
}
