// Package theme resolves design tokens into an immutable, queryable theme.
//
// A theme starts from the built-in defaults. Categories present in the user
// overrides replace the default category wholesale; categories present in the
// user extensions are unioned into whatever the category holds after
// overriding, with extension keys winning on collision.
package theme

import (
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/yacobolo/atomcss/internal/css"
)

// Value is a resolved theme leaf.
type Value struct {
	CSS string
	// Companion carries the second element of tuple leaves, such as the line
	// height paired with a fontSize entry.
	Companion string
}

// Categories maps category name -> key -> value.
type Categories map[string]map[string]Value

// Screen is a responsive breakpoint.
type Screen struct {
	Name     string
	MinWidth string  // As configured: "640px"
	Pixels   float64 // MinWidth in px, 0 when it could not be parsed
}

// Theme is the merged, read-only token set for one compilation run. It is safe
// for concurrent use.
type Theme struct {
	cats    Categories
	screens []Screen
	hash    uint64
}

// Resolve merges defaults with user overrides and extensions. Inputs are not
// modified and the result shares no maps with them.
func Resolve(defaults, overrides, extensions Categories) *Theme {
	cats := make(Categories, len(defaults))
	for cat, values := range defaults {
		cats[cat] = copyValues(values)
	}
	for cat, values := range overrides {
		cats[cat] = copyValues(values)
	}
	for cat, values := range extensions {
		dst, ok := cats[cat]
		if !ok {
			dst = make(map[string]Value, len(values))
			cats[cat] = dst
		}
		for key, v := range values {
			dst[key] = v
		}
	}

	return &Theme{
		cats:    cats,
		screens: buildScreens(cats["screens"]),
		hash:    hashCategories(cats),
	}
}

// Get looks up a key in a category. A miss is an ordinary outcome.
func (t *Theme) Get(category, key string) (Value, bool) {
	values, ok := t.cats[category]
	if !ok {
		return Value{}, false
	}
	v, ok := values[key]
	return v, ok
}

// Screens returns the breakpoints ordered by ascending width.
func (t *Theme) Screens() []Screen {
	out := make([]Screen, len(t.screens))
	copy(out, t.screens)
	return out
}

// Hash fingerprints the resolved theme. Equal themes hash equally, which lets
// callers cache work per configuration.
func (t *Theme) Hash() uint64 {
	return t.hash
}

func buildScreens(values map[string]Value) []Screen {
	screens := make([]Screen, 0, len(values))
	for name, v := range values {
		px, _ := css.Pixels(v.CSS)
		screens = append(screens, Screen{Name: name, MinWidth: v.CSS, Pixels: px})
	}

	// Unparseable widths sort after every measurable one.
	sort.Slice(screens, func(i, j int) bool {
		a, b := screens[i], screens[j]
		if (a.Pixels == 0) != (b.Pixels == 0) {
			return b.Pixels == 0
		}
		if a.Pixels != b.Pixels {
			return a.Pixels < b.Pixels
		}
		return a.Name < b.Name
	})
	return screens
}

func hashCategories(cats Categories) uint64 {
	d := xxhash.New()
	for _, cat := range sortedKeys(cats) {
		_, _ = d.WriteString(cat)
		_, _ = d.Write([]byte{0})
		values := cats[cat]
		for _, key := range sortedKeys(values) {
			v := values[key]
			_, _ = d.WriteString(key)
			_, _ = d.Write([]byte{0})
			_, _ = d.WriteString(v.CSS)
			_, _ = d.Write([]byte{0})
			_, _ = d.WriteString(v.Companion)
			_, _ = d.Write([]byte{1})
		}
		_, _ = d.Write([]byte{2})
	}
	return d.Sum64()
}

func copyValues(values map[string]Value) map[string]Value {
	out := make(map[string]Value, len(values))
	for k, v := range values {
		out[k] = v
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
