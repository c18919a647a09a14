package atomcss

import (
	"github.com/yacobolo/atomcss/internal/css"
	"github.com/yacobolo/atomcss/internal/theme"
	"github.com/yacobolo/atomcss/internal/utility"
	"github.com/yacobolo/atomcss/internal/variant"
)

// Types plugins work with.
type (
	Registrar   = utility.Registrar
	Template    = utility.Template
	Declaration = css.Declaration
	Variant     = variant.Variant
	ThemeValue  = theme.Value
)

// Plugin extends the utility and variant vocabulary during engine
// construction. Registration after New returns fails with utility.ErrFrozen.
type Plugin interface {
	Register(r Registrar) error
}

// PluginFunc adapts a function to Plugin.
type PluginFunc func(r Registrar) error

// Register calls f(r).
func (f PluginFunc) Register(r Registrar) error {
	return f(r)
}

// builtinPlugins are the plugins Config.Plugins may name without WithPlugin.
func builtinPlugins() map[string]Plugin {
	return map[string]Plugin{
		"line-clamp": PluginFunc(lineClamp),
	}
}

// lineClamp truncates text to a number of lines: line-clamp-3,
// line-clamp-[7], line-clamp-none.
func lineClamp(r Registrar) error {
	err := r.RegisterUtility(Template{
		Name:       "line-clamp",
		Categories: []string{"lineClamp"},
		Types:      css.TypeNumber,
		Declare: func(v ThemeValue) []Declaration {
			return []Declaration{
				{Property: "overflow", Value: "hidden"},
				{Property: "display", Value: "-webkit-box"},
				{Property: "-webkit-box-orient", Value: "vertical"},
				{Property: "-webkit-line-clamp", Value: v.CSS},
			}
		},
	})
	if err != nil {
		return err
	}

	return r.RegisterStatic("line-clamp-none",
		Declaration{Property: "overflow", Value: "visible"},
		Declaration{Property: "display", Value: "block"},
		Declaration{Property: "-webkit-box-orient", Value: "horizontal"},
		Declaration{Property: "-webkit-line-clamp", Value: "none"},
	)
}
