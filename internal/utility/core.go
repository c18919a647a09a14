package utility

import (
	"strings"

	"github.com/yacobolo/atomcss/internal/css"
	"github.com/yacobolo/atomcss/internal/theme"
)

const (
	lengths = css.TypeLength
	sizes   = css.TypeLength | css.TypeIdent
	numbers = css.TypeNumber
	colors  = css.TypeColor
)

const siblingSuffix = " > :not([hidden]) ~ :not([hidden])"

func decl(prop, value string) css.Declaration {
	return css.Declaration{Property: prop, Value: value}
}

// set emits the resolved value for each property.
func set(props ...string) func(theme.Value) []css.Declaration {
	return func(v theme.Value) []css.Declaration {
		out := make([]css.Declaration, len(props))
		for i, p := range props {
			out[i] = decl(p, v.CSS)
		}
		return out
	}
}

// wrap emits prop: before + value + after.
func wrap(prop, before, after string) func(theme.Value) []css.Declaration {
	return func(v theme.Value) []css.Declaration {
		return []css.Declaration{decl(prop, before+v.CSS+after)}
	}
}

type keyword struct {
	name  string
	decls []css.Declaration
}

func kw(name string, decls ...css.Declaration) keyword {
	return keyword{name: name, decls: decls}
}

// one builds keywords that all set the same property.
func one(prop string, names ...string) []keyword {
	out := make([]keyword, 0, len(names)/2)
	for i := 0; i+1 < len(names); i += 2 {
		out = append(out, kw(names[i], decl(prop, names[i+1])))
	}
	return out
}

func registerCore(r *Registry) {
	var statics []keyword

	statics = append(statics, one("display",
		"block", "block", "inline-block", "inline-block", "inline", "inline",
		"flex", "flex", "inline-flex", "inline-flex", "grid", "grid",
		"inline-grid", "inline-grid", "table", "table", "contents", "contents",
		"list-item", "list-item", "hidden", "none",
	)...)
	statics = append(statics, one("position",
		"static", "static", "fixed", "fixed", "absolute", "absolute",
		"relative", "relative", "sticky", "sticky",
	)...)
	statics = append(statics, one("visibility", "visible", "visible", "invisible", "hidden")...)
	statics = append(statics,
		kw("sr-only",
			decl("position", "absolute"), decl("width", "1px"), decl("height", "1px"),
			decl("padding", "0"), decl("margin", "-1px"), decl("overflow", "hidden"),
			decl("clip", "rect(0, 0, 0, 0)"), decl("white-space", "nowrap"), decl("border-width", "0"),
		),
		kw("box-border", decl("box-sizing", "border-box")),
		kw("box-content", decl("box-sizing", "content-box")),
	)

	for _, v := range []string{"auto", "hidden", "clip", "visible", "scroll"} {
		statics = append(statics,
			kw("overflow-"+v, decl("overflow", v)),
			kw("overflow-x-"+v, decl("overflow-x", v)),
			kw("overflow-y-"+v, decl("overflow-y", v)),
		)
	}

	statics = append(statics, one("flex-direction",
		"flex-row", "row", "flex-row-reverse", "row-reverse",
		"flex-col", "column", "flex-col-reverse", "column-reverse",
	)...)
	statics = append(statics, one("flex-wrap",
		"flex-wrap", "wrap", "flex-wrap-reverse", "wrap-reverse", "flex-nowrap", "nowrap",
	)...)
	statics = append(statics,
		kw("grow", decl("flex-grow", "1")),
		kw("grow-0", decl("flex-grow", "0")),
		kw("shrink", decl("flex-shrink", "1")),
		kw("shrink-0", decl("flex-shrink", "0")),
		kw("flex-grow", decl("flex-grow", "1")),
		kw("flex-grow-0", decl("flex-grow", "0")),
		kw("flex-shrink", decl("flex-shrink", "1")),
		kw("flex-shrink-0", decl("flex-shrink", "0")),
	)
	statics = append(statics, one("align-items",
		"items-start", "flex-start", "items-end", "flex-end", "items-center", "center",
		"items-baseline", "baseline", "items-stretch", "stretch",
	)...)
	statics = append(statics, one("justify-content",
		"justify-start", "flex-start", "justify-end", "flex-end", "justify-center", "center",
		"justify-between", "space-between", "justify-around", "space-around", "justify-evenly", "space-evenly",
	)...)
	statics = append(statics, one("align-self",
		"self-auto", "auto", "self-start", "flex-start", "self-end", "flex-end",
		"self-center", "center", "self-stretch", "stretch",
	)...)
	statics = append(statics, one("place-items",
		"place-items-start", "start", "place-items-center", "center", "place-items-end", "end",
	)...)

	statics = append(statics, one("text-align",
		"text-left", "left", "text-center", "center", "text-right", "right", "text-justify", "justify",
	)...)
	statics = append(statics, one("text-transform",
		"uppercase", "uppercase", "lowercase", "lowercase", "capitalize", "capitalize", "normal-case", "none",
	)...)
	statics = append(statics, one("font-style", "italic", "italic", "not-italic", "normal")...)
	statics = append(statics, one("text-decoration-line",
		"underline", "underline", "line-through", "line-through", "no-underline", "none",
	)...)
	statics = append(statics,
		kw("truncate", decl("overflow", "hidden"), decl("text-overflow", "ellipsis"), decl("white-space", "nowrap")),
		kw("break-words", decl("overflow-wrap", "break-word")),
		kw("break-all", decl("word-break", "break-all")),
	)
	statics = append(statics, one("white-space",
		"whitespace-normal", "normal", "whitespace-nowrap", "nowrap", "whitespace-pre", "pre",
		"whitespace-pre-line", "pre-line", "whitespace-pre-wrap", "pre-wrap",
	)...)
	statics = append(statics, one("list-style-type", "list-none", "none", "list-disc", "disc", "list-decimal", "decimal")...)

	statics = append(statics, one("cursor",
		"cursor-auto", "auto", "cursor-default", "default", "cursor-pointer", "pointer",
		"cursor-wait", "wait", "cursor-text", "text", "cursor-move", "move", "cursor-not-allowed", "not-allowed",
	)...)
	statics = append(statics, one("user-select",
		"select-none", "none", "select-text", "text", "select-all", "all", "select-auto", "auto",
	)...)
	statics = append(statics, one("pointer-events", "pointer-events-none", "none", "pointer-events-auto", "auto")...)
	statics = append(statics,
		kw("outline-none", decl("outline", "2px solid transparent"), decl("outline-offset", "2px")),
	)
	statics = append(statics, one("object-fit",
		"object-contain", "contain", "object-cover", "cover", "object-fill", "fill",
		"object-none", "none", "object-scale-down", "scale-down",
	)...)
	// translate, rotate and scale are separate properties; these only set transform.
	statics = append(statics, one("transform",
		"transform", "translate(0, 0)", "transform-gpu", "translate3d(0, 0, 0)", "transform-none", "none",
	)...)
	statics = append(statics, one("aspect-ratio", "aspect-auto", "auto", "aspect-square", "1 / 1", "aspect-video", "16 / 9")...)

	for _, side := range []struct{ suffix, props string }{
		{"", "margin"}, {"x", "margin-left margin-right"}, {"y", "margin-top margin-bottom"},
		{"t", "margin-top"}, {"r", "margin-right"}, {"b", "margin-bottom"}, {"l", "margin-left"},
	} {
		name := "m" + side.suffix + "-auto"
		var decls []css.Declaration
		for _, p := range strings.Fields(side.props) {
			decls = append(decls, decl(p, "auto"))
		}
		statics = append(statics, kw(name, decls...))
	}

	statics = append(statics, one("border-style",
		"border-solid", "solid", "border-dashed", "dashed", "border-dotted", "dotted", "border-none", "none",
	)...)

	statics = append(statics, one("background-size", "bg-auto", "auto", "bg-cover", "cover", "bg-contain", "contain")...)
	statics = append(statics, one("background-position", "bg-center", "center", "bg-top", "top", "bg-bottom", "bottom")...)
	statics = append(statics, one("background-repeat", "bg-repeat", "repeat", "bg-no-repeat", "no-repeat")...)
	statics = append(statics,
		kw("bg-clip-text", decl("-webkit-background-clip", "text"), decl("background-clip", "text")),
		kw("bg-clip-border", decl("background-clip", "border-box")),
		kw("bg-clip-padding", decl("background-clip", "padding-box")),
		kw("bg-none", decl("background-image", "none")),
	)
	for _, dir := range []struct{ name, to string }{
		{"t", "top"}, {"tr", "top right"}, {"r", "right"}, {"br", "bottom right"},
		{"b", "bottom"}, {"bl", "bottom left"}, {"l", "left"}, {"tl", "top left"},
	} {
		statics = append(statics, kw("bg-gradient-to-"+dir.name,
			decl("background-image", "linear-gradient(to "+dir.to+", var(--tw-gradient-stops))")))
	}

	const transitionEase = "cubic-bezier(0.4, 0, 0.2, 1)"
	transition := func(name, props string) keyword {
		return kw(name,
			decl("transition-property", props),
			decl("transition-timing-function", transitionEase),
			decl("transition-duration", "150ms"),
		)
	}
	statics = append(statics,
		transition("transition", "color, background-color, border-color, text-decoration-color, fill, stroke, opacity, box-shadow, transform, filter, backdrop-filter"),
		transition("transition-all", "all"),
		transition("transition-colors", "color, background-color, border-color, text-decoration-color, fill, stroke"),
		transition("transition-opacity", "opacity"),
		transition("transition-shadow", "box-shadow"),
		transition("transition-transform", "transform, translate, rotate, scale"),
		kw("transition-none", decl("transition-property", "none")),
	)

	for _, s := range statics {
		mustRegister(r.RegisterStatic(s.name, s.decls...))
	}

	for _, t := range coreTemplates() {
		mustRegister(r.RegisterUtility(t))
	}
}

func coreTemplates() []Template {
	var out []Template

	spacing := []string{"spacing"}
	for _, s := range []struct{ name, props string }{
		{"p", "padding"}, {"px", "padding-left padding-right"}, {"py", "padding-top padding-bottom"},
		{"pt", "padding-top"}, {"pr", "padding-right"}, {"pb", "padding-bottom"}, {"pl", "padding-left"},
	} {
		out = append(out, Template{Name: s.name, Categories: spacing, Types: lengths, Declare: set(strings.Fields(s.props)...)})
	}
	for _, s := range []struct{ name, props string }{
		{"m", "margin"}, {"mx", "margin-left margin-right"}, {"my", "margin-top margin-bottom"},
		{"mt", "margin-top"}, {"mr", "margin-right"}, {"mb", "margin-bottom"}, {"ml", "margin-left"},
	} {
		out = append(out, Template{Name: s.name, Categories: spacing, Types: lengths, Negatable: true, Declare: set(strings.Fields(s.props)...)})
	}

	out = append(out,
		Template{Name: "space-x", Categories: spacing, Types: lengths, Negatable: true, Suffix: siblingSuffix, Declare: set("margin-left")},
		Template{Name: "space-y", Categories: spacing, Types: lengths, Negatable: true, Suffix: siblingSuffix, Declare: set("margin-top")},
		Template{Name: "gap", Categories: spacing, Types: lengths, Declare: set("gap")},
		Template{Name: "gap-x", Categories: spacing, Types: lengths, Declare: set("column-gap")},
		Template{Name: "gap-y", Categories: spacing, Types: lengths, Declare: set("row-gap")},

		Template{Name: "w", Categories: []string{"width"}, Types: sizes, Declare: set("width")},
		Template{Name: "h", Categories: []string{"height"}, Types: sizes, Declare: set("height")},
		Template{Name: "size", Categories: spacing, Types: sizes, Declare: set("width", "height")},
		Template{Name: "min-w", Categories: []string{"minWidth"}, Types: sizes, Declare: set("min-width")},
		Template{Name: "min-h", Categories: []string{"minHeight"}, Types: sizes, Declare: set("min-height")},
		Template{Name: "max-w", Categories: []string{"maxWidth"}, Types: sizes, Declare: set("max-width")},
		Template{Name: "max-h", Categories: []string{"maxHeight"}, Types: sizes, Declare: set("max-height")},
		Template{Name: "basis", Categories: []string{"spacing", "width"}, Types: sizes, Declare: set("flex-basis")},
		Template{Name: "flex", Categories: []string{"flex"}, Types: css.TypeAny, Declare: set("flex")},
	)

	inset := []string{"inset"}
	for _, s := range []struct{ name, props string }{
		{"inset", "inset"}, {"inset-x", "left right"}, {"inset-y", "top bottom"},
		{"top", "top"}, {"right", "right"}, {"bottom", "bottom"}, {"left", "left"},
	} {
		out = append(out, Template{Name: s.name, Categories: inset, Types: sizes, Negatable: true, Declare: set(strings.Fields(s.props)...)})
	}

	out = append(out,
		Template{Name: "z", Categories: []string{"zIndex"}, Types: numbers, Negatable: true, Declare: set("z-index")},
		Template{Name: "opacity", Categories: []string{"opacity"}, Types: numbers, Declare: set("opacity")},
		Template{Name: "rounded", Categories: []string{"borderRadius"}, Types: lengths, Declare: set("border-radius")},
	)
	for _, s := range []struct{ name, props string }{
		{"t", "border-top-left-radius border-top-right-radius"},
		{"r", "border-top-right-radius border-bottom-right-radius"},
		{"b", "border-bottom-right-radius border-bottom-left-radius"},
		{"l", "border-top-left-radius border-bottom-left-radius"},
		{"tl", "border-top-left-radius"}, {"tr", "border-top-right-radius"},
		{"br", "border-bottom-right-radius"}, {"bl", "border-bottom-left-radius"},
	} {
		out = append(out, Template{Name: "rounded-" + s.name, Categories: []string{"borderRadius"}, Types: lengths, Declare: set(strings.Fields(s.props)...)})
	}

	for _, s := range []struct{ name, props string }{
		{"border", "border-width"},
		{"border-x", "border-left-width border-right-width"}, {"border-y", "border-top-width border-bottom-width"},
		{"border-t", "border-top-width"}, {"border-r", "border-right-width"},
		{"border-b", "border-bottom-width"}, {"border-l", "border-left-width"},
	} {
		out = append(out, Template{Name: s.name, Categories: []string{"borderWidth"}, Types: lengths, Declare: set(strings.Fields(s.props)...)})
	}

	palette := []string{"colors"}
	out = append(out,
		Template{Name: "border", Categories: palette, Types: colors, Color: true, Declare: set("border-color")},
		Template{Name: "bg", Categories: palette, Types: colors, Color: true, Declare: set("background-color")},
		Template{Name: "bg", Types: css.TypeImage, Declare: set("background-image")},
		Template{Name: "text", Categories: []string{"fontSize"}, Types: lengths, Declare: fontSize},
		Template{Name: "text", Categories: palette, Types: colors, Color: true, Declare: set("color")},
		Template{Name: "fill", Categories: palette, Types: colors, Color: true, Declare: set("fill")},
		Template{Name: "stroke", Categories: palette, Types: colors, Color: true, Declare: set("stroke")},
		Template{Name: "from", Categories: palette, Types: colors, Color: true, Declare: gradientFrom},
		Template{Name: "via", Categories: palette, Types: colors, Color: true, Declare: gradientVia},
		Template{Name: "to", Categories: palette, Types: colors, Color: true, Declare: set("--tw-gradient-to")},

		Template{Name: "ring", Categories: []string{"ringWidth"}, Types: lengths,
			Declare: wrap("box-shadow", "0 0 0 ", " var(--tw-ring-color, rgb(59 130 246 / 0.5))")},
		Template{Name: "ring", Categories: palette, Types: colors, Color: true, Declare: set("--tw-ring-color")},
		Template{Name: "shadow", Categories: []string{"boxShadow"}, Types: css.TypeAny, Declare: set("box-shadow")},

		Template{Name: "font", Categories: []string{"fontWeight"}, Types: numbers, Declare: set("font-weight")},
		Template{Name: "font", Categories: []string{"fontFamily"}, Types: css.TypeIdent, Declare: set("font-family")},
		Template{Name: "leading", Categories: []string{"lineHeight"}, Types: lengths | numbers, Declare: set("line-height")},
		Template{Name: "tracking", Categories: []string{"letterSpacing"}, Types: lengths, Negatable: true, Declare: set("letter-spacing")},

		Template{Name: "grid-cols", Categories: []string{"gridTemplateColumns"}, Types: css.TypeAny, Declare: set("grid-template-columns")},
		Template{Name: "col-span", Categories: []string{"gridColumn"}, Declare: set("grid-column")},

		Template{Name: "translate-x", Categories: []string{"translate"}, Types: lengths, Negatable: true, Declare: wrap("translate", "", " 0")},
		Template{Name: "translate-y", Categories: []string{"translate"}, Types: lengths, Negatable: true, Declare: wrap("translate", "0 ", "")},
		Template{Name: "rotate", Categories: []string{"rotate"}, Types: css.TypeAny, Negatable: true, Declare: set("rotate")},
		Template{Name: "scale", Categories: []string{"scale"}, Types: numbers | lengths, Declare: set("scale")},
		Template{Name: "scale-x", Categories: []string{"scale"}, Types: numbers | lengths, Declare: wrap("scale", "", " 1")},
		Template{Name: "scale-y", Categories: []string{"scale"}, Types: numbers | lengths, Declare: wrap("scale", "1 ", "")},
		Template{Name: "blur", Categories: []string{"blur"}, Types: lengths, Declare: wrap("filter", "blur(", ")")},

		Template{Name: "duration", Categories: []string{"transitionDuration"}, Types: lengths, Declare: set("transition-duration")},
		Template{Name: "delay", Categories: []string{"transitionDuration"}, Types: lengths, Declare: set("transition-delay")},
		Template{Name: "ease", Categories: []string{"transitionTimingFunction"}, Types: css.TypeAny, Declare: set("transition-timing-function")},
		Template{Name: "animate", Categories: []string{"animation"}, Types: css.TypeAny, Declare: set("animation")},
	)

	return out
}

func fontSize(v theme.Value) []css.Declaration {
	out := []css.Declaration{decl("font-size", v.CSS)}
	if v.Companion != "" {
		out = append(out, decl("line-height", v.Companion))
	}
	return out
}

func gradientFrom(v theme.Value) []css.Declaration {
	return []css.Declaration{
		decl("--tw-gradient-from", v.CSS),
		decl("--tw-gradient-to", css.WithAlpha(v.CSS, "0")),
		decl("--tw-gradient-stops", "var(--tw-gradient-from), var(--tw-gradient-to)"),
	}
}

func gradientVia(v theme.Value) []css.Declaration {
	return []css.Declaration{
		decl("--tw-gradient-to", css.WithAlpha(v.CSS, "0")),
		decl("--tw-gradient-stops", "var(--tw-gradient-from), "+v.CSS+", var(--tw-gradient-to)"),
	}
}

func mustRegister(err error) {
	if err != nil {
		panic("utility: core registration: " + err.Error())
	}
}
