package utility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yacobolo/atomcss/internal/css"
	"github.com/yacobolo/atomcss/internal/theme"
	"github.com/yacobolo/atomcss/internal/variant"
)

func setup(t *testing.T, extend theme.Categories) (*Registry, *theme.Theme) {
	t.Helper()
	th := theme.Resolve(theme.Defaults(), nil, extend)
	r := NewRegistry(variant.NewSet(th.Screens(), variant.DarkClass))
	return r, th
}

func TestParseRoundTrip(t *testing.T) {
	r, _ := setup(t, nil)

	tokens := []string{
		"p-4",
		"-mt-4",
		"!p-4",
		"sm:hover:!-mt-4",
		"bg-red-500/50",
		"bg-red-500/[.35]",
		"w-1/2",
		"w-[calc(100%/3)]",
		"bg-[#112233]/50",
		"[color:red]",
		"md:[mask-type:luminance]",
		"[&>*]:p-4",
		"bogus:p-4",
		"dark:text-[14px]",
		"group-hover:text-brand",
	}

	for _, token := range tokens {
		t.Run(token, func(t *testing.T) {
			p, ok := Parse(token, r.Variants())
			require.True(t, ok)
			assert.Equal(t, token, p.String())
		})
	}
}

func TestParseParts(t *testing.T) {
	r, _ := setup(t, nil)

	p, ok := Parse("sm:!-mt-[5px]", r.Variants())
	require.True(t, ok)
	require.Len(t, p.Variants, 1)
	assert.Equal(t, "sm", p.Variants[0].Name)
	assert.True(t, p.Important)
	assert.True(t, p.Negative)
	assert.Equal(t, "mt", p.Base)
	assert.True(t, p.HasArbitrary)
	assert.Equal(t, "5px", p.Arbitrary)

	p, ok = Parse("[color:red]", r.Variants())
	require.True(t, ok)
	assert.Equal(t, "", p.Base)
	assert.Equal(t, "color:red", p.Arbitrary)

	p, ok = Parse("bogus:p-4", r.Variants())
	require.True(t, ok)
	name, unknown := p.UnknownVariant()
	assert.True(t, unknown)
	assert.Equal(t, "bogus", name)
}

func TestParseRejects(t *testing.T) {
	r, _ := setup(t, nil)

	for _, token := range []string{"", "hover:", "-", "!", "p-[]", "p-[4", "p[4]", "-[color:red]", "a]b", "w-[1px]x"} {
		t.Run(token, func(t *testing.T) {
			_, ok := Parse(token, r.Variants())
			assert.False(t, ok)
		})
	}
}

func TestCompile(t *testing.T) {
	r, th := setup(t, theme.Categories{"colors": {"brand": {CSS: "#112233"}}})

	tests := []struct {
		token    string
		selector string
		decls    []css.Declaration
	}{
		{
			token:    "bg-brand",
			selector: ".bg-brand",
			decls:    []css.Declaration{{Property: "background-color", Value: "#112233"}},
		},
		{
			token:    "-mt-4",
			selector: ".-mt-4",
			decls:    []css.Declaration{{Property: "margin-top", Value: "-1rem"}},
		},
		{
			token:    "px-2",
			selector: ".px-2",
			decls: []css.Declaration{
				{Property: "padding-left", Value: "0.5rem"},
				{Property: "padding-right", Value: "0.5rem"},
			},
		},
		{
			token:    "flex",
			selector: ".flex",
			decls:    []css.Declaration{{Property: "display", Value: "flex"}},
		},
		{
			token:    "flex-grow",
			selector: ".flex-grow",
			decls:    []css.Declaration{{Property: "flex-grow", Value: "1"}},
		},
		{
			token:    "flex-grow-0",
			selector: ".flex-grow-0",
			decls:    []css.Declaration{{Property: "flex-grow", Value: "0"}},
		},
		{
			token:    "transform",
			selector: ".transform",
			decls:    []css.Declaration{{Property: "transform", Value: "translate(0, 0)"}},
		},
		{
			token:    "transform-none",
			selector: ".transform-none",
			decls:    []css.Declaration{{Property: "transform", Value: "none"}},
		},
		{
			token:    "flex-1",
			selector: ".flex-1",
			decls:    []css.Declaration{{Property: "flex", Value: "1 1 0%"}},
		},
		{
			token:    "rounded",
			selector: ".rounded",
			decls:    []css.Declaration{{Property: "border-radius", Value: "0.25rem"}},
		},
		{
			token:    "border",
			selector: ".border",
			decls:    []css.Declaration{{Property: "border-width", Value: "1px"}},
		},
		{
			token:    "border-red-500",
			selector: ".border-red-500",
			decls:    []css.Declaration{{Property: "border-color", Value: "#ef4444"}},
		},
		{
			token:    "text-lg",
			selector: ".text-lg",
			decls: []css.Declaration{
				{Property: "font-size", Value: "1.125rem"},
				{Property: "line-height", Value: "1.75rem"},
			},
		},
		{
			token:    "text-red-500/50",
			selector: `.text-red-500\/50`,
			decls:    []css.Declaration{{Property: "color", Value: "rgb(239 68 68 / 0.5)"}},
		},
		{
			token:    "bg-black/[.35]",
			selector: `.bg-black\/\[\.35\]`,
			decls:    []css.Declaration{{Property: "background-color", Value: "rgb(0 0 0 / .35)"}},
		},
		{
			token:    "w-1/2",
			selector: `.w-1\/2`,
			decls:    []css.Declaration{{Property: "width", Value: "50%"}},
		},
		{
			token:    "-translate-x-1/2",
			selector: `.-translate-x-1\/2`,
			decls:    []css.Declaration{{Property: "translate", Value: "-50% 0"}},
		},
		{
			token:    "w-[50px]",
			selector: `.w-\[50px\]`,
			decls:    []css.Declaration{{Property: "width", Value: "50px"}},
		},
		{
			token:    "text-[14px]",
			selector: `.text-\[14px\]`,
			decls:    []css.Declaration{{Property: "font-size", Value: "14px"}},
		},
		{
			token:    "text-[#abc]",
			selector: `.text-\[\#abc\]`,
			decls:    []css.Declaration{{Property: "color", Value: "#abc"}},
		},
		{
			token:    "grid-cols-[1fr_2fr]",
			selector: `.grid-cols-\[1fr_2fr\]`,
			decls:    []css.Declaration{{Property: "grid-template-columns", Value: "1fr 2fr"}},
		},
		{
			token:    "bg-[url(/img/hero.png)]",
			selector: `.bg-\[url\(\/img\/hero\.png\)\]`,
			decls:    []css.Declaration{{Property: "background-image", Value: "url(/img/hero.png)"}},
		},
		{
			token:    "[mask-type:luminance]",
			selector: `.\[mask-type\:luminance\]`,
			decls:    []css.Declaration{{Property: "mask-type", Value: "luminance"}},
		},
		{
			token:    "!p-4",
			selector: `.\!p-4`,
			decls:    []css.Declaration{{Property: "padding", Value: "1rem !important"}},
		},
		{
			token:    "space-x-4",
			selector: ".space-x-4 > :not([hidden]) ~ :not([hidden])",
			decls:    []css.Declaration{{Property: "margin-left", Value: "1rem"}},
		},
		{
			token:    "from-red-500",
			selector: ".from-red-500",
			decls: []css.Declaration{
				{Property: "--tw-gradient-from", Value: "#ef4444"},
				{Property: "--tw-gradient-to", Value: "rgb(239 68 68 / 0)"},
				{Property: "--tw-gradient-stops", Value: "var(--tw-gradient-from), var(--tw-gradient-to)"},
			},
		},
		{
			token:    "ease-in-out",
			selector: ".ease-in-out",
			decls:    []css.Declaration{{Property: "transition-timing-function", Value: "cubic-bezier(0.4, 0, 0.2, 1)"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			rule, ok := r.CompileToken(tt.token, th)
			require.True(t, ok)
			assert.Equal(t, tt.selector, rule.Selector)
			assert.Equal(t, tt.decls, rule.Declarations)
			assert.Equal(t, tt.token, rule.Class)
		})
	}
}

func TestCompileMisses(t *testing.T) {
	r, th := setup(t, nil)

	tokens := []string{
		"bg-brand",         // no such color
		"p-999",            // no such spacing key
		"-p-4",             // padding is not negatable
		"-bg-red-500",      // colors are not negatable
		"w-1/7",            // no such fraction
		"p-4/50",           // opacity on a non-color
		"bg-red-500/13",    // no such opacity step
		"bg-[red;x:y]",     // unsafe arbitrary value
		"w-[#fff]",         // wrong arbitrary type
		"col-span-[3]",     // no arbitrary values
		"[9x:red]",         // invalid property
		"hello",            // plain word
		"bogus:p-4",        // unknown variant
		"-m-auto",          // static cannot be negated
		"text-[1px_2px]/5", // opacity on a length
	}

	for _, token := range tokens {
		t.Run(token, func(t *testing.T) {
			_, ok := r.CompileToken(token, th)
			assert.False(t, ok)
		})
	}
}

func TestCompileVariantsAndLayers(t *testing.T) {
	r, th := setup(t, nil)

	tests := []struct {
		token    string
		selector string
		atRules  []string
		layer    css.Layer
		screen   int
	}{
		{token: "p-4", selector: ".p-4", layer: css.LayerBase},
		{token: "sm:p-4", selector: `.sm\:p-4`, atRules: []string{"@media (min-width: 640px)"}, layer: css.LayerResponsive, screen: 1},
		{token: "hover:p-4", selector: `.hover\:p-4:hover`, layer: css.LayerState},
		{token: "dark:bg-black", selector: `.dark .dark\:bg-black`, layer: css.LayerDark},
		{token: "lg:dark:bg-black", selector: `.dark .lg\:dark\:bg-black`, atRules: []string{"@media (min-width: 1024px)"}, layer: css.LayerResponsive, screen: 3},
		{token: "[&>*]:p-4", selector: `.\[\&\>\*\]\:p-4>*`, layer: css.LayerState},
		{token: "hover:space-y-2", selector: `.hover\:space-y-2:hover > :not([hidden]) ~ :not([hidden])`, layer: css.LayerState},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			rule, ok := r.CompileToken(tt.token, th)
			require.True(t, ok)
			assert.Equal(t, tt.selector, rule.Selector)
			assert.Equal(t, tt.atRules, rule.AtRules)
			assert.Equal(t, tt.layer, rule.Layer)
			assert.Equal(t, tt.screen, rule.Screen)
		})
	}
}

func TestNegation(t *testing.T) {
	r, th := setup(t, theme.Categories{"inset": {"weird": {CSS: "calc(1px + 2px)"}, "auto": {CSS: "auto"}}})

	rule, ok := r.CompileToken("-top-weird", th)
	require.True(t, ok)
	assert.Equal(t, []css.Declaration{{Property: "top", Value: "calc(calc(1px + 2px) * -1)"}}, rule.Declarations)

	_, ok = r.CompileToken("-top-auto", th)
	assert.False(t, ok)

	rule, ok = r.CompileToken("-mt-[calc(1rem+2px)]", th)
	require.True(t, ok)
	assert.Equal(t, []css.Declaration{{Property: "margin-top", Value: "calc(calc(1rem+2px) * -1)"}}, rule.Declarations)

	rule, ok = r.CompileToken("-top-px", th)
	require.True(t, ok)
	assert.Equal(t, []css.Declaration{{Property: "top", Value: "-1px"}}, rule.Declarations)
}

func TestRegistration(t *testing.T) {
	r, th := setup(t, theme.Categories{"tabSize": {"4": {CSS: "4"}}})

	require.NoError(t, r.RegisterUtility(Template{
		Name:       "tab",
		Categories: []string{"tabSize"},
		Types:      css.TypeNumber,
		Declare:    set("tab-size"),
	}))
	require.NoError(t, r.RegisterStatic("content-none", decl("content", "none")))
	require.NoError(t, r.RegisterVariant(variant.Variant{Name: "print", AtRule: "@media print"}))

	assert.Error(t, r.RegisterUtility(Template{Name: "bad"}))
	assert.Error(t, r.RegisterStatic("bad:name", decl("a", "b")))
	assert.Error(t, r.RegisterStatic("empty"))

	r.Freeze()
	assert.ErrorIs(t, r.RegisterStatic("late", decl("a", "b")), ErrFrozen)
	assert.ErrorIs(t, r.RegisterUtility(Template{Name: "late", Types: css.TypeAny, Declare: set("a")}), ErrFrozen)

	rule, ok := r.CompileToken("print:tab-4", th)
	require.True(t, ok)
	assert.Equal(t, []css.Declaration{{Property: "tab-size", Value: "4"}}, rule.Declarations)
	assert.Equal(t, []string{"@media print"}, rule.AtRules)

	// Later registrations sort after core utilities.
	core, ok := r.CompileToken("p-4", th)
	require.True(t, ok)
	assert.Less(t, core.Order, rule.Order)

	_, ok = r.CompileToken("content-none", th)
	assert.True(t, ok)
}

func TestCandidates(t *testing.T) {
	assert.Equal(t, []candidate{
		{name: "bg-red-500", key: "DEFAULT"},
		{name: "bg-red", key: "500"},
		{name: "bg", key: "red-500"},
	}, candidates("bg-red-500"))
}
