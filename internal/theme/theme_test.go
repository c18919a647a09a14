package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDefaults(t *testing.T) {
	th := Resolve(Defaults(), nil, nil)

	v, ok := th.Get("spacing", "4")
	require.True(t, ok)
	assert.Equal(t, "1rem", v.CSS)

	v, ok = th.Get("spacing", "0.5")
	require.True(t, ok)
	assert.Equal(t, "0.125rem", v.CSS)

	v, ok = th.Get("colors", "black")
	require.True(t, ok)
	assert.Equal(t, "#000000", v.CSS)

	v, ok = th.Get("fontSize", "lg")
	require.True(t, ok)
	assert.Equal(t, Value{CSS: "1.125rem", Companion: "1.75rem"}, v)

	_, ok = th.Get("colors", "brand")
	assert.False(t, ok)

	_, ok = th.Get("nope", "x")
	assert.False(t, ok)
}

func TestResolveMergeLaws(t *testing.T) {
	defaults := Categories{
		"colors":  {"red": {CSS: "#f00"}, "blue": {CSS: "#00f"}},
		"spacing": {"1": {CSS: "0.25rem"}},
	}

	t.Run("empty inputs keep defaults", func(t *testing.T) {
		th := Resolve(defaults, Categories{}, Categories{})
		assert.Equal(t, defaults["colors"], th.cats["colors"])
		assert.Equal(t, defaults["spacing"], th.cats["spacing"])
	})

	t.Run("override replaces the whole category", func(t *testing.T) {
		th := Resolve(defaults, Categories{"colors": {"brand": {CSS: "#123"}}}, nil)
		assert.Equal(t, map[string]Value{"brand": {CSS: "#123"}}, th.cats["colors"])
		assert.Equal(t, defaults["spacing"], th.cats["spacing"])
	})

	t.Run("extension unions and wins on collision", func(t *testing.T) {
		th := Resolve(defaults, nil, Categories{"colors": {"red": {CSS: "#e00"}, "brand": {CSS: "#123"}}})
		assert.Equal(t, map[string]Value{
			"red":   {CSS: "#e00"},
			"blue":  {CSS: "#00f"},
			"brand": {CSS: "#123"},
		}, th.cats["colors"])
	})

	t.Run("extension applies after override", func(t *testing.T) {
		th := Resolve(defaults,
			Categories{"colors": {"brand": {CSS: "#123"}}},
			Categories{"colors": {"accent": {CSS: "#456"}}},
		)
		assert.Equal(t, map[string]Value{
			"brand":  {CSS: "#123"},
			"accent": {CSS: "#456"},
		}, th.cats["colors"])
	})

	t.Run("extension may add a new category", func(t *testing.T) {
		th := Resolve(defaults, nil, Categories{"aspectRatio": {"video": {CSS: "16 / 9"}}})
		v, ok := th.Get("aspectRatio", "video")
		require.True(t, ok)
		assert.Equal(t, "16 / 9", v.CSS)
	})

	t.Run("inputs are not modified", func(t *testing.T) {
		ext := Categories{"colors": {"brand": {CSS: "#123"}}}
		th := Resolve(defaults, nil, ext)
		_, ok := th.Get("colors", "brand")
		require.True(t, ok)
		assert.Len(t, defaults["colors"], 2)
	})
}

func TestHash(t *testing.T) {
	a := Resolve(Defaults(), nil, Categories{"colors": {"brand": {CSS: "#112233"}}})
	b := Resolve(Defaults(), nil, Categories{"colors": {"brand": {CSS: "#112233"}}})
	c := Resolve(Defaults(), nil, Categories{"colors": {"brand": {CSS: "#112234"}}})

	assert.Equal(t, a.Hash(), b.Hash())
	assert.NotEqual(t, a.Hash(), c.Hash())
}

func TestScreens(t *testing.T) {
	th := Resolve(Defaults(), Categories{"screens": {
		"tablet":  {CSS: "48rem"},
		"phone":   {CSS: "400px"},
		"desktop": {CSS: "1200px"},
		"weird":   {CSS: "calc(10px + 1vw)"},
	}}, nil)

	var names []string
	for _, s := range th.Screens() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"phone", "tablet", "desktop", "weird"}, names)

	defaults := Resolve(Defaults(), nil, nil).Screens()
	require.Len(t, defaults, 5)
	assert.Equal(t, "sm", defaults[0].Name)
	assert.Equal(t, "640px", defaults[0].MinWidth)
	assert.Equal(t, "2xl", defaults[4].Name)
}

func TestDecode(t *testing.T) {
	raw := map[string]any{
		"screens": map[string]any{"sm": "600px"},
		"extend": map[string]any{
			"colors": map[string]any{
				"brand": map[string]any{"DEFAULT": "#112233", "light": "#445566"},
				"ink":   "#000",
			},
			"fontSize": map[string]any{
				"huge": []any{"5rem", map[string]any{"lineHeight": "1"}},
				"tiny": []any{"0.5rem", "0.75rem"},
			},
			"zIndex": map[string]any{"60": 60},
			"spacing": map[any]any{
				"18": "4.5rem",
			},
		},
	}

	overrides, extensions, err := Decode(raw)
	require.NoError(t, err)

	assert.Equal(t, Categories{"screens": {"sm": {CSS: "600px"}}}, overrides)
	assert.Equal(t, map[string]Value{
		"brand":       {CSS: "#112233"},
		"brand-light": {CSS: "#445566"},
		"ink":         {CSS: "#000"},
	}, extensions["colors"])
	assert.Equal(t, Value{CSS: "5rem", Companion: "1"}, extensions["fontSize"]["huge"])
	assert.Equal(t, Value{CSS: "0.5rem", Companion: "0.75rem"}, extensions["fontSize"]["tiny"])
	assert.Equal(t, Value{CSS: "60"}, extensions["zIndex"]["60"])
	assert.Equal(t, Value{CSS: "4.5rem"}, extensions["spacing"]["18"])
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
		path string
	}{
		{
			name: "category is not a mapping",
			raw:  map[string]any{"colors": "red"},
			path: "theme.colors",
		},
		{
			name: "extend is not a mapping",
			raw:  map[string]any{"extend": []any{"x"}},
			path: "theme.extend",
		},
		{
			name: "bool leaf",
			raw:  map[string]any{"extend": map[string]any{"colors": map[string]any{"brand": true}}},
			path: "theme.extend.colors.brand",
		},
		{
			name: "empty leaf",
			raw:  map[string]any{"spacing": map[string]any{"4": " "}},
			path: "theme.spacing.4",
		},
		{
			name: "list too long",
			raw:  map[string]any{"fontSize": map[string]any{"xl": []any{"1", "2", "3"}}},
			path: "theme.fontSize.xl",
		},
		{
			name: "bad companion",
			raw:  map[string]any{"fontSize": map[string]any{"xl": []any{"1rem", []any{"x"}}}},
			path: "theme.fontSize.xl[1]",
		},
		{
			name: "null category",
			raw:  map[string]any{"extend": map[string]any{"colors": nil}},
			path: "theme.extend.colors",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Decode(tt.raw)
			require.Error(t, err)

			var pathErr *PathError
			require.ErrorAs(t, err, &pathErr)
			assert.Equal(t, tt.path, pathErr.Path)
		})
	}
}
