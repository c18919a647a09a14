package atomcss

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/atomcss/internal/utility"
)

func TestCompileLayering(t *testing.T) {
	cfg := Config{
		DarkMode: "class",
		Minify:   true,
		Theme: map[string]any{
			"extend": map[string]any{
				"colors": map[string]any{"brand": "#112233"},
			},
		},
	}
	sources := []Source{{Path: "index.html", Content: []byte(`<div class="bg-brand dark:bg-black sm:p-4">`)}}

	res, err := Compile(context.Background(), sources, cfg)
	require.NoError(t, err)

	assert.Equal(t,
		`.bg-brand{background-color:#112233}`+
			`@media (min-width: 640px){.sm\:p-4{padding:1rem}}`+
			`.dark .dark\:bg-black{background-color:#000000}`,
		res.CSS)
	assert.Equal(t, 3, res.Rules)
	assert.Equal(t, 3, res.Tokens)
	assert.Empty(t, res.Diagnostics)
	assert.NotEmpty(t, res.RunID)
}

func TestCompileNegativeMargin(t *testing.T) {
	res, err := Compile(context.Background(), []Source{
		{Path: "a.html", Content: []byte(`<p class="-mt-4">`)},
	}, Config{Minify: true})
	require.NoError(t, err)
	assert.Equal(t, `.-mt-4{margin-top:-1rem}`, res.CSS)
}

func TestCompileDeduplicatesAcrossFiles(t *testing.T) {
	res, err := Compile(context.Background(), []Source{
		{Path: "a.html", Content: []byte(`<p class="p-2">`)},
		{Path: "b.html", Content: []byte(`<span class="p-2 p-2">`)},
	}, Config{Minify: true})
	require.NoError(t, err)

	require.Len(t, res.Stylesheet.Rules, 1)
	assert.Equal(t, `.p-2{padding:0.5rem}`, res.CSS)
}

func TestCompileDeterministic(t *testing.T) {
	files := []Source{
		{Path: "a.html", Content: []byte(`<div class="md:flex hover:bg-red-500 p-4 dark:text-white">`)},
		{Path: "b.go", Content: []byte(`var c = "sm:w-1/2 text-lg focus:ring-2"`)},
		{Path: "c.html", Content: []byte(`<div class="lg:p-8 w-[calc(100%-2rem)] bg-black/50">`)},
	}
	reversed := []Source{files[2], files[1], files[0]}

	first, err := Compile(context.Background(), files, Config{})
	require.NoError(t, err)
	second, err := Compile(context.Background(), reversed, Config{Workers: 1})
	require.NoError(t, err)

	assert.Equal(t, first.CSS, second.CSS)
	assert.Equal(t, first.Rules, second.Rules)
}

func TestCompileIdempotentWithCache(t *testing.T) {
	e, err := New(Config{Minify: true})
	require.NoError(t, err)

	sources := []Source{{Path: "a.html", Content: []byte(`<p class="p-4 m-2">`)}}

	first, err := e.Compile(context.Background(), sources)
	require.NoError(t, err)
	assert.Equal(t, 0, first.CacheHits)

	second, err := e.Compile(context.Background(), sources)
	require.NoError(t, err)
	assert.Equal(t, 1, second.CacheHits)
	assert.Equal(t, first.CSS, second.CSS)

	assert.True(t, e.Invalidate("a.html"))
	third, err := e.Compile(context.Background(), sources)
	require.NoError(t, err)
	assert.Equal(t, 0, third.CacheHits)
	assert.Equal(t, first.CSS, third.CSS)
}

func TestCompileChangedContentMissesCache(t *testing.T) {
	e, err := New(Config{Minify: true})
	require.NoError(t, err)

	_, err = e.Compile(context.Background(), []Source{{Path: "a.html", Content: []byte(`p-4`)}})
	require.NoError(t, err)

	res, err := e.Compile(context.Background(), []Source{{Path: "a.html", Content: []byte(`p-2`)}})
	require.NoError(t, err)
	assert.Equal(t, 0, res.CacheHits)
	assert.Equal(t, `.p-2{padding:0.5rem}`, res.CSS)
}

func TestCompileDiagnostics(t *testing.T) {
	res, err := Compile(context.Background(), []Source{
		{Path: "bad.html", Content: []byte{'p', '-', '4', ' ', 0xff, 0xfe}},
		{Path: "ok.html", Content: []byte("<p class=\"p-4\">\n<p class=\"wat:p-4 w-[1px;color:red]\">")},
	}, Config{Minify: true})
	require.NoError(t, err)

	assert.Equal(t, `.p-4{padding:1rem}`, res.CSS)
	require.Len(t, res.Diagnostics, 3)

	assert.Equal(t, "bad.html", res.Diagnostics[0].Path)
	assert.Equal(t, SeverityWarning, res.Diagnostics[0].Severity)
	assert.Contains(t, res.Diagnostics[0].Message, "UTF-8")

	assert.Equal(t, "ok.html", res.Diagnostics[1].Path)
	assert.Equal(t, 2, res.Diagnostics[1].Line)
	assert.Equal(t, "w-[1px;color:red]", res.Diagnostics[1].Token)
	assert.Contains(t, res.Diagnostics[1].Message, "invalid arbitrary value")

	assert.Equal(t, "wat:p-4", res.Diagnostics[2].Token)
	assert.Contains(t, res.Diagnostics[2].Message, "unknown variant")
	assert.Equal(t, SeverityWarning, res.Diagnostics[2].Severity)
}

func TestCompileStateAndDarkNesting(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  string
	}{
		{
			name:  "dark outside hover",
			token: "dark:hover:bg-black",
			want:  `.dark .dark\:hover\:bg-black:hover{background-color:#000000}`,
		},
		{
			name:  "hover outside dark",
			token: "hover:dark:bg-black",
			want:  `.dark .hover\:dark\:bg-black:hover{background-color:#000000}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Compile(context.Background(), []Source{
				{Path: "a.html", Content: []byte(tt.token)},
			}, Config{DarkMode: "class", Minify: true})
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.CSS)
		})
	}
}

func TestCompileMediaDarkMode(t *testing.T) {
	res, err := Compile(context.Background(), []Source{
		{Path: "a.html", Content: []byte(`dark:text-white`)},
	}, Config{Minify: true})
	require.NoError(t, err)
	assert.Equal(t, `@media (prefers-color-scheme: dark){.dark\:text-white{color:#ffffff}}`, res.CSS)
}

func TestCompileSafelist(t *testing.T) {
	res, err := Compile(context.Background(), nil, Config{
		Minify:   true,
		Safelist: []string{"p-4", "not-a-utility"},
	})
	require.NoError(t, err)

	assert.Equal(t, `.p-4{padding:1rem}`, res.CSS)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, "safelist", res.Diagnostics[0].Path)
	assert.Equal(t, "not-a-utility", res.Diagnostics[0].Token)
}

func TestCompileLineClampPlugin(t *testing.T) {
	src := []Source{{Path: "a.html", Content: []byte(`line-clamp-3 line-clamp-none`)}}

	without, err := Compile(context.Background(), src, Config{Minify: true})
	require.NoError(t, err)
	assert.Empty(t, without.CSS)

	with, err := Compile(context.Background(), src, Config{Minify: true, Plugins: []string{"line-clamp"}})
	require.NoError(t, err)
	assert.Equal(t,
		`.line-clamp-3{overflow:hidden;display:-webkit-box;-webkit-box-orient:vertical;-webkit-line-clamp:3}`+
			`.line-clamp-none{overflow:visible;display:block;-webkit-box-orient:horizontal;-webkit-line-clamp:none}`,
		with.CSS)
}

func TestCustomPlugin(t *testing.T) {
	tab := PluginFunc(func(r Registrar) error {
		return r.RegisterUtility(Template{
			Name:       "tab",
			Categories: []string{"spacing"},
			Declare: func(v ThemeValue) []Declaration {
				return []Declaration{{Property: "tab-size", Value: v.CSS}}
			},
		})
	})

	e, err := New(Config{Minify: true, Plugins: []string{"tab"}}, WithPlugin("tab", tab))
	require.NoError(t, err)

	res, err := e.Compile(context.Background(), []Source{{Path: "a.html", Content: []byte("tab-4")}})
	require.NoError(t, err)
	assert.Equal(t, `.tab-4{tab-size:1rem}`, res.CSS)
}

func TestNewConfigErrors(t *testing.T) {
	failing := PluginFunc(func(r Registrar) error {
		return errors.New("boom")
	})

	tests := []struct {
		name     string
		cfg      Config
		wantPath string
	}{
		{
			name:     "invalid dark mode",
			cfg:      Config{DarkMode: "sometimes"},
			wantPath: "darkMode",
		},
		{
			name:     "negative workers",
			cfg:      Config{Workers: -1},
			wantPath: "workers",
		},
		{
			name:     "empty content glob",
			cfg:      Config{Content: []string{"src/**/*.html", ""}},
			wantPath: "content[1]",
		},
		{
			name:     "bad content glob",
			cfg:      Config{Content: []string{"src/[a-"}},
			wantPath: "content[0]",
		},
		{
			name:     "unknown plugin",
			cfg:      Config{Plugins: []string{"line-clamp", "typography"}},
			wantPath: "plugins[1]",
		},
		{
			name:     "failing plugin",
			cfg:      Config{Plugins: []string{"failing"}},
			wantPath: "plugins[0]",
		},
		{
			name: "malformed theme value",
			cfg: Config{Theme: map[string]any{
				"colors": map[string]any{"brand": true},
			}},
			wantPath: "theme.colors.brand",
		},
		{
			name: "malformed extension",
			cfg: Config{Extend: map[string]any{
				"spacing": map[string]any{"huge": ""},
			}},
			wantPath: "theme.extend.spacing.huge",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg, WithPlugin("failing", failing))
			require.Error(t, err)

			var cerr *ConfigError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, tt.wantPath, cerr.Path)
		})
	}
}

func TestRegistrationFrozenAfterNew(t *testing.T) {
	var captured Registrar
	grab := PluginFunc(func(r Registrar) error {
		captured = r
		return nil
	})

	_, err := New(Config{Plugins: []string{"grab"}}, WithPlugin("grab", grab))
	require.NoError(t, err)

	err = captured.RegisterStatic("late", Declaration{Property: "color", Value: "red"})
	assert.ErrorIs(t, err, utility.ErrFrozen)
}

func TestExtendMergesWithThemeExtend(t *testing.T) {
	res, err := Compile(context.Background(), []Source{
		{Path: "a.html", Content: []byte("bg-brand bg-accent p-4")},
	}, Config{
		Minify: true,
		Theme: map[string]any{
			"extend": map[string]any{"colors": map[string]any{"brand": "#112233"}},
		},
		Extend: map[string]any{"colors": map[string]any{"accent": "#445566"}},
	})
	require.NoError(t, err)
	assert.Equal(t, `.p-4{padding:1rem}.bg-accent{background-color:#445566}.bg-brand{background-color:#112233}`, res.CSS)
}

func TestCompileCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := Compile(ctx, []Source{{Path: "a.html", Content: []byte("p-4")}}, Config{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res)
}

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"web/index.html":        `<div class="p-4 sm:p-8">`,
		"web/app.go":            `var cls = "flex items-center" // p-99`,
		"web/vendor/lib.html":   `<div class="m-4">`,
		"web/ignored/skip.html": `<div class="m-8">`,
		"web/static/app.css":    `.stale{}`,
		".gitignore":            "web/ignored/\n",
	})

	e, err := New(Config{
		BaseDir:   dir,
		Content:   []string{"web/**/*.{html,go,css}", "!web/vendor/**"},
		Output:    "web/static/app.css",
		CachePath: ".atomcss-cache.json",
		Minify:    true,
	})
	require.NoError(t, err)

	res, err := e.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.FilesScanned)
	assert.Empty(t, res.Diagnostics)

	written, err := os.ReadFile(filepath.Join(dir, "web/static/app.css"))
	require.NoError(t, err)
	assert.Equal(t, res.CSS, string(written))
	assert.Equal(t,
		`.flex{display:flex}.items-center{align-items:center}.p-4{padding:1rem}`+
			`@media (min-width: 640px){.sm\:p-8{padding:2rem}}`,
		res.CSS)

	_, err = os.Stat(filepath.Join(dir, ".atomcss-cache.json"))
	require.NoError(t, err)

	reloaded, err := New(e.Config())
	require.NoError(t, err)
	again, err := reloaded.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, again.CacheHits)
	assert.Equal(t, res.CSS, again.CSS)
}

func TestBuildReportsRemovedFiles(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.html": `p-4`,
		"b.html": `m-2`,
	})

	e, err := New(Config{BaseDir: dir, Content: []string{"*.html"}, Minify: true})
	require.NoError(t, err)

	_, err = e.Build(context.Background())
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(dir, "b.html")))
	res, err := e.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `.p-4{padding:1rem}`, res.CSS)
	assert.Equal(t, 1, res.CacheHits)
}

func TestBuildUnwritableOutput(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.html":  `p-4`,
		"blocker": "not a directory",
	})

	e, err := New(Config{BaseDir: dir, Content: []string{"*.html"}, Output: "blocker/app.css"})
	require.NoError(t, err)

	_, err = e.Build(context.Background())
	var oerr *OutputError
	require.ErrorAs(t, err, &oerr)
	assert.Equal(t, filepath.Join(dir, "blocker/app.css"), oerr.Path)
}

func TestBuildCancelledWritesNothing(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.html": `p-4`})

	e, err := New(Config{BaseDir: dir, Content: []string{"*.html"}, Output: "out.css"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = e.Build(ctx)
	require.ErrorIs(t, err, context.Canceled)

	_, err = os.Stat(filepath.Join(dir, "out.css"))
	assert.True(t, os.IsNotExist(err))
}

func TestWriteDiagnosticsJSON(t *testing.T) {
	diags := []Diagnostic{
		{Path: "a.html", Line: 3, Token: "wat:p-4", Severity: SeverityWarning, Message: `unknown variant in "wat:p-4"`},
		{Path: "b.html", Severity: SeverityError, Message: "failed to read file: permission denied"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteDiagnosticsJSON(&buf, diags))

	var out JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "1.0", out.Version)
	assert.Equal(t, JSONSummary{Total: 2, Errors: 1, Warnings: 1}, out.Summary)
	assert.Equal(t, diags, out.Diagnostics)
	assert.True(t, strings.Contains(buf.String(), `"file": "a.html"`))
}

func TestWriteDiagnosticsJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDiagnosticsJSON(&buf, nil))
	assert.Contains(t, buf.String(), `"diagnostics": []`)
}
