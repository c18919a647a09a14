package atomcss

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yacobolo/atomcss/internal/cache"
	"github.com/yacobolo/atomcss/internal/css"
	"github.com/yacobolo/atomcss/internal/emit"
	"github.com/yacobolo/atomcss/internal/scanner"
	"github.com/yacobolo/atomcss/internal/theme"
	"github.com/yacobolo/atomcss/internal/utility"
	"github.com/yacobolo/atomcss/internal/variant"
)

// Stylesheet is the ordered, deduplicated rule list a build produces.
type Stylesheet = emit.Stylesheet

// Source is one file's content, scanned in memory.
type Source struct {
	Path    string
	Content []byte
}

// Result is the outcome of one build.
type Result struct {
	Stylesheet   *Stylesheet
	CSS          string
	Diagnostics  []Diagnostic
	FilesScanned int
	Tokens       int // Distinct utilities compiled
	Rules        int
	CacheHits    int
	RunID        string
	Duration     time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithPlugin makes a plugin available to Config.Plugins under name.
func WithPlugin(name string, p Plugin) Option {
	return func(e *Engine) {
		e.plugins[name] = p
	}
}

// Engine compiles content into stylesheets. Its vocabulary is fixed at
// construction; Compile may be called concurrently, Build calls are
// serialized.
type Engine struct {
	cfg        Config
	logger     *slog.Logger
	plugins    map[string]Plugin
	theme      *theme.Theme
	vocab      *vocabulary
	scanner    *scanner.Scanner
	cache      *cache.Cache
	configHash uint64

	buildMu sync.Mutex
}

// New validates cfg, resolves the theme, builds the variant and utility
// vocabulary and runs plugin registration. Any failure is a *ConfigError.
func New(cfg Config, opts ...Option) (*Engine, error) {
	cfg = cfg.withDefaults()

	e := &Engine{
		cfg:     cfg,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		plugins: builtinPlugins(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	th, err := resolveTheme(cfg)
	if err != nil {
		return nil, err
	}
	e.theme = th

	set := variant.NewSet(th.Screens(), variant.DarkStrategy(cfg.DarkMode))
	registry := utility.NewRegistry(set)
	for i, name := range cfg.Plugins {
		path := fmt.Sprintf("plugins[%d]", i)
		p, ok := e.plugins[name]
		if !ok {
			return nil, &ConfigError{Path: path, Err: fmt.Errorf("unknown plugin %q", name)}
		}
		if err := p.Register(registry); err != nil {
			return nil, &ConfigError{Path: path, Err: fmt.Errorf("plugin %q: %w", name, err)}
		}
	}
	registry.Freeze()

	e.vocab = &vocabulary{registry: registry, theme: th}
	e.scanner = scanner.New(e.vocab)
	e.configHash = configHash(th, cfg)

	e.cache = cache.New(e.configHash)
	if cfg.CachePath != "" {
		path := resolvePath(cfg.BaseDir, cfg.CachePath)
		c, err := loadCache(path, e.configHash)
		if err != nil {
			e.logger.Warn("discarding unreadable cache", "path", path, "error", err)
		}
		e.cache = c
		e.logger.Debug("loaded cache", "path", path, "entries", c.Len())
	}

	return e, nil
}

func resolveTheme(cfg Config) (*theme.Theme, error) {
	overrides, extensions, err := theme.Decode(cfg.Theme)
	if err != nil {
		return nil, themeError(err)
	}

	if len(cfg.Extend) > 0 {
		_, more, err := theme.Decode(map[string]any{"extend": cfg.Extend})
		if err != nil {
			return nil, themeError(err)
		}
		for cat, values := range more {
			if extensions[cat] == nil {
				extensions[cat] = values
				continue
			}
			for k, v := range values {
				extensions[cat][k] = v
			}
		}
	}

	return theme.Resolve(theme.Defaults(), overrides, extensions), nil
}

func themeError(err error) error {
	var pe *theme.PathError
	if errors.As(err, &pe) {
		return &ConfigError{Path: pe.Path, Err: errors.New(pe.Msg)}
	}
	return &ConfigError{Path: "theme", Err: err}
}

// configHash fingerprints everything that changes what a token compiles to.
func configHash(th *theme.Theme, cfg Config) uint64 {
	h := xxhash.New()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], th.Hash())
	_, _ = h.Write(buf[:])
	_, _ = h.WriteString("darkMode=" + cfg.DarkMode + "\n")
	for _, p := range cfg.Plugins {
		_, _ = h.WriteString("plugin=" + p + "\n")
	}
	return h.Sum64()
}

// Theme returns the resolved theme.
func (e *Engine) Theme() *theme.Theme {
	return e.theme
}

// Config returns the configuration with defaults applied.
func (e *Engine) Config() Config {
	return e.cfg
}

// Invalidate drops path's cached scan so the next build rescans it. It
// reports whether anything was cached.
func (e *Engine) Invalidate(path string) bool {
	return e.cache.Invalidate(filepath.ToSlash(path))
}

type fileScan struct {
	tokens []string
	notes  []scanner.Note
	err    error
	hit    bool
}

// Compile scans sources and assembles the stylesheet for every utility they
// use plus the safelist. It does not touch the filesystem.
func (e *Engine) Compile(ctx context.Context, sources []Source) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := e.logger.With("run", runID)

	scans := make([]fileScan, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			scans[i] = e.scan(src)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{FilesScanned: len(sources), RunID: runID}
	seen := make(map[string]struct{})
	var tokens []string
	add := func(tok string) {
		if _, ok := seen[tok]; !ok {
			seen[tok] = struct{}{}
			tokens = append(tokens, tok)
		}
	}

	for i, s := range scans {
		path := sources[i].Path
		if s.err != nil {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Path:     path,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("file skipped: %v", s.err),
			})
			continue
		}
		if s.hit {
			res.CacheHits++
		}
		for _, tok := range s.tokens {
			add(tok)
		}
		for _, n := range s.notes {
			res.Diagnostics = append(res.Diagnostics, noteDiagnostic(path, n))
		}
	}

	for _, tok := range e.cfg.Safelist {
		if e.vocab.compile(tok).verdict != scanner.Accept {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Path:     "safelist",
				Token:    tok,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("safelisted class %q is not a utility", tok),
			})
			continue
		}
		add(tok)
	}
	sort.Strings(tokens)

	collector := emit.NewCollector()
	g, gctx = errgroup.WithContext(ctx)
	for _, chunk := range chunks(tokens, e.cfg.Workers) {
		chunk := chunk
		g.Go(func() error {
			rules := make([]css.Rule, 0, len(chunk))
			for _, tok := range chunk {
				if err := gctx.Err(); err != nil {
					return err
				}
				if c := e.vocab.compile(tok); c.verdict == scanner.Accept {
					rules = append(rules, c.rule)
				}
			}
			collector.Add(rules...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res.Stylesheet = collector.Stylesheet()
	res.CSS = res.Stylesheet.CSS(e.cfg.Minify)
	res.Tokens = len(tokens)
	res.Rules = len(res.Stylesheet.Rules)
	sortDiagnostics(res.Diagnostics)
	res.Duration = time.Since(start)

	log.Debug("compiled",
		"files", res.FilesScanned,
		"tokens", res.Tokens,
		"rules", res.Rules,
		"cache_hits", res.CacheHits,
		"diagnostics", len(res.Diagnostics),
		"duration", res.Duration,
	)
	return res, nil
}

// scan returns one source's tokens, from the cache when its content is
// unchanged.
func (e *Engine) scan(src Source) fileScan {
	h := cache.Hash(src.Content)
	if entry, ok := e.cache.Lookup(src.Path, h); ok {
		return fileScan{tokens: entry.Tokens, notes: entry.Notes, hit: true}
	}

	res, err := e.scanner.Scan(src.Content, src.Path)
	if err != nil {
		return fileScan{err: err}
	}
	e.cache.Store(src.Path, cache.Entry{Hash: h, Tokens: res.Tokens, Notes: res.Notes})
	return fileScan{tokens: res.Tokens, notes: res.Notes}
}

// Build discovers the configured content, compiles it and writes the
// stylesheet to Config.Output. With no Output the result is only returned.
// A cancelled build writes nothing.
func (e *Engine) Build(ctx context.Context) (*Result, error) {
	e.buildMu.Lock()
	defer e.buildMu.Unlock()

	output := resolvePath(e.cfg.BaseDir, e.cfg.Output)
	cachePath := resolvePath(e.cfg.BaseDir, e.cfg.CachePath)

	paths, stats, err := discover(e.cfg.BaseDir, e.cfg.Content, output, cachePath)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("discovered content",
		"files", len(paths),
		"discovered", stats.FilesDiscovered,
		"skipped", stats.FilesSkipped,
	)

	sources, readDiags, err := e.read(ctx, paths)
	if err != nil {
		return nil, err
	}

	live := make(map[string]struct{}, len(sources))
	for _, src := range sources {
		live[src.Path] = struct{}{}
	}
	if n := e.cache.Prune(live); n > 0 {
		e.logger.Debug("pruned cache", "entries", n)
	}

	res, err := e.Compile(ctx, sources)
	if err != nil {
		return nil, err
	}
	if len(readDiags) > 0 {
		res.Diagnostics = append(res.Diagnostics, readDiags...)
		sortDiagnostics(res.Diagnostics)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if output != "" {
		if err := writeFileAtomic(output, []byte(res.CSS)); err != nil {
			return nil, &OutputError{Path: output, Err: err}
		}
	}
	if cachePath != "" {
		if err := saveCache(cachePath, e.cache); err != nil {
			e.logger.Warn("failed to save cache", "error", err)
		}
	}

	e.logger.Info("build complete",
		"run", res.RunID,
		"files", res.FilesScanned,
		"rules", res.Rules,
		"cache_hits", res.CacheHits,
		"cached_files", e.cache.Len(),
		"output", output,
	)
	return res, nil
}

// read loads paths in parallel. Unreadable files become diagnostics.
func (e *Engine) read(ctx context.Context, paths []string) ([]Source, []Diagnostic, error) {
	sources := make([]Source, len(paths))
	failed := make([]error, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			content, err := os.ReadFile(resolvePath(e.cfg.BaseDir, filepath.FromSlash(path)))
			if err != nil {
				failed[i] = err
				return nil
			}
			sources[i] = Source{Path: path, Content: content}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var (
		out   = make([]Source, 0, len(paths))
		diags []Diagnostic
	)
	for i, path := range paths {
		if failed[i] != nil {
			diags = append(diags, Diagnostic{
				Path:     path,
				Severity: SeverityError,
				Message:  fmt.Sprintf("failed to read file: %v", failed[i]),
			})
			continue
		}
		out = append(out, sources[i])
	}
	return out, diags, nil
}

// Compile builds a stylesheet from in-memory sources with a one-off engine.
// Output and CachePath are ignored.
func Compile(ctx context.Context, sources []Source, cfg Config) (*Result, error) {
	cfg.Output = ""
	cfg.CachePath = ""
	e, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return e.Compile(ctx, sources)
}

func chunks(tokens []string, n int) [][]string {
	if len(tokens) == 0 {
		return nil
	}
	if n < 1 {
		n = 1
	}
	size := (len(tokens) + n - 1) / n
	out := make([][]string, 0, n)
	for start := 0; start < len(tokens); start += size {
		end := min(start+size, len(tokens))
		out = append(out, tokens[start:end])
	}
	return out
}
