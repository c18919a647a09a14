package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/yacobolo/atomcss"
)

const defaultConfigPath = "atomcss.yaml"

var (
	k = koanf.New(".")

	// themeRaw is the config file's theme mapping as parsed, before koanf
	// splits keys such as "0.5" or "1/2" on its delimiter.
	themeRaw map[string]any
)

// listKeys are config keys whose environment values are comma-separated.
var listKeys = map[string]bool{
	"content":  true,
	"plugins":  true,
	"safelist": true,
}

// loadConfig loads configuration with precedence: flags > env > file > defaults.
// It must be called after cobra parses flags (in PreRunE or RunE).
func loadConfig(cmd *cobra.Command) error {
	// Resolve config file path from flag
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	// Load config file and env vars
	if err := loadConfigFromPath(configPath); err != nil {
		return err
	}

	// 3. CLI flags (highest precedence, only flags that were explicitly set)
	flags := cmd.Flags()
	if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
		if !f.Changed {
			return "", nil
		}
		return f.Name, posflag.FlagVal(flags, f)
	}), nil); err != nil {
		return fmt.Errorf("loading command flags: %w", err)
	}

	return nil
}

// loadConfigFromPath loads configuration from a file and environment variables.
// This is separated from loadConfig to allow testing without a cobra command.
func loadConfigFromPath(configPath string) error {
	// 1. Config file (lowest precedence among providers)
	if _, err := os.Stat(configPath); err == nil {
		parser := parserFor(configPath)
		provider := file.Provider(configPath)
		if err := k.Load(provider, parser); err != nil {
			return fmt.Errorf("loading config file %s: %w", configPath, err)
		}

		raw, err := provider.ReadBytes()
		if err != nil {
			return fmt.Errorf("reading config file %s: %w", configPath, err)
		}
		doc, err := parser.Unmarshal(raw)
		if err != nil {
			return fmt.Errorf("parsing config file %s: %w", configPath, err)
		}
		themeRaw = nil
		if theme, ok := doc["theme"]; ok && theme != nil {
			m, ok := theme.(map[string]any)
			if !ok {
				return fmt.Errorf("config file %s: theme must be a mapping, got %T", configPath, theme)
			}
			themeRaw = m
		}
	}

	// 2. Environment variables (ATOMCSS_* prefix)
	if err := k.Load(env.ProviderWithValue("ATOMCSS_", ".", func(key, value string) (string, interface{}) {
		// ATOMCSS_BUILD_OUTPUT -> build.output
		// ATOMCSS_DARK__MODE -> dark-mode
		// ATOMCSS_CONTENT=a,b -> content: [a, b]
		key = envKey(key)
		if listKeys[key] {
			return key, splitList(value)
		}
		return key, value
	}), nil); err != nil {
		return fmt.Errorf("loading environment variables: %w", err)
	}

	return nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, "ATOMCSS_"))
	return strings.NewReplacer("__", "-", "_", ".").Replace(s)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parserFor picks the koanf parser by file extension.
func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return TOMLParser()
	default:
		return yaml.Parser()
	}
}

// buildConfig constructs the library's Config struct from koanf state.
func buildConfig() atomcss.Config {
	config := atomcss.Config{
		DarkMode:  getStringWithFallback("dark-mode", "darkMode", "media"),
		BaseDir:   getStringWithFallback("base-dir", "base-dir", "."),
		Output:    getStringWithFallback("output", "build.output", ""),
		Minify:    getBoolWithFallback("minify", "build.minify", false),
		Workers:   getIntWithFallback("workers", "build.workers", 0),
		CachePath: getStringWithFallback("cache", "build.cache", ""),
		Plugins:   k.Strings("plugins"),
		Safelist:  k.Strings("safelist"),
		Theme:     themeRaw,
	}

	if content := k.Strings("content"); len(content) > 0 {
		config.Content = content
	} else {
		config.Content = []string{"**/*.{html,templ}"}
	}

	return config
}

// reportOptions are the build command's output settings.
type reportOptions struct {
	Format    string
	Strict    bool
	MaxSame   int
	Quiet     bool
	Verbose   bool
	UseColors bool
}

func buildReportOptions() reportOptions {
	return reportOptions{
		Format:    getStringWithFallback("diagnostics-format", "build.diagnostics-format", "text"),
		Strict:    getBoolWithFallback("strict", "build.strict", false),
		MaxSame:   getIntWithFallback("max-same-diagnostics", "build.max-same-diagnostics", 0),
		Quiet:     getBoolWithFallback("quiet", "quiet", false),
		Verbose:   getBoolWithFallback("verbose", "verbose", false),
		UseColors: getBoolWithFallback("color", "color", false),
	}
}

// getStringWithFallback checks the flag key first, then the config file key, then returns the default.
func getStringWithFallback(flagKey, configKey, defaultVal string) string {
	if v := k.String(flagKey); v != "" {
		return v
	}
	if v := k.String(configKey); v != "" {
		return v
	}
	return defaultVal
}

// getBoolWithFallback checks the flag key first, then the config file key, then returns the default.
func getBoolWithFallback(flagKey, configKey string, defaultVal bool) bool {
	if k.Exists(flagKey) {
		return k.Bool(flagKey)
	}
	if k.Exists(configKey) {
		return k.Bool(configKey)
	}
	return defaultVal
}

// getIntWithFallback checks the flag key first, then the config file key, then returns the default.
func getIntWithFallback(flagKey, configKey string, defaultVal int) int {
	if k.Exists(flagKey) {
		return k.Int(flagKey)
	}
	if k.Exists(configKey) {
		return k.Int(configKey)
	}
	return defaultVal
}
