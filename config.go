package atomcss

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-playground/validator/v10"
)

// Config holds the settings for one compiler instance.
//
// Content globs, Output and CachePath are resolved against BaseDir unless
// they are absolute.
type Config struct {
	// DarkMode selects how "dark:" is expressed: "media" (the default) uses
	// prefers-color-scheme, "class" scopes rules under a .dark ancestor.
	DarkMode string `json:"darkMode" validate:"omitempty,oneof=media class"`

	// Content lists doublestar globs of files to scan. A leading "!"
	// excludes matches.
	Content []string `json:"content" validate:"dive,required"`

	// Theme replaces whole default categories. An "extend" key inside it
	// is merged into the defaults instead.
	Theme map[string]any `json:"theme"`

	// Extend adds keys to default categories.
	Extend map[string]any `json:"extend"`

	Plugins  []string `json:"plugins" validate:"dive,required"`
	Safelist []string `json:"safelist" validate:"dive,required"`

	Output    string `json:"output"`
	BaseDir   string `json:"baseDir"`
	Minify    bool   `json:"minify"`
	Workers   int    `json:"workers" validate:"gte=0,lte=1024"`
	CachePath string `json:"cache"`
}

// ConfigError reports a configuration problem. Path names the offending
// setting ("darkMode", "theme.colors.brand", "plugins[1]").
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid config: %v", e.Err)
	}
	return fmt.Sprintf("invalid config at %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// OutputError reports a stylesheet or cache destination that could not be
// written.
type OutputError struct {
	Path string
	Err  error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

func (e *OutputError) Unwrap() error {
	return e.Err
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the configuration without resolving the theme.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return &ConfigError{
				Path: strings.TrimPrefix(fe.Namespace(), "Config."),
				Err:  errors.New(validationMessage(fe)),
			}
		}
		return &ConfigError{Err: err}
	}

	for i, pattern := range c.Content {
		if !doublestar.ValidatePattern(strings.TrimPrefix(pattern, "!")) {
			return &ConfigError{
				Path: fmt.Sprintf("content[%d]", i),
				Err:  fmt.Errorf("invalid glob pattern %q", pattern),
			}
		}
	}

	return nil
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %q", fe.Param(), fe.Value())
	case "required":
		return "must not be empty"
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}

func (c Config) withDefaults() Config {
	if c.DarkMode == "" {
		c.DarkMode = "media"
	}
	if c.BaseDir == "" {
		c.BaseDir = "."
	}
	if c.Workers == 0 {
		c.Workers = runtime.NumCPU()
	}
	return c
}
