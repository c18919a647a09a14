package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default atomcss.yaml config file",
	Long:  `Create an atomcss.yaml configuration file in the current directory with sensible defaults.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")

		if _, err := os.Stat(defaultConfigPath); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", defaultConfigPath)
		}

		if err := os.WriteFile(defaultConfigPath, []byte(defaultConfig), 0644); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", defaultConfigPath)
		return nil
	},
}

const defaultConfig = `# atomcss configuration
# Docs: https://github.com/yacobolo/atomcss

# Files to scan for utility classes. Prefix a pattern with ! to exclude.
content:
  - "**/*.templ"
  - "**/*.html"
  - "!node_modules/**"

darkMode: media           # media | class
plugins: []               # line-clamp
safelist: []

# Theme categories listed here replace the defaults; keys under extend are
# added to them.
theme:
  extend:
    colors:
      brand:
        DEFAULT: "#3b82f6"
        dark: "#1d4ed8"

# Build settings
build:
  output: web/static/app.css
  minify: false
  workers: 0              # 0 = number of CPUs
  cache: .atomcss-cache.json
  diagnostics-format: text  # text | json
  strict: false
  max-same-diagnostics: 0   # 0 = unlimited
`

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing config file")
}
