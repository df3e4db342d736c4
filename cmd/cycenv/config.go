// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"cycenv-cli/internal/config"
)

// defaultConfigTOML is the content written by `cycenv config init`.
const defaultConfigTOML = `# cycenv configuration

# Run root that path-template globs expand against.
# Empty means the invoking task's working directory.
root_dir = ""

# Interpret zone-less cycle points in UTC instead of local time.
utc = false

# Bind an empty value instead of failing when a glob matches nothing.
empty_ok = false

# Join the run root onto each resolved match.
absolute_paths = false

# Join convention for multiple matches: "space" or "newline".
join = "space"

[ui]
# Emit debug diagnostics on stderr.
verbose = false
`

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage cycenv configuration",
	Long: `Manage cycenv configuration.

Configuration is stored in:
  - Linux: ~/.config/cycenv/config.toml
  - macOS: ~/Library/Application Support/cycenv/config.toml
  - Windows: %APPDATA%\cycenv\config.toml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfigFile()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ConfigFilePath()
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	})
}

func showConfig() error {
	headerStyle := TitleStyle
	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Println(headerStyle.Render("Current Configuration"))
	fmt.Println()

	path, err := config.ConfigFilePath()
	if err == nil && fileExists(path) {
		fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), path)
	} else {
		fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Println()

	rootDir := cfg.RootDir
	if rootDir == "" {
		rootDir = "(working directory)"
	}
	fmt.Printf("%s: %s\n", keyStyle.Render("root_dir"), valueStyle.Render(rootDir))
	fmt.Printf("%s: %s\n", keyStyle.Render("utc"), valueStyle.Render(fmt.Sprintf("%v", cfg.UTC)))
	fmt.Printf("%s: %s\n", keyStyle.Render("empty_ok"), valueStyle.Render(fmt.Sprintf("%v", cfg.EmptyOK)))
	fmt.Printf("%s: %s\n", keyStyle.Render("absolute_paths"), valueStyle.Render(fmt.Sprintf("%v", cfg.AbsolutePaths)))
	fmt.Printf("%s: %s\n", keyStyle.Render("join"), valueStyle.Render(string(cfg.Join)))

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("ui"))
	fmt.Printf("  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	return nil
}

func initConfigFile() error {
	path, err := config.ConfigFilePath()
	if err != nil {
		return err
	}

	if fileExists(path) {
		fmt.Printf("%s Configuration file already exists: %s\n", WarningStyle.Render("!"), path)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigTOML), 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	fmt.Printf("%s Created %s\n", SuccessStyle.Render("✓"), path)
	return nil
}

// fileExists reports whether path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
