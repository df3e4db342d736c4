// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for cycenv.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"cycenv-cli/internal/config"
	"cycenv-cli/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables debug diagnostics on stderr
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string

	// cfg is the loaded configuration, populated by initRootConfig
	cfg = config.DefaultConfig()

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "cycenv",
		Short: "Cycle-relative task-environment resolver",
		Long: TitleStyle.Render("cycenv") + SubtitleStyle.Render(" - Cycle-relative task-environment resolver") + `

cycenv turns cycle-offset expressions and NAME=GLOB path templates into
exported environment variables for a scheduled task. Offsets are ISO 8601
durations applied to the task's current cycle point; the resulting point is
substituted into each glob, which is then expanded against the suite run
root.

Typical use inside a task's env-script step:

  eval "$(cycenv resolve --cycle-offset=-PT12H --path='PREV_DATA={point}/share/*')"

` + SubtitleStyle.Render("Examples:") + `
  cycenv resolve --cycle=2013-01-01T12:00Z --path='MY_PATH=etc/my-path/*'
  cycenv resolve --cycle-offset=-P1D --path='PREV={point}/output/**'
  cycenv config show            Show current configuration`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/cycenv/config.toml)")

	// Add subcommands
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(completionCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// initRootConfig reads the config file and CYCENV_* environment variables.
func initRootConfig() {
	loaded, err := config.Load(config.LoadOptions{ConfigFilePath: cfgFile})
	if err != nil {
		// Surface config loading problems, then continue on defaults so a
		// broken config file cannot take resolution down with it unless the
		// user explicitly pointed at it.
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
	} else {
		cfg = loaded
	}

	// Apply verbose from config if not set via flag
	if !verbose {
		verbose = cfg.UI.Verbose
	}

	log.SetOutput(os.Stderr)
	if verbose {
		log.SetLevel(log.DebugLevel)
	}
}

// formatErrorForDisplay formats an error for user display. ActionableErrors
// render with suggestions; verbose mode shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
