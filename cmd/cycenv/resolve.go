// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"cycenv-cli/internal/issue"
	"cycenv-cli/internal/watch"
	"cycenv-cli/pkg/cyclepoint"
	"cycenv-cli/pkg/taskenv"
)

// CyclePointEnvVar is the per-task environment variable the external
// scheduler sets to the task's current cycle point. --cycle overrides it.
const CyclePointEnvVar = "CYCENV_CYCLE_POINT"

var (
	// resolve flags
	resolveCycle    string
	resolveOffsets  []string
	resolvePaths    []string
	resolveUTC      bool
	resolveRoot     string
	resolveEmptyOK  bool
	resolveAbsolute bool
	resolveJoin     string
	resolveWait     time.Duration
	resolveNoExport bool

	// resolveCmd computes and prints the task environment.
	resolveCmd = &cobra.Command{
		Use:   "resolve",
		Short: "Resolve cycle-relative path templates into environment variables",
		Long: `Resolve cycle-relative path templates into exported environment variables.

Each --cycle-offset applies cumulatively, in order, to the current cycle
point. Path templates are NAME=GLOB pairs; {point} in a glob substitutes the
final offset point (directory form, e.g. 20130101T1200Z) and {point[N]} the
N-th point of the offset history (0 = the current cycle point). Globs expand
against the run root; matches are sorted so output is reproducible.

On any failure nothing is printed and the exit status is non-zero, so a
task's env-script step aborts before its script runs.

Examples:
  # Paths from the previous cycle, 12 hours back:
  cycenv resolve --cycle-offset=-PT12H --path='PREV_OUT={point}/share/output/*'

  # Two offsets composing back to the current point:
  cycenv resolve --cycle-offset=+PT12H --cycle-offset=-PT12H --path='HERE=etc/*'`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings := resolveSettingsFromFlags(cmd)
			if err := runResolve(cmd.Context(), settings, os.Stdout); err != nil {
				return &ExitError{Code: 1, Err: displayError(err, verbose)}
			}
			return nil
		},
	}
)

func init() {
	resolveCmd.Flags().StringVar(&resolveCycle, "cycle", "",
		"current cycle point (default $"+CyclePointEnvVar+")")
	resolveCmd.Flags().StringArrayVar(&resolveOffsets, "cycle-offset", nil,
		"cycle offset as an ISO 8601 duration with optional sign (repeatable)")
	resolveCmd.Flags().StringArrayVar(&resolvePaths, "path", nil,
		"path template NAME=GLOB (repeatable)")
	resolveCmd.Flags().BoolVar(&resolveUTC, "utc", false,
		"interpret zone-less cycle points in UTC")
	resolveCmd.Flags().StringVar(&resolveRoot, "root", "",
		"run root globs expand against (default from config, else the working directory)")
	resolveCmd.Flags().BoolVar(&resolveEmptyOK, "empty-ok", false,
		"bind an empty value instead of failing when a glob matches nothing")
	resolveCmd.Flags().BoolVar(&resolveAbsolute, "absolute", false,
		"join the run root onto each match")
	resolveCmd.Flags().StringVar(&resolveJoin, "join", "",
		`join convention for multiple matches: "space" or "newline"`)
	resolveCmd.Flags().DurationVar(&resolveWait, "wait", 0,
		"watch the run root this long for a missing path to appear before failing")
	resolveCmd.Flags().BoolVar(&resolveNoExport, "no-export", false,
		"emit NAME=value lines without the export prefix")
}

// resolveSettings carries one resolution's effective inputs after config and
// flag layering.
type resolveSettings struct {
	Cycle    string
	Offsets  []string
	Paths    []string
	UTC      bool
	Root     string
	EmptyOK  bool
	Absolute bool
	Join     taskenv.JoinMode
	Wait     time.Duration
	Export   bool
}

// resolveSettingsFromFlags layers config defaults under explicitly-set flags.
func resolveSettingsFromFlags(cmd *cobra.Command) resolveSettings {
	s := resolveSettings{
		Cycle:    resolveCycle,
		Offsets:  resolveOffsets,
		Paths:    resolvePaths,
		UTC:      cfg.UTC,
		Root:     cfg.RootDir,
		EmptyOK:  cfg.EmptyOK,
		Absolute: cfg.AbsolutePaths,
		Join:     cfg.Join,
		Wait:     resolveWait,
		Export:   !resolveNoExport,
	}
	if cmd.Flags().Changed("utc") {
		s.UTC = resolveUTC
	}
	if cmd.Flags().Changed("root") {
		s.Root = resolveRoot
	}
	if cmd.Flags().Changed("empty-ok") {
		s.EmptyOK = resolveEmptyOK
	}
	if cmd.Flags().Changed("absolute") {
		s.Absolute = resolveAbsolute
	}
	if cmd.Flags().Changed("join") {
		s.Join = taskenv.JoinMode(resolveJoin)
	}
	return s
}

// runResolve performs a full resolution and writes the assignments to stdout.
// Nothing is written unless every template resolves.
func runResolve(ctx context.Context, s resolveSettings, stdout io.Writer) error {
	if err := s.Join.Validate(); s.Join != "" && err != nil {
		return issue.NewErrorContext().
			WithOperation("validate join convention").
			WithResource(string(s.Join)).
			WithSuggestion(`Use --join=space or --join=newline`).
			Wrap(err).
			Build()
	}

	cycle := s.Cycle
	if cycle == "" {
		cycle = os.Getenv(CyclePointEnvVar)
	}
	if cycle == "" {
		return issue.NewErrorContext().
			WithOperation("determine current cycle point").
			WithSuggestion("Pass --cycle=<ISO 8601 timestamp>").
			WithSuggestion("Or run under a scheduler that sets $" + CyclePointEnvVar).
			Wrap(&cyclepoint.InvalidCyclePointError{Value: ""}).
			Build()
	}

	current, err := cyclepoint.Parse(cycle, s.UTC)
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("parse current cycle point").
			WithResource(cycle).
			WithSuggestion("Cycle points are ISO 8601 timestamps, e.g. 2013-01-01T12:00Z or 20130101T1200Z").
			Wrap(err).
			Build()
	}

	offsets, err := cyclepoint.ParseOffsets(s.Offsets)
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("parse cycle offsets").
			WithSuggestion("Offsets are ISO 8601 durations with an optional sign, e.g. +PT12H or -P1D").
			Wrap(err).
			Build()
	}

	templates, err := taskenv.ParseTemplates(s.Paths)
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("parse path templates").
			WithSuggestion("Templates are NAME=GLOB pairs, e.g. --path='MY_PATH=etc/my-path/*'").
			WithSuggestion("Each template must bind a distinct NAME").
			Wrap(err).
			Build()
	}

	resolver := taskenv.NewResolver(taskenv.Options{
		Root:         s.Root,
		EmptyOK:      s.EmptyOK,
		Absolute:     s.Absolute,
		Join:         s.Join,
		Wait:         s.Wait,
		WaitForMatch: watch.WaitForMatch,
		Logger:       log.Default(),
	})

	env, err := resolver.Resolve(ctx, taskenv.Request{
		Current:   current,
		Offsets:   offsets,
		Templates: templates,
	})
	if err != nil {
		ec := issue.NewErrorContext().
			WithOperation("resolve task environment").
			Wrap(err)
		if errors.Is(err, taskenv.ErrNoPathMatch) {
			ec.WithSuggestion("Check that the run root contains the expected files").
				WithSuggestion("Pass --empty-ok to bind an empty value instead").
				WithSuggestion("Pass --wait=<duration> to wait for the path to appear")
		}
		return ec.Build()
	}

	return env.WriteExports(stdout, s.Export)
}

// displayError flattens an error into a single renderable message so the
// framework prints it exactly once, suggestions included.
func displayError(err error, verboseMode bool) error {
	return fmt.Errorf("%s", formatErrorForDisplay(err, verboseMode))
}
