// SPDX-License-Identifier: MPL-2.0

package taskenv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"

	"cycenv-cli/pkg/cyclepoint"
)

const (
	// JoinSpace joins multiple glob matches with a single space.
	JoinSpace JoinMode = "space"
	// JoinNewline joins multiple glob matches with newlines.
	JoinNewline JoinMode = "newline"
)

// ErrInvalidJoinMode is the sentinel error wrapped by InvalidJoinModeError.
var ErrInvalidJoinMode = errors.New("invalid join mode")

type (
	// JoinMode selects the convention for joining multiple glob matches into
	// a single variable value.
	JoinMode string

	// InvalidJoinModeError is returned when a JoinMode value is not
	// recognized. It wraps ErrInvalidJoinMode for errors.Is() compatibility.
	InvalidJoinModeError struct {
		Value JoinMode
	}

	// WaitFunc blocks until pattern matches something under root or the wait
	// window closes, returning the matches found (nil when the window closed
	// without a match). internal/watch provides the production implementation.
	WaitFunc func(ctx context.Context, root, pattern string, window time.Duration) ([]string, error)

	// Options configures a Resolver. The zero value resolves against the
	// current directory with space joining and hard NoPathMatch failures.
	Options struct {
		// Root is the run root glob patterns expand against. Empty means the
		// current working directory.
		Root string
		// EmptyOK degrades NoPathMatch to an empty-value binding.
		EmptyOK bool
		// Absolute joins the run root onto each match. The default keeps
		// matches root-relative.
		Absolute bool
		// Join selects the multi-match join convention. Empty means JoinSpace.
		Join JoinMode
		// Wait is how long to watch the run root for a missing path to
		// appear before giving up. Zero disables waiting.
		Wait time.Duration
		// WaitForMatch implements Wait. Ignored when Wait is zero; waiting
		// is skipped when nil.
		WaitForMatch WaitFunc
		// Logger receives debug diagnostics. Nil discards them.
		Logger *log.Logger
	}

	// Request carries one resolution's immutable inputs.
	Request struct {
		// Current is the task's current cycle point.
		Current cyclepoint.CyclePoint
		// Offsets apply cumulatively, in order, to produce the resolution point.
		Offsets []cyclepoint.OffsetSpec
		// Templates are the NAME=GLOB bindings to resolve, in output order.
		Templates []Template
	}

	// Binding is one resolved environment variable.
	Binding struct {
		Name  string
		Value string
	}

	// ResolvedEnv is the ordered set of resolved bindings. Order follows the
	// request's template order.
	ResolvedEnv []Binding

	// Resolver expands path templates against the filesystem. A Resolver is
	// stateless across calls; concurrent Resolve calls are independent.
	Resolver struct {
		opts   Options
		logger *log.Logger
	}
)

// Error implements the error interface.
func (e *InvalidJoinModeError) Error() string {
	return fmt.Sprintf("invalid join mode %q (valid: %q, %q)", string(e.Value), JoinSpace, JoinNewline)
}

// Unwrap returns the sentinel error for errors.Is() checks.
func (e *InvalidJoinModeError) Unwrap() error {
	return ErrInvalidJoinMode
}

// Validate checks that m is a recognized join mode.
func (m JoinMode) Validate() error {
	switch m {
	case JoinSpace, JoinNewline:
		return nil
	default:
		return &InvalidJoinModeError{Value: m}
	}
}

// separator returns the join string for the mode.
func (m JoinMode) separator() string {
	if m == JoinNewline {
		return "\n"
	}
	return " "
}

// NewResolver creates a Resolver from Options, applying defaults for omitted
// fields.
func NewResolver(opts Options) *Resolver {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if opts.Join == "" {
		opts.Join = JoinSpace
	}
	return &Resolver{opts: opts, logger: logger}
}

// History returns the ordered cycle-point history for the request: the base
// point followed by every intermediate point as the offsets apply
// cumulatively. The last entry is the resolution point; with no offsets it is
// the current point unchanged.
func (req Request) History() []cyclepoint.CyclePoint {
	history := make([]cyclepoint.CyclePoint, 0, len(req.Offsets)+1)
	history = append(history, req.Current)
	point := req.Current
	for _, spec := range req.Offsets {
		point = point.Offset(spec)
		history = append(history, point)
	}
	return history
}

// ResolutionPoint returns the final cycle point after all offsets apply.
func (req Request) ResolutionPoint() cyclepoint.CyclePoint {
	history := req.History()
	return history[len(history)-1]
}

// Resolve computes the resolved environment for the request. Failures are
// all-or-nothing: on any error no bindings are returned, so a failed
// resolution never exports a partial environment.
func (r *Resolver) Resolve(ctx context.Context, req Request) (ResolvedEnv, error) {
	if req.Current.IsZero() {
		return nil, &cyclepoint.InvalidCyclePointError{Value: ""}
	}

	// Duplicate names fail before any filesystem access.
	if err := ValidateDistinct(req.Templates); err != nil {
		return nil, err
	}

	history := req.History()
	r.logger.Debug("resolution point computed",
		"current", req.Current, "offsets", len(req.Offsets), "point", history[len(history)-1])

	resolved := make(ResolvedEnv, 0, len(req.Templates))
	for _, tmpl := range req.Templates {
		value, err := r.resolveTemplate(ctx, tmpl, history)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, Binding{Name: tmpl.Name, Value: value})
	}
	return resolved, nil
}

// resolveTemplate renders and expands a single template.
func (r *Resolver) resolveTemplate(ctx context.Context, tmpl Template, history []cyclepoint.CyclePoint) (string, error) {
	pattern, err := RenderPattern(tmpl.Pattern, history)
	if err != nil {
		return "", err
	}
	r.logger.Debug("pattern rendered", "name", tmpl.Name, "pattern", pattern)

	matches, err := r.expand(pattern)
	if err != nil {
		return "", err
	}

	if len(matches) == 0 && r.opts.Wait > 0 && r.opts.WaitForMatch != nil {
		r.logger.Debug("no match yet, waiting", "name", tmpl.Name, "pattern", pattern, "window", r.opts.Wait)
		matches, err = r.opts.WaitForMatch(ctx, r.root(), pattern, r.opts.Wait)
		if err != nil {
			return "", err
		}
	}

	if len(matches) == 0 {
		if r.opts.EmptyOK {
			r.logger.Debug("no match, binding empty value", "name", tmpl.Name, "pattern", pattern)
			return "", nil
		}
		return "", &NoPathMatchError{Name: tmpl.Name, Pattern: pattern}
	}

	// Sorted lexicographically so output is reproducible across runs.
	slices.Sort(matches)
	if r.opts.Absolute {
		for i, m := range matches {
			if !filepath.IsAbs(m) {
				matches[i] = filepath.Join(r.root(), m)
			}
		}
	}
	r.logger.Debug("pattern expanded", "name", tmpl.Name, "matches", len(matches))

	return strings.Join(matches, r.opts.Join.separator()), nil
}

// root returns the effective run root.
func (r *Resolver) root() string {
	if r.opts.Root != "" {
		return r.opts.Root
	}
	return "."
}

// expand performs the filesystem half of the pipeline: doublestar expansion
// of a concrete pattern. Relative patterns expand under the run root and
// yield root-relative matches; absolute patterns expand as given.
func (r *Resolver) expand(pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
		return nil, &InvalidTemplateError{Value: pattern, Reason: "malformed glob pattern"}
	}

	if filepath.IsAbs(pattern) {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, &InvalidTemplateError{Value: pattern, Reason: err.Error()}
		}
		return matches, nil
	}

	root := r.root()
	if _, err := os.Stat(root); err != nil {
		// A missing run root means nothing can match; NoPathMatch (or an
		// empty binding) is the caller's decision.
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat run root %s: %w", root, err)
	}

	matches, err := doublestar.Glob(os.DirFS(root), filepath.ToSlash(pattern))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, &InvalidTemplateError{Value: pattern, Reason: err.Error()}
	}

	for i, m := range matches {
		matches[i] = filepath.FromSlash(m)
	}
	return matches, nil
}

// Lookup returns the value bound to name.
func (e ResolvedEnv) Lookup(name string) (string, bool) {
	for _, b := range e {
		if b.Name == name {
			return b.Value, true
		}
	}
	return "", false
}

// Names returns the bound variable names in output order.
func (e ResolvedEnv) Names() []string {
	names := make([]string, len(e))
	for i, b := range e {
		names[i] = b.Name
	}
	return names
}
