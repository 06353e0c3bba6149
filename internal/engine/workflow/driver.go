// Package workflow drives the configure and generate steps against the cache.
package workflow

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.trai.ch/knob/internal/core/domain"
	"go.trai.ch/knob/internal/core/ports"
	"go.trai.ch/knob/internal/engine/bridge"
	"go.trai.ch/zerr"
)

// Result is the outcome of one workflow run.
type Result struct {
	// Entries is the entry list after the run. On a failed commit it is the input list.
	Entries domain.Entries
	// ExitCode is 0 on success, 1 on cache or report I/O failure, otherwise the step's status.
	ExitCode int
	// Errors are human readable messages for the error page.
	Errors []string
	// Err is the first failure of the run, for callers that map it to a process exit.
	Err error
	// Converged is set when a configure pass introduced no new entries and succeeded.
	Converged bool
	Added     []string
	Removed   []string
	Output    string
}

// Driver runs workflow steps for one project.
type Driver struct {
	bridge  *bridge.Bridge
	runner  ports.StepRunner
	reports ports.ReportWriter
	tracer  ports.Tracer
	project *domain.Project
}

// NewDriver creates a Driver for project.
func NewDriver(
	b *bridge.Bridge,
	runner ports.StepRunner,
	reports ports.ReportWriter,
	tracer ports.Tracer,
	project *domain.Project,
) *Driver {
	return &Driver{
		bridge:  b,
		runner:  runner,
		reports: reports,
		tracer:  tracer,
		project: project,
	}
}

// Load reads the project's cache. A missing cache file yields an empty list.
func (d *Driver) Load() (domain.Entries, error) {
	return d.bridge.Load(d.project.CachePath)
}

// Commit writes entries to the project's cache.
func (d *Driver) Commit(entries domain.Entries) error {
	return d.bridge.Commit(d.project.CachePath, entries)
}

// Stale reports whether the cache changed outside this process.
func (d *Driver) Stale() (bool, error) {
	return d.bridge.Stale(d.project.CachePath)
}

// Configure commits entries, runs the configure step and reloads the cache.
//
// With checkOnly the step is skipped: entries are committed and reloaded to
// validate them, and convergence is not evaluated.
func (d *Driver) Configure(ctx context.Context, entries domain.Entries, checkOnly bool, progress ports.ProgressFunc) Result {
	ctx, span := d.tracer.Start(ctx, string(domain.StepConfigure),
		ports.WithAttribute("knob.cache", d.project.CachePath),
		ports.WithAttribute("knob.check_only", checkOnly))
	defer span.End()

	before := entries.Clone()
	res := Result{Entries: entries}

	if err := d.Commit(before); err != nil {
		return d.fail(span, res, domain.ExitIOError, err)
	}

	status := domain.ExitOK
	if !checkOnly {
		var ok bool
		res, status, ok = d.run(ctx, span, domain.StepConfigure, res, progress)
		if !ok {
			return res
		}
	}

	reloaded, err := d.Load()
	if err != nil {
		return d.fail(span, res, domain.ExitIOError, err)
	}

	merged, added, removed := domain.Reconcile(before, reloaded)
	if status == domain.ExitOK && !checkOnly {
		for _, e := range merged {
			e.New = false
		}
		for _, name := range added {
			merged.Lookup(name).New = true
		}
	}
	res.Entries = merged
	res.Added = added
	res.Removed = removed
	res.Converged = !checkOnly && status == domain.ExitOK && len(added) == 0
	span.SetAttribute("knob.added", len(added))
	span.SetAttribute("knob.removed", len(removed))
	return res
}

// Generate commits entries, runs the generate step and reloads the cache.
// New entries are not tracked: generation is the last step.
func (d *Driver) Generate(ctx context.Context, entries domain.Entries, progress ports.ProgressFunc) Result {
	ctx, span := d.tracer.Start(ctx, string(domain.StepGenerate),
		ports.WithAttribute("knob.cache", d.project.CachePath))
	defer span.End()

	res := Result{Entries: entries}
	if err := d.Commit(entries); err != nil {
		return d.fail(span, res, domain.ExitIOError, err)
	}

	res, _, ok := d.run(ctx, span, domain.StepGenerate, res, progress)
	if !ok {
		return res
	}

	reloaded, err := d.Load()
	if err != nil {
		return d.fail(span, res, domain.ExitIOError, err)
	}
	for _, e := range reloaded {
		if old := entries.Lookup(e.Name); old != nil {
			e.New = old.New
		}
	}
	res.Entries = reloaded
	return res
}

// ConfigureUntilConverged repeats configure passes until one converges,
// a pass fails, or maxPasses is reached.
func (d *Driver) ConfigureUntilConverged(ctx context.Context, entries domain.Entries, maxPasses int, progress ports.ProgressFunc) Result {
	res := Result{Entries: entries}
	for pass := 1; pass <= max(1, maxPasses); pass++ {
		res = d.Configure(ctx, res.Entries, false, progress)
		if res.Err != nil || res.Converged {
			return res
		}
		if err := ctx.Err(); err != nil {
			return res
		}
	}
	err := zerr.With(zerr.Wrap(domain.ErrNotConverged, "new entries kept appearing"), "passes", maxPasses)
	res.Errors = append(res.Errors, err.Error())
	res.Err = err
	res.ExitCode = domain.ExitIOError
	return res
}

// ShowOnly returns the command line of a step without running it.
func (d *Driver) ShowOnly(kind domain.StepKind) (string, error) {
	step := d.step(kind)
	if len(step.Command) == 0 {
		return "", zerr.With(zerr.Wrap(domain.ErrNoCommand, strings.ToLower(string(kind))), "step", string(kind))
	}
	return step.CommandLine(), nil
}

// run executes a step and writes its report. ok is false when the run must stop.
func (d *Driver) run(
	ctx context.Context,
	span ports.Span,
	kind domain.StepKind,
	res Result,
	progress ports.ProgressFunc,
) (Result, int, bool) {
	step := d.step(kind)
	if len(step.Command) == 0 {
		err := zerr.With(zerr.Wrap(domain.ErrNoCommand, strings.ToLower(string(kind))), "step", string(kind))
		return d.fail(span, res, domain.ExitIOError, err), domain.ExitIOError, false
	}

	report := func(fraction float64, message string) {
		span.Progress(fraction, message)
		if progress != nil {
			progress(fraction, message)
		}
	}

	out, err := d.runner.Run(ctx, step, span, report)
	if err != nil {
		return d.fail(span, res, domain.ExitIOError, err), domain.ExitIOError, false
	}
	res.Output = out.Output

	rep := domain.Report{
		RunID:   uuid.NewString(),
		Kind:    kind,
		Command: step.CommandLine(),
		Start:   out.Start,
		End:     out.End,
		Status:  out.Status,
		Output:  out.Output,
	}
	if werr := d.reports.Write(rep); werr != nil {
		res = d.fail(span, res, domain.ExitIOError, werr)
	}

	if out.Status != domain.ExitOK {
		failure := &domain.StepFailure{Kind: kind, Status: out.Status, Err: domain.ErrStepFailed}
		res = d.fail(span, res, out.Status, failure)
		res.Errors = append(res.Errors, errorLines(out.Output)...)
	}
	return res, out.Status, true
}

func (d *Driver) step(kind domain.StepKind) domain.Step {
	step := d.project.Step(kind)
	step.Kind = kind
	env := make(map[string]string, len(step.Environment)+1)
	for k, v := range step.Environment {
		env[k] = v
	}
	env[domain.CacheEnvVar] = d.project.CachePath
	step.Environment = env
	if step.WorkingDir == "" {
		step.WorkingDir = d.project.Root
	}
	return step
}

// fail records err on the span and the result. The first failure decides the exit code.
func (d *Driver) fail(span ports.Span, res Result, code int, err error) Result {
	span.RecordError(err)
	res.Errors = append(res.Errors, message(err))
	if res.Err == nil {
		res.Err = err
		res.ExitCode = code
	}
	return res
}

func message(err error) string {
	var failure *domain.StepFailure
	if errors.As(err, &failure) {
		return fmt.Sprintf("%s step failed with exit status %d", strings.ToLower(string(failure.Kind)), failure.Status)
	}
	return err.Error()
}

// errorLines extracts the lines of step output that report errors.
func errorLines(output string) []string {
	var lines []string
	sc := bufio.NewScanner(strings.NewReader(output))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if strings.Contains(strings.ToLower(line), "error") {
			lines = append(lines, line)
		}
	}
	return lines
}
