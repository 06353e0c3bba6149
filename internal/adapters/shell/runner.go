// Package shell runs external workflow steps inside a pseudo-terminal.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/creack/pty"
	"go.trai.ch/knob/internal/core/domain"
	"go.trai.ch/knob/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	ptyRows = 40
	ptyCols = 120
)

// Runner implements ports.StepRunner using os/exec and pty.
type Runner struct {
	logger ports.Logger
}

// NewRunner creates a new Runner.
func NewRunner(logger ports.Logger) *Runner {
	return &Runner{logger: logger}
}

// Run starts the step's command in a PTY and waits for it to exit.
func (r *Runner) Run(
	ctx context.Context,
	step domain.Step,
	output io.Writer,
	progress ports.ProgressFunc,
) (domain.StepResult, error) {
	if len(step.Command) == 0 {
		return domain.StepResult{}, zerr.With(zerr.Wrap(domain.ErrNoCommand, string(step.Kind)), "step", string(step.Kind))
	}
	if output == nil {
		output = io.Discard
	}

	name := step.Command[0]
	env := resolveEnvironment(os.Environ(), step.Environment)

	executable := name
	if !filepath.IsAbs(name) {
		if lp, err := lookPath(name, env); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, step.Command[1:]...) //nolint:gosec // user provided command
	cmd.Args[0] = name
	cmd.Dir = step.WorkingDir
	cmd.Env = env

	result := domain.StepResult{Start: time.Now()}

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: ptyRows, Cols: ptyCols})
	if err != nil {
		result.End = time.Now()
		return result, zerr.With(domain.WrapKind(domain.ErrStepStartFailed, err), "command", step.CommandLine())
	}
	r.logger.Info(fmt.Sprintf("%s: %s", strings.ToLower(string(step.Kind)), step.CommandLine()))

	lines := &lineWriter{progress: progress}
	var captured bytes.Buffer
	ioDone := make(chan struct{})
	go func() {
		defer close(ioDone)
		defer func() { _ = ptmx.Close() }()
		defer lines.Close()

		// The PTY merges stdout and stderr. Reading fails with EIO once the
		// child exits, which ends the copy.
		_, _ = io.Copy(io.MultiWriter(&captured, output, lines), ptmx)
	}()

	waitErr := cmd.Wait()
	<-ioDone

	result.End = time.Now()
	result.Output = strings.ReplaceAll(captured.String(), "\r\n", "\n")

	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return result, zerr.With(domain.WrapKind(domain.ErrStepStartFailed, waitErr), "command", step.CommandLine())
		}
		result.Status = exitErr.ExitCode()
		if result.Status <= 0 {
			// Killed by a signal.
			result.Status = domain.ExitIOError
		}
		r.logger.Warn(fmt.Sprintf("%s exited with status %d", strings.ToLower(string(step.Kind)), result.Status))
	}

	return result, nil
}

var progressPattern = regexp.MustCompile(`^\[\s*(\d{1,3})%\]\s?(.*)$`)

// parseProgress extracts a "[ NN%] message" prefix.
// Lines without a percentage report a negative fraction.
func parseProgress(line string) (float64, string) {
	m := progressPattern.FindStringSubmatch(line)
	if m == nil {
		return -1, line
	}
	pct, err := strconv.Atoi(m[1])
	if err != nil || pct > 100 {
		return -1, line
	}
	return float64(pct) / 100, m[2]
}

// lineWriter splits output into lines and reports each one as progress.
type lineWriter struct {
	mu       sync.Mutex
	progress ports.ProgressFunc
	buf      []byte
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.emit(w.buf[:i])
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

// Close flushes a trailing line without newline.
func (w *lineWriter) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.buf) > 0 {
		w.emit(w.buf)
		w.buf = nil
	}
}

func (w *lineWriter) emit(raw []byte) {
	line := strings.TrimRight(string(raw), "\r")
	if line == "" || w.progress == nil {
		return
	}
	w.progress(parseProgress(line))
}

// allowListedEnvVars are the system environment variables a step inherits.
var allowListedEnvVars = map[string]struct{}{
	"HOME":   {},
	"TERM":   {},
	"USER":   {},
	"PATH":   {},
	"LANG":   {},
	"TMPDIR": {},
}

// resolveEnvironment merges the allow-listed system environment with the
// step's own variables. Step variables win. The result is sorted by key.
func resolveEnvironment(sysEnv []string, stepEnv map[string]string) []string {
	envMap := make(map[string]string, len(allowListedEnvVars)+len(stepEnv))
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if _, allowed := allowListedEnvVars[k]; allowed {
			envMap[k] = v
		}
	}
	for k, v := range stepEnv {
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	sort.Strings(result)
	return result
}

// lookPath searches for an executable in the PATH of env rather than the
// PATH of the current process.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if after, ok := strings.CutPrefix(e, "PATH="); ok {
			path = after
			break
		}
	}
	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
