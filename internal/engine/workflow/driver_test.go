package workflow_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/knob/internal/adapters/cachefile"
	"go.trai.ch/knob/internal/core/domain"
	"go.trai.ch/knob/internal/core/ports"
	"go.trai.ch/knob/internal/core/ports/mocks"
	"go.trai.ch/knob/internal/engine/bridge"
	"go.trai.ch/knob/internal/engine/workflow"
	"go.uber.org/mock/gomock"
)

type harness struct {
	driver  *workflow.Driver
	runner  *mocks.MockStepRunner
	reports *mocks.MockReportWriter
	project *domain.Project
	store   *cachefile.Store
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)

	span := mocks.NewMockSpan(ctrl)
	span.EXPECT().End().AnyTimes()
	span.EXPECT().RecordError(gomock.Any()).AnyTimes()
	span.EXPECT().SetAttribute(gomock.Any(), gomock.Any()).AnyTimes()
	span.EXPECT().Progress(gomock.Any(), gomock.Any()).AnyTimes()
	span.EXPECT().Write(gomock.Any()).DoAndReturn(func(p []byte) (int, error) { return len(p), nil }).AnyTimes()

	tracer := mocks.NewMockTracer(ctrl)
	tracer.EXPECT().Start(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
			return ctx, span
		}).AnyTimes()

	root := t.TempDir()
	project := &domain.Project{
		Root:      root,
		CachePath: filepath.Join(root, "CMakeCache.txt"),
		Configure: domain.Step{Command: []string{"cmake", "."}},
		Generate:  domain.Step{Command: []string{"cmake", "--build", "."}},
	}

	h := &harness{
		runner:  mocks.NewMockStepRunner(ctrl),
		reports: mocks.NewMockReportWriter(ctrl),
		project: project,
		store:   cachefile.NewStore(),
	}
	h.driver = workflow.NewDriver(bridge.New(h.store), h.runner, h.reports, tracer, project)
	return h
}

// appendToCache simulates a configure step that adds entries to the cache.
func (h *harness) appendToCache(t *testing.T, added ...*domain.Entry) {
	t.Helper()
	snap, err := h.store.Load(h.project.CachePath)
	require.NoError(t, err)
	entries := snap.Entries
	for _, e := range added {
		entries, err = entries.Add(e)
		require.NoError(t, err)
	}
	_, err = h.store.Save(h.project.CachePath, entries)
	require.NoError(t, err)
}

func (h *harness) expectRun(t *testing.T, status int, output string, added ...*domain.Entry) {
	t.Helper()
	h.runner.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, step domain.Step, out io.Writer, progress ports.ProgressFunc) (domain.StepResult, error) {
			assert.Equal(t, h.project.CachePath, step.Environment[domain.CacheEnvVar])
			assert.Equal(t, h.project.Root, step.WorkingDir)
			progress(0.5, "halfway")
			_, _ = io.WriteString(out, output)
			h.appendToCache(t, added...)
			start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
			return domain.StepResult{Status: status, Output: output, Start: start, End: start.Add(time.Minute)}, nil
		})
}

func TestConfigure_NewEntryIsMarkedAndBlocksConvergence(t *testing.T) {
	h := newHarness(t)
	entries := domain.Entries{{Name: "BUILD_SHARED", Type: domain.TypeBool, Value: "OFF"}}

	h.expectRun(t, 0, "-- Configuring done\n", &domain.Entry{Name: "CMAKE_CXX_FLAGS", Type: domain.TypeString})
	var report domain.Report
	h.reports.EXPECT().Write(gomock.Any()).DoAndReturn(func(r domain.Report) error {
		report = r
		return nil
	})

	var fractions []float64
	res := h.driver.Configure(context.Background(), entries, false, func(f float64, _ string) {
		fractions = append(fractions, f)
	})

	require.NoError(t, res.Err)
	assert.Equal(t, domain.ExitOK, res.ExitCode)
	assert.False(t, res.Converged)
	assert.Equal(t, []string{"CMAKE_CXX_FLAGS"}, res.Added)
	assert.Equal(t, []string{"BUILD_SHARED", "CMAKE_CXX_FLAGS"}, res.Entries.Names())
	assert.True(t, res.Entries.Lookup("CMAKE_CXX_FLAGS").New)
	assert.False(t, res.Entries.Lookup("BUILD_SHARED").New)
	assert.Equal(t, []float64{0.5}, fractions)

	assert.Equal(t, domain.StepConfigure, report.Kind)
	assert.Equal(t, "cmake .", report.Command)
	assert.NotEmpty(t, report.RunID)
	assert.InDelta(t, 1.0, report.ElapsedMinutes(), 1e-9)
}

func TestConfigure_SecondRunConverges(t *testing.T) {
	h := newHarness(t)
	entries := domain.Entries{{Name: "BUILD_SHARED", Type: domain.TypeBool, Value: "ON"}}
	h.reports.EXPECT().Write(gomock.Any()).Return(nil).Times(2)

	h.expectRun(t, 0, "")
	first := h.driver.Configure(context.Background(), entries, false, nil)
	require.NoError(t, first.Err)
	assert.True(t, first.Converged)

	h.expectRun(t, 0, "")
	second := h.driver.Configure(context.Background(), first.Entries, false, nil)
	require.NoError(t, second.Err)
	assert.True(t, second.Converged)
	assert.True(t, first.Entries.Equal(second.Entries))
}

func TestConfigure_CommitFailureLeavesEntriesUnchanged(t *testing.T) {
	h := newHarness(t)
	blocker := filepath.Join(h.project.Root, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))
	h.project.CachePath = filepath.Join(blocker, "CMakeCache.txt")

	entries := domain.Entries{{Name: "A", Type: domain.TypeString, Value: "1"}}
	// No runner or report expectations: the step must not run.
	res := h.driver.Configure(context.Background(), entries, false, nil)

	require.ErrorIs(t, res.Err, domain.ErrCacheWrite)
	assert.Equal(t, domain.ExitIOError, res.ExitCode)
	assert.Len(t, res.Errors, 1)
	assert.Equal(t, entries, res.Entries)
	assert.Equal(t, "1", entries[0].Value)
}

func TestConfigure_InvalidValueIsCacheError(t *testing.T) {
	h := newHarness(t)
	res := h.driver.Configure(context.Background(), domain.Entries{{Name: "B", Type: domain.TypeBool, Value: "perhaps"}}, false, nil)

	assert.True(t, domain.IsCacheError(res.Err))
	assert.Equal(t, domain.ExitIOError, res.ExitCode)
	assert.Len(t, res.Errors, 1)
}

func TestConfigure_StepFailurePropagatesStatus(t *testing.T) {
	h := newHarness(t)
	h.reports.EXPECT().Write(gomock.Any()).Return(nil)
	h.expectRun(t, 3, "-- ok\nCMake Error at CMakeLists.txt:3 (message):\n  boom\n")

	res := h.driver.Configure(context.Background(), domain.Entries{{Name: "A", Type: domain.TypeString}}, false, nil)

	var failure *domain.StepFailure
	require.ErrorAs(t, res.Err, &failure)
	assert.Equal(t, 3, res.ExitCode)
	assert.False(t, res.Converged)
	assert.Equal(t, []string{
		"configure step failed with exit status 3",
		"CMake Error at CMakeLists.txt:3 (message):",
	}, res.Errors)
}

func TestConfigure_CheckOnlySkipsStep(t *testing.T) {
	h := newHarness(t)
	entries := domain.Entries{{Name: "PREFIX", Type: domain.TypePath, Value: "/opt/"}}

	res := h.driver.Configure(context.Background(), entries, true, nil)
	require.NoError(t, res.Err)
	assert.False(t, res.Converged)
	assert.Equal(t, "/opt", res.Entries[0].Value, "reload returns normalized values")
}

func TestConfigure_NoCommand(t *testing.T) {
	h := newHarness(t)
	h.project.Configure.Command = nil

	res := h.driver.Configure(context.Background(), nil, false, nil)
	require.ErrorIs(t, res.Err, domain.ErrNoCommand)
	assert.Equal(t, domain.ExitIOError, res.ExitCode)

	_, err := h.driver.ShowOnly(domain.StepConfigure)
	require.ErrorIs(t, err, domain.ErrNoCommand)

	line, err := h.driver.ShowOnly(domain.StepGenerate)
	require.NoError(t, err)
	assert.Equal(t, "cmake --build .", line)
}

func TestConfigure_ReportFailureIsIOError(t *testing.T) {
	h := newHarness(t)
	h.expectRun(t, 0, "")
	h.reports.EXPECT().Write(gomock.Any()).Return(domain.ErrReportWriteFailed)

	res := h.driver.Configure(context.Background(), nil, false, nil)
	require.ErrorIs(t, res.Err, domain.ErrReportWriteFailed)
	assert.Equal(t, domain.ExitIOError, res.ExitCode)
	assert.True(t, res.Converged, "the step itself succeeded")
}

func TestGenerate(t *testing.T) {
	h := newHarness(t)
	h.reports.EXPECT().Write(gomock.Any()).Return(nil)
	h.expectRun(t, 0, "", &domain.Entry{Name: "GENERATED", Type: domain.TypeInternal})

	entries := domain.Entries{{Name: "A", Type: domain.TypeString, New: true}}
	res := h.driver.Generate(context.Background(), entries, nil)

	require.NoError(t, res.Err)
	assert.Equal(t, []string{"A", "GENERATED"}, res.Entries.Names())
	assert.True(t, res.Entries[0].New, "generate keeps New flags")
	assert.False(t, res.Entries[1].New, "generate does not mark new entries")
	assert.Empty(t, res.Added)
}

func TestConfigureUntilConverged(t *testing.T) {
	h := newHarness(t)
	h.reports.EXPECT().Write(gomock.Any()).Return(nil).Times(2)
	h.expectRun(t, 0, "", &domain.Entry{Name: "DISCOVERED", Type: domain.TypeString})
	h.expectRun(t, 0, "")

	res := h.driver.ConfigureUntilConverged(context.Background(), nil, 5, nil)
	require.NoError(t, res.Err)
	assert.True(t, res.Converged)
	assert.Equal(t, []string{"DISCOVERED"}, res.Entries.Names())
}

func TestConfigureUntilConverged_GivesUp(t *testing.T) {
	h := newHarness(t)
	h.reports.EXPECT().Write(gomock.Any()).Return(nil).Times(2)
	h.expectRun(t, 0, "", &domain.Entry{Name: "ONE", Type: domain.TypeString})
	h.expectRun(t, 0, "", &domain.Entry{Name: "TWO", Type: domain.TypeString})

	res := h.driver.ConfigureUntilConverged(context.Background(), nil, 2, nil)
	require.ErrorIs(t, res.Err, domain.ErrNotConverged)
	assert.Equal(t, domain.ExitIOError, res.ExitCode)
}
