package telemetry_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/knob/internal/adapters/telemetry"
	"go.trai.ch/knob/internal/core/ports"
	"go.trai.ch/knob/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestOTelTracer_ForwardsInOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)
	tracer := telemetry.NewOTelTracer(renderer)
	t.Cleanup(func() { _ = tracer.Shutdown(t.Context()) })

	gomock.InOrder(
		renderer.EXPECT().OnStepStart(gomock.Any(), "", "Configure", gomock.Any()),
		renderer.EXPECT().OnStepLog(gomock.Any(), []byte("-- Detecting C compiler\n")),
		renderer.EXPECT().OnProgress(gomock.Any(), 0.5, "Detecting C compiler"),
		renderer.EXPECT().OnStepLog(gomock.Any(), []byte("done\n")),
		renderer.EXPECT().OnStepComplete(gomock.Any(), gomock.Any(), nil),
	)

	_, span := tracer.Start(t.Context(), "Configure")
	_, err := span.Write([]byte("-- Detecting C compiler\n"))
	require.NoError(t, err)
	span.Progress(0.5, "Detecting C compiler")
	_, err = span.Write([]byte("done\n"))
	require.NoError(t, err)
	span.End()
}

func TestOTelTracer_RecordsSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tracer := telemetry.NewOTelTracer(nil, sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tracer.Shutdown(t.Context()) })

	_, span := tracer.Start(t.Context(), "Configure",
		ports.WithAttribute("knob.cache", "/src/build/CMakeCache.txt"),
		ports.WithAttribute("knob.check_only", false),
	)
	span.SetAttribute("knob.status", 3)
	span.Progress(-1, "-- Configuring incomplete")
	_, _ = span.Write([]byte("CMake Error\n"))
	span.RecordError(errors.New("configure exited with status 3"))
	span.RecordError(nil)
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	s := ended[0]

	assert.Equal(t, "Configure", s.Name())
	assert.Equal(t, codes.Error, s.Status().Code)
	assert.Contains(t, s.Attributes(), attribute.String("knob.cache", "/src/build/CMakeCache.txt"))
	assert.Contains(t, s.Attributes(), attribute.Bool("knob.check_only", false))
	assert.Contains(t, s.Attributes(), attribute.Int("knob.status", 3))

	var names []string
	for _, e := range s.Events() {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"progress", "log", "exception"}, names)
}

func TestNoOpTracer(t *testing.T) {
	ctx, span := telemetry.NewNoOpTracer().Start(t.Context(), "Generate")
	assert.Equal(t, t.Context(), ctx)

	n, err := span.Write([]byte("ignored"))
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	span.Progress(1, "done")
	span.SetAttribute("k", "v")
	span.RecordError(errors.New("x"))
	span.End()
}
