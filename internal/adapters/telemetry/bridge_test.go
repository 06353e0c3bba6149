package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/knob/internal/adapters/telemetry"
	"go.trai.ch/knob/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestBridge_OnStart(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)
	bridge := telemetry.NewBridge(renderer)

	tp := sdktrace.NewTracerProvider()
	ctx, parent := tp.Tracer("test").Start(context.Background(), "Configure")
	defer parent.End()
	_, child := tp.Tracer("test").Start(ctx, "pass")
	defer child.End()

	renderer.EXPECT().OnStepStart(
		child.SpanContext().SpanID().String(),
		parent.SpanContext().SpanID().String(),
		"pass",
		gomock.Any(),
	)

	rw, ok := child.(sdktrace.ReadWriteSpan)
	require.True(t, ok)
	bridge.OnStart(ctx, rw)
}

func TestBridge_OnEnd(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)
	bridge := telemetry.NewBridge(renderer)

	renderer.EXPECT().OnStepComplete(gomock.Any(), gomock.Any(), nil)

	tp := sdktrace.NewTracerProvider()
	_, span := tp.Tracer("test").Start(context.Background(), "Generate")
	span.End()

	ro, ok := span.(sdktrace.ReadOnlySpan)
	require.True(t, ok)
	bridge.OnEnd(ro)
}

func TestBridge_OnEndWithError(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)
	bridge := telemetry.NewBridge(renderer)

	renderer.EXPECT().OnStepComplete(gomock.Any(), gomock.Any(), gomock.Not(nil)).
		Do(func(_ string, _ any, err error) {
			require.EqualError(t, err, "configure exited with status 3")
		})

	tp := sdktrace.NewTracerProvider()
	_, span := tp.Tracer("test").Start(context.Background(), "Configure")
	span.SetStatus(codes.Error, "configure exited with status 3")
	span.End()

	ro, ok := span.(sdktrace.ReadOnlySpan)
	require.True(t, ok)
	bridge.OnEnd(ro)
}

func TestBridge_NilRenderer(t *testing.T) {
	bridge := telemetry.NewBridge(nil)

	tp := sdktrace.NewTracerProvider()
	ctx, span := tp.Tracer("test").Start(context.Background(), "Configure")
	span.End()

	rw, ok := span.(sdktrace.ReadWriteSpan)
	require.True(t, ok)
	bridge.OnStart(ctx, rw)
	bridge.OnEnd(rw)

	require.NoError(t, bridge.ForceFlush(ctx))
	require.NoError(t, bridge.Shutdown(ctx))
}
