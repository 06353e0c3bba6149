package telemetry

import (
	"context"
	"fmt"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/knob/internal/core/ports"
)

// InstrumentationName names the tracer knob creates its spans with.
const InstrumentationName = "go.trai.ch/knob"

// OTelTracer implements ports.Tracer on an OpenTelemetry SDK provider whose
// spans are bridged to a renderer.
type OTelTracer struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
	renderer ports.Renderer
}

// NewOTelTracer creates a tracer reporting to renderer. A nil renderer keeps
// spans but reports nothing. Extra provider options, such as additional
// span processors, are appended.
func NewOTelTracer(renderer ports.Renderer, opts ...sdktrace.TracerProviderOption) *OTelTracer {
	all := append([]sdktrace.TracerProviderOption{
		sdktrace.WithSpanProcessor(NewBridge(renderer)),
	}, opts...)
	provider := sdktrace.NewTracerProvider(all...)

	return &OTelTracer{
		provider: provider,
		tracer:   provider.Tracer(InstrumentationName),
		renderer: renderer,
	}
}

// Shutdown ends the provider.
func (t *OTelTracer) Shutdown(ctx context.Context) error {
	return t.provider.Shutdown(ctx)
}

// Start creates a new span.
func (t *OTelTracer) Start(ctx context.Context, name string, opts ...ports.SpanOption) (context.Context, ports.Span) {
	cfg := &ports.SpanConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	ctx, span := t.tracer.Start(ctx, name, trace.WithAttributes(toAttributes(cfg.Attributes)...))
	s := &OTelSpan{span: span, renderer: t.renderer, id: span.SpanContext().SpanID().String()}
	if t.renderer != nil {
		s.batcher = NewBatchProcessor(0, 0, func(data []byte) {
			t.renderer.OnStepLog(s.id, data)
		})
	}
	return ctx, s
}

// OTelSpan implements ports.Span.
type OTelSpan struct {
	span     trace.Span
	id       string
	renderer ports.Renderer
	batcher  *BatchProcessor
}

// End flushes buffered output and completes the span.
func (s *OTelSpan) End() {
	if s.batcher != nil {
		_ = s.batcher.Close()
	}
	s.span.End()
}

// RecordError records err and marks the span as failed.
func (s *OTelSpan) RecordError(err error) {
	if err == nil {
		return
	}
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// SetAttribute adds a key-value pair to the span.
func (s *OTelSpan) SetAttribute(key string, value any) {
	s.span.SetAttributes(toAttribute(key, value))
}

// Progress records a progress event and forwards it to the renderer.
// Buffered output is flushed first so the message follows the lines it
// summarizes.
func (s *OTelSpan) Progress(fraction float64, message string) {
	s.span.AddEvent("progress", trace.WithAttributes(
		attribute.Float64("fraction", fraction),
		attribute.String("message", message),
	))
	if s.renderer == nil {
		return
	}
	if s.batcher != nil {
		s.batcher.Flush()
	}
	s.renderer.OnProgress(s.id, fraction, message)
}

// Write streams step output to the renderer, or records it as a span event
// when there is none.
func (s *OTelSpan) Write(p []byte) (int, error) {
	if s.batcher != nil {
		return s.batcher.Write(p)
	}
	s.span.AddEvent("log", trace.WithAttributes(attribute.String("message", string(p))))
	return len(p), nil
}

func toAttributes(m map[string]any) []attribute.KeyValue {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]attribute.KeyValue, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, toAttribute(k, m[k]))
	}
	return attrs
}

func toAttribute(key string, value any) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case bool:
		return attribute.Bool(key, v)
	case []string:
		return attribute.StringSlice(key, v)
	default:
		return attribute.String(key, fmt.Sprintf("%v", v))
	}
}
