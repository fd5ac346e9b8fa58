// Package tracing builds the OpenTelemetry tracer provider. Finished spans are
// written to the application logger instead of a collector.
package tracing

import (
	"context"
	"proplookup/pkg/logger"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

// NewTracerProvider returns an SDK tracer provider that samples every span
// and logs each one at debug level when it ends, on the logger found in ctx.
// Failed spans are logged as warnings. Extra options are applied last.
func NewTracerProvider(ctx context.Context, opts ...sdktrace.TracerProviderOption) *sdktrace.TracerProvider {
	base := []sdktrace.TracerProviderOption{
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithSpanProcessor(&logProcessor{log: logger.Get(ctx)}),
	}

	return sdktrace.NewTracerProvider(append(base, opts...)...)
}

// logProcessor is a sdktrace.SpanProcessor writing ended spans to zap.
type logProcessor struct {
	log *zap.Logger
}

func (p *logProcessor) OnStart(context.Context, sdktrace.ReadWriteSpan) {}

func (p *logProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	sc := s.SpanContext()
	fields := make([]zap.Field, 0, 6+len(s.Attributes()))
	fields = append(fields,
		zap.String("span", s.Name()),
		zap.String("traceID", sc.TraceID().String()),
		zap.String("spanID", sc.SpanID().String()),
		zap.Duration("duration", s.EndTime().Sub(s.StartTime()).Round(time.Microsecond)),
	)
	if parent := s.Parent(); parent.IsValid() {
		fields = append(fields, zap.String("parentSpanID", parent.SpanID().String()))
	}
	for _, kv := range s.Attributes() {
		fields = append(fields, zap.String(string(kv.Key), kv.Value.Emit()))
	}

	if st := s.Status(); st.Code == codes.Error {
		p.log.Warn("span failed", append(fields, zap.String("status", st.Description))...)

		return
	}
	p.log.Debug("span ended", fields...)
}

func (p *logProcessor) Shutdown(context.Context) error { return nil }

func (p *logProcessor) ForceFlush(context.Context) error { return nil }

// Ensure logProcessor conforms to the sdktrace.SpanProcessor interface at compile time.
var _ sdktrace.SpanProcessor = (*logProcessor)(nil)
