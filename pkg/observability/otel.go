package observability

import (
	"context"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of spans emitted by this module.
const TracerName = "github.com/matzehuels/snapshare"

// TelemetryConfig controls OpenTelemetry initialization.
type TelemetryConfig struct {
	ServiceName    string
	ServiceVersion string
	// UseStdout enables the stdout trace exporter (local development).
	UseStdout bool
}

// InitTelemetry configures the global tracer provider and returns its
// shutdown func.
func InitTelemetry(ctx context.Context, cfg TelemetryConfig) (func(context.Context) error, error) {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "snapshare"
	}
	if cfg.ServiceVersion == "" {
		cfg.ServiceVersion = os.Getenv("SNAPSHARE_VERSION")
	}

	res, err := sdkresource.New(ctx,
		sdkresource.WithFromEnv(),
		sdkresource.WithProcess(),
		sdkresource.WithHost(),
		sdkresource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
		),
	)
	if err != nil {
		return nil, err
	}

	opts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	if cfg.UseStdout {
		exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, err
		}
		opts = append(opts, sdktrace.WithBatcher(exp,
			sdktrace.WithMaxExportBatchSize(512),
			sdktrace.WithBatchTimeout(200*time.Millisecond),
		))
	}
	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

// TracingHooks turns hook events into spans. Completion hooks carry the
// duration, so spans are recorded after the fact with explicit timestamps.
type TracingHooks struct {
	tracer trace.Tracer
}

// NewTracingHooks uses the global tracer provider.
func NewTracingHooks() *TracingHooks {
	return NewTracingHooksWithProvider(otel.GetTracerProvider())
}

// NewTracingHooksWithProvider uses tp.
func NewTracingHooksWithProvider(tp trace.TracerProvider) *TracingHooks {
	return &TracingHooks{tracer: tp.Tracer(TracerName)}
}

func (h *TracingHooks) record(ctx context.Context, name string, duration time.Duration, err error, attrs ...attribute.KeyValue) {
	end := time.Now()
	_, span := h.tracer.Start(ctx, name,
		trace.WithTimestamp(end.Add(-duration)),
		trace.WithAttributes(attrs...),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End(trace.WithTimestamp(end))
}

func (h *TracingHooks) OnBuildStart(ctx context.Context, eventID, style string) {
	trace.SpanFromContext(ctx).AddEvent("flipbook.build.start", trace.WithAttributes(
		attribute.String("event.id", eventID),
		attribute.String("flipbook.style", style),
	))
}

func (h *TracingHooks) OnBuildComplete(ctx context.Context, eventID, style string, pages int, duration time.Duration, err error) {
	h.record(ctx, "flipbook.build", duration, err,
		attribute.String("event.id", eventID),
		attribute.String("flipbook.style", style),
		attribute.Int("flipbook.pages", pages),
	)
}

func (h *TracingHooks) OnStageComplete(ctx context.Context, eventID, stage string, duration time.Duration, err error) {
	h.record(ctx, "flipbook."+stage, duration, err, attribute.String("event.id", eventID))
}

func (h *TracingHooks) OnPhotoSkipped(ctx context.Context, eventID, storageKey string, err error) {
	trace.SpanFromContext(ctx).AddEvent("flipbook.photo.skipped", trace.WithAttributes(
		attribute.String("event.id", eventID),
		attribute.String("storage.key", storageKey),
		attribute.String("error", err.Error()),
	))
}

func (h *TracingHooks) OnCacheHit(ctx context.Context, keyType string) {
	trace.SpanFromContext(ctx).AddEvent("cache.hit", trace.WithAttributes(attribute.String("cache.key_type", keyType)))
}

func (h *TracingHooks) OnCacheMiss(ctx context.Context, keyType string) {
	trace.SpanFromContext(ctx).AddEvent("cache.miss", trace.WithAttributes(attribute.String("cache.key_type", keyType)))
}

func (h *TracingHooks) OnCacheSet(ctx context.Context, keyType string, size int) {
	trace.SpanFromContext(ctx).AddEvent("cache.set", trace.WithAttributes(
		attribute.String("cache.key_type", keyType),
		attribute.Int("cache.size", size),
	))
}

func (h *TracingHooks) OnRequest(ctx context.Context, method, host, path string) {}

func (h *TracingHooks) OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration) {
	h.record(ctx, "http.client "+method, duration, nil,
		attribute.String("http.request.method", method),
		attribute.String("server.address", host),
		attribute.String("url.path", path),
		attribute.Int("http.response.status_code", statusCode),
	)
}

func (h *TracingHooks) OnError(ctx context.Context, method, host, path string, err error) {
	h.record(ctx, "http.client "+method, 0, err,
		attribute.String("http.request.method", method),
		attribute.String("server.address", host),
		attribute.String("url.path", path),
	)
}

var (
	_ FlipbookHooks = (*TracingHooks)(nil)
	_ CacheHooks    = (*TracingHooks)(nil)
	_ HTTPHooks     = (*TracingHooks)(nil)
)
