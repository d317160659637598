package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	sharedctx "github.com/scriptbridge/scriptbridge/core/shared/context"
)

func buildTraceProvider(ctx context.Context, cfg Config, res *resource.Resource) (*sdktrace.TracerProvider, error) {
	if !cfg.Enabled || !cfg.TracesEnabled {
		return sdktrace.NewTracerProvider(), nil
	}

	exporter, err := otlptracegrpc.New(
		ctx,
		otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("create otlp trace exporter: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.TraceSamplingRate)),
		sdktrace.WithBatcher(exporter),
	)

	return provider, nil
}

// StartQuerySpan opens the query.execute span. Request and session IDs
// carried by ctx are attached when present.
func StartQuerySpan(ctx context.Context, sourceType, action, objectPath string, conditions int) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String(AttrSourceType, sourceType),
		attribute.String(AttrAction, action),
		attribute.String(AttrObjectPath, objectPath),
		attribute.Int(AttrConditionCount, conditions),
	}
	if id := sharedctx.GetRequestID(ctx); id != "" {
		attrs = append(attrs, attribute.String(AttrRequestID, id))
	}
	if id := sharedctx.GetSessionID(ctx); id != "" {
		attrs = append(attrs, attribute.String(AttrSessionID, id))
	}
	return otel.Tracer(instrumentationName).Start(ctx, "query.execute", trace.WithAttributes(attrs...))
}

// StartToolSpan opens the mcp.tool span around one tool call
func StartToolSpan(ctx context.Context, tool string) (context.Context, trace.Span) {
	return otel.Tracer(instrumentationName).Start(ctx, "mcp.tool",
		trace.WithAttributes(attribute.String(AttrToolName, tool)),
	)
}

// EndQuerySpan records the outcome on span and ends it
func EndQuerySpan(span trace.Span, success bool, totalMatches int, errorCode, errorMessage string) {
	span.SetAttributes(
		attribute.Bool(AttrSuccess, success),
		attribute.Int(AttrTotalMatches, totalMatches),
	)
	if !success {
		span.SetAttributes(
			attribute.String(AttrErrorCode, errorCode),
			attribute.String(AttrErrorMessage, errorMessage),
		)
		span.SetStatus(codes.Error, errorMessage)
	}
	span.End()
}
