package observability

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

const (
	AttrTraceID        = "trace_id"
	AttrSpanID         = "span_id"
	AttrRequestID      = "request.id"
	AttrSessionID      = "session.id"
	AttrSourceType     = "query.source_type"
	AttrAction         = "query.action"
	AttrObjectPath     = "query.object_path"
	AttrConditionCount = "query.condition_count"
	AttrTotalMatches   = "query.total_matches"
	AttrSuccess        = "query.success"
	AttrToolName       = "tool.name"
	AttrHTTPMethod     = "http.request.method"
	AttrHTTPRoute      = "http.route"
	AttrHTTPStatusCode = "http.response.status_code"
	AttrErrorCode      = "error.code"
	AttrErrorMessage   = "error.message"
)

// TraceIDs returns the trace and span IDs of the span in ctx, if any
func TraceIDs(ctx context.Context) (traceID, spanID string, ok bool) {
	if ctx == nil {
		return "", "", false
	}
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return "", "", false
	}
	return spanCtx.TraceID().String(), spanCtx.SpanID().String(), true
}
