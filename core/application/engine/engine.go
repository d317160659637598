// Package engine routes validated queries to the adapter of their source
// type and turns every outcome into a QueryResult.
package engine

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/scriptbridge/scriptbridge/core/application/validator"
	"github.com/scriptbridge/scriptbridge/core/domain"
	"github.com/scriptbridge/scriptbridge/core/domain/interfaces"
	"github.com/scriptbridge/scriptbridge/core/infrastructure/logging"
	"github.com/scriptbridge/scriptbridge/core/observability"
	sharedctx "github.com/scriptbridge/scriptbridge/core/shared/context"
	"github.com/scriptbridge/scriptbridge/core/shared/errors"
)

// Engine executes queries. It holds only the immutable registry and is safe
// for concurrent callers as long as each caller brings its own session.
type Engine struct {
	registry *Registry
	log      interfaces.Logger
}

var _ interfaces.QueryEngine = (*Engine)(nil)

// New creates an engine over registry
func New(registry *Registry) *Engine {
	return &Engine{
		registry: registry,
		log:      logging.New("engine"),
	}
}

// Execute validates q, runs it on the matching adapter and reports the
// outcome. It never returns an error and never panics; ElapsedMs is set on
// every result.
func (e *Engine) Execute(ctx context.Context, session interfaces.Session, q *domain.Query) *domain.QueryResult {
	start := time.Now()

	var sourceType, action, path string
	var conditions int
	if q != nil {
		sourceType, action, path, conditions = string(q.SourceType), string(q.Action), q.ObjectPath, len(q.Conditions)
	}
	ctx, span := observability.StartQuerySpan(ctx, sourceType, action, path, conditions)

	result := e.execute(ctx, session, q)
	result.ElapsedMs = time.Since(start).Milliseconds()

	observability.EndQuerySpan(span, result.Success, result.TotalMatches, string(result.ErrorCode), result.Error)
	observability.RecordQueryExecution(ctx, sourceType, action, result.Success, float64(time.Since(start).Microseconds())/1000)

	log := e.log
	if id := sharedctx.GetSessionID(ctx); id != "" {
		log = log.With("session", id)
	}
	if id := sharedctx.GetRequestID(ctx); id != "" {
		log = log.With("request_id", id)
	}
	if traceID, _, ok := observability.TraceIDs(ctx); ok {
		log = log.With(observability.AttrTraceID, traceID)
	}
	if result.Success {
		log.Debugf("%s %s on %s: %d match(es) in %dms", action, sourceType, path, result.TotalMatches, result.ElapsedMs)
	} else {
		log.Warnf("%s %s on %s failed [%s]: %s", action, sourceType, path, result.ErrorCode, result.Error)
	}
	return result
}

func (e *Engine) execute(ctx context.Context, session interfaces.Session, q *domain.Query) (result *domain.QueryResult) {
	if v := validator.Validate(q); !v.Valid {
		return domain.Failed(errors.ErrCodeValidationError, v.Message, 0)
	}

	adapter, ok := e.registry.Lookup(q.SourceType)
	if !ok {
		return domain.Failed(errors.ErrCodeAdapterNotFound, fmt.Sprintf("no adapter registered for source type %s", q.SourceType), 0)
	}

	defer func() {
		if r := recover(); r != nil {
			e.log.Errorf("adapter %s panicked: %v\n%s", q.SourceType, r, debug.Stack())
			result = domain.Failed(errors.ErrCodeExecutionFailed, fmt.Sprintf("%v", r), 0)
		}
	}()

	res, err := adapter.Execute(ctx, session, q)
	if err != nil {
		return domain.Failed(errors.CodeOf(err), errors.MessageOf(err), 0)
	}
	if res == nil {
		return domain.Failed(errors.ErrCodeExecutionFailed, fmt.Sprintf("adapter %s returned no result", q.SourceType), 0)
	}
	if res.Matches == nil {
		res.Matches = []domain.Match{}
	}
	return res
}

// FindFirst returns the first match of q, or nil when there is none or the
// query failed
func (e *Engine) FindFirst(ctx context.Context, session interfaces.Session, q *domain.Query) *domain.Match {
	if q == nil {
		return nil
	}
	return e.Execute(ctx, session, q.WithAction(domain.ActionGetFirst)).First()
}

// FindLast returns the last match of q, or nil
func (e *Engine) FindLast(ctx context.Context, session interfaces.Session, q *domain.Query) *domain.Match {
	if q == nil {
		return nil
	}
	return e.Execute(ctx, session, q.WithAction(domain.ActionGetLast)).Last()
}

// Count returns the number of matches of q, 0 on failure
func (e *Engine) Count(ctx context.Context, session interfaces.Session, q *domain.Query) int {
	if q == nil {
		return 0
	}
	result := e.Execute(ctx, session, q.WithAction(domain.ActionCount))
	if !result.Success {
		return 0
	}
	return result.TotalMatches
}
