package interfaces

import (
	"context"

	"github.com/scriptbridge/scriptbridge/core/domain"
)

// Adapter extracts every record of one source type, filters it and reduces
// the matches according to the query action
type Adapter interface {
	// SourceType returns the source type this adapter serves
	SourceType() domain.SourceType

	// Execute runs q against the object found through session
	Execute(ctx context.Context, session Session, q *domain.Query) (*domain.QueryResult, error)
}

// QueryEngine validates, routes and times query executions
type QueryEngine interface {
	// Execute never returns an error; failures are reported in the result
	Execute(ctx context.Context, session Session, q *domain.Query) *domain.QueryResult

	// FindFirst returns the first match or nil
	FindFirst(ctx context.Context, session Session, q *domain.Query) *domain.Match

	// FindLast returns the last match or nil
	FindLast(ctx context.Context, session Session, q *domain.Query) *domain.Match

	// Count returns the number of matches, 0 on failure
	Count(ctx context.Context, session Session, q *domain.Query) int
}
