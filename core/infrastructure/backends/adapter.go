// Package backends implements the per-source-type adapters. Every adapter
// extracts the whole record set of one object once, then shares the same
// filter, window, projection and action pipeline.
package backends

import (
	"context"
	stderrors "errors"

	"github.com/scriptbridge/scriptbridge/core/application/evaluator"
	"github.com/scriptbridge/scriptbridge/core/domain"
	"github.com/scriptbridge/scriptbridge/core/domain/interfaces"
	"github.com/scriptbridge/scriptbridge/core/shared/errors"
)

const (
	// DefaultMaxRecords caps the rows or nodes read from one object
	DefaultMaxRecords = 10000
	// DefaultMaxDepth caps the nesting level of tree nodes
	DefaultMaxDepth = 64
)

// Limits bounds how much an adapter reads from one object
type Limits struct {
	MaxRecords int
	MaxDepth   int
}

// DefaultLimits returns the limits used when configuration sets none
func DefaultLimits() Limits {
	return Limits{MaxRecords: DefaultMaxRecords, MaxDepth: DefaultMaxDepth}
}

func (l Limits) normalized() Limits {
	if l.MaxRecords <= 0 {
		l.MaxRecords = DefaultMaxRecords
	}
	if l.MaxDepth <= 0 {
		l.MaxDepth = DefaultMaxDepth
	}
	return l
}

// entry is one extracted record plus its natural key, if the source has one
type entry struct {
	key  *string
	data domain.Record
}

// extractFunc reads the full ordered record set of the object at path
type extractFunc func(ctx context.Context, session interfaces.Session, path string) ([]entry, error)

// pipeline is the part every adapter shares: extraction is the only
// source-specific step.
type pipeline struct {
	sourceType domain.SourceType
	limits     Limits
	extract    extractFunc
}

func (p *pipeline) SourceType() domain.SourceType {
	return p.sourceType
}

func (p *pipeline) Execute(ctx context.Context, session interfaces.Session, q *domain.Query) (*domain.QueryResult, error) {
	if q == nil {
		return nil, errors.Newf(errors.ErrCodeInvalidInput, "query is required")
	}
	if !supportsAction(q.Action) {
		return nil, errors.Newf(errors.ErrCodeUnsupportedQuery, "unsupported action %s for source type %s", q.Action, p.sourceType)
	}
	if session == nil {
		return nil, errors.Newf(errors.ErrCodeSessionNotFound, "no session available")
	}

	entries, err := p.extract(ctx, session, q.ObjectPath)
	if err != nil {
		return nil, err
	}

	matches := make([]domain.Match, 0, len(entries))
	for i, e := range entries {
		if evaluator.EvaluateConditions(q.Conditions, e.data) {
			matches = append(matches, domain.Match{Index: i, Key: e.key, Data: e.data})
		}
	}

	matches = Window(matches, q.Options)
	matches = Project(matches, q.Options)
	return ApplyAction(q.Action, p.sourceType, matches)
}

func supportsAction(action domain.Action) bool {
	switch action {
	case domain.ActionGetAll, domain.ActionGetFirst, domain.ActionGetLast, domain.ActionCount:
		return true
	default:
		return false
	}
}

// ApplyAction reduces the full match list according to action. First and
// last are taken from the full list and Count is its length, so every action
// agrees with GetAll.
func ApplyAction(action domain.Action, sourceType domain.SourceType, all []domain.Match) (*domain.QueryResult, error) {
	total := len(all)
	switch action {
	case domain.ActionGetAll:
		return domain.Succeeded(all, total), nil
	case domain.ActionGetFirst:
		if total == 0 {
			return domain.Succeeded(nil, 0), nil
		}
		return domain.Succeeded(all[:1], total), nil
	case domain.ActionGetLast:
		if total == 0 {
			return domain.Succeeded(nil, 0), nil
		}
		return domain.Succeeded(all[total-1:], total), nil
	case domain.ActionCount:
		return domain.Succeeded(nil, total), nil
	default:
		return nil, errors.Newf(errors.ErrCodeUnsupportedQuery, "unsupported action %s for source type %s", action, sourceType)
	}
}

// Window applies skip then limit to the filtered matches
func Window(matches []domain.Match, opts *domain.QueryOptions) []domain.Match {
	if opts == nil {
		return matches
	}
	if opts.Skip != nil && *opts.Skip > 0 {
		if *opts.Skip >= len(matches) {
			return matches[:0]
		}
		matches = matches[*opts.Skip:]
	}
	if opts.Limit != nil && *opts.Limit >= 0 && *opts.Limit < len(matches) {
		matches = matches[:*opts.Limit]
	}
	return matches
}

// Project narrows match data to the requested fields when the options ask
// for it. Fields missing from a record are omitted.
func Project(matches []domain.Match, opts *domain.QueryOptions) []domain.Match {
	if opts.AllFields() {
		return matches
	}

	projected := make([]domain.Match, len(matches))
	for i, m := range matches {
		data := make(domain.Record, len(opts.Fields))
		for _, field := range opts.Fields {
			if v, ok := m.Data[field]; ok {
				data[field] = v
			}
		}
		projected[i] = domain.Match{Index: m.Index, Key: m.Key, Data: data}
	}
	return projected
}

// locateError normalizes a failure to find an object. Errors that already
// carry a code keep it; anything else is reported as not found.
func locateError(sourceType domain.SourceType, path string, err error) error {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return err
	}
	return errors.WrapError(errors.ErrCodeObjectNotFound, "no "+string(sourceType)+" object at "+path, err)
}

// readError wraps an accessor failure during extraction
func readError(path string, err error) error {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return err
	}
	return errors.WrapError(errors.ErrCodeExecutionFailed, "reading "+path+" failed", err)
}

func checkRecordCount(path string, count int, limits Limits) error {
	if count > limits.MaxRecords {
		return errors.Newf(errors.ErrCodeExecutionFailed, "object at %s has %d records, limit is %d", path, count, limits.MaxRecords)
	}
	return nil
}
