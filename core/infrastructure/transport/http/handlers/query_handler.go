package handlers

import (
	"net/http"

	"github.com/scriptbridge/scriptbridge/core/domain"
	"github.com/scriptbridge/scriptbridge/core/domain/interfaces"
	"github.com/scriptbridge/scriptbridge/core/infrastructure/transport/http/dto"
	"github.com/scriptbridge/scriptbridge/core/shared/errors"
)

const (
	// SessionHeader selects the session a query runs on
	SessionHeader = "X-Session-Id"
	// SessionParam is the query parameter fallback for SessionHeader
	SessionParam = "session"
)

// QueryHandler serves the query endpoints
type QueryHandler struct {
	*BaseHandler
	queries interfaces.QueryService
}

// NewQueryHandler creates a new query handler
func NewQueryHandler(queries interfaces.QueryService) *QueryHandler {
	return &QueryHandler{
		BaseHandler: NewBaseHandler("handler"),
		queries:     queries,
	}
}

// Execute runs the query with the action given in the body
func (h *QueryHandler) Execute(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "")
}

// First runs the query as GetFirst
func (h *QueryHandler) First(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, domain.ActionGetFirst)
}

// Last runs the query as GetLast
func (h *QueryHandler) Last(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, domain.ActionGetLast)
}

// Count runs the query as Count
func (h *QueryHandler) Count(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, domain.ActionCount)
}

// Validate checks the query without executing it
func (h *QueryHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var q domain.Query
	if err := h.DecodeJSON(w, r, &q); err != nil {
		h.logger.Warnf("Rejected validation request: %v", err)
		h.WriteError(w, err)
		return
	}
	h.WriteSuccess(w, h.queries.Validate(&q))
}

// Sessions lists the sessions a query can target
func (h *QueryHandler) Sessions(w http.ResponseWriter, r *http.Request) {
	ids := h.queries.Sessions()
	h.WriteSuccess(w, dto.SessionsResponse{Sessions: ids, Count: len(ids)})
}

// run decodes the body and writes the result. A failed result is written
// with the status of its error code, in the same shape as a successful one.
func (h *QueryHandler) run(w http.ResponseWriter, r *http.Request, action domain.Action) {
	h.logger.Infof("Request: %s %s", r.Method, r.URL.Path)

	var q domain.Query
	if err := h.DecodeJSON(w, r, &q); err != nil {
		h.logger.Warnf("Rejected query request: %v", err)
		h.writeResult(w, domain.Failed(errors.CodeOf(err), errors.MessageOf(err), 0))
		return
	}

	query := &q
	if action != "" {
		query = q.WithAction(action)
	}

	result, err := h.queries.Execute(r.Context(), SessionID(r), query)
	if err != nil {
		h.logger.Warnf("Query not executed: %v", err)
		result = domain.Failed(errors.CodeOf(err), errors.MessageOf(err), 0)
	}
	h.writeResult(w, result)
}

func (h *QueryHandler) writeResult(w http.ResponseWriter, result *domain.QueryResult) {
	status := http.StatusOK
	if !result.Success {
		status = errors.StatusFor(result.ErrorCode)
		h.logger.Debugf("Query failed with %s: %s", result.ErrorCode, result.Error)
	} else {
		h.logger.Debugf("Query succeeded, %d match(es) in %dms", result.TotalMatches, result.ElapsedMs)
	}
	h.logger.Infof("Response: %d", status)
	h.WriteJSON(w, status, result)
}

// SessionID returns the session named by the request, or "" for the default
func SessionID(r *http.Request) string {
	if id := r.Header.Get(SessionHeader); id != "" {
		return id
	}
	return r.URL.Query().Get(SessionParam)
}
