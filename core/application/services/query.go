package services

import (
	"context"

	"github.com/scriptbridge/scriptbridge/core/application/validator"
	"github.com/scriptbridge/scriptbridge/core/domain"
	"github.com/scriptbridge/scriptbridge/core/domain/interfaces"
	sharedctx "github.com/scriptbridge/scriptbridge/core/shared/context"
	"github.com/scriptbridge/scriptbridge/core/shared/errors"
)

// QueryService implements the unified query service used by all transports
type QueryService struct {
	engine   interfaces.QueryEngine
	sessions interfaces.SessionManager
}

var _ interfaces.QueryService = (*QueryService)(nil)

// NewQueryService creates a new QueryService
func NewQueryService(engine interfaces.QueryEngine, sessions interfaces.SessionManager) *QueryService {
	return &QueryService{
		engine:   engine,
		sessions: sessions,
	}
}

// Execute resolves the session and runs q on it. The only error returned is
// SESSION_NOT_FOUND; every other failure is reported inside the result.
func (s *QueryService) Execute(ctx context.Context, sessionID string, q *domain.Query) (*domain.QueryResult, error) {
	session, err := s.resolve(sessionID)
	if err != nil {
		return nil, err
	}
	ctx = sharedctx.WithSessionID(ctx, session.ID())
	return s.engine.Execute(ctx, session, q), nil
}

// Validate checks q without touching any session
func (s *QueryService) Validate(q *domain.Query) domain.ValidationResult {
	return validator.Validate(q)
}

// Sessions returns the IDs of the available sessions
func (s *QueryService) Sessions() []string {
	return s.sessions.IDs()
}

func (s *QueryService) resolve(sessionID string) (interfaces.Session, error) {
	if sessionID == "" {
		session, ok := s.sessions.Default()
		if !ok {
			return nil, errors.Newf(errors.ErrCodeSessionNotFound, "no session is available")
		}
		return session, nil
	}
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, errors.Newf(errors.ErrCodeSessionNotFound, "session %s not found", sessionID)
	}
	return session, nil
}
