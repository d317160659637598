package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/scriptbridge/scriptbridge/core/application/services"
	"github.com/scriptbridge/scriptbridge/core/domain"
	"github.com/scriptbridge/scriptbridge/core/domain/interfaces/mocks"
	sharedctx "github.com/scriptbridge/scriptbridge/core/shared/context"
	"github.com/scriptbridge/scriptbridge/core/shared/errors"
)

func testQuery() *domain.Query {
	return &domain.Query{
		ObjectPath: "wnd[0]/usr/cntlGRID1/shellcont/shell",
		SourceType: domain.SourceGrid,
		Action:     domain.ActionGetAll,
	}
}

func TestQueryService_Execute(t *testing.T) {
	tests := []struct {
		name          string
		sessionID     string
		setup         func(sm *mocks.MockSessionManager, session *mocks.MockSession)
		expectedError errors.ErrorCode
		expectedRun   bool
	}{
		{
			name:      "default session",
			sessionID: "",
			setup: func(sm *mocks.MockSessionManager, session *mocks.MockSession) {
				sm.On("Default").Return(session, true)
			},
			expectedRun: true,
		},
		{
			name:      "named session",
			sessionID: "ses2",
			setup: func(sm *mocks.MockSessionManager, session *mocks.MockSession) {
				sm.On("Get", "ses2").Return(session, true)
			},
			expectedRun: true,
		},
		{
			name:      "unknown session",
			sessionID: "ses9",
			setup: func(sm *mocks.MockSessionManager, session *mocks.MockSession) {
				sm.On("Get", "ses9").Return(nil, false)
			},
			expectedError: errors.ErrCodeSessionNotFound,
		},
		{
			name:      "no sessions loaded",
			sessionID: "",
			setup: func(sm *mocks.MockSessionManager, session *mocks.MockSession) {
				sm.On("Default").Return(nil, false)
			},
			expectedError: errors.ErrCodeSessionNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm := mocks.NewMockSessionManager(t)
			session := mocks.NewMockSession(t)
			eng := mocks.NewMockQueryEngine(t)
			tt.setup(sm, session)

			q := testQuery()
			expected := domain.Succeeded([]domain.Match{{Index: 3}}, 1)
			if tt.expectedRun {
				session.On("ID").Return("ses-under-test")
				eng.On("Execute", mock.MatchedBy(func(ctx context.Context) bool {
					return sharedctx.GetSessionID(ctx) == "ses-under-test"
				}), session, q).Return(expected)
			}

			result, err := services.NewQueryService(eng, sm).Execute(context.Background(), tt.sessionID, q)
			if tt.expectedError != "" {
				require.Error(t, err)
				assert.Equal(t, tt.expectedError, errors.CodeOf(err))
				assert.Nil(t, result)
				return
			}
			require.NoError(t, err)
			assert.Same(t, expected, result)
		})
	}
}

func TestQueryService_Validate(t *testing.T) {
	svc := services.NewQueryService(mocks.NewMockQueryEngine(t), mocks.NewMockSessionManager(t))

	assert.True(t, svc.Validate(testQuery()).Valid)

	q := testQuery()
	q.ObjectPath = ""
	result := svc.Validate(q)
	assert.False(t, result.Valid)
	assert.Equal(t, []string{"object_path is required"}, result.Violations)
}

func TestQueryService_Sessions(t *testing.T) {
	sm := mocks.NewMockSessionManager(t)
	sm.On("IDs").Return([]string{"ses0", "ses1"})

	svc := services.NewQueryService(mocks.NewMockQueryEngine(t), sm)
	assert.Equal(t, []string{"ses0", "ses1"}, svc.Sessions())
}
