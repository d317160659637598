package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/scriptbridge/scriptbridge/core/domain"
	"github.com/scriptbridge/scriptbridge/core/domain/interfaces"
)

// MockAdapter is a mock of interfaces.Adapter
type MockAdapter struct {
	mock.Mock
}

// NewMockAdapter creates a MockAdapter whose expectations are asserted on cleanup
func NewMockAdapter(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockAdapter {
	m := &MockAdapter{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockAdapter) SourceType() domain.SourceType {
	args := m.Called()
	return args.Get(0).(domain.SourceType)
}

func (m *MockAdapter) Execute(ctx context.Context, session interfaces.Session, q *domain.Query) (*domain.QueryResult, error) {
	args := m.Called(ctx, session, q)
	result, _ := args.Get(0).(*domain.QueryResult)
	return result, args.Error(1)
}

// MockQueryService is a mock of interfaces.QueryService
type MockQueryService struct {
	mock.Mock
}

// NewMockQueryService creates a MockQueryService whose expectations are asserted on cleanup
func NewMockQueryService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockQueryService {
	m := &MockQueryService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockQueryService) Execute(ctx context.Context, sessionID string, q *domain.Query) (*domain.QueryResult, error) {
	args := m.Called(ctx, sessionID, q)
	result, _ := args.Get(0).(*domain.QueryResult)
	return result, args.Error(1)
}

func (m *MockQueryService) Validate(q *domain.Query) domain.ValidationResult {
	args := m.Called(q)
	return args.Get(0).(domain.ValidationResult)
}

func (m *MockQueryService) Sessions() []string {
	args := m.Called()
	ids, _ := args.Get(0).([]string)
	return ids
}

// MockQueryEngine is a mock of interfaces.QueryEngine
type MockQueryEngine struct {
	mock.Mock
}

// NewMockQueryEngine creates a MockQueryEngine whose expectations are asserted on cleanup
func NewMockQueryEngine(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockQueryEngine {
	m := &MockQueryEngine{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockQueryEngine) Execute(ctx context.Context, session interfaces.Session, q *domain.Query) *domain.QueryResult {
	args := m.Called(ctx, session, q)
	result, _ := args.Get(0).(*domain.QueryResult)
	return result
}

func (m *MockQueryEngine) FindFirst(ctx context.Context, session interfaces.Session, q *domain.Query) *domain.Match {
	args := m.Called(ctx, session, q)
	match, _ := args.Get(0).(*domain.Match)
	return match
}

func (m *MockQueryEngine) FindLast(ctx context.Context, session interfaces.Session, q *domain.Query) *domain.Match {
	args := m.Called(ctx, session, q)
	match, _ := args.Get(0).(*domain.Match)
	return match
}

func (m *MockQueryEngine) Count(ctx context.Context, session interfaces.Session, q *domain.Query) int {
	args := m.Called(ctx, session, q)
	return args.Int(0)
}

var (
	_ interfaces.Adapter      = (*MockAdapter)(nil)
	_ interfaces.QueryService = (*MockQueryService)(nil)
	_ interfaces.QueryEngine  = (*MockQueryEngine)(nil)
)
