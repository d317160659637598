// Package mocks holds testify mocks of the domain interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/scriptbridge/scriptbridge/core/domain"
	"github.com/scriptbridge/scriptbridge/core/domain/interfaces"
)

// MockSession is a mock of interfaces.Session
type MockSession struct {
	mock.Mock
}

// NewMockSession creates a MockSession whose expectations are asserted on cleanup
func NewMockSession(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockSession {
	m := &MockSession{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockSession) ID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockSession) FindGrid(ctx context.Context, path string) (interfaces.GridAccessor, error) {
	args := m.Called(ctx, path)
	grid, _ := args.Get(0).(interfaces.GridAccessor)
	return grid, args.Error(1)
}

func (m *MockSession) FindTable(ctx context.Context, path string) (interfaces.TableAccessor, error) {
	args := m.Called(ctx, path)
	table, _ := args.Get(0).(interfaces.TableAccessor)
	return table, args.Error(1)
}

func (m *MockSession) FindTree(ctx context.Context, path string) (interfaces.TreeAccessor, error) {
	args := m.Called(ctx, path)
	tree, _ := args.Get(0).(interfaces.TreeAccessor)
	return tree, args.Error(1)
}

// MockGridAccessor is a mock of interfaces.GridAccessor
type MockGridAccessor struct {
	mock.Mock
}

// NewMockGridAccessor creates a MockGridAccessor whose expectations are asserted on cleanup
func NewMockGridAccessor(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockGridAccessor {
	m := &MockGridAccessor{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockGridAccessor) Columns(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	columns, _ := args.Get(0).([]string)
	return columns, args.Error(1)
}

func (m *MockGridAccessor) RowCount(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockGridAccessor) Cell(ctx context.Context, row int, column string) (domain.Value, error) {
	args := m.Called(ctx, row, column)
	value, _ := args.Get(0).(domain.Value)
	return value, args.Error(1)
}

// MockTableAccessor is a mock of interfaces.TableAccessor
type MockTableAccessor struct {
	mock.Mock
}

// NewMockTableAccessor creates a MockTableAccessor whose expectations are asserted on cleanup
func NewMockTableAccessor(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTableAccessor {
	m := &MockTableAccessor{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockTableAccessor) Columns(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	columns, _ := args.Get(0).([]string)
	return columns, args.Error(1)
}

func (m *MockTableAccessor) RowCount(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockTableAccessor) Row(ctx context.Context, row int) (map[string]domain.Value, error) {
	args := m.Called(ctx, row)
	cells, _ := args.Get(0).(map[string]domain.Value)
	return cells, args.Error(1)
}

// MockTreeAccessor is a mock of interfaces.TreeAccessor
type MockTreeAccessor struct {
	mock.Mock
}

// NewMockTreeAccessor creates a MockTreeAccessor whose expectations are asserted on cleanup
func NewMockTreeAccessor(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTreeAccessor {
	m := &MockTreeAccessor{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockTreeAccessor) NodeKeys(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	keys, _ := args.Get(0).([]string)
	return keys, args.Error(1)
}

func (m *MockTreeAccessor) Node(ctx context.Context, key string) (domain.TreeNode, error) {
	args := m.Called(ctx, key)
	node, _ := args.Get(0).(domain.TreeNode)
	return node, args.Error(1)
}

// MockSessionManager is a mock of interfaces.SessionManager
type MockSessionManager struct {
	mock.Mock
}

// NewMockSessionManager creates a MockSessionManager whose expectations are asserted on cleanup
func NewMockSessionManager(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockSessionManager {
	m := &MockSessionManager{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockSessionManager) Get(id string) (interfaces.Session, bool) {
	args := m.Called(id)
	session, _ := args.Get(0).(interfaces.Session)
	return session, args.Bool(1)
}

func (m *MockSessionManager) Default() (interfaces.Session, bool) {
	args := m.Called()
	session, _ := args.Get(0).(interfaces.Session)
	return session, args.Bool(1)
}

func (m *MockSessionManager) IDs() []string {
	args := m.Called()
	ids, _ := args.Get(0).([]string)
	return ids
}

func (m *MockSessionManager) Count() int {
	args := m.Called()
	return args.Int(0)
}

var (
	_ interfaces.Session        = (*MockSession)(nil)
	_ interfaces.GridAccessor   = (*MockGridAccessor)(nil)
	_ interfaces.TableAccessor  = (*MockTableAccessor)(nil)
	_ interfaces.TreeAccessor   = (*MockTreeAccessor)(nil)
	_ interfaces.SessionManager = (*MockSessionManager)(nil)
)
