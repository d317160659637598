package backends_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/scriptbridge/scriptbridge/core/domain"
	"github.com/scriptbridge/scriptbridge/core/domain/interfaces/mocks"
	"github.com/scriptbridge/scriptbridge/core/infrastructure/backends"
	"github.com/scriptbridge/scriptbridge/core/shared/errors"
)

const gridPath = "wnd[0]/usr/cntlGRID1/shellcont/shell"

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func valuePtr(v any) *domain.Value {
	value := domain.ValueOf(v)
	return &value
}

// gridSession returns a session serving one grid with the given rows
func gridSession(t *testing.T, columns []string, rows []map[string]any) *mocks.MockSession {
	t.Helper()

	grid := mocks.NewMockGridAccessor(t)
	grid.On("Columns", mock.Anything).Return(columns, nil).Maybe()
	grid.On("RowCount", mock.Anything).Return(len(rows), nil).Maybe()
	for i, row := range rows {
		for _, column := range columns {
			grid.On("Cell", mock.Anything, i, column).Return(domain.ValueOf(row[column]), nil).Maybe()
		}
	}

	session := mocks.NewMockSession(t)
	session.On("FindGrid", mock.Anything, gridPath).Return(grid, nil).Maybe()
	return session
}

func amountSession(t *testing.T) *mocks.MockSession {
	rows := make([]map[string]any, 0, 5)
	for _, amount := range []int{100, 250, 50, 0, 300} {
		rows = append(rows, map[string]any{"Amount": amount})
	}
	return gridSession(t, []string{"Amount"}, rows)
}

func amountQuery(action domain.Action) *domain.Query {
	return &domain.Query{
		ObjectPath: gridPath,
		SourceType: domain.SourceGrid,
		Action:     action,
		Conditions: []domain.Condition{
			{Field: "Amount", Operator: domain.OpGreaterThan, Value: valuePtr(100)},
		},
	}
}

func indices(matches []domain.Match) []int {
	out := make([]int, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Index)
	}
	return out
}

func TestGridAdapter_Actions(t *testing.T) {
	adapter := backends.NewGridAdapter(backends.DefaultLimits())
	ctx := context.Background()

	all, err := adapter.Execute(ctx, amountSession(t), amountQuery(domain.ActionGetAll))
	require.NoError(t, err)
	assert.True(t, all.Success)
	assert.Equal(t, []int{1, 4}, indices(all.Matches))
	assert.Equal(t, 2, all.TotalMatches)
	assert.Equal(t, domain.NumberValue(250), all.Matches[0].Data["Amount"])
	assert.Nil(t, all.Matches[0].Key)

	first, err := adapter.Execute(ctx, amountSession(t), amountQuery(domain.ActionGetFirst))
	require.NoError(t, err)
	assert.Equal(t, []int{1}, indices(first.Matches))

	last, err := adapter.Execute(ctx, amountSession(t), amountQuery(domain.ActionGetLast))
	require.NoError(t, err)
	assert.Equal(t, []int{4}, indices(last.Matches))

	count, err := adapter.Execute(ctx, amountSession(t), amountQuery(domain.ActionCount))
	require.NoError(t, err)
	assert.Equal(t, 2, count.TotalMatches)
	assert.Empty(t, count.Matches)
}

func TestGridAdapter_ActionsAgreeUnderOptions(t *testing.T) {
	optionSets := []*domain.QueryOptions{
		nil,
		{Skip: intPtr(1)},
		{Limit: intPtr(1)},
		{Skip: intPtr(1), Limit: intPtr(5)},
		{Skip: intPtr(10)},
		{Limit: intPtr(0)},
		{IncludeAllFields: boolPtr(false), Fields: []string{"Amount"}},
	}

	adapter := backends.NewGridAdapter(backends.DefaultLimits())
	ctx := context.Background()

	for _, opts := range optionSets {
		run := func(action domain.Action) *domain.QueryResult {
			q := amountQuery(action)
			q.Conditions = nil
			q.Options = opts
			result, err := adapter.Execute(ctx, amountSession(t), q)
			require.NoError(t, err)
			return result
		}

		all := run(domain.ActionGetAll)
		first := run(domain.ActionGetFirst)
		last := run(domain.ActionGetLast)
		count := run(domain.ActionCount)

		assert.Equal(t, len(all.Matches), count.TotalMatches)
		if len(all.Matches) == 0 {
			assert.Empty(t, first.Matches)
			assert.Empty(t, last.Matches)
			continue
		}
		assert.Equal(t, all.Matches[0], first.Matches[0])
		assert.Equal(t, all.Matches[len(all.Matches)-1], last.Matches[0])
	}
}

func TestGridAdapter_OptionsWindowAndProject(t *testing.T) {
	session := gridSession(t, []string{"Status", "Amount"}, []map[string]any{
		{"Status": "Active", "Amount": 1},
		{"Status": "Active", "Amount": 2},
		{"Status": "Active", "Amount": 3},
		{"Status": "Active", "Amount": 4},
	})
	q := &domain.Query{
		ObjectPath: gridPath,
		SourceType: domain.SourceGrid,
		Action:     domain.ActionGetAll,
		Options: &domain.QueryOptions{
			Skip:             intPtr(1),
			Limit:            intPtr(2),
			IncludeAllFields: boolPtr(false),
			Fields:           []string{"Amount", "Missing"},
		},
	}

	result, err := backends.NewGridAdapter(backends.DefaultLimits()).Execute(context.Background(), session, q)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, indices(result.Matches))
	assert.Equal(t, domain.Record{"Amount": domain.NumberValue(2)}, result.Matches[0].Data)
}

func TestAdapters_RejectSelectAndExtract(t *testing.T) {
	for _, adapter := range []struct {
		name    string
		execute func(q *domain.Query) error
		source  domain.SourceType
	}{
		{"grid", func(q *domain.Query) error {
			_, err := backends.NewGridAdapter(backends.DefaultLimits()).Execute(context.Background(), mocks.NewMockSession(t), q)
			return err
		}, domain.SourceGrid},
		{"table", func(q *domain.Query) error {
			_, err := backends.NewTableAdapter(backends.DefaultLimits()).Execute(context.Background(), mocks.NewMockSession(t), q)
			return err
		}, domain.SourceTable},
		{"tree", func(q *domain.Query) error {
			_, err := backends.NewTreeAdapter(backends.DefaultLimits()).Execute(context.Background(), mocks.NewMockSession(t), q)
			return err
		}, domain.SourceTree},
	} {
		for _, action := range []domain.Action{domain.ActionSelect, domain.ActionExtract} {
			t.Run(adapter.name+"/"+string(action), func(t *testing.T) {
				q := &domain.Query{ObjectPath: "p", SourceType: adapter.source, Action: action}
				err := adapter.execute(q)
				require.Error(t, err)
				assert.Equal(t, errors.ErrCodeUnsupportedQuery, errors.CodeOf(err))
				assert.Contains(t, err.Error(), "unsupported action "+string(action)+" for source type "+string(adapter.source))
			})
		}
	}
}

func TestGridAdapter_ObjectNotFound(t *testing.T) {
	session := mocks.NewMockSession(t)
	session.On("FindGrid", mock.Anything, "missing").Return(nil, stderrors.New("control not found"))

	q := &domain.Query{ObjectPath: "missing", SourceType: domain.SourceGrid, Action: domain.ActionGetAll}
	_, err := backends.NewGridAdapter(backends.DefaultLimits()).Execute(context.Background(), session, q)

	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeObjectNotFound, errors.CodeOf(err))
	assert.True(t, errors.IsNotFound(err))
}

func TestGridAdapter_CellFailure(t *testing.T) {
	grid := mocks.NewMockGridAccessor(t)
	grid.On("Columns", mock.Anything).Return([]string{"Amount"}, nil)
	grid.On("RowCount", mock.Anything).Return(2, nil)
	grid.On("Cell", mock.Anything, 0, "Amount").Return(domain.NumberValue(1), nil)
	grid.On("Cell", mock.Anything, 1, "Amount").Return(domain.NullValue(), stderrors.New("rpc disconnected"))

	session := mocks.NewMockSession(t)
	session.On("FindGrid", mock.Anything, gridPath).Return(grid, nil)

	_, err := backends.NewGridAdapter(backends.DefaultLimits()).Execute(context.Background(), session, amountQuery(domain.ActionGetAll))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeExecutionFailed, errors.CodeOf(err))
	assert.Contains(t, err.Error(), "rpc disconnected")
}

func TestGridAdapter_MaxRecords(t *testing.T) {
	grid := mocks.NewMockGridAccessor(t)
	grid.On("Columns", mock.Anything).Return([]string{"Amount"}, nil)
	grid.On("RowCount", mock.Anything).Return(11, nil)

	session := mocks.NewMockSession(t)
	session.On("FindGrid", mock.Anything, gridPath).Return(grid, nil)

	_, err := backends.NewGridAdapter(backends.Limits{MaxRecords: 10}).Execute(context.Background(), session, amountQuery(domain.ActionCount))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "limit is 10")
}

func TestApplyAction_EmptyMatches(t *testing.T) {
	for _, action := range []domain.Action{domain.ActionGetAll, domain.ActionGetFirst, domain.ActionGetLast, domain.ActionCount} {
		result, err := backends.ApplyAction(action, domain.SourceGrid, nil)
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.NotNil(t, result.Matches)
		assert.Empty(t, result.Matches)
		assert.Zero(t, result.TotalMatches)
	}
}

func TestWindow(t *testing.T) {
	matches := []domain.Match{{Index: 0}, {Index: 1}, {Index: 2}}

	assert.Equal(t, []int{0, 1, 2}, indices(backends.Window(matches, nil)))
	assert.Equal(t, []int{1, 2}, indices(backends.Window(matches, &domain.QueryOptions{Skip: intPtr(1)})))
	assert.Equal(t, []int{0}, indices(backends.Window(matches, &domain.QueryOptions{Limit: intPtr(1)})))
	assert.Empty(t, backends.Window(matches, &domain.QueryOptions{Skip: intPtr(3)}))
	assert.Empty(t, backends.Window(matches, &domain.QueryOptions{Limit: intPtr(0)}))
	assert.Equal(t, []int{0, 1, 2}, indices(backends.Window(matches, &domain.QueryOptions{Limit: intPtr(10)})))
}
