package backends

import (
	"context"

	"github.com/scriptbridge/scriptbridge/core/domain"
	"github.com/scriptbridge/scriptbridge/core/domain/interfaces"
)

// TableAdapter queries fixed-row table controls, one whole row per read
type TableAdapter struct {
	pipeline
}

// NewTableAdapter creates the table adapter
func NewTableAdapter(limits Limits) *TableAdapter {
	a := &TableAdapter{}
	a.pipeline = pipeline{sourceType: domain.SourceTable, limits: limits.normalized(), extract: a.extract}
	return a
}

func (a *TableAdapter) extract(ctx context.Context, session interfaces.Session, path string) ([]entry, error) {
	table, err := session.FindTable(ctx, path)
	if err != nil || table == nil {
		return nil, locateError(domain.SourceTable, path, err)
	}

	columns, err := table.Columns(ctx)
	if err != nil {
		return nil, readError(path, err)
	}
	rows, err := table.RowCount(ctx)
	if err != nil {
		return nil, readError(path, err)
	}
	if err := checkRecordCount(path, rows, a.limits); err != nil {
		return nil, err
	}

	entries := make([]entry, 0, rows)
	for row := 0; row < rows; row++ {
		if err := ctx.Err(); err != nil {
			return nil, readError(path, err)
		}
		cells, err := table.Row(ctx, row)
		if err != nil {
			return nil, readError(path, err)
		}

		// Every declared column is present; cells outside the column list are kept too.
		record := make(domain.Record, len(columns))
		for _, column := range columns {
			record[column] = cells[column]
		}
		for name, value := range cells {
			record[name] = value
		}
		entries = append(entries, entry{data: record})
	}
	return entries, nil
}
