package backends

import (
	"context"

	"github.com/scriptbridge/scriptbridge/core/domain"
	"github.com/scriptbridge/scriptbridge/core/domain/interfaces"
)

// GridAdapter queries spreadsheet-like grids. Every cell of every row is read
// through the accessor before filtering starts.
type GridAdapter struct {
	pipeline
}

// NewGridAdapter creates the grid adapter
func NewGridAdapter(limits Limits) *GridAdapter {
	a := &GridAdapter{}
	a.pipeline = pipeline{sourceType: domain.SourceGrid, limits: limits.normalized(), extract: a.extract}
	return a
}

func (a *GridAdapter) extract(ctx context.Context, session interfaces.Session, path string) ([]entry, error) {
	grid, err := session.FindGrid(ctx, path)
	if err != nil || grid == nil {
		return nil, locateError(domain.SourceGrid, path, err)
	}

	columns, err := grid.Columns(ctx)
	if err != nil {
		return nil, readError(path, err)
	}
	rows, err := grid.RowCount(ctx)
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
		record := make(domain.Record, len(columns))
		for _, column := range columns {
			value, err := grid.Cell(ctx, row, column)
			if err != nil {
				return nil, readError(path, err)
			}
			record[column] = value
		}
		entries = append(entries, entry{data: record})
	}
	return entries, nil
}
