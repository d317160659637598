package interfaces

import (
	"context"

	"github.com/scriptbridge/scriptbridge/core/domain"
)

// Session is a live scripting session that can locate UI objects by path.
// A session must not be shared across concurrent queries.
type Session interface {
	// ID returns the session identifier
	ID() string

	// FindGrid locates a spreadsheet-like grid at path
	FindGrid(ctx context.Context, path string) (GridAccessor, error)

	// FindTable locates a fixed-row table control at path
	FindTable(ctx context.Context, path string) (TableAccessor, error)

	// FindTree locates a hierarchical tree at path
	FindTree(ctx context.Context, path string) (TreeAccessor, error)
}

// GridAccessor reads cells of a grid
type GridAccessor interface {
	Columns(ctx context.Context) ([]string, error)
	RowCount(ctx context.Context) (int, error)
	Cell(ctx context.Context, row int, column string) (domain.Value, error)
}

// TableAccessor reads whole rows of a table control
type TableAccessor interface {
	Columns(ctx context.Context) ([]string, error)
	RowCount(ctx context.Context) (int, error)
	Row(ctx context.Context, row int) (map[string]domain.Value, error)
}

// TreeAccessor reads nodes of a tree in display order
type TreeAccessor interface {
	NodeKeys(ctx context.Context) ([]string, error)
	Node(ctx context.Context, key string) (domain.TreeNode, error)
}

// SessionManager holds the sessions the service can query
type SessionManager interface {
	// Get returns a session by ID
	Get(id string) (Session, bool)

	// Default returns the session used when a request names none
	Default() (Session, bool)

	// IDs returns the sorted session IDs
	IDs() []string

	// Count returns the number of managed sessions
	Count() int
}
