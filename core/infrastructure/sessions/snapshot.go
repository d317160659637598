// Package sessions serves recorded screens as query sessions. A snapshot file
// lists sessions, and each session maps object paths to grids, tables or
// trees captured from the desktop application.
package sessions

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/scriptbridge/scriptbridge/core/domain"
	"github.com/scriptbridge/scriptbridge/core/domain/interfaces"
	"github.com/scriptbridge/scriptbridge/core/shared/errors"
)

// Object kinds accepted in a snapshot file
const (
	KindGrid  = "grid"
	KindTable = "table"
	KindTree  = "tree"
)

// File is the on-disk snapshot format
type File struct {
	Default  string                 `yaml:"default,omitempty"`
	Sessions map[string]SessionSpec `yaml:"sessions"`
}

// SessionSpec holds the objects visible in one session
type SessionSpec struct {
	Objects map[string]ObjectSpec `yaml:"objects"`
}

// ObjectSpec is one recorded UI object. Grids and tables use Columns and
// Rows; trees use Nodes.
type ObjectSpec struct {
	Type    string                    `yaml:"type"`
	Columns []string                  `yaml:"columns,omitempty"`
	Rows    []map[string]domain.Value `yaml:"rows,omitempty"`
	Nodes   []NodeSpec                `yaml:"nodes,omitempty"`
}

// NodeSpec is one recorded tree node with its children
type NodeSpec struct {
	Key        string                  `yaml:"key"`
	Text       string                  `yaml:"text"`
	Expanded   bool                    `yaml:"expanded,omitempty"`
	Properties map[string]domain.Value `yaml:"properties,omitempty"`
	Children   []NodeSpec              `yaml:"children,omitempty"`
}

// ReadFile parses a snapshot file. JSON is valid YAML, so both work.
func ReadFile(path string) (*File, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}
	return Parse(content)
}

// Parse decodes snapshot content
func Parse(content []byte) (*File, error) {
	var file File
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	if len(file.Sessions) == 0 {
		return nil, fmt.Errorf("snapshot defines no sessions")
	}
	if file.Default != "" {
		if _, ok := file.Sessions[file.Default]; !ok {
			return nil, fmt.Errorf("default session %q is not defined", file.Default)
		}
	}
	return &file, nil
}

// Session is an immutable recorded session
type Session struct {
	id      string
	objects map[string]any
}

var _ interfaces.Session = (*Session)(nil)

// NewSession builds a session from its spec
func NewSession(id string, spec SessionSpec) (*Session, error) {
	s := &Session{id: id, objects: make(map[string]any, len(spec.Objects))}
	for path, obj := range spec.Objects {
		built, err := buildObject(obj)
		if err != nil {
			return nil, fmt.Errorf("session %s, object %s: %w", id, path, err)
		}
		s.objects[path] = built
	}
	return s, nil
}

func buildObject(obj ObjectSpec) (any, error) {
	switch strings.ToLower(obj.Type) {
	case KindGrid:
		return &gridObject{columns: columnsOf(obj), rows: obj.Rows}, nil
	case KindTable:
		return &tableObject{columns: columnsOf(obj), rows: obj.Rows}, nil
	case KindTree:
		tree := &treeObject{nodes: make(map[string]domain.TreeNode)}
		if err := tree.flatten(obj.Nodes, 1); err != nil {
			return nil, err
		}
		return tree, nil
	default:
		return nil, fmt.Errorf("unknown object type %q (expected grid, table or tree)", obj.Type)
	}
}

// columnsOf returns the declared columns, or the sorted union of row keys
// when none are declared
func columnsOf(obj ObjectSpec) []string {
	if len(obj.Columns) > 0 {
		return obj.Columns
	}
	seen := make(map[string]bool)
	var columns []string
	for _, row := range obj.Rows {
		for name := range row {
			if !seen[name] {
				seen[name] = true
				columns = append(columns, name)
			}
		}
	}
	slices.Sort(columns)
	return columns
}

func (s *Session) ID() string { return s.id }

// Paths returns the recorded object paths, sorted
func (s *Session) Paths() []string {
	paths := make([]string, 0, len(s.objects))
	for path := range s.objects {
		paths = append(paths, path)
	}
	slices.Sort(paths)
	return paths
}

func (s *Session) FindGrid(_ context.Context, path string) (interfaces.GridAccessor, error) {
	obj, err := s.find(path)
	if err != nil {
		return nil, err
	}
	grid, ok := obj.(*gridObject)
	if !ok {
		return nil, s.wrongKind(path, obj, KindGrid)
	}
	return grid, nil
}

func (s *Session) FindTable(_ context.Context, path string) (interfaces.TableAccessor, error) {
	obj, err := s.find(path)
	if err != nil {
		return nil, err
	}
	table, ok := obj.(*tableObject)
	if !ok {
		return nil, s.wrongKind(path, obj, KindTable)
	}
	return table, nil
}

func (s *Session) FindTree(_ context.Context, path string) (interfaces.TreeAccessor, error) {
	obj, err := s.find(path)
	if err != nil {
		return nil, err
	}
	tree, ok := obj.(*treeObject)
	if !ok {
		return nil, s.wrongKind(path, obj, KindTree)
	}
	return tree, nil
}

func (s *Session) find(path string) (any, error) {
	obj, ok := s.objects[path]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeObjectNotFound, "object %s not found in session %s", path, s.id)
	}
	return obj, nil
}

func (s *Session) wrongKind(path string, obj any, want string) error {
	return errors.Newf(errors.ErrCodeObjectNotFound, "object %s in session %s is a %s, not a %s", path, s.id, kindOf(obj), want)
}

func kindOf(obj any) string {
	switch obj.(type) {
	case *gridObject:
		return KindGrid
	case *tableObject:
		return KindTable
	case *treeObject:
		return KindTree
	default:
		return "unknown object"
	}
}

type gridObject struct {
	columns []string
	rows    []map[string]domain.Value
}

func (g *gridObject) Columns(context.Context) ([]string, error) { return g.columns, nil }
func (g *gridObject) RowCount(context.Context) (int, error)     { return len(g.rows), nil }

func (g *gridObject) Cell(_ context.Context, row int, column string) (domain.Value, error) {
	if row < 0 || row >= len(g.rows) {
		return domain.NullValue(), fmt.Errorf("row %d out of range [0, %d)", row, len(g.rows))
	}
	return g.rows[row][column], nil
}

type tableObject struct {
	columns []string
	rows    []map[string]domain.Value
}

func (t *tableObject) Columns(context.Context) ([]string, error) { return t.columns, nil }
func (t *tableObject) RowCount(context.Context) (int, error)     { return len(t.rows), nil }

func (t *tableObject) Row(_ context.Context, row int) (map[string]domain.Value, error) {
	if row < 0 || row >= len(t.rows) {
		return nil, fmt.Errorf("row %d out of range [0, %d)", row, len(t.rows))
	}
	cells := make(map[string]domain.Value, len(t.rows[row]))
	for name, value := range t.rows[row] {
		cells[name] = value
	}
	return cells, nil
}

// treeObject holds nodes flattened depth-first, parents before children
type treeObject struct {
	keys  []string
	nodes map[string]domain.TreeNode
}

func (t *treeObject) flatten(specs []NodeSpec, level int) error {
	for _, spec := range specs {
		if spec.Key == "" {
			return fmt.Errorf("tree node %q at level %d has no key", spec.Text, level)
		}
		if _, dup := t.nodes[spec.Key]; dup {
			return fmt.Errorf("duplicate tree node key %q", spec.Key)
		}
		t.keys = append(t.keys, spec.Key)
		t.nodes[spec.Key] = domain.TreeNode{
			Key:         spec.Key,
			Text:        spec.Text,
			Level:       level,
			HasChildren: len(spec.Children) > 0,
			IsExpanded:  spec.Expanded,
			Properties:  spec.Properties,
		}
		if err := t.flatten(spec.Children, level+1); err != nil {
			return err
		}
	}
	return nil
}

func (t *treeObject) NodeKeys(context.Context) ([]string, error) { return t.keys, nil }

func (t *treeObject) Node(_ context.Context, key string) (domain.TreeNode, error) {
	node, ok := t.nodes[key]
	if !ok {
		return domain.TreeNode{}, fmt.Errorf("tree node %q not found", key)
	}
	return node, nil
}
