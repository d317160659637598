package backends

import (
	"context"

	"github.com/scriptbridge/scriptbridge/core/domain"
	"github.com/scriptbridge/scriptbridge/core/domain/interfaces"
	"github.com/scriptbridge/scriptbridge/core/shared/errors"
)

// Synthetic tree fields. Custom node properties never overwrite them.
const (
	FieldKey         = "Key"
	FieldText        = "Text"
	FieldLevel       = "Level"
	FieldHasChildren = "HasChildren"
	FieldIsExpanded  = "IsExpanded"
)

// TreeAdapter queries hierarchical trees. Nodes are read in the order the
// accessor lists their keys; each match carries the node key.
type TreeAdapter struct {
	pipeline
}

// NewTreeAdapter creates the tree adapter
func NewTreeAdapter(limits Limits) *TreeAdapter {
	a := &TreeAdapter{}
	a.pipeline = pipeline{sourceType: domain.SourceTree, limits: limits.normalized(), extract: a.extract}
	return a
}

func (a *TreeAdapter) extract(ctx context.Context, session interfaces.Session, path string) ([]entry, error) {
	tree, err := session.FindTree(ctx, path)
	if err != nil || tree == nil {
		return nil, locateError(domain.SourceTree, path, err)
	}

	keys, err := tree.NodeKeys(ctx)
	if err != nil {
		return nil, readError(path, err)
	}
	if err := checkRecordCount(path, len(keys), a.limits); err != nil {
		return nil, err
	}

	entries := make([]entry, 0, len(keys))
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return nil, readError(path, err)
		}
		node, err := tree.Node(ctx, key)
		if err != nil {
			return nil, readError(path, err)
		}
		if node.Level > a.limits.MaxDepth {
			return nil, errors.Newf(errors.ErrCodeExecutionFailed, "node %s of %s is at level %d, limit is %d", key, path, node.Level, a.limits.MaxDepth)
		}

		nodeKey := key
		entries = append(entries, entry{key: &nodeKey, data: FlattenNode(node)})
	}
	return entries, nil
}

// FlattenNode merges the synthetic fields and the custom properties of a node
// into one record
func FlattenNode(node domain.TreeNode) domain.Record {
	record := make(domain.Record, len(node.Properties)+5)
	for name, value := range node.Properties {
		record[name] = value
	}
	record[FieldKey] = domain.StringValue(node.Key)
	record[FieldText] = domain.StringValue(node.Text)
	record[FieldLevel] = domain.NumberValue(float64(node.Level))
	record[FieldHasChildren] = domain.BoolValue(node.HasChildren)
	record[FieldIsExpanded] = domain.BoolValue(node.IsExpanded)
	return record
}
