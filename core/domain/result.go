package domain

import (
	"github.com/scriptbridge/scriptbridge/core/shared/errors"
)

// Match is a record that passed the full condition chain
type Match struct {
	Index int     `json:"index"`
	Key   *string `json:"key,omitempty"`
	Data  Record  `json:"data"`
}

// QueryResult is the normalized outcome of one query execution
type QueryResult struct {
	Success      bool             `json:"success"`
	TotalMatches int              `json:"total_matches"`
	Matches      []Match          `json:"matches"`
	Error        string           `json:"error,omitempty"`
	ErrorCode    errors.ErrorCode `json:"error_code,omitempty"`
	ElapsedMs    int64            `json:"elapsed_ms"`
}

// Succeeded builds a successful result
func Succeeded(matches []Match, total int) *QueryResult {
	if matches == nil {
		matches = []Match{}
	}
	return &QueryResult{
		Success:      true,
		TotalMatches: total,
		Matches:      matches,
	}
}

// Failed builds a failed result carrying the elapsed time
func Failed(code errors.ErrorCode, message string, elapsedMs int64) *QueryResult {
	return &QueryResult{
		Success:   false,
		Matches:   []Match{},
		Error:     message,
		ErrorCode: code,
		ElapsedMs: elapsedMs,
	}
}

// First returns the first match, or nil
func (r *QueryResult) First() *Match {
	if r == nil || !r.Success || len(r.Matches) == 0 {
		return nil
	}
	return &r.Matches[0]
}

// Last returns the last match, or nil
func (r *QueryResult) Last() *Match {
	if r == nil || !r.Success || len(r.Matches) == 0 {
		return nil
	}
	return &r.Matches[len(r.Matches)-1]
}

// TreeNode is one node of a hierarchical UI object, as read by a TreeAccessor
type TreeNode struct {
	Key         string
	Text        string
	Level       int
	HasChildren bool
	IsExpanded  bool
	Properties  map[string]Value
}
