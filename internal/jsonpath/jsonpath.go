// Package jsonpath extracts a single value out of nested keyed/array data
// (the shape produced by encoding/json into any) using a small descent-path
// syntax: `.field` for property access and `[0]`, `[key]` or `["key"]` for
// indexed access, chained left to right. Example:
//
//	.result[0]["ProposeGasPrice"]
//
// A syntactically invalid path is an error; a well-formed path that simply
// does not match the data is not — Get reports it as found=false so callers
// can tell a misconfigured expression apart from an unexpected payload.
package jsonpath

import (
	"fmt"
	"strconv"
)

// Segment is one parsed step of a path expression: either a property key or
// an array index.
type Segment struct {
	Key     string // property name, valid when IsIndex is false
	Index   int    // array index, valid when IsIndex is true
	IsIndex bool
}

func malformed(path string) error {
	return fmt.Errorf("malformed path expression %q", path)
}

// Parse compiles a path expression into its segments. It fails on anything
// outside the grammar, including an empty path or a path that does not start
// with `.` or `[`.
func Parse(path string) ([]Segment, error) {
	if path == "" {
		return nil, malformed(path)
	}

	var segs []Segment
	i := 0
	for i < len(path) {
		switch path[i] {
		case '.':
			i++
			start := i
			for i < len(path) && isIdentChar(path[i]) {
				i++
			}
			if i == start {
				return nil, malformed(path)
			}
			segs = append(segs, Segment{Key: path[start:i]})

		case '[':
			i++
			seg, next, err := parseBracket(path, i)
			if err != nil {
				return nil, err
			}
			segs = append(segs, seg)
			i = next

		default:
			return nil, malformed(path)
		}
	}
	return segs, nil
}

// parseBracket consumes a bracket segment starting just after `[` and returns
// the segment plus the offset just past the closing `]`.
func parseBracket(path string, i int) (Segment, int, error) {
	if i >= len(path) {
		return Segment{}, 0, malformed(path)
	}

	// Quoted key: ["key"] or ['key'].
	if q := path[i]; q == '"' || q == '\'' {
		i++
		start := i
		for i < len(path) && path[i] != q {
			i++
		}
		if i >= len(path) || i == start {
			return Segment{}, 0, malformed(path)
		}
		key := path[start:i]
		i++ // closing quote
		if i >= len(path) || path[i] != ']' {
			return Segment{}, 0, malformed(path)
		}
		return Segment{Key: key}, i + 1, nil
	}

	// Unquoted token: bare integer is an array index, anything else a key.
	start := i
	for i < len(path) && path[i] != ']' {
		i++
	}
	if i >= len(path) || i == start {
		return Segment{}, 0, malformed(path)
	}
	tok := path[start:i]
	i++ // closing bracket

	if idx, err := strconv.Atoi(tok); err == nil && idx >= 0 && tok[0] != '+' {
		return Segment{Index: idx, IsIndex: true}, i, nil
	}
	return Segment{Key: tok}, i, nil
}

func isIdentChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '_', c == '$', c == '-':
		return true
	}
	return false
}

// Get descends into tree following path and returns the value it lands on.
// found is false when a well-formed path does not match the data: a missing
// key, an out-of-range index, or a descent into a scalar. err is non-nil only
// for a malformed path expression.
func Get(tree any, path string) (value any, found bool, err error) {
	segs, err := Parse(path)
	if err != nil {
		return nil, false, err
	}
	value, found = Eval(tree, segs)
	return value, found, nil
}

// Eval applies pre-parsed segments to tree. Use Get unless the same
// expression is evaluated repeatedly.
func Eval(tree any, segs []Segment) (any, bool) {
	cur := tree
	for _, s := range segs {
		if s.IsIndex {
			arr, ok := cur.([]any)
			if !ok || s.Index >= len(arr) {
				return nil, false
			}
			cur = arr[s.Index]
			continue
		}
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		v, ok := obj[s.Key]
		if !ok {
			return nil, false
		}
		cur = v
	}
	return cur, true
}
