// Package jpath compiles dotted/bracketed path strings ("address.city",
// "matrix[1][0]") into lookup programs over jval values.
package jpath

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/tomoya55/jlcat/internal/jval"
)

// ErrEmptyPath is returned by Compile for paths with no segments.
var ErrEmptyPath = errors.New("empty path")

type segment struct {
	key     string
	index   int
	isIndex bool
}

// Path is a compiled lookup program. It always has at least one segment and
// remembers the original string for literal-key resolution.
type Path struct {
	segments []segment
	original string
}

// Compile parses a path string. Segments split on '.'; a segment may be
// followed by one or more bracketed indices. An unterminated bracket, a
// non-numeric index, a stray ']', or an empty path are errors.
func Compile(path string) (*Path, error) {
	var segments []segment
	var current []byte
	flush := func() {
		if len(current) > 0 {
			segments = append(segments, segment{key: string(current)})
			current = current[:0]
		}
	}

	for i := 0; i < len(path); i++ {
		switch c := path[i]; c {
		case '.':
			flush()
		case '[':
			flush()
			end := i + 1
			for end < len(path) && path[end] != ']' {
				end++
			}
			if end == len(path) {
				return nil, fmt.Errorf("invalid path %q: unterminated array index", path)
			}
			idx, err := strconv.Atoi(path[i+1 : end])
			if err != nil || idx < 0 {
				return nil, fmt.Errorf("invalid path %q: bad index %q", path, path[i+1:end])
			}
			segments = append(segments, segment{index: idx, isIndex: true})
			i = end
		case ']':
			return nil, fmt.Errorf("invalid path %q: unexpected ']'", path)
		default:
			current = append(current, c)
		}
	}
	flush()

	if len(segments) == 0 {
		return nil, fmt.Errorf("invalid path %q: %w", path, ErrEmptyPath)
	}
	return &Path{segments: segments, original: path}, nil
}

// Original returns the uncompiled path string.
func (p *Path) Original() string { return p.original }

// Get resolves the path against a value. Multi-segment paths first try the
// entire original string as a literal key, so flattened rows with columns
// like "address.city" resolve the same way nested rows do; this precedence
// must not be reordered. On miss it walks segments one at a time, failing as
// soon as a key is absent, an index is out of bounds, or a non-container is
// traversed.
func (p *Path) Get(v jval.Value) (jval.Value, bool) {
	if len(p.segments) > 1 {
		if res, ok := v.Get(p.original); ok {
			return res, true
		}
	}

	cur := v
	for _, seg := range p.segments {
		var ok bool
		if seg.isIndex {
			cur, ok = cur.Index(seg.index)
		} else {
			cur, ok = cur.Get(seg.key)
		}
		if !ok {
			return jval.Null, false
		}
	}
	return cur, true
}

// Resolve is a convenience compile-and-get for ad-hoc lookups. Paths that do
// not compile resolve to nothing; callers that need the syntax error should
// use Compile.
func Resolve(v jval.Value, path string) (jval.Value, bool) {
	p, err := Compile(path)
	if err != nil {
		return jval.Null, false
	}
	return p.Get(v)
}
