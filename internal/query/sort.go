package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tomoya55/jlcat/internal/jpath"
	"github.com/tomoya55/jlcat/internal/jval"
)

// SortKey is one sort criterion in priority order.
type SortKey struct {
	path *jpath.Path
	desc bool
}

// Path returns the key's original path string.
func (k SortKey) Path() string { return k.path.Original() }

// Descending reports whether the key sorts in descending order.
func (k SortKey) Descending() bool { return k.desc }

// ParseSortKeys compiles sort key specs. A leading "-" marks a key as
// descending. Empty keys and malformed paths fail immediately.
func ParseSortKeys(specs []string) ([]SortKey, error) {
	keys := make([]SortKey, 0, len(specs))
	for _, spec := range specs {
		desc := false
		s := strings.TrimSpace(spec)
		if strings.HasPrefix(s, "-") {
			desc = true
			s = s[1:]
		}
		if s == "" {
			return nil, fmt.Errorf("empty sort key in %q", spec)
		}
		path, err := jpath.Compile(s)
		if err != nil {
			return nil, fmt.Errorf("sort key %q: %w", spec, err)
		}
		keys = append(keys, SortKey{path: path, desc: desc})
	}
	return keys, nil
}

// Sort orders rows in place: stable, multi-key. Rows where a key resolves to
// nothing or null sort after rows with a value on that key, regardless of the
// key's direction.
func Sort(rows []jval.Value, keys []SortKey) {
	if len(keys) == 0 {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return compareRows(rows[i], rows[j], keys) < 0
	})
}

// SortIndices returns the permutation that Sort would apply, leaving rows
// untouched. The interactive viewer uses this to reorder without copying the
// row set.
func SortIndices(rows []jval.Value, keys []SortKey) []int {
	idx := make([]int, len(rows))
	for i := range idx {
		idx[i] = i
	}
	if len(keys) == 0 {
		return idx
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return compareRows(rows[idx[a]], rows[idx[b]], keys) < 0
	})
	return idx
}

func compareRows(a, b jval.Value, keys []SortKey) int {
	for _, key := range keys {
		va, okA := key.path.Get(a)
		vb, okB := key.path.Get(b)
		nullA := !okA || va.IsNull()
		nullB := !okB || vb.IsNull()

		// Nulls last is absolute; descending does not flip it.
		switch {
		case nullA && nullB:
			continue
		case nullA:
			return 1
		case nullB:
			return -1
		}

		c := compareValues(va, vb)
		if c == 0 {
			continue
		}
		if key.desc {
			c = -c
		}
		return c
	}
	return 0
}

// typeOrder is the fixed cross-type ordering Number < String < Bool < Array
// < Object.
func typeOrder(k jval.Kind) int {
	switch k {
	case jval.KindNumber:
		return 0
	case jval.KindString:
		return 1
	case jval.KindBool:
		return 2
	case jval.KindArray:
		return 3
	case jval.KindObject:
		return 4
	default:
		return 5
	}
}

// compareValues compares two non-null values: by type ordinal first, then by
// value within a shared scalar type. Arrays and objects of the same type
// compare equal.
func compareValues(a, b jval.Value) int {
	ta, tb := typeOrder(a.Kind()), typeOrder(b.Kind())
	if ta != tb {
		if ta < tb {
			return -1
		}
		return 1
	}
	switch a.Kind() {
	case jval.KindNumber:
		fa, _ := a.Float64()
		fb, _ := b.Float64()
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
	case jval.KindString:
		return strings.Compare(a.Str(), b.Str())
	case jval.KindBool:
		switch {
		case !a.Bool() && b.Bool():
			return -1
		case a.Bool() && !b.Bool():
			return 1
		}
	}
	return 0
}
