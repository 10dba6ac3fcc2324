package tabular

import (
	"sort"
	"strings"

	"github.com/tomoya55/jlcat/internal/jpath"
	"github.com/tomoya55/jlcat/internal/jval"
)

// Placeholder cell text for structures that are not expanded in place.
const (
	objectPlaceholder = "{...}"
	arrayPlaceholder  = "[...]"
)

// FlatConfig controls flatten mode.
type FlatConfig struct {
	// Depth is the maximum object expansion depth; nil means unlimited.
	// Depth 0 keeps every nested object as a single placeholder column.
	Depth *int
	// ArrayLimit is the maximum number of array elements rendered per cell.
	ArrayLimit int
}

// DefaultFlatConfig matches the CLI defaults: unlimited depth, three array
// elements.
func DefaultFlatConfig() FlatConfig {
	return FlatConfig{ArrayLimit: 3}
}

// FormatArray renders an array into one cell: up to limit elements in their
// scalar display form, comma-joined, with a trailing ", ..." when truncated.
// Empty arrays render as the empty string.
func FormatArray(items []jval.Value, limit int) string {
	if len(items) == 0 {
		return ""
	}
	n := len(items)
	if n > limit {
		n = limit
	}
	parts := make([]string, 0, n+1)
	for _, item := range items[:n] {
		parts = append(parts, item.Display())
	}
	if len(items) > limit {
		parts = append(parts, "...")
	}
	return strings.Join(parts, ", ")
}

// flatSchema tracks column structure for flatten mode: first-level keys in
// appearance order, per-parent child columns (alphabetical), the set of all
// known column paths, columns added after finalization (dynamic), and
// first-level keys that must keep their own column despite having expanded
// children (structural conflicts).
type flatSchema struct {
	firstLevel []string
	firstSeen  map[string]struct{}
	known      map[string]struct{}
	childSet   map[string]map[string]struct{}
	children   map[string][]string // built by finalize
	keepOwn    map[string]struct{}
	dynamic    []string
	finalized  bool
}

func newFlatSchema() *flatSchema {
	return &flatSchema{
		firstSeen: make(map[string]struct{}),
		known:     make(map[string]struct{}),
		childSet:  make(map[string]map[string]struct{}),
		keepOwn:   make(map[string]struct{}),
	}
}

func (s *flatSchema) addFirstLevel(key string) {
	if _, ok := s.firstSeen[key]; ok {
		return
	}
	s.firstSeen[key] = struct{}{}
	s.firstLevel = append(s.firstLevel, key)
}

// addLeaf records a leaf column path under its first-level key.
func (s *flatSchema) addLeaf(topKey, path string) {
	s.known[path] = struct{}{}
	if path == topKey {
		return
	}
	set := s.childSet[topKey]
	if set == nil {
		set = make(map[string]struct{})
		s.childSet[topKey] = set
	}
	set[path] = struct{}{}
	if s.finalized {
		s.dynamic = append(s.dynamic, path)
	}
}

// markOwn forces a first-level key to appear as its own column. After
// finalization this is a dynamic, conflict-resolution column.
func (s *flatSchema) markOwn(key string) {
	if _, ok := s.known[key]; ok {
		return
	}
	if _, ok := s.keepOwn[key]; ok {
		return
	}
	s.keepOwn[key] = struct{}{}
	if s.finalized {
		s.dynamic = append(s.dynamic, key)
	}
}

// finalize sorts the per-parent child lists. Columns recorded afterwards are
// tracked as dynamic.
func (s *flatSchema) finalize() {
	s.children = make(map[string][]string, len(s.childSet))
	for key, set := range s.childSet {
		cols := make([]string, 0, len(set))
		for c := range set {
			cols = append(cols, c)
		}
		sort.Strings(cols)
		s.children[key] = cols
	}
	s.finalized = true
}

func (s *flatSchema) hasOwn(key string) bool {
	if _, ok := s.known[key]; ok {
		return true
	}
	_, ok := s.keepOwn[key]
	return ok
}

// columns yields first-level keys in appearance order; a key with children
// emits its own column (when present) immediately before the alphabetized
// children. A literal dotted key can collide with an expanded path, so
// emission dedupes.
func (s *flatSchema) columns() []string {
	var out []string
	seen := make(map[string]struct{})
	emit := func(col string) {
		if _, ok := seen[col]; ok {
			return
		}
		seen[col] = struct{}{}
		out = append(out, col)
	}
	for _, key := range s.firstLevel {
		kids := s.children[key]
		// Late conflict columns may postdate finalize.
		if len(s.childSet[key]) != len(kids) {
			kids = append([]string(nil), kids...)
			for c := range s.childSet[key] {
				if !containsString(kids, c) {
					kids = append(kids, c)
				}
			}
			sort.Strings(kids)
		}
		if s.hasOwn(key) {
			emit(key)
		}
		for _, c := range kids {
			emit(c)
		}
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// FlatTableData is the flattened tabular view: dot-notation columns plus
// row-major cells resolved against the final, reconciled column list.
type FlatTableData struct {
	columns []string
	rows    [][]jval.Value
	dynamic []string
}

// Flatten expands nested objects into dot-notation columns.
//
// Column existence for one row can depend on a later row's shape (a field
// that is an object in row A and a scalar in row B must yield both the bare
// column and the expanded children), so this is a two-pass algorithm: walk
// all rows to build the schema, finalize it, reconcile structural conflicts,
// then re-emit every row's cells against the final column list.
func Flatten(rows []jval.Value, cfg FlatConfig) *FlatTableData {
	if cfg.ArrayLimit <= 0 {
		cfg.ArrayLimit = DefaultFlatConfig().ArrayLimit
	}

	fs := newFlatSchema()
	flats := make([]map[string]jval.Value, len(rows))

	// Pass 1: depth-first walk of every row, discovering columns in JSON key
	// order (first appearance across the whole row set).
	for i, row := range rows {
		flat := make(map[string]jval.Value)
		if obj := row.Obj(); obj != nil {
			for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
				fs.addFirstLevel(pair.Key)
				flattenValue(flat, fs, pair.Key, pair.Key, pair.Value, 0, cfg)
			}
		}
		flats[i] = flat
	}

	fs.finalize()

	// Pass 2: a key expanded into children in some rows but holding a
	// non-object in others still needs its own column.
	for _, key := range fs.firstLevel {
		if len(fs.childSet[key]) == 0 || fs.hasOwn(key) {
			continue
		}
		for _, row := range rows {
			if v, ok := row.Get(key); ok && v.Kind() != jval.KindObject {
				fs.markOwn(key)
				break
			}
		}
	}

	columns := fs.columns()

	// Re-emit every row against the final column list.
	cells := make([][]jval.Value, len(rows))
	for i, row := range rows {
		out := make([]jval.Value, len(columns))
		for j, col := range columns {
			out[j] = flatCell(flats[i], row, col)
		}
		cells[i] = out
	}

	return &FlatTableData{columns: columns, rows: cells, dynamic: fs.dynamic}
}

// flattenValue records the leaf columns produced by one value. Objects expand
// while the depth bound allows; at the bound (or when empty) they become a
// single placeholder leaf. Arrays always render to one formatted string leaf.
func flattenValue(flat map[string]jval.Value, fs *flatSchema, topKey, path string, v jval.Value, depth int, cfg FlatConfig) {
	switch v.Kind() {
	case jval.KindObject:
		expand := cfg.Depth == nil || depth < *cfg.Depth
		if expand && v.Len() > 0 {
			for pair := v.Obj().Oldest(); pair != nil; pair = pair.Next() {
				flattenValue(flat, fs, topKey, path+"."+pair.Key, pair.Value, depth+1, cfg)
			}
			return
		}
		flat[path] = jval.StringValue(objectPlaceholder)
		fs.addLeaf(topKey, path)
	case jval.KindArray:
		flat[path] = jval.StringValue(FormatArray(v.Items(), cfg.ArrayLimit))
		fs.addLeaf(topKey, path)
	default:
		flat[path] = v
		fs.addLeaf(topKey, path)
	}
}

// flatCell resolves one cell against a row's flattened values, falling back
// to the original row for columns this row never produced: an object whose
// data lives in expanded children shows Null, an unexpanded object shows the
// placeholder, a scalar under a bare column shows through, everything else is
// Null.
func flatCell(flat map[string]jval.Value, row jval.Value, col string) jval.Value {
	if v, ok := flat[col]; ok {
		return v
	}
	orig, ok := jpath.Resolve(row, col)
	if !ok {
		return jval.Null
	}
	switch orig.Kind() {
	case jval.KindObject:
		if hasExpandedChild(flat, col) {
			return jval.Null
		}
		return jval.StringValue(objectPlaceholder)
	case jval.KindArray, jval.KindNull:
		return jval.Null
	default:
		if !strings.Contains(col, ".") {
			return orig
		}
		return jval.Null
	}
}

func hasExpandedChild(flat map[string]jval.Value, col string) bool {
	prefix := col + "."
	for path := range flat {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Columns returns the final flattened column list.
func (f *FlatTableData) Columns() []string { return f.columns }

// Rows returns the row-major cell matrix.
func (f *FlatTableData) Rows() [][]jval.Value { return f.rows }

// RowCount returns the number of rows.
func (f *FlatTableData) RowCount() int { return len(f.rows) }

// ColumnCount returns the number of columns.
func (f *FlatTableData) ColumnCount() int { return len(f.columns) }

// Cell returns the value at (row, col).
func (f *FlatTableData) Cell(row, col int) (jval.Value, bool) {
	if row < 0 || row >= len(f.rows) || col < 0 || col >= len(f.columns) {
		return jval.Null, false
	}
	return f.rows[row][col], true
}

// DynamicColumns returns the columns added after schema finalization
// (structural-conflict artifacts), in discovery order.
func (f *FlatTableData) DynamicColumns() []string { return f.dynamic }

// IsEmpty reports whether the table has no rows.
func (f *FlatTableData) IsEmpty() bool { return len(f.rows) == 0 }
