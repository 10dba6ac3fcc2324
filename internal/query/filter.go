// Package query implements the row predicates and ordering used by both the
// CLI pipeline and the interactive viewer: the filter expression grammar,
// full-text search, and stable multi-key sorting.
package query

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/tomoya55/jlcat/internal/jpath"
	"github.com/tomoya55/jlcat/internal/jval"
)

// Op is a filter comparison operator.
type Op int

const (
	OpEq Op = iota
	OpNe
	OpGt
	OpGe
	OpLt
	OpLe
	OpContains
	OpNotContains
)

func (o Op) String() string {
	switch o {
	case OpEq:
		return "="
	case OpNe:
		return "!="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpContains:
		return "~"
	case OpNotContains:
		return "!~"
	default:
		return "?"
	}
}

// Condition is one "path op value" clause.
type Condition struct {
	path  *jpath.Path
	op    Op
	value string
}

// FilterExpr is a conjunction of conditions parsed from the filter grammar.
type FilterExpr struct {
	conds []Condition
}

// ParseFilter compiles a filter expression. Conditions are separated by
// spaces and implicitly ANDed; values may be quoted with " or ' to include
// spaces. Syntax errors (missing operator, empty path, malformed path) fail
// immediately.
func ParseFilter(expr string) (*FilterExpr, error) {
	f := &FilterExpr{}
	s := strings.TrimSpace(expr)
	for len(s) > 0 {
		cond, rest, err := parseCondition(s)
		if err != nil {
			return nil, err
		}
		f.conds = append(f.conds, cond)
		s = strings.TrimLeft(rest, " ")
	}
	if len(f.conds) == 0 {
		return nil, fmt.Errorf("empty filter expression")
	}
	return f, nil
}

func parseCondition(s string) (Condition, string, error) {
	// Path runs until the first operator character and never crosses a space.
	i := strings.IndexAny(s, "=!<>~")
	if sp := strings.IndexByte(s, ' '); sp >= 0 && (i < 0 || sp < i) {
		return Condition{}, "", fmt.Errorf("missing operator in %q", s[:sp])
	}
	if i < 0 {
		return Condition{}, "", fmt.Errorf("missing operator in %q", s)
	}
	pathStr := s[:i]
	if pathStr == "" {
		return Condition{}, "", fmt.Errorf("empty path in condition %q", s)
	}

	op, opLen, err := parseOp(s[i:])
	if err != nil {
		return Condition{}, "", err
	}

	path, err := jpath.Compile(pathStr)
	if err != nil {
		return Condition{}, "", fmt.Errorf("filter path %q: %w", pathStr, err)
	}

	value, rest := parseValue(s[i+opLen:])
	return Condition{path: path, op: op, value: value}, rest, nil
}

func parseOp(s string) (Op, int, error) {
	switch {
	case strings.HasPrefix(s, "!="):
		return OpNe, 2, nil
	case strings.HasPrefix(s, "!~"):
		return OpNotContains, 2, nil
	case strings.HasPrefix(s, ">="):
		return OpGe, 2, nil
	case strings.HasPrefix(s, "<="):
		return OpLe, 2, nil
	case strings.HasPrefix(s, "="):
		return OpEq, 1, nil
	case strings.HasPrefix(s, ">"):
		return OpGt, 1, nil
	case strings.HasPrefix(s, "<"):
		return OpLt, 1, nil
	case strings.HasPrefix(s, "~"):
		return OpContains, 1, nil
	default:
		return 0, 0, fmt.Errorf("invalid operator at %q", s)
	}
}

// parseValue reads a quoted string (the other quote character, commas and
// spaces are literal inside) or a bareword terminated by the first space.
func parseValue(s string) (string, string) {
	if len(s) > 0 && (s[0] == '"' || s[0] == '\'') {
		quote := s[0]
		if end := strings.IndexByte(s[1:], quote); end >= 0 {
			return s[1 : 1+end], s[2+end:]
		}
		// Unterminated quote: consume the remainder.
		return s[1:], ""
	}
	if end := strings.IndexByte(s, ' '); end >= 0 {
		return s[:end], s[end:]
	}
	return s, ""
}

// Matches reports whether a row satisfies every condition.
func (f *FilterExpr) Matches(row jval.Value) bool {
	for _, c := range f.conds {
		if !c.matches(row) {
			return false
		}
	}
	return true
}

// Len returns the number of conditions.
func (f *FilterExpr) Len() int { return len(f.conds) }

// matches evaluates one condition. Negated operators are the logical NOT of
// their positive form, so an absent path satisfies != and !~ automatically.
func (c Condition) matches(row jval.Value) bool {
	v, ok := c.path.Get(row)
	switch c.op {
	case OpEq:
		return ok && eqMatch(v, c.value)
	case OpNe:
		return !(ok && eqMatch(v, c.value))
	case OpContains:
		return ok && containsMatch(v, c.value)
	case OpNotContains:
		return !(ok && containsMatch(v, c.value))
	case OpGt, OpGe, OpLt, OpLe:
		if !ok {
			return false
		}
		return compareNumeric(v, c.value, c.op)
	default:
		return false
	}
}

// eqMatch compares scalar stringified forms. Containers never satisfy =.
func eqMatch(v jval.Value, want string) bool {
	switch v.Kind() {
	case jval.KindString:
		return v.Str() == want
	case jval.KindNumber, jval.KindBool, jval.KindNull:
		return v.Display() == want
	default:
		return false
	}
}

// containsMatch is case-insensitive substring containment. Strings match on
// their raw text, everything else on its JSON encoding, so array and object
// contents are searchable.
func containsMatch(v jval.Value, needle string) bool {
	var s string
	if v.Kind() == jval.KindString {
		s = v.Str()
	} else {
		data, err := json.Marshal(v)
		if err != nil {
			return false
		}
		s = string(data)
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(needle))
}

// compareNumeric parses the filter value as a float and matches only numeric
// row values.
func compareNumeric(v jval.Value, value string, op Op) bool {
	if v.Kind() != jval.KindNumber {
		return false
	}
	rowNum, ok := v.Float64()
	if !ok {
		return false
	}
	want, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return false
	}
	switch op {
	case OpGt:
		return rowNum > want
	case OpGe:
		return rowNum >= want
	case OpLt:
		return rowNum < want
	case OpLe:
		return rowNum <= want
	default:
		return false
	}
}
