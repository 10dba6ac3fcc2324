package query

import (
	"strings"

	"github.com/tomoya55/jlcat/internal/jval"
)

// FullTextSearch matches rows whose stringified scalar leaves contain the
// query, case-insensitively. It descends through arrays and objects; null
// leaves never match.
type FullTextSearch struct {
	query string
}

// NewFullTextSearch builds a search predicate. An empty query matches every
// row.
func NewFullTextSearch(query string) *FullTextSearch {
	return &FullTextSearch{query: strings.ToLower(query)}
}

// Query returns the original query, lowercased.
func (s *FullTextSearch) Query() string { return s.query }

// Matches reports whether any scalar leaf of the row contains the query.
func (s *FullTextSearch) Matches(row jval.Value) bool {
	if s.query == "" {
		return true
	}
	return s.visit(row)
}

func (s *FullTextSearch) visit(v jval.Value) bool {
	switch v.Kind() {
	case jval.KindNull:
		return false
	case jval.KindArray:
		for _, item := range v.Items() {
			if s.visit(item) {
				return true
			}
		}
	case jval.KindObject:
		for pair := v.Obj().Oldest(); pair != nil; pair = pair.Next() {
			if s.visit(pair.Value) {
				return true
			}
		}
	default:
		return strings.Contains(strings.ToLower(v.Display()), s.query)
	}
	return false
}
