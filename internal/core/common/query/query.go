// Package query provides a small predicate builder shared by list/query
// repository methods, replacing per-repository ad-hoc condition lists.
package query

import "gorm.io/gorm"

type Predicate struct {
	Column string
	Value  interface{}
}

// Spec accumulates optional equality filters plus pagination and applies them
// to a GORM query in one place.
type Spec struct {
	predicates []Predicate
	limit      int
	offset     int
}

func NewSpec() *Spec {
	return &Spec{}
}

// Where adds an equality predicate.
func (s *Spec) Where(column string, value interface{}) *Spec {
	s.predicates = append(s.predicates, Predicate{Column: column, Value: value})
	return s
}

// WhereIf adds the predicate only when present is true, mirroring the usual
// "push the filter only when the field is set" pattern.
func (s *Spec) WhereIf(present bool, column string, value interface{}) *Spec {
	if present {
		s.Where(column, value)
	}
	return s
}

func (s *Spec) Paginate(limit, offset int) *Spec {
	s.limit = limit
	s.offset = offset
	return s
}

// Apply attaches all predicates and pagination to the query.
func (s *Spec) Apply(db *gorm.DB) *gorm.DB {
	for _, p := range s.predicates {
		db = db.Where(p.Column+" = ?", p.Value)
	}
	if s.limit > 0 {
		db = db.Limit(s.limit)
	}
	if s.offset > 0 {
		db = db.Offset(s.offset)
	}
	return db
}
