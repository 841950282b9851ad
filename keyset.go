package cursorpagination

import "fmt"

// Kind tells which side of the boundary row a page lies on.
type Kind string

const (
	KindAfter  Kind = "after"
	KindBefore Kind = "before"
)

// operators returns the "moves past" and "moves past or equal" operators for
// an ASC column. "after" walks forward (>), "before" walks backward (<).
func (k Kind) operators() (Operator, Operator) {
	if k == KindBefore {
		return OperatorLT, OperatorLTE
	}

	return OperatorGT, OperatorGTE
}

// boundary is one resolved cursor entry: the internal sort parameter and the
// converted value of the boundary row.
type boundary struct {
	OrderBy
	Value any
}

// keysetPredicate builds the condition "row sorts strictly after (or before)
// the boundary row" under the composite order described by bounds, most
// significant column first.
//
// For columns c1..cn the result nests as
//
//	c1 >= v1 AND (c1 > v1 OR (c2 >= v2 AND (c2 > v2 OR ... cn > vn)))
//
// where every operator is mirrored for DESC columns. The innermost column never
// allows equality, so it must be unique (typically a primary key).
func keysetPredicate(bounds []boundary, kind Kind) Predicate {
	strict, inclusive := kind.operators()

	var where Predicate
	for i := len(bounds) - 1; i >= 0; i-- {
		b := bounds[i]
		movesPast := Comparison{
			Column:   b.Column,
			Entity:   b.Entity,
			Operator: strict.ForDirection(b.Direction),
			Value:    b.Value,
		}

		if where == nil {
			where = movesPast
			continue
		}

		where = And{
			Comparison{
				Column:   b.Column,
				Entity:   b.Entity,
				Operator: inclusive.ForDirection(b.Direction),
				Value:    b.Value,
			},
			Or{movesPast, where},
		}
	}

	return where
}

// resolveBoundaries maps decoded cursor entries onto the sort specification:
// public names become internal columns, directions are checked against the
// specification and values go through the registered converters.
func (s *Spec) resolveBoundaries(cursor *Cursor) ([]boundary, error) {
	entries := cursor.GetEntries()
	if len(s.sort) == 0 {
		return nil, ErrEmptySort
	}

	bounds := make([]boundary, 0, len(entries))
	for i, entry := range entries {
		column, err := s.names.ToPrivate(entry.Column)
		if err != nil {
			return nil, err
		}

		if i >= len(s.sort) {
			return nil, newCursorMismatchError("unexpected cursor column '%s'", entry.Column)
		}

		orderBy := s.sort[i]
		if orderBy.Column != column {
			return nil, newCursorMismatchError("unexpected cursor column '%s' at position %d", entry.Column, i)
		}
		if orderBy.Direction != entry.Direction {
			return nil, newCursorMismatchError("unexpected direction %s for cursor column '%s'", entry.Direction, entry.Column)
		}

		value, err := s.names.convert(column, entry.Value)
		if err != nil {
			return nil, &CursorDecodeError{Err: fmt.Errorf("cannot convert cursor value of '%s': %w", entry.Column, err)}
		}

		bounds = append(bounds, boundary{
			OrderBy: orderBy,
			Value:   value,
		})
	}

	if len(bounds) != len(s.sort) {
		return nil, newCursorMismatchError("cursor column number mismatch: got %d, want %d", len(bounds), len(s.sort))
	}

	return bounds, nil
}
