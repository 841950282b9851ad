package cursorpagination

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ExecuteSlice runs a query against an in-memory data set: rows not matching
// the predicate are dropped, the rest are sorted by the query orderings and cut
// to the dataset limit. items is not modified.
func ExecuteSlice[T any](q *Query, items []T) ([]T, error) {
	if q == nil {
		return nil, fmt.Errorf("query is nil")
	}

	type candidate struct {
		item T
		row  Row
	}

	candidates := make([]candidate, 0, len(items))
	for i, item := range items {
		row, err := RowOf(item)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}

		if q.Where != nil {
			ok, err := q.Where.Match(row)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
			if !ok {
				continue
			}
		}

		candidates = append(candidates, candidate{item: item, row: row})
	}

	var sortErr error
	slices.SortStableFunc(candidates, func(a, b candidate) int {
		c, err := compareRows(q.Orderings, a.row, b.row)
		if err != nil && sortErr == nil {
			sortErr = err
		}
		return c
	})
	if sortErr != nil {
		return nil, sortErr
	}

	if limit := q.DatasetLimit(); limit != NoLimit && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	ret := make([]T, 0, len(candidates))
	for _, c := range candidates {
		ret = append(ret, c.item)
	}

	return ret, nil
}

// compareRows orders two rows under the composite order.
func compareRows(orderings Orderings, a, b Row) (int, error) {
	for _, o := range orderings {
		av, _ := a.Get(o.Column)
		bv, _ := b.Get(o.Column)

		c, err := compareValues(av, bv)
		if err != nil {
			return 0, fmt.Errorf("cannot sort by '%s': %w", o.Column, err)
		}
		if c == 0 {
			continue
		}
		if o.Direction == DirectionDESC {
			return -c, nil
		}
		return c, nil
	}

	return 0, nil
}

// compareValues returns -1, 0 or +1. Integers of any width compare with each
// other, mixed integer/float pairs compare as float64. nil sorts first.
func compareValues(a, b any) (int, error) {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0, nil
		case a == nil:
			return -1, nil
		default:
			return 1, nil
		}
	}

	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv), nil
		}
	case bool:
		if bv, ok := b.(bool); ok {
			return compareBools(av, bv), nil
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Compare(bv), nil
		}
	case uuid.UUID:
		if bv, ok := b.(uuid.UUID); ok {
			return strings.Compare(av.String(), bv.String()), nil
		}
	}

	ar, br := reflect.ValueOf(a), reflect.ValueOf(b)
	switch {
	case isInt(ar) && isInt(br):
		return cmp.Compare(ar.Int(), br.Int()), nil
	case isUint(ar) && isUint(br):
		return cmp.Compare(ar.Uint(), br.Uint()), nil
	case isNumber(ar) && isNumber(br):
		return cmp.Compare(toFloat(ar), toFloat(br)), nil
	}

	as, aok := a.(fmt.Stringer)
	bs, bok := b.(fmt.Stringer)
	if aok && bok {
		return strings.Compare(as.String(), bs.String()), nil
	}

	return 0, fmt.Errorf("incomparable values %T and %T", a, b)
}

func compareBools(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

func isInt(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	default:
		return false
	}
}

func isUint(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	default:
		return false
	}
}

func isNumber(v reflect.Value) bool {
	return isInt(v) || isUint(v) || v.Kind() == reflect.Float32 || v.Kind() == reflect.Float64
}

func toFloat(v reflect.Value) float64 {
	switch {
	case isInt(v):
		return float64(v.Int())
	case isUint(v):
		return float64(v.Uint())
	default:
		return v.Float()
	}
}
