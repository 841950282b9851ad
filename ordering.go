package cursorpagination

import (
	"fmt"
	"math"
	"strings"

	"github.com/samber/lo"
)

// Direction defines the sort direction for a single column of the composite order.
type Direction string

const (
	DirectionASC  Direction = "ASC"
	DirectionDESC Direction = "DESC"
)

func (o Direction) Valid() bool {
	return o == DirectionASC || o == DirectionDESC
}

// Invert returns the opposite direction. Used to walk the composite order
// backward when paging toward a "before" boundary.
func (o Direction) Invert() Direction {
	switch o {
	case DirectionASC:
		return DirectionDESC
	case DirectionDESC:
		return DirectionASC
	default:
		panic(fmt.Errorf("cannot invert direction '%s'", o))
	}
}

type (
	// OrderBy is one sort parameter: the internal column name, its direction and
	// an optional owning entity used to qualify the column ("entity.column").
	OrderBy struct {
		Column    string
		Direction Direction
		Entity    string
	}

	// Orderings is the sort specification. Order is significant: it is the
	// tie-break precedence, most significant column first.
	Orderings []OrderBy
)

var _availableColumnNameSymbols = append([]rune("_."), lo.AlphanumericCharset...)

// QualifiedColumn returns "entity.column" when an entity is set, the bare
// column name otherwise.
func (o OrderBy) QualifiedColumn() string {
	return qualify(o.Entity, o.Column)
}

// Inverted returns a copy of the sort parameter with the opposite direction.
func (o OrderBy) Inverted() OrderBy {
	o.Direction = o.Direction.Invert()
	return o
}

func (o OrderBy) validate() error {
	if !o.Direction.Valid() {
		return fmt.Errorf("invalid ordering direction '%s'", o.Direction)
	}

	// Guard against SQL injection by restricting allowed characters in column names.
	if o.Column == "" || !lo.Every(_availableColumnNameSymbols, []rune(o.Column)) {
		return fmt.Errorf("ordering column name contains forbidden symbols '%s'", o.Column)
	}

	if !lo.Every(_availableColumnNameSymbols, []rune(o.Entity)) {
		return fmt.Errorf("ordering entity name contains forbidden symbols '%s'", o.Entity)
	}

	return nil
}

// Invert returns the mirrored sort specification: every direction flipped,
// column precedence unchanged.
func (o Orderings) Invert() Orderings {
	return lo.Map(o, func(item OrderBy, _ int) OrderBy {
		return item.Inverted()
	})
}

// Columns returns the internal column names in precedence order.
func (o Orderings) Columns() []string {
	return lo.Map(o, func(item OrderBy, _ int) string {
		return item.Column
	})
}

// ToSQLSlice converts Orderings to a slice of strings in the form
// "<order_column> <order_direction>" suitable for SQL query builders.
//
// Example: for Orderings: [{"a", "ASC", ""}, {"b", "DESC", "t"}] returns ["a ASC", "t.b DESC"].
func (o Orderings) ToSQLSlice() []string {
	ret := make([]string, 0, len(o))
	for _, ordering := range o {
		ret = append(ret, fmt.Sprintf("%s %s", ordering.QualifiedColumn(), ordering.Direction))
	}

	return ret
}

// ToSQL converts Orderings to a single string
// "<order_column_1> <order_direction_1>, <order_column_2> <order_direction_2>"
// suitable for embedding into an SQL query.
//
// Usage:
//
//	query := fmt.Sprintf("SELECT * FROM entries ORDER BY %s", orderings.ToSQL())
func (o Orderings) ToSQL() string {
	return strings.Join(o.ToSQLSlice(), ", ")
}

func (o Orderings) validate() error {
	if len(o) == 0 {
		return ErrEmptySort
	}

	var err error
	for _, ordering := range o {
		err = ordering.validate()
		if err != nil {
			return err
		}
	}

	return nil
}

// ParseSort builds Orderings from a list of strings in the format
// "public_name asc|desc". Public names are resolved to internal columns through
// the name mapping. An unknown public name fails with ColumnNotRegistered and
// the error message suggests the closest registered name.
func ParseSort(stringsOrderings []string, names *NameMapping) (Orderings, error) {
	ret := make(Orderings, 0, len(stringsOrderings))

	for _, stringOrdering := range stringsOrderings {
		cutStringOrdering := strings.Fields(stringOrdering)
		if len(cutStringOrdering) != 2 {
			return nil, fmt.Errorf("invalid ordering string format '%s'", stringOrdering)
		}

		public := cutStringOrdering[0]
		direction := Direction(strings.ToUpper(cutStringOrdering[1]))
		if !direction.Valid() {
			return nil, fmt.Errorf("invalid ordering direction '%s'", cutStringOrdering[1])
		}

		column, err := names.ToPrivate(public)
		if err != nil {
			return nil, fmt.Errorf("%w. closest: '%s'", err, closestName(public, names.PublicNames()))
		}

		ret = append(ret, OrderBy{
			Column:    column,
			Direction: direction,
		})
	}

	return ret, nil
}

func closestName(input string, dataSet []string) string {
	minDist := math.MaxInt
	closest := ""

	for _, candidate := range dataSet {
		dist := levenshtein([]rune(candidate), []rune(input))
		if dist < minDist {
			minDist = dist
			closest = candidate
		}
	}

	return closest
}

func qualify(entity, column string) string {
	if entity == "" {
		return column
	}

	return entity + "." + column
}
