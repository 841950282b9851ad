package cursorpagination

import "fmt"

// Operator defines a comparison operator used in keyset predicates.
type Operator string

const (
	OperatorGT  Operator = ">"
	OperatorGTE Operator = ">="
	OperatorLT  Operator = "<"
	OperatorLTE Operator = "<="
)

func (o Operator) Valid() bool {
	return o == OperatorGT || o == OperatorGTE || o == OperatorLT || o == OperatorLTE
}

// Mirror swaps the comparison side: ">" becomes "<", ">=" becomes "<=" and
// vice versa. A DESC column uses the mirrored operator of its ASC counterpart.
func (o Operator) Mirror() Operator {
	switch o {
	case OperatorGT:
		return OperatorLT
	case OperatorGTE:
		return OperatorLTE
	case OperatorLT:
		return OperatorGT
	case OperatorLTE:
		return OperatorGTE
	default:
		panic(fmt.Errorf("cannot mirror operator '%s'", o))
	}
}

// ForDirection returns the physical operator implementing o on a column sorted
// in direction d.
func (o Operator) ForDirection(d Direction) Operator {
	if d == DirectionDESC {
		return o.Mirror()
	}

	return o
}

// holds reports whether a comparison result (as returned by compareValues)
// satisfies the operator.
func (o Operator) holds(cmp int) bool {
	switch o {
	case OperatorGT:
		return cmp > 0
	case OperatorGTE:
		return cmp >= 0
	case OperatorLT:
		return cmp < 0
	case OperatorLTE:
		return cmp <= 0
	default:
		return false
	}
}
