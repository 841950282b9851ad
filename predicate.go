package cursorpagination

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"gorm.io/gorm/clause"
)

// Predicate is a boolean expression over row columns: a Comparison leaf, or an
// And / Or of other predicates.
type Predicate interface {
	// ToSQL renders the predicate as an SQL condition with "?" placeholders and
	// the values for them, in placeholder order.
	ToSQL() (string, []driver.Value)
	// Expression renders the predicate as a gorm clause expression.
	Expression() clause.Expression
	// Match evaluates the predicate against a row.
	Match(row Row) (bool, error)

	fmt.Stringer
}

type (
	// Comparison is the leaf of a predicate tree: Operator(Column, Value).
	Comparison struct {
		Column   string
		Entity   string
		Operator Operator
		Value    any
	}

	// And joins predicates with AND.
	And []Predicate

	// Or joins predicates with OR.
	Or []Predicate
)

// ToSQL converts a comparison of the form Operator(Column, Value) to
// an SQL condition of the form "Column Operator ?" with a corresponding value.
//
// Example:
//
//	Comparison{Column: "id", Operator: ">", Value: 123}
//
// Result:
//
//	("id > ?", 123)
func (c Comparison) ToSQL() (string, []driver.Value) {
	return fmt.Sprintf("%s %s ?", qualify(c.Entity, c.Column), c.Operator), []driver.Value{c.Value}
}

// Expression converts the comparison into a clause.Expr "Column Operator ?".
func (c Comparison) Expression() clause.Expression {
	sqlClause, args := c.ToSQL()

	return clause.Expr{
		SQL:  sqlClause,
		Vars: []any{args[0]},
	}
}

func (c Comparison) Match(row Row) (bool, error) {
	value, ok := row.Get(c.Column)
	if !ok {
		return false, fmt.Errorf("%w: row has no column '%s'", ErrInvalidResultShape, c.Column)
	}

	cmp, err := compareValues(value, c.Value)
	if err != nil {
		return false, fmt.Errorf("cannot compare column '%s': %w", c.Column, err)
	}

	return c.Operator.holds(cmp), nil
}

func (c Comparison) String() string {
	value := fmt.Sprintf("%v", c.Value)
	if s, ok := c.Value.(string); ok {
		value = "'" + strings.ReplaceAll(s, "'", "''") + "'"
	}

	return fmt.Sprintf("%s %s %s", qualify(c.Entity, c.Column), c.Operator, value)
}

// ToSQL converts (K1, K2, K3) into "(K1 AND K2 AND K3)". A single operand is
// rendered without parentheses.
func (a And) ToSQL() (string, []driver.Value) {
	return junctionToSQL(a, " AND ")
}

func (a And) Expression() clause.Expression {
	return clause.And(expressions(a)...)
}

func (a And) Match(row Row) (bool, error) {
	for _, p := range a {
		ok, err := p.Match(row)
		if err != nil || !ok {
			return false, err
		}
	}

	return true, nil
}

func (a And) String() string {
	return junctionString(a, " AND ")
}

// ToSQL converts (K1, K2) into "(K1 OR K2)".
func (o Or) ToSQL() (string, []driver.Value) {
	return junctionToSQL(o, " OR ")
}

func (o Or) Expression() clause.Expression {
	return clause.Or(expressions(o)...)
}

func (o Or) Match(row Row) (bool, error) {
	for _, p := range o {
		ok, err := p.Match(row)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}

	return false, nil
}

func (o Or) String() string {
	return junctionString(o, " OR ")
}

func junctionToSQL(operands []Predicate, sep string) (string, []driver.Value) {
	clauses := make([]string, 0, len(operands))
	values := make([]driver.Value, 0, len(operands))

	for _, operand := range operands {
		operandClause, operandValues := operand.ToSQL()
		clauses = append(clauses, operandClause)
		values = append(values, operandValues...)
	}

	switch len(clauses) {
	case 0:
		return "TRUE", nil
	case 1:
		return clauses[0], values
	}

	return fmt.Sprintf("(%s)", strings.Join(clauses, sep)), values
}

func junctionString(operands []Predicate, sep string) string {
	parts := make([]string, 0, len(operands))
	for _, operand := range operands {
		parts = append(parts, operand.String())
	}

	switch len(parts) {
	case 0:
		return "TRUE"
	case 1:
		return parts[0]
	}

	return "(" + strings.Join(parts, sep) + ")"
}

func expressions(operands []Predicate) []clause.Expression {
	ret := make([]clause.Expression, 0, len(operands))
	for _, operand := range operands {
		ret = append(ret, operand.Expression())
	}

	return ret
}

var (
	_ Predicate = Comparison{}
	_ Predicate = And(nil)
	_ Predicate = Or(nil)
)
