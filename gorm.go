package cursorpagination

import (
	"database/sql/driver"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

// Query is what a page request compiles to: a filter, the orderings to read
// rows in and the number of rows to fetch. It is independent of any driver;
// Apply renders it onto gorm, pgxpager and mongopager render it for pgx and
// MongoDB.
type Query struct {
	// Where is nil on the first page.
	Where Predicate
	// Orderings are mirrored when Reversed is set.
	Orderings Orderings
	// Limit is the page size; NoLimit means unlimited.
	Limit     int
	Lookahead bool
	// Reversed reports that rows come back in mirrored order and must be
	// reversed before display.
	Reversed bool
}

// DatasetLimit returns the number of rows to fetch:
//   - if Lookahead = true → Limit + 1
//   - if Lookahead = false → Limit
func (q *Query) DatasetLimit() int {
	if q == nil || q.Limit == NoLimit {
		return NoLimit
	}

	return lo.Ternary(q.Lookahead, q.Limit+1, q.Limit)
}

// Apply applies ordering, filter and limit to a gorm query.
func (q *Query) Apply(db *gorm.DB) *gorm.DB {
	if q == nil {
		return db
	}

	db = q.Orderings.Apply(db)

	if q.Where != nil {
		db = db.Clauses(q.Where.Expression())
	}

	if limit := q.DatasetLimit(); limit != NoLimit {
		db = db.Limit(limit)
	}

	return db
}

// WhereSQL returns the filter as an SQL condition with "?" placeholders.
//
// Usage:
//
//	where, args := q.WhereSQL()
//	query := fmt.Sprintf("SELECT * FROM entries WHERE %s ORDER BY %s", where, q.OrderSQL())
func (q *Query) WhereSQL() (string, []driver.Value) {
	if q == nil || q.Where == nil {
		return "TRUE", nil
	}

	return q.Where.ToSQL()
}

// OrderSQL returns the ORDER BY list of the query.
func (q *Query) OrderSQL() string {
	if q == nil {
		return ""
	}

	return q.Orderings.ToSQL()
}

// Apply applies the ordering to a gorm query.
func (o Orderings) Apply(db *gorm.DB) *gorm.DB {
	if len(o) == 0 {
		return db
	}

	return db.Order(o.ToSQL())
}
