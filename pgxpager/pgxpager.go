// Package pgxpager runs cursor pagination queries on PostgreSQL through pgx.
package pgxpager

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	cursorpagination "github.com/CatLabInteractive/cursor-pagination"
)

// Querier is implemented by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Select describes the paginated statement without its keyset part.
type Select struct {
	// Columns defaults to "*".
	Columns []string
	Table   string
	// Where is an optional base condition with "?" placeholders, ANDed with
	// the keyset predicate.
	Where string
	Args  []any
}

// Render builds the statement for a page query. Placeholders are numbered
// $1..$n, the base arguments first.
func Render(sel Select, q *cursorpagination.Query) (string, []any) {
	columns := "*"
	if len(sel.Columns) > 0 {
		columns = strings.Join(sel.Columns, ", ")
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(columns)
	sb.WriteString(" FROM ")
	sb.WriteString(sel.Table)

	args := make([]any, 0, len(sel.Args))
	args = append(args, sel.Args...)

	conditions := make([]string, 0, 2)
	if sel.Where != "" {
		conditions = append(conditions, "("+sel.Where+")")
	}
	if q != nil && q.Where != nil {
		where, values := q.Where.ToSQL()
		conditions = append(conditions, where)
		for _, v := range values {
			args = append(args, v)
		}
	}
	if len(conditions) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conditions, " AND "))
	}

	if order := q.OrderSQL(); order != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(order)
	}

	if limit := q.DatasetLimit(); limit != cursorpagination.NoLimit {
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.Itoa(limit))
	}

	return Rebind(sb.String()), args
}

// Rebind replaces "?" placeholders with $1, $2... Question marks inside single
// quoted literals are left alone.
func Rebind(query string) string {
	var (
		sb      strings.Builder
		n       int
		literal bool
	)

	sb.Grow(len(query) + 8)
	for _, r := range query {
		switch {
		case r == '\'':
			literal = !literal
			sb.WriteRune(r)
		case r == '?' && !literal:
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
		default:
			sb.WriteRune(r)
		}
	}

	return sb.String()
}

// Fetch runs the page query and collects rows as column -> value maps, which
// cursorpagination.ProcessResults reads directly.
func Fetch(ctx context.Context, db Querier, sel Select, q *cursorpagination.Query) ([]map[string]any, error) {
	sql, args := Render(sel, q)

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("cannot query page: %w", err)
	}

	ret, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("cannot collect page rows: %w", err)
	}

	return ret, nil
}
