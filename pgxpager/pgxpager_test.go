package pgxpager

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cursorpagination "github.com/CatLabInteractive/cursor-pagination"
)

func newEntrySpec(t *testing.T) *cursorpagination.Spec {
	t.Helper()

	spec, err := cursorpagination.NewSpecBuilder().
		WithName("name", "public_name").
		WithName("id", "public_id").
		WithSort(
			cursorpagination.OrderBy{Column: "name", Direction: cursorpagination.DirectionASC},
			cursorpagination.OrderBy{Column: "id", Direction: cursorpagination.DirectionASC},
		).
		WithLimit(3).
		Build()
	require.NoError(t, err)

	return spec
}

func Test_Render(t *testing.T) {
	spec := newEntrySpec(t)

	boundary, err := spec.Encode(cursorpagination.MapRow{"name": "Bob", "id": 2})
	require.NoError(t, err)

	tests := []struct {
		name     string
		sel      Select
		request  cursorpagination.Request
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "first page",
			sel:      Select{Table: "entries"},
			wantSQL:  "SELECT * FROM entries ORDER BY name ASC, id ASC LIMIT 3",
			wantArgs: []any{},
		},
		{
			name:     "after with base condition",
			sel:      Select{Columns: []string{"id", "name"}, Table: "entries", Where: "owner = ?", Args: []any{"alice"}},
			request:  cursorpagination.Request{After: boundary},
			wantSQL:  "SELECT id, name FROM entries WHERE (owner = $1) AND (name >= $2 AND (name > $3 OR id > $4)) ORDER BY name ASC, id ASC LIMIT 3",
			wantArgs: []any{"alice", "Bob", "Bob", int64(2)},
		},
		{
			name:     "before mirrors order",
			sel:      Select{Table: "entries"},
			request:  cursorpagination.Request{Before: boundary, Limit: 2},
			wantSQL:  "SELECT * FROM entries WHERE (name <= $1 AND (name < $2 OR id < $3)) ORDER BY name DESC, id DESC LIMIT 2",
			wantArgs: []any{"Bob", "Bob", int64(2)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := spec.NewPager(tt.request).Build()
			require.NoError(t, err)

			sql, args := Render(tt.sel, q)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func Test_Rebind(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{name: "no placeholders", query: "SELECT 1", want: "SELECT 1"},
		{name: "sequential", query: "a = ? AND b > ?", want: "a = $1 AND b > $2"},
		{name: "literal kept", query: "a = '?' AND b = ?", want: "a = '?' AND b = $1"},
		{name: "after literal", query: "(name >= ? AND (name > 'F?' OR id > ?))", want: "(name >= $1 AND (name > 'F?' OR id > $2))"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Rebind(tt.query))
		})
	}
}

type fakeRows struct {
	fields []pgconn.FieldDescription
	values [][]any
	pos    int
	closed bool
}

func (r *fakeRows) Close()                                       { r.closed = true }
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return r.fields }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.closed || r.pos >= len(r.values) {
		return false
	}
	r.pos++

	return true
}

func (r *fakeRows) Values() ([]any, error) {
	return r.values[r.pos-1], nil
}

func (r *fakeRows) Scan(dest ...any) error {
	if len(dest) == 1 {
		if scanner, ok := dest[0].(pgx.RowScanner); ok {
			return scanner.ScanRow(r)
		}
	}

	return errors.New("unsupported scan")
}

type fakeQuerier struct {
	rows pgx.Rows
	err  error

	sql  string
	args []any
}

func (q *fakeQuerier) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	q.sql = sql
	q.args = args

	return q.rows, q.err
}

func Test_Fetch(t *testing.T) {
	spec := newEntrySpec(t)

	t.Run("collects rows as maps", func(t *testing.T) {
		db := &fakeQuerier{
			rows: &fakeRows{
				fields: []pgconn.FieldDescription{{Name: "id"}, {Name: "name"}},
				values: [][]any{
					{int64(1), "A is for Apple"},
					{int64(2), "B is for Banana"},
				},
			},
		}

		pager := spec.NewPager(cursorpagination.Request{})
		q, err := pager.Build()
		require.NoError(t, err)

		rows, err := Fetch(context.Background(), db, Select{Table: "entries"}, q)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "SELECT * FROM entries ORDER BY name ASC, id ASC LIMIT 3", db.sql)
		assert.Equal(t, map[string]any{"id": int64(2), "name": "B is for Banana"}, rows[1])

		_, err = cursorpagination.ProcessResults(pager, rows)
		require.NoError(t, err)

		nav, err := pager.Navigation()
		require.NoError(t, err)

		cursor, err := spec.Decode(nav.After)
		require.NoError(t, err)
		assert.Equal(t, []cursorpagination.CursorEntry{
			{Column: "public_name", Direction: cursorpagination.DirectionASC, Value: "B is for Banana"},
			{Column: "public_id", Direction: cursorpagination.DirectionASC, Value: int64(2)},
		}, cursor.GetEntries())
	})

	t.Run("query error", func(t *testing.T) {
		db := &fakeQuerier{err: errors.New("connection refused")}

		q, err := spec.NewPager(cursorpagination.Request{}).Build()
		require.NoError(t, err)

		_, err = Fetch(context.Background(), db, Select{Table: "entries"}, q)
		require.ErrorContains(t, err, "connection refused")
	})
}
