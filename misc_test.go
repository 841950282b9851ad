package cursorpagination

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newGORMMySQLMock() (string, *gorm.DB, sqlmock.Sqlmock, error) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		return "", nil, nil, err
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      mockDB,
		SkipInitializeWithVersion: true,
	})

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return "", nil, nil, err
	}

	return "mysql", db.Debug(), mock, nil
}

func newGORMPostgresMock() (string, *gorm.DB, sqlmock.Sqlmock, error) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		return "", nil, nil, err
	}

	dialector := postgres.New(postgres.Config{
		Conn: mockDB,
	})

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return "", nil, nil, err
	}

	return "postgres", db.Debug(), mock, nil
}

type tEntry struct {
	ID    int64
	Name  string
	Score int
}

// tEntries is the A-to-Z data set: 26 rows with ids 1..26.
func tEntries() []tEntry {
	return []tEntry{
		{1, "A is for apple", 10},
		{2, "B is for balloons", 9},
		{3, "C is for CatLab", 8},
		{4, "D is for drums", 10},
		{5, "E is for energy", 10},
		{6, "F is for fast", 4},
		{7, "G is great", 10},
		{8, "H is for Hilde", 4},
		{9, "I is for ink", 2},
		{10, "J is for Jenkins", 5},
		{11, "K is for knitting", 4},
		{12, "L is for Love", 3},
		{13, "M is for Mario", 9},
		{14, "N is for Negative", 8},
		{15, "O is for Okay", 3},
		{16, "P is for Plasma", 9},
		{17, "Q is for Quick", 8},
		{18, "R is for REST", 8},
		{19, "S is for Snake", 5},
		{20, "T is for Thijs", 3},
		{21, "U is for Universe", 6},
		{22, "V is for Venus", 5},
		{23, "W is for Wine", 5},
		{24, "X is for Xen", 3},
		{25, "Y was for Yahoo", 7},
		{26, "Z is for Zelda", 7},
	}
}

func tEntryIDs(entries []tEntry) []int64 {
	ret := make([]int64, 0, len(entries))
	for _, e := range entries {
		ret = append(ret, e.ID)
	}

	return ret
}

// newEntrySpecBuilder registers the public names of the entry columns.
func newEntrySpecBuilder() *SpecBuilder {
	return NewSpecBuilder().
		WithName("id", "public_id", IntConverter{}).
		WithName("name", "public_name").
		WithName("score", "public_score", IntConverter{})
}

func mustBuild(t *testing.T, b *SpecBuilder) *Spec {
	t.Helper()

	spec, err := b.Build()
	require.NoError(t, err)

	return spec
}
