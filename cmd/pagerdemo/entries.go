package main

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	cursorpagination "github.com/CatLabInteractive/cursor-pagination"
)

type Entry struct {
	ID      int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name    string    `gorm:"not null" json:"name"`
	Score   int       `gorm:"not null" json:"score"`
	Created time.Time `json:"created"`
}

// EntryStore fetches the rows of one page query, in query order.
type EntryStore interface {
	Page(ctx context.Context, q *cursorpagination.Query) ([]Entry, error)
}

type gormEntryStore struct {
	db *gorm.DB
}

func newGORMEntryStore(db *gorm.DB) *gormEntryStore {
	return &gormEntryStore{db: db}
}

func (s *gormEntryStore) Page(ctx context.Context, q *cursorpagination.Query) ([]Entry, error) {
	var ret []Entry
	if err := q.Apply(s.db.WithContext(ctx).Model(&Entry{})).Find(&ret).Error; err != nil {
		return nil, fmt.Errorf("cannot load entries: %w", err)
	}

	return ret, nil
}

// memoryEntryStore evaluates page queries over a fixed slice.
type memoryEntryStore struct {
	entries []Entry
}

func (s *memoryEntryStore) Page(_ context.Context, q *cursorpagination.Query) ([]Entry, error) {
	return cursorpagination.ExecuteSlice(q, s.entries)
}

var (
	_ EntryStore = (*gormEntryStore)(nil)
	_ EntryStore = (*memoryEntryStore)(nil)
)

func seedEntries(now time.Time) []Entry {
	data := []struct {
		name  string
		score int
	}{
		{"A is for apple", 10},
		{"B is for balloons", 9},
		{"C is for CatLab", 8},
		{"D is for drums", 10},
		{"E is for energy", 10},
		{"F is for fast", 4},
		{"G is great", 10},
		{"H is for Hilde", 4},
		{"I is for ink", 2},
		{"J is for Jenkins", 5},
		{"K is for knitting", 4},
		{"L is for Love", 3},
		{"M is for Mario", 9},
		{"N is for Negative", 8},
		{"O is for Okay", 3},
		{"P is for Plasma", 9},
		{"Q is for Quick", 8},
		{"R is for REST", 8},
		{"S is for Snake", 5},
		{"T is for Thijs", 3},
		{"U is for Universe", 6},
		{"V is for Venus", 5},
		{"W is for Wine", 5},
		{"X is for Xen", 3},
		{"Y was for Yahoo", 7},
		{"Z is for Zelda", 7},
	}

	ret := make([]Entry, 0, len(data))
	for i, d := range data {
		ret = append(ret, Entry{
			ID:      int64(i + 1),
			Name:    d.name,
			Score:   d.score,
			Created: now,
		})
	}

	return ret
}
