package cursorpagination

import (
	"encoding/base64"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"
)

// SpecBuilder accumulates pagination configuration. Every With* method
// tolerates a nil receiver. Nothing is validated until Build.
//
//	spec, err := cursorpagination.NewSpecBuilder().
//		WithName("score", "public_score").
//		WithName("id", "public_id", cursorpagination.IntConverter{}).
//		WithSort(
//			cursorpagination.OrderBy{Column: "score", Direction: cursorpagination.DirectionDESC},
//			cursorpagination.OrderBy{Column: "id", Direction: cursorpagination.DirectionASC},
//		).
//		WithLimit(10).
//		Build()
type SpecBuilder struct {
	names     *NameMapping
	nameErr   error
	sort      Orderings
	limit     int
	maxLimit  int
	lookahead bool
	encoding  *base64.Encoding
	logger    *zap.Logger
}

func NewSpecBuilder() *SpecBuilder {
	return &SpecBuilder{
		names: NewNameMapping(),
	}
}

// WithName registers the public name of an internal column, with an optional
// converter applied to cursor values of that column.
func (b *SpecBuilder) WithName(internal, public string, converter ...ValueConverter) *SpecBuilder {
	if b == nil {
		b = NewSpecBuilder()
	}
	if b.names == nil {
		b.names = NewNameMapping()
	}

	var conv ValueConverter
	if len(converter) > 0 {
		conv = converter[0]
	}

	if err := b.names.Register(internal, public, conv); err != nil {
		b.nameErr = errors.Join(b.nameErr, err)
	}

	return b
}

// WithNameMapping replaces registered names with a copy of names.
func (b *SpecBuilder) WithNameMapping(names *NameMapping) *SpecBuilder {
	if b == nil {
		b = NewSpecBuilder()
	}

	b.names = names.Clone()
	b.nameErr = nil

	return b
}

// WithSubstitutedSort resets previous orderings and applies the provided ones.
func (b *SpecBuilder) WithSubstitutedSort(orderBy ...OrderBy) *SpecBuilder {
	if b == nil {
		b = NewSpecBuilder()
	}

	b.sort = nil

	return b.WithSort(orderBy...)
}

// WithSort appends sort orderings without overwriting existing ones.
// Order is preserved as if calling:
//
//	OrderBy(o1).ThenBy(o2).ThenBy(o3)...
//
// A column that is already present is moved to the end with its new direction.
func (b *SpecBuilder) WithSort(orderBy ...OrderBy) *SpecBuilder {
	if b == nil {
		b = NewSpecBuilder()
	}

	for _, o := range orderBy {
		idx := slices.IndexFunc(b.sort, func(processed OrderBy) bool {
			return processed.Column == o.Column
		})

		// Remove previous occurrence (avoid duplication).
		if idx != -1 {
			b.sort = slices.Delete(b.sort, idx, idx+1)
		}

		b.sort = append(b.sort, o)
	}

	return b
}

// WithLimit sets the page size. A non-positive value means no limit.
func (b *SpecBuilder) WithLimit(limit int) *SpecBuilder {
	if b == nil {
		b = NewSpecBuilder()
	}

	b.limit = max(limit, NoLimit)

	return b
}

// WithMaxLimit caps the page size a request may ask for. A non-positive value
// means requests are not capped.
func (b *SpecBuilder) WithMaxLimit(maxLimit int) *SpecBuilder {
	if b == nil {
		b = NewSpecBuilder()
	}

	b.maxLimit = max(maxLimit, NoLimit)

	return b
}

// WithLookahead fetches one extra row per page to find out whether the data
// set continues in the direction of travel.
//
// IMPORTANT:
// Cannot be used without a limit.
func (b *SpecBuilder) WithLookahead() *SpecBuilder {
	if b == nil {
		b = NewSpecBuilder()
	}

	b.lookahead = true

	return b
}

// WithEncoding sets the base64 alphabet tokens are issued in. Decoding accepts
// every standard alphabet regardless.
func (b *SpecBuilder) WithEncoding(enc *base64.Encoding) *SpecBuilder {
	if b == nil {
		b = NewSpecBuilder()
	}

	b.encoding = enc

	return b
}

func (b *SpecBuilder) WithLogger(logger *zap.Logger) *SpecBuilder {
	if b == nil {
		b = NewSpecBuilder()
	}

	b.logger = logger

	return b
}

// Build validates the configuration and freezes it into a *Spec.
func (b *SpecBuilder) Build() (*Spec, error) {
	if b == nil {
		return nil, fmt.Errorf("spec builder is nil")
	}

	if b.nameErr != nil {
		return nil, fmt.Errorf("invalid name registration: %w", b.nameErr)
	}

	if err := b.sort.validate(); err != nil {
		return nil, fmt.Errorf("invalid sort: %w", err)
	}

	if b.lookahead && b.limit == NoLimit {
		return nil, fmt.Errorf("cannot apply lookahead to unlimited paging")
	}

	index := make(map[string]OrderBy, len(b.sort))
	for _, o := range b.sort {
		if _, err := b.names.ToPublic(o.Column); err != nil {
			return nil, err
		}
		index[o.Column] = o
	}

	logger := b.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	encoding := b.encoding
	if encoding == nil {
		encoding = _encoder
	}

	return &Spec{
		names:     b.names.Clone(),
		sort:      slices.Clone(b.sort),
		index:     index,
		limit:     b.limit,
		maxLimit:  b.maxLimit,
		lookahead: b.lookahead,
		encoding:  encoding,
		logger:    logger,
	}, nil
}

// Spec is a validated, immutable pagination configuration: the name mapping,
// the sort specification and the page size. It is safe for concurrent use.
type Spec struct {
	names     *NameMapping
	sort      Orderings
	index     map[string]OrderBy
	limit     int
	maxLimit  int
	lookahead bool
	encoding  *base64.Encoding
	logger    *zap.Logger
}

// ToBuilder returns a builder preloaded with the configuration of s, for
// deriving a variant such as a request-specific sort.
func (s *Spec) ToBuilder() *SpecBuilder {
	return &SpecBuilder{
		names:     s.names.Clone(),
		sort:      slices.Clone(s.sort),
		limit:     s.limit,
		maxLimit:  s.maxLimit,
		lookahead: s.lookahead,
		encoding:  s.encoding,
		logger:    s.logger,
	}
}

// ToPublic returns the public name of an internal column.
func (s *Spec) ToPublic(internal string) (string, error) {
	return s.names.ToPublic(internal)
}

// ToPrivate returns the internal column of a public name.
func (s *Spec) ToPrivate(public string) (string, error) {
	return s.names.ToPrivate(public)
}

// ParseSort parses "public_name asc|desc" strings against the registered
// public names. See the package-level ParseSort.
func (s *Spec) ParseSort(strs []string) (Orderings, error) {
	return ParseSort(strs, s.names)
}

// GetSort returns a copy of the sort specification.
func (s *Spec) GetSort() Orderings {
	return slices.Clone(s.sort)
}

// GetOrderBy returns the sort parameter of an internal column.
func (s *Spec) GetOrderBy(column string) (OrderBy, bool) {
	o, ok := s.index[column]
	return o, ok
}

// GetLimit returns the configured page size; NoLimit means unlimited.
func (s *Spec) GetLimit() int {
	return s.limit
}

// IsLookahead returns true if lookahead pagination is enabled.
func (s *Spec) IsLookahead() bool {
	return s.lookahead
}

// Encode builds the cursor token of a row: its sort-key values keyed by
// direction-tagged public names, in sort order. Columns the row lacks, or
// holds nil for, are left out.
func (s *Spec) Encode(row Row) (string, error) {
	cursor, err := s.CursorOf(row)
	if err != nil {
		return "", err
	}

	return cursor.Encode(s.encoding)
}

// CursorOf projects a row onto the sort specification.
func (s *Spec) CursorOf(row Row) (*Cursor, error) {
	entries := make([]CursorEntry, 0, len(s.sort))
	for _, o := range s.sort {
		value, ok := row.Get(o.Column)
		if !ok || value == nil {
			continue
		}

		public, err := s.names.ToPublic(o.Column)
		if err != nil {
			return nil, err
		}

		entries = append(entries, CursorEntry{
			Column:    public,
			Direction: o.Direction,
			Value:     value,
		})
	}

	return NewCursor(entries...), nil
}

// Decode parses a token issued by Encode.
func (s *Spec) Decode(token string) (*Cursor, error) {
	return decodeCursor(token, s.encoding)
}

// predicate decodes token and builds the keyset predicate for kind.
func (s *Spec) predicate(token string, kind Kind) (Predicate, error) {
	cursor, err := s.Decode(token)
	if err != nil {
		return nil, err
	}
	if cursor.IsEmpty() {
		return nil, nil
	}

	bounds, err := s.resolveBoundaries(cursor)
	if err != nil {
		return nil, err
	}

	return keysetPredicate(bounds, kind), nil
}
