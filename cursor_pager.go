package cursorpagination

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Pager drives a single page request: it compiles the inbound cursor into a
// Query, post-processes the rows the caller fetched with it and produces the
// navigation tokens for the neighbouring pages.
//
// A Pager is created per request and is not safe for concurrent use.
type Pager struct {
	spec    *Spec
	request Request
	limit   int

	kind      Kind
	hasCursor bool
	query     *Query

	first, last Row
	processed   bool
	hasMore     bool
}

// NewPager starts a page request.
func (s *Spec) NewPager(req Request) *Pager {
	return &Pager{
		spec:    s,
		request: req,
		limit:   s.requestLimit(req.Limit),
		kind:    KindAfter,
	}
}

// Build decodes the request cursor and returns the query for the page.
//
// For a "before" request the orderings are mirrored and the query is marked
// Reversed: rows come back nearest-first and ProcessResults turns them back
// into display order.
func (p *Pager) Build() (*Query, error) {
	if p == nil || p.spec == nil {
		return nil, fmt.Errorf("pager is not initialized")
	}

	logger := p.spec.logger

	if p.request.Before != "" && p.request.After != "" {
		logger.Debug("both cursors supplied, ignoring 'after'",
			zap.String(RequestParamBefore, p.request.Before),
			zap.String(RequestParamAfter, p.request.After),
		)
	}

	token, kind := p.request.cursorToken()

	where, err := p.spec.predicate(token, kind)
	if err != nil {
		logger.Debug("rejected cursor",
			zap.String("kind", string(kind)),
			zap.String("token", token),
			zap.Error(err),
		)
		return nil, err
	}

	p.kind = kind
	p.hasCursor = where != nil

	reversed := p.hasCursor && kind == KindBefore
	orderings := lo.Ternary(reversed, p.spec.sort.Invert(), slices.Clone(p.spec.sort))

	p.query = &Query{
		Where:     where,
		Orderings: orderings,
		Limit:     p.limit,
		Lookahead: p.spec.lookahead,
		Reversed:  reversed,
	}

	if where != nil {
		logger.Debug("built keyset predicate",
			zap.String("kind", string(kind)),
			zap.Stringer("where", where),
			zap.String("order", orderings.ToSQL()),
		)
	}

	return p.query, nil
}

// Query returns the query produced by Build, nil before Build.
func (p *Pager) Query() *Query {
	if p == nil {
		return nil
	}

	return p.query
}

// GetLimit returns the page size of this request.
func (p *Pager) GetLimit() int {
	if p == nil {
		return NoLimit
	}

	return p.limit
}

// ProcessResults takes the rows fetched with the pager's query, in query order,
// and returns them in display order: the lookahead row is dropped and a
// reversed page is put back in forward order. The first and last rows become
// the boundaries of Navigation.
//
// Elements are read by column through RowOf; use ProcessResultsWith when they
// need explicit getters.
func ProcessResults[T any](p *Pager, items []T) ([]T, error) {
	return ProcessResultsWith[T](p, items, nil)
}

// ProcessResultsWith is ProcessResults reading boundary values through getters.
// A nil getters map falls back to RowOf.
func ProcessResultsWith[T any](p *Pager, items []T, getters Getters[T]) ([]T, error) {
	if p == nil || p.query == nil {
		return nil, fmt.Errorf("cannot process results: pager query is not built")
	}

	hasMore := p.query.Lookahead && len(items) > p.query.Limit
	if hasMore {
		items = items[:p.query.Limit]
	}

	if p.query.Reversed {
		items = slices.Clone(items)
		slices.Reverse(items)
	}

	rows, err := rowsOf(items, getters)
	if err != nil {
		return nil, fmt.Errorf("cannot process results: %w", err)
	}

	p.hasMore = hasMore
	p.first, p.last = nil, nil
	if len(rows) > 0 {
		p.first = rows[0]
		p.last = rows[len(rows)-1]
	}
	p.processed = true

	return items, nil
}

// SetFirst overrides the row the "before" token is built from.
func (p *Pager) SetFirst(row Row) *Pager {
	if p != nil {
		p.first = row
	}

	return p
}

// SetLast overrides the row the "after" token is built from.
func (p *Pager) SetLast(row Row) *Pager {
	if p != nil {
		p.last = row
	}

	return p
}

// HasMore reports whether the lookahead row was present: more rows exist in
// the direction of travel. Always false without lookahead.
func (p *Pager) HasMore() bool {
	return p != nil && p.hasMore
}

// Navigation encodes the boundary rows into the before/after tokens. Calling it
// repeatedly returns the same tokens until new results are processed.
//
// Without lookahead both tokens are issued for every non-empty page and it is
// up to the caller to decide whether a page is the first or last one. With
// lookahead the token pointing past the end of the data set is left out, and
// so is the "before" token of the first page.
func (p *Pager) Navigation() (Navigation, error) {
	if p == nil || p.spec == nil {
		return Navigation{}, nil
	}

	var (
		nav Navigation
		err error
	)

	if p.first != nil && p.keepBefore() {
		nav.Before, err = p.spec.Encode(p.first)
		if err != nil {
			return Navigation{}, fmt.Errorf("cannot encode before cursor: %w", err)
		}
	}

	if p.last != nil && p.keepAfter() {
		nav.After, err = p.spec.Encode(p.last)
		if err != nil {
			return Navigation{}, fmt.Errorf("cannot encode after cursor: %w", err)
		}
	}

	return nav, nil
}

func (p *Pager) keepBefore() bool {
	if !p.processed || !p.spec.lookahead {
		return true
	}
	if !p.hasCursor {
		return false
	}
	if p.kind == KindBefore {
		return p.hasMore
	}

	return true
}

func (p *Pager) keepAfter() bool {
	if !p.processed || !p.spec.lookahead {
		return true
	}
	if p.hasCursor && p.kind == KindBefore {
		return true
	}

	return p.hasMore
}
