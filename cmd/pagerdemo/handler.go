package main

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
	"go.uber.org/zap"

	cursorpagination "github.com/CatLabInteractive/cursor-pagination"
)

const paramSort = "sort"

type entriesResponse struct {
	Items      []Entry                     `json:"items"`
	Navigation cursorpagination.Navigation `json:"navigation"`
	Next       string                      `json:"next,omitempty"`
	Previous   string                      `json:"previous,omitempty"`
	HasMore    bool                        `json:"has_more"`
}

type entriesHandler struct {
	spec   *cursorpagination.Spec
	store  EntryStore
	logger *zap.Logger
}

func newEntriesHandler(spec *cursorpagination.Spec, store EntryStore, logger *zap.Logger) *entriesHandler {
	return &entriesHandler{
		spec:   spec,
		store:  store,
		logger: logger,
	}
}

func (h *entriesHandler) Bind(e *echo.Echo) {
	e.GET("/entries", h.list)
}

// list serves GET /entries?before=&after=&limit=&sort=public_score+desc
func (h *entriesHandler) list(c echo.Context) error {
	params := c.QueryParams()

	spec, err := h.specFor(params[paramSort])
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid sort: "+err.Error())
	}

	pager := spec.NewPager(cursorpagination.RequestFromValues(params))

	q, err := pager.Build()
	if err != nil {
		return h.httpError(err)
	}

	entries, err := h.store.Page(c.Request().Context(), q)
	if err != nil {
		return h.httpError(err)
	}

	entries, err = cursorpagination.ProcessResults(pager, entries)
	if err != nil {
		return h.httpError(err)
	}

	nav, err := pager.Navigation()
	if err != nil {
		return h.httpError(err)
	}

	return c.JSON(http.StatusOK, entriesResponse{
		Items:      entries,
		Navigation: nav,
		Next:       link(c, params, pager.GetLimit(), nav.Next()),
		Previous:   link(c, params, pager.GetLimit(), nav.Previous()),
		HasMore:    pager.HasMore(),
	})
}

// specFor derives a spec ordered by the requested public sort. id ASC is
// appended as the final tie-breaker unless the request already sorts by id.
func (h *entriesHandler) specFor(sort []string) (*cursorpagination.Spec, error) {
	if len(sort) == 0 {
		return h.spec, nil
	}

	orderings, err := h.spec.ParseSort(sort)
	if err != nil {
		return nil, err
	}

	if !lo.Contains(orderings.Columns(), "id") {
		orderings = append(orderings, cursorpagination.OrderBy{Column: "id", Direction: cursorpagination.DirectionASC})
	}

	return h.spec.ToBuilder().
		WithSubstitutedSort(orderings...).
		Build()
}

func (h *entriesHandler) httpError(err error) error {
	var notRegistered *cursorpagination.ColumnNotRegisteredError

	switch {
	case errors.Is(err, cursorpagination.ErrCursorDecode):
		h.logger.Debug("bad cursor", zap.Error(errors.Unwrap(err)))
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.As(err, &notRegistered) && notRegistered.Side == cursorpagination.SidePublic:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("cannot list entries", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError)
	}
}

// link returns the URL of a neighbouring page, or "" when there is none.
func link(c echo.Context, params url.Values, limit int, nav map[string]string) string {
	if nav == nil {
		return ""
	}

	values := url.Values{}
	if sort := params[paramSort]; len(sort) > 0 {
		values[paramSort] = sort
	}
	if limit != cursorpagination.NoLimit {
		values.Set(cursorpagination.RequestParamLimit, strconv.Itoa(limit))
	}
	for k, v := range nav {
		values.Set(k, v)
	}

	return c.Request().URL.Path + "?" + values.Encode()
}
