package cursorpagination

import (
	"net/url"
	"strconv"
)

// Request parameter names used for navigation links.
const (
	RequestParamBefore = "before"
	RequestParamAfter  = "after"
	RequestParamLimit  = "limit"
)

// Request carries the inbound navigation state of one page request.
//
// Only one of Before and After is expected. When both are set Before takes
// precedence and After is ignored.
type Request struct {
	Before string
	After  string
	// Limit overrides the configured page size when positive. It is capped by
	// the configured maximum.
	Limit int
}

// RawRequest is intended for API payloads and query binding. For proper code
// generation, inline it:
//
//	type ListEntriesRequest struct {
//	    Paging RawRequest `json:",inline"`
//	}
type RawRequest struct {
	// Before - token of the first row of the current page, asks for the page before it.
	Before string `json:"before" query:"before"`
	// After - token of the last row of the current page, asks for the page after it.
	After string `json:"after" query:"after"`
	// Limit - maximum number of records to return in the response.
	Limit int `json:"limit" query:"limit"`
}

func (r RawRequest) Request() Request {
	return Request(r)
}

// RequestFromValues reads before, after and limit from URL query values. An
// unparsable limit is treated as absent.
func RequestFromValues(values url.Values) Request {
	limit, _ := strconv.Atoi(values.Get(RequestParamLimit))

	return Request{
		Before: values.Get(RequestParamBefore),
		After:  values.Get(RequestParamAfter),
		Limit:  limit,
	}
}

// cursorToken picks the token to page from and its kind. Before wins over After.
func (r Request) cursorToken() (string, Kind) {
	if r.Before != "" {
		return r.Before, KindBefore
	}

	return r.After, KindAfter
}
