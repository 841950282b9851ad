// Package cursorpagination provides keyset (cursor-based) pagination.
//
// # Overview
//
// A page is selected by comparing the sort-key values of its rows with the
// values of a boundary row of the neighbouring page, instead of skipping rows
// with OFFSET. The composite order may mix ASC and DESC columns; the least
// significant column must be unique (typically the primary key).
//
// # Key concepts
//   - Spec: immutable configuration built with SpecBuilder. Holds the mapping
//     between internal column names and the public names exposed in tokens,
//     the sort specification and the page size.
//   - Pager: one page request. Build compiles the inbound "before" or "after"
//     token into a Query; ProcessResults restores display order and records
//     the boundary rows; Navigation encodes them into the next tokens.
//   - Query: predicate, orderings and limit. Apply renders it onto gorm,
//     ExecuteSlice evaluates it in memory, the pgxpager and mongopager
//     packages render it for pgx and MongoDB.
//
// A token is base64 encoded JSON with the public names of the sort columns
// as keys, in sort order. DESC columns are prefixed with "!":
//
//	{"!public_name":"X is for Xen","public_id":24}
//
// # Usage
//
//	pager := spec.NewPager(cursorpagination.RequestFromValues(r.URL.Query()))
//	q, err := pager.Build()
//	...
//	var rows []Entry
//	err = q.Apply(db.Model(&Entry{})).Find(&rows).Error
//	...
//	rows, err = cursorpagination.ProcessResults(pager, rows)
//	...
//	nav, err := pager.Navigation()
package cursorpagination
