// Package paging drives cursor- and offset-style pagination behind one
// page-source contract, with a hard page ceiling per query scope.
package paging

import (
	"context"
	"errors"
)

// DefaultMaxPages bounds worst-case work against unbounded or buggy
// pagination within a single query scope.
const DefaultMaxPages = 100

// ErrTruncated signals that the page ceiling was reached before the source
// terminated naturally. The records gathered up to that point are valid.
var ErrTruncated = errors.New("paging: page ceiling reached before pagination finished")

// PageSource yields successive pages of records. The second return value
// reports whether another page is available; implementations keep their own
// continuation state between calls.
type PageSource[T any] interface {
	NextPage(ctx context.Context) (records []T, more bool, err error)
}

// CursorSource paginates by round-tripping an opaque "after" token. An empty
// token from Fetch terminates pagination.
type CursorSource[T any] struct {
	Fetch func(ctx context.Context, after string) (records []T, next string, err error)

	after string
}

func (s *CursorSource[T]) NextPage(ctx context.Context) ([]T, bool, error) {
	records, next, err := s.Fetch(ctx, s.after)
	if err != nil {
		return nil, false, err
	}
	s.after = next
	return records, next != "", nil
}

// OffsetSource paginates by numeric offset plus a continuation flag.
// Pagination ends when the flag is false or the server stops returning an
// offset.
type OffsetSource[T any] struct {
	Fetch func(ctx context.Context, offset int64) (records []T, next *int64, hasMore bool, err error)

	offset int64
}

func (s *OffsetSource[T]) NextPage(ctx context.Context) ([]T, bool, error) {
	records, next, hasMore, err := s.Fetch(ctx, s.offset)
	if err != nil {
		return nil, false, err
	}
	if next == nil {
		return records, false, nil
	}
	s.offset = *next
	return records, hasMore, nil
}

type mapSource[A, B any] struct {
	src PageSource[A]
	fn  func(A) B
}

func (m mapSource[A, B]) NextPage(ctx context.Context) ([]B, bool, error) {
	records, more, err := m.src.NextPage(ctx)
	if err != nil {
		return nil, false, err
	}
	mapped := make([]B, len(records))
	for i, rec := range records {
		mapped[i] = m.fn(rec)
	}
	return mapped, more, nil
}

// Map converts a source's records element-wise, preserving page boundaries
// and continuation state.
func Map[A, B any](src PageSource[A], fn func(A) B) PageSource[B] {
	return mapSource[A, B]{src: src, fn: fn}
}

// Result describes how a walk over one query scope ended.
type Result struct {
	Pages   int
	Records int

	// Truncated is set when the page ceiling cut pagination short.
	Truncated bool
	// Err holds the upstream error that ended the walk early, if any.
	// Records from pages fetched before the failure were already visited;
	// the walk is fail-soft per scope.
	Err error
}

// Failed reports whether the walk ended on an upstream error.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Walk drains src through visit, fetching at most maxPages pages
// (DefaultMaxPages when maxPages is not positive). An empty page does not
// terminate the walk as long as the source still advertises a continuation.
func Walk[T any](ctx context.Context, src PageSource[T], maxPages int, visit func(T)) Result {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	var res Result
	for res.Pages < maxPages {
		records, more, err := src.NextPage(ctx)
		if err != nil {
			res.Err = err
			return res
		}
		res.Pages++
		for _, rec := range records {
			visit(rec)
			res.Records++
		}
		if !more {
			return res
		}
	}

	res.Truncated = true
	return res
}
