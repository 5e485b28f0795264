// Package pagex windows an ordered, countable collection into numbered pages
// and builds the navigation links for each page.
package pagex

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// Request is a 1-indexed page request.
type Request struct {
	Page    int
	PerPage int
}

// Normalize applies defaults to non-positive values and caps PerPage at
// MaxPerPage.
func (r Request) Normalize() Request {
	if r.Page < 1 {
		r.Page = DefaultPage
	}
	if r.PerPage < 1 {
		r.PerPage = DefaultPerPage
	}
	r.PerPage = min(r.PerPage, MaxPerPage)
	return r
}

// Offset is the number of items that precede the page. It saturates at
// math.MaxInt instead of overflowing.
func (r Request) Offset() int {
	r = r.Normalize()
	if r.Page-1 > math.MaxInt/r.PerPage {
		return math.MaxInt
	}
	return (r.Page - 1) * r.PerPage
}

// ParseRequest reads "page" and "per_page" from q. Missing or malformed values
// fall back to the defaults; oversized pages are clamped, never rejected.
func ParseRequest(q url.Values) Request {
	return Request{
		Page:    atoiOr(q.Get("page"), DefaultPage),
		PerPage: atoiOr(q.Get("per_page"), DefaultPerPage),
	}.Normalize()
}

func atoiOr(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// Source is an ordered collection. Implementations must order by a stable key
// so identical requests return identical slices while the data is unchanged.
type Source[T any] interface {
	Count(ctx context.Context) (int, error)
	Slice(ctx context.Context, offset, limit int) ([]T, error)
}

// Endpoint identifies the collection URL links point at. Query holds extra
// parameters carried through to every link; page and per_page are always
// overwritten.
type Endpoint struct {
	Path  string
	Query url.Values
}

// URL returns the link for the given page.
func (e Endpoint) URL(page, perPage int) string {
	q := url.Values{}
	for k, vs := range e.Query {
		q[k] = append([]string(nil), vs...)
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))
	return e.Path + "?" + q.Encode()
}

// Meta describes the window within the collection.
type Meta struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalPages int `json:"total_pages"`
	TotalItems int `json:"total_items"`
}

// Links are relative navigation URLs. Next and Prev are nil, and encode as
// null, when there is no such page.
type Links struct {
	Self string  `json:"self"`
	Next *string `json:"next"`
	Prev *string `json:"prev"`
}

// Page is the pagination envelope.
type Page[T any] struct {
	Items []T   `json:"items"`
	Meta  Meta  `json:"_meta"`
	Links Links `json:"_links"`
}

// Paginate fetches the requested window from src. A page past the end yields
// an empty Items slice.
func Paginate[T any](ctx context.Context, src Source[T], req Request, ep Endpoint) (Page[T], error) {
	req = req.Normalize()

	total, err := src.Count(ctx)
	if err != nil {
		return Page[T]{}, fmt.Errorf("pagex: count: %w", err)
	}

	totalPages := (total + req.PerPage - 1) / req.PerPage

	var items []T
	if req.Page <= totalPages {
		items, err = src.Slice(ctx, req.Offset(), req.PerPage)
		if err != nil {
			return Page[T]{}, fmt.Errorf("pagex: slice: %w", err)
		}
	}
	if items == nil {
		items = []T{}
	}

	page := Page[T]{
		Items: items,
		Meta: Meta{
			Page:       req.Page,
			PerPage:    req.PerPage,
			TotalPages: totalPages,
			TotalItems: total,
		},
		Links: Links{Self: ep.URL(req.Page, req.PerPage)},
	}
	if req.Page < totalPages {
		next := ep.URL(req.Page+1, req.PerPage)
		page.Links.Next = &next
	}
	if req.Page > 1 {
		prev := ep.URL(req.Page-1, req.PerPage)
		page.Links.Prev = &prev
	}
	return page, nil
}

// Map projects the items of p, keeping its metadata and links.
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := make([]U, len(p.Items))
	for i, it := range p.Items {
		out[i] = fn(it)
	}
	return Page[U]{Items: out, Meta: p.Meta, Links: p.Links}
}

// SliceSource serves an in-memory slice.
type SliceSource[T any] []T

func (s SliceSource[T]) Count(context.Context) (int, error) { return len(s), nil }

func (s SliceSource[T]) Slice(_ context.Context, offset, limit int) ([]T, error) {
	if offset >= len(s) {
		return nil, nil
	}
	end := min(offset+limit, len(s))
	return s[offset:end], nil
}
