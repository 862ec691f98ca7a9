package models

import "math"

// SortOrder is ASC or DESC; anything else normalizes to DESC.
type SortOrder string

const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

// Normalize returns a valid sort order, defaulting to DESC.
func (o SortOrder) Normalize() SortOrder {
	if o == SortAsc {
		return SortAsc
	}
	return SortDesc
}

// PageRequest holds parsed pagination and sort parameters. SortBy is checked
// against a per-entity allow-list before reaching SQL.
type PageRequest struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder SortOrder
}

// Offset converts page/limit to a SQL offset.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PageMeta describes the position of a page within the full result set.
type PageMeta struct {
	Page            int   `json:"page"`
	Limit           int   `json:"limit"`
	Total           int64 `json:"total"`
	TotalPages      int   `json:"totalPages"`
	HasNextPage     bool  `json:"hasNextPage"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
}

// Paginated is the envelope returned by every list endpoint.
type Paginated[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}

// NewPaginated assembles the envelope from a page of data and the total count.
func NewPaginated[T any](data []T, req PageRequest, total int64) Paginated[T] {
	if data == nil {
		data = []T{}
	}
	totalPages := 0
	if req.Limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(req.Limit)))
	}
	return Paginated[T]{
		Data: data,
		Meta: PageMeta{
			Page:            req.Page,
			Limit:           req.Limit,
			Total:           total,
			TotalPages:      totalPages,
			HasNextPage:     req.Page < totalPages,
			HasPreviousPage: req.Page > 1 && total > 0,
		},
	}
}
