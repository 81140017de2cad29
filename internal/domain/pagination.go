package domain

import "context"

// PaginatedResult wraps a page of items with its paging metadata.
type PaginatedResult[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginatedResult computes the page count for a result set.
func NewPaginatedResult[T any](items []T, total int64, page, limit int) PaginatedResult[T] {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return PaginatedResult[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}

// Transactor runs a function inside a database transaction. Repository
// implementations resolve the transaction handle from the context, so every
// repository call made within fn joins the same transaction.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}
