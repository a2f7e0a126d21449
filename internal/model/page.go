package model

// Page is the standard pagination envelope for list responses.
// Invariants: TotalPages == ceil(Total/PageSize), len(Items) <= PageSize,
// Page >= 1.
type Page[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// NewPage builds a Page from a fetched slice and a total row count,
// computing TotalPages with integer ceiling division.
func NewPage[T any](items []T, total, page, pageSize int) *Page[T] {
	if items == nil {
		items = make([]T, 0)
	}
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return &Page[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
