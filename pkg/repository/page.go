package repository

// Page is a single page of results together with pagination metadata.
// Total reflects the full matching set, not the returned page size.
type Page[T any] struct {
	Data            []T   `json:"data"`
	Total           int64 `json:"total"`
	CurrentPageSize int   `json:"currentPageSize"`
	HasNextPage     bool  `json:"hasNextPage"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
	PageNumber      int64 `json:"pageNumber"`
}

// NewPage derives pagination metadata from the returned data, the offset the
// query started at, and the total match count:
//
//	hasNextPage     == skip + currentPageSize < total
//	hasPreviousPage == skip > 0
//	pageNumber      == floor(skip / currentPageSize) + 1
func NewPage[T any](data []T, skip, total int64) *Page[T] {
	size := len(data)
	pageNumber := int64(1)
	if size > 0 {
		pageNumber = skip/int64(size) + 1
	}
	return &Page[T]{
		Data:            data,
		Total:           total,
		CurrentPageSize: size,
		HasNextPage:     skip+int64(size) < total,
		HasPreviousPage: skip > 0,
		PageNumber:      pageNumber,
	}
}
