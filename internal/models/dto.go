package models

// Pagination describes one page of a listing. Pages are 1-based.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalCount  int64 `json:"totalCount"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

// NewPagination derives page metadata from a total row count.
func NewPagination(page, limit int, totalCount int64) Pagination {
	if limit <= 0 {
		limit = 1
	}
	totalPages := int((totalCount + int64(limit) - 1) / int64(limit))
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  totalCount,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}
