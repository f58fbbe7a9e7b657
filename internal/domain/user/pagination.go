package user

// Sort directions accepted by PageQuery.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// PageQuery describes one page of users to fetch from the store.
type PageQuery struct {
	Page    int    // Zero-based page index
	Size    int    // Number of records per page
	SortBy  string // Sort field name
	SortDir string // Sort direction: asc or desc
}

// Pagination represents pagination information for page responses.
type Pagination struct {
	Total      int64 // Total number of records
	Page       int   // Current page index (zero-based)
	Size       int   // Number of records per page
	TotalPages int64 // Total number of pages
}

// NewPagination creates a new Pagination instance with calculated total pages.
func NewPagination(total int64, page, size int) *Pagination {
	var totalPages int64
	if size > 0 {
		totalPages = (total + int64(size) - 1) / int64(size)
	}

	return &Pagination{
		Total:      total,
		Page:       page,
		Size:       size,
		TotalPages: totalPages,
	}
}
