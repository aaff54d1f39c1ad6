package shared

// Filter narrows a list query. A PageSize of zero disables paging.
type Filter struct {
	Search   string
	OrderBy  string
	OrderDir string
	Page     int
	PageSize int
}

// DefaultFilter is page one of twenty, newest first.
func DefaultFilter() Filter {
	return Filter{Page: 1, PageSize: 20, OrderBy: "created_at", OrderDir: "desc"}
}

// Offset is the number of rows before the current page.
func (f Filter) Offset() int {
	if f.Page <= 1 || f.PageSize <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}
