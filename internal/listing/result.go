package listing

// Page is one window of a queried collection, as returned by a DataSource.
// The JSON shape matches the REST list response.
type Page[T any] struct {
	Items      []T `json:"results"`
	TotalCount int `json:"count"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// ResultState is what a view renders: the visible page plus bookkeeping.
type ResultState[T any] struct {
	Items       []T    `json:"items"`
	TotalCount  int    `json:"total_count"`
	CurrentPage int    `json:"current_page"`
	PageSize    int    `json:"page_size"`
	TotalPages  int    `json:"total_pages"`
	Loading     bool   `json:"loading"`
	Error       string `json:"error,omitempty"`
}

// TotalPages returns ceil(total/size), never less than 1.
func TotalPages(total, size int) int {
	if size < 1 {
		size = DefaultPageSize
	}
	pages := (total + size - 1) / size
	if pages < 1 {
		return 1
	}
	return pages
}

// ClampPage moves page into [1, totalPages].
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}

func (r ResultState[T]) clone() ResultState[T] {
	out := r
	if r.Items != nil {
		out.Items = make([]T, len(r.Items))
		copy(out.Items, r.Items)
	}
	return out
}
