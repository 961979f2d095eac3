package pagination

const (
	// DefaultPageSize is the standard window when a size is not provided.
	DefaultPageSize = 25
	// MaxPageSize caps how many rows any search can request.
	MaxPageSize = 100
)

// Params holds page-window inputs from controllers or services.
type Params struct {
	Page     int
	PageSize int
}

// Pagination describes the window returned alongside search results.
type Pagination struct {
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
	Total    int64 `json:"total"`
}

// Normalize clamps the page and page size to sane bounds.
func Normalize(p Params) Params {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset converts the normalized window into a row offset.
func (p Params) Offset() int {
	n := Normalize(p)
	return (n.Page - 1) * n.PageSize
}

// Window builds the response pagination block for a search result.
func Window(p Params, total int64) Pagination {
	n := Normalize(p)
	return Pagination{Page: n.Page, PageSize: n.PageSize, Total: total}
}
