package pagination

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageRequest is a classic page/size request for listings where a total
// count is cheap. Transaction history uses cursor tokens instead; see
// cursor.go.
type PageRequest struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// NewPageRequest clamps the raw query values into a usable request.
func NewPageRequest(page, pageSize int) *PageRequest {
	if page < DefaultPage {
		page = DefaultPage
	}
	switch {
	case pageSize <= 0:
		pageSize = DefaultPageSize
	case pageSize > MaxPageSize:
		pageSize = MaxPageSize
	}
	return &PageRequest{Page: page, PageSize: pageSize}
}

func (p *PageRequest) GetOffset() int {
	return (p.Page - 1) * p.PageSize
}

func (p *PageRequest) GetLimit() int {
	return p.PageSize
}

// PageResult wraps one page of data together with the count metadata the
// client needs to render a pager.
type PageResult struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

// NewPageResult assembles a PageResult for the given request.
func NewPageResult(data interface{}, total int64, req *PageRequest) *PageResult {
	totalPages := 0
	if total > 0 && req.PageSize > 0 {
		totalPages = int((total + int64(req.PageSize) - 1) / int64(req.PageSize))
	}
	return &PageResult{
		Data:       data,
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: totalPages,
	}
}
