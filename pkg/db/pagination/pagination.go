package pagination

// Pagination is the offset-style page request bound from query strings.
type Pagination struct {
	Page     int `form:"page"`
	PageSize int `form:"pageSize"`
}

type PageInfo struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalItems int64 `json:"totalItems"`
	TotalPages int   `json:"totalPages"`
	HasMore    bool  `json:"hasMore"`
}

// Normalize clamps the request: page below 1 becomes 1, a missing size takes
// defaultSize and sizes above maxSize are capped.
func (p Pagination) Normalize(defaultSize, maxSize int) Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultSize
	}
	if maxSize > 0 && p.PageSize > maxSize {
		p.PageSize = maxSize
	}
	return p
}

func (p Pagination) Offset() int {
	if p.Page < 1 || p.PageSize < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

func (p Pagination) Limit() int {
	return p.PageSize
}

func BuildPageInfo(p Pagination, total int64) PageInfo {
	info := PageInfo{
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalItems: total,
	}
	if p.PageSize > 0 {
		info.TotalPages = int((total + int64(p.PageSize) - 1) / int64(p.PageSize))
	}
	info.HasMore = info.Page < info.TotalPages
	return info
}
