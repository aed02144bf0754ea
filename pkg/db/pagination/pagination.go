package pagination

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

type Pagination struct {
	Page    int `form:"page" json:"page"`
	PerPage int `form:"per_page" json:"per_page"`
}

type PageInfo struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasMore    bool  `json:"has_more"`
}

// Normalize clamps page to >= 1 and per_page to [1, MaxPerPage].
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

func (p Pagination) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.PerPage
}

func (p Pagination) Limit() int {
	return p.Normalize().PerPage
}

func BuildPageInfo(p Pagination, total int64) PageInfo {
	n := p.Normalize()
	pages := 0
	if total > 0 {
		pages = int((total + int64(n.PerPage) - 1) / int64(n.PerPage))
	}
	return PageInfo{
		Page:       n.Page,
		PerPage:    n.PerPage,
		Total:      total,
		TotalPages: pages,
		HasMore:    n.Page < pages,
	}
}
