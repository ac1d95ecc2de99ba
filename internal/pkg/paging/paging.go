package paging

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Page is a 1-based page request.
type Page struct {
	Page    int `form:"page,default=1" json:"page" binding:"min=1" example:"1"`
	PerPage int `form:"per_page,default=20" json:"per_page" binding:"min=1,max=100" example:"20"`
}

// Normalize clamps out-of-range values instead of rejecting them.
func (p Page) Normalize() Page {
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

func (p Page) Offset() int { return (p.Page - 1) * p.PerPage }
func (p Page) Limit() int  { return p.PerPage }

type Meta struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

func NewMeta(p Page, total int64) Meta {
	pages := 0
	if p.PerPage > 0 {
		pages = int((total + int64(p.PerPage) - 1) / int64(p.PerPage))
	}
	return Meta{Page: p.Page, PerPage: p.PerPage, Total: total, TotalPages: pages}
}
