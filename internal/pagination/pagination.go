package pagination

import "math"

// PageRequest holds pagination parameters parsed from query strings.
type PageRequest struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// Clamp fills in defaults and clamps non-positive values to the documented
// minimums (page >= 1, limit >= 1). Defaults are page 1, limit 10.
func (p *PageRequest) Clamp() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}
}

// Offset returns the number of items to skip for the current page.
func (p *PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Meta describes a page of results.
type Meta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// NewMeta builds pagination metadata for the given request and total count.
// Pages is ceil(total/limit).
func NewMeta(req PageRequest, total int64) Meta {
	return Meta{
		Page:  req.Page,
		Limit: req.Limit,
		Total: total,
		Pages: int(math.Ceil(float64(total) / float64(req.Limit))),
	}
}
