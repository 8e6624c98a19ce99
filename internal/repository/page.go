package repository

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Page carries normalized list pagination. Zero or out-of-range values are
// clamped by Normalize, so repos can trust the bounds.
type Page struct {
	Page     int
	PageSize int
}

// Normalize clamps the page number and size into the supported range.
func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
	return p
}

func (p Page) limitOffset() (int, int) {
	return p.PageSize, (p.Page - 1) * p.PageSize
}
