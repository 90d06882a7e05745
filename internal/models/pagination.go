package models

// PageParams selects one page of a list endpoint
type PageParams struct {
	Page     int
	PageSize int
}

// Offset returns the number of rows before the page
func (p PageParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// Limit returns the page size
func (p PageParams) Limit() int {
	return p.PageSize
}
