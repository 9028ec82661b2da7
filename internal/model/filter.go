package model

// Pagination defaults applied when the caller omits paging parameters.
// PageSize has no upper bound, whatever the caller asks for is passed through.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// Pagination is 1-based page slicing applied after filtering
type Pagination struct {
	Page     int
	PageSize int
}

// Normalized returns pagination with defaults applied for non-positive values
func (p Pagination) Normalized() Pagination {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	return p
}

// Offset is the number of records skipped before the requested page
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// CustomerFilter holds optional customer list filters, all applied conjunctively.
// Search is a case-sensitive substring match against first name, last name,
// email or company, Status is an exact match.
type CustomerFilter struct {
	Search string
	Status string
}

// ContactFilter holds optional contact list filters, exact match each
type ContactFilter struct {
	CustomerID int64
	Type       string
	Status     string
}

// OpportunityFilter holds optional opportunity list filters, exact match each
type OpportunityFilter struct {
	CustomerID int64
	Stage      string
	Status     string
	AssignedTo string
}
