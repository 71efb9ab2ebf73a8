// Package careers holds the job collection and the filtering applied to it.
package careers

import "net/url"

// All is the sentinel meaning "no constraint" for a select criterion.
const All = "all"

// Criteria are the listing filters chosen by the visitor.
type Criteria struct {
	Search         string `json:"search"`
	Department     string `json:"department"`
	EmploymentType string `json:"employment_type"`
	Location       string `json:"location"`
}

// Normalize maps empty select criteria to All.
func (c Criteria) Normalize() Criteria {
	if c.Department == "" {
		c.Department = All
	}
	if c.EmploymentType == "" {
		c.EmploymentType = All
	}
	if c.Location == "" {
		c.Location = All
	}
	return c
}

// HasActiveFilters reports whether any criterion constrains the listing.
func (c Criteria) HasActiveFilters() bool {
	c = c.Normalize()
	return c.Search != "" || c.Department != All || c.EmploymentType != All || c.Location != All
}

// Clear returns criteria with every filter reset.
func Clear() Criteria {
	return Criteria{}.Normalize()
}

// CriteriaFromQuery reads criteria from listing query parameters.
func CriteriaFromQuery(q url.Values) Criteria {
	return Criteria{
		Search:         q.Get("search"),
		Department:     q.Get("department"),
		EmploymentType: q.Get("employment_type"),
		Location:       q.Get("location"),
	}.Normalize()
}
