package careers

import "github.com/jonathan/careers-portal/internal/types"

// Facets are the distinct values offered by the listing filters.
type Facets struct {
	Departments     []string `json:"departments"`
	EmploymentTypes []string `json:"employment_types"`
	Locations       []string `json:"locations"`
}

// FacetsOf collects distinct non-empty values in first-seen order.
func FacetsOf(jobs []types.Job) Facets {
	departments, employmentTypes, locations := newDistinct(), newDistinct(), newDistinct()
	for _, job := range jobs {
		departments.add(job.Department())
		employmentTypes.add(job.EmploymentType())
		locations.add(job.Location())
	}
	return Facets{
		Departments:     departments.values,
		EmploymentTypes: employmentTypes.values,
		Locations:       locations.values,
	}
}

type distinct struct {
	seen   map[string]struct{}
	values []string
}

func newDistinct() *distinct {
	return &distinct{seen: map[string]struct{}{}, values: []string{}}
}

func (d *distinct) add(v string) {
	if v == "" {
		return
	}
	if _, ok := d.seen[v]; ok {
		return
	}
	d.seen[v] = struct{}{}
	d.values = append(d.values, v)
}
