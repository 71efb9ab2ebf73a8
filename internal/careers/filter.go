package careers

import (
	"strings"

	"github.com/jonathan/careers-portal/internal/types"
)

// Filter returns the jobs matching every active criterion, in input order.
// The input slice and its jobs are not modified.
func Filter(jobs []types.Job, c Criteria) []types.Job {
	c = c.Normalize()
	search := strings.ToLower(c.Search)

	out := make([]types.Job, 0, len(jobs))
	for _, job := range jobs {
		if Matches(job, c, search) {
			out = append(out, job)
		}
	}
	return out
}

// Matches reports whether job satisfies c. search must be the lowercased c.Search.
func Matches(job types.Job, c Criteria, search string) bool {
	if search != "" &&
		!strings.Contains(strings.ToLower(job.Title()), search) &&
		!strings.Contains(strings.ToLower(PlainText(job.JobDescription)), search) {
		return false
	}
	if c.Department != All && job.Department() != c.Department {
		return false
	}
	if c.EmploymentType != All && job.EmploymentType() != c.EmploymentType {
		return false
	}
	if c.Location != All && job.Location() != c.Location {
		return false
	}
	return true
}
