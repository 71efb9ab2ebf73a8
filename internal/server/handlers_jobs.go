package server

import (
	"net/http"
	"strconv"

	"github.com/jonathan/careers-portal/internal/apply"
	"github.com/jonathan/careers-portal/internal/careers"
	"github.com/jonathan/careers-portal/internal/types"
)

// JobView is a job with its display fields.
type JobView struct {
	types.Job
	Title               string `json:"title"`
	DescriptionText     string `json:"description_text"`
	SalaryDisplay       string `json:"salary_display"`
	EmploymentTypeLabel string `json:"employment_type_label"`
	ShareText           string `json:"share_text"`
}

// JobListResponse is the filtered listing.
type JobListResponse struct {
	Jobs             []JobView        `json:"jobs"`
	Count            int              `json:"count"`
	Total            int              `json:"total"`
	Criteria         careers.Criteria `json:"criteria"`
	HasActiveFilters bool             `json:"has_active_filters"`
	Facets           careers.Facets   `json:"facets"`
	// Dialog is set when a pending application was restored by this request.
	Dialog *apply.View `json:"dialog,omitempty"`
}

func (s *Server) jobView(job types.Job) JobView {
	return JobView{
		Job:                 job,
		Title:               job.Title(),
		DescriptionText:     careers.PlainText(job.JobDescription),
		SalaryDisplay:       careers.FormatSalary(job.SalaryMin, job.SalaryMax, job.SalaryFrequency, job.SalaryCurrency),
		EmploymentTypeLabel: types.EmploymentTypeLabel(job.EmploymentType()),
		ShareText:           careers.ShareText(job, s.cfg.Server.PublicURL),
	}
}

// handleListJobs returns the filtered listing and restores a pending
// application when the restore signal is present.
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.catalog.EnsureLoaded(r.Context())

	q := r.URL.Query()
	signal := q.Get(apply.RestoreQueryParam) == apply.RestoreQueryParamSet
	dialog, err := s.gate.Restore(r.Context(), id, signal)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	criteria := careers.CriteriaFromQuery(q)
	filtered := s.catalog.Filtered(criteria)
	all, _ := s.catalog.Snapshot()

	views := make([]JobView, 0, len(filtered))
	for _, job := range filtered {
		views = append(views, s.jobView(job))
	}

	jsonResponse(w, http.StatusOK, JobListResponse{
		Jobs:             views,
		Count:            len(views),
		Total:            len(all),
		Criteria:         criteria,
		HasActiveFilters: criteria.HasActiveFilters(),
		Facets:           s.catalog.Facets(),
		Dialog:           dialog,
	})
}

// handleGetJob returns one job from the collection.
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.lookupJob(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, s.jobView(job))
}

// handleApply runs the apply gate for a job.
func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	job, err := s.lookupJob(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	outcome, err := s.gate.Apply(r.Context(), id, job)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, outcome)
}

func (s *Server) lookupJob(r *http.Request) (types.Job, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return types.Job{}, &ErrBadRequest{Message: "invalid job id: " + raw}
	}
	s.catalog.EnsureLoaded(r.Context())
	job, ok := s.catalog.Job(id)
	if !ok {
		return types.Job{}, &ErrJobNotFound{JobID: raw}
	}
	return job, nil
}
