package types

import "strconv"

// Upload is a file attached to a form.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Size returns the file size in bytes.
func (u *Upload) Size() int64 {
	if u == nil {
		return 0
	}
	return int64(len(u.Data))
}

// ApplicationForm is what the candidate fills in to apply for a job.
type ApplicationForm struct {
	FullName           string  `json:"full_name" validate:"required"`
	Email              string  `json:"email" validate:"required,email"`
	Phone              string  `json:"phone" validate:"min=10,max=15,phone"`
	LinkedInProfileURL string  `json:"linkedin_profile_url" validate:"required,url,linkedin"`
	Description        string  `json:"description" validate:"required"`
	Image              *Upload `json:"-"`
}

// ApplicationRequest binds an application form to its target job.
type ApplicationRequest struct {
	Form              ApplicationForm
	JobRequisitionFID int64
	CandidateFID      *int64
	CompanyFID        int64
	CompanyRegFID     int64
	DepartmentFID     int64
}

// NewApplicationRequest binds form to job and, when known, the candidate.
func NewApplicationRequest(form ApplicationForm, job Job, candidateID *int64) ApplicationRequest {
	return ApplicationRequest{
		Form:              form,
		JobRequisitionFID: job.ID,
		CandidateFID:      candidateID,
		CompanyFID:        job.CompanyFID,
		CompanyRegFID:     job.CompanyRegFID,
		DepartmentFID:     job.DepartmentFID,
	}
}

// Fields returns the multipart text fields of the request.
func (r ApplicationRequest) Fields() [][2]string {
	fields := [][2]string{
		{"full_name", r.Form.FullName},
		{"email", r.Form.Email},
		{"phone", r.Form.Phone},
		{"linkedin_profile_url", r.Form.LinkedInProfileURL},
		{"description", r.Form.Description},
		{"job_requisition_fid", strconv.FormatInt(r.JobRequisitionFID, 10)},
		{"company_fid", strconv.FormatInt(r.CompanyFID, 10)},
		{"company_reg_fid", strconv.FormatInt(r.CompanyRegFID, 10)},
		{"department_fid", strconv.FormatInt(r.DepartmentFID, 10)},
	}
	if r.CandidateFID != nil {
		fields = append(fields, [2]string{"candidate_fid", strconv.FormatInt(*r.CandidateFID, 10)})
	}
	return fields
}
