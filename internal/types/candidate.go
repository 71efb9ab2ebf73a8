package types

import (
	"encoding/json"
	"strings"
)

// RegisterRequest represents a candidate registration.
type RegisterRequest struct {
	CompanyFID    int64  `json:"company_fid"`
	CompanyRegFID int64  `json:"company_reg_fid"`
	DepartmentFID int64  `json:"department_fid"`
	FullName      string `json:"full_name" validate:"min=2"`
	LoginEmail    string `json:"login_email" validate:"required,email"`
	LoginPassword string `json:"login_password" validate:"min=6"`
	Phone         string `json:"phone" validate:"min=10"`
}

// LoginRequest represents a candidate login.
type LoginRequest struct {
	LoginEmail    string `json:"login_email" validate:"required,email"`
	LoginPassword string `json:"login_password" validate:"required"`
}

// StatusResponse is the common {status, message, error} envelope.
type StatusResponse struct {
	Status  *bool           `json:"status,omitempty"`
	Message string          `json:"message,omitempty"`
	Error   json.RawMessage `json:"error,omitempty"`
}

// Failed reports whether the server explicitly flagged the call as failed.
func (r StatusResponse) Failed() bool {
	return r.Status != nil && !*r.Status
}

// ErrorText returns the error field when the server sent it as a string.
func (r StatusResponse) ErrorText() string {
	var s string
	if len(r.Error) > 0 && json.Unmarshal(r.Error, &s) == nil {
		return s
	}
	return ""
}

// LoginResponse is returned by a successful or failed login.
type LoginResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Token   string          `json:"token"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Profile is the candidate profile held by the API.
type Profile struct {
	ID                 int64  `json:"id"`
	CompanyFID         int64  `json:"company_fid,omitempty"`
	CompanyRegFID      int64  `json:"company_reg_fid,omitempty"`
	DepartmentFID      int64  `json:"department_fid,omitempty"`
	FullName           string `json:"full_name"`
	LoginEmail         string `json:"login_email"`
	Phone              string `json:"phone"`
	ProfileSummary     string `json:"profile_summary"`
	ProfileImgURL      string `json:"profile_img_url"`
	Location           string `json:"location"`
	Country            string `json:"country"`
	State              string `json:"state"`
	City               string `json:"city"`
	Pincode            string `json:"pincode"`
	ResumeFileURL      string `json:"resume_file_url"`
	LinkedInProfileURL string `json:"linkedin_profile_url"`
	IsVerified         bool   `json:"is_verified"`
	IsActivated        bool   `json:"is_activated"`
	CreatedDate        string `json:"created_date,omitempty"`
	UpdatedDate        string `json:"updated_date,omitempty"`
}

// ProfileResponse wraps a profile in the API envelope.
type ProfileResponse struct {
	Status *bool   `json:"status,omitempty"`
	Data   Profile `json:"data"`
}

// Clean replaces the literal string "null" the API stores for unset fields.
func (p Profile) Clean() Profile {
	for _, f := range []*string{
		&p.FullName, &p.LoginEmail, &p.Phone, &p.ProfileSummary, &p.ProfileImgURL,
		&p.Location, &p.Country, &p.State, &p.City, &p.Pincode,
		&p.ResumeFileURL, &p.LinkedInProfileURL,
	} {
		if *f == "null" {
			*f = ""
		}
	}
	return p
}

// ResolveAssetURL turns a stored asset path into an absolute URL.
func ResolveAssetURL(base, path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http") {
		return path
	}
	return base + path
}

// ProfileUpdate is the candidate profile edit form.
type ProfileUpdate struct {
	FullName           string  `json:"full_name" validate:"min=2"`
	LoginEmail         string  `json:"login_email" validate:"required,email"`
	LoginPassword      string  `json:"login_password,omitempty"`
	Phone              string  `json:"phone" validate:"min=10"`
	ProfileSummary     string  `json:"profile_summary,omitempty"`
	Country            string  `json:"country,omitempty"`
	State              string  `json:"state,omitempty"`
	City               string  `json:"city,omitempty"`
	Pincode            string  `json:"pincode,omitempty"`
	Location           string  `json:"location,omitempty"`
	LinkedInProfileURL string  `json:"linkedin_profile_url,omitempty" validate:"omitempty,url"`
	ProfileImage       *Upload `json:"-"`
	Resume             *Upload `json:"-"`
}

// Fields returns the non-empty text fields in form order.
func (u ProfileUpdate) Fields() [][2]string {
	all := [][2]string{
		{"full_name", u.FullName},
		{"login_email", u.LoginEmail},
		{"login_password", u.LoginPassword},
		{"phone", u.Phone},
		{"profile_summary", u.ProfileSummary},
		{"country", u.Country},
		{"state", u.State},
		{"city", u.City},
		{"pincode", u.Pincode},
		{"location", u.Location},
		{"linkedin_profile_url", u.LinkedInProfileURL},
	}
	out := make([][2]string, 0, len(all))
	for _, kv := range all {
		if kv[1] != "" {
			out = append(out, kv)
		}
	}
	return out
}
