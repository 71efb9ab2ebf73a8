// Package types provides type definitions for data exchanged with the talent-acquisition API.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Salary frequencies used by job requisitions.
const (
	FrequencyMonthly  = "MONTHLY"
	FrequencyAnnually = "ANNUALLY"
)

// FlexID is an identifier the API sends either as a number or as a string.
type FlexID string

// UnmarshalJSON accepts a JSON number, string or null.
func (f *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("flex id: %w", err)
	}
	*f = FlexID(n.String())
	return nil
}

// NamedRef is a {id, name} pair such as a skill or qualification.
type NamedRef struct {
	ID          int64  `json:"id"`
	Name        string `json:"name,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

// DepartmentDirectory is the denormalized department of a job.
type DepartmentDirectory struct {
	DepartmentName string `json:"department_name"`
	DisplayName    string `json:"display_name"`
}

// DesignationDirectory is the denormalized designation (title) of a job.
type DesignationDirectory struct {
	DesignationName string `json:"designation_name"`
	DisplayName     string `json:"display_name"`
}

// LocationDirectory is the denormalized location of a job.
type LocationDirectory struct {
	LocationName string `json:"location_name"`
	DisplayName  string `json:"display_name"`
}

// JobLevelDirectory is the denormalized job level.
type JobLevelDirectory struct {
	DisplayName string `json:"display_name"`
}

// EmployeeCategory is the employment category (FULL_TIME, CONTRACT, PART_TIME).
type EmployeeCategory struct {
	CategoryName string `json:"category_name"`
}

// JobCounts carries aggregate counters attached to a job.
type JobCounts struct {
	Applications int `json:"applications"`
}

// Job is a job requisition as returned by the API. It is treated as immutable once fetched.
type Job struct {
	ID                    int64                 `json:"id,omitempty"`
	CompanyFID            int64                 `json:"company_fid"`
	CompanyRegFID         int64                 `json:"company_reg_fid"`
	DepartmentFID         int64                 `json:"department_fid"`
	DesignationFID        int64                 `json:"designation_fid"`
	LocationFID           FlexID                `json:"location_fid"`
	JobDescription        string                `json:"job_description"`
	SalaryMin             float64               `json:"salary_min"`
	SalaryMax             float64               `json:"salary_max"`
	SalaryCurrency        string                `json:"salary_currency"`
	SalaryType            string                `json:"salary_type"`
	SalaryFrequency       string                `json:"salary_frequency"`
	Status                string                `json:"status"`
	NoOfVacancy           int                   `json:"no_of_vacancy"`
	JobLevelFID           int64                 `json:"job_level_fid"`
	KeyResultAreas        string                `json:"key_result_areas,omitempty"`
	RoleResp              string                `json:"role_resp,omitempty"`
	EmployeeCategoryFID   int64                 `json:"employee_category_fid"`
	SkillRequired         []NamedRef            `json:"skill_required,omitempty"`
	Qualification         []NamedRef            `json:"qualification,omitempty"`
	CertificationRequired []NamedRef            `json:"certification_required,omitempty"`
	IsActivated           bool                  `json:"is_activated"`
	CreatedDate           string                `json:"created_date"`
	DepartmentDirectory   *DepartmentDirectory  `json:"department_directory,omitempty"`
	DesignationDirectory  *DesignationDirectory `json:"designation_directory,omitempty"`
	LocationDirectory     *LocationDirectory    `json:"location_directory,omitempty"`
	JobLevelDirectory     *JobLevelDirectory    `json:"job_level_directory,omitempty"`
	EmployeeCategory      *EmployeeCategory     `json:"employee_category,omitempty"`
	Count                 *JobCounts            `json:"_count,omitempty"`
}

// Title returns the designation name, or "" when the directory is missing.
func (j Job) Title() string {
	if j.DesignationDirectory == nil {
		return ""
	}
	return j.DesignationDirectory.DesignationName
}

// Department returns the department name.
func (j Job) Department() string {
	if j.DepartmentDirectory == nil {
		return ""
	}
	return j.DepartmentDirectory.DepartmentName
}

// Location returns the location name.
func (j Job) Location() string {
	if j.LocationDirectory == nil {
		return ""
	}
	return j.LocationDirectory.LocationName
}

// EmploymentType returns the employment category name, e.g. FULL_TIME.
func (j Job) EmploymentType() string {
	if j.EmployeeCategory == nil {
		return ""
	}
	return j.EmployeeCategory.CategoryName
}

// EmploymentTypeLabel returns the employment type for display ("FULL_TIME" -> "FULL TIME").
func EmploymentTypeLabel(category string) string {
	return strings.ReplaceAll(category, "_", " ")
}

// CreatedAt parses CreatedDate. The zero time is returned if it cannot be parsed.
func (j Job) CreatedAt() time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, j.CreatedDate); err == nil {
			return t
		}
	}
	return time.Time{}
}

// JobListRequest is the body of the job-requisition listing call.
type JobListRequest struct {
	Search     string `json:"search"`
	SearchText string `json:"searchText"`
	FromDate   string `json:"fromDate"`
	ToDate     string `json:"toDate"`
	Skip       int    `json:"skip"`
	Limit      int    `json:"limit"`
}

// JobListResponse is the envelope returned by the job-requisition listing call.
type JobListResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message,omitempty"`
	Data    []Job  `json:"data"`
}
