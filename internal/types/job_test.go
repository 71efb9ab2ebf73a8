package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJob = `{
	"id": 42,
	"company_fid": 1,
	"company_reg_fid": 3,
	"department_fid": 7,
	"location_fid": "12",
	"job_description": "Build APIs",
	"salary_min": 5,
	"salary_max": 8,
	"salary_currency": "INR",
	"salary_frequency": "ANNUALLY",
	"created_date": "2025-03-04T10:00:00.000Z",
	"department_directory": {"department_name": "Engineering"},
	"designation_directory": {"designation_name": "Backend Engineer"},
	"location_directory": {"location_name": "Pune"},
	"employee_category": {"category_name": "FULL_TIME"},
	"_count": {"applications": 4}
}`

func TestJob_Unmarshal(t *testing.T) {
	var job Job
	require.NoError(t, json.Unmarshal([]byte(sampleJob), &job))

	assert.Equal(t, int64(42), job.ID)
	assert.Equal(t, FlexID("12"), job.LocationFID)
	assert.Equal(t, "Backend Engineer", job.Title())
	assert.Equal(t, "Engineering", job.Department())
	assert.Equal(t, "Pune", job.Location())
	assert.Equal(t, "FULL_TIME", job.EmploymentType())
	assert.Equal(t, 4, job.Count.Applications)
	assert.True(t, time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC).Equal(job.CreatedAt()))
}

func TestFlexID_Unmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want FlexID
	}{
		{`12`, "12"},
		{`"remote"`, "remote"},
		{`null`, ""},
	}
	for _, tt := range tests {
		var f FlexID
		require.NoError(t, json.Unmarshal([]byte(tt.in), &f), tt.in)
		assert.Equal(t, tt.want, f)
	}

	var f FlexID
	assert.Error(t, json.Unmarshal([]byte(`{}`), &f))
}

func TestJob_AccessorsWithoutDirectories(t *testing.T) {
	var job Job
	assert.Empty(t, job.Title())
	assert.Empty(t, job.Department())
	assert.Empty(t, job.Location())
	assert.Empty(t, job.EmploymentType())
	assert.True(t, job.CreatedAt().IsZero())
}

func TestEmploymentTypeLabel(t *testing.T) {
	assert.Equal(t, "FULL TIME", EmploymentTypeLabel("FULL_TIME"))
	assert.Equal(t, "CONTRACT", EmploymentTypeLabel("CONTRACT"))
}

func TestNewApplicationRequest_Fields(t *testing.T) {
	var job Job
	require.NoError(t, json.Unmarshal([]byte(sampleJob), &job))
	candidate := int64(9)

	req := NewApplicationRequest(validApplicationForm(), job, &candidate)
	fields := map[string]string{}
	for _, kv := range req.Fields() {
		fields[kv[0]] = kv[1]
	}

	assert.Equal(t, "42", fields["job_requisition_fid"])
	assert.Equal(t, "1", fields["company_fid"])
	assert.Equal(t, "3", fields["company_reg_fid"])
	assert.Equal(t, "7", fields["department_fid"])
	assert.Equal(t, "9", fields["candidate_fid"])
	assert.Equal(t, "Asha Rao", fields["full_name"])

	anonymous := NewApplicationRequest(validApplicationForm(), job, nil)
	for _, kv := range anonymous.Fields() {
		assert.NotEqual(t, "candidate_fid", kv[0])
	}
}
