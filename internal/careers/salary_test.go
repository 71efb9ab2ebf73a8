package careers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/careers-portal/internal/types"
)

func TestGroupIndian(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{500000, "5,00,000"},
		{12345678, "1,23,45,678"},
		{1234.5, "1,234.5"},
		{1.23456, "1.235"},
		{-250000, "-2,50,000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GroupIndian(tt.in), "%v", tt.in)
	}
}

func TestFormatSalary(t *testing.T) {
	tests := []struct {
		description string
		min, max    float64
		frequency   string
		want        string
	}{
		{"annual figures are lakhs", 5, 8, types.FrequencyAnnually, "INR 5,00,000 - 8,00,000 per year"},
		{"monthly figures are thousands", 40, 60, types.FrequencyMonthly, "INR 40,000 - 60,000 per month"},
		{"other frequencies are literal", 500, 800, "HOURLY", "INR 500 - 800"},
		{"fractional lakhs", 4.5, 6, types.FrequencyAnnually, "INR 4,50,000 - 6,00,000 per year"},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatSalary(tt.min, tt.max, tt.frequency, "INR"))
		})
	}
}

func TestShareText(t *testing.T) {
	j := job(7, "Backend Engineer", "Engineering", "FULL_TIME", "Pune", "<p>Build APIs</p>")
	j.SalaryMin, j.SalaryMax, j.SalaryFrequency, j.SalaryCurrency = 5, 8, types.FrequencyAnnually, "INR"

	want := "Job Opportunity: Backend Engineer\n\n" +
		"Location: Pune\n" +
		"Salary: INR 5,00,000 - 8,00,000 per year\n\n" +
		"Description:\nBuild APIs\n\n" +
		"Apply here: https://careers.example.com/#job-7"
	assert.Equal(t, want, ShareText(j, "https://careers.example.com/"))
}
