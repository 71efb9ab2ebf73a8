package careers

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jonathan/careers-portal/internal/types"
)

var frequencyUnits = map[string]struct {
	multiplier float64
	label      string
}{
	types.FrequencyMonthly:  {1_000, "per month"},
	types.FrequencyAnnually: {100_000, "per year"},
}

// FormatSalary renders a salary range such as "INR 5,00,000 - 8,00,000 per year".
// Monthly figures are stored in thousands and annual figures in lakhs.
func FormatSalary(lo, hi float64, frequency, currency string) string {
	multiplier, label := 1.0, ""
	if unit, ok := frequencyUnits[frequency]; ok {
		multiplier, label = unit.multiplier, unit.label
	}

	s := fmt.Sprintf("%s %s - %s %s", currency, GroupIndian(lo*multiplier), GroupIndian(hi*multiplier), label)
	return strings.TrimSpace(s)
}

// GroupIndian formats v with lakh/crore digit grouping (12,34,567.5).
// At most three fraction digits are kept.
func GroupIndian(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
	}
	v = math.Round(math.Abs(v)*1000) / 1000
	if v == 0 {
		sign = ""
	}

	intPart, frac, _ := strings.Cut(strconv.FormatFloat(v, 'f', -1, 64), ".")
	out := sign + groupDigits(intPart)
	if frac != "" {
		out += "." + frac
	}
	return out
}

func groupDigits(s string) string {
	if len(s) <= 3 {
		return s
	}
	head, tail := s[:len(s)-3], s[len(s)-3:]
	parts := []string{tail}
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	return strings.Join(append([]string{head}, parts...), ",")
}

// ShareText builds the plain-text summary used when sharing a job.
func ShareText(job types.Job, publicURL string) string {
	salary := FormatSalary(job.SalaryMin, job.SalaryMax, job.SalaryFrequency, job.SalaryCurrency)
	return fmt.Sprintf("Job Opportunity: %s\n\nLocation: %s\nSalary: %s\n\nDescription:\n%s\n\nApply here: %s/#job-%d",
		job.Title(),
		job.Location(),
		salary,
		PlainText(job.JobDescription),
		strings.TrimSuffix(publicURL, "/"),
		job.ID,
	)
}
