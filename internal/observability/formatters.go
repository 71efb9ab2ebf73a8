// Package observability provides formatted terminal output for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/careers-portal/internal/careers"
	"github.com/jonathan/careers-portal/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// descriptionLines caps the description excerpt
	descriptionLines = 6
)

// Printer handles formatted output for the jobs command
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(line, boxWidth-4)))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintJob outputs the details of one job.
func (p *Printer) PrintJob(job *types.Job) {
	if job == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Title:       %s\n", job.Title())
	fmt.Fprintf(&sb, "Department:  %s\n", job.Department())
	fmt.Fprintf(&sb, "Location:    %s\n", job.Location())
	fmt.Fprintf(&sb, "Type:        %s\n", types.EmploymentTypeLabel(job.EmploymentType()))
	fmt.Fprintf(&sb, "Salary:      %s\n", careers.FormatSalary(job.SalaryMin, job.SalaryMax, job.SalaryFrequency, job.SalaryCurrency))
	if job.NoOfVacancy > 0 {
		fmt.Fprintf(&sb, "Vacancies:   %d\n", job.NoOfVacancy)
	}

	writeRefs(&sb, "Skills", job.SkillRequired)
	writeRefs(&sb, "Qualifications", job.Qualification)

	if text := careers.PlainText(job.JobDescription); text != "" {
		sb.WriteString("\nDescription:\n")
		lines := wrap(text, boxWidth-6)
		for i, line := range lines {
			if i == descriptionLines {
				sb.WriteString("  ...\n")
				break
			}
			fmt.Fprintf(&sb, "  %s\n", line)
		}
	}

	p.printBox(fmt.Sprintf("JOB #%d", job.ID), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFacets outputs the values available to each listing filter.
func (p *Printer) PrintFacets(facets careers.Facets) {
	var sb strings.Builder
	writeValues(&sb, "Departments", facets.Departments)
	writeValues(&sb, "Employment types", facets.EmploymentTypes)
	writeValues(&sb, "Locations", facets.Locations)
	p.printBox("FILTERS", strings.TrimSuffix(sb.String(), "\n"))
}

func writeRefs(sb *strings.Builder, heading string, refs []types.NamedRef) {
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		name := ref.DisplayName
		if name == "" {
			name = ref.Name
		}
		if name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return
	}
	sb.WriteString("\n")
	writeValues(sb, heading, names)
}

func writeValues(sb *strings.Builder, heading string, values []string) {
	fmt.Fprintf(sb, "%s:\n", heading)
	if len(values) == 0 {
		sb.WriteString("  (none)\n")
		return
	}
	count := min(len(values), maxItemsToShow)
	for i := 0; i < count; i++ {
		fmt.Fprintf(sb, "  • %s\n", values[i])
	}
	if len(values) > maxItemsToShow {
		fmt.Fprintf(sb, "  ... and %d more\n", len(values)-maxItemsToShow)
	}
}

// wrap splits text into lines of at most width runes on word boundaries.
func wrap(text string, width int) []string {
	var lines []string
	var line []rune
	for _, word := range strings.Fields(text) {
		w := []rune(word)
		if len(line) > 0 && len(line)+1+len(w) > width {
			lines = append(lines, string(line))
			line = line[:0]
		}
		if len(line) > 0 {
			line = append(line, ' ')
		}
		line = append(line, w...)
	}
	if len(line) > 0 {
		lines = append(lines, string(line))
	}
	return lines
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

func pad(s string) string {
	n := len([]rune(s))
	if n >= boxWidth-4 {
		return s
	}
	return s + strings.Repeat(" ", boxWidth-4-n)
}
