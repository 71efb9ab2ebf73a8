package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jonathan/careers-portal/internal/careers"
	"github.com/jonathan/careers-portal/internal/config"
	"github.com/jonathan/careers-portal/internal/logging"
	"github.com/jonathan/careers-portal/internal/observability"
	"github.com/jonathan/careers-portal/internal/types"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List and filter open jobs",
	Long:  "Fetch the job collection from the talent-acquisition API and print the jobs matching the given filters.",
	RunE:  runJobs,
}

var (
	jobsSearch         string
	jobsDepartment     string
	jobsEmploymentType string
	jobsLocation       string
	jobsShareID        int64
	jobsShowID         int64
	jobsFacets         bool
	jobsJSON           bool
)

func init() {
	jobsCmd.Flags().StringVar(&jobsSearch, "search", "", "Match title or description (case-insensitive)")
	jobsCmd.Flags().StringVar(&jobsDepartment, "department", careers.All, "Department name")
	jobsCmd.Flags().StringVar(&jobsEmploymentType, "employment-type", careers.All, "Employment category, e.g. FULL_TIME")
	jobsCmd.Flags().StringVar(&jobsLocation, "location", careers.All, "Location name")
	jobsCmd.Flags().Int64Var(&jobsShareID, "share", 0, "Print the share text of the job with this id")
	jobsCmd.Flags().Int64Var(&jobsShowID, "show", 0, "Print the details of the job with this id")
	jobsCmd.Flags().BoolVar(&jobsFacets, "facets", false, "Print the available filter values")
	jobsCmd.Flags().BoolVar(&jobsJSON, "json", false, "Print jobs as JSON")

	rootCmd.AddCommand(jobsCmd)
}

func runJobs(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadClient(configPath)
	if err != nil {
		return err
	}

	log := logging.NewNop()
	client, err := newAPIClient(cfg, log)
	if err != nil {
		return err
	}

	catalog := careers.NewCatalog(client, cfg.Catalog.PageSize, log)
	if err := catalog.Refresh(cmd.Context()); err != nil {
		return fmt.Errorf("failed to fetch jobs: %w", err)
	}

	out := cmd.OutOrStdout()
	switch {
	case jobsShareID != 0:
		job, ok := catalog.Job(jobsShareID)
		if !ok {
			return fmt.Errorf("job %d not found", jobsShareID)
		}
		_, err := fmt.Fprintln(out, careers.ShareText(job, cfg.Server.PublicURL))
		return err
	case jobsShowID != 0:
		job, ok := catalog.Job(jobsShowID)
		if !ok {
			return fmt.Errorf("job %d not found", jobsShowID)
		}
		observability.NewPrinter(out).PrintJob(&job)
		return nil
	case jobsFacets:
		observability.NewPrinter(out).PrintFacets(catalog.Facets())
		return nil
	}

	criteria := careers.Criteria{
		Search:         jobsSearch,
		Department:     jobsDepartment,
		EmploymentType: jobsEmploymentType,
		Location:       jobsLocation,
	}
	jobs := catalog.Filtered(criteria)

	if jobsJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(jobs)
	}
	return printJobs(out, jobs)
}

func printJobs(out io.Writer, jobs []types.Job) error {
	if len(jobs) == 0 {
		_, err := fmt.Fprintln(out, "No jobs match the filters.")
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tDEPARTMENT\tTYPE\tLOCATION\tSALARY")
	for _, job := range jobs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			job.ID,
			job.Title(),
			job.Department(),
			types.EmploymentTypeLabel(job.EmploymentType()),
			job.Location(),
			careers.FormatSalary(job.SalaryMin, job.SalaryMax, job.SalaryFrequency, job.SalaryCurrency),
		)
	}
	return tw.Flush()
}
