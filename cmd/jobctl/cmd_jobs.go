package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"coreapi/internal/domain"
	"coreapi/internal/domain/dto"
	"coreapi/pkg/client"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// jobFilterFlags backs the filter flags shared by list and stats.
type jobFilterFlags struct {
	status, city, company, search, sort string
	desc                                bool
}

func (f *jobFilterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.status, "status", "", "Filter by status (Applied, Interview, Offer, Rejected)")
	cmd.Flags().StringVar(&f.city, "city", "", "Filter by city")
	cmd.Flags().StringVar(&f.company, "company", "", "Filter by company")
	cmd.Flags().StringVar(&f.search, "search", "", "Search company, role, city and notes")
	cmd.Flags().StringVar(&f.sort, "sort", "", "Sort by company, role, status, city or appliedDate")
	cmd.Flags().BoolVar(&f.desc, "desc", false, "Sort descending")
}

func (f *jobFilterFlags) query() dto.JobListQuery {
	q := dto.JobListQuery{Status: f.status, City: f.city, Company: f.company, Search: f.search, Sort: f.sort}
	if f.desc {
		q.Order = "desc"
	} else if f.sort != "" {
		q.Order = "asc"
	}
	return q
}

// jobFields backs the editable fields of add and update.
type jobFields struct {
	company, role, status, city, notes, applied string
}

func (f *jobFields) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.company, "company", "", "Company name")
	cmd.Flags().StringVar(&f.role, "role", "", "Role applied for")
	cmd.Flags().StringVar(&f.status, "status", string(domain.JobStatusApplied), "Application status")
	cmd.Flags().StringVar(&f.city, "city", "", "City")
	cmd.Flags().StringVar(&f.notes, "notes", "", "Free-form notes")
	cmd.Flags().StringVar(&f.applied, "applied", "", "Applied date (YYYY-MM-DD, default today)")
}

// apply copies the flags the user set onto req. When all is true every
// flag is applied, including defaults.
func (f *jobFields) apply(cmd *cobra.Command, req *dto.JobApplicationRequest, all bool) error {
	set := func(name string) bool { return all || cmd.Flags().Changed(name) }
	if set("company") {
		req.Company = f.company
	}
	if set("role") {
		req.Role = f.role
	}
	if set("status") {
		req.Status = f.status
	}
	if set("city") {
		req.City = f.city
	}
	if set("notes") {
		req.Notes = f.notes
	}
	if set("applied") && f.applied != "" {
		t, err := dto.ParseDate(f.applied)
		if err != nil {
			return err
		}
		req.AppliedDate = dto.NewDate(t)
	}
	return nil
}

var (
	listFilters  jobFilterFlags
	statsFilters jobFilterFlags
	addFields    jobFields
	updateFields jobFields
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Manage job applications",
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List job applications",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(timeout)
		defer cancel()

		jobs, err := api.FetchJobApplications(ctx, listFilters.query())
		if err != nil {
			return err
		}
		printJobs(cmd.OutOrStdout(), jobs)
		return nil
	},
}

var jobsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a new job application",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(timeout)
		defer cancel()

		var req dto.JobApplicationRequest
		if err := addFields.apply(cmd, &req, true); err != nil {
			return err
		}
		job, err := api.CreateJobApplication(ctx, req)
		if err != nil {
			return withDetails(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s at %s)\n", job.ID, job.Role, job.Company)
		return nil
	},
}

var jobsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change fields of a job application",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid id %q", args[0])
		}
		ctx, cancel := commandContext(timeout)
		defer cancel()

		// PUT replaces the record, so start from the current values
		job, err := api.GetJobApplication(ctx, id)
		if err != nil {
			return err
		}
		req := dto.JobApplicationRequest{
			Company:     job.Company,
			Role:        job.Role,
			Status:      string(job.Status),
			AppliedDate: dto.NewDate(job.AppliedDate),
			City:        job.City,
			Notes:       job.Notes,
		}
		if err := updateFields.apply(cmd, &req, false); err != nil {
			return err
		}
		if err := api.UpdateJobApplication(ctx, id, req); err != nil {
			return withDetails(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", id)
		return nil
	},
}

var jobsRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a job application",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid id %q", args[0])
		}
		ctx, cancel := commandContext(timeout)
		defer cancel()

		if err := api.DeleteJobApplication(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
		return nil
	},
}

var jobsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show statistics for the filtered applications",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(timeout)
		defer cancel()

		result, err := api.FetchJobAnalytics(ctx, statsFilters.query())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		s := result.Stats
		fmt.Fprintf(out, "Applications:   %d\n", s.TotalFiltered)
		fmt.Fprintf(out, "Success rate:   %.1f%%\n", s.SuccessRate)
		fmt.Fprintf(out, "Rejection rate: %.1f%%\n", s.RejectionRate)
		fmt.Fprintf(out, "Avg days since: %d\n", s.AverageDaysApplied)
		for _, status := range domain.JobStatuses() {
			fmt.Fprintf(out, "  %-10s %d\n", status, s.ByStatus[status])
		}
		return nil
	},
}

var timelineCmd = &cobra.Command{
	Use:   "timeline <jobId>",
	Short: "Show the milestones and stage progress of one application",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jobID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid id %q", args[0])
		}
		ctx, cancel := commandContext(timeout)
		defer cancel()

		progress, err := api.FetchProgress(ctx, jobID)
		if err != nil {
			return err
		}
		milestones, err := api.FetchMilestones(ctx, jobID)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s at %s: %s (%.0f%%)\n\n", progress.Role, progress.Company, progress.CurrentStage, progress.OverallProgress)
		printMilestones(out, milestones)
		return nil
	},
}

func init() {
	listFilters.register(jobsListCmd)
	statsFilters.register(jobsStatsCmd)
	addFields.register(jobsAddCmd)
	updateFields.register(jobsUpdateCmd)
	_ = jobsAddCmd.MarkFlagRequired("company")
	_ = jobsAddCmd.MarkFlagRequired("role")

	jobsCmd.AddCommand(jobsListCmd, jobsAddCmd, jobsUpdateCmd, jobsRmCmd, jobsStatsCmd)
}

func printJobs(w io.Writer, jobs []*domain.JobApplication) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCOMPANY\tROLE\tSTATUS\tCITY\tAPPLIED")
	for _, j := range jobs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			j.ID, j.Company, j.Role, j.Status, j.City, j.AppliedDate.Format("2006-01-02"))
	}
	_ = tw.Flush()
}

func printMilestones(w io.Writer, milestones []*domain.TimelineMilestone) {
	if len(milestones) == 0 {
		fmt.Fprintln(w, "No milestones yet")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tTYPE\tTITLE\tDONE")
	for _, m := range milestones {
		done := ""
		if m.IsCompleted {
			done = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.Date.Format("2006-01-02"), m.Type, m.Title, done)
	}
	_ = tw.Flush()
}

// withDetails appends per-field validation messages to an API error.
func withDetails(err error) error {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) || len(apiErr.Fields) == 0 {
		return err
	}
	msgs := apiErr.Fields.Messages()
	fields := make([]string, 0, len(msgs))
	for f := range msgs {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	msg := apiErr.Message
	for _, f := range fields {
		msg += "\n  " + msgs[f]
	}
	return errors.New(msg)
}
