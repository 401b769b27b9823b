package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/techtrack/techtrack/pkg/studyplan"
)

var ErrInvalidPlan = errors.New("study plan is invalid")

func newPlanCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Work with study plans",
	}
	cmd.AddCommand(newPlanCheckCmd(s))
	return cmd
}

func newPlanCheckCmd(s *session) *cobra.Command {
	var start, end string
	var hours int
	var milestones []string

	cmd := &cobra.Command{
		Use:     "check",
		Short:   "Validate a study plan against today's date",
		Example: "  techtrack plan check --start 2024-03-11 --end 2024-04-11 --hours 10 --milestone 2024-03-20:Basics",
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := buildPlan(start, end, hours, milestones)
			if err != nil {
				return err
			}
			app, err := s.get()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			errs := app.Technologies.ValidateStudyPlan(plan)
			failed := errs.Failed()
			keys := make([]string, 0, len(failed))
			for key := range failed {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			for _, key := range keys {
				fmt.Fprintf(out, "%s: %s\n", key, failed[key])
			}

			planStats := studyplan.ComputeStats(plan.StartDate, plan.EndDate, plan.HoursPerWeek)
			fmt.Fprintf(out, "days: %d, weeks: %d, hours: %d\n", planStats.TotalDays, planStats.TotalWeeks, planStats.TotalHours)

			if len(failed) > 0 {
				return ErrInvalidPlan
			}
			fmt.Fprintln(out, "plan is valid")
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Start date, YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", "", "End date, YYYY-MM-DD")
	cmd.Flags().IntVar(&hours, "hours", 0, "Hours per week")
	cmd.Flags().StringArrayVar(&milestones, "milestone", nil, "Milestone as YYYY-MM-DD[:title], repeatable")
	return cmd
}

func buildPlan(start, end string, hours int, milestones []string) (studyplan.StudyPlan, error) {
	startDate, err := studyplan.ParseDate(start)
	if err != nil {
		return studyplan.StudyPlan{}, fmt.Errorf("--start: %w", err)
	}
	endDate, err := studyplan.ParseDate(end)
	if err != nil {
		return studyplan.StudyPlan{}, fmt.Errorf("--end: %w", err)
	}

	plan := studyplan.StudyPlan{
		StartDate:    startDate,
		EndDate:      endDate,
		HoursPerWeek: hours,
		Milestones:   make([]studyplan.Milestone, 0, len(milestones)),
	}
	for _, raw := range milestones {
		dateString, title, _ := strings.Cut(raw, ":")
		date, err := studyplan.ParseDate(strings.TrimSpace(dateString))
		if err != nil {
			return studyplan.StudyPlan{}, fmt.Errorf("--milestone: %w", err)
		}
		plan.Milestones = append(plan.Milestones, studyplan.Milestone{Title: strings.TrimSpace(title), Date: date})
	}
	return plan, nil
}
