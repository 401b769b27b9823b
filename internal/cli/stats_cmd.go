package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatsCmd(s *session) *cobra.Command {
	var asCSV bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show learning progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := s.get()
			if err != nil {
				return err
			}
			overview, err := app.Stats.GetOverview(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asCSV {
				csv, err := app.StatsRenderer.RenderStats(overview)
				if err != nil {
					return err
				}
				fmt.Fprint(out, csv)
				return nil
			}

			counts := overview.Counts
			fmt.Fprintf(out, "total: %d\n", counts.Total)
			fmt.Fprintf(out, "not started: %d\n", counts.NotStarted)
			fmt.Fprintf(out, "in progress: %d\n", counts.InProgress)
			fmt.Fprintf(out, "completed: %d (%d%%)\n", counts.Completed, overview.CompletionPercentage)
			fmt.Fprintf(out, "planned: %d technologies, %d hours\n", overview.PlannedTechnologies, overview.PlannedHours)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asCSV, "csv", false, "Print one CSV row per technology")
	return cmd
}
