package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/techtrack/techtrack/pkg/github"
)

func newPopularityCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "popularity <name>",
		Short: "Show how popular a technology is on GitHub",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := s.get()
			if err != nil {
				return err
			}
			popularity, err := app.GitHub.Lookup(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %s repositories, popularity %d/100\n",
				popularity.Name, github.FormatCount(popularity.RepositoryCount), popularity.PopularityScore)
			for _, repo := range popularity.TopRepositories {
				fmt.Fprintf(out, "  %-40s %8s stars %8s forks\n", repo.FullName, github.FormatCount(repo.Stars), github.FormatCount(repo.Forks))
			}
			if len(popularity.Topics) > 0 {
				names := make([]string, 0, len(popularity.Topics))
				for _, topic := range popularity.Topics {
					names = append(names, topic.Name)
				}
				fmt.Fprintf(out, "topics: %s\n", strings.Join(names, ", "))
			}
			fmt.Fprintf(out, "GitHub API: %d/%d requests left, resets at %s\n",
				popularity.APIInfo.Remaining, popularity.APIInfo.Limit,
				time.Unix(popularity.APIInfo.Reset, 0).UTC().Format(time.RFC3339))
			return nil
		},
	}
}
