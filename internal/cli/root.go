package cli

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/techtrack/techtrack/internal/config"
	"github.com/techtrack/techtrack/pkg/github"
	"github.com/techtrack/techtrack/pkg/stats"
	"github.com/techtrack/techtrack/pkg/technology"
)

// App holds references to the services used by CLI commands.
type App struct {
	Technologies  technology.Service
	Stats         stats.StatsService
	StatsRenderer stats.StatsRenderer
	GitHub        github.Service

	// Serve runs the HTTP API until ctx is cancelled.
	Serve func(ctx context.Context) error
	Close func()
}

// Opener builds an App from the configuration file at path.
type Opener func(path string) (*App, error)

type session struct {
	open       Opener
	configPath string
	app        *App
}

func (s *session) get() (*App, error) {
	if s.app != nil {
		return s.app, nil
	}
	app, err := s.open(s.configPath)
	if err != nil {
		return nil, err
	}
	s.app = app
	return app, nil
}

func (s *session) close() {
	if s.app != nil && s.app.Close != nil {
		s.app.Close()
	}
	s.app = nil
}

// NewRootCmd creates the top-level "techtrack" command. Services are opened
// lazily by the first subcommand that needs them.
func NewRootCmd(open Opener) *cobra.Command {
	s := &session{open: open}

	root := &cobra.Command{
		Use:           "techtrack",
		Short:         "Track technologies you are learning and plan study time",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&s.configPath, "config", config.DefaultPath, "Path to the YAML configuration file")

	root.AddCommand(
		newServeCmd(s),
		newDataCmd(s),
		newPlanCmd(s),
		newPopularityCmd(s),
		newStatsCmd(s),
	)
	closeAfterRun(root, s)

	return root
}

// closeAfterRun releases the opened App once a command finishes. Post-run
// hooks are skipped by cobra when RunE fails, so every RunE is wrapped instead.
func closeAfterRun(cmd *cobra.Command, s *session) {
	if run := cmd.RunE; run != nil {
		cmd.RunE = func(cmd *cobra.Command, args []string) error {
			defer s.close()
			return run(cmd, args)
		}
	}
	for _, child := range cmd.Commands() {
		closeAfterRun(child, s)
	}
}
