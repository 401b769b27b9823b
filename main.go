package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/techtrack/techtrack/internal/app"
	"github.com/techtrack/techtrack/internal/cli"
	"github.com/techtrack/techtrack/internal/config"
)

func init() {
	level := os.Getenv("LOG_LEVEL")
	if level != "" {
		logrusLevel, err := log.ParseLevel(level)
		if err != nil {
			log.Fatal(err)
		}
		log.SetLevel(logrusLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

func openApp(path string) (*cli.App, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	application, err := app.NewApplication(cfg)
	if err != nil {
		return nil, err
	}
	deps := application.Deps()
	return &cli.App{
		Technologies:  deps.TechnologyService,
		Stats:         deps.StatsService,
		StatsRenderer: deps.CsvStatsRenderer,
		GitHub:        deps.GitHubService,
		Serve:         application.Run,
		Close:         application.Close,
	}, nil
}

func main() {
	if err := cli.NewRootCmd(openApp).Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
