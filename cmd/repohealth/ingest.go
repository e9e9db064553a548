package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/repohealth/repohealth/internal/archive"
	"github.com/repohealth/repohealth/internal/collect"
	"github.com/repohealth/repohealth/internal/ingest"
	"github.com/repohealth/repohealth/internal/store"
)

func newIngestCmd() *cobra.Command {
	var (
		once       bool
		interval   time.Duration
		reposFile  string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Run the collection workflow, once or on a schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			arch, err := archive.FromEnv(ctx)
			if err != nil {
				return err
			}
			if arch != nil {
				log.Printf("raw payload archival enabled (%s)", os.Getenv("ARCHIVE_BACKEND"))
			}

			st := store.NewService(db)
			sources := []collect.Source{
				collect.NewSonarQubeClient(
					envOrDefault("SONARQUBE_URL", "http://sonarqube:9000"),
					os.Getenv("SONARQUBE_TOKEN"),
					st, arch,
				),
				collect.NewScorecardClient(
					os.Getenv("SCORECARD_PATH"),
					os.Getenv("SCORECARD_GITHUB_TOKEN"),
					10*time.Minute,
					st, arch,
				),
			}

			svc := ingest.NewService(st, sources, configPath)

			if once {
				svc.RunCycle(ctx, reposFile)
				return nil
			}

			scheduler := &ingest.Scheduler{
				Interval: interval,
				Poll:     time.Minute,
				Run: func(ctx context.Context) {
					svc.RunCycle(ctx, reposFile)
				},
			}
			scheduler.Start(ctx)
			return nil
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "run a single cycle and exit")
	cmd.Flags().DurationVar(&interval, "interval", 24*time.Hour, "time between scheduled runs")
	cmd.Flags().StringVar(&reposFile, "repositories",
		envOrDefault("REPOSITORIES_FILE", "repositories.txt"), "path to the newline-delimited repository list")
	cmd.Flags().StringVar(&configPath, "scoring-config",
		envOrDefault("SCORING_CONFIG", "scoring_config.yaml"), "path to the scoring config file")

	return cmd
}
