// Package main provides the repohealth CLI entry point.
package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	_ "github.com/lib/pq"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "repohealth",
		Short: "Composite health scores for software repositories",
		Long: `Repohealth collects metrics from SonarQube and OpenSSF Scorecard,
combines them through a configurable weighted formula, and serves the
latest score per project over a read API.`,
		Version: version,
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newIngestCmd(),
		newMigrateCmd(),
		newMaxScoreCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openDB() (*sql.DB, error) {
	dsn := envOrDefault("DATABASE_URL", "postgres://localhost:5432/scorecard?sslmode=disable")
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
