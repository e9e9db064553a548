package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/repohealth/repohealth/pkg/scoring"
)

func newMaxScoreCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "max-score",
		Short: "Print the theoretical maximum score for a scoring config",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := scoring.Load(configPath)
			if err != nil {
				return err
			}

			for _, def := range cfg.Metrics {
				name := def.Name
				if name == "" {
					name = def.Source + "/" + def.Key
				}
				fmt.Printf("%-40s %10.2f\n", name, scoring.Maximum(def))
			}
			fmt.Printf("%-40s %10.2f\n", "total", scoring.MaxTotal(cfg))
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "scoring-config",
		envOrDefault("SCORING_CONFIG", "scoring_config.yaml"), "path to the scoring config file")

	return cmd
}
