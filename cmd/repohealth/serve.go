package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/repohealth/repohealth/internal/api"
	"github.com/repohealth/repohealth/internal/store"
)

func newServeCmd() *cobra.Command {
	var (
		port       string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the read API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			handler := api.NewHandler(store.NewService(db), configPath)
			mux := http.NewServeMux()
			handler.RegisterRoutes(mux)

			srv := &http.Server{
				Addr:    ":" + port,
				Handler: api.CORS(mux),
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			go func() {
				log.Printf("starting repohealth API on :%s", port)
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatalf("listen: %v", err)
				}
			}()

			<-ctx.Done()
			log.Println("shutting down...")
			return srv.Shutdown(context.Background())
		},
	}

	cmd.Flags().StringVar(&port, "port", envOrDefault("PORT", "8080"), "port to listen on")
	cmd.Flags().StringVar(&configPath, "scoring-config",
		envOrDefault("SCORING_CONFIG", "scoring_config.yaml"), "path to the scoring config file")

	return cmd
}
