// Package ingest orchestrates the collection workflow: per repository it
// creates a scan record, runs every metric source concurrently, then computes
// and persists the final score from whatever was collected.
package ingest

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/repohealth/repohealth/internal/collect"
	"github.com/repohealth/repohealth/internal/store"
	"github.com/repohealth/repohealth/pkg/scoring"
)

// ScanStore is the slice of the store the orchestrator needs.
type ScanStore interface {
	CreateScan(ctx context.Context, projectName string) (string, error)
	ListMetrics(ctx context.Context, scanID string) ([]store.MetricRow, error)
	UpdateFinalScore(ctx context.Context, scanID string, score float64) error
}

// Service runs the collection workflow.
type Service struct {
	store      ScanStore
	sources    []collect.Source
	configPath string
}

// NewService creates an ingestion Service. configPath points at the YAML
// scoring config, re-read on every score computation.
func NewService(st ScanStore, sources []collect.Source, configPath string) *Service {
	return &Service{store: st, sources: sources, configPath: configPath}
}

// RunOnce processes every repository in order, one at a time. A repository's
// failure is logged and the workflow moves on; nothing escapes the run.
func (s *Service) RunOnce(ctx context.Context, repos []string) {
	runID := uuid.New().String()
	log.Printf("starting ingestion run %s for %d repositories", runID, len(repos))

	for _, repoURL := range repos {
		if ctx.Err() != nil {
			log.Printf("ingestion run %s cancelled", runID)
			return
		}
		if err := s.processRepository(ctx, repoURL); err != nil {
			log.Printf("run %s: %v", runID, err)
		}
	}

	log.Printf("ingestion run %s completed", runID)
}

func (s *Service) processRepository(ctx context.Context, repoURL string) error {
	target := collect.Target{RepoURL: repoURL, Project: collect.ProjectName(repoURL)}
	log.Printf("processing %s (%s)", target.Project, repoURL)

	scanID, err := s.store.CreateScan(ctx, target.Project)
	if err != nil {
		return fmt.Errorf("create scan for %s: %w", target.Project, err)
	}

	s.collectAll(ctx, target, scanID)

	score, err := s.computeScore(ctx, scanID)
	if err != nil {
		// Store read failed: abandon this repository for the cycle. The next
		// scheduled run starts over with a fresh scan record.
		return fmt.Errorf("score scan %s for %s: %w", scanID, target.Project, err)
	}

	if err := s.store.UpdateFinalScore(ctx, scanID, score); err != nil {
		return fmt.Errorf("persist score for scan %s: %w", scanID, err)
	}

	log.Printf("scan %s for %s scored %.2f", scanID, target.Project, score)
	return nil
}

// collectAll runs every source against a worker pool sized to the number of
// sources and blocks until all have finished. A source's failure is logged
// and never prevents the others from collecting.
func (s *Service) collectAll(ctx context.Context, target collect.Target, scanID string) {
	if len(s.sources) == 0 {
		return
	}

	jobs := make(chan collect.Source)
	var wg sync.WaitGroup
	for i := 0; i < len(s.sources); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for src := range jobs {
				if err := src.Collect(ctx, target, scanID); err != nil {
					log.Printf("source %s failed for %s: %v", src.Name(), target.Project, err)
				}
			}
		}()
	}

	for _, src := range s.sources {
		jobs <- src
	}
	close(jobs)
	wg.Wait()
}

// computeScore re-reads the scan's persisted metrics and applies the scoring
// policy. Missing metrics and a missing config both yield the zero fallback
// rather than an error; only a store read failure propagates.
func (s *Service) computeScore(ctx context.Context, scanID string) (float64, error) {
	rows, err := s.store.ListMetrics(ctx, scanID)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		log.Printf("no metrics collected for scan %s, falling back to zero score", scanID)
		return 0, nil
	}

	cfg, err := scoring.Load(s.configPath)
	if err != nil {
		log.Printf("scoring config unavailable, falling back to zero score: %v", err)
		return 0, nil
	}

	raw := make([]scoring.RawMetric, 0, len(rows))
	for _, r := range rows {
		raw = append(raw, scoring.RawMetric{Source: r.Source, Key: r.Key, Value: r.Value})
	}

	total, totalWeight := scoring.Total(cfg, raw)
	_ = totalWeight // bookkeeping only; the score is never normalized by it

	return scoring.Round2(total), nil
}
