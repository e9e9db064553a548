// Package store provides the Postgres-backed metadata store: scan records,
// raw metric records, and the per-metric score join consumed by the read API.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Service provides scan and metric persistence backed by Postgres.
type Service struct {
	db *sql.DB
}

// Scan represents one evaluation cycle for a single project. FinalScore is
// nil until scoring completes.
type Scan struct {
	ScanID      string
	ProjectName string
	ScanDate    time.Time
	FinalScore  *float64
}

// MetricRow is one raw metric record joined against its per-metric score.
// Score is nil when no collaborator has populated the metadata_scores row.
type MetricRow struct {
	MetadataID string
	Key        string
	Value      string
	Source     string
	Score      *float64
}

// NewService creates a new store Service.
func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// Ping verifies database connectivity.
func (s *Service) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// CreateScan inserts a new scan record and returns its store-assigned ID.
func (s *Service) CreateScan(ctx context.Context, projectName string) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO project_scans (project_name)
		 VALUES ($1)
		 RETURNING scan_id`,
		projectName,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("create scan for %s: %w", projectName, err)
	}
	return id, nil
}

// UpsertMetric stores one raw metric record. A repeated write from the same
// source for the same key during the same scan overwrites the value; the
// (scan_id, metric_key, metric_source) triple stays unique.
func (s *Service) UpsertMetric(ctx context.Context, scanID, key, value, source string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scan_metadata (scan_id, metric_key, metric_value, metric_source)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (scan_id, metric_key, metric_source) DO UPDATE
		   SET metric_value = EXCLUDED.metric_value`,
		scanID, key, value, source,
	)
	if err != nil {
		return fmt.Errorf("upsert metric %s/%s for scan %s: %w", source, key, scanID, err)
	}
	return nil
}

// UpdateFinalScore writes the computed score to a scan record.
func (s *Service) UpdateFinalScore(ctx context.Context, scanID string, score float64) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE project_scans SET final_score = $1 WHERE scan_id = $2`,
		score, scanID,
	)
	if err != nil {
		return fmt.Errorf("update final score for scan %s: %w", scanID, err)
	}
	return nil
}

// LatestScoredScan returns the most recent scan for a project that has a
// non-null final score. Scans still in progress or that failed scoring are
// invisible to readers. Returns sql.ErrNoRows (wrapped) when none exists.
func (s *Service) LatestScoredScan(ctx context.Context, projectName string) (*Scan, error) {
	sc := &Scan{}
	err := s.db.QueryRowContext(ctx,
		`SELECT scan_id, project_name, scan_date, final_score
		 FROM project_scans
		 WHERE project_name = $1 AND final_score IS NOT NULL
		 ORDER BY scan_date DESC
		 LIMIT 1`,
		projectName,
	).Scan(&sc.ScanID, &sc.ProjectName, &sc.ScanDate, &sc.FinalScore)
	if err != nil {
		return nil, fmt.Errorf("latest scored scan for %s: %w", projectName, err)
	}
	return sc, nil
}

// ListMetrics returns all raw metric records for a scan, each joined against
// its per-metric score where one exists.
func (s *Service) ListMetrics(ctx context.Context, scanID string) ([]MetricRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT sm.metadata_id, sm.metric_key, sm.metric_value, sm.metric_source, ms.score
		 FROM scan_metadata sm
		 LEFT JOIN metadata_scores ms ON sm.metadata_id = ms.metadata_id
		 WHERE sm.scan_id = $1`,
		scanID,
	)
	if err != nil {
		return nil, fmt.Errorf("list metrics for scan %s: %w", scanID, err)
	}
	defer rows.Close()

	var metrics []MetricRow
	for rows.Next() {
		var m MetricRow
		if err := rows.Scan(&m.MetadataID, &m.Key, &m.Value, &m.Source, &m.Score); err != nil {
			return nil, fmt.Errorf("scan metric row: %w", err)
		}
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}
