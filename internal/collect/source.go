// Package collect implements the metric source clients. Each client fetches
// raw metrics from one external system and persists them under its own fixed
// source label; a failure in one source never affects another.
package collect

import (
	"context"
	"strings"
)

// Source labels used as the metric_source discriminator in the store.
const (
	SourceSonarQube = "sonarqube"
	SourceOpenSSF   = "openssf"
)

// Target identifies the repository being scanned. Project is the short name
// derived from the repository reference; RepoURL is the full reference.
type Target struct {
	RepoURL string
	Project string
}

// MetricStore is the slice of the store that collectors write through.
type MetricStore interface {
	UpsertMetric(ctx context.Context, scanID, key, value, source string) error
}

// Source is a metric source client. Collect fetches and persists this
// source's metrics for a scan. Transport and parse failures are returned for
// the caller to log; they must never abort the sibling sources or the scan.
type Source interface {
	Name() string
	Collect(ctx context.Context, target Target, scanID string) error
}

// ProjectName derives the short project identity from a repository reference:
// the last slash-separated segment.
func ProjectName(repoURL string) string {
	if i := strings.LastIndex(repoURL, "/"); i >= 0 {
		return repoURL[i+1:]
	}
	return repoURL
}
