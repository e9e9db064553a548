package collect

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/repohealth/repohealth/internal/archive"
)

// ScorecardClient collects supply-chain-security metrics by invoking the
// OpenSSF Scorecard binary and parsing its JSON stdout.
type ScorecardClient struct {
	path    string
	token   string
	timeout time.Duration
	store   MetricStore
	archive archive.Client
}

// NewScorecardClient creates a Scorecard source client. The archive client
// may be nil to disable raw payload archival.
func NewScorecardClient(path, token string, timeout time.Duration, store MetricStore, arch archive.Client) *ScorecardClient {
	if path == "" {
		path = "scorecard"
	}
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	return &ScorecardClient{
		path:    path,
		token:   token,
		timeout: timeout,
		store:   store,
		archive: arch,
	}
}

// Name returns the fixed source label.
func (c *ScorecardClient) Name() string { return SourceOpenSSF }

type scorecardOutput struct {
	Score  float64 `json:"score"`
	Checks []struct {
		Name  string  `json:"name"`
		Score float64 `json:"score"`
	} `json:"checks"`
}

// Collect runs `scorecard --repo <url> --format json` and persists the
// overall score plus one record per named check.
func (c *ScorecardClient) Collect(ctx context.Context, target Target, scanID string) error {
	if c.token == "" {
		log.Printf("scorecard github token not set, skipping collection for %s", target.Project)
		return nil
	}

	cmdCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, c.path, "--repo", target.RepoURL, "--format", "json")
	cmd.Env = append(os.Environ(), "GITHUB_AUTH_TOKEN="+c.token)

	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return fmt.Errorf("scorecard failed for %s: %w\nstderr: %s", target.RepoURL, err, exitErr.Stderr)
		}
		return fmt.Errorf("run scorecard for %s: %w", target.RepoURL, err)
	}

	if c.archive != nil {
		if err := c.archive.PutPayload(ctx, target.Project, scanID, SourceOpenSSF, output); err != nil {
			log.Printf("archive scorecard payload for %s: %v", target.Project, err)
		}
	}

	parsed, err := parseScorecardOutput(output)
	if err != nil {
		return fmt.Errorf("parse scorecard output for %s: %w", target.RepoURL, err)
	}

	if err := c.store.UpsertMetric(ctx, scanID, "overall_score", formatScore(parsed.Score), SourceOpenSSF); err != nil {
		return err
	}
	for _, check := range parsed.Checks {
		if err := c.store.UpsertMetric(ctx, scanID, check.Name, formatScore(check.Score), SourceOpenSSF); err != nil {
			return err
		}
	}

	log.Printf("collected scorecard overall score and %d checks for %s", len(parsed.Checks), target.Project)
	return nil
}

func parseScorecardOutput(data []byte) (*scorecardOutput, error) {
	out := &scorecardOutput{}
	if err := json.Unmarshal(data, out); err != nil {
		return nil, err
	}
	return out, nil
}

// formatScore renders a score the way it is stored: as text, coerced back to
// a number only at scoring time.
func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
