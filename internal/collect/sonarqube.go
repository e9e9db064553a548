package collect

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/repohealth/repohealth/internal/archive"
)

// sonarMetricKeys is the fixed set of measures requested per component.
const sonarMetricKeys = "bugs,vulnerabilities,code_smells,coverage,duplicated_lines_density"

// SonarQubeClient collects static-analysis measures from a SonarQube server.
type SonarQubeClient struct {
	baseURL string
	token   string
	httpc   *http.Client
	store   MetricStore
	archive archive.Client
}

// NewSonarQubeClient creates a SonarQube source client. The archive client
// may be nil to disable raw payload archival.
func NewSonarQubeClient(baseURL, token string, store MetricStore, arch archive.Client) *SonarQubeClient {
	return &SonarQubeClient{
		baseURL: baseURL,
		token:   token,
		httpc:   &http.Client{Timeout: 30 * time.Second},
		store:   store,
		archive: arch,
	}
}

// Name returns the fixed source label.
func (c *SonarQubeClient) Name() string { return SourceSonarQube }

type measuresResponse struct {
	Component struct {
		Measures []struct {
			Metric string `json:"metric"`
			Value  string `json:"value"`
		} `json:"measures"`
	} `json:"component"`
}

// Collect fetches the component measures for the target project and persists
// one metric record per measure. The SonarQube project key is assumed to
// match the project's short name.
func (c *SonarQubeClient) Collect(ctx context.Context, target Target, scanID string) error {
	if c.token == "" {
		log.Printf("sonarqube token not set, skipping collection for %s", target.Project)
		return nil
	}

	endpoint := fmt.Sprintf("%s/api/measures/component?%s", c.baseURL, url.Values{
		"component":  {target.Project},
		"metricKeys": {sonarMetricKeys},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build measures request: %w", err)
	}
	// SonarQube token auth: token as username, empty password.
	req.SetBasicAuth(c.token, "")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("sonarqube request for %s: %w", target.Project, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read sonarqube response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sonarqube returned %d for %s", resp.StatusCode, target.Project)
	}

	if c.archive != nil {
		if err := c.archive.PutPayload(ctx, target.Project, scanID, SourceSonarQube, body); err != nil {
			log.Printf("archive sonarqube payload for %s: %v", target.Project, err)
		}
	}

	var parsed measuresResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return fmt.Errorf("parse sonarqube response for %s: %w", target.Project, err)
	}

	for _, m := range parsed.Component.Measures {
		if err := c.store.UpsertMetric(ctx, scanID, m.Metric, m.Value, SourceSonarQube); err != nil {
			return err
		}
	}

	log.Printf("collected %d sonarqube measures for %s", len(parsed.Component.Measures), target.Project)
	return nil
}
