package api

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"sort"

	"github.com/repohealth/repohealth/pkg/scoring"
)

type metricEntry struct {
	MetricKey   string   `json:"metric_key"`
	MetricValue string   `json:"metric_value"`
	Score       *float64 `json:"score"`
}

type formulaView struct {
	Description      string                     `json:"description"`
	CalculationLogic string                     `json:"calculation_logic"`
	Metrics          []scoring.MetricDefinition `json:"metrics"`
}

type scanView struct {
	ScanID         string                   `json:"scan_id"`
	ProjectName    string                   `json:"project_name"`
	ScanDate       string                   `json:"scan_date"`
	FinalScore     *float64                 `json:"final_score"`
	MaxScore       float64                  `json:"max_score"`
	ScoringFormula any                      `json:"scoring_formula"`
	Metadata       map[string][]metricEntry `json:"metadata"`
}

// handleGetScan returns the most recent scored scan for a project, its raw
// metrics grouped by source, and the theoretical maximum recomputed from the
// current scoring config.
func (h *Handler) handleGetScan(w http.ResponseWriter, r *http.Request) {
	projectName := r.PathValue("projectName")

	sc, err := h.store.LatestScoredScan(r.Context(), projectName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "project not found or no scans available")
			return
		}
		log.Printf("latest scan for %s: %v", projectName, err)
		writeError(w, http.StatusInternalServerError, "an error occurred while fetching scan results")
		return
	}

	rows, err := h.store.ListMetrics(r.Context(), sc.ScanID)
	if err != nil {
		log.Printf("list metrics for %s: %v", sc.ScanID, err)
		writeError(w, http.StatusInternalServerError, "an error occurred while fetching scan results")
		return
	}

	metadata := make(map[string][]metricEntry)
	for _, row := range rows {
		metadata[row.Source] = append(metadata[row.Source], metricEntry{
			MetricKey:   row.Key,
			MetricValue: row.Value,
			Score:       row.Score,
		})
	}
	for source := range metadata {
		entries := metadata[source]
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].MetricKey < entries[j].MetricKey
		})
	}

	view := scanView{
		ScanID:      sc.ScanID,
		ProjectName: sc.ProjectName,
		ScanDate:    sc.ScanDate.Format("2006-01-02T15:04:05Z"),
		FinalScore:  sc.FinalScore,
		Metadata:    metadata,
	}

	// The formula section degrades rather than failing the request: the view
	// stays available even when the scoring config is absent.
	cfg, err := scoring.Load(h.configPath)
	if err != nil {
		log.Printf("scoring config unavailable: %v", err)
		view.ScoringFormula = map[string]string{"error": "scoring configuration not found"}
		view.MaxScore = 0
	} else {
		view.ScoringFormula = formulaView{
			Description:      cfg.Description,
			CalculationLogic: cfg.CalculationLogic,
			Metrics:          cfg.Metrics,
		}
		view.MaxScore = scoring.MaxTotal(cfg)
	}

	writeJSON(w, http.StatusOK, view)
}
