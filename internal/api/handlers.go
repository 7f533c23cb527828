package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ignite/pipeline-monitor/internal/domain"
	"github.com/ignite/pipeline-monitor/internal/ingestion"
	"github.com/ignite/pipeline-monitor/internal/pipeline"
	"github.com/ignite/pipeline-monitor/internal/pkg/logger"
)

// maxUploadBytes caps evaluate request bodies (CSV uploads).
const maxUploadBytes = 16 << 20

// Batch is the in-memory result of the most recent evaluation run. Nothing
// persists across process restarts: the batch lives exactly as long as the
// callers need its outputs.
type Batch struct {
	ID       string          `json:"batch_id"`
	LoadedAt time.Time       `json:"loaded_at"`
	Source   string          `json:"source"`
	Result   pipeline.Result `json:"-"`
}

// Handlers contains all HTTP handlers.
type Handlers struct {
	evaluator *pipeline.Evaluator
	state     *batchHolder
}

// NewHandlers creates a Handlers instance over the given evaluator.
func NewHandlers(evaluator *pipeline.Evaluator) *Handlers {
	return &Handlers{
		evaluator: evaluator,
		state:     newBatchHolder(),
	}
}

// LoadRecords evaluates a record batch outside an HTTP request (startup
// sample data). The source string is reported on batch summaries.
func (h *Handlers) LoadRecords(records []map[string]string, source string) *Batch {
	result := h.evaluator.Evaluate(records)
	batch := &Batch{
		ID:       uuid.New().String(),
		LoadedAt: time.Now().UTC(),
		Source:   source,
		Result:   result,
	}
	h.state.set(batch)
	return batch
}

// HealthCheck reports liveness.
//
//	GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "pipeline-monitor",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// evaluateResponse summarizes one evaluation run.
type evaluateResponse struct {
	BatchID   string                  `json:"batch_id"`
	LoadedAt  time.Time               `json:"loaded_at"`
	Evaluated int                     `json:"evaluated"`
	Skipped   []recordErrorJSON       `json:"skipped"`
	Metrics   domain.AggregateMetrics `json:"metrics"`
}

type recordErrorJSON struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// HandleEvaluate ingests a CSV of opportunities and runs the full
// evaluation pipeline. Accepts either a multipart upload under "file" or a
// raw CSV request body. Per-row validation failures don't fail the batch;
// they come back in the skipped list.
//
//	POST /api/opportunities/evaluate
func (h *Handlers) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	body, source, err := csvStream(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer body.Close()

	records, err := ingestion.ReadCSV(io.LimitReader(body, maxUploadBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	batch := h.LoadRecords(records, source)
	logger.Info("evaluated opportunity batch",
		"batch_id", batch.ID,
		"source", source,
		"evaluated", len(batch.Result.Insights),
		"skipped", len(batch.Result.RecordErrors),
	)

	respondJSON(w, http.StatusOK, evaluateSummary(batch))
}

// HandleInsights returns every insight in the current batch, in input order.
//
//	GET /api/insights
func (h *Handlers) HandleInsights(w http.ResponseWriter, r *http.Request) {
	batch, ok := h.state.get()
	if !ok {
		respondError(w, http.StatusNotFound, "no batch evaluated yet")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"batch_id": batch.ID,
		"insights": batch.Result.Insights,
	})
}

// HandleInsight returns the full insight for one opportunity.
//
//	GET /api/insights/{id}
func (h *Handlers) HandleInsight(w http.ResponseWriter, r *http.Request) {
	insight, ok := h.findInsight(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusNotFound, "unknown opportunity id")
		return
	}
	respondJSON(w, http.StatusOK, insight)
}

// HandleInsightEmail returns just the drafted follow-up for one opportunity.
//
//	GET /api/insights/{id}/email
func (h *Handlers) HandleInsightEmail(w http.ResponseWriter, r *http.Request) {
	insight, ok := h.findInsight(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusNotFound, "unknown opportunity id")
		return
	}
	respondJSON(w, http.StatusOK, insight.Email)
}

// HandleMetrics returns the aggregate metrics for the current batch.
//
//	GET /api/metrics
func (h *Handlers) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	batch, ok := h.state.get()
	if !ok {
		respondError(w, http.StatusNotFound, "no batch evaluated yet")
		return
	}
	respondJSON(w, http.StatusOK, batch.Result.Metrics)
}

func (h *Handlers) findInsight(id string) (domain.Insight, bool) {
	batch, ok := h.state.get()
	if !ok {
		return domain.Insight{}, false
	}
	for _, in := range batch.Result.Insights {
		if in.Opportunity.ID == id {
			return in, true
		}
	}
	return domain.Insight{}, false
}

// csvStream picks the CSV source from the request: a multipart "file" part
// when present, otherwise the raw body.
func csvStream(r *http.Request) (io.ReadCloser, string, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return nil, "", err
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, "", err
		}
		return file, header.Filename, nil
	}
	return r.Body, "request body", nil
}

func evaluateSummary(batch *Batch) evaluateResponse {
	skipped := make([]recordErrorJSON, 0, len(batch.Result.RecordErrors))
	for _, re := range batch.Result.RecordErrors {
		skipped = append(skipped, recordErrorJSON{Row: re.Row, Error: re.Message()})
	}
	return evaluateResponse{
		BatchID:   batch.ID,
		LoadedAt:  batch.LoadedAt,
		Evaluated: len(batch.Result.Insights),
		Skipped:   skipped,
		Metrics:   batch.Result.Metrics,
	}
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
