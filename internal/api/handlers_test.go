package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/pipeline-monitor/internal/config"
	"github.com/ignite/pipeline-monitor/internal/email"
	"github.com/ignite/pipeline-monitor/internal/ingestion"
	"github.com/ignite/pipeline-monitor/internal/pipeline"
	"github.com/ignite/pipeline-monitor/internal/rules"
)

const demoCSV = `id,account_name,stage,amount,probability,days_in_stage,last_contact_days_ago,notes
OPP-001,Acme Bank,Discovery,50000,0.4,10,5,"Client interested but concerned about integration timeline."
OPP-002,NorthTel,Negotiation,80000,0.25,45,20,"Budget constraints and competitor reference mentioned."
OPP-003,City Health,Proposal,120000,0.6,20,3,"Positive response from stakeholders, waiting on internal approval."
`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	drafter, err := email.NewDrafter("Test Sender")
	require.NoError(t, err)
	engine := rules.NewEngine(config.DefaultRules())
	evaluator := pipeline.NewEvaluator(ingestion.Normalize, engine, drafter)
	handlers := NewHandlers(evaluator)
	router := SetupRoutes(handlers, []string{"http://localhost:5173"})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func postCSV(t *testing.T, srv *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/opportunities/evaluate", "text/csv", strings.NewReader(body))
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decode(t, resp, &body)
	assert.Equal(t, "healthy", body["status"])
}

func TestEvaluateRoundTrip(t *testing.T) {
	srv := newTestServer(t)

	resp := postCSV(t, srv, demoCSV)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var summary struct {
		BatchID   string `json:"batch_id"`
		Evaluated int    `json:"evaluated"`
		Skipped   []struct {
			Row   int    `json:"row"`
			Error string `json:"error"`
		} `json:"skipped"`
		Metrics struct {
			TotalOpportunities int     `json:"total_opportunities"`
			TotalPipeline      float64 `json:"total_pipeline"`
			WeightedPipeline   float64 `json:"weighted_pipeline"`
		} `json:"metrics"`
	}
	decode(t, resp, &summary)

	assert.NotEmpty(t, summary.BatchID)
	assert.Equal(t, 3, summary.Evaluated)
	assert.Empty(t, summary.Skipped)
	assert.Equal(t, 3, summary.Metrics.TotalOpportunities)
	assert.Equal(t, float64(250000), summary.Metrics.TotalPipeline)
	assert.InDelta(t, 50000*0.4+80000*0.25+120000*0.6, summary.Metrics.WeightedPipeline, 1e-6)
}

func TestEvaluateReportsSkippedRows(t *testing.T) {
	srv := newTestServer(t)

	bad := demoCSV + "OPP-004,FinPlus,Proposal,-10,0.5,5,2,negative amount\n"
	resp := postCSV(t, srv, bad)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var summary struct {
		Evaluated int `json:"evaluated"`
		Skipped   []struct {
			Row   int    `json:"row"`
			Error string `json:"error"`
		} `json:"skipped"`
	}
	decode(t, resp, &summary)
	assert.Equal(t, 3, summary.Evaluated)
	require.Len(t, summary.Skipped, 1)
	assert.Equal(t, 3, summary.Skipped[0].Row)
	assert.Contains(t, summary.Skipped[0].Error, "amount")
}

func TestEvaluateRejectsBadCSV(t *testing.T) {
	srv := newTestServer(t)

	resp := postCSV(t, srv, "id,amount\nOPP-1,100\n")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestInsightsAndMetricsAfterEvaluate(t *testing.T) {
	srv := newTestServer(t)
	postCSV(t, srv, demoCSV).Body.Close()

	resp, err := http.Get(srv.URL + "/api/insights")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var listing struct {
		BatchID  string `json:"batch_id"`
		Insights []struct {
			Opportunity struct {
				ID string `json:"id"`
			} `json:"opportunity"`
			Risk struct {
				Level string `json:"level"`
			} `json:"risk"`
		} `json:"insights"`
	}
	decode(t, resp, &listing)
	require.Len(t, listing.Insights, 3)
	assert.Equal(t, "OPP-001", listing.Insights[0].Opportunity.ID)
	assert.Equal(t, "high", listing.Insights[1].Risk.Level)

	resp, err = http.Get(srv.URL + "/api/metrics")
	require.NoError(t, err)
	var metrics struct {
		RiskDistribution map[string]int `json:"risk_distribution"`
	}
	decode(t, resp, &metrics)
	assert.Len(t, metrics.RiskDistribution, 3)
}

func TestInsightEmailByID(t *testing.T) {
	srv := newTestServer(t)
	postCSV(t, srv, demoCSV).Body.Close()

	resp, err := http.Get(srv.URL + "/api/insights/OPP-002/email")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var draft struct {
		Subject string `json:"subject"`
		Body    string `json:"body"`
	}
	decode(t, resp, &draft)
	assert.Equal(t, "Checking in on our proposal for NorthTel", draft.Subject)
	assert.Contains(t, draft.Body, "NorthTel")
	assert.Contains(t, draft.Body, "Negotiation")
}

func TestNotFoundBeforeFirstBatch(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/api/insights", "/api/metrics", "/api/insights/OPP-001", "/api/insights/OPP-001/email"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
	}
}

func TestUnknownInsightID(t *testing.T) {
	srv := newTestServer(t)
	postCSV(t, srv, demoCSV).Body.Close()

	resp, err := http.Get(srv.URL + "/api/insights/OPP-999")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
