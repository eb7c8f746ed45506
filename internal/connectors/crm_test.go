package connectors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orionhq/gtm-insights/internal/config"
	"github.com/orionhq/gtm-insights/internal/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func crmRange() models.DateRange {
	// current 2026-01-08..14, previous 2026-01-01..07
	return models.NewWoWDateRange(time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC))
}

func crmDeal(id, stage, source, createdAt string, amount float64) map[string]any {
	return map[string]any{
		"id": id, "name": "deal " + id, "stage": stage,
		"amount": amount, "source": source, "created_at": createdAt,
	}
}

func TestCRMFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/deals", r.URL.Path)
		deals := []map[string]any{
			// current period
			crmDeal("1", "Lead Generated", "organic", "2026-01-09T08:00:00Z", 0),
			crmDeal("2", "Qualification", "paid", "2026-01-10T12:00:00Z", 500),
			crmDeal("3", "On trial", "organic", "2026-01-11T09:00:00Z", 1200),
			crmDeal("4", "Contract sent", "referral", "2026-01-12T15:00:00Z", 4000),
			crmDeal("5", "Payment Received", "organic", "2026-01-13T10:00:00Z", 2500),
			crmDeal("6", "Disqualified lead", "paid", "2026-01-13T11:00:00Z", 900),
			// previous period
			crmDeal("7", "Lead Generated", "organic", "2026-01-03T08:00:00Z", 0),
			// outside both windows
			crmDeal("8", "Won", "organic", "2025-12-01T08:00:00Z", 9999),
			// unparseable timestamp
			crmDeal("9", "Won", "organic", "not-a-date", 100),
		}
		json.NewEncoder(w).Encode(map[string]any{"deals": deals})
	}))
	defer srv.Close()

	conn := NewCRMConnector(NewHTTPClient(5*time.Second), srv.URL, config.DefaultStageMapping(), discardLogger())
	snap, err := conn.Fetch(context.Background(), crmRange())
	require.NoError(t, err)

	crm, ok := snap.(models.CRMSnapshot)
	require.True(t, ok)

	assert.Equal(t, 6, crm.NewLeads)
	assert.Equal(t, 2, crm.MQLs) // Lead Generated + Qualification
	assert.Equal(t, 1, crm.SQLs)
	assert.Equal(t, 1, crm.Opportunities)
	assert.Equal(t, 1, crm.ClosedWon)

	// lost deals never count toward pipeline value
	assert.InDelta(t, 8200.0, crm.PipelineValue, 1e-9)

	assert.Equal(t, float64(6), crm.WeekOverWeek.Leads.Current)
	assert.Equal(t, float64(1), crm.WeekOverWeek.Leads.Previous)

	require.NotEmpty(t, crm.LeadsBySource)
	assert.Equal(t, "organic", crm.LeadsBySource[0].Source)
	assert.Equal(t, 3, crm.LeadsBySource[0].Count)
}

func TestCRMStageMatchIsSubstringAndCaseInsensitive(t *testing.T) {
	stages := config.DefaultStageMapping()
	assert.True(t, matchStage("LEAD GENERATED (web)", stages.MQL))
	assert.True(t, matchStage("  on trial ", stages.SQL))
	assert.True(t, matchStage("payment received - wire", stages.Won))
	assert.False(t, matchStage("Prospecting", stages.MQL))
}

func TestCRMFetchUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	conn := NewCRMConnector(NewHTTPClient(5*time.Second), srv.URL, config.DefaultStageMapping(), discardLogger())
	_, err := conn.Fetch(context.Background(), crmRange())
	require.Error(t, err)

	var cerr *ConnectorError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, models.SourceCRM, cerr.Source)
}

func TestDealsInRangeBoundaries(t *testing.T) {
	start := time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	deals := []deal{
		{ID: "a", CreatedAt: "2026-01-08T00:00:00Z"}, // inclusive start
		{ID: "b", CreatedAt: "2026-01-14T23:59:59Z"}, // last instant inside
		{ID: "c", CreatedAt: "2026-01-15T00:00:00Z"}, // exclusive end
		{ID: "d", CreatedAt: "2026-01-07T23:59:59Z"}, // before start
	}
	got := dealsInRange(deals, start, end)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
}

func TestLeadsBySourceOrderingStable(t *testing.T) {
	deals := []deal{
		{Source: "b"}, {Source: "a"}, {Source: "a"}, {Source: "c"}, {Source: ""},
	}
	got := leadsBySource(deals)
	want := []models.LeadSource{
		{Source: "a", Count: 2},
		{Source: "b", Count: 1},
		{Source: "c", Count: 1},
		{Source: "unknown", Count: 1},
	}
	assert.Equal(t, want, got)
}

// Retries kick in on transient upstream failures before giving up.
func TestCRMFetchRetriesTransientFailure(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// fail the very first request only
		if r.URL.Query().Get("start") == "2026-01-08" && hits == 0 {
			hits++
			http.Error(w, "flaky", http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"deals":[]}`)
	}))
	defer srv.Close()

	conn := NewCRMConnector(NewHTTPClient(5*time.Second), srv.URL, config.DefaultStageMapping(), discardLogger())
	snap, err := conn.Fetch(context.Background(), crmRange())
	require.NoError(t, err)
	assert.Zero(t, snap.(models.CRMSnapshot).NewLeads)
}
