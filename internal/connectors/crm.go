package connectors

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/orionhq/gtm-insights/internal/config"
	"github.com/orionhq/gtm-insights/internal/models"
	"github.com/orionhq/gtm-insights/internal/utils"
)

// CRMConnector normalizes the CRM's deals-by-stage feed into the funnel
// snapshot (leads, MQL, SQL, opportunity, won, pipeline value).
type CRMConnector struct {
	c       HTTPClient
	baseURL string
	stages  config.StageMapping
	log     *slog.Logger
}

func NewCRMConnector(c HTTPClient, baseURL string, stages config.StageMapping, log *slog.Logger) *CRMConnector {
	return &CRMConnector{c: c, baseURL: baseURL, stages: stages, log: log}
}

func (h *CRMConnector) Name() string           { return models.SourceCRM }
func (h *CRMConnector) Empty() models.Snapshot { return models.EmptyCRMSnapshot() }

type dealsResp struct {
	Deals []deal `json:"deals"`
}

type deal struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Stage     string  `json:"stage"`
	Amount    float64 `json:"amount"`
	Source    string  `json:"source"`
	CreatedAt string  `json:"created_at"`
}

func (d deal) createdAt() (time.Time, bool) {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(d.CreatedAt))
	return t, err == nil
}

type funnelCounts struct {
	leads, mqls, sqls, opportunities, closedWon int
	pipelineValue                               float64
}

// Fetch pulls both periods concurrently and maps raw stage names onto the
// normalized funnel via the configured substring mapping.
func (h *CRMConnector) Fetch(ctx context.Context, dr models.DateRange) (models.Snapshot, error) {
	var curResp, prevResp dealsResp
	url := func(start, end string) string {
		return fmt.Sprintf("%s/deals?start=%s&end=%s", h.baseURL, start, end)
	}

	errs := utils.RunConcurrent(ctx,
		func(ctx context.Context) error {
			return getJSONWithRetry(ctx, h.c, url(dr.Start, dr.End), &curResp)
		},
		func(ctx context.Context) error {
			return getJSONWithRetry(ctx, h.c, url(dr.ComparisonStart, dr.ComparisonEnd), &prevResp)
		},
	)
	for _, err := range errs {
		if err != nil {
			return nil, wrapErr(h.Name(), err)
		}
	}

	// The upstream does not filter by date natively, so restrict each
	// record list to its period client-side before reducing.
	curStart, curEnd := dr.CurrentBounds()
	prevStart, prevEnd := dr.PreviousBounds()
	curDeals := dealsInRange(curResp.Deals, curStart, curEnd)
	prevDeals := dealsInRange(prevResp.Deals, prevStart, prevEnd)

	cur := h.reduceFunnel(curDeals)
	prev := h.reduceFunnel(prevDeals)

	snap := models.EmptyCRMSnapshot()
	snap.NewLeads = cur.leads
	snap.MQLs = cur.mqls
	snap.SQLs = cur.sqls
	snap.Opportunities = cur.opportunities
	snap.ClosedWon = cur.closedWon
	snap.PipelineValue = cur.pipelineValue
	snap.LeadsBySource = leadsBySource(curDeals)
	snap.ConversionRates = models.ConversionRates{
		LeadToMQL:  pct(float64(cur.mqls), float64(cur.leads)),
		MQLToSQL:   pct(float64(cur.sqls), float64(cur.mqls)),
		SQLToOpp:   pct(float64(cur.opportunities), float64(cur.sqls)),
		OppToClose: pct(float64(cur.closedWon), float64(cur.opportunities)),
	}
	snap.WeekOverWeek = models.CRMWoW{
		Leads: models.WoWMetric{Current: float64(cur.leads), Previous: float64(prev.leads)},
		MQLs:  models.WoWMetric{Current: float64(cur.mqls), Previous: float64(prev.mqls)},
		SQLs:  models.WoWMetric{Current: float64(cur.sqls), Previous: float64(prev.sqls)},
	}
	return snap, nil
}

// dealsInRange is the reusable filter-then-reduce restriction: keep records
// whose creation instant falls inside [start, end).
func dealsInRange(deals []deal, start, end time.Time) []deal {
	out := make([]deal, 0, len(deals))
	for _, d := range deals {
		t, ok := d.createdAt()
		if !ok {
			continue
		}
		if !t.Before(start) && t.Before(end) {
			out = append(out, d)
		}
	}
	return out
}

func (h *CRMConnector) reduceFunnel(deals []deal) funnelCounts {
	var f funnelCounts
	f.leads = len(deals)
	for _, d := range deals {
		switch {
		case matchStage(d.Stage, h.stages.MQL):
			f.mqls++
		case matchStage(d.Stage, h.stages.SQL):
			f.sqls++
		case matchStage(d.Stage, h.stages.Opportunity):
			f.opportunities++
		case matchStage(d.Stage, h.stages.Won):
			f.closedWon++
		}
		if !matchStage(d.Stage, h.stages.Lost) {
			f.pipelineValue += maxf(d.Amount)
		}
	}
	return f
}

func matchStage(raw string, names []string) bool {
	raw = strings.ToLower(strings.TrimSpace(raw))
	for _, n := range names {
		if n != "" && strings.Contains(raw, strings.ToLower(n)) {
			return true
		}
	}
	return false
}

func leadsBySource(deals []deal) []models.LeadSource {
	counts := map[string]int{}
	for _, d := range deals {
		src := strings.TrimSpace(d.Source)
		if src == "" {
			src = "unknown"
		}
		counts[src]++
	}
	out := make([]models.LeadSource, 0, len(counts))
	for src, n := range counts {
		out = append(out, models.LeadSource{Source: src, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Source < out[j].Source
	})
	return out
}
