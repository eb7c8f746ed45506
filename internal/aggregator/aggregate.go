// Package aggregator fans out to every configured connector for both
// comparison periods and assembles one shape-normalized AggregatedInput.
// Individual source failures degrade to zero-value snapshots; the run
// itself fails only when there is nothing to fan out to.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/orionhq/gtm-insights/internal/connectors"
	"github.com/orionhq/gtm-insights/internal/models"
	"github.com/orionhq/gtm-insights/internal/utils"
)

// ErrNoConnectors is the fail-fast configuration error: an aggregation run
// was requested with nothing to aggregate.
var ErrNoConnectors = errors.New("aggregator: no connectors configured")

// Meta is advisory telemetry about one aggregation run. Completeness is not
// a pass/fail gate.
type Meta struct {
	Timestamp         time.Time `json:"timestamp"`
	Completeness      string    `json:"completeness"`
	CompletenessPct   float64   `json:"completenessPct"`
	RequestedSources  int       `json:"requestedSources"`
	SuccessfulSources int       `json:"successfulSources"`
	Sources           []string  `json:"sources"`
	FailedSources     []string  `json:"failedSources"`
	Notes             []string  `json:"notes"`
}

type Aggregator struct {
	conns   []connectors.Connector
	timeout time.Duration
	bc      models.BusinessContext
	log     *slog.Logger
}

func New(conns []connectors.Connector, timeout time.Duration, bc models.BusinessContext, log *slog.Logger) *Aggregator {
	return &Aggregator{conns: conns, timeout: timeout, bc: bc, log: log}
}

// Aggregate runs every connector concurrently under its own timeout and
// joins with an all-settle: one slow or failing source never blocks or
// fails its siblings. Failed sources keep their pre-filled zero-value
// snapshot so the input shape is deterministic.
func (a *Aggregator) Aggregate(ctx context.Context, dr models.DateRange) (models.AggregatedInput, Meta, error) {
	meta := Meta{
		Timestamp:        time.Now().UTC(),
		Notes:            []string{},
		Sources:          []string{},
		FailedSources:    []string{},
		RequestedSources: len(a.conns),
	}
	input := models.NewAggregatedInput(dr, a.bc)

	if len(a.conns) == 0 {
		meta.Completeness = "0%"
		return input, meta, ErrNoConnectors
	}

	tasks := make([]func(context.Context) (models.Snapshot, error), len(a.conns))
	for i, c := range a.conns {
		c := c
		tasks[i] = func(ctx context.Context) (models.Snapshot, error) {
			ctx, cancel := context.WithTimeout(ctx, a.timeout)
			defer cancel()
			return c.Fetch(ctx, dr)
		}
	}

	outcomes := utils.SettleAll(ctx, tasks)
	for i, o := range outcomes {
		name := a.conns[i].Name()
		if o.Err != nil {
			a.log.Warn("connector failed, substituting zero snapshot",
				slog.String("source", name), slog.String("err", o.Err.Error()))
			meta.Notes = append(meta.Notes, fmt.Sprintf("%s: %v", name, o.Err))
			meta.FailedSources = append(meta.FailedSources, name)
			input.Attach(a.conns[i].Empty())
			continue
		}
		meta.SuccessfulSources++
		meta.Sources = append(meta.Sources, name)
		input.Attach(o.Value)
	}

	meta.CompletenessPct = float64(meta.SuccessfulSources) / float64(meta.RequestedSources) * 100
	meta.Completeness = fmt.Sprintf("%d%%", int(math.Round(meta.CompletenessPct)))

	input.Historical = buildHistorical(input.Analytics, input.CRM)

	a.log.Info("aggregation complete",
		slog.String("completeness", meta.Completeness),
		slog.Int("sources", meta.SuccessfulSources),
		slog.Int("requested", meta.RequestedSources))
	return input, meta, nil
}

// buildHistorical derives the rolling-baseline block from the snapshots at
// hand. Without a long-horizon warehouse the weekly lead volume stands in
// for the monthly average.
func buildHistorical(analytics models.AnalyticsSnapshot, crm models.CRMSnapshot) models.HistoricalBaseline {
	leadsPerWeek := (crm.NewLeads + crm.MQLs) / 4
	window := models.HistoricalWindow{
		AvgConversionRate: analytics.ConversionRate,
		AvgLeadsPerWeek:   leadsPerWeek,
	}
	return models.HistoricalBaseline{Last30Days: window, Last90Days: window}
}
