package connectors

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/orionhq/gtm-insights/internal/models"
	"github.com/orionhq/gtm-insights/internal/utils"
)

// AnalyticsConnector normalizes the web-analytics provider (sessions,
// pages, traffic sources, geography, devices) into an AnalyticsSnapshot.
type AnalyticsConnector struct {
	c       HTTPClient
	baseURL string
	log     *slog.Logger
}

func NewAnalyticsConnector(c HTTPClient, baseURL string, log *slog.Logger) *AnalyticsConnector {
	return &AnalyticsConnector{c: c, baseURL: baseURL, log: log}
}

func (a *AnalyticsConnector) Name() string          { return models.SourceAnalytics }
func (a *AnalyticsConnector) Empty() models.Snapshot { return models.EmptyAnalyticsSnapshot() }

type overviewResp struct {
	Sessions           int     `json:"sessions"`
	TotalUsers         int     `json:"total_users"`
	NewUsers           int     `json:"new_users"`
	BounceRate         float64 `json:"bounce_rate"`
	AvgSessionDuration float64 `json:"avg_session_duration"`
}

type pagesResp struct {
	Pages []struct {
		Path        string  `json:"path"`
		Sessions    int     `json:"sessions"`
		Conversions int     `json:"conversions"`
		BounceRate  float64 `json:"bounce_rate"`
	} `json:"pages"`
}

type sourcesResp struct {
	Sources []struct {
		Source      string `json:"source"`
		Medium      string `json:"medium"`
		Sessions    int    `json:"sessions"`
		Conversions int    `json:"conversions"`
	} `json:"sources"`
}

type geoResp struct {
	Countries []struct {
		Country     string `json:"country"`
		Sessions    int    `json:"sessions"`
		Conversions int    `json:"conversions"`
	} `json:"countries"`
}

type devicesResp struct {
	Devices []struct {
		Device         string  `json:"device"`
		Sessions       int     `json:"sessions"`
		ConversionRate float64 `json:"conversion_rate"`
	} `json:"devices"`
}

type eventsResp struct {
	Events []struct {
		Name        string  `json:"name"`
		Conversions float64 `json:"conversions"`
	} `json:"events"`
}

// Fetch issues all sub-queries for both periods concurrently. The current
// period's overview and events are load-bearing: if either fails the whole
// source fails and the aggregator substitutes the zero snapshot. Breakdown
// endpoints (pages, sources, geo, devices) degrade to empty lists.
func (a *AnalyticsConnector) Fetch(ctx context.Context, dr models.DateRange) (models.Snapshot, error) {
	var (
		curOverview, prevOverview overviewResp
		curEvents, prevEvents     eventsResp
		pages                     pagesResp
		sources                   sourcesResp
		geo                       geoResp
		devices                   devicesResp
	)

	cur := func(path string) string {
		return fmt.Sprintf("%s/%s?start=%s&end=%s", a.baseURL, path, dr.Start, dr.End)
	}
	prev := func(path string) string {
		return fmt.Sprintf("%s/%s?start=%s&end=%s", a.baseURL, path, dr.ComparisonStart, dr.ComparisonEnd)
	}

	errs := utils.RunConcurrent(ctx,
		func(ctx context.Context) error { return getJSONWithRetry(ctx, a.c, cur("overview"), &curOverview) },
		func(ctx context.Context) error { return getJSONWithRetry(ctx, a.c, cur("events"), &curEvents) },
		func(ctx context.Context) error { return getJSONWithRetry(ctx, a.c, prev("overview"), &prevOverview) },
		func(ctx context.Context) error { return getJSONWithRetry(ctx, a.c, prev("events"), &prevEvents) },
		func(ctx context.Context) error { return getJSON(ctx, a.c, cur("pages"), &pages) },
		func(ctx context.Context) error { return getJSON(ctx, a.c, cur("sources"), &sources) },
		func(ctx context.Context) error { return getJSON(ctx, a.c, cur("geo"), &geo) },
		func(ctx context.Context) error { return getJSON(ctx, a.c, cur("devices"), &devices) },
	)

	for _, err := range errs[:4] {
		if err != nil {
			return nil, wrapErr(a.Name(), err)
		}
	}
	for i, err := range errs[4:] {
		if err != nil {
			a.log.Warn("analytics breakdown degraded", slog.Int("endpoint", i), slog.String("err", err.Error()))
		}
	}

	snap := models.EmptyAnalyticsSnapshot()
	snap.TotalSessions = max0(curOverview.Sessions)
	snap.TotalUsers = max0(curOverview.TotalUsers)
	snap.NewUsers = max0(curOverview.NewUsers)
	snap.BounceRate = maxf(curOverview.BounceRate) * 100
	snap.AvgSessionDuration = maxf(curOverview.AvgSessionDuration)

	curConversions := sumConversions(curEvents)
	prevConversions := sumConversions(prevEvents)
	snap.Conversions = int(math.Round(curConversions))
	snap.ConversionRate = pct(curConversions, float64(curOverview.Sessions))

	for _, p := range limit(pages.Pages, 20) {
		snap.TopPages = append(snap.TopPages, models.PageStat{
			Path:        p.Path,
			Sessions:    max0(p.Sessions),
			Conversions: max0(p.Conversions),
			BounceRate:  maxf(p.BounceRate) * 100,
		})
	}
	for _, s := range limit(sources.Sources, 15) {
		snap.TrafficSources = append(snap.TrafficSources, models.TrafficSource{
			Source:      s.Source,
			Medium:      s.Medium,
			Sessions:    max0(s.Sessions),
			Conversions: max0(s.Conversions),
		})
	}
	for _, c := range limit(geo.Countries, 15) {
		snap.GeoData = append(snap.GeoData, models.GeoStat{
			Country:     c.Country,
			Sessions:    max0(c.Sessions),
			Conversions: max0(c.Conversions),
		})
	}
	for _, d := range limit(devices.Devices, 5) {
		snap.DeviceData = append(snap.DeviceData, models.DeviceStat{
			Device:         d.Device,
			Sessions:       max0(d.Sessions),
			ConversionRate: maxf(d.ConversionRate),
		})
	}

	snap.WeekOverWeek = models.AnalyticsWoW{
		Sessions: models.WoWMetric{
			Current:  float64(curOverview.Sessions),
			Previous: float64(prevOverview.Sessions),
		},
		Conversions: models.WoWMetric{
			Current:  math.Round(curConversions),
			Previous: math.Round(prevConversions),
		},
	}
	return snap, nil
}

func sumConversions(r eventsResp) float64 {
	var total float64
	for _, e := range r.Events {
		total += maxf(e.Conversions)
	}
	return total
}

func limit[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
