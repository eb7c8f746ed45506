package connectors

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/orionhq/gtm-insights/internal/models"
	"github.com/orionhq/gtm-insights/internal/utils"
)

// AdsConnector normalizes the ads-aggregator provider, which rolls up paid
// performance per platform (Google, Reddit, LinkedIn) for a date range.
type AdsConnector struct {
	c       HTTPClient
	baseURL string
	log     *slog.Logger
}

func NewAdsConnector(c HTTPClient, baseURL string, log *slog.Logger) *AdsConnector {
	return &AdsConnector{c: c, baseURL: baseURL, log: log}
}

func (a *AdsConnector) Name() string           { return models.SourceAds }
func (a *AdsConnector) Empty() models.Snapshot { return models.EmptyAdsSnapshot() }

type adsResp struct {
	GoogleAds   platformResp `json:"google_ads"`
	RedditAds   platformResp `json:"reddit_ads"`
	LinkedInAds platformResp `json:"linkedin_ads"`
}

type platformResp struct {
	Impressions int     `json:"impressions"`
	Clicks      int     `json:"clicks"`
	Spend       float64 `json:"spend"`
	Conversions int     `json:"conversions"`
}

func (a *AdsConnector) Fetch(ctx context.Context, dr models.DateRange) (models.Snapshot, error) {
	var curResp, prevResp adsResp
	url := func(start, end string) string {
		return fmt.Sprintf("%s/performance?start=%s&end=%s", a.baseURL, start, end)
	}

	errs := utils.RunConcurrent(ctx,
		func(ctx context.Context) error {
			return getJSONWithRetry(ctx, a.c, url(dr.Start, dr.End), &curResp)
		},
		func(ctx context.Context) error {
			return getJSONWithRetry(ctx, a.c, url(dr.ComparisonStart, dr.ComparisonEnd), &prevResp)
		},
	)
	for _, err := range errs {
		if err != nil {
			return nil, wrapErr(a.Name(), err)
		}
	}

	snap := models.EmptyAdsSnapshot()
	snap.GoogleAds = normalizePlatform(curResp.GoogleAds)
	snap.RedditAds = normalizePlatform(curResp.RedditAds)
	snap.LinkedInAds = normalizePlatform(curResp.LinkedInAds)
	snap.Totals = sumPlatforms(snap.GoogleAds, snap.RedditAds, snap.LinkedInAds)

	prevTotals := sumPlatforms(
		normalizePlatform(prevResp.GoogleAds),
		normalizePlatform(prevResp.RedditAds),
		normalizePlatform(prevResp.LinkedInAds),
	)

	snap.WeekOverWeek = models.AdsWoW{
		Impressions: models.WoWMetric{Current: float64(snap.Totals.Impressions), Previous: float64(prevTotals.Impressions)},
		Clicks:      models.WoWMetric{Current: float64(snap.Totals.Clicks), Previous: float64(prevTotals.Clicks)},
		Spend:       models.WoWMetric{Current: snap.Totals.Spend, Previous: prevTotals.Spend},
		Conversions: models.WoWMetric{Current: float64(snap.Totals.Conversions), Previous: float64(prevTotals.Conversions)},
		CTR:         models.WoWMetric{Current: snap.Totals.CTR, Previous: prevTotals.CTR},
		CPC:         models.WoWMetric{Current: snap.Totals.CPC, Previous: prevTotals.CPC},
	}
	return snap, nil
}

func normalizePlatform(p platformResp) models.PlatformStats {
	s := models.PlatformStats{
		Impressions: max0(p.Impressions),
		Clicks:      max0(p.Clicks),
		Spend:       maxf(p.Spend),
		Conversions: max0(p.Conversions),
	}
	s.CTR = pct(float64(s.Clicks), float64(s.Impressions))
	s.CPC = safeDiv(s.Spend, float64(s.Clicks))
	return s
}

func sumPlatforms(platforms ...models.PlatformStats) models.PlatformStats {
	var t models.PlatformStats
	for _, p := range platforms {
		t.Impressions += p.Impressions
		t.Clicks += p.Clicks
		t.Spend += p.Spend
		t.Conversions += p.Conversions
	}
	t.CTR = pct(float64(t.Clicks), float64(t.Impressions))
	t.CPC = safeDiv(t.Spend, float64(t.Clicks))
	return t
}
