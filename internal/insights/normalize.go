package insights

import (
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/orionhq/gtm-insights/internal/models"
)

// StripFences removes a surrounding markdown code fence from an LLM reply.
// Models sometimes wrap JSON in ```json ... ``` despite instructions.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// parseOutput decodes the model reply into an InsightOutput. When the reply
// is not valid JSON it returns a degraded output that carries the raw text
// as the summary so a run never loses the model's analysis. The second
// return reports whether the degraded path was taken.
func parseOutput(raw string, now time.Time) (models.InsightOutput, bool) {
	cleaned := StripFences(raw)

	var out models.InsightOutput
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		out = models.InsightOutput{
			ExecutiveSummary: models.ExecutiveSummary{
				AISummary:            truncate(cleaned, 2000),
				GTMHealthScore:       0,
				HealthScoreReasoning: "Structured output could not be parsed; raw analysis preserved in aiSummary",
				Sentiment:            "neutral",
			},
		}
		fillDefaults(&out, now)
		return out, true
	}
	fillDefaults(&out, now)
	return out, false
}

const unavailable = "Data unavailable for this period"

// fillDefaults backfills every section the model left empty so downstream
// consumers can rely on the full shape being present. AdsInsights stays nil
// unless the model produced it.
func fillDefaults(out *models.InsightOutput, now time.Time) {
	out.GeneratedAt = now

	es := &out.ExecutiveSummary
	if es.AISummary == "" {
		es.AISummary = unavailable
	}
	if es.Sentiment == "" {
		es.Sentiment = "neutral"
	}
	if es.KeyHighlights == nil {
		es.KeyHighlights = []string{}
	}
	if es.KeyLowlights == nil {
		es.KeyLowlights = []string{}
	}

	ia := &out.ImmediateActions
	if ia.AdsToPause == nil {
		ia.AdsToPause = []models.AdAlert{}
	}
	if ia.AdsToFix == nil {
		ia.AdsToFix = []models.AdAlert{}
	}
	if ia.TrackingIssues == nil {
		ia.TrackingIssues = []models.DataAlert{}
	}
	if ia.BudgetAlerts == nil {
		ia.BudgetAlerts = []models.BudgetAlert{}
	}

	geo := &out.GeoInsights
	if geo.RegionsToScale == nil {
		geo.RegionsToScale = []models.GeoRecommendation{}
	}
	if geo.RegionsToReduce == nil {
		geo.RegionsToReduce = []models.GeoWarning{}
	}
	if geo.GeoSummary == "" {
		geo.GeoSummary = unavailable
	}

	aud := &out.AudienceInsights
	if aud.TopJobTitles == nil {
		aud.TopJobTitles = []models.JobTitleInsight{}
	}
	if aud.AudienceSaturation == nil {
		aud.AudienceSaturation = []models.AudienceSaturation{}
	}
	if aud.AudienceSummary == "" {
		aud.AudienceSummary = unavailable
	}

	pg := &out.PageInsights
	if pg.TopPages == nil {
		pg.TopPages = []models.PagePerformance{}
	}
	if pg.ProblemPages == nil {
		pg.ProblemPages = []models.PageIssue{}
	}
	if pg.PageSummary == "" {
		pg.PageSummary = unavailable
	}

	fn := &out.FunnelInsights
	if fn.Stages == nil {
		fn.Stages = []models.FunnelStage{}
	}
	if fn.Bottlenecks == nil {
		fn.Bottlenecks = []models.FunnelBottleneck{}
	}
	if fn.FunnelSummary == "" {
		fn.FunnelSummary = unavailable
	}

	bg := &out.BudgetInsights
	if bg.Overview == nil {
		bg.Overview = []models.BudgetOverview{}
	}
	if bg.Reallocations == nil {
		bg.Reallocations = []models.BudgetReallocation{}
	}
	if bg.BudgetSummary == "" {
		bg.BudgetSummary = unavailable
	}

	if out.ChannelHealth == nil {
		out.ChannelHealth = []models.ChannelHealth{}
	}

	tr := &out.Trends
	if tr.Summary == nil {
		tr.Summary = []models.TrendSummary{}
	}
	if tr.Anomalies == nil {
		tr.Anomalies = []models.Anomaly{}
	}
	if tr.TrendNarrative == "" {
		tr.TrendNarrative = unavailable
	}

	gt := &out.GoalTracking
	if gt.Goals == nil {
		gt.Goals = []models.GoalProgress{}
	}
	if gt.OverallStatus == "" {
		gt.OverallStatus = "unknown"
	}

	sr := &out.StrategicRecommendations
	if sr.PriorityActions == nil {
		sr.PriorityActions = []models.PriorityAction{}
	}
	if sr.Opportunities == nil {
		sr.Opportunities = []models.GrowthOpportunity{}
	}
	if sr.Risks == nil {
		sr.Risks = []models.Risk{}
	}
	if sr.WeeklyFocus == "" {
		sr.WeeklyFocus = unavailable
	}

	if out.CrossChannelInsights == nil {
		out.CrossChannelInsights = []models.CrossChannelInsight{}
	}

	if ads := out.AdsInsights; ads != nil {
		if ads.PlatformPerformance == nil {
			ads.PlatformPerformance = []models.PlatformPerformance{}
		}
		if ads.KeyFindings == nil {
			ads.KeyFindings = []string{}
		}
		if ads.ActionableRecommendations == nil {
			ads.ActionableRecommendations = []string{}
		}
		if ads.AdsSummary == "" {
			ads.AdsSummary = unavailable
		}
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
