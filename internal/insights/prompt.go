package insights

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/orionhq/gtm-insights/internal/models"
)

// analystSystemPrompt is the fixed instruction block shared by every
// insight call. The schema contract lives in the user prompt so the system
// prompt stays cacheable across runs.
const analystSystemPrompt = `You are a GTM (Go-To-Market) intelligence analyst. Analyze the provided marketing data and return ONLY valid JSON matching the requested schema. The JSON must include every required section. Do not include markdown code blocks, explanations, or any text outside the JSON object.`

func buildInsightUserPrompt(input models.AggregatedInput) string {
	payload, _ := json.MarshalIndent(input, "", "  ")

	var b strings.Builder
	bc := input.BusinessContext
	fmt.Fprintf(&b, `# GTM Intelligence Analyst

## Your Persona
- You think like a VP of Marketing who has seen hundreds of campaigns
- You prioritize ruthlessly - not everything is urgent
- You're direct and actionable - no fluff
- You connect dots across channels that others might miss

## Key Rules
1. Be specific - "Reduce US budget by $500" not "Consider budget changes"
2. Quantify impact - "Could save $340/week" not "Could save money"
3. Be honest - if data is insufficient, say so
4. Think cross-channel - connect insights across sources
5. Percent change is always (current - previous) / previous * 100; when previous is 0 the change is 0.

## Business Context
Industry: %s
Target Audience: %s
Current Goals: %s
Monthly Budget: $%.0f
Target CPL: $%.0f
Target Leads: %d

## Benchmark Reference
- Website conversion rate: 2%%+
- MQL to SQL: 25%%+
- Bounce rate (good): <50%%

## REQUIRED: populate every section from the input data
Never leave a section empty. Map inputs to outputs as follows:
- geoInsights: from analytics.geoData - regionsToScale are top countries by sessions or conversion rate; regionsToReduce are countries with weak engagement. Always write a 2-4 sentence geoSummary.
- audienceInsights: from visitors.topCompanies plus the target audience; use topJobTitles only when the data supports it. Always write audienceSummary.
- pageInsights: from analytics.topPages - status per page, problemPages for high bounce or low conversion. Always write pageSummary.
- funnelInsights: from crm - stages are Leads, MQL, SQL, Opportunity, Closed Won with counts from the snapshot and conversionToNext from crm.conversionRates; bottlenecks where conversion drops. Always write funnelSummary.
- trends.summary: one entry per weekOverWeek metric in the input (analytics sessions and conversions; crm leads, mqls, sqls; visitors visitors and pageViews; ads impressions, clicks, spend, conversions, ctr, cpc when present). Use the exact current/previous values, compute change with the rule above, and write a 2-4 sentence trendNarrative.
- strategicRecommendations: at least 2 priorityActions, 2 opportunities, and 2 risks, plus a weeklyFocus paragraph.
- adsInsights: REQUIRED when the ads snapshot has any spend or impressions; one platformPerformance entry per platform, totals, and an adsSummary. Omit the section entirely when the ads snapshot is all zeros.

Return a JSON object with these top-level keys and no others:
generatedAt, executiveSummary, immediateActions, geoInsights, audienceInsights, pageInsights, funnelInsights, budgetInsights, channelHealth, trends, goalTracking, strategicRecommendations, crossChannelInsights, adsInsights (optional).

## Input Data (period %s to %s, compared with %s to %s)

%s

Return ONLY the JSON object, no markdown formatting.`,
		bc.Industry, bc.TargetAudience, strings.Join(bc.CurrentGoals, ", "),
		bc.MonthlyBudget, bc.TargetCPL, bc.TargetLeads,
		input.DateRange.Start, input.DateRange.End,
		input.DateRange.ComparisonStart, input.DateRange.ComparisonEnd,
		string(payload))
	return b.String()
}

const reportSystemPrompt = `You are the report formatter for weekly GTM performance reports. Convert the structured insights and raw data into a polished, long-form markdown report: an executive summary with a top-line metrics table, one section per data source, a funnel section, a trends section, and a closing "Data Quality & Methodology" section listing the data sources and date range. Use markdown tables for metrics, bold for key numbers, and a professional GTM tone. Output ONLY the markdown content, no JSON wrapper, no code fences.`

func buildReportUserPrompt(output models.InsightOutput, input models.AggregatedInput, sources []string) string {
	insightsJSON, _ := json.MarshalIndent(output, "", "  ")
	rawJSON, _ := json.MarshalIndent(input, "", "  ")

	var b strings.Builder
	fmt.Fprintf(&b, `Create the complete weekly GTM report for %s to %s (compared with %s to %s).

Data sources for this run: %s

INSIGHTS:
%s

RAW DATA:
%s

Use actual values from the data, mark anything unavailable as N/A, and end with the Data Quality & Methodology section. Return ONLY the markdown content.`,
		input.DateRange.Start, input.DateRange.End,
		input.DateRange.ComparisonStart, input.DateRange.ComparisonEnd,
		strings.Join(sources, ", "),
		string(insightsJSON), string(rawJSON))
	return b.String()
}
