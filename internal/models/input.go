package models

// BusinessContext describes the business the analyst prompt reasons about.
// Values come from configuration, not from any upstream provider.
type BusinessContext struct {
	Industry       string   `json:"industry" bson:"industry"`
	TargetAudience string   `json:"targetAudience" bson:"targetAudience"`
	CurrentGoals   []string `json:"currentGoals" bson:"currentGoals"`
	MonthlyBudget  float64  `json:"monthlyBudget" bson:"monthlyBudget"`
	TargetCPL      float64  `json:"targetCPL" bson:"targetCPL"`
	TargetLeads    int      `json:"targetLeads" bson:"targetLeads"`
}

// HistoricalWindow holds rolling averages over a fixed lookback.
type HistoricalWindow struct {
	AvgCPL            float64 `json:"avgCPL" bson:"avgCPL"`
	AvgConversionRate float64 `json:"avgConversionRate" bson:"avgConversionRate"`
	AvgLeadsPerWeek   int     `json:"avgLeadsPerWeek" bson:"avgLeadsPerWeek"`
}

// HistoricalBaseline gives the model 30- and 90-day context to compare the
// current week against.
type HistoricalBaseline struct {
	Last30Days HistoricalWindow `json:"last30Days" bson:"last30Days"`
	Last90Days HistoricalWindow `json:"last90Days" bson:"last90Days"`
}

// AggregatedInput is the sole input contract to the insight generator. Its
// shape is deterministic: every source key is always present, holding the
// source's zero-value snapshot when the connector failed or was not
// requested. It is built fresh per run and never mutated after handoff.
type AggregatedInput struct {
	DateRange       DateRange          `json:"dateRange" bson:"dateRange"`
	BusinessContext BusinessContext    `json:"businessContext" bson:"businessContext"`
	Analytics       AnalyticsSnapshot  `json:"analytics" bson:"analytics"`
	CRM             CRMSnapshot        `json:"crm" bson:"crm"`
	Visitors        VisitorSnapshot    `json:"visitors" bson:"visitors"`
	Ads             AdsSnapshot        `json:"ads" bson:"ads"`
	Historical      HistoricalBaseline `json:"historicalData" bson:"historicalData"`
}

// NewAggregatedInput pre-fills every source slot with its zero-value
// snapshot so the shape stays fixed regardless of which connectors succeed.
func NewAggregatedInput(dr DateRange, bc BusinessContext) AggregatedInput {
	if bc.CurrentGoals == nil {
		bc.CurrentGoals = []string{}
	}
	return AggregatedInput{
		DateRange:       dr,
		BusinessContext: bc,
		Analytics:       EmptyAnalyticsSnapshot(),
		CRM:             EmptyCRMSnapshot(),
		Visitors:        EmptyVisitorSnapshot(),
		Ads:             EmptyAdsSnapshot(),
	}
}

// Attach places a snapshot into its slot. Unknown snapshot types are
// ignored; the pre-filled zero value stays in place.
func (in *AggregatedInput) Attach(s Snapshot) {
	switch v := s.(type) {
	case AnalyticsSnapshot:
		in.Analytics = v
	case CRMSnapshot:
		in.CRM = v
	case VisitorSnapshot:
		in.Visitors = v
	case AdsSnapshot:
		in.Ads = v
	}
}

// SnapshotFor returns the snapshot currently occupying a source slot.
func (in *AggregatedInput) SnapshotFor(source string) Snapshot {
	switch source {
	case SourceAnalytics:
		return in.Analytics
	case SourceCRM:
		return in.CRM
	case SourceVisitors:
		return in.Visitors
	case SourceAds:
		return in.Ads
	}
	return nil
}
