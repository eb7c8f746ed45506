package models

// Snapshot is the shape every connector normalizes its provider response
// into: a fixed-shape metrics record for one source over one period. A
// connector always has an empty-but-valid snapshot to substitute on failure,
// so consumers branch on emptiness, never on presence.
type Snapshot interface {
	Source() string
}

// WoWMetric is one tracked metric compared across the current and previous
// seven-day periods.
type WoWMetric struct {
	Current  float64 `json:"current" bson:"current"`
	Previous float64 `json:"previous" bson:"previous"`
}

// ChangePct returns the week-over-week change as a percentage. When the
// previous value is zero the change is defined as zero, never NaN or Inf.
func (m WoWMetric) ChangePct() float64 {
	if m.Previous == 0 {
		return 0
	}
	return (m.Current - m.Previous) / m.Previous * 100
}

// --- Web analytics (sessions, pages, geography) ---

type PageStat struct {
	Path        string  `json:"path" bson:"path"`
	Sessions    int     `json:"sessions" bson:"sessions"`
	Conversions int     `json:"conversions" bson:"conversions"`
	BounceRate  float64 `json:"bounceRate" bson:"bounceRate"`
}

type TrafficSource struct {
	Source      string `json:"source" bson:"source"`
	Medium      string `json:"medium" bson:"medium"`
	Sessions    int    `json:"sessions" bson:"sessions"`
	Conversions int    `json:"conversions" bson:"conversions"`
}

type GeoStat struct {
	Country     string `json:"country" bson:"country"`
	Sessions    int    `json:"sessions" bson:"sessions"`
	Conversions int    `json:"conversions" bson:"conversions"`
}

type DeviceStat struct {
	Device         string  `json:"device" bson:"device"`
	Sessions       int     `json:"sessions" bson:"sessions"`
	ConversionRate float64 `json:"conversionRate" bson:"conversionRate"`
}

type AnalyticsWoW struct {
	Sessions    WoWMetric `json:"sessions" bson:"sessions"`
	Conversions WoWMetric `json:"conversions" bson:"conversions"`
}

type AnalyticsSnapshot struct {
	TotalSessions      int             `json:"totalSessions" bson:"totalSessions"`
	TotalUsers         int             `json:"totalUsers" bson:"totalUsers"`
	NewUsers           int             `json:"newUsers" bson:"newUsers"`
	Conversions        int             `json:"conversions" bson:"conversions"`
	ConversionRate     float64         `json:"conversionRate" bson:"conversionRate"`
	BounceRate         float64         `json:"bounceRate" bson:"bounceRate"`
	AvgSessionDuration float64         `json:"avgSessionDuration" bson:"avgSessionDuration"`
	TopPages           []PageStat      `json:"topPages" bson:"topPages"`
	TrafficSources     []TrafficSource `json:"trafficSources" bson:"trafficSources"`
	GeoData            []GeoStat       `json:"geoData" bson:"geoData"`
	DeviceData         []DeviceStat    `json:"deviceData" bson:"deviceData"`
	WeekOverWeek       AnalyticsWoW    `json:"weekOverWeek" bson:"weekOverWeek"`
}

func (AnalyticsSnapshot) Source() string { return SourceAnalytics }

func EmptyAnalyticsSnapshot() AnalyticsSnapshot {
	return AnalyticsSnapshot{
		TopPages:       []PageStat{},
		TrafficSources: []TrafficSource{},
		GeoData:        []GeoStat{},
		DeviceData:     []DeviceStat{},
	}
}

// --- CRM funnel (deals by stage) ---

type LeadSource struct {
	Source string `json:"source" bson:"source"`
	Count  int    `json:"count" bson:"count"`
}

type ConversionRates struct {
	LeadToMQL  float64 `json:"leadToMql" bson:"leadToMql"`
	MQLToSQL   float64 `json:"mqlToSql" bson:"mqlToSql"`
	SQLToOpp   float64 `json:"sqlToOpp" bson:"sqlToOpp"`
	OppToClose float64 `json:"oppToClose" bson:"oppToClose"`
}

type CRMWoW struct {
	Leads WoWMetric `json:"leads" bson:"leads"`
	MQLs  WoWMetric `json:"mqls" bson:"mqls"`
	SQLs  WoWMetric `json:"sqls" bson:"sqls"`
}

type CRMSnapshot struct {
	NewLeads        int             `json:"newLeads" bson:"newLeads"`
	MQLs            int             `json:"mqls" bson:"mqls"`
	SQLs            int             `json:"sqls" bson:"sqls"`
	Opportunities   int             `json:"opportunities" bson:"opportunities"`
	ClosedWon       int             `json:"closedWon" bson:"closedWon"`
	PipelineValue   float64         `json:"pipelineValue" bson:"pipelineValue"`
	LeadsBySource   []LeadSource    `json:"leadsBySource" bson:"leadsBySource"`
	ConversionRates ConversionRates `json:"conversionRates" bson:"conversionRates"`
	WeekOverWeek    CRMWoW          `json:"weekOverWeek" bson:"weekOverWeek"`
}

func (CRMSnapshot) Source() string { return SourceCRM }

func EmptyCRMSnapshot() CRMSnapshot {
	return CRMSnapshot{LeadsBySource: []LeadSource{}}
}

// --- Identified visitors ---

type CompanyVisits struct {
	CompanyName string `json:"companyName" bson:"companyName"`
	PageViews   int    `json:"pageViews" bson:"pageViews"`
	LastSeen    string `json:"lastSeen" bson:"lastSeen"`
}

type VisitorWoW struct {
	Visitors  WoWMetric `json:"visitors" bson:"visitors"`
	PageViews WoWMetric `json:"pageViews" bson:"pageViews"`
}

type VisitorSnapshot struct {
	TotalVisitors  int             `json:"totalVisitors" bson:"totalVisitors"`
	TotalPageViews int             `json:"totalPageViews" bson:"totalPageViews"`
	TopCompanies   []CompanyVisits `json:"topCompanies" bson:"topCompanies"`
	WeekOverWeek   VisitorWoW      `json:"weekOverWeek" bson:"weekOverWeek"`
}

func (VisitorSnapshot) Source() string { return SourceVisitors }

func EmptyVisitorSnapshot() VisitorSnapshot {
	return VisitorSnapshot{TopCompanies: []CompanyVisits{}}
}

// --- Paid ads (per-platform aggregator) ---

type PlatformStats struct {
	Impressions int     `json:"impressions" bson:"impressions"`
	Clicks      int     `json:"clicks" bson:"clicks"`
	Spend       float64 `json:"spend" bson:"spend"`
	Conversions int     `json:"conversions" bson:"conversions"`
	CTR         float64 `json:"ctr" bson:"ctr"`
	CPC         float64 `json:"cpc" bson:"cpc"`
}

type AdsWoW struct {
	Impressions WoWMetric `json:"impressions" bson:"impressions"`
	Clicks      WoWMetric `json:"clicks" bson:"clicks"`
	Spend       WoWMetric `json:"spend" bson:"spend"`
	Conversions WoWMetric `json:"conversions" bson:"conversions"`
	CTR         WoWMetric `json:"ctr" bson:"ctr"`
	CPC         WoWMetric `json:"cpc" bson:"cpc"`
}

type AdsSnapshot struct {
	GoogleAds    PlatformStats `json:"googleAds" bson:"googleAds"`
	RedditAds    PlatformStats `json:"redditAds" bson:"redditAds"`
	LinkedInAds  PlatformStats `json:"linkedInAds" bson:"linkedInAds"`
	Totals       PlatformStats `json:"totals" bson:"totals"`
	WeekOverWeek AdsWoW        `json:"weekOverWeek" bson:"weekOverWeek"`
}

func (AdsSnapshot) Source() string { return SourceAds }

func EmptyAdsSnapshot() AdsSnapshot { return AdsSnapshot{} }

// Source identifiers. These are the keys connectors register under and the
// field names snapshots occupy in AggregatedInput.
const (
	SourceAnalytics = "analytics"
	SourceCRM       = "crm"
	SourceVisitors  = "visitors"
	SourceAds       = "ads"
)

// EmptySnapshot returns the zero-value snapshot for a source name. Unknown
// sources return nil.
func EmptySnapshot(source string) Snapshot {
	switch source {
	case SourceAnalytics:
		return EmptyAnalyticsSnapshot()
	case SourceCRM:
		return EmptyCRMSnapshot()
	case SourceVisitors:
		return EmptyVisitorSnapshot()
	case SourceAds:
		return EmptyAdsSnapshot()
	}
	return nil
}
