package models

import "time"

// InsightOutput is the structured result of the insight generation stage.
// Every top-level section is always present: when the model omits a section
// or the response cannot be parsed at all, the section is backfilled with
// its empty-but-valid default. Consumers check emptiness of arrays, never
// presence of keys. GeneratedAt is always set by the generator, never
// trusted from the model.
type InsightOutput struct {
	GeneratedAt time.Time `json:"generatedAt" bson:"generatedAt"`

	ExecutiveSummary         ExecutiveSummary         `json:"executiveSummary" bson:"executiveSummary"`
	ImmediateActions         ImmediateActions         `json:"immediateActions" bson:"immediateActions"`
	GeoInsights              GeoInsights              `json:"geoInsights" bson:"geoInsights"`
	AudienceInsights         AudienceInsights         `json:"audienceInsights" bson:"audienceInsights"`
	PageInsights             PageInsights             `json:"pageInsights" bson:"pageInsights"`
	FunnelInsights           FunnelInsights           `json:"funnelInsights" bson:"funnelInsights"`
	BudgetInsights           BudgetInsights           `json:"budgetInsights" bson:"budgetInsights"`
	ChannelHealth            []ChannelHealth          `json:"channelHealth" bson:"channelHealth"`
	Trends                   Trends                   `json:"trends" bson:"trends"`
	GoalTracking             GoalTracking             `json:"goalTracking" bson:"goalTracking"`
	StrategicRecommendations StrategicRecommendations `json:"strategicRecommendations" bson:"strategicRecommendations"`
	CrossChannelInsights     []CrossChannelInsight    `json:"crossChannelInsights" bson:"crossChannelInsights"`

	// AdsInsights is the one optional section: present only when the ads
	// connector supplied data for the run.
	AdsInsights *AdsInsights `json:"adsInsights,omitempty" bson:"adsInsights,omitempty"`
}

type ExecutiveSummary struct {
	AISummary            string   `json:"aiSummary" bson:"aiSummary"`
	GTMHealthScore       int      `json:"gtmHealthScore" bson:"gtmHealthScore"`
	HealthScoreReasoning string   `json:"healthScoreReasoning" bson:"healthScoreReasoning"`
	Sentiment            string   `json:"sentiment" bson:"sentiment"`
	KeyHighlights        []string `json:"keyHighlights" bson:"keyHighlights"`
	KeyLowlights         []string `json:"keyLowlights" bson:"keyLowlights"`
}

type AdAlert struct {
	CampaignName   string  `json:"campaignName" bson:"campaignName"`
	AccountName    string  `json:"accountName" bson:"accountName"`
	Issue          string  `json:"issue" bson:"issue"`
	Severity       string  `json:"severity" bson:"severity"`
	Impact         string  `json:"impact" bson:"impact"`
	Recommendation string  `json:"recommendation" bson:"recommendation"`
	QuickAction    string  `json:"quickAction" bson:"quickAction"`
}

type DataAlert struct {
	Source       string `json:"source" bson:"source"`
	Issue        string `json:"issue" bson:"issue"`
	Detected     string `json:"detected" bson:"detected"`
	Impact       string `json:"impact" bson:"impact"`
	SuggestedFix string `json:"suggestedFix" bson:"suggestedFix"`
}

type BudgetAlert struct {
	Account            string  `json:"account" bson:"account"`
	AlertType          string  `json:"alertType" bson:"alertType"`
	CurrentSpend       float64 `json:"currentSpend" bson:"currentSpend"`
	ExpectedSpend      float64 `json:"expectedSpend" bson:"expectedSpend"`
	ProjectedMonthEnd  float64 `json:"projectedMonthEnd" bson:"projectedMonthEnd"`
	MonthlyBudget      float64 `json:"monthlyBudget" bson:"monthlyBudget"`
	Recommendation     string  `json:"recommendation" bson:"recommendation"`
}

type ImmediateActions struct {
	AdsToPause     []AdAlert     `json:"adsToPause" bson:"adsToPause"`
	AdsToFix       []AdAlert     `json:"adsToFix" bson:"adsToFix"`
	TrackingIssues []DataAlert   `json:"trackingIssues" bson:"trackingIssues"`
	BudgetAlerts   []BudgetAlert `json:"budgetAlerts" bson:"budgetAlerts"`
}

type GeoRecommendation struct {
	Region                string  `json:"region" bson:"region"`
	Country               string  `json:"country" bson:"country"`
	Leads                 int     `json:"leads" bson:"leads"`
	Spend                 float64 `json:"spend" bson:"spend"`
	CPL                   float64 `json:"cpl" bson:"cpl"`
	Recommendation        string  `json:"recommendation" bson:"recommendation"`
	SuggestedBudgetChange string  `json:"suggestedBudgetChange" bson:"suggestedBudgetChange"`
	Reasoning             string  `json:"reasoning" bson:"reasoning"`
}

type GeoWarning struct {
	Region           string  `json:"region" bson:"region"`
	Country          string  `json:"country" bson:"country"`
	Leads            int     `json:"leads" bson:"leads"`
	Spend            float64 `json:"spend" bson:"spend"`
	CPL              float64 `json:"cpl" bson:"cpl"`
	Issue            string  `json:"issue" bson:"issue"`
	Recommendation   string  `json:"recommendation" bson:"recommendation"`
	Reasoning        string  `json:"reasoning" bson:"reasoning"`
	PotentialSavings float64 `json:"potentialSavings" bson:"potentialSavings"`
}

type GeoInsights struct {
	RegionsToScale  []GeoRecommendation `json:"regionsToScale" bson:"regionsToScale"`
	RegionsToReduce []GeoWarning        `json:"regionsToReduce" bson:"regionsToReduce"`
	GeoSummary      string              `json:"geoSummary" bson:"geoSummary"`
}

type JobTitleInsight struct {
	JobTitle       string  `json:"jobTitle" bson:"jobTitle"`
	Impressions    int     `json:"impressions" bson:"impressions"`
	Clicks         int     `json:"clicks" bson:"clicks"`
	Leads          int     `json:"leads" bson:"leads"`
	CPL            float64 `json:"cpl" bson:"cpl"`
	Performance    string  `json:"performance" bson:"performance"`
	Recommendation string  `json:"recommendation" bson:"recommendation"`
}

type AudienceSaturation struct {
	AudienceName     string  `json:"audienceName" bson:"audienceName"`
	FrequencyScore   float64 `json:"frequencyScore" bson:"frequencyScore"`
	FatigueIndicator bool    `json:"fatigueIndicator" bson:"fatigueIndicator"`
	Recommendation   string  `json:"recommendation" bson:"recommendation"`
}

type AudienceInsights struct {
	TopJobTitles       []JobTitleInsight    `json:"topJobTitles" bson:"topJobTitles"`
	AudienceSaturation []AudienceSaturation `json:"audienceSaturation" bson:"audienceSaturation"`
	AudienceSummary    string               `json:"audienceSummary" bson:"audienceSummary"`
}

type PagePerformance struct {
	PagePath       string  `json:"pagePath" bson:"pagePath"`
	PageTitle      string  `json:"pageTitle" bson:"pageTitle"`
	Sessions       int     `json:"sessions" bson:"sessions"`
	Conversions    int     `json:"conversions" bson:"conversions"`
	ConversionRate float64 `json:"conversionRate" bson:"conversionRate"`
	BounceRate     float64 `json:"bounceRate" bson:"bounceRate"`
	Status         string  `json:"status" bson:"status"`
}

type PageIssue struct {
	PagePath        string   `json:"pagePath" bson:"pagePath"`
	PageTitle       string   `json:"pageTitle" bson:"pageTitle"`
	Sessions        int      `json:"sessions" bson:"sessions"`
	Issue           string   `json:"issue" bson:"issue"`
	PotentialImpact string   `json:"potentialImpact" bson:"potentialImpact"`
	Recommendations []string `json:"recommendations" bson:"recommendations"`
	Priority        string   `json:"priority" bson:"priority"`
}

type PageInsights struct {
	TopPages     []PagePerformance `json:"topPages" bson:"topPages"`
	ProblemPages []PageIssue       `json:"problemPages" bson:"problemPages"`
	PageSummary  string            `json:"pageSummary" bson:"pageSummary"`
}

type FunnelStage struct {
	StageName        string  `json:"stageName" bson:"stageName"`
	Count            int     `json:"count" bson:"count"`
	ConversionToNext float64 `json:"conversionToNext" bson:"conversionToNext"`
	Trend            float64 `json:"trend" bson:"trend"`
	Status           string  `json:"status" bson:"status"`
}

type FunnelBottleneck struct {
	FromStage         string   `json:"fromStage" bson:"fromStage"`
	ToStage           string   `json:"toStage" bson:"toStage"`
	CurrentConversion float64  `json:"currentConversion" bson:"currentConversion"`
	ExpectedConversion float64 `json:"expectedConversion" bson:"expectedConversion"`
	LeadsLost         int      `json:"leadsLost" bson:"leadsLost"`
	PotentialRevenue  float64  `json:"potentialRevenue" bson:"potentialRevenue"`
	PossibleCauses    []string `json:"possibleCauses" bson:"possibleCauses"`
	Recommendations   []string `json:"recommendations" bson:"recommendations"`
}

type FunnelVelocity struct {
	AvgDaysToMQL   float64 `json:"avgDaysToMQL" bson:"avgDaysToMQL"`
	AvgDaysToSQL   float64 `json:"avgDaysToSQL" bson:"avgDaysToSQL"`
	AvgDaysToClose float64 `json:"avgDaysToClose" bson:"avgDaysToClose"`
	TotalCycleTime float64 `json:"totalCycleTime" bson:"totalCycleTime"`
	Trend          string  `json:"trend" bson:"trend"`
}

type FunnelInsights struct {
	Stages        []FunnelStage      `json:"stages" bson:"stages"`
	Bottlenecks   []FunnelBottleneck `json:"bottlenecks" bson:"bottlenecks"`
	Velocity      FunnelVelocity     `json:"velocity" bson:"velocity"`
	FunnelSummary string             `json:"funnelSummary" bson:"funnelSummary"`
}

type BudgetOverview struct {
	Account            string  `json:"account" bson:"account"`
	MonthlyBudget      float64 `json:"monthlyBudget" bson:"monthlyBudget"`
	SpentToDate        float64 `json:"spentToDate" bson:"spentToDate"`
	RemainingBudget    float64 `json:"remainingBudget" bson:"remainingBudget"`
	ProjectedMonthEnd  float64 `json:"projectedMonthEndSpend" bson:"projectedMonthEndSpend"`
	PacingStatus       string  `json:"pacingStatus" bson:"pacingStatus"`
	Recommendation     string  `json:"recommendation" bson:"recommendation"`
}

type SpendEfficiency struct {
	TotalSpend      float64 `json:"totalSpend" bson:"totalSpend"`
	TotalLeads      int     `json:"totalLeads" bson:"totalLeads"`
	CostPerLead     float64 `json:"costPerLead" bson:"costPerLead"`
	CostPerSQL      float64 `json:"costPerSQL" bson:"costPerSQL"`
	EfficiencyTrend string  `json:"efficiencyTrend" bson:"efficiencyTrend"`
}

type BudgetReallocation struct {
	FromCampaign    string  `json:"fromCampaign" bson:"fromCampaign"`
	ToCampaign      string  `json:"toCampaign" bson:"toCampaign"`
	SuggestedAmount float64 `json:"suggestedAmount" bson:"suggestedAmount"`
	ExpectedImpact  string  `json:"expectedImpact" bson:"expectedImpact"`
	Reasoning       string  `json:"reasoning" bson:"reasoning"`
}

type BudgetInsights struct {
	Overview      []BudgetOverview     `json:"overview" bson:"overview"`
	Efficiency    SpendEfficiency      `json:"efficiency" bson:"efficiency"`
	Reallocations []BudgetReallocation `json:"reallocations" bson:"reallocations"`
	BudgetSummary string               `json:"budgetSummary" bson:"budgetSummary"`
}

type ChannelMetric struct {
	Name  string  `json:"name" bson:"name"`
	Value float64 `json:"value" bson:"value"`
	Trend float64 `json:"trend" bson:"trend"`
}

type ChannelHealth struct {
	Channel           string          `json:"channel" bson:"channel"`
	Status            string          `json:"status" bson:"status"`
	PrimaryMetric     ChannelMetric   `json:"primaryMetric" bson:"primaryMetric"`
	SecondaryMetrics  []ChannelMetric `json:"secondaryMetrics" bson:"secondaryMetrics"`
	AIInsight         string          `json:"aiInsight" bson:"aiInsight"`
	TopRecommendation string          `json:"topRecommendation" bson:"topRecommendation"`
}

type TrendSummary struct {
	Metric        string    `json:"metric" bson:"metric"`
	ThisWeek      float64   `json:"thisWeek" bson:"thisWeek"`
	LastWeek      float64   `json:"lastWeek" bson:"lastWeek"`
	Change        float64   `json:"change" bson:"change"`
	ChangeType    string    `json:"changeType" bson:"changeType"`
	SparklineData []float64 `json:"sparklineData" bson:"sparklineData"`
	Trend         string    `json:"trend" bson:"trend"`
}

type Anomaly struct {
	Metric         string   `json:"metric" bson:"metric"`
	Date           string   `json:"date" bson:"date"`
	ExpectedValue  float64  `json:"expectedValue" bson:"expectedValue"`
	ActualValue    float64  `json:"actualValue" bson:"actualValue"`
	Deviation      float64  `json:"deviation" bson:"deviation"`
	PossibleCauses []string `json:"possibleCauses" bson:"possibleCauses"`
	RequiresAction bool     `json:"requiresAction" bson:"requiresAction"`
}

type Trends struct {
	Summary        []TrendSummary `json:"summary" bson:"summary"`
	Anomalies      []Anomaly      `json:"anomalies" bson:"anomalies"`
	TrendNarrative string         `json:"trendNarrative" bson:"trendNarrative"`
}

type GoalProgress struct {
	GoalName           string  `json:"goalName" bson:"goalName"`
	Metric             string  `json:"metric" bson:"metric"`
	Target             float64 `json:"target" bson:"target"`
	Current            float64 `json:"current" bson:"current"`
	ProgressPercentage float64 `json:"progressPercentage" bson:"progressPercentage"`
	WillHitTarget      bool    `json:"willHitTarget" bson:"willHitTarget"`
	Status             string  `json:"status" bson:"status"`
	Recommendation     string  `json:"recommendation" bson:"recommendation"`
}

type GoalTracking struct {
	Goals         []GoalProgress `json:"goals" bson:"goals"`
	OverallStatus string         `json:"overallStatus" bson:"overallStatus"`
}

type PriorityAction struct {
	Priority       int      `json:"priority" bson:"priority"`
	Title          string   `json:"title" bson:"title"`
	Description    string   `json:"description" bson:"description"`
	Category       string   `json:"category" bson:"category"`
	Reasoning      string   `json:"reasoning" bson:"reasoning"`
	ExpectedImpact string   `json:"expectedImpact" bson:"expectedImpact"`
	Effort         string   `json:"effort" bson:"effort"`
	Steps          []string `json:"steps" bson:"steps"`
}

type GrowthOpportunity struct {
	Title           string   `json:"title" bson:"title"`
	Description     string   `json:"description" bson:"description"`
	DataPoints      []string `json:"dataPoints" bson:"dataPoints"`
	PotentialImpact string   `json:"potentialImpact" bson:"potentialImpact"`
	Confidence      string   `json:"confidence" bson:"confidence"`
	NextSteps       []string `json:"nextSteps" bson:"nextSteps"`
}

type Risk struct {
	Title           string   `json:"title" bson:"title"`
	Description     string   `json:"description" bson:"description"`
	Severity        string   `json:"severity" bson:"severity"`
	Likelihood      string   `json:"likelihood" bson:"likelihood"`
	MitigationSteps []string `json:"mitigationSteps" bson:"mitigationSteps"`
	Deadline        string   `json:"deadline" bson:"deadline"`
}

type StrategicRecommendations struct {
	PriorityActions []PriorityAction    `json:"priorityActions" bson:"priorityActions"`
	Opportunities   []GrowthOpportunity `json:"opportunities" bson:"opportunities"`
	Risks           []Risk              `json:"risks" bson:"risks"`
	WeeklyFocus     string              `json:"weeklyFocus" bson:"weeklyFocus"`
}

type CrossChannelInsight struct {
	Insight        string   `json:"insight" bson:"insight"`
	Channels       []string `json:"channels" bson:"channels"`
	Correlation    string   `json:"correlation" bson:"correlation"`
	Recommendation string   `json:"recommendation" bson:"recommendation"`
}

type PlatformPerformance struct {
	Platform       string        `json:"platform" bson:"platform"`
	Stats          PlatformStats `json:"stats" bson:"stats"`
	ConversionRate float64       `json:"conversionRate" bson:"conversionRate"`
	CPA            float64       `json:"cpa" bson:"cpa"`
	Performance    string        `json:"performance" bson:"performance"`
	Insights       []string      `json:"insights" bson:"insights"`
	Recommendations []string     `json:"recommendations" bson:"recommendations"`
}

// AdsInsights is the optional ads-performance section, produced only when
// the ads connector returned data.
type AdsInsights struct {
	PlatformPerformance       []PlatformPerformance `json:"platformPerformance" bson:"platformPerformance"`
	TopPerformingPlatform     string                `json:"topPerformingPlatform" bson:"topPerformingPlatform"`
	UnderperformingPlatform   string                `json:"underperformingPlatform" bson:"underperformingPlatform"`
	TotalSpend                float64               `json:"totalSpend" bson:"totalSpend"`
	TotalConversions          int                   `json:"totalConversions" bson:"totalConversions"`
	AverageCTR                float64               `json:"averageCtr" bson:"averageCtr"`
	AverageCPC                float64               `json:"averageCpc" bson:"averageCpc"`
	EfficiencyTrend           string                `json:"efficiencyTrend" bson:"efficiencyTrend"`
	KeyFindings               []string              `json:"keyFindings" bson:"keyFindings"`
	ActionableRecommendations []string              `json:"actionableRecommendations" bson:"actionableRecommendations"`
	AdsSummary                string                `json:"adsSummary" bson:"adsSummary"`
}
