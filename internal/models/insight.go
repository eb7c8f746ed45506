package models

import "time"

// Run status values. A run that produced output with degraded sections is
// partial, not failed; failed means no usable output exists and callers must
// not read Output.
const (
	StatusSuccess = "success"
	StatusPartial = "partial"
	StatusFailed  = "failed"
)

// Insight is the persisted record: exactly one per business-timezone
// calendar day, keyed by Date and replaced on regeneration. The core
// pipeline never deletes records.
type Insight struct {
	Date        string          `json:"date" bson:"date"`
	GeneratedAt time.Time       `json:"generatedAt" bson:"generatedAt"`
	Input       AggregatedInput `json:"input" bson:"input"`
	Output      InsightOutput   `json:"output" bson:"output"`
	Report      string          `json:"report" bson:"report"`
	Status      string          `json:"status" bson:"status"`
	Error       string          `json:"error,omitempty" bson:"error,omitempty"`
}

// InsightSummary is the trimmed view returned for history listings.
type InsightSummary struct {
	Date             string           `json:"date" bson:"date"`
	GeneratedAt      time.Time        `json:"generatedAt" bson:"generatedAt"`
	Status           string           `json:"status" bson:"status"`
	ExecutiveSummary ExecutiveSummary `json:"executiveSummary" bson:"executiveSummary"`
}
