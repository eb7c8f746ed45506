// Package store persists generated insights. Exactly one record exists per
// business-timezone calendar day; regenerating on the same day replaces the
// existing record in full.
package store

import (
	"context"
	"errors"

	"github.com/orionhq/gtm-insights/internal/models"
)

// ErrNotFound is returned by lookups that match no record.
var ErrNotFound = errors.New("store: insight not found")

// Store is the insight persistence contract. Save upserts on the record's
// Date key, so two saves on the same business day leave one record and the
// second write wins.
type Store interface {
	Save(ctx context.Context, ins models.Insight) error
	Latest(ctx context.Context) (models.Insight, error)
	ByDate(ctx context.Context, date string) (models.Insight, error)
	History(ctx context.Context, limit int) ([]models.InsightSummary, error)
}

const defaultHistoryLimit = 30

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return defaultHistoryLimit
	}
	return limit
}
