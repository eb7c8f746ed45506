// Package connectors adapts each external data provider into the shared
// snapshot shape. All normalization happens here, at the connector boundary;
// the aggregator only assembles.
package connectors

import (
	"context"
	"fmt"

	"github.com/orionhq/gtm-insights/internal/models"
)

// Connector is one external data source. Fetch covers both the current and
// comparison periods of the range and returns the normalized snapshot.
// Empty returns the source's zero-value snapshot, substituted by the
// aggregator whenever Fetch fails.
type Connector interface {
	Name() string
	Fetch(ctx context.Context, dr models.DateRange) (models.Snapshot, error)
	Empty() models.Snapshot
}

// ConnectorError wraps any per-source fetch failure: network, auth,
// rate-limit, timeout. It is recovered locally by the aggregator and never
// fails a whole run on its own.
type ConnectorError struct {
	Source string
	Err    error
}

func (e *ConnectorError) Error() string {
	return fmt.Sprintf("%s connector: %v", e.Source, e.Err)
}

func (e *ConnectorError) Unwrap() error { return e.Err }

func wrapErr(source string, err error) error {
	if err == nil {
		return nil
	}
	return &ConnectorError{Source: source, Err: err}
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

func pct(part, whole float64) float64 {
	return safeDiv(part, whole) * 100
}

func max0(i int) int {
	if i < 0 {
		return 0
	}
	return i
}

func maxf(f float64) float64 {
	if f < 0 {
		return 0
	}
	return f
}
