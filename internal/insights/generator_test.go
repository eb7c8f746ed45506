package insights

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orionhq/gtm-insights/internal/llm"
	"github.com/orionhq/gtm-insights/internal/models"
)

// stubClient returns a canned completion, or an error, and records the last
// request it saw.
type stubClient struct {
	text  string
	usage llm.TokenCount
	err   error
	last  llm.Request
}

func (s *stubClient) Complete(_ context.Context, req llm.Request) (llm.Completion, error) {
	s.last = req
	if s.err != nil {
		return llm.Completion{}, s.err
	}
	return llm.Completion{Text: s.text, Usage: s.usage}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testInput() models.AggregatedInput {
	dr := models.NewWoWDateRange(time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC))
	return models.NewAggregatedInput(dr, models.BusinessContext{
		Industry:       "B2B SaaS",
		TargetAudience: "GTM teams",
		CurrentGoals:   []string{"Leads"},
		MonthlyBudget:  10000,
	})
}

func TestGenerateSuccess(t *testing.T) {
	cl := &stubClient{
		text:  `{"executiveSummary":{"aiSummary":"Strong week.","gtmHealthScore":80,"sentiment":"positive"}}`,
		usage: llm.TokenCount{Input: 1200, Output: 600},
	}
	usage := llm.NewMemoryUsage()
	g := NewGenerator(cl, usage, "test-model", 8000, 0.3, testLogger())

	res, err := g.Generate(context.Background(), testInput())
	require.NoError(t, err)

	assert.False(t, res.Degraded)
	assert.Equal(t, "Strong week.", res.Output.ExecutiveSummary.AISummary)
	assert.Equal(t, 1800, res.Usage.Total())
	assert.Equal(t, 1800, usage.Tokens(serviceInsights))
	assert.False(t, res.Output.GeneratedAt.IsZero())

	// prompt carries the input period and the business context
	assert.Equal(t, "test-model", cl.last.Model)
	assert.Contains(t, cl.last.User, "2026-01-08")
	assert.Contains(t, cl.last.User, "B2B SaaS")
	assert.NotEmpty(t, cl.last.System)
}

func TestGenerateDegradedOnBadJSON(t *testing.T) {
	cl := &stubClient{text: "Sorry, something went wrong upstream."}
	g := NewGenerator(cl, nil, "test-model", 8000, 0.3, testLogger())

	res, err := g.Generate(context.Background(), testInput())
	require.NoError(t, err)

	assert.True(t, res.Degraded)
	assert.Contains(t, res.Output.ExecutiveSummary.AISummary, "Sorry")
	assert.NotNil(t, res.Output.FunnelInsights.Stages)
}

func TestGenerateFatalOnTransportError(t *testing.T) {
	cl := &stubClient{err: errors.New("connection refused")}
	g := NewGenerator(cl, nil, "test-model", 8000, 0.3, testLogger())

	_, err := g.Generate(context.Background(), testInput())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "insight generation")
}
