package insights

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orionhq/gtm-insights/internal/llm"
	"github.com/orionhq/gtm-insights/internal/models"
)

func TestFormatSuccess(t *testing.T) {
	report := "# Weekly GTM Report\n\n" + strings.Repeat("Sessions grew week over week. ", 10)
	cl := &stubClient{text: report, usage: llm.TokenCount{Input: 2000, Output: 900}}
	usage := llm.NewMemoryUsage()
	f := NewFormatter(cl, usage, "test-model", 8000, 0.3, testLogger())

	res, err := f.Format(context.Background(), models.InsightOutput{}, testInput(), []string{"analytics", "crm"})
	require.NoError(t, err)

	assert.False(t, res.Fallback)
	assert.Equal(t, report, res.Report)
	assert.Equal(t, 2900, usage.Tokens(serviceReport))
	assert.Contains(t, cl.last.User, "analytics, crm")
}

func TestFormatStripsFences(t *testing.T) {
	body := strings.Repeat("A full markdown report body with tables and numbers. ", 5)
	cl := &stubClient{text: "```\n" + body + "\n```"}
	f := NewFormatter(cl, nil, "test-model", 8000, 0.3, testLogger())

	res, err := f.Format(context.Background(), models.InsightOutput{}, testInput(), nil)
	require.NoError(t, err)
	assert.False(t, res.Fallback)
	assert.NotContains(t, res.Report, "```")
}

// A stub-length reply falls back to a generated report that still names the
// period and the sources.
func TestFormatFallbackOnShortReply(t *testing.T) {
	cl := &stubClient{text: "ok"}
	f := NewFormatter(cl, nil, "test-model", 8000, 0.3, testLogger())

	out := models.InsightOutput{}
	out.ExecutiveSummary.AISummary = "A decent week overall."

	res, err := f.Format(context.Background(), out, testInput(), []string{"analytics"})
	require.NoError(t, err)

	assert.True(t, res.Fallback)
	assert.Contains(t, res.Report, "2026-01-08")
	assert.Contains(t, res.Report, "2026-01-14")
	assert.Contains(t, res.Report, "analytics")
	assert.Contains(t, res.Report, "A decent week overall.")
	assert.GreaterOrEqual(t, len(res.Report), minReportLength)
}

func TestFormatFatalOnTransportError(t *testing.T) {
	cl := &stubClient{err: errors.New("status 529")}
	f := NewFormatter(cl, nil, "test-model", 8000, 0.3, testLogger())

	_, err := f.Format(context.Background(), models.InsightOutput{}, testInput(), nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "report formatting")
}
