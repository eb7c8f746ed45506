package insights

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/orionhq/gtm-insights/internal/llm"
	"github.com/orionhq/gtm-insights/internal/models"
)

const serviceInsights = "insight_generator"

// GenerateResult carries the normalized output plus per-call bookkeeping.
// Degraded is true when the model reply could not be parsed as JSON and the
// raw text was preserved instead.
type GenerateResult struct {
	Output   models.InsightOutput
	Usage    llm.TokenCount
	Degraded bool
}

// Generator turns an aggregated weekly input into structured insights.
type Generator struct {
	client      llm.Client
	usage       llm.UsageRecorder
	model       string
	maxTokens   int
	temperature float64
	now         func() time.Time
	log         *slog.Logger
}

func NewGenerator(client llm.Client, usage llm.UsageRecorder, model string, maxTokens int, temperature float64, log *slog.Logger) *Generator {
	return &Generator{
		client:      client,
		usage:       usage,
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		now:         time.Now,
		log:         log,
	}
}

// Generate is fatal only when the completion call itself fails. A reply that
// is not valid JSON degrades instead: the text survives as the summary and
// every section is backfilled.
func (g *Generator) Generate(ctx context.Context, input models.AggregatedInput) (GenerateResult, error) {
	comp, err := g.client.Complete(ctx, llm.Request{
		Model:       g.model,
		System:      analystSystemPrompt,
		User:        buildInsightUserPrompt(input),
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
	})
	if err != nil {
		return GenerateResult{}, fmt.Errorf("insight generation: %w", err)
	}
	if g.usage != nil {
		g.usage.Record(serviceInsights, comp.Usage)
	}

	out, degraded := parseOutput(comp.Text, g.now().UTC())
	if degraded {
		g.log.Warn("insight response was not valid JSON, keeping raw text",
			"model", g.model, "response_bytes", len(comp.Text))
	}
	return GenerateResult{Output: out, Usage: comp.Usage, Degraded: degraded}, nil
}
