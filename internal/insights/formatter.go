package insights

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/orionhq/gtm-insights/internal/llm"
	"github.com/orionhq/gtm-insights/internal/models"
)

const serviceReport = "report_formatter"

// minReportLength guards against the model returning an apology or a stub
// instead of a report.
const minReportLength = 100

// FormatResult is the rendered markdown report plus bookkeeping. Fallback
// is true when the model output was unusable and a minimal generated report
// was substituted.
type FormatResult struct {
	Report   string
	Usage    llm.TokenCount
	Fallback bool
}

// Formatter renders structured insights into the weekly markdown report.
type Formatter struct {
	client      llm.Client
	usage       llm.UsageRecorder
	model       string
	maxTokens   int
	temperature float64
	log         *slog.Logger
}

func NewFormatter(client llm.Client, usage llm.UsageRecorder, model string, maxTokens int, temperature float64, log *slog.Logger) *Formatter {
	return &Formatter{
		client:      client,
		usage:       usage,
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		log:         log,
	}
}

// Format is fatal only when the completion call fails. A reply shorter than
// minReportLength falls back to a generated stub so the pipeline still
// persists a readable report.
func (f *Formatter) Format(ctx context.Context, output models.InsightOutput, input models.AggregatedInput, sources []string) (FormatResult, error) {
	comp, err := f.client.Complete(ctx, llm.Request{
		Model:       f.model,
		System:      reportSystemPrompt,
		User:        buildReportUserPrompt(output, input, sources),
		MaxTokens:   f.maxTokens,
		Temperature: f.temperature,
	})
	if err != nil {
		return FormatResult{}, fmt.Errorf("report formatting: %w", err)
	}
	if f.usage != nil {
		f.usage.Record(serviceReport, comp.Usage)
	}

	report := StripFences(comp.Text)
	if len(report) < minReportLength {
		f.log.Warn("report response too short, using fallback",
			"model", f.model, "response_bytes", len(report))
		return FormatResult{
			Report:   fallbackReport(output, input, sources),
			Usage:    comp.Usage,
			Fallback: true,
		}, nil
	}
	return FormatResult{Report: report, Usage: comp.Usage}, nil
}

func fallbackReport(output models.InsightOutput, input models.AggregatedInput, sources []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Weekly GTM Report\n\n")
	fmt.Fprintf(&b, "**Period:** %s to %s (compared with %s to %s)\n\n",
		input.DateRange.Start, input.DateRange.End,
		input.DateRange.ComparisonStart, input.DateRange.ComparisonEnd)
	fmt.Fprintf(&b, "## Executive Summary\n\n%s\n\n", output.ExecutiveSummary.AISummary)
	if len(output.ExecutiveSummary.KeyHighlights) > 0 {
		b.WriteString("## Key Highlights\n\n")
		for _, h := range output.ExecutiveSummary.KeyHighlights {
			fmt.Fprintf(&b, "- %s\n", h)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "## Data Quality & Methodology\n\nData sources: %s\n\n", strings.Join(sources, ", "))
	b.WriteString("Report formatting was unavailable for this run; this is an automatically generated summary of the structured insights.\n")
	return b.String()
}
