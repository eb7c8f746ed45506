package insights

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/orionhq/gtm-insights/internal/aggregator"
	"github.com/orionhq/gtm-insights/internal/llm"
	"github.com/orionhq/gtm-insights/internal/metrics"
	"github.com/orionhq/gtm-insights/internal/models"
)

// Pipeline stages in execution order. A run is always in exactly one stage;
// the failing stage is recorded on the result so a partial run is still
// attributable.
const (
	StageFetching   = "fetching_data"
	StageAnalyzing  = "analyzing"
	StageFormatting = "formatting_report"
	StageDone       = "done"
	StageFailed     = "failed"
)

// StageError tags a pipeline failure with the stage it happened in.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// RunResult is everything one pipeline run produced. Timings covers every
// stage that started, including the one that failed.
type RunResult struct {
	Insight models.Insight
	Meta    aggregator.Meta
	Stage   string
	Timings map[string]time.Duration
	Tokens  llm.TokenCount
}

// Orchestrator drives one run through fetch, analyze, and format.
type Orchestrator struct {
	agg       *aggregator.Aggregator
	generator *Generator
	formatter *Formatter
	metrics   *metrics.Metrics
	log       *slog.Logger
}

func NewOrchestrator(agg *aggregator.Aggregator, gen *Generator, form *Formatter, m *metrics.Metrics, log *slog.Logger) *Orchestrator {
	return &Orchestrator{agg: agg, generator: gen, formatter: form, metrics: m, log: log}
}

// Run executes the full pipeline for one date range. On a stage failure it
// returns a StageError along with a result that still carries the timings
// and whatever the earlier stages produced; callers persist failed runs too.
func (o *Orchestrator) Run(ctx context.Context, dr models.DateRange) (RunResult, error) {
	res := RunResult{Timings: map[string]time.Duration{}}
	started := time.Now()

	// fetch
	err := o.timed(&res, StageFetching, func() error {
		var aerr error
		res.Insight.Input, res.Meta, aerr = o.agg.Aggregate(ctx, dr)
		return aerr
	})
	if err != nil {
		return o.fail(res, StageFetching, err)
	}
	input, meta := res.Insight.Input, res.Meta

	// analyze
	var gen GenerateResult
	err = o.timed(&res, StageAnalyzing, func() error {
		var gerr error
		gen, gerr = o.generator.Generate(ctx, input)
		return gerr
	})
	if err != nil {
		return o.fail(res, StageAnalyzing, err)
	}
	res.Insight.Output = gen.Output
	res.Tokens.Input += gen.Usage.Input
	res.Tokens.Output += gen.Usage.Output

	// format
	var form FormatResult
	err = o.timed(&res, StageFormatting, func() error {
		var ferr error
		form, ferr = o.formatter.Format(ctx, gen.Output, input, meta.Sources)
		return ferr
	})
	if err != nil {
		return o.fail(res, StageFormatting, err)
	}
	res.Insight.Report = form.Report
	res.Tokens.Input += form.Usage.Input
	res.Tokens.Output += form.Usage.Output

	res.Stage = StageDone
	res.Insight.GeneratedAt = gen.Output.GeneratedAt
	res.Insight.Status = runStatus(meta, gen, form)
	o.recordRun(res, meta)

	o.log.Info("pipeline run complete",
		slog.String("status", res.Insight.Status),
		slog.String("completeness", meta.Completeness),
		slog.Int("tokens", res.Tokens.Total()),
		slog.Duration("elapsed", time.Since(started)))
	return res, nil
}

// timed runs fn under a stage label and records its wall time both on the
// result and in the duration histogram.
func (o *Orchestrator) timed(res *RunResult, stage string, fn func() error) error {
	res.Stage = stage
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	res.Timings[stage] = elapsed
	if o.metrics != nil {
		o.metrics.StageDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
	}
	o.log.Debug("stage finished", slog.String("stage", stage), slog.Duration("elapsed", elapsed))
	return err
}

func (o *Orchestrator) fail(res RunResult, stage string, err error) (RunResult, error) {
	serr := &StageError{Stage: stage, Err: err}
	res.Stage = StageFailed
	res.Insight.Status = models.StatusFailed
	res.Insight.Error = serr.Error()
	if res.Insight.GeneratedAt.IsZero() {
		res.Insight.GeneratedAt = time.Now().UTC()
	}
	o.recordRun(res, res.Meta)
	o.log.Error("pipeline run failed",
		slog.String("stage", stage), slog.String("err", err.Error()))
	return res, serr
}

// runStatus: failed is decided by fail(); here a run is partial when any
// source was substituted, the insight JSON degraded, or the report fell
// back. Everything clean is success.
func runStatus(meta aggregator.Meta, gen GenerateResult, form FormatResult) string {
	if meta.CompletenessPct < 100 || gen.Degraded || form.Fallback {
		return models.StatusPartial
	}
	return models.StatusSuccess
}

func (o *Orchestrator) recordRun(res RunResult, meta aggregator.Meta) {
	if o.metrics == nil {
		return
	}
	o.metrics.RunsTotal.WithLabelValues(res.Insight.Status).Inc()
	o.metrics.RunCompleteness.Set(meta.CompletenessPct)
	for _, src := range meta.FailedSources {
		o.metrics.ConnectorFailures.WithLabelValues(src).Inc()
	}
}
