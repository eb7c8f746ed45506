package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/orionhq/gtm-insights/internal/aggregator"
	"github.com/orionhq/gtm-insights/internal/config"
	"github.com/orionhq/gtm-insights/internal/connectors"
	"github.com/orionhq/gtm-insights/internal/httpx"
	"github.com/orionhq/gtm-insights/internal/insights"
	"github.com/orionhq/gtm-insights/internal/llm"
	"github.com/orionhq/gtm-insights/internal/metrics"
	"github.com/orionhq/gtm-insights/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config error", slog.String("err", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	var mongoClient *mongo.Client
	if cfg.MongoURI != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		mongoClient, err = mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		cancel()
		if err != nil {
			logger.Error("mongo connect failed", slog.String("err", err.Error()))
			os.Exit(1)
		}
		defer mongoClient.Disconnect(context.Background())
	}

	httpc := connectors.NewHTTPClient(cfg.HTTPTimeout)
	conns := buildConnectors(cfg, httpc, mongoClient, logger)
	agg := aggregator.New(conns, cfg.ConnectorTimeout, cfg.BusinessContext(), logger)

	llmClient := llm.NewAnthropicClient(cfg.AnthropicBaseURL, cfg.AnthropicAPIKey, cfg.LLMTimeout)
	gen := insights.NewGenerator(llmClient, m, cfg.InsightModel, cfg.MaxTokens, cfg.Temperature, logger)
	form := insights.NewFormatter(llmClient, m, cfg.ReportModel, cfg.MaxTokens, cfg.Temperature, logger)
	orch := insights.NewOrchestrator(agg, gen, form, m, logger)

	st := buildStore(cfg, mongoClient, logger)
	svc := insights.NewService(orch, st, cfg.Location(), logger)

	if cfg.ScheduleHour >= 0 {
		go runDaily(context.Background(), svc, cfg.ScheduleHour, cfg.Location(), logger)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpx.NewRouter(logger, svc, reg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("starting server",
		slog.String("port", cfg.Port),
		slog.Int("connectors", len(conns)),
		slog.Bool("scheduler", cfg.ScheduleHour >= 0))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", slog.String("err", err.Error()))
		os.Exit(1)
	}
}

// buildConnectors wires one connector per configured source. Sources with
// no configuration are left out of the run entirely rather than counted as
// failures.
func buildConnectors(cfg config.Config, httpc connectors.HTTPClient, mc *mongo.Client, log *slog.Logger) []connectors.Connector {
	var conns []connectors.Connector
	if cfg.AnalyticsURL != "" {
		conns = append(conns, connectors.NewAnalyticsConnector(httpc, cfg.AnalyticsURL, log))
	}
	if cfg.CRMURL != "" {
		conns = append(conns, connectors.NewCRMConnector(httpc, cfg.CRMURL, cfg.Stages, log))
	}
	if mc != nil {
		col := mc.Database(cfg.MongoDatabase).Collection(cfg.VisitorCollection)
		conns = append(conns, connectors.NewVisitorConnector(col, log))
	}
	if cfg.AdsURL != "" {
		conns = append(conns, connectors.NewAdsConnector(httpc, cfg.AdsURL, log))
	}
	return conns
}

func buildStore(cfg config.Config, mc *mongo.Client, log *slog.Logger) store.Store {
	if mc == nil {
		log.Warn("no MongoDB configured, insights persist in memory only")
		return store.NewMemory()
	}
	st := store.NewMongo(mc.Database(cfg.MongoDatabase).Collection(cfg.InsightCollection))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := st.EnsureIndexes(ctx); err != nil {
		log.Warn("insight index creation failed", slog.String("err", err.Error()))
	}
	return st
}

// runDaily fires one pipeline run per day at the configured hour in the
// business timezone.
func runDaily(ctx context.Context, svc *insights.Service, hour int, loc *time.Location, log *slog.Logger) {
	for {
		now := time.Now().In(loc)
		next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, loc)
		if !next.After(now) {
			next = next.AddDate(0, 0, 1)
		}
		log.Info("next scheduled run", slog.Time("at", next))

		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Until(next)):
		}

		runCtx, cancel := context.WithTimeout(ctx, 10*time.Minute)
		if _, err := svc.GenerateAndSave(runCtx, time.Now()); err != nil {
			log.Error("scheduled run failed", slog.String("err", err.Error()))
		}
		cancel()
	}
}
