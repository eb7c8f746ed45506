package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"

	"github.com/orionhq/gtm-insights/internal/models"
)

// StageMapping maps raw CRM pipeline-stage names onto the normalized funnel
// by case-insensitive substring match. The taxonomy is configuration, not
// code: upstream teams rename stages without a deploy here.
type StageMapping struct {
	MQL         []string `env:"STAGE_MQL" envSeparator:","`
	SQL         []string `env:"STAGE_SQL" envSeparator:","`
	Opportunity []string `env:"STAGE_OPPORTUNITY" envSeparator:","`
	Won         []string `env:"STAGE_WON" envSeparator:","`
	Lost        []string `env:"STAGE_LOST" envSeparator:","`
}

type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// External call budgets. Connector and LLM calls are independent
	// suspension points; each carries its own timeout.
	HTTPTimeout      time.Duration `env:"HTTP_TIMEOUT" envDefault:"20s"`
	ConnectorTimeout time.Duration `env:"CONNECTOR_TIMEOUT" envDefault:"20s"`
	LLMTimeout       time.Duration `env:"LLM_TIMEOUT" envDefault:"120s"`

	// Upstream data providers.
	AnalyticsURL string `env:"ANALYTICS_API_URL"`
	CRMURL       string `env:"CRM_API_URL"`
	AdsURL       string `env:"ADS_API_URL"`

	// Visitor identification store (document DB shared with the tracking
	// webhook) and insight persistence.
	MongoURI          string `env:"MONGODB_URI"`
	MongoDatabase     string `env:"MONGODB_DATABASE" envDefault:"gtm_insights"`
	VisitorCollection string `env:"VISITOR_COLLECTION" envDefault:"person_visits"`
	InsightCollection string `env:"INSIGHT_COLLECTION" envDefault:"insights"`

	// LLM provider.
	AnthropicAPIKey  string  `env:"ANTHROPIC_API_KEY"`
	AnthropicBaseURL string  `env:"ANTHROPIC_BASE_URL" envDefault:"https://api.anthropic.com"`
	InsightModel     string  `env:"INSIGHT_MODEL" envDefault:"claude-sonnet-4-20250514"`
	ReportModel      string  `env:"REPORT_MODEL" envDefault:"claude-sonnet-4-20250514"`
	MaxTokens        int     `env:"LLM_MAX_TOKENS" envDefault:"8000"`
	Temperature      float64 `env:"LLM_TEMPERATURE" envDefault:"0.3"`

	// One report per calendar day in this timezone, regardless of where
	// the process runs or when during the day generation fires.
	BusinessTimezone string `env:"BUSINESS_TIMEZONE" envDefault:"Asia/Karachi"`

	// Daily trigger. Disabled when ScheduleHour is negative.
	ScheduleHour int `env:"SCHEDULE_HOUR" envDefault:"-1" validate:"min=-1,max=23"`

	// Business context embedded in every aggregation run.
	Industry       string   `env:"INSIGHTS_INDUSTRY" envDefault:"B2B SaaS"`
	TargetAudience string   `env:"INSIGHTS_TARGET_AUDIENCE" envDefault:"Marketing and GTM teams"`
	Goals          []string `env:"INSIGHTS_GOALS" envSeparator:"," envDefault:"Leads,MQLs,Pipeline"`
	MonthlyBudget  float64  `env:"INSIGHTS_MONTHLY_BUDGET" envDefault:"10000" validate:"gte=0"`
	TargetCPL      float64  `env:"INSIGHTS_TARGET_CPL" envDefault:"50" validate:"gte=0"`
	TargetLeads    int      `env:"INSIGHTS_TARGET_LEADS" envDefault:"200" validate:"gte=0"`

	Stages StageMapping
}

// Load parses configuration from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	cfg.Stages.applyDefaults()
	return cfg, nil
}

// DefaultStageMapping returns the stock funnel taxonomy used when no
// override is configured.
func DefaultStageMapping() StageMapping {
	return StageMapping{
		MQL:         []string{"Lead Generated", "Email sent", "Qualification", "Requirements Received", "Conversation initiated"},
		SQL:         []string{"On trial", "Negotiation"},
		Opportunity: []string{"Contract sent"},
		Won:         []string{"Won", "Payment Received"},
		Lost:        []string{"Lost", "Disqualified lead"},
	}
}

func (m *StageMapping) applyDefaults() {
	def := DefaultStageMapping()
	if len(m.MQL) == 0 {
		m.MQL = def.MQL
	}
	if len(m.SQL) == 0 {
		m.SQL = def.SQL
	}
	if len(m.Opportunity) == 0 {
		m.Opportunity = def.Opportunity
	}
	if len(m.Won) == 0 {
		m.Won = def.Won
	}
	if len(m.Lost) == 0 {
		m.Lost = def.Lost
	}
}

// BusinessContext builds the models view of the configured business context.
func (c Config) BusinessContext() models.BusinessContext {
	return models.BusinessContext{
		Industry:       c.Industry,
		TargetAudience: c.TargetAudience,
		CurrentGoals:   c.Goals,
		MonthlyBudget:  c.MonthlyBudget,
		TargetCPL:      c.TargetCPL,
		TargetLeads:    c.TargetLeads,
	}
}

// Location resolves the business timezone, falling back to UTC when the
// name cannot be loaded.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.BusinessTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SlogLevel parses the configured log level.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
