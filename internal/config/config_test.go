package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "gtm_insights", cfg.MongoDatabase)
	assert.Equal(t, "Asia/Karachi", cfg.BusinessTimezone)
	assert.Equal(t, -1, cfg.ScheduleHour)
	assert.Equal(t, 8000, cfg.MaxTokens)

	// stage taxonomy falls back to the stock mapping
	assert.Contains(t, cfg.Stages.MQL, "Lead Generated")
	assert.Contains(t, cfg.Stages.Won, "Payment Received")
	assert.Contains(t, cfg.Stages.Lost, "Disqualified lead")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STAGE_WON", "Closed,Signed")
	t.Setenv("INSIGHTS_GOALS", "Pipeline,Revenue")
	t.Setenv("SCHEDULE_HOUR", "6")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, []string{"Closed", "Signed"}, cfg.Stages.Won)
	assert.Equal(t, []string{"Pipeline", "Revenue"}, cfg.Goals)
	assert.Equal(t, 6, cfg.ScheduleHour)

	// untouched stages still default
	assert.Contains(t, cfg.Stages.MQL, "Qualification")
}

func TestLoadRejectsBadScheduleHour(t *testing.T) {
	t.Setenv("SCHEDULE_HOUR", "24")
	_, err := Load()
	assert.Error(t, err)
}

func TestLocationFallsBackToUTC(t *testing.T) {
	cfg := Config{BusinessTimezone: "Not/AZone"}
	assert.Equal(t, "UTC", cfg.Location().String())
}

func TestBusinessContext(t *testing.T) {
	cfg := Config{
		Industry:      "B2B SaaS",
		MonthlyBudget: 12000,
		TargetLeads:   150,
		Goals:         []string{"Leads"},
	}
	bc := cfg.BusinessContext()
	assert.Equal(t, "B2B SaaS", bc.Industry)
	assert.Equal(t, float64(12000), bc.MonthlyBudget)
	assert.Equal(t, 150, bc.TargetLeads)
	assert.Equal(t, []string{"Leads"}, bc.CurrentGoals)
}
