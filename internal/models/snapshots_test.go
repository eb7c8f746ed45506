package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestChangePct(t *testing.T) {
	cases := []struct {
		name string
		m    WoWMetric
		want float64
	}{
		{"growth", WoWMetric{Current: 150, Previous: 100}, 50},
		{"decline", WoWMetric{Current: 50, Previous: 100}, -50},
		{"flat", WoWMetric{Current: 100, Previous: 100}, 0},
		{"zero previous", WoWMetric{Current: 42, Previous: 0}, 0},
		{"both zero", WoWMetric{}, 0},
		{"drop to zero", WoWMetric{Current: 0, Previous: 80}, -100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, tc.m.ChangePct(), 1e-9)
		})
	}
}

func TestEmptySnapshotDispatch(t *testing.T) {
	for _, src := range []string{SourceAnalytics, SourceCRM, SourceVisitors, SourceAds} {
		s := EmptySnapshot(src)
		assert.NotNil(t, s, src)
		assert.Equal(t, src, s.Source())
	}
	assert.Nil(t, EmptySnapshot("unknown"))
}

func TestAggregatedInputAttach(t *testing.T) {
	dr := NewWoWDateRange(time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC))
	in := NewAggregatedInput(dr, BusinessContext{Industry: "B2B SaaS"})

	// every slot carries the empty snapshot up front
	assert.NotNil(t, in.Analytics.TopPages)
	assert.Zero(t, in.CRM.NewLeads)

	in.Attach(CRMSnapshot{NewLeads: 12, MQLs: 4})
	assert.Equal(t, 12, in.CRM.NewLeads)
	assert.Equal(t, 4, in.CRM.MQLs)

	// other slots untouched
	assert.Zero(t, in.Visitors.TotalVisitors)
	assert.Zero(t, in.Ads.Totals.Spend)
}
