package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orionhq/gtm-insights/internal/models"
)

func record(date, summary string) models.Insight {
	ins := models.Insight{
		Date:        date,
		GeneratedAt: time.Now().UTC(),
		Status:      models.StatusSuccess,
	}
	ins.Output.ExecutiveSummary.AISummary = summary
	return ins
}

func TestMemorySaveReplacesSameDay(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()

	require.NoError(t, st.Save(ctx, record("2026-01-15", "first")))
	require.NoError(t, st.Save(ctx, record("2026-01-15", "second")))

	assert.Equal(t, 1, st.Len())
	ins, err := st.ByDate(ctx, "2026-01-15")
	require.NoError(t, err)
	assert.Equal(t, "second", ins.Output.ExecutiveSummary.AISummary)
}

func TestMemoryLatest(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()

	_, err := st.Latest(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, st.Save(ctx, record("2026-01-10", "old")))
	require.NoError(t, st.Save(ctx, record("2026-01-15", "new")))
	require.NoError(t, st.Save(ctx, record("2026-01-12", "mid")))

	ins, err := st.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2026-01-15", ins.Date)
}

func TestMemoryByDateNotFound(t *testing.T) {
	st := NewMemory()
	_, err := st.ByDate(context.Background(), "2026-01-01")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryHistory(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()

	for _, d := range []string{"2026-01-10", "2026-01-11", "2026-01-12", "2026-01-13"} {
		require.NoError(t, st.Save(ctx, record(d, d)))
	}

	rows, err := st.History(ctx, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2026-01-13", rows[0].Date)
	assert.Equal(t, "2026-01-12", rows[1].Date)

	// zero limit falls back to the default
	rows, err = st.History(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}
