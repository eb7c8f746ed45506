package store

import (
	"context"
	"sort"
	"sync"

	"github.com/orionhq/gtm-insights/internal/models"
)

// Memory is an in-process Store for tests and MongoDB-less deployments.
type Memory struct {
	mu   sync.RWMutex
	byDt map[string]models.Insight
}

func NewMemory() *Memory {
	return &Memory{byDt: map[string]models.Insight{}}
}

func (s *Memory) Save(_ context.Context, ins models.Insight) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byDt[ins.Date] = ins
	return nil
}

func (s *Memory) Latest(_ context.Context) (models.Insight, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	best := ""
	for d := range s.byDt {
		if d > best {
			best = d
		}
	}
	if best == "" {
		return models.Insight{}, ErrNotFound
	}
	return s.byDt[best], nil
}

func (s *Memory) ByDate(_ context.Context, date string) (models.Insight, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ins, ok := s.byDt[date]
	if !ok {
		return models.Insight{}, ErrNotFound
	}
	return ins, nil
}

func (s *Memory) History(_ context.Context, limit int) ([]models.InsightSummary, error) {
	limit = clampLimit(limit)
	s.mu.RLock()
	defer s.mu.RUnlock()

	dates := make([]string, 0, len(s.byDt))
	for d := range s.byDt {
		dates = append(dates, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	if len(dates) > limit {
		dates = dates[:limit]
	}

	summaries := make([]models.InsightSummary, 0, len(dates))
	for _, d := range dates {
		ins := s.byDt[d]
		summaries = append(summaries, models.InsightSummary{
			Date:             ins.Date,
			GeneratedAt:      ins.GeneratedAt,
			Status:           ins.Status,
			ExecutiveSummary: ins.Output.ExecutiveSummary,
		})
	}
	return summaries, nil
}

// Len reports the number of stored records.
func (s *Memory) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byDt)
}
