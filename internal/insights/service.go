package insights

import (
	"context"
	"log/slog"
	"time"

	"github.com/orionhq/gtm-insights/internal/models"
	"github.com/orionhq/gtm-insights/internal/store"
)

// Service is the run-and-persist surface shared by the HTTP trigger and the
// daily scheduler. Failed runs are persisted too, under the same daily key,
// so a later successful rerun replaces the failure record.
type Service struct {
	orch *Orchestrator
	st   store.Store
	loc  *time.Location
	now  func() time.Time
	log  *slog.Logger
}

func NewService(orch *Orchestrator, st store.Store, loc *time.Location, log *slog.Logger) *Service {
	return &Service{orch: orch, st: st, loc: loc, now: time.Now, log: log}
}

// GenerateAndSave runs the full pipeline as of the given instant and
// persists the outcome keyed by the business-timezone calendar day. The
// returned RunResult is valid even when err is non-nil.
func (s *Service) GenerateAndSave(ctx context.Context, asOf time.Time) (RunResult, error) {
	dr := models.NewWoWDateRange(asOf)
	res, runErr := s.orch.Run(ctx, dr)

	res.Insight.Date = models.BusinessDate(s.now(), s.loc)
	if err := s.st.Save(ctx, res.Insight); err != nil {
		s.log.Error("persisting insight failed",
			slog.String("date", res.Insight.Date), slog.String("err", err.Error()))
		if runErr == nil {
			return res, err
		}
	}
	return res, runErr
}

// Store exposes the persistence layer for read endpoints.
func (s *Service) Store() store.Store { return s.st }
