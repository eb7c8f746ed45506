package connectors

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/orionhq/gtm-insights/internal/models"
	"github.com/orionhq/gtm-insights/internal/utils"
)

// VisitorConnector reads the visitor-identification store: person-visit
// documents written by the tracking webhook, keyed by last_seen instant.
// Unlike the HTTP connectors, its provider is a document collection.
type VisitorConnector struct {
	col *mongo.Collection
	log *slog.Logger
}

func NewVisitorConnector(col *mongo.Collection, log *slog.Logger) *VisitorConnector {
	return &VisitorConnector{col: col, log: log}
}

func (v *VisitorConnector) Name() string           { return models.SourceVisitors }
func (v *VisitorConnector) Empty() models.Snapshot { return models.EmptyVisitorSnapshot() }

func (v *VisitorConnector) Fetch(ctx context.Context, dr models.DateRange) (models.Snapshot, error) {
	curStart, curEnd := dr.CurrentBounds()
	prevStart, prevEnd := dr.PreviousBounds()

	var (
		curVisitors, prevVisitors   int64
		curPageViews, prevPageViews int
		topCompanies                []models.CompanyVisits
	)

	errs := utils.RunConcurrent(ctx,
		func(ctx context.Context) error {
			var err error
			curVisitors, err = v.col.CountDocuments(ctx, seenBetween(curStart, curEnd))
			return err
		},
		func(ctx context.Context) error {
			var err error
			prevVisitors, err = v.col.CountDocuments(ctx, seenBetween(prevStart, prevEnd))
			return err
		},
		func(ctx context.Context) error {
			var err error
			curPageViews, err = v.sumPageViews(ctx, curStart, curEnd)
			return err
		},
		func(ctx context.Context) error {
			var err error
			prevPageViews, err = v.sumPageViews(ctx, prevStart, prevEnd)
			return err
		},
		func(ctx context.Context) error {
			var err error
			topCompanies, err = v.topCompanies(ctx, curStart, curEnd, 15)
			return err
		},
	)
	for _, err := range errs {
		if err != nil {
			return nil, wrapErr(v.Name(), err)
		}
	}

	snap := models.EmptyVisitorSnapshot()
	snap.TotalVisitors = int(curVisitors)
	snap.TotalPageViews = curPageViews
	snap.TopCompanies = topCompanies
	snap.WeekOverWeek = models.VisitorWoW{
		Visitors:  models.WoWMetric{Current: float64(curVisitors), Previous: float64(prevVisitors)},
		PageViews: models.WoWMetric{Current: float64(curPageViews), Previous: float64(prevPageViews)},
	}
	return snap, nil
}

func seenBetween(start, end time.Time) bson.M {
	return bson.M{"last_seen": bson.M{"$gte": start, "$lt": end}}
}

func (v *VisitorConnector) sumPageViews(ctx context.Context, start, end time.Time) (int, error) {
	cur, err := v.col.Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$match", Value: seenBetween(start, end)}},
		bson.D{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$page_views"}}}},
	})
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Total int `bson:"total"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

func (v *VisitorConnector) topCompanies(ctx context.Context, start, end time.Time, n int) ([]models.CompanyVisits, error) {
	cur, err := v.col.Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$match", Value: seenBetween(start, end)}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":       bson.M{"$ifNull": bson.A{"$visitor_data.company_name", "Unknown"}},
			"pageViews": bson.M{"$sum": "$page_views"},
			"lastSeen":  bson.M{"$max": "$last_seen"},
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"pageViews": -1}}},
		bson.D{{Key: "$limit", Value: n}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Company   string    `bson:"_id"`
		PageViews int       `bson:"pageViews"`
		LastSeen  time.Time `bson:"lastSeen"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	out := make([]models.CompanyVisits, 0, len(rows))
	for _, r := range rows {
		name := r.Company
		if name == "" {
			name = "Unknown"
		}
		out = append(out, models.CompanyVisits{
			CompanyName: name,
			PageViews:   r.PageViews,
			LastSeen:    r.LastSeen.UTC().Format(time.RFC3339),
		})
	}
	return out, nil
}
