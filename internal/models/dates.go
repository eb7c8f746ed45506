package models

import (
	"time"

	"github.com/jinzhu/now"
)

const dateLayout = "2006-01-02"

// DateRange is the week-over-week comparison window for one aggregation run.
// All four fields are inclusive ISO calendar dates. ComparisonEnd is always the
// day before Start, and both windows span exactly seven days.
type DateRange struct {
	Start           string `json:"start" bson:"start"`
	End             string `json:"end" bson:"end"`
	ComparisonStart string `json:"comparisonStart" bson:"comparisonStart"`
	ComparisonEnd   string `json:"comparisonEnd" bson:"comparisonEnd"`
}

// NewWoWDateRange derives the current and comparison periods from a reference
// instant. The current period ends yesterday (providers lag by a day; "today"
// is never a valid end) and reaches back seven days inclusive. The comparison
// period is the seven days immediately before that.
func NewWoWDateRange(asOf time.Time) DateRange {
	end := now.New(asOf.UTC().AddDate(0, 0, -1)).BeginningOfDay()
	start := end.AddDate(0, 0, -6)
	prevEnd := start.AddDate(0, 0, -1)
	prevStart := prevEnd.AddDate(0, 0, -6)

	return DateRange{
		Start:           start.Format(dateLayout),
		End:             end.Format(dateLayout),
		ComparisonStart: prevStart.Format(dateLayout),
		ComparisonEnd:   prevEnd.Format(dateLayout),
	}
}

// CurrentBounds returns the current period as UTC instants, start inclusive
// and end exclusive, for client-side record filtering.
func (d DateRange) CurrentBounds() (time.Time, time.Time) {
	return boundsOf(d.Start, d.End)
}

// PreviousBounds returns the comparison period as UTC instants, start
// inclusive and end exclusive.
func (d DateRange) PreviousBounds() (time.Time, time.Time) {
	return boundsOf(d.ComparisonStart, d.ComparisonEnd)
}

func boundsOf(start, end string) (time.Time, time.Time) {
	s, _ := time.ParseInLocation(dateLayout, start, time.UTC)
	e, _ := time.ParseInLocation(dateLayout, end, time.UTC)
	return s, e.AddDate(0, 0, 1)
}

// BusinessDate formats an instant as the calendar day in the given business
// timezone. This is the storage key: one insight record per business day.
func BusinessDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dateLayout)
}
