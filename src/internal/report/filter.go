package report

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"pctracer-svc/src/internal/activity"
	"pctracer-svc/src/internal/models"
)

// Filter narrows an activity listing the way the activities page does.
// Zero values disable a criterion; Max <= 0 means no upper bound.
type Filter struct {
	User string   `form:"user" json:"user"`
	Apps []string `form:"apps" json:"apps"`
	Min  float64  `form:"min" json:"min"`
	Max  float64  `form:"max" json:"max"`
	Unit string   `form:"unit" json:"unit"`
	From string   `form:"from" json:"from"`
	To   string   `form:"to" json:"to"`
}

var boundLayouts = []string{
	activity.Layout,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

const dateOnlyLayout = "2006-01-02"

type predicate struct {
	user string
	apps []string
	min  float64
	max  float64
	unit string
	from activity.Timestamp
	to   activity.Timestamp
}

func (f Filter) compile() (*predicate, error) {
	p := &predicate{
		user: f.User,
		apps: f.Apps,
		min:  f.Min,
		max:  f.Max,
		unit: f.Unit,
	}
	if p.max <= 0 {
		p.max = math.Inf(1)
	}

	var err error
	if p.from, err = parseBound(f.From, false); err != nil {
		return nil, err
	}
	if p.to, err = parseBound(f.To, true); err != nil {
		return nil, err
	}
	return p, nil
}

// parseBound accepts a date or a date-time. A date-only upper bound covers the
// whole day.
func parseBound(value string, upper bool) (activity.Timestamp, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return activity.Timestamp{}, nil
	}

	if day, err := time.Parse(dateOnlyLayout, value); err == nil {
		if upper {
			day = day.Add(24*time.Hour - time.Second)
		}
		return activity.NewTimestamp(day), nil
	}

	for _, layout := range boundLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return activity.NewTimestamp(t), nil
		}
	}
	return activity.Timestamp{}, fmt.Errorf("%w: %q is not a date", models.ErrInvalidParams, value)
}

func (p *predicate) match(r *activity.Record) bool {
	if p.user != "" && r.User != p.user {
		return false
	}
	if len(p.apps) > 0 && !slices.Contains(p.apps, r.AppName()) {
		return false
	}

	duration := ConvertDuration(r.DurationSeconds, p.unit)
	if duration < p.min || duration > p.max {
		return false
	}

	if !p.from.IsZero() && r.StartTime.Before(p.from.Time) {
		return false
	}
	if !p.to.IsZero() && !r.EndTime.IsZero() && r.EndTime.After(p.to.Time) {
		return false
	}
	return true
}

// Apply returns the records matching f, keeping their order.
func Apply(records []activity.Record, f Filter) ([]activity.Record, error) {
	p, err := f.compile()
	if err != nil {
		return nil, err
	}

	matched := make([]activity.Record, 0, len(records))
	for i := range records {
		if p.match(&records[i]) {
			matched = append(matched, records[i])
		}
	}
	return matched, nil
}
