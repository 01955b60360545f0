package report

import (
	"fmt"
	"sort"

	"pctracer-svc/src/internal/activity"
)

// TopAppsLimit is the number of bars shown on the activities page.
const TopAppsLimit = 5

type AppShare struct {
	App        string  `json:"app"`
	Seconds    float64 `json:"seconds"`
	Percentage float64 `json:"percentage"`
}

// Row is one line of the activity table.
type Row struct {
	App      string  `json:"app"`
	Start    string  `json:"start_time"`
	End      string  `json:"end_time"`
	Duration float64 `json:"duration"`
	Unit     string  `json:"unit"`
}

// TopApps groups records by application and returns the n largest totals.
// Percentages are relative to the total of all records, not only the top n.
func TopApps(records []activity.Record, n int) []AppShare {
	totals := activity.AppTotals(records)

	var total float64
	for _, t := range totals {
		total += t.Total
	}

	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Total > totals[j].Total
	})
	if n >= 0 && len(totals) > n {
		totals = totals[:n]
	}

	shares := make([]AppShare, 0, len(totals))
	for _, t := range totals {
		share := AppShare{App: t.App, Seconds: t.Total}
		if total > 0 {
			share.Percentage = 100 * t.Total / total
		}
		shares = append(shares, share)
	}
	return shares
}

// DistinctApps lists application names in order of first appearance.
func DistinctApps(records []activity.Record) []string {
	seen := make(map[string]struct{})
	apps := make([]string, 0)
	for i := range records {
		app := records[i].AppName()
		if _, ok := seen[app]; ok {
			continue
		}
		seen[app] = struct{}{}
		apps = append(apps, app)
	}
	return apps
}

func Rows(records []activity.Record, unit string) []Row {
	rows := make([]Row, 0, len(records))
	for i := range records {
		r := &records[i]
		rows = append(rows, Row{
			App:      r.AppName(),
			Start:    r.StartTime.String(),
			End:      r.EndTime.String(),
			Duration: ConvertDuration(r.DurationSeconds, unit),
			Unit:     unit,
		})
	}
	return rows
}

// FormatAmount renders a converted duration with two decimals.
func FormatAmount(value float64) string {
	return fmt.Sprintf("%.2f", value)
}
