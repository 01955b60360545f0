package activity

import "sort"

// Donut buckets
const (
	StateIdle   = "Idle"
	StateActive = "Active"
)

type AppTotal struct {
	App   string  `json:"_id"`
	Total float64 `json:"total"`
}

type UserApp struct {
	User string `json:"user"`
	App  string `json:"app"`
}

type UserAppTotal struct {
	Key   UserApp `json:"_id"`
	Total float64 `json:"total"`
}

type HourDay struct {
	Hour int `json:"hour"`
	Day  int `json:"day"`
}

type HourDayTotal struct {
	Key   HourDay `json:"_id"`
	Total float64 `json:"total"`
}

type DateTotal struct {
	Date  string  `json:"_id"`
	Total float64 `json:"total"`
}

type StateTotal struct {
	State string  `json:"_id"`
	Total float64 `json:"total"`
}

type Transition struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Count int    `json:"count"`
}

type TimelinePoint struct {
	Window    string    `json:"window"`
	StartTime Timestamp `json:"start_time"`
	EndTime   Timestamp `json:"end_time"`
}

type FlowPoint struct {
	TimelinePoint
	DurationSeconds float64 `json:"duration_seconds"`
}

// sumBy groups durations by key, keeping keys in order of first occurrence.
func sumBy[K comparable](records []Record, key func(*Record) K) ([]K, map[K]float64) {
	var order []K
	totals := make(map[K]float64)

	for i := range records {
		k := key(&records[i])
		if _, seen := totals[k]; !seen {
			order = append(order, k)
		}
		totals[k] += records[i].DurationSeconds
	}

	return order, totals
}

// AppTotals sums duration per derived app name in order of first occurrence.
func AppTotals(records []Record) []AppTotal {
	order, totals := sumBy(records, (*Record).AppName)

	result := make([]AppTotal, 0, len(order))
	for _, app := range order {
		result = append(result, AppTotal{App: app, Total: totals[app]})
	}
	return result
}

// AppUsage is AppTotals sorted by total, largest first.
func AppUsage(records []Record) []AppTotal {
	result := AppTotals(records)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Total > result[j].Total
	})
	return result
}

func UserAppUsage(records []Record) []UserAppTotal {
	order, totals := sumBy(records, func(r *Record) UserApp {
		return UserApp{User: r.User, App: r.AppName()}
	})

	result := make([]UserAppTotal, 0, len(order))
	for _, k := range order {
		result = append(result, UserAppTotal{Key: k, Total: totals[k]})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Total > result[j].Total
	})
	return result
}

func HourlyHeatmap(records []Record) []HourDayTotal {
	order, totals := sumBy(records, func(r *Record) HourDay {
		return HourDay{Hour: r.StartTime.Hour(), Day: r.StartTime.DayOfWeek()}
	})

	result := make([]HourDayTotal, 0, len(order))
	for _, k := range order {
		result = append(result, HourDayTotal{Key: k, Total: totals[k]})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Key.Day != result[j].Key.Day {
			return result[i].Key.Day < result[j].Key.Day
		}
		return result[i].Key.Hour < result[j].Key.Hour
	})
	return result
}

// DailyTotals sums duration per start date, oldest first.
func DailyTotals(records []Record) []DateTotal {
	order, totals := sumBy(records, func(r *Record) string {
		return r.StartTime.Date()
	})

	result := make([]DateTotal, 0, len(order))
	for _, d := range order {
		result = append(result, DateTotal{Date: d, Total: totals[d]})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date < result[j].Date
	})
	return result
}

// IdleRatio splits duration between records with an empty window and the rest.
func IdleRatio(records []Record) []StateTotal {
	order, totals := sumBy(records, func(r *Record) string {
		if r.Window == "" {
			return StateIdle
		}
		return StateActive
	})

	result := make([]StateTotal, 0, len(order))
	for _, s := range order {
		result = append(result, StateTotal{State: s, Total: totals[s]})
	}
	return result
}

// Transitions counts consecutive app switches. records must already be in start order.
// An idle record (empty window) starts no transition.
func Transitions(records []Record) []Transition {
	result := make([]Transition, 0)
	index := make(map[[2]string]int)

	prev := ""
	for i := range records {
		app := records[i].AppName()
		if prev != "" {
			key := [2]string{prev, app}
			if pos, ok := index[key]; ok {
				result[pos].Count++
			} else {
				index[key] = len(result)
				result = append(result, Transition{From: prev, To: app, Count: 1})
			}
		}
		prev = app
	}

	return result
}

func Timeline(records []Record) []TimelinePoint {
	result := make([]TimelinePoint, 0, len(records))
	for i := range records {
		result = append(result, timelinePoint(&records[i]))
	}
	return result
}

func Flow(records []Record) []FlowPoint {
	result := make([]FlowPoint, 0, len(records))
	for i := range records {
		result = append(result, FlowPoint{
			TimelinePoint:   timelinePoint(&records[i]),
			DurationSeconds: records[i].DurationSeconds,
		})
	}
	return result
}

func timelinePoint(r *Record) TimelinePoint {
	return TimelinePoint{
		Window:    r.Window,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
	}
}

// SortByStart orders records by start time, keeping storage order for ties.
func SortByStart(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].StartTime.Before(records[j].StartTime.Time)
	})
}
