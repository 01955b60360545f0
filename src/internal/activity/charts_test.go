package activity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(t *testing.T, user, window, start string, duration float64) Record {
	t.Helper()
	ts, err := ParseTimestamp(start)
	require.NoError(t, err)
	return Record{User: user, Window: window, StartTime: ts, EndTime: ts, DurationSeconds: duration}
}

func wordExcelScenario(t *testing.T) []Record {
	return []Record{
		record(t, "a", "Doc - Word", "2024-01-01 10:00:00", 120),
		record(t, "a", "Doc - Excel", "2024-01-01 10:05:00", 60),
	}
}

func TestAppTotals_Scenario(t *testing.T) {
	records := wordExcelScenario(t)

	assert.Equal(t, []AppTotal{{App: "Word", Total: 120}, {App: "Excel", Total: 60}}, AppTotals(records))
	assert.Equal(t, []AppTotal{{App: "Word", Total: 120}, {App: "Excel", Total: 60}}, AppUsage(records))
}

func TestTransitions_Scenario(t *testing.T) {
	assert.Equal(t, []Transition{{From: "Word", To: "Excel", Count: 1}}, Transitions(wordExcelScenario(t)))
}

func TestAppUsage_SortsDescending(t *testing.T) {
	records := []Record{
		record(t, "a", "x - Slack", "2024-01-01 09:00:00", 10),
		record(t, "a", "y - Chrome", "2024-01-01 09:01:00", 300),
		record(t, "a", "z - Slack", "2024-01-01 09:02:00", 15),
		record(t, "a", "Terminal", "2024-01-01 09:03:00", 25),
	}

	got := AppUsage(records)
	assert.Equal(t, []AppTotal{
		{App: "Chrome", Total: 300},
		{App: "Slack", Total: 25},
		{App: "Terminal", Total: 25},
	}, got)

	// pie keeps first-occurrence order
	assert.Equal(t, "Slack", AppTotals(records)[0].App)
}

func TestTransitions_CountsRepeatsInFirstOccurrenceOrder(t *testing.T) {
	records := []Record{
		record(t, "a", "a - Word", "2024-01-01 09:00:00", 1),
		record(t, "a", "b - Excel", "2024-01-01 09:01:00", 1),
		record(t, "a", "c - Word", "2024-01-01 09:02:00", 1),
		record(t, "a", "d - Excel", "2024-01-01 09:03:00", 1),
		record(t, "a", "e - Excel", "2024-01-01 09:04:00", 1),
	}

	assert.Equal(t, []Transition{
		{From: "Word", To: "Excel", Count: 2},
		{From: "Excel", To: "Word", Count: 1},
		{From: "Excel", To: "Excel", Count: 1},
	}, Transitions(records))
}

func TestTransitions_SkipsIdlePredecessor(t *testing.T) {
	records := []Record{
		record(t, "a", "a - Word", "2024-01-01 09:00:00", 1),
		record(t, "a", "", "2024-01-01 09:01:00", 1),
		record(t, "a", "b - Excel", "2024-01-01 09:02:00", 1),
	}

	assert.Equal(t, []Transition{
		{From: "Word", To: "", Count: 1},
	}, Transitions(records))
}

func TestTransitions_Empty(t *testing.T) {
	assert.Empty(t, Transitions(nil))
	assert.NotNil(t, Transitions(nil))
	assert.Empty(t, Transitions(wordExcelScenario(t)[:1]))
}

func TestHourlyHeatmap(t *testing.T) {
	records := []Record{
		record(t, "a", "w - A", "2024-01-02 10:15:00", 30), // Tuesday
		record(t, "a", "w - A", "2024-01-02 10:45:00", 20),
		record(t, "a", "w - A", "2024-01-07 09:00:00", 5), // Sunday
		record(t, "a", "w - A", "2024-01-02 08:00:00", 7),
	}

	assert.Equal(t, []HourDayTotal{
		{Key: HourDay{Hour: 9, Day: 1}, Total: 5},
		{Key: HourDay{Hour: 8, Day: 3}, Total: 7},
		{Key: HourDay{Hour: 10, Day: 3}, Total: 50},
	}, HourlyHeatmap(records))
}

func TestDailyTotals(t *testing.T) {
	records := []Record{
		record(t, "a", "w - A", "2024-01-03 10:00:00", 30),
		record(t, "a", "w - A", "2024-01-01 23:59:59", 20),
		record(t, "a", "w - A", "2024-01-03 00:00:00", 5),
	}

	assert.Equal(t, []DateTotal{
		{Date: "2024-01-01", Total: 20},
		{Date: "2024-01-03", Total: 35},
	}, DailyTotals(records))
}

func TestIdleRatio(t *testing.T) {
	records := []Record{
		record(t, "a", "", "2024-01-01 10:00:00", 40),
		record(t, "a", "Doc - Word", "2024-01-01 10:01:00", 100),
		record(t, "a", "", "2024-01-01 10:02:00", 10),
	}

	assert.Equal(t, []StateTotal{
		{State: StateIdle, Total: 50},
		{State: StateActive, Total: 100},
	}, IdleRatio(records))
}

func TestUserAppUsage(t *testing.T) {
	records := []Record{
		record(t, "a", "x - Word", "2024-01-01 10:00:00", 10),
		record(t, "b", "x - Word", "2024-01-01 10:00:00", 90),
		record(t, "a", "x - Word", "2024-01-01 11:00:00", 10),
		record(t, "a", "x - Excel", "2024-01-01 12:00:00", 50),
	}

	assert.Equal(t, []UserAppTotal{
		{Key: UserApp{User: "b", App: "Word"}, Total: 90},
		{Key: UserApp{User: "a", App: "Excel"}, Total: 50},
		{Key: UserApp{User: "a", App: "Word"}, Total: 20},
	}, UserAppUsage(records))
}

func TestMissingDurationCountsAsZero(t *testing.T) {
	records := []Record{
		record(t, "a", "x - Word", "2024-01-01 10:00:00", 0),
		record(t, "a", "y - Word", "2024-01-01 10:01:00", 15),
	}

	assert.Equal(t, []AppTotal{{App: "Word", Total: 15}}, AppTotals(records))
}

func TestSortByStart_Stable(t *testing.T) {
	records := []Record{
		record(t, "a", "late", "2024-01-01 12:00:00", 1),
		record(t, "a", "first", "2024-01-01 08:00:00", 1),
		record(t, "a", "second", "2024-01-01 08:00:00", 1),
	}

	SortByStart(records)

	assert.Equal(t, "first", records[0].Window)
	assert.Equal(t, "second", records[1].Window)
	assert.Equal(t, "late", records[2].Window)
}

func TestFlow(t *testing.T) {
	points := Flow(wordExcelScenario(t))

	require.Len(t, points, 2)
	assert.Equal(t, "Doc - Word", points[0].Window)
	assert.Equal(t, 120.0, points[0].DurationSeconds)
	assert.Equal(t, "2024-01-01 10:05:00", points[1].StartTime.String())
	assert.Len(t, Timeline(wordExcelScenario(t)), 2)
}
