package report

import "strings"

const (
	UnitSecond = "second"
	UnitMinute = "minute"
	UnitHour   = "hour"
	UnitDay    = "day"
)

// Units lists the selectable duration units in display order.
var Units = []string{UnitSecond, UnitMinute, UnitHour, UnitDay}

var unitAliases = map[string]string{
	"saniye": UnitSecond,
	"dakika": UnitMinute,
	"saat":   UnitHour,
	"gün":    UnitDay,
}

var unitDivisors = map[string]float64{
	UnitSecond: 1,
	UnitMinute: 60,
	UnitHour:   3600,
	UnitDay:    86400,
}

// NormalizeUnit maps aliases onto the canonical unit names. Unknown units are
// returned as given.
func NormalizeUnit(unit string) string {
	unit = strings.ToLower(strings.TrimSpace(unit))
	if canonical, ok := unitAliases[unit]; ok {
		return canonical
	}
	return unit
}

// ConvertDuration converts seconds into unit. Unknown units leave the value unchanged.
func ConvertDuration(seconds float64, unit string) float64 {
	divisor, ok := unitDivisors[NormalizeUnit(unit)]
	if !ok {
		return seconds
	}
	return seconds / divisor
}
