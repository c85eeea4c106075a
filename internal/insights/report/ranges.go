package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/dukaantech/insights-backend/internal/insights/types"
	apperrors "github.com/dukaantech/insights-backend/pkg/errors"
)

// Range labels accepted by the report endpoints and the assistant.
const (
	RangeToday     = "today"
	RangeYesterday = "yesterday"
	RangeWeek      = "week"
	RangeLastWeek  = "last_week"
	RangeMonth     = "month"
	RangeLastMonth = "last_month"
	RangeQuarter   = "quarter"
	RangeYear      = "year"
	RangeCustom    = "custom"
)

// ResolveRange turns a range label into a concrete half-open [Start, End)
// window anchored at now (UTC). Unknown labels are a validation error.
func ResolveRange(label string, now time.Time) (types.DateRange, error) {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	switch strings.ToLower(strings.TrimSpace(label)) {
	case RangeToday:
		return types.DateRange{Label: RangeToday, Start: today, End: today.AddDate(0, 0, 1)}, nil
	case RangeYesterday:
		return types.DateRange{Label: RangeYesterday, Start: today.AddDate(0, 0, -1), End: today}, nil
	case RangeWeek, "this_week":
		return types.DateRange{Label: RangeWeek, Start: startOfWeek(today), End: startOfWeek(today).AddDate(0, 0, 7)}, nil
	case RangeLastWeek, "lastweek":
		start := startOfWeek(today).AddDate(0, 0, -7)
		return types.DateRange{Label: RangeLastWeek, Start: start, End: start.AddDate(0, 0, 7)}, nil
	case RangeMonth, "this_month", "":
		start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		return types.DateRange{Label: RangeMonth, Start: start, End: start.AddDate(0, 1, 0)}, nil
	case RangeLastMonth, "lastmonth":
		start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
		return types.DateRange{Label: RangeLastMonth, Start: start, End: start.AddDate(0, 1, 0)}, nil
	case RangeQuarter:
		start := startOfQuarter(today)
		return types.DateRange{Label: RangeQuarter, Start: start, End: start.AddDate(0, 3, 0)}, nil
	case RangeYear:
		start := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return types.DateRange{Label: RangeYear, Start: start, End: start.AddDate(1, 0, 0)}, nil
	}
	return types.DateRange{}, apperrors.New(apperrors.CodeValidation, fmt.Sprintf("unknown range %q", label))
}

// CustomRange validates an explicit caller-supplied half-open window.
func CustomRange(start, end time.Time) (types.DateRange, error) {
	start, end = start.UTC(), end.UTC()
	if start.IsZero() || end.IsZero() {
		return types.DateRange{}, apperrors.New(apperrors.CodeValidation, "custom range requires both start and end")
	}
	if !start.Before(end) {
		return types.DateRange{}, apperrors.New(apperrors.CodeValidation, "custom range start must be before end")
	}
	return types.DateRange{Label: RangeCustom, Start: start, End: end}, nil
}

// PriorRange returns the window of equal length immediately preceding r,
// used for period-over-period growth.
func PriorRange(r types.DateRange) types.DateRange {
	length := r.End.Sub(r.Start)
	return types.DateRange{
		Label: "prior_" + r.Label,
		Start: r.Start.Add(-length),
		End:   r.Start,
	}
}

// startOfWeek anchors weeks on Monday.
func startOfWeek(day time.Time) time.Time {
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func startOfQuarter(day time.Time) time.Time {
	quarterMonth := time.Month(((int(day.Month())-1)/3)*3 + 1)
	return time.Date(day.Year(), quarterMonth, 1, 0, 0, 0, 0, time.UTC)
}
