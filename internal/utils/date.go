package utils

import (
	"time"

	"github.com/suchimauz/barber-availability-engine/internal/core/json_types"
)

// DateRange все даты от from до to включительно. Пусто, если to раньше from.
func DateRange(from, to json_types.Date) []json_types.Date {
	if to.Before(from) {
		return nil
	}

	dates := make([]json_types.Date, 0, from.DaysUntil(to)+1)
	for d := from; !d.After(to); d = d.AddDays(1) {
		dates = append(dates, d)
	}
	return dates
}

// Today текущая дата в таймзоне приложения
func Today(loc *time.Location, now time.Time) json_types.Date {
	return json_types.DateOf(now.In(loc))
}

// StartCurrentWeek понедельник недели, в которую попадает дата
func StartCurrentWeek(d json_types.Date) json_types.Date {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDays(-offset)
}
