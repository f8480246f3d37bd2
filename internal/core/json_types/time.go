package json_types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

// TimeOfDay: время суток без даты и таймзоны, хранится как минуты от полуночи
type TimeOfDay struct {
	minutes int
}

func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("time of day out of range: %02d:%02d", hour, minute)
	}
	return TimeOfDay{minutes: hour*60 + minute}, nil
}

// MustTimeOfDay для констант и тестов
func MustTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseTimeOfDay принимает "HH:MM" и "HH:MM:SS", секунды допускаются только нулевые
func ParseTimeOfDay(str string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(str), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return TimeOfDay{}, fmt.Errorf("failed to parse time of day: %q", str)
	}

	values := make([]int, len(parts))
	for i, part := range parts {
		if len(part) != 2 || !isDigit(part[0]) || !isDigit(part[1]) {
			return TimeOfDay{}, fmt.Errorf("failed to parse time of day: %q", str)
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return TimeOfDay{}, fmt.Errorf("failed to parse time of day: %q", str)
		}
		values[i] = v
	}

	if len(values) == 3 && values[2] != 0 {
		return TimeOfDay{}, fmt.Errorf("time of day with seconds is not supported: %q", str)
	}

	return NewTimeOfDay(values[0], values[1])
}

// isDigit strconv.Atoi пропускает знаки "+" и "-", поэтому проверяем символы сами
func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func (t TimeOfDay) Hour() int    { return t.minutes / 60 }
func (t TimeOfDay) Minute() int  { return t.minutes % 60 }
func (t TimeOfDay) Minutes() int { return t.minutes }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

func (t TimeOfDay) Before(other TimeOfDay) bool { return t.minutes < other.minutes }
func (t TimeOfDay) After(other TimeOfDay) bool  { return t.minutes > other.minutes }
func (t TimeOfDay) Equal(other TimeOfDay) bool  { return t.minutes == other.minutes }

func (t TimeOfDay) Compare(other TimeOfDay) int {
	switch {
	case t.minutes < other.minutes:
		return -1
	case t.minutes > other.minutes:
		return 1
	}
	return 0
}

// AddMinutes возвращает false, если результат выходит за 24:00.
// Ровно 24:00 не представимо, поэтому для конца окна используйте FitsInDay.
func (t TimeOfDay) AddMinutes(n int) (TimeOfDay, bool) {
	m := t.minutes + n
	if m < 0 || m >= minutesPerDay {
		return TimeOfDay{}, false
	}
	return TimeOfDay{minutes: m}, true
}

// FitsInDay проверяет, что окно [t, t+duration) не пересекает полночь
func (t TimeOfDay) FitsInDay(durationMinutes int) bool {
	return durationMinutes > 0 && t.minutes+durationMinutes <= minutesPerDay
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("failed to parse time of day: %v", err)
	}

	parsed, err := ParseTimeOfDay(str)
	if err != nil {
		return err
	}

	*t = parsed
	return nil
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}
