package workflow

import (
	"time"

	"arqueria/archery-app/internal/domain"
)

// Weekday is one entry of the fixed seven-day table. Number matches the
// 1..7 day_number stored on routine days, Monday first.
type Weekday struct {
	Key    string
	Label  string
	Number int
}

// Weekdays is the canonical week, in the only order days are ever presented.
var Weekdays = [7]Weekday{
	{Key: "lunes", Label: "Lunes", Number: 1},
	{Key: "martes", Label: "Martes", Number: 2},
	{Key: "miercoles", Label: "Miércoles", Number: 3},
	{Key: "jueves", Label: "Jueves", Number: 4},
	{Key: "viernes", Label: "Viernes", Number: 5},
	{Key: "sabado", Label: "Sábado", Number: 6},
	{Key: "domingo", Label: "Domingo", Number: 7},
}

// WeekdayByKey resolves a table entry by its key.
func WeekdayByKey(key string) (Weekday, bool) {
	for _, d := range Weekdays {
		if d.Key == key {
			return d, true
		}
	}
	return Weekday{}, false
}

// WeekdayByNumber resolves a table entry by its 1..7 number.
func WeekdayByNumber(n int) (Weekday, bool) {
	if n < 1 || n > 7 {
		return Weekday{}, false
	}
	return Weekdays[n-1], true
}

// orderedSelection returns the selected days in canonical week order,
// regardless of the order they were toggled in.
func orderedSelection(selected map[string]bool) []Weekday {
	var days []Weekday
	for _, d := range Weekdays {
		if selected[d.Key] {
			days = append(days, d)
		}
	}
	return days
}

// WeekRange returns the Monday and Sunday of the week containing now, as
// date-only strings.
func WeekRange(now time.Time) (start, end string) {
	offset := (int(now.Weekday()) + 6) % 7
	monday := now.AddDate(0, 0, -offset)
	sunday := monday.AddDate(0, 0, 6)
	return monday.Format(domain.DateOnly), sunday.Format(domain.DateOnly)
}
