package calendar

import (
	"sort"
	"time"
)

// Juneteenth became an exchange holiday in 2022.
const juneteenthFirstYear = 2022

// Easter returns Easter Sunday of the Gregorian calendar (anonymous computus).
func Easter(year int) Date {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451

	month := (h + l - 7*m + 114) / 31
	day := ((h + l - 7*m + 114) % 31) + 1

	return Date{Year: year, Month: time.Month(month), Day: day}
}

// NthWeekday returns the nth (1-based) occurrence of weekday in the month. ok is false
// when the month has no such occurrence.
func NthWeekday(year int, month time.Month, weekday time.Weekday, n int) (Date, bool) {
	if n < 1 {
		return Date{}, false
	}
	first := Date{Year: year, Month: month, Day: 1}
	offset := (int(weekday) - int(first.Weekday()) + 7) % 7
	day := 1 + offset + (n-1)*7
	if day > DaysInMonth(year, month) {
		return Date{}, false
	}
	return Date{Year: year, Month: month, Day: day}, true
}

// LastWeekday returns the last occurrence of weekday in the month.
func LastWeekday(year int, month time.Month, weekday time.Weekday) Date {
	last := Date{Year: year, Month: month, Day: DaysInMonth(year, month)}
	back := (int(last.Weekday()) - int(weekday) + 7) % 7
	return last.AddDays(-back)
}

// observed moves a weekend holiday to the adjacent weekday: Saturday to Friday,
// Sunday to Monday.
func observed(d Date) Date {
	switch d.Weekday() {
	case time.Saturday:
		return d.AddDays(-1)
	case time.Sunday:
		return d.AddDays(1)
	}
	return d
}

// NYSEHolidays returns the full-day closures of the New York Stock Exchange for a year.
func NYSEHolidays(year int) []Holiday {
	holidays := make([]Holiday, 0, 10)

	// A Saturday New Year's Day is not observed on the preceding Friday.
	newYear := Date{Year: year, Month: time.January, Day: 1}
	if newYear.Weekday() != time.Saturday {
		holidays = append(holidays, Holiday{Date: observed(newYear), Name: "New Year's Day"})
	}

	mlk, _ := NthWeekday(year, time.January, time.Monday, 3)
	holidays = append(holidays, Holiday{Date: mlk, Name: "Martin Luther King Jr. Day"})

	presidents, _ := NthWeekday(year, time.February, time.Monday, 3)
	holidays = append(holidays, Holiday{Date: presidents, Name: "Presidents Day"})

	holidays = append(holidays, Holiday{Date: Easter(year).AddDays(-2), Name: "Good Friday"})

	holidays = append(holidays, Holiday{Date: LastWeekday(year, time.May, time.Monday), Name: "Memorial Day"})

	if year >= juneteenthFirstYear {
		holidays = append(holidays, Holiday{
			Date: observed(Date{Year: year, Month: time.June, Day: 19}),
			Name: "Juneteenth",
		})
	}

	holidays = append(holidays, Holiday{
		Date: observed(Date{Year: year, Month: time.July, Day: 4}),
		Name: "Independence Day",
	})

	labor, _ := NthWeekday(year, time.September, time.Monday, 1)
	holidays = append(holidays, Holiday{Date: labor, Name: "Labor Day"})

	thanksgiving, _ := NthWeekday(year, time.November, time.Thursday, 4)
	holidays = append(holidays, Holiday{Date: thanksgiving, Name: "Thanksgiving Day"})

	holidays = append(holidays, Holiday{
		Date: observed(Date{Year: year, Month: time.December, Day: 25}),
		Name: "Christmas Day",
	})

	return holidays
}

func sortHolidays(h []Holiday) {
	sort.Slice(h, func(i, j int) bool { return h[i].Date.Before(h[j].Date) })
}

func sortMeetings(m []FOMCMeeting) {
	sort.Slice(m, func(i, j int) bool { return m[i].Date.Before(m[j].Date) })
}
