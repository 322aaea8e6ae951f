// Package core provides the calendar arithmetic and fine rules of the
// borrowing system.
//
// This file contains the date helpers: leap-year test, month lengths,
// date validation and conversion to an ordinal day count.
package core

var monthDays = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// IsLeapYear reports whether year has 366 days.
func IsLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

// DaysInMonth returns the length of month (1-12) in year.
// Months outside 1-12 return 0; callers validate the month first.
func DaysInMonth(month, year int) int {
	if month < 1 || month > 12 {
		return 0
	}
	if month == 2 && IsLeapYear(year) {
		return 29
	}
	return monthDays[month-1]
}

// IsValidDate is the gate every date passes before it is used for
// comparison or fine computation.
func IsValidDate(day, month, year int) bool {
	if year < 1 || month < 1 || month > 12 {
		return false
	}
	return day >= 1 && day <= DaysInMonth(month, year)
}

// ToDayCount converts a valid date into an ordinal usable for ordering and
// for the difference between two dates.
//
// Every year before year counts as exactly 365 days, so the result is not an
// epoch day number. Both endpoints of a duration use the same convention,
// which is all the fine rules need.
//
// Examples:
//
//	ToDayCount(1, 1, 1)    -> 1
//	ToDayCount(1, 3, 2024) -> 2023*365 + 31 + 29 + 1
func ToDayCount(day, month, year int) int64 {
	total := int64(year-1) * 365
	for i := 1; i < month; i++ {
		total += int64(DaysInMonth(i, year))
	}
	return total + int64(day)
}
