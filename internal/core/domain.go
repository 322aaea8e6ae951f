package core

import (
	"errors"
	"fmt"
	"strings"
)

type (
	CalendarDate struct {
		Day   int
		Month int
		Year  int
	}

	Money struct {
		Cents int64
	}

	BorrowRecord struct {
		Title    string
		Borrowed CalendarDate
		Returned CalendarDate
	}

	// Session is one customer's set of borrow records, in entry order.
	Session struct {
		ID       string
		Customer string
		Records  []BorrowRecord
	}
)

var (
	ErrInvalidCalendarDate = errors.New("invalid calendar date")
	ErrReturnBeforeBorrow  = errors.New("return date before borrow date")
	ErrInvalidAmount       = errors.New("invalid amount")
)

// NewCalendarDate returns the date for the given triple, or
// ErrInvalidCalendarDate when it does not exist.
func NewCalendarDate(day, month, year int) (CalendarDate, error) {
	d := CalendarDate{Day: day, Month: month, Year: year}
	if !d.Valid() {
		return CalendarDate{}, fmt.Errorf("%w: %s", ErrInvalidCalendarDate, d)
	}
	return d, nil
}

// Valid reports whether the date passes IsValidDate.
func (d CalendarDate) Valid() bool {
	return IsValidDate(d.Day, d.Month, d.Year)
}

// DayCount returns ToDayCount for the date.
func (d CalendarDate) DayCount() int64 {
	return ToDayCount(d.Day, d.Month, d.Year)
}

// Before reports whether d falls on an earlier day than other.
func (d CalendarDate) Before(other CalendarDate) bool {
	return d.DayCount() < other.DayCount()
}

// String renders the date as D/M/YYYY without zero padding.
func (d CalendarDate) String() string {
	return fmt.Sprintf("%d/%d/%d", d.Day, d.Month, d.Year)
}

// NewBorrowRecord builds a record after checking both dates and their order.
func NewBorrowRecord(title string, borrowed, returned CalendarDate) (BorrowRecord, error) {
	r := BorrowRecord{Title: title, Borrowed: borrowed, Returned: returned}
	if err := r.Validate(); err != nil {
		return BorrowRecord{}, err
	}
	return r, nil
}

func (r BorrowRecord) Validate() error {
	if err := ValidateTitle(r.Title); err != nil {
		return err
	}
	if !r.Borrowed.Valid() {
		return fmt.Errorf("borrow date: %w: %s", ErrInvalidCalendarDate, r.Borrowed)
	}
	if !r.Returned.Valid() {
		return fmt.Errorf("return date: %w: %s", ErrInvalidCalendarDate, r.Returned)
	}
	if r.Returned.Before(r.Borrowed) {
		return fmt.Errorf("%w: %s before %s", ErrReturnBeforeBorrow, r.Returned, r.Borrowed)
	}
	return nil
}

// ValidateTitle rejects titles that cannot be shown on one report line.
// Empty titles are allowed.
func ValidateTitle(title string) error {
	if len(title) > 500 {
		return errors.New("title too long (max 500 characters)")
	}
	if strings.ContainsAny(title, "\r\n") {
		return errors.New("title must be a single line")
	}
	return nil
}
