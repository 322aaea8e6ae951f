package core

const (
	DefaultAllowedDays     = 7
	DefaultFinePerDayCents = 200
)

// FinePolicy holds the business rules for overdue fines.
type FinePolicy struct {
	// AllowedDays is the grace period before fines accrue.
	AllowedDays int
	// FinePerDay is charged for each day past the grace period.
	FinePerDay Money
}

// FineResult is derived from a BorrowRecord and never stored.
type FineResult struct {
	DurationDays int64
	OverdueDays  int64 // <= 0 means on time
	Fine         Money
}

func DefaultFinePolicy() FinePolicy {
	return FinePolicy{
		AllowedDays: DefaultAllowedDays,
		FinePerDay:  Money{Cents: DefaultFinePerDayCents},
	}
}

// Compute returns duration, overdue days and fine for the record.
// The record must already satisfy BorrowRecord.Validate; it is not checked again.
func (p FinePolicy) Compute(r BorrowRecord) FineResult {
	duration := r.Returned.DayCount() - r.Borrowed.DayCount()
	overdue := duration - int64(p.AllowedDays)

	res := FineResult{DurationDays: duration, OverdueDays: overdue}
	if overdue > 0 {
		res.Fine = p.FinePerDay.Times(overdue)
	}
	return res
}

// IsOverdue reports whether the record was returned after the grace period.
func (r FineResult) IsOverdue() bool {
	return r.OverdueDays > 0
}

// TotalFine sums the fines of results.
func TotalFine(results ...FineResult) Money {
	var total Money
	for _, r := range results {
		total = total.Plus(r.Fine)
	}
	return total
}
