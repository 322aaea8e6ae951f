package core

import "testing"

func mustRecord(t *testing.T, title string, b, r CalendarDate) BorrowRecord {
	t.Helper()
	rec, err := NewBorrowRecord(title, b, r)
	if err != nil {
		t.Fatalf("NewBorrowRecord: %v", err)
	}
	return rec
}

func TestFinePolicyCompute(t *testing.T) {
	borrowed := CalendarDate{Day: 1, Month: 1, Year: 2024}
	tests := []struct {
		name         string
		returned     CalendarDate
		wantDuration int64
		wantOverdue  int64
		wantFine     string
		wantLate     bool
	}{
		{"overdue", CalendarDate{10, 1, 2024}, 9, 2, "4.00", true},
		{"on time", CalendarDate{5, 1, 2024}, 4, -3, "0.00", false},
		{"exactly at limit", CalendarDate{8, 1, 2024}, 7, 0, "0.00", false},
		{"same day", CalendarDate{1, 1, 2024}, 0, -7, "0.00", false},
		{"across february", CalendarDate{1, 3, 2024}, 60, 53, "106.00", true},
	}

	policy := DefaultFinePolicy()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := policy.Compute(mustRecord(t, "Book", borrowed, tt.returned))
			if got.DurationDays != tt.wantDuration {
				t.Errorf("duration = %d, want %d", got.DurationDays, tt.wantDuration)
			}
			if got.OverdueDays != tt.wantOverdue {
				t.Errorf("overdue = %d, want %d", got.OverdueDays, tt.wantOverdue)
			}
			if got.Fine.String() != tt.wantFine {
				t.Errorf("fine = %s, want %s", got.Fine, tt.wantFine)
			}
			if got.IsOverdue() != tt.wantLate {
				t.Errorf("IsOverdue() = %v, want %v", got.IsOverdue(), tt.wantLate)
			}
		})
	}
}

func TestFinePolicyCustomRates(t *testing.T) {
	rec := mustRecord(t, "Book", CalendarDate{1, 1, 2024}, CalendarDate{10, 1, 2024})

	strict := FinePolicy{AllowedDays: 0, FinePerDay: Money{Cents: 50}}
	if got := strict.Compute(rec); got.OverdueDays != 9 || got.Fine.Cents != 450 {
		t.Fatalf("strict policy: %+v", got)
	}

	lenient := FinePolicy{AllowedDays: 14, FinePerDay: Money{Cents: 1000}}
	if got := lenient.Compute(rec); got.IsOverdue() || !got.Fine.IsZero() {
		t.Fatalf("lenient policy: %+v", got)
	}
}

func TestTotalFineOrderIndependent(t *testing.T) {
	policy := DefaultFinePolicy()
	late := policy.Compute(mustRecord(t, "A", CalendarDate{1, 1, 2024}, CalendarDate{10, 1, 2024}))
	onTime := policy.Compute(mustRecord(t, "B", CalendarDate{1, 1, 2024}, CalendarDate{5, 1, 2024}))

	if got := TotalFine(late, onTime); got.String() != "4.00" {
		t.Fatalf("total = %s", got)
	}
	if got := TotalFine(onTime, late); got.String() != "4.00" {
		t.Fatalf("reversed total = %s", got)
	}
	if got := TotalFine(); !got.IsZero() {
		t.Fatalf("empty total = %s", got)
	}
}

func TestSummarize(t *testing.T) {
	s := Session{
		ID:       "s1",
		Customer: "Aminah",
		Records: []BorrowRecord{
			mustRecord(t, "A", CalendarDate{1, 1, 2024}, CalendarDate{10, 1, 2024}),
			mustRecord(t, "B", CalendarDate{1, 1, 2024}, CalendarDate{8, 1, 2024}),
			mustRecord(t, "C", CalendarDate{28, 2, 2023}, CalendarDate{15, 3, 2023}),
		},
	}
	sum := Summarize(s, DefaultFinePolicy())
	if sum.Customer != "Aminah" || sum.SessionID != "s1" || len(sum.Lines) != 3 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if sum.Lines[2].Result.DurationDays != 15 || sum.Lines[2].Result.Fine.Cents != 1600 {
		t.Fatalf("line 3: %+v", sum.Lines[2].Result)
	}
	if sum.Total.String() != "20.00" {
		t.Fatalf("total = %s", sum.Total)
	}
	if sum.OverdueCount() != 2 {
		t.Fatalf("overdue count = %d", sum.OverdueCount())
	}
}
