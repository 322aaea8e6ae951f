// Package report renders a borrowing summary as the console receipt.
package report

import (
	"bufio"
	"fmt"
	"io"

	"libfine/internal/core"
)

const (
	doubleRule = "========================================"
	singleRule = "----------------------------------------"
)

// Render writes the summary for s. Amounts carry the currency label and two
// decimals.
func Render(w io.Writer, s core.Summary, currency string) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "\n%s\n", doubleRule)
	fmt.Fprintln(bw, "           BORROWING SUMMARY            ")
	fmt.Fprintln(bw, doubleRule)
	fmt.Fprintf(bw, "Customer: %s\n", s.Customer)

	for i, line := range s.Lines {
		writeLine(bw, i+1, line, currency)
	}

	fmt.Fprintf(bw, "\n%s\n", singleRule)
	fmt.Fprintf(bw, "Total Fine to Pay: %s %s\n", currency, s.Total)
	fmt.Fprintln(bw, singleRule)
	fmt.Fprintln(bw, "\nTHANK YOU")

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

func writeLine(w io.Writer, n int, line core.SummaryLine, currency string) {
	r, res := line.Record, line.Result
	fmt.Fprintf(w, "\n[%d] Title: %s\n", n, r.Title)
	fmt.Fprintf(w, "    Borrowed: %s -> Returned: %s\n", r.Borrowed, r.Returned)
	fmt.Fprintf(w, "    Duration: %d days\n", res.DurationDays)
	if res.IsOverdue() {
		fmt.Fprintf(w, "    STATUS: [OVERDUE] by %d days.\n", res.OverdueDays)
		fmt.Fprintf(w, "    FINE: %s %s\n", currency, res.Fine)
		return
	}
	fmt.Fprintln(w, "    STATUS: [ON TIME]")
}
