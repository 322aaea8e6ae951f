package core

// SummaryLine pairs a record with its computed fine.
type SummaryLine struct {
	Record BorrowRecord
	Result FineResult
}

// Summary is the borrowing summary for one session.
type Summary struct {
	SessionID string
	Customer  string
	Lines     []SummaryLine
	Total     Money
}

// Summarize computes a line per record, in order, and the grand total.
func Summarize(s Session, policy FinePolicy) Summary {
	out := Summary{
		SessionID: s.ID,
		Customer:  s.Customer,
		Lines:     make([]SummaryLine, 0, len(s.Records)),
	}
	for _, r := range s.Records {
		res := policy.Compute(r)
		out.Lines = append(out.Lines, SummaryLine{Record: r, Result: res})
		out.Total = out.Total.Plus(res.Fine)
	}
	return out
}

// OverdueCount returns how many lines carry a fine.
func (s Summary) OverdueCount() int {
	n := 0
	for _, l := range s.Lines {
		if l.Result.IsOverdue() {
			n++
		}
	}
	return n
}
