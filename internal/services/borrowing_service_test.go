package services

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libfine/internal/amqp"
	"libfine/internal/core"
	"libfine/internal/ledger"
	"libfine/internal/ledger/memory"
	"libfine/internal/log"
)

type recordingPublisher struct {
	msgs   []*amqp.FineAssessedMessage
	err    error
	closed bool
}

func (p *recordingPublisher) PublishFineAssessed(_ context.Context, msg *amqp.FineAssessedMessage) error {
	p.msgs = append(p.msgs, msg)
	return p.err
}

func (p *recordingPublisher) Close() error {
	p.closed = true
	return nil
}

func date(d, m, y int) core.CalendarDate {
	return core.CalendarDate{Day: d, Month: m, Year: y}
}

func TestBorrowingService_Summarize(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	svc := NewBorrowingService(memory.New(), core.DefaultFinePolicy(), pub, WithCurrency("MYR"))

	id, err := svc.OpenSession(ctx, "Aminah")
	require.NoError(t, err)

	for _, r := range []core.BorrowRecord{
		{Title: "Overdue", Borrowed: date(1, 1, 2024), Returned: date(10, 1, 2024)},
		{Title: "On time", Borrowed: date(1, 1, 2024), Returned: date(5, 1, 2024)},
		{Title: "Boundary", Borrowed: date(1, 1, 2024), Returned: date(8, 1, 2024)},
		{Title: "Same day", Borrowed: date(1, 1, 2024), Returned: date(1, 1, 2024)},
	} {
		_, err := svc.AddRecord(ctx, id, r)
		require.NoError(t, err)
	}

	sum, err := svc.Summarize(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, "Aminah", sum.Customer)
	require.Len(t, sum.Lines, 4)
	assert.Equal(t, "Overdue", sum.Lines[0].Record.Title)
	assert.Equal(t, core.FineResult{DurationDays: 9, OverdueDays: 2, Fine: core.Money{Cents: 400}}, sum.Lines[0].Result)
	assert.Equal(t, core.FineResult{DurationDays: 4, OverdueDays: -3}, sum.Lines[1].Result)
	assert.Equal(t, core.FineResult{DurationDays: 7, OverdueDays: 0}, sum.Lines[2].Result)
	assert.Equal(t, int64(0), sum.Lines[3].Result.DurationDays)
	assert.Equal(t, "4.00", sum.Total.String())

	require.Len(t, pub.msgs, 1)
	assert.Equal(t, id, pub.msgs[0].SessionID)
	assert.Equal(t, 4, pub.msgs[0].Records)
	assert.Equal(t, 1, pub.msgs[0].Overdue)
	assert.Equal(t, int64(400), pub.msgs[0].TotalFineCents)
	assert.Equal(t, "MYR", pub.msgs[0].Currency)
}

func TestBorrowingService_CustomPolicy(t *testing.T) {
	ctx := context.Background()
	policy := core.FinePolicy{AllowedDays: 3, FinePerDay: core.Money{Cents: 150}}
	svc := NewBorrowingService(memory.New(), policy, nil)
	assert.Equal(t, policy, svc.Policy())

	id, err := svc.OpenSession(ctx, "Ravi")
	require.NoError(t, err)
	_, err = svc.AddRecord(ctx, id, core.BorrowRecord{Title: "x", Borrowed: date(1, 1, 2024), Returned: date(10, 1, 2024)})
	require.NoError(t, err)

	sum, err := svc.Summarize(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "9.00", sum.Total.String())
}

func TestBorrowingService_TotalIndependentOfOrder(t *testing.T) {
	ctx := context.Background()
	late := core.BorrowRecord{Title: "late", Borrowed: date(1, 1, 2024), Returned: date(10, 1, 2024)}
	onTime := core.BorrowRecord{Title: "on time", Borrowed: date(1, 1, 2024), Returned: date(5, 1, 2024)}

	totals := make([]string, 0, 2)
	for _, order := range [][]core.BorrowRecord{{late, onTime}, {onTime, late}} {
		svc := NewBorrowingService(memory.New(), core.DefaultFinePolicy(), nil)
		id, err := svc.OpenSession(ctx, "c")
		require.NoError(t, err)
		for _, r := range order {
			_, err := svc.AddRecord(ctx, id, r)
			require.NoError(t, err)
		}
		sum, err := svc.Summarize(ctx, id)
		require.NoError(t, err)
		totals = append(totals, sum.Total.String())
	}
	assert.Equal(t, []string{"4.00", "4.00"}, totals)
}

func TestBorrowingService_PublishFailureDoesNotFailSummary(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := NewBorrowingService(memory.New(), core.DefaultFinePolicy(), pub)

	id, err := svc.OpenSession(ctx, "c")
	require.NoError(t, err)
	sum, err := svc.Summarize(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, sum.Lines)
	assert.True(t, sum.Total.IsZero())
	assert.Len(t, pub.msgs, 1)
}

func TestBorrowingService_Errors(t *testing.T) {
	ctx := context.Background()
	svc := NewBorrowingService(memory.New(), core.DefaultFinePolicy(), nil)

	_, err := svc.Summarize(ctx, "missing")
	assert.ErrorIs(t, err, ledger.ErrSessionNotFound)

	id, err := svc.OpenSession(ctx, "c")
	require.NoError(t, err)
	_, err = svc.AddRecord(ctx, id, core.BorrowRecord{Borrowed: date(10, 1, 2024), Returned: date(1, 1, 2024)})
	assert.ErrorIs(t, err, core.ErrReturnBeforeBorrow)
}

func TestBorrowingService_Close(t *testing.T) {
	t.Run("memory store and no publisher", func(t *testing.T) {
		svc := NewBorrowingService(memory.New(), core.DefaultFinePolicy(), nil)
		assert.NoError(t, svc.Close())
	})

	t.Run("closes publisher", func(t *testing.T) {
		pub := &recordingPublisher{}
		svc := NewBorrowingService(memory.New(), core.DefaultFinePolicy(), pub)
		assert.NoError(t, svc.Close())
		assert.True(t, pub.closed)
	})
}

func TestBorrowingService_StoreLogsWithServiceLogger(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	logger := log.New(log.Config{Level: slog.LevelDebug, Output: &buf})
	svc := NewBorrowingService(memory.New(), core.DefaultFinePolicy(), nil, WithLogger(logger))

	id, err := svc.OpenSession(ctx, "Aminah")
	require.NoError(t, err)
	_, err = svc.Summarize(ctx, id)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "component=ledger")
	assert.Contains(t, out, "operation=read")
	assert.Contains(t, out, "component=fine")
}
