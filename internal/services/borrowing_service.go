// Package services binds the ledger, the fine rules and fine event
// publishing into the operations the console drives.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"libfine/internal/amqp"
	"libfine/internal/core"
	"libfine/internal/ledger"
	"libfine/internal/log"
)

// FinePublisher announces assessed fines. *amqp.Client implements it.
type FinePublisher interface {
	PublishFineAssessed(ctx context.Context, msg *amqp.FineAssessedMessage) error
}

// BorrowingService orchestrates borrowing sessions across the ledger and AMQP
type BorrowingService struct {
	store     ledger.Store
	policy    core.FinePolicy
	publisher FinePublisher
	currency  string
	logger    *log.Logger
}

// Option configures a BorrowingService
type Option func(*BorrowingService)

// WithCurrency sets the currency label carried by published events
func WithCurrency(currency string) Option {
	return func(s *BorrowingService) { s.currency = currency }
}

func WithLogger(logger *log.Logger) Option {
	return func(s *BorrowingService) { s.logger = logger.WithComponent(log.ComponentFine) }
}

// NewBorrowingService creates the service. publisher may be nil.
func NewBorrowingService(store ledger.Store, policy core.FinePolicy, publisher FinePublisher, opts ...Option) *BorrowingService {
	s := &BorrowingService{
		store:     store,
		policy:    policy,
		publisher: publisher,
		currency:  "RM",
		logger:    log.New(log.DefaultConfig()).WithComponent(log.ComponentFine),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Policy returns the fine rules in use
func (s *BorrowingService) Policy() core.FinePolicy {
	return s.policy
}

// OpenSession starts a session for customer
func (s *BorrowingService) OpenSession(ctx context.Context, customer string) (string, error) {
	ctx = log.WithLogger(ctx, s.logger)
	id, err := s.store.OpenSession(ctx, customer)
	if err != nil {
		return "", fmt.Errorf("open session: %w", err)
	}
	s.logger.InfoContext(ctx, "Session opened", log.NewFields().WithSession(id, customer).WithOperation(log.OpOpen).ToSlice()...)
	return id, nil
}

// AddRecord stores a validated record in the session
func (s *BorrowingService) AddRecord(ctx context.Context, sessionID string, r core.BorrowRecord) (string, error) {
	ctx = log.WithLogger(ctx, s.logger)
	ref, err := s.store.AppendRecord(ctx, sessionID, r)
	if err != nil {
		return "", fmt.Errorf("add record: %w", err)
	}
	s.logger.DebugContext(ctx, "Borrow record added",
		log.NewFields().
			WithSession(sessionID, "").
			WithRecord(r.Title, r.Borrowed.String(), r.Returned.String()).
			WithOperation(log.OpAppend).
			ToSlice()...)
	return ref, nil
}

// Summarize computes the fine for every record of the session and the grand
// total, then publishes a fine assessed event. Publishing failures are logged
// and never fail the summary.
func (s *BorrowingService) Summarize(ctx context.Context, sessionID string) (core.Summary, error) {
	ctx = log.WithLogger(ctx, s.logger)
	sess, err := s.store.Session(ctx, sessionID)
	if err != nil {
		return core.Summary{}, fmt.Errorf("load session: %w", err)
	}

	summary := core.Summarize(sess, s.policy)
	for _, line := range summary.Lines {
		s.logger.DebugContext(ctx, "Fine computed",
			log.NewFields().
				WithSession(sessionID, "").
				WithRecord(line.Record.Title, line.Record.Borrowed.String(), line.Record.Returned.String()).
				WithFine(line.Result.DurationDays, line.Result.OverdueDays, line.Result.Fine.Cents).
				ToSlice()...)
	}
	s.logger.InfoContext(ctx, "Session summarized",
		log.FieldSessionID, sessionID,
		log.FieldRecords, len(summary.Lines),
		log.FieldTotalCents, summary.Total.Cents,
		log.FieldOperation, log.OpSummarize)

	if err := s.publish(ctx, summary); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish fine assessed message",
			log.NewFields().WithSession(sessionID, "").WithError(err).WithOperation(log.OpPublish).ToSlice()...)
	}

	return summary, nil
}

func (s *BorrowingService) publish(ctx context.Context, summary core.Summary) error {
	if s.publisher == nil {
		s.logger.DebugContext(ctx, "AMQP publisher not configured, skipping fine assessed message")
		return nil
	}
	return s.publisher.PublishFineAssessed(ctx, amqp.NewFineAssessedMessage(summary, s.currency))
}

// Close closes the store and publisher when they hold resources
func (s *BorrowingService) Close() error {
	var errs []error

	if c, ok := s.store.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}
	if c, ok := s.publisher.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close borrowing service: %w", errors.Join(errs...))
	}
	return nil
}
