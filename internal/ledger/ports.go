// Package ledger defines the transaction store: one session per customer
// holding that customer's borrow records in entry order.
package ledger

import (
	"context"
	"errors"

	"libfine/internal/core"
)

var ErrSessionNotFound = errors.New("session not found")

// Ports for the transaction store.
type (
	SessionWriter interface {
		// OpenSession starts a session for customer and returns its id.
		OpenSession(ctx context.Context, customer string) (id string, err error)
	}

	RecordWriter interface {
		// AppendRecord validates and stores a record at the end of the session.
		AppendRecord(ctx context.Context, sessionID string, r core.BorrowRecord) (ref string, err error)
	}

	SessionReader interface {
		Session(ctx context.Context, sessionID string) (core.Session, error)
	}

	Store interface {
		SessionWriter
		RecordWriter
		SessionReader
	}
)
