package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"libfine/internal/core"
	"libfine/internal/ledger"
	"libfine/internal/log"
)

type Store struct {
	mu       sync.Mutex
	sessions map[string]*core.Session
}

func New() *Store {
	return &Store{sessions: make(map[string]*core.Session)}
}

// OpenSession registers a new session with a random id.
func (s *Store) OpenSession(ctx context.Context, customer string) (string, error) {
	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = &core.Session{ID: id, Customer: strings.TrimRight(customer, "\r\n")}
	s.mu.Unlock()

	logger(ctx).DebugContext(ctx, "Session opened in memory",
		log.FieldSessionID, id,
		log.FieldOperation, log.OpOpen)
	return id, nil
}

// AppendRecord stores the record and returns a synthetic reference.
func (s *Store) AppendRecord(ctx context.Context, sessionID string, r core.BorrowRecord) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return "", fmt.Errorf("%w: %s", ledger.ErrSessionNotFound, sessionID)
	}
	sess.Records = append(sess.Records, r)
	position := len(sess.Records)
	s.mu.Unlock()

	logger(ctx).DebugContext(ctx, "Borrow record stored in memory",
		"position", position,
		log.FieldSessionID, sessionID,
		log.FieldTitle, r.Title,
		log.FieldOperation, log.OpAppend)
	return fmt.Sprintf("mem:%s:%d", sessionID, position), nil
}

// Session returns a copy so callers cannot mutate stored records.
func (s *Store) Session(ctx context.Context, sessionID string) (core.Session, error) {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return core.Session{}, fmt.Errorf("%w: %s", ledger.ErrSessionNotFound, sessionID)
	}
	out := *sess
	out.Records = append([]core.BorrowRecord(nil), sess.Records...)
	s.mu.Unlock()

	logger(ctx).DebugContext(ctx, "Session read from memory",
		log.FieldSessionID, sessionID,
		log.FieldRecords, len(out.Records),
		log.FieldOperation, log.OpRead)
	return out, nil
}

func logger(ctx context.Context) *log.Logger {
	return log.FromContext(ctx).WithComponent(log.ComponentLedger)
}

var _ ledger.Store = (*Store)(nil)
