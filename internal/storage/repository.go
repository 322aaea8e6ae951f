package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"libfine/internal/core"
	"libfine/internal/ledger"
	"libfine/internal/log"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the SQLite implementation of ledger.Store.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens dsn, which is either a file path or a SQLite URI
// such as "file:libfine?mode=memory&cache=shared", and migrates it.
func NewSQLiteRepository(dsn string) (*SQLiteRepository, error) {
	if !IsMemoryDSN(dsn) {
		if err := os.MkdirAll(filepath.Dir(filePath(dsn)), 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// An in-memory database lives only as long as its connection, so keep a
	// single long-lived one.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// IsMemoryDSN reports whether dsn names an in-memory database.
func IsMemoryDSN(dsn string) bool {
	return dsn == ":memory:" || strings.Contains(dsn, "mode=memory") || strings.HasPrefix(dsn, "file::memory:")
}

func filePath(dsn string) string {
	p := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	return p
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// OpenSession implements ledger.SessionWriter
func (r *SQLiteRepository) OpenSession(ctx context.Context, customer string) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, customer) VALUES (?, ?)`,
		id, strings.TrimRight(customer, "\r\n"))
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}

	r.logger(ctx).DebugContext(ctx, "Session saved to SQLite",
		log.FieldSessionID, id,
		log.FieldOperation, log.OpOpen)
	return id, nil
}

// AppendRecord implements ledger.RecordWriter
func (r *SQLiteRepository) AppendRecord(ctx context.Context, sessionID string, rec core.BorrowRecord) (string, error) {
	if err := rec.Validate(); err != nil {
		return "", err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := sessionExists(ctx, tx, sessionID); err != nil {
		return "", err
	}

	var position int64
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position), 0) + 1 FROM borrow_records WHERE session_id = ?`,
		sessionID).Scan(&position)
	if err != nil {
		return "", fmt.Errorf("next record position: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO borrow_records (
			session_id, position, title,
			borrow_day, borrow_month, borrow_year,
			return_day, return_month, return_year
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID, position, rec.Title,
		rec.Borrowed.Day, rec.Borrowed.Month, rec.Borrowed.Year,
		rec.Returned.Day, rec.Returned.Month, rec.Returned.Year)
	if err != nil {
		return "", fmt.Errorf("insert borrow record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("borrow record id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit borrow record: %w", err)
	}

	r.logger(ctx).DebugContext(ctx, "Borrow record saved to SQLite",
		"id", id,
		"position", position,
		log.FieldSessionID, sessionID,
		log.FieldTitle, rec.Title,
		log.FieldOperation, log.OpAppend)

	return strconv.FormatInt(id, 10), nil
}

// Session implements ledger.SessionReader
func (r *SQLiteRepository) Session(ctx context.Context, sessionID string) (core.Session, error) {
	sess := core.Session{ID: sessionID}
	err := r.db.QueryRowContext(ctx,
		`SELECT customer FROM sessions WHERE id = ?`, sessionID).Scan(&sess.Customer)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Session{}, fmt.Errorf("%w: %s", ledger.ErrSessionNotFound, sessionID)
	}
	if err != nil {
		return core.Session{}, fmt.Errorf("get session: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT title, borrow_day, borrow_month, borrow_year, return_day, return_month, return_year
		FROM borrow_records
		WHERE session_id = ?
		ORDER BY position`, sessionID)
	if err != nil {
		return core.Session{}, fmt.Errorf("list borrow records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec core.BorrowRecord
		if err := rows.Scan(&rec.Title,
			&rec.Borrowed.Day, &rec.Borrowed.Month, &rec.Borrowed.Year,
			&rec.Returned.Day, &rec.Returned.Month, &rec.Returned.Year); err != nil {
			return core.Session{}, fmt.Errorf("scan borrow record: %w", err)
		}
		sess.Records = append(sess.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return core.Session{}, fmt.Errorf("iterate borrow records: %w", err)
	}

	r.logger(ctx).DebugContext(ctx, "Session loaded from SQLite",
		log.FieldSessionID, sessionID,
		log.FieldRecords, len(sess.Records),
		log.FieldOperation, log.OpRead)

	return sess, nil
}

func (r *SQLiteRepository) logger(ctx context.Context) *log.Logger {
	return log.FromContext(ctx).WithComponent(log.ComponentStorage)
}

func sessionExists(ctx context.Context, tx *sql.Tx, sessionID string) error {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM sessions WHERE id = ?`, sessionID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ledger.ErrSessionNotFound, sessionID)
	}
	if err != nil {
		return fmt.Errorf("check session: %w", err)
	}
	return nil
}

var _ ledger.Store = (*SQLiteRepository)(nil)
