package repositories

import (
	"context"
	"errors"
	"log"

	"jpashop/internal/common"

	"github.com/jackc/pgx/v5"
)

// Querier is the read-only query surface shared by pools, transactions and
// sessions. Loaders never write.
type Querier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// DB opens sessions. *pgxpool.Pool satisfies it.
type DB interface {
	Querier
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

var readOnlyTx = pgx.TxOptions{AccessMode: pgx.ReadOnly}

// Session binds every loader call of one request to a single read-only
// transaction. It must not be shared across goroutines. Once committed or
// closed, further queries fail with common.ErrSessionClosed.
type Session struct {
	tx      pgx.Tx
	closed  bool
	queries int
}

func OpenSession(ctx context.Context, db DB) (*Session, error) {
	tx, err := db.BeginTx(ctx, readOnlyTx)
	if err != nil {
		return nil, common.WrapQueryError("open session", err)
	}
	return &Session{tx: tx}, nil
}

func (s *Session) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	if s.closed {
		return nil, common.ErrSessionClosed
	}
	s.queries++
	return s.tx.Query(ctx, sql, args...)
}

func (s *Session) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	if s.closed {
		return errRow{err: common.ErrSessionClosed}
	}
	s.queries++
	return s.tx.QueryRow(ctx, sql, args...)
}

// QueryCount reports how many statements went through the session.
func (s *Session) QueryCount() int {
	return s.queries
}

func (s *Session) Closed() bool {
	return s.closed
}

func (s *Session) Commit(ctx context.Context) error {
	if s.closed {
		return common.ErrSessionClosed
	}
	s.closed = true
	if err := s.tx.Commit(ctx); err != nil {
		return common.WrapQueryError("commit session", err)
	}
	return nil
}

// Close rolls back the transaction unless it was already committed. It is
// safe to call more than once, so callers defer it right after OpenSession.
func (s *Session) Close(ctx context.Context) {
	if s.closed {
		return
	}
	s.closed = true
	if err := s.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		log.Printf("WARN: session rollback failed: %v", err)
	}
}

type errRow struct {
	err error
}

func (r errRow) Scan(dest ...interface{}) error {
	return r.err
}
