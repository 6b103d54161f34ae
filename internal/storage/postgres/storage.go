package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/polkiloo/banksampah/internal/domain/errors"
	"github.com/polkiloo/banksampah/internal/domain/model"
)

// Pool is the subset of pgxpool.Pool used by Storage.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Storage keeps the account snapshot in PostgreSQL.
type Storage struct {
	pool   Pool
	logger *slog.Logger
}

var readOptions = pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (Pool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := NewWithPool(pool, logger)
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// NewWithPool wraps an existing pool without touching the schema.
func NewWithPool(pool Pool, logger *slog.Logger) *Storage {
	return &Storage{pool: pool, logger: logger}
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
            name TEXT PRIMARY KEY,
            position INTEGER NOT NULL UNIQUE,
            balance DOUBLE PRECISION NOT NULL CHECK (balance >= 0)
        )`,
		`CREATE TABLE IF NOT EXISTS account_history (
            account_name TEXT NOT NULL REFERENCES accounts(name) ON DELETE CASCADE,
            seq INTEGER NOT NULL,
            kind TEXT NOT NULL CHECK (kind IN ('deposit', 'redemption')),
            description TEXT NOT NULL,
            delta DOUBLE PRECISION NOT NULL,
            PRIMARY KEY (account_name, seq)
        )`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// Load reads all accounts in creation order with their history.
// Rows that violate ledger invariants are reported as an error instead of being
// dropped, so the caller never overwrites them with an empty snapshot.
func (s *Storage) Load(ctx context.Context) (*model.Snapshot, error) {
	snapshot := model.NewSnapshot()
	err := s.WithinTransaction(ctx, readOptions, func(tx pgx.Tx) error {
		const accountsQuery = `SELECT name, balance FROM accounts ORDER BY position`
		rows, err := tx.Query(ctx, accountsQuery)
		if err != nil {
			return err
		}
		index := make(map[string]*model.Account)
		for rows.Next() {
			acc := &model.Account{History: []model.Transaction{}}
			if err := rows.Scan(&acc.Name, &acc.Balance); err != nil {
				rows.Close()
				return err
			}
			snapshot.Accounts = append(snapshot.Accounts, acc)
			index[acc.Name] = acc
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		const historyQuery = `SELECT account_name, kind, description, delta
                              FROM account_history ORDER BY account_name, seq`
		rows, err = tx.Query(ctx, historyQuery)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var name, kind string
			var entry model.Transaction
			if err := rows.Scan(&name, &kind, &entry.Description, &entry.Delta); err != nil {
				return err
			}
			acc, ok := index[name]
			if !ok {
				return fmt.Errorf("history references unknown account %q", name)
			}
			entry.Kind = model.TransactionKind(kind)
			if entry.Kind != model.TransactionDeposit && entry.Kind != model.TransactionRedemption {
				return fmt.Errorf("account %q: unknown transaction kind %q", name, kind)
			}
			acc.History = append(acc.History, entry)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return snapshot, nil
}

// Save replaces stored accounts and history with the snapshot in one transaction.
func (s *Storage) Save(ctx context.Context, snapshot *model.Snapshot) error {
	accountRows := make([][]any, 0, len(snapshot.Accounts))
	var historyRows [][]any
	for position, acc := range snapshot.Accounts {
		accountRows = append(accountRows, []any{acc.Name, position, acc.Balance})
		for seq, tx := range acc.History {
			historyRows = append(historyRows, []any{acc.Name, seq, string(tx.Kind), tx.Description, tx.Delta})
		}
	}

	err := s.WithinTransaction(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM accounts`); err != nil {
			return err
		}
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{"accounts"},
			[]string{"name", "position", "balance"}, pgx.CopyFromRows(accountRows)); err != nil {
			return err
		}
		if len(historyRows) == 0 {
			return nil
		}
		_, err := tx.CopyFrom(ctx, pgx.Identifier{"account_history"},
			[]string{"account_name", "seq", "kind", "description", "delta"}, pgx.CopyFromRows(historyRows))
		return err
	})
	if err != nil {
		return fmt.Errorf("%w: %w", domainErrors.ErrPersistenceWrite, err)
	}
	s.logger.Debug("snapshot saved", slog.Int("accounts", len(accountRows)), slog.Int("history", len(historyRows)))
	return nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, opts pgx.TxOptions, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}
