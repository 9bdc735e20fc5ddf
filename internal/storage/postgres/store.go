// Package postgres is the server-backed Store for deployments where
// the ledger outlives a single machine. Schema setup is idempotent DDL
// on open.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"dompet/internal/core"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS wallets (
    id            TEXT PRIMARY KEY,
    owner_id      TEXT NOT NULL,
    name          TEXT NOT NULL,
    code          TEXT NOT NULL DEFAULT '',
    type          TEXT NOT NULL,
    opening_cents BIGINT NOT NULL DEFAULT 0,
    balance_cents BIGINT NOT NULL DEFAULT 0,
    created_at    TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_wallets_owner ON wallets(owner_id);

CREATE TABLE IF NOT EXISTS transactions (
    id           TEXT PRIMARY KEY,
    owner_id     TEXT NOT NULL,
    wallet_id    TEXT NOT NULL,
    debt_id      TEXT NOT NULL DEFAULT '',
    type         TEXT NOT NULL,
    category     TEXT NOT NULL,
    amount_cents BIGINT NOT NULL,
    description  TEXT NOT NULL DEFAULT '',
    occurred_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_transactions_owner ON transactions(owner_id);
CREATE INDEX IF NOT EXISTS idx_transactions_wallet ON transactions(wallet_id);
CREATE INDEX IF NOT EXISTS idx_transactions_debt ON transactions(debt_id);

CREATE TABLE IF NOT EXISTS debts (
    id              TEXT PRIMARY KEY,
    owner_id        TEXT NOT NULL,
    wallet_id       TEXT NOT NULL,
    title           TEXT NOT NULL,
    type            TEXT NOT NULL,
    initial_cents   BIGINT NOT NULL,
    remaining_cents BIGINT NOT NULL,
    due_date        TIMESTAMPTZ NOT NULL,
    is_paid         BOOLEAN NOT NULL DEFAULT FALSE,
    created_at      TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_debts_owner ON debts(owner_id);

CREATE TABLE IF NOT EXISTS budgets (
    owner_id            TEXT NOT NULL,
    category            TEXT NOT NULL,
    monthly_limit_cents BIGINT NOT NULL,
    PRIMARY KEY (owner_id, category)
);
`

func New(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) Wallets(ctx context.Context, ownerID string) ([]core.Wallet, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, name, code, type, opening_cents, balance_cents, created_at
		FROM wallets WHERE owner_id = $1 ORDER BY created_at, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query wallets: %w", err)
	}
	defer rows.Close()

	var out []core.Wallet
	for rows.Next() {
		var w core.Wallet
		if err := rows.Scan(&w.ID, &w.OwnerID, &w.Name, &w.Code, &w.Type,
			&w.Opening.Cents, &w.Balance.Cents, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan wallet: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (s *Store) Wallet(ctx context.Context, ownerID, id string) (core.Wallet, error) {
	var w core.Wallet
	err := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, name, code, type, opening_cents, balance_cents, created_at
		FROM wallets WHERE owner_id = $1 AND id = $2`, ownerID, id).
		Scan(&w.ID, &w.OwnerID, &w.Name, &w.Code, &w.Type,
			&w.Opening.Cents, &w.Balance.Cents, &w.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Wallet{}, core.ErrWalletNotFound
	}
	if err != nil {
		return core.Wallet{}, fmt.Errorf("scan wallet: %w", err)
	}
	return w, nil
}

func (s *Store) SaveWallet(ctx context.Context, w core.Wallet) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO wallets (id, owner_id, name, code, type, opening_cents, balance_cents, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, code = EXCLUDED.code, type = EXCLUDED.type`,
		w.ID, w.OwnerID, w.Name, w.Code, w.Type, w.Opening.Cents, w.Balance.Cents, w.CreatedAt)
	if err != nil {
		return fmt.Errorf("save wallet: %w", err)
	}
	return nil
}

func (s *Store) Transactions(ctx context.Context, ownerID string) ([]core.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, wallet_id, debt_id, type, category, amount_cents, description, occurred_at
		FROM transactions WHERE owner_id = $1 ORDER BY occurred_at, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var t core.Transaction
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.WalletID, &t.DebtID, &t.Type,
			&t.Category, &t.Amount.Cents, &t.Description, &t.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) Transaction(ctx context.Context, ownerID, id string) (core.Transaction, error) {
	var t core.Transaction
	err := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, wallet_id, debt_id, type, category, amount_cents, description, occurred_at
		FROM transactions WHERE owner_id = $1 AND id = $2`, ownerID, id).
		Scan(&t.ID, &t.OwnerID, &t.WalletID, &t.DebtID, &t.Type,
			&t.Category, &t.Amount.Cents, &t.Description, &t.OccurredAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrTransactionNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	return t, nil
}

func (s *Store) Debts(ctx context.Context, ownerID string) ([]core.Debt, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, wallet_id, title, type, initial_cents, remaining_cents, due_date, is_paid, created_at
		FROM debts WHERE owner_id = $1 ORDER BY created_at, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query debts: %w", err)
	}
	defer rows.Close()

	var out []core.Debt
	for rows.Next() {
		var d core.Debt
		if err := rows.Scan(&d.ID, &d.OwnerID, &d.WalletID, &d.Title, &d.Type,
			&d.Initial.Cents, &d.Remaining.Cents, &d.DueDate, &d.IsPaid, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan debt: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) Debt(ctx context.Context, ownerID, id string) (core.Debt, error) {
	var d core.Debt
	err := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, wallet_id, title, type, initial_cents, remaining_cents, due_date, is_paid, created_at
		FROM debts WHERE owner_id = $1 AND id = $2`, ownerID, id).
		Scan(&d.ID, &d.OwnerID, &d.WalletID, &d.Title, &d.Type,
			&d.Initial.Cents, &d.Remaining.Cents, &d.DueDate, &d.IsPaid, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Debt{}, core.ErrDebtNotFound
	}
	if err != nil {
		return core.Debt{}, fmt.Errorf("scan debt: %w", err)
	}
	return d, nil
}

func (s *Store) Budgets(ctx context.Context, ownerID string) ([]core.Budget, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT owner_id, category, monthly_limit_cents
		FROM budgets WHERE owner_id = $1 ORDER BY category`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		var b core.Budget
		if err := rows.Scan(&b.OwnerID, &b.Category, &b.MonthlyLimit.Cents); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Store) SaveBudget(ctx context.Context, b core.Budget) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO budgets (owner_id, category, monthly_limit_cents)
		VALUES ($1, $2, $3)
		ON CONFLICT (owner_id, category) DO UPDATE SET monthly_limit_cents = EXCLUDED.monthly_limit_cents`,
		b.OwnerID, b.Category, b.MonthlyLimit.Cents)
	if err != nil {
		return fmt.Errorf("save budget: %w", err)
	}
	return nil
}

func (s *Store) Owners(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT owner_id FROM wallets ORDER BY owner_id`)
	if err != nil {
		return nil, fmt.Errorf("query owners: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan owner: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// Apply runs the change set in a single database transaction, balance
// deltas last and as in-place increments.
func (s *Store) Apply(ctx context.Context, cs core.ChangeSet) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin change set: %w", err)
	}
	defer tx.Rollback()

	for _, t := range cs.PutTransactions {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO transactions (id, owner_id, wallet_id, debt_id, type, category, amount_cents, description, occurred_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			t.ID, t.OwnerID, t.WalletID, t.DebtID, t.Type, t.Category,
			t.Amount.Cents, t.Description, t.OccurredAt); err != nil {
			return fmt.Errorf("insert transaction %s: %w", t.ID, err)
		}
	}
	for _, id := range cs.DeleteTransactionIDs {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM transactions WHERE owner_id = $1 AND id = $2`, cs.OwnerID, id)
		if err != nil {
			return fmt.Errorf("delete transaction %s: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return core.ErrTransactionNotFound
		}
	}
	for _, d := range cs.PutDebts {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO debts (id, owner_id, wallet_id, title, type, initial_cents, remaining_cents, due_date, is_paid, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (id) DO UPDATE SET remaining_cents = EXCLUDED.remaining_cents, is_paid = EXCLUDED.is_paid`,
			d.ID, d.OwnerID, d.WalletID, d.Title, d.Type, d.Initial.Cents,
			d.Remaining.Cents, d.DueDate, d.IsPaid, d.CreatedAt); err != nil {
			return fmt.Errorf("upsert debt %s: %w", d.ID, err)
		}
	}
	for _, id := range cs.DeleteDebtIDs {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM debts WHERE owner_id = $1 AND id = $2`, cs.OwnerID, id)
		if err != nil {
			return fmt.Errorf("delete debt %s: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return core.ErrDebtNotFound
		}
	}
	for _, id := range cs.DeleteWalletIDs {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM wallets WHERE owner_id = $1 AND id = $2`, cs.OwnerID, id)
		if err != nil {
			return fmt.Errorf("delete wallet %s: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return core.ErrWalletNotFound
		}
	}
	for _, d := range cs.Deltas {
		res, err := tx.ExecContext(ctx, `
			UPDATE wallets SET balance_cents = balance_cents + $1
			WHERE owner_id = $2 AND id = $3`, d.Cents, cs.OwnerID, d.WalletID)
		if err != nil {
			return fmt.Errorf("apply delta to wallet %s: %w", d.WalletID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return core.ErrWalletNotFound
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit change set: %w", err)
	}
	return nil
}
