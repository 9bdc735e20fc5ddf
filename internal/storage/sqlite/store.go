// Package sqlite is the embedded Store backend: a single-file database
// with schema migrations applied on open.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"dompet/internal/core"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

const walletColumns = `id, owner_id, name, code, type, opening_cents, balance_cents, created_at`

func scanWallet(row interface{ Scan(...any) error }) (core.Wallet, error) {
	var w core.Wallet
	err := row.Scan(&w.ID, &w.OwnerID, &w.Name, &w.Code, &w.Type,
		&w.Opening.Cents, &w.Balance.Cents, &w.CreatedAt)
	return w, err
}

func (s *Store) Wallets(ctx context.Context, ownerID string) ([]core.Wallet, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+walletColumns+` FROM wallets WHERE owner_id = ? ORDER BY created_at, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query wallets: %w", err)
	}
	defer rows.Close()

	var out []core.Wallet
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan wallet: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (s *Store) Wallet(ctx context.Context, ownerID, id string) (core.Wallet, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+walletColumns+` FROM wallets WHERE owner_id = ? AND id = ?`, ownerID, id)
	w, err := scanWallet(row)
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
		INSERT INTO wallets (`+walletColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, code = excluded.code, type = excluded.type`,
		w.ID, w.OwnerID, w.Name, w.Code, w.Type, w.Opening.Cents, w.Balance.Cents, w.CreatedAt)
	if err != nil {
		return fmt.Errorf("save wallet: %w", err)
	}
	return nil
}

const transactionColumns = `id, owner_id, wallet_id, debt_id, type, category, amount_cents, description, occurred_at`

func scanTransaction(row interface{ Scan(...any) error }) (core.Transaction, error) {
	var t core.Transaction
	err := row.Scan(&t.ID, &t.OwnerID, &t.WalletID, &t.DebtID, &t.Type,
		&t.Category, &t.Amount.Cents, &t.Description, &t.OccurredAt)
	return t, err
}

func (s *Store) Transactions(ctx context.Context, ownerID string) ([]core.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE owner_id = ? ORDER BY occurred_at, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) Transaction(ctx context.Context, ownerID, id string) (core.Transaction, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE owner_id = ? AND id = ?`, ownerID, id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrTransactionNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	return t, nil
}

const debtColumns = `id, owner_id, wallet_id, title, type, initial_cents, remaining_cents, due_date, is_paid, created_at`

func scanDebt(row interface{ Scan(...any) error }) (core.Debt, error) {
	var d core.Debt
	err := row.Scan(&d.ID, &d.OwnerID, &d.WalletID, &d.Title, &d.Type,
		&d.Initial.Cents, &d.Remaining.Cents, &d.DueDate, &d.IsPaid, &d.CreatedAt)
	return d, err
}

func (s *Store) Debts(ctx context.Context, ownerID string) ([]core.Debt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+debtColumns+` FROM debts WHERE owner_id = ? ORDER BY created_at, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query debts: %w", err)
	}
	defer rows.Close()

	var out []core.Debt
	for rows.Next() {
		d, err := scanDebt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan debt: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) Debt(ctx context.Context, ownerID, id string) (core.Debt, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+debtColumns+` FROM debts WHERE owner_id = ? AND id = ?`, ownerID, id)
	d, err := scanDebt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Debt{}, core.ErrDebtNotFound
	}
	if err != nil {
		return core.Debt{}, fmt.Errorf("scan debt: %w", err)
	}
	return d, nil
}

func (s *Store) Budgets(ctx context.Context, ownerID string) ([]core.Budget, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT owner_id, category, monthly_limit_cents FROM budgets WHERE owner_id = ? ORDER BY category`, ownerID)
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
		VALUES (?, ?, ?)
		ON CONFLICT(owner_id, category) DO UPDATE SET monthly_limit_cents = excluded.monthly_limit_cents`,
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

// Apply runs the whole change set inside one database transaction.
// Balance moves are expressed as increments in the UPDATE itself, so
// concurrent appliers cannot lose updates to a stale read.
func (s *Store) Apply(ctx context.Context, cs core.ChangeSet) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin change set: %w", err)
	}
	defer tx.Rollback()

	for _, t := range cs.PutTransactions {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO transactions (`+transactionColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.OwnerID, t.WalletID, t.DebtID, t.Type, t.Category,
			t.Amount.Cents, t.Description, t.OccurredAt); err != nil {
			return fmt.Errorf("insert transaction %s: %w", t.ID, err)
		}
	}
	for _, id := range cs.DeleteTransactionIDs {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM transactions WHERE owner_id = ? AND id = ?`, cs.OwnerID, id)
		if err != nil {
			return fmt.Errorf("delete transaction %s: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return core.ErrTransactionNotFound
		}
	}
	for _, d := range cs.PutDebts {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO debts (`+debtColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET remaining_cents = excluded.remaining_cents, is_paid = excluded.is_paid`,
			d.ID, d.OwnerID, d.WalletID, d.Title, d.Type, d.Initial.Cents,
			d.Remaining.Cents, d.DueDate, d.IsPaid, d.CreatedAt); err != nil {
			return fmt.Errorf("upsert debt %s: %w", d.ID, err)
		}
	}
	for _, id := range cs.DeleteDebtIDs {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM debts WHERE owner_id = ? AND id = ?`, cs.OwnerID, id)
		if err != nil {
			return fmt.Errorf("delete debt %s: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return core.ErrDebtNotFound
		}
	}
	for _, id := range cs.DeleteWalletIDs {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM wallets WHERE owner_id = ? AND id = ?`, cs.OwnerID, id)
		if err != nil {
			return fmt.Errorf("delete wallet %s: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return core.ErrWalletNotFound
		}
	}
	for _, d := range cs.Deltas {
		res, err := tx.ExecContext(ctx, `
			UPDATE wallets SET balance_cents = balance_cents + ?
			WHERE owner_id = ? AND id = ?`, d.Cents, cs.OwnerID, d.WalletID)
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
