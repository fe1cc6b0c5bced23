/*
Package sqlite provides a SQLite-backed treasury.DataSource.

PURPOSE:
  Persists the account registry and its receivables/payables, and exposes
  the read operations the forecast engine depends on. The engine itself
  never writes; the write operations here exist to feed records in (API,
  scenario loader, imports).

KEY TABLES:
  accounts:     id, name, current balance, advance/overdraft ceilings
  receivables:  invoice + optional advance terms and fold flags
  payables:     invoice to be paid

ENCODING:
  Money is stored as TEXT (decimal string) to avoid floating-point drift,
  dates as TEXT in ISO form. Nullable dates map to NULL columns.

CONCURRENCY:
  sync.RWMutex around the connection, same as the rest of the codebase.
  In production with PostgreSQL the database's own concurrency control
  takes over - only SQL dialect details differ.

USAGE:
  store, err := sqlite.New("./data/treasury.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  engine := forecast.NewEngine(store)

SEE ALSO:
  - treasury/source.go: DataSource contract
  - store/memory: in-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/treasury-engine/treasury"
)

const dayFormat = "2006-01-02"

// Store implements treasury.DataSource plus the write operations needed
// to feed it.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (creating if needed) the database at dbPath and migrates the
// schema. Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS accounts (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		current_balance TEXT NOT NULL,
		advance_ceiling TEXT NOT NULL,
		overdraft_ceiling TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS receivables (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL REFERENCES accounts(id),
		counterparty TEXT NOT NULL,
		invoice_amount TEXT NOT NULL,
		due_date TEXT NOT NULL,
		settled BOOLEAN NOT NULL DEFAULT FALSE,
		settled_date TEXT,
		advance_amount TEXT NOT NULL DEFAULT '0',
		advance_draw_date TEXT,
		advance_reversal_date TEXT,
		advance_folded_at_draw BOOLEAN NOT NULL DEFAULT FALSE,
		advance_folded_at_reversal BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_receivables_account
		ON receivables(account_id);
	CREATE INDEX IF NOT EXISTS idx_receivables_account_due
		ON receivables(account_id, due_date);
	CREATE INDEX IF NOT EXISTS idx_receivables_settled
		ON receivables(settled);

	CREATE TABLE IF NOT EXISTS payables (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL REFERENCES accounts(id),
		counterparty TEXT NOT NULL,
		amount TEXT NOT NULL,
		due_date TEXT NOT NULL,
		settled BOOLEAN NOT NULL DEFAULT FALSE,
		settled_date TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_payables_account
		ON payables(account_id);
	CREATE INDEX IF NOT EXISTS idx_payables_account_due
		ON payables(account_id, due_date);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// WRITES - Feeding records in
// =============================================================================

// SaveAccount inserts or replaces an account.
func (s *Store) SaveAccount(ctx context.Context, account treasury.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO accounts (id, name, current_balance, advance_ceiling, overdraft_ceiling, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		string(account.ID), account.Name,
		account.CurrentBalance.String(), account.AdvanceCeiling.String(), account.OverdraftCeiling.String(),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// SaveReceivable inserts or replaces a receivable.
func (s *Store) SaveReceivable(ctx context.Context, rec treasury.Receivable) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO receivables
			(id, account_id, counterparty, invoice_amount, due_date, settled, settled_date,
			 advance_amount, advance_draw_date, advance_reversal_date,
			 advance_folded_at_draw, advance_folded_at_reversal, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(rec.ID), string(rec.AccountID), rec.CounterpartyName,
		rec.InvoiceAmount.String(), rec.DueDate.Format(dayFormat),
		rec.Settled, nullDay(rec.SettledDate),
		rec.AdvanceAmount.String(), nullDay(rec.AdvanceDrawDate), nullDay(rec.AdvanceReversalDate),
		rec.AdvanceFoldedAtDraw, rec.AdvanceFoldedAtReversal,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// SavePayable inserts or replaces a payable.
func (s *Store) SavePayable(ctx context.Context, pay treasury.Payable) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO payables
			(id, account_id, counterparty, amount, due_date, settled, settled_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		string(pay.ID), string(pay.AccountID), pay.CounterpartyName,
		pay.Amount.String(), pay.DueDate.Format(dayFormat),
		pay.Settled, nullDay(pay.SettledDate),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// Reset drops all records. Used by the demo scenario loader only.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"receivables", "payables", "accounts"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}
	return nil
}

// =============================================================================
// READS - treasury.DataSource implementation
// =============================================================================

var _ treasury.DataSource = (*Store)(nil)

func (s *Store) Account(ctx context.Context, id treasury.AccountID) (*treasury.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, current_balance, advance_ceiling, overdraft_ceiling
		FROM accounts WHERE id = ?`, string(id))

	account, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *Store) Accounts(ctx context.Context) ([]treasury.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, current_balance, advance_ceiling, overdraft_ceiling
		FROM accounts ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []treasury.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

func (s *Store) Receivables(ctx context.Context, accountID treasury.AccountID) ([]treasury.Receivable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, account_id, counterparty, invoice_amount, due_date, settled, settled_date,
		       advance_amount, advance_draw_date, advance_reversal_date,
		       advance_folded_at_draw, advance_folded_at_reversal
		FROM receivables WHERE account_id = ? ORDER BY due_date, id`, string(accountID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var receivables []treasury.Receivable
	for rows.Next() {
		var (
			rec                          treasury.Receivable
			id, acct                     string
			invoiceAmount, advanceAmount string
			dueDate                      string
			settledDate, drawDate        sql.NullString
			reversalDate                 sql.NullString
		)
		if err := rows.Scan(&id, &acct, &rec.CounterpartyName, &invoiceAmount, &dueDate,
			&rec.Settled, &settledDate, &advanceAmount, &drawDate, &reversalDate,
			&rec.AdvanceFoldedAtDraw, &rec.AdvanceFoldedAtReversal); err != nil {
			return nil, err
		}

		rec.ID = treasury.ReceivableID(id)
		rec.AccountID = treasury.AccountID(acct)
		if rec.InvoiceAmount, err = decimal.NewFromString(invoiceAmount); err != nil {
			return nil, fmt.Errorf("receivable %s: bad invoice amount: %w", id, err)
		}
		if rec.AdvanceAmount, err = decimal.NewFromString(advanceAmount); err != nil {
			return nil, fmt.Errorf("receivable %s: bad advance amount: %w", id, err)
		}
		if rec.DueDate, err = time.Parse(dayFormat, dueDate); err != nil {
			return nil, fmt.Errorf("receivable %s: bad due date: %w", id, err)
		}
		if rec.SettledDate, err = parseNullDay(settledDate); err != nil {
			return nil, fmt.Errorf("receivable %s: bad settled date: %w", id, err)
		}
		if rec.AdvanceDrawDate, err = parseNullDay(drawDate); err != nil {
			return nil, fmt.Errorf("receivable %s: bad advance draw date: %w", id, err)
		}
		if rec.AdvanceReversalDate, err = parseNullDay(reversalDate); err != nil {
			return nil, fmt.Errorf("receivable %s: bad advance reversal date: %w", id, err)
		}

		receivables = append(receivables, rec)
	}
	return receivables, rows.Err()
}

func (s *Store) Payables(ctx context.Context, accountID treasury.AccountID) ([]treasury.Payable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, account_id, counterparty, amount, due_date, settled, settled_date
		FROM payables WHERE account_id = ? ORDER BY due_date, id`, string(accountID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payables []treasury.Payable
	for rows.Next() {
		var (
			pay         treasury.Payable
			id, acct    string
			amount      string
			dueDate     string
			settledDate sql.NullString
		)
		if err := rows.Scan(&id, &acct, &pay.CounterpartyName, &amount, &dueDate,
			&pay.Settled, &settledDate); err != nil {
			return nil, err
		}

		pay.ID = treasury.PayableID(id)
		pay.AccountID = treasury.AccountID(acct)
		if pay.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("payable %s: bad amount: %w", id, err)
		}
		if pay.DueDate, err = time.Parse(dayFormat, dueDate); err != nil {
			return nil, fmt.Errorf("payable %s: bad due date: %w", id, err)
		}
		if pay.SettledDate, err = parseNullDay(settledDate); err != nil {
			return nil, fmt.Errorf("payable %s: bad settled date: %w", id, err)
		}

		payables = append(payables, pay)
	}
	return payables, rows.Err()
}

// =============================================================================
// ENCODING HELPERS
// =============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (treasury.Account, error) {
	var (
		account                            treasury.Account
		id, balance, advCeiling, odCeiling string
	)
	if err := row.Scan(&id, &account.Name, &balance, &advCeiling, &odCeiling); err != nil {
		return treasury.Account{}, err
	}

	account.ID = treasury.AccountID(id)
	var err error
	if account.CurrentBalance, err = decimal.NewFromString(balance); err != nil {
		return treasury.Account{}, fmt.Errorf("account %s: bad balance: %w", id, err)
	}
	if account.AdvanceCeiling, err = decimal.NewFromString(advCeiling); err != nil {
		return treasury.Account{}, fmt.Errorf("account %s: bad advance ceiling: %w", id, err)
	}
	if account.OverdraftCeiling, err = decimal.NewFromString(odCeiling); err != nil {
		return treasury.Account{}, fmt.Errorf("account %s: bad overdraft ceiling: %w", id, err)
	}
	return account, nil
}

func nullDay(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(dayFormat)
}

func parseNullDay(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := time.Parse(dayFormat, s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
