package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fintrack/internal/core"

	_ "modernc.org/sqlite"
)

// dateLayout is the canonical storage format for transaction dates (UTC).
// Keeping dates as TEXT in this layout makes strftime grouping and
// lexicographic range comparisons well defined.
const dateLayout = "2006-01-02 15:04:05"

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateUser inserts a new user. Username and email are unique; a conflict
// surfaces as ErrDuplicate.
func (r *SQLiteRepository) CreateUser(ctx context.Context, username, email, passwordHash string) (*core.User, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)`,
		username, email, passwordHash)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create user id: %w", err)
	}
	return &core.User{ID: id, Username: username, Email: email, PasswordHash: passwordHash}, nil
}

func (r *SQLiteRepository) GetUserByUsername(ctx context.Context, username string) (*core.User, error) {
	var (
		u       core.User
		created string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, created_at FROM users WHERE username = ?`,
		username).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	if ts, perr := time.Parse(dateLayout, created); perr == nil {
		u.CreatedAt = ts.UTC()
	}
	return &u, nil
}

// CreateTransaction writes one transaction and returns its id. The date is
// stored in UTC; the caller is responsible for defaulting a zero date.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (int64, error) {
	var categoryID sql.NullInt64
	if t.CategoryID != nil {
		categoryID = sql.NullInt64{Int64: *t.CategoryID, Valid: true}
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (date, amount_cents, description, user_id, category_id)
		 VALUES (?, ?, ?, ?, ?)`,
		t.Date.UTC().Format(dateLayout), t.Amount.Cents, t.Description, t.UserID, categoryID)
	if err != nil {
		return 0, fmt.Errorf("create transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create transaction id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", id,
		"user_id", t.UserID,
		"amount_cents", t.Amount.Cents,
		"description", t.Description)
	return id, nil
}

// RecentTransactions returns the user's transactions newest first. Rows with
// equal dates fall back to insertion order (id descending).
func (r *SQLiteRepository) RecentTransactions(ctx context.Context, userID int64, limit int) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, date, amount_cents, description, user_id, category_id
		 FROM transactions
		 WHERE user_id = ?
		 ORDER BY date DESC, id DESC
		 LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var (
			t        core.Transaction
			date     string
			category sql.NullInt64
		)
		if err := rows.Scan(&t.ID, &date, &t.Amount.Cents, &t.Description, &t.UserID, &category); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		ts, err := time.Parse(dateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("parse transaction date %q: %w", date, err)
		}
		t.Date = ts.UTC()
		if category.Valid {
			id := category.Int64
			t.CategoryID = &id
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// TopCategories sums amounts per category for the user, joined to the
// category name, largest sum first. Ties break on name ascending so the
// order is stable. Transactions without a category are not represented.
func (r *SQLiteRepository) TopCategories(ctx context.Context, userID int64, limit int) ([]core.CategoryTotal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT c.name, SUM(t.amount_cents) AS total
		 FROM transactions t
		 JOIN categories c ON c.id = t.category_id
		 WHERE t.user_id = ?
		 GROUP BY c.name
		 ORDER BY total DESC, c.name ASC
		 LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("top categories: %w", err)
	}
	defer rows.Close()

	var out []core.CategoryTotal
	for rows.Next() {
		var ct core.CategoryTotal
		if err := rows.Scan(&ct.Name, &ct.Total.Cents); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		out = append(out, ct)
	}
	return out, rows.Err()
}

// MonthlyTotals groups the user's transactions by (year, month) of the
// transaction date and sums amounts per group. The result carries no order
// guarantee; callers sort before trend analysis.
func (r *SQLiteRepository) MonthlyTotals(ctx context.Context, userID int64) ([]core.MonthlyTotal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT CAST(strftime('%Y', date) AS INTEGER) AS year,
		        CAST(strftime('%m', date) AS INTEGER) AS month,
		        SUM(amount_cents) AS total
		 FROM transactions
		 WHERE user_id = ?
		 GROUP BY year, month`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("monthly totals: %w", err)
	}
	defer rows.Close()

	var out []core.MonthlyTotal
	for rows.Next() {
		var mt core.MonthlyTotal
		if err := rows.Scan(&mt.Year, &mt.Month, &mt.Total.Cents); err != nil {
			return nil, fmt.Errorf("scan monthly total: %w", err)
		}
		out = append(out, mt)
	}
	return out, rows.Err()
}

// TotalSince sums amounts for the user's transactions dated strictly after
// since. With no matching rows it returns zero, never an error.
func (r *SQLiteRepository) TotalSince(ctx context.Context, userID int64, since time.Time) (core.Money, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0)
		 FROM transactions
		 WHERE user_id = ? AND date > ?`,
		userID, since.UTC().Format(dateLayout)).Scan(&total)
	if err != nil {
		return core.Money{}, fmt.Errorf("total since: %w", err)
	}
	return core.Money{Cents: total}, nil
}

// SeedCategories inserts the given category names, skipping names that
// already exist. Running it twice leaves the table unchanged.
func (r *SQLiteRepository) SeedCategories(ctx context.Context, names []string) error {
	for _, name := range names {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO categories (name) VALUES (?) ON CONFLICT (name) DO NOTHING`,
			name); err != nil {
			return fmt.Errorf("seed category %q: %w", name, err)
		}
	}
	slog.InfoContext(ctx, "Categories seeded", "count", len(names))
	return nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CategoryExists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM categories WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("category exists: %w", err)
	}
	return true, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
