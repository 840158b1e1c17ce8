package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/core"
)

// ErrUnknownCategory is returned when a transaction references a category id
// that does not exist.
var ErrUnknownCategory = errors.New("unknown category")

// Repository is the persistence surface the tracker needs. Implemented by
// storage.SQLiteRepository.
type Repository interface {
	CreateTransaction(ctx context.Context, t core.Transaction) (int64, error)
	RecentTransactions(ctx context.Context, userID int64, limit int) ([]core.Transaction, error)
	TopCategories(ctx context.Context, userID int64, limit int) ([]core.CategoryTotal, error)
	MonthlyTotals(ctx context.Context, userID int64) ([]core.MonthlyTotal, error)
	TotalSince(ctx context.Context, userID int64, since time.Time) (core.Money, error)
	ListCategories(ctx context.Context) ([]core.Category, error)
	CategoryExists(ctx context.Context, id int64) (bool, error)
}

// Tracker provides transaction ingestion and spending aggregation for one
// authenticated user at a time. It is stateless; the user identity is an
// explicit argument on every call.
type Tracker struct {
	repo        Repository
	recentLimit int
	topLimit    int
}

// Dashboard bundles everything the dashboard view needs.
type Dashboard struct {
	Recent        []core.Transaction
	TopCategories []core.CategoryTotal
	MonthlyTotals []core.MonthlyTotal
	Trends        []core.Trend
	Last24h       core.Money
}

func NewTracker(repo Repository, recentLimit, topLimit int) *Tracker {
	return &Tracker{repo: repo, recentLimit: recentLimit, topLimit: topLimit}
}

// AddTransaction validates and writes one transaction. A zero date defaults
// to the ingestion time. Category references are checked against the
// categories table; unknown ids are rejected with ErrUnknownCategory rather
// than written as dangling references.
func (t *Tracker) AddTransaction(ctx context.Context, userID int64, amount core.Money, description string, date time.Time, categoryID *int64) (int64, error) {
	if date.IsZero() {
		date = time.Now().UTC()
	}

	tx := core.Transaction{
		Date:        date.UTC(),
		Amount:      amount,
		Description: description,
		UserID:      userID,
		CategoryID:  categoryID,
	}
	if err := tx.Validate(); err != nil {
		return 0, err
	}

	if categoryID != nil {
		ok, err := t.repo.CategoryExists(ctx, *categoryID)
		if err != nil {
			return 0, fmt.Errorf("check category: %w", err)
		}
		if !ok {
			return 0, ErrUnknownCategory
		}
	}

	return t.repo.CreateTransaction(ctx, tx)
}

func (t *Tracker) RecentTransactions(ctx context.Context, userID int64, limit int) ([]core.Transaction, error) {
	if limit <= 0 {
		limit = t.recentLimit
	}
	return t.repo.RecentTransactions(ctx, userID, limit)
}

func (t *Tracker) TopCategories(ctx context.Context, userID int64) ([]core.CategoryTotal, error) {
	return t.repo.TopCategories(ctx, userID, t.topLimit)
}

// MonthlyTotals returns the per-(year, month) sums with no order guarantee.
func (t *Tracker) MonthlyTotals(ctx context.Context, userID int64) ([]core.MonthlyTotal, error) {
	return t.repo.MonthlyTotals(ctx, userID)
}

// MonthlyTrends sorts the monthly totals chronologically before handing them
// to the classifier. Group-by output order is undefined, so skipping the
// sort here would produce trends in an arbitrary sequence.
func (t *Tracker) MonthlyTrends(ctx context.Context, userID int64) ([]core.Trend, error) {
	totals, err := t.repo.MonthlyTotals(ctx, userID)
	if err != nil {
		return nil, err
	}
	core.SortMonthlyTotals(totals)
	return core.Trends(totals), nil
}

// SpentLast24h sums amounts for transactions dated within the past 24 hours.
func (t *Tracker) SpentLast24h(ctx context.Context, userID int64) (core.Money, error) {
	return t.repo.TotalSince(ctx, userID, time.Now().UTC().Add(-24*time.Hour))
}

func (t *Tracker) Categories(ctx context.Context) ([]core.Category, error) {
	return t.repo.ListCategories(ctx)
}

// Dashboard assembles the dashboard in one call. The four aggregation
// queries are independent and read-only, so they run concurrently.
func (t *Tracker) Dashboard(ctx context.Context, userID int64) (Dashboard, error) {
	var d Dashboard

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		d.Recent, err = t.repo.RecentTransactions(gctx, userID, t.recentLimit)
		return err
	})
	g.Go(func() error {
		var err error
		d.TopCategories, err = t.repo.TopCategories(gctx, userID, t.topLimit)
		return err
	})
	g.Go(func() error {
		var err error
		d.MonthlyTotals, err = t.repo.MonthlyTotals(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		d.Last24h, err = t.repo.TotalSince(gctx, userID, time.Now().UTC().Add(-24*time.Hour))
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, fmt.Errorf("assemble dashboard: %w", err)
	}

	core.SortMonthlyTotals(d.MonthlyTotals)
	d.Trends = core.Trends(d.MonthlyTotals)

	slog.DebugContext(ctx, "Dashboard assembled",
		"user_id", userID,
		"recent", len(d.Recent),
		"months", len(d.MonthlyTotals))
	return d, nil
}
