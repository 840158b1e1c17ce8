package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Upward   TrendDirection = "Upward"
	Downward TrendDirection = "Downward"
	Stable   TrendDirection = "Stable"
)

// DefaultCategories is the fixed seed set applied idempotently at startup.
var DefaultCategories = []string{"Groceries", "Entertainment", "Rent", "Utilities", "Dining Out"}

type (
	TrendDirection string

	Money struct {
		Cents int64
	}

	Transaction struct {
		ID          int64
		Date        time.Time // UTC; defaults to ingestion time
		Amount      Money
		Description string
		UserID      int64
		CategoryID  *int64 // optional
	}

	Category struct {
		ID   int64
		Name string
	}

	User struct {
		ID           int64
		Username     string
		Email        string
		PasswordHash string
		CreatedAt    time.Time
	}

	// MonthlyTotal is derived by aggregation, never persisted.
	MonthlyTotal struct {
		Year  int
		Month int // 1-12
		Total Money
	}

	// CategoryTotal is a per-category sum joined to the category name.
	CategoryTotal struct {
		Name  string
		Total Money
	}

	// Trend classifies the change between two consecutive monthly totals.
	// Year and Month identify the current (later) month of the pair.
	Trend struct {
		Year       int
		Month      int
		Direction  TrendDirection
		Difference Money
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrMissingUser      = errors.New("missing user")
)

func (m Money) Validate() error {
	if m.Cents == 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if t.UserID == 0 {
		return ErrMissingUser
	}
	return nil
}
