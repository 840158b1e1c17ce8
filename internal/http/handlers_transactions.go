package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/services"
)

const dateLayout = "2006-01-02"

type createTransactionRequest struct {
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Date        string `json:"date,omitempty"` // YYYY-MM-DD; defaults to now
	CategoryID  *int64 `json:"category_id,omitempty"`
}

type transactionResponse struct {
	ID          int64  `json:"id"`
	Date        string `json:"date"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	CategoryID  *int64 `json:"category_id,omitempty"`
}

func toTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:          t.ID,
		Date:        t.Date.Format("2006-01-02 15:04:05"),
		Amount:      t.Amount.String(),
		Description: t.Description,
		CategoryID:  t.CategoryID,
	}
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}

	var date time.Time
	if v := strings.TrimSpace(req.Date); v != "" {
		date, err = time.Parse(dateLayout, v)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid date, expected YYYY-MM-DD")
			return
		}
	}

	id, err := s.tracker.AddTransaction(r.Context(), uid, core.Money{Cents: cents}, req.Description, date, req.CategoryID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownCategory):
			writeError(w, http.StatusUnprocessableEntity, "unknown category")
		case errors.Is(err, core.ErrEmptyDescription), errors.Is(err, core.ErrInvalidAmount):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			slog.ErrorContext(r.Context(), "Create transaction failed", "error", err, "user_id", uid)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleRecentTransactions(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit := 0
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	items, err := s.tracker.RecentTransactions(r.Context(), uid, limit)
	if err != nil {
		slog.ErrorContext(r.Context(), "Recent transactions failed", "error", err, "user_id", uid)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]transactionResponse, 0, len(items))
	for _, t := range items {
		out = append(out, toTransactionResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.tracker.Categories(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List categories failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	type categoryResponse struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	out := make([]categoryResponse, 0, len(cats))
	for _, c := range cats {
		out = append(out, categoryResponse{ID: c.ID, Name: c.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSpendingLast24h(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	total, err := s.tracker.SpentLast24h(r.Context(), uid)
	if err != nil {
		slog.ErrorContext(r.Context(), "Last 24h total failed", "error", err, "user_id", uid)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"total_spending": total.String()})
}
