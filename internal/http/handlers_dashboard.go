package http

import (
	"log/slog"
	"net/http"
	"time"
)

type monthlyTotalResponse struct {
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	MonthName string `json:"month_name"`
	Total     string `json:"total"`
}

type trendResponse struct {
	Year       int    `json:"year"`
	Month      int    `json:"month"`
	Trend      string `json:"trend"`
	Difference string `json:"difference"`
}

type categoryTotalResponse struct {
	Name  string `json:"name"`
	Total string `json:"total"`
}

type dashboardResponse struct {
	RecentTransactions []transactionResponse   `json:"recent_transactions"`
	TopCategories      []categoryTotalResponse `json:"top_categories"`
	MonthlyTotals      []monthlyTotalResponse  `json:"monthly_totals"`
	Trends             []trendResponse         `json:"trends"`
	SpendingLast24h    string                  `json:"spending_last_24h"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	d, err := s.tracker.Dashboard(r.Context(), uid)
	if err != nil {
		slog.ErrorContext(r.Context(), "Dashboard failed", "error", err, "user_id", uid)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	resp := dashboardResponse{
		RecentTransactions: make([]transactionResponse, 0, len(d.Recent)),
		TopCategories:      make([]categoryTotalResponse, 0, len(d.TopCategories)),
		MonthlyTotals:      make([]monthlyTotalResponse, 0, len(d.MonthlyTotals)),
		Trends:             make([]trendResponse, 0, len(d.Trends)),
		SpendingLast24h:    d.Last24h.String(),
	}
	for _, t := range d.Recent {
		resp.RecentTransactions = append(resp.RecentTransactions, toTransactionResponse(t))
	}
	for _, ct := range d.TopCategories {
		resp.TopCategories = append(resp.TopCategories, categoryTotalResponse{Name: ct.Name, Total: ct.Total.String()})
	}
	for _, mt := range d.MonthlyTotals {
		resp.MonthlyTotals = append(resp.MonthlyTotals, monthlyTotalResponse{
			Year:      mt.Year,
			Month:     mt.Month,
			MonthName: time.Month(mt.Month).String()[:3],
			Total:     mt.Total.String(),
		})
	}
	for _, tr := range d.Trends {
		resp.Trends = append(resp.Trends, trendResponse{
			Year:       tr.Year,
			Month:      tr.Month,
			Trend:      string(tr.Direction),
			Difference: tr.Difference.String(),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}
