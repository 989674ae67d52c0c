package handlers

import (
	"net/http"
	"time"

	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type LeaderboardHandler struct {
	UC *usecase.LeaderboardUseCase
}

func NewLeaderboardHandler(uc *usecase.LeaderboardUseCase) *LeaderboardHandler {
	return &LeaderboardHandler{UC: uc}
}

// HandleSummarize: GET /leaderboard?role=sdr&from=2026-08-01&to=2026-09-01
// Sem período informado, olha os últimos 30 dias.
func (h *LeaderboardHandler) HandleSummarize(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	to := time.Now()
	from := to.AddDate(0, 0, -30)

	var err error
	if raw := q.Get("from"); raw != "" {
		from, err = time.Parse("2006-01-02", raw)
		if err != nil {
			respondError(w, usecase.NewValidation("from deve estar no formato YYYY-MM-DD"))
			return
		}
	}
	if raw := q.Get("to"); raw != "" {
		to, err = time.Parse("2006-01-02", raw)
		if err != nil {
			respondError(w, usecase.NewValidation("to deve estar no formato YYYY-MM-DD"))
			return
		}
	}

	rows, err := h.UC.Summarize(r.Context(), usecase.SummarizeInput{
		Role: q.Get("role"),
		From: from,
		To:   to,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	if rows == nil {
		rows = []usecase.LeaderboardRow{}
	}

	respondJSON(w, http.StatusOK, rows)
}
