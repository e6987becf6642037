package handler

import (
	"net/http"
	"strconv"
	"time"

	"bolao-pool/internal/service"
)

// RankingHandler serves the public leaderboard and per-user ticket views.
type RankingHandler struct {
	ranking *service.RankingService
	topN    int
}

// NewRankingHandler creates a new RankingHandler.
func NewRankingHandler(ranking *service.RankingService, topN int) *RankingHandler {
	return &RankingHandler{ranking: ranking, topN: topN}
}

type rankingEntry struct {
	TicketID  string `json:"ticket_id"`
	BuyerName string `json:"buyer_name"`
	Numbers   []int  `json:"numbers"`
	Matches   int    `json:"matches"`
}

type rankingResponse struct {
	Ranking   []rankingEntry `json:"ranking"`
	UpdatedAt string         `json:"updated_at"`
}

// HandleRanking handles GET /api/ranking. The optional limit query
// slices the leaderboard; limit=0 returns the full administrative list.
func (h *RankingHandler) HandleRanking(w http.ResponseWriter, r *http.Request) {
	limit := h.topN
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid limit"})
			return
		}
		limit = parsed
	}

	ranked, err := h.ranking.Leaderboard(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	resp := rankingResponse{
		Ranking:   make([]rankingEntry, 0, len(ranked)),
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	for _, rt := range ranked {
		name := rt.BuyerName
		if name == "" {
			name = "N/A"
		}
		resp.Ranking = append(resp.Ranking, rankingEntry{
			TicketID:  rt.ID,
			BuyerName: name,
			Numbers:   rt.Numbers,
			Matches:   rt.Matches,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleUserTickets handles GET /api/tickets?user_id=. Tickets come
// back with their derived effective status and match counts.
func (h *RankingHandler) HandleUserTickets(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "user_id is required"})
		return
	}

	tickets, err := h.ranking.TicketsForUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]ticketResponse, 0, len(tickets))
	for _, rt := range tickets {
		resp = append(resp, toRankedResponse(rt))
	}
	writeJSON(w, http.StatusOK, resp)
}

type statusResponse struct {
	Paused    bool `json:"paused"`
	HasWinner bool `json:"has_winner"`
}

// HandleStatus handles GET /api/status: the pause state and winner
// signal the dashboards poll.
func (h *RankingHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	paused, err := h.ranking.PurchasesPaused(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	hasWinner, err := h.ranking.HasWinningTicket(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Paused: paused, HasWinner: hasWinner})
}
