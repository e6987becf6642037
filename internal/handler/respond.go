// Package handler provides the HTTP handlers the dashboards call.
// Handlers are thin glue: decode, call a service, encode.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"bolao-pool/internal/lottery"
	"bolao-pool/internal/model"
	"bolao-pool/internal/repository"
	"bolao-pool/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// writeError maps service errors onto HTTP statuses. Insufficient funds
// gets its own code so the UI can route to the credit-request flow;
// transient conflicts are marked retryable.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInsufficientFunds):
		writeJSON(w, http.StatusPaymentRequired, errorResponse{Error: err.Error(), Code: "insufficient_funds"})
	case errors.Is(err, service.ErrAccountNotFound),
		errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrTicketNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrPurchasesPaused):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Code: "purchases_paused"})
	case errors.Is(err, service.ErrDuplicateRequest):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Code: "duplicate_request"})
	case errors.Is(err, service.ErrTransientConflict):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error(), Code: "retry"})
	case errors.Is(err, lottery.ErrWrongLength),
		errors.Is(err, lottery.ErrOutOfRange),
		errors.Is(err, lottery.ErrRepeatCap),
		errors.Is(err, lottery.ErrWrongDrawSize),
		errors.Is(err, service.ErrNoTickets),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrNotSeller),
		errors.Is(err, service.ErrNotSaleOwner),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, repository.ErrDuplicate):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		log.Error().Err(err).Msg("Request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error", Code: "retry"})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

// ticketResponse is the wire form of a ticket.
type ticketResponse struct {
	ID             string `json:"id"`
	Numbers        []int  `json:"numbers"`
	Status         string `json:"status"`
	CreatedAt      string `json:"created_at"`
	BuyerName      string `json:"buyer_name,omitempty"`
	BuyerPhone     string `json:"buyer_phone,omitempty"`
	SellerUsername string `json:"seller_username,omitempty"`
	Matches        *int   `json:"matches,omitempty"`
}

func toTicketResponse(t model.Ticket) ticketResponse {
	return ticketResponse{
		ID:             t.ID,
		Numbers:        t.Numbers,
		Status:         string(t.Status),
		CreatedAt:      t.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		BuyerName:      t.BuyerName,
		BuyerPhone:     t.BuyerPhone,
		SellerUsername: t.SellerUsername,
	}
}

func toRankedResponse(rt model.RankedTicket) ticketResponse {
	resp := toTicketResponse(rt.Ticket)
	matches := rt.Matches
	resp.Matches = &matches
	return resp
}
