package handler

import (
	"net/http"

	"bolao-pool/internal/service"
)

// PurchaseHandler handles client ticket purchases.
type PurchaseHandler struct {
	purchases   *service.PurchaseService
	ticketPrice int64
}

// NewPurchaseHandler creates a new PurchaseHandler.
func NewPurchaseHandler(purchases *service.PurchaseService, ticketPrice int64) *PurchaseHandler {
	return &PurchaseHandler{purchases: purchases, ticketPrice: ticketPrice}
}

type purchaseRequest struct {
	UserID     string  `json:"user_id"`
	NumberSets [][]int `json:"number_sets"`
	BuyerName  string  `json:"buyer_name"`
	BuyerPhone string  `json:"buyer_phone"`
	RequestID  string  `json:"request_id"`
}

type purchaseResponse struct {
	Tickets    []ticketResponse `json:"tickets"`
	NewBalance int64            `json:"new_balance"`
}

// HandlePurchase handles POST /api/purchase.
func (h *PurchaseHandler) HandlePurchase(w http.ResponseWriter, r *http.Request) {
	var req purchaseRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.purchases.Purchase(r.Context(), service.PurchaseInput{
		UserID:     req.UserID,
		NumberSets: req.NumberSets,
		UnitPrice:  h.ticketPrice,
		BuyerName:  req.BuyerName,
		BuyerPhone: req.BuyerPhone,
		RequestID:  req.RequestID,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	resp := purchaseResponse{NewBalance: result.NewBalance}
	for _, t := range result.Tickets {
		resp.Tickets = append(resp.Tickets, toTicketResponse(t))
	}
	writeJSON(w, http.StatusCreated, resp)
}
