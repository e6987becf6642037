package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"bolao-pool/internal/service"
)

// SaleHandler handles reseller-recorded sales and their payment events.
type SaleHandler struct {
	sales *service.SaleService
}

// NewSaleHandler creates a new SaleHandler.
func NewSaleHandler(sales *service.SaleService) *SaleHandler {
	return &SaleHandler{sales: sales}
}

type saleRequest struct {
	SellerID   string `json:"seller_id"`
	Numbers    []int  `json:"numbers"`
	BuyerName  string `json:"buyer_name"`
	BuyerPhone string `json:"buyer_phone"`
}

type paymentEventRequest struct {
	SellerID string `json:"seller_id"`
}

// HandleRecordSale handles POST /api/sales.
func (h *SaleHandler) HandleRecordSale(w http.ResponseWriter, r *http.Request) {
	var req saleRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ticket, err := h.sales.RecordSale(r.Context(), service.SaleInput{
		SellerID:   req.SellerID,
		Numbers:    req.Numbers,
		BuyerName:  req.BuyerName,
		BuyerPhone: req.BuyerPhone,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTicketResponse(*ticket))
}

// HandleConfirmPayment handles POST /api/sales/{ticketID}/confirm.
func (h *SaleHandler) HandleConfirmPayment(w http.ResponseWriter, r *http.Request) {
	var req paymentEventRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ticket, err := h.sales.ConfirmPayment(r.Context(), req.SellerID, chi.URLParam(r, "ticketID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTicketResponse(*ticket))
}

// HandleMarkUnpaid handles POST /api/sales/{ticketID}/unpaid.
func (h *SaleHandler) HandleMarkUnpaid(w http.ResponseWriter, r *http.Request) {
	var req paymentEventRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ticket, err := h.sales.MarkUnpaid(r.Context(), req.SellerID, chi.URLParam(r, "ticketID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTicketResponse(*ticket))
}

// HandleListSales handles GET /api/sales?seller_id=.
func (h *SaleHandler) HandleListSales(w http.ResponseWriter, r *http.Request) {
	sellerID := r.URL.Query().Get("seller_id")
	if sellerID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "seller_id is required"})
		return
	}

	tickets, err := h.sales.SalesForSeller(r.Context(), sellerID)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]ticketResponse, 0, len(tickets))
	for _, t := range tickets {
		resp = append(resp, toTicketResponse(t))
	}
	writeJSON(w, http.StatusOK, resp)
}
