package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"bolao-pool/internal/model"
	"bolao-pool/internal/service"
)

// AdminHandler serves account administration and cycle closing.
type AdminHandler struct {
	accounts *service.AccountService
	cycle    *service.CycleService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(accounts *service.AccountService, cycle *service.CycleService) *AdminHandler {
	return &AdminHandler{accounts: accounts, cycle: cycle}
}

type createUserRequest struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Balance  int64  `json:"balance"`
}

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Balance  int64  `json:"balance"`
}

func toUserResponse(u model.User) userResponse {
	return userResponse{
		ID:       u.ID,
		Username: u.Username,
		Role:     string(u.Role),
		Balance:  u.Balance,
	}
}

// HandleCreateUser handles POST /api/users.
func (h *AdminHandler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Username == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "username is required"})
		return
	}

	user, err := h.accounts.CreateAccount(r.Context(), req.Username, model.Role(req.Role), req.Balance)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponse(*user))
}

type creditRequest struct {
	Amount int64 `json:"amount"`
}

// HandleCredit handles POST /api/users/{userID}/credit.
func (h *AdminHandler) HandleCredit(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req creditRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.accounts.Credit(r.Context(), userID, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(*user))
}

// HandleGetUser handles GET /api/users/{userID}.
func (h *AdminHandler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	user, err := h.accounts.GetAccount(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(*user))
}

type historyEntryResponse struct {
	SellerID         string `json:"seller_id"`
	SellerUsername   string `json:"seller_username"`
	StartDate        string `json:"start_date"`
	EndDate          string `json:"end_date"`
	SalesCount       int    `json:"sales_count"`
	Gross            int64  `json:"gross"`
	SellerCommission int64  `json:"seller_commission"`
	OwnerCommission  int64  `json:"owner_commission"`
}

type closeCycleResponse struct {
	Sellers                    []historyEntryResponse `json:"sellers"`
	ClientSalesCount           int                    `json:"client_sales_count"`
	ClientGross                int64                  `json:"client_gross"`
	OwnerClientSalesCommission int64                  `json:"owner_client_sales_commission"`
}

func toHistoryResponse(e model.SellerHistoryEntry) historyEntryResponse {
	return historyEntryResponse{
		SellerID:         e.SellerID,
		SellerUsername:   e.SellerUsername,
		StartDate:        e.StartDate.Format("2006-01-02T15:04:05Z07:00"),
		EndDate:          e.EndDate.Format("2006-01-02T15:04:05Z07:00"),
		SalesCount:       e.SalesCount,
		Gross:            e.Gross,
		SellerCommission: e.SellerCommission,
		OwnerCommission:  e.OwnerCommission,
	}
}

// HandleCloseCycle handles POST /api/cycle/close. Settlement and reset
// commit together; the response is the settlement report.
func (h *AdminHandler) HandleCloseCycle(w http.ResponseWriter, r *http.Request) {
	report, err := h.cycle.CloseCycle(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	resp := closeCycleResponse{
		Sellers:                    make([]historyEntryResponse, 0, len(report.Entries)),
		ClientSalesCount:           report.ClientSalesCount,
		ClientGross:                report.ClientGross,
		OwnerClientSalesCommission: report.OwnerClientSalesCommission,
	}
	for _, e := range report.Entries {
		resp.Sellers = append(resp.Sellers, toHistoryResponse(e))
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleSellerHistory handles GET /api/history?seller_id=.
func (h *AdminHandler) HandleSellerHistory(w http.ResponseWriter, r *http.Request) {
	sellerID := r.URL.Query().Get("seller_id")
	if sellerID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "seller_id is required"})
		return
	}

	entries, err := h.cycle.HistoryForSeller(r.Context(), sellerID)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]historyEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, toHistoryResponse(e))
	}
	writeJSON(w, http.StatusOK, resp)
}
