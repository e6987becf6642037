package handler

import (
	"net/http"

	"bolao-pool/internal/model"
	"bolao-pool/internal/service"
)

// DrawHandler serves draw publication and listing.
type DrawHandler struct {
	draws *service.DrawService
}

// NewDrawHandler creates a new DrawHandler.
func NewDrawHandler(draws *service.DrawService) *DrawHandler {
	return &DrawHandler{draws: draws}
}

type publishDrawRequest struct {
	Name    string `json:"name"`
	Numbers []int  `json:"numbers"`
}

type drawResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	Numbers   []int  `json:"numbers"`
	CreatedAt string `json:"created_at"`
}

func toDrawResponse(d model.Draw) drawResponse {
	return drawResponse{
		ID:        d.ID,
		Name:      d.Name,
		Numbers:   d.Numbers,
		CreatedAt: d.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// HandlePublishDraw handles POST /api/draws. Publishing the first draw
// of a cycle pauses purchases and reseller sales.
func (h *DrawHandler) HandlePublishDraw(w http.ResponseWriter, r *http.Request) {
	var req publishDrawRequest
	if !decodeBody(w, r, &req) {
		return
	}

	draw, err := h.draws.Publish(r.Context(), req.Name, req.Numbers)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDrawResponse(*draw))
}

// HandleListDraws handles GET /api/draws.
func (h *DrawHandler) HandleListDraws(w http.ResponseWriter, r *http.Request) {
	draws, err := h.draws.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]drawResponse, 0, len(draws))
	for _, d := range draws {
		resp = append(resp, toDrawResponse(d))
	}
	writeJSON(w, http.StatusOK, resp)
}
