// Package server wires the HTTP routes onto a chi router.
package server

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"bolao-pool/internal/handler"
	"bolao-pool/internal/pkg/db"
)

// Server holds the router and the handlers it dispatches to.
type Server struct {
	mux        *chi.Mux
	adminToken string
	database   *db.Pool
	purchase   *handler.PurchaseHandler
	sale       *handler.SaleHandler
	ranking    *handler.RankingHandler
	draw       *handler.DrawHandler
	admin      *handler.AdminHandler
}

// New creates a Server and registers all routes.
func New(
	adminToken string,
	database *db.Pool,
	purchase *handler.PurchaseHandler,
	sale *handler.SaleHandler,
	ranking *handler.RankingHandler,
	draw *handler.DrawHandler,
	admin *handler.AdminHandler,
) *Server {
	s := &Server{
		mux:        chi.NewRouter(),
		adminToken: adminToken,
		database:   database,
		purchase:   purchase,
		sale:       sale,
		ranking:    ranking,
		draw:       draw,
		admin:      admin,
	}
	s.routes()
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	r := s.mux
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/purchase", s.purchase.HandlePurchase)

		r.Post("/sales", s.sale.HandleRecordSale)
		r.Post("/sales/{ticketID}/confirm", s.sale.HandleConfirmPayment)
		r.Post("/sales/{ticketID}/unpaid", s.sale.HandleMarkUnpaid)
		r.Get("/sales", s.sale.HandleListSales)

		r.Get("/tickets", s.ranking.HandleUserTickets)
		r.Get("/ranking", s.ranking.HandleRanking)
		r.Get("/status", s.ranking.HandleStatus)
		r.Get("/draws", s.draw.HandleListDraws)

		r.Group(func(r chi.Router) {
			r.Use(s.adminOnly)
			r.Post("/draws", s.draw.HandlePublishDraw)
			r.Post("/users", s.admin.HandleCreateUser)
			r.Get("/users/{userID}", s.admin.HandleGetUser)
			r.Post("/users/{userID}/credit", s.admin.HandleCredit)
			r.Post("/cycle/close", s.admin.HandleCloseCycle)
			r.Get("/history", s.admin.HandleSellerHistory)
		})
	})
}

// adminOnly gates mutation of draws, accounts and cycles behind the
// shared admin token.
func (s *Server) adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("X-Admin-Token")
		if s.adminToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(s.adminToken)) != 1 {
			http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.database.HealthCheck(r.Context()); err != nil {
		http.Error(w, `{"status":"degraded"}`, http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
