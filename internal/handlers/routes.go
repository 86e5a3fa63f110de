package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/iraycd/sway-backend/internal/connections"
	"github.com/iraycd/sway-backend/internal/middleware"
	"github.com/iraycd/sway-backend/internal/services/chat"
	"github.com/iraycd/sway-backend/internal/services/oauth"
	"github.com/iraycd/sway-backend/internal/store"
	"github.com/iraycd/sway-backend/pkg/ratelimit"
)

// Services bundles everything the HTTP surface depends on.
type Services struct {
	Auth        *oauth.Service
	Store       *store.Store
	Pipeline    chat.Service
	Limiter     ratelimit.Limiter
	Connections *connections.Manager
}

// NewRouter builds the full route table.
func NewRouter(s *Services) *mux.Router {
	router := mux.NewRouter()

	api := router.PathPrefix("/api").Subrouter()

	// Auth routes (no auth required, rate limited by address)
	authRouter := api.PathPrefix("/auth").Subrouter()
	authRouter.Use(middleware.RateLimit(s.Limiter))
	authRouter.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		HandleToken(s.Auth, s.Store, w, r)
	}).Methods("POST")

	// Chat routes (require auth, rate limited per user)
	chatRouter := api.PathPrefix("/chat").Subrouter()
	chatRouter.Use(middleware.RequireAuth(s.Auth), middleware.RateLimit(s.Limiter))

	chatRouter.HandleFunc("/conversations", func(w http.ResponseWriter, r *http.Request) {
		HandleCreateConversation(s.Store, w, r)
	}).Methods("POST")
	chatRouter.HandleFunc("/conversations", func(w http.ResponseWriter, r *http.Request) {
		HandleListConversations(s.Store, w, r)
	}).Methods("GET")
	chatRouter.HandleFunc("/conversations/{id}", func(w http.ResponseWriter, r *http.Request) {
		HandleGetConversation(s.Store, w, r)
	}).Methods("GET")
	chatRouter.HandleFunc("/conversations/{id}/messages", func(w http.ResponseWriter, r *http.Request) {
		HandleSendMessage(s.Pipeline, s.Store, w, r)
	}).Methods("POST")
	chatRouter.HandleFunc("/conversations/{id}/messages", func(w http.ResponseWriter, r *http.Request) {
		HandleListMessages(s.Store, w, r)
	}).Methods("GET")
	chatRouter.HandleFunc("/ws/{id}", func(w http.ResponseWriter, r *http.Request) {
		HandleWebSocket(s.Pipeline, s.Store, s.Connections, w, r)
	})

	return router
}
