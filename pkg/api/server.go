package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/ysegev/wealth-tracker/db"
	"github.com/ysegev/wealth-tracker/pkg/auth"
	"github.com/ysegev/wealth-tracker/pkg/services"
)

// Server exposes the wealth tracker over HTTP
type Server struct {
	store      db.Store
	authn      *auth.Authenticator
	aggregator *services.Aggregator
	syncer     *services.GoalSyncer
	provider   *services.RateProvider
}

// NewServer creates a server wired to the given store and services
func NewServer(store db.Store, authn *auth.Authenticator, aggregator *services.Aggregator,
	syncer *services.GoalSyncer, provider *services.RateProvider) *Server {
	return &Server{
		store:      store,
		authn:      authn,
		aggregator: aggregator,
		syncer:     syncer,
		provider:   provider,
	}
}

// Router builds the HTTP route table
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	// Public routes
	r.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)

	// Authenticated routes
	protected := r.PathPrefix("/").Subrouter()
	protected.Use(s.requireAuth)

	protected.HandleFunc("/money-locations", s.handleListLocations).Methods(http.MethodGet)
	protected.HandleFunc("/money-locations", s.handleCreateLocation).Methods(http.MethodPost)
	protected.HandleFunc("/money-locations/{id}", s.handleUpdateLocation).Methods(http.MethodPut)
	protected.HandleFunc("/money-locations/{id}", s.handleDeleteLocation).Methods(http.MethodDelete)

	protected.HandleFunc("/goals", s.handleListGoals).Methods(http.MethodGet)
	protected.HandleFunc("/goals", s.handleCreateGoal).Methods(http.MethodPost)
	protected.HandleFunc("/goals/{id}", s.handleUpdateGoal).Methods(http.MethodPut)
	protected.HandleFunc("/goals/{id}/progress", s.handleGoalProgress).Methods(http.MethodPut)
	protected.HandleFunc("/goals/{id}", s.handleDeleteGoal).Methods(http.MethodDelete)

	protected.HandleFunc("/money-locations/{id}/files", s.handleUploadFile).Methods(http.MethodPost)
	protected.HandleFunc("/money-locations/{id}/files", s.handleListFiles).Methods(http.MethodGet)
	protected.HandleFunc("/files/{fileId}", s.handleDownloadFile).Methods(http.MethodGet)
	protected.HandleFunc("/files/{fileId}", s.handleRenameFile).Methods(http.MethodPut)
	protected.HandleFunc("/files/{fileId}", s.handleDeleteFile).Methods(http.MethodDelete)

	protected.HandleFunc("/summary", s.handleSummary).Methods(http.MethodGet)

	return r
}

type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Success: true, Data: data}); err != nil {
		log.Warn().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Success: false, Message: message}); err != nil {
		log.Warn().Err(err).Msg("Failed to encode error response")
	}
}
