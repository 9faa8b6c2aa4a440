package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/inspectflow/inspectflow/internal/config"
	"github.com/inspectflow/inspectflow/internal/database"
	"github.com/inspectflow/inspectflow/internal/middleware"
	"github.com/inspectflow/inspectflow/internal/store"
	"github.com/inspectflow/inspectflow/internal/websocket"
)

// Router wraps the mux router with the service dependencies
type Router struct {
	*mux.Router
	cfg *config.Config
	db  *database.DB
	st  *store.Store
	hub *websocket.Hub
}

// NewRouter creates a new HTTP router with all routes. The configuration is
// loaded once at boot and injected; handlers never re-read the environment.
func NewRouter(cfg *config.Config, db *database.DB, st *store.Store, hub *websocket.Hub) *Router {
	r := &Router{
		Router: mux.NewRouter(),
		cfg:    cfg,
		db:     db,
		st:     st,
		hub:    hub,
	}

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// Auth routes
	auth := r.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.login).Methods("POST")
	auth.HandleFunc("/register", r.register).Methods("POST")
	auth.HandleFunc("/logout", r.logout).Methods("POST")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Auth(cfg))
	api.HandleFunc("/status", r.getStatus).Methods("GET")

	// Import pipeline
	api.HandleFunc("/import/upload", r.uploadCSV).Methods("POST")
	api.HandleFunc("/import/mapping", r.inferMapping).Methods("POST")
	api.HandleFunc("/import/scan", r.scanImport).Methods("POST")
	api.HandleFunc("/import/commit", r.commitImport).Methods("POST")
	api.HandleFunc("/import/sessions/{id}", r.getImportSession).Methods("GET")

	// Reconciliation pipeline
	api.HandleFunc("/reconcile/scan", r.scanReconciliation).Methods("POST")
	api.HandleFunc("/reconcile/commit", r.commitReconciliation).Methods("POST")

	// Inspection CRUD
	api.HandleFunc("/inspections", r.listInspections).Methods("GET")
	api.HandleFunc("/inspections", r.createInspection).Methods("POST")
	api.HandleFunc("/inspections/{id}", r.getInspection).Methods("GET")
	api.HandleFunc("/inspections/{id}", r.updateInspection).Methods("PUT")
	api.HandleFunc("/inspections/{id}", r.deleteInspection).Methods("DELETE")
	api.HandleFunc("/inspections/{id}/sheet", r.getWorkOrderSheet).Methods("GET")

	// Saved company mapping profiles
	api.HandleFunc("/companies/profiles", r.listProfiles).Methods("GET")
	api.HandleFunc("/companies/profiles", r.saveProfile).Methods("POST")

	// Websocket progress events (token auth happens in the handler)
	r.HandleFunc("/ws", r.serveWs).Methods("GET")

	return r
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// getStatus returns the current status
func (r *Router) getStatus(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "running",
		"version": "1.0.0",
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
