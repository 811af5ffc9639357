package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/xelth-com/bizziosync/internal/buildinfo"
	"github.com/xelth-com/bizziosync/internal/config"
	"github.com/xelth-com/bizziosync/internal/database"
	"github.com/xelth-com/bizziosync/internal/middleware"
	"github.com/xelth-com/bizziosync/internal/services/bizzio"
	"github.com/xelth-com/bizziosync/internal/services/importer"
	"github.com/xelth-com/bizziosync/internal/settings"
	"github.com/xelth-com/bizziosync/internal/websocket"
)

// Router wraps the mux router and the services behind the API
type Router struct {
	*mux.Router
	db       *database.DB
	cfg      *config.Config
	importer *importer.Service
	settings *settings.Store
	hub      *websocket.Hub
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(db *database.DB, cfg *config.Config, svc *importer.Service, store *settings.Store, hub *websocket.Hub) *Router {
	r := &Router{
		Router:   mux.NewRouter(),
		db:       db,
		cfg:      cfg,
		importer: svc,
		settings: store,
		hub:      hub,
	}

	authMW := middleware.AuthMiddleware(cfg.JWTSecret)

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// API routes
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/status", r.getStatus).Methods("GET")

	// Auth routes
	auth := r.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/token", r.issueToken).Methods("POST")

	// Progress push
	r.Handle("/ws/progress", authMW(http.HandlerFunc(r.serveProgress))).Methods("GET")

	// Bizzio routes (protected, mutating ones also need a nonce)
	bz := r.PathPrefix("/api/bizzio").Subrouter()
	bz.Use(authMW)
	bz.HandleFunc("/nonce/{action}", r.issueNonce).Methods("GET")

	for _, kind := range []bizzio.Kind{bizzio.KindProducts, bizzio.KindCategories} {
		prefix := "/" + kind.String()
		bz.Handle(prefix+"/import", r.withNonce("import_"+kind.String(), r.startImport(kind))).Methods("POST")
		bz.Handle(prefix+"/batch", r.withNonce("process_"+kind.String(), r.processBatch(kind))).Methods("POST")
		bz.HandleFunc(prefix+"/progress", r.getProgress(kind)).Methods("GET")
	}

	bz.Handle("/test-connection", r.withNonce("test_connection", http.HandlerFunc(r.testConnection))).Methods("POST")
	bz.HandleFunc("/settings", r.getSettings).Methods("GET")
	bz.Handle("/settings", r.withNonce("save_settings", http.HandlerFunc(r.updateSettings))).Methods("PUT")
	bz.Handle("/uninstall", r.withNonce("uninstall", http.HandlerFunc(r.uninstall))).Methods("POST")
	bz.HandleFunc("/history", r.listHistory).Methods("GET")

	return r
}

// Handler returns the router wrapped with CORS handling
func (r *Router) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   r.cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", middleware.NonceHeader},
		AllowCredentials: true,
	})
	return c.Handler(r)
}

func (r *Router) withNonce(action string, h http.Handler) http.Handler {
	return middleware.RequireNonce(r.cfg.JWTSecret, action)(h)
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	status := "ok"
	if sqlDB, err := r.db.DB.DB(); err != nil || sqlDB.PingContext(req.Context()) != nil {
		status = "degraded"
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"status": status,
	})
}

// getStatus returns build information
func (r *Router) getStatus(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":     "running",
		"buildTime":  buildinfo.BuildTime,
		"commitTime": buildinfo.CommitTime,
		"commitHash": buildinfo.CommitHash,
		"startTime":  buildinfo.StartTime,
	})
}

func (r *Router) serveProgress(w http.ResponseWriter, req *http.Request) {
	websocket.ServeWs(r.hub, w, req)
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondSuccess wraps data in the success envelope
func respondSuccess(w http.ResponseWriter, data interface{}) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}
