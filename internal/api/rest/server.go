package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fortuna/carddex/internal/cache"
	"github.com/fortuna/carddex/internal/catalog"
	"github.com/fortuna/carddex/internal/importjob"
	"github.com/fortuna/carddex/internal/publisher"
	"github.com/fortuna/carddex/internal/store"
)

// Server represents the REST API server
type Server struct {
	port    string
	server  *http.Server
	handler *Handler
}

// NewServer creates a new REST API server. importSvc, c, and pub may be
// nil; the corresponding features degrade gracefully.
func NewServer(port string, db *store.Database, importer *catalog.Importer, importSvc *importjob.Service, c *cache.RedisCache, pub *publisher.RedisStreamPublisher) *Server {
	handler := NewHandler(db, importer, c, pub)
	jobHandler := NewImportJobHandler(importSvc)

	router := mux.NewRouter()

	// Apply middleware
	router.Use(RecoveryMiddleware)
	router.Use(LoggingMiddleware)
	router.Use(CORSMiddleware)

	// Health check
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// API v1 routes
	api := router.PathPrefix("/api/v1").Subrouter()

	// Parsing (no persistence)
	api.HandleFunc("/checklists/parse", handler.ParseChecklist).Methods("POST")

	// Sets
	api.HandleFunc("/sets", handler.GetSets).Methods("GET")
	api.HandleFunc("/sets", handler.CreateSet).Methods("POST")
	api.HandleFunc("/sets/{setID}", handler.GetSet).Methods("GET")
	api.HandleFunc("/sets/{setID}", handler.DeleteSet).Methods("DELETE")
	api.HandleFunc("/sets/{setID}/import", handler.ImportChecklist).Methods("POST")
	api.HandleFunc("/sets/{setID}/cards", handler.GetSetCards).Methods("GET")
	api.HandleFunc("/sets/{setID}/cards", handler.AddCard).Methods("POST")
	api.HandleFunc("/sets/{setID}/cards/bulk", handler.AddCards).Methods("POST")
	api.HandleFunc("/sets/{setID}/export.csv", handler.ExportSetCSV).Methods("GET")
	api.HandleFunc("/sets/{setID}/collection", handler.ReconcileCollection).Methods("POST")

	// Cards
	api.HandleFunc("/cards/{cardID}", handler.GetCard).Methods("GET")
	api.HandleFunc("/cards/{cardID}", handler.DeleteCard).Methods("DELETE")
	api.HandleFunc("/cards/{cardID}/qty", handler.UpdateCardQty).Methods("PUT")
	api.HandleFunc("/cards/qty", handler.BulkUpdateQty).Methods("PUT")

	// Import jobs
	api.HandleFunc("/imports", jobHandler.HandleSubmit).Methods("POST")
	api.HandleFunc("/imports/status", jobHandler.HandleStatus).Methods("GET")
	api.HandleFunc("/imports/{jobID}", jobHandler.HandleGetJob).Methods("GET")
	api.HandleFunc("/imports/{jobID}/cancel", jobHandler.HandleCancel).Methods("POST")

	return &Server{
		port:    port,
		handler: handler,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%s", port),
			Handler: router,
		},
	}
}

// Start starts the REST API server
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
