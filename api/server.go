package api

import (
	"context"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/status-im/token-aggregator/interfaces"
)

// Server exposes the enrichment pipeline over HTTP
type Server struct {
	port       string
	enrichment interfaces.EnrichmentService
	health     interfaces.HealthMonitor
	server     *http.Server
}

// New creates an API server over the enrichment service
func New(port string, enrichment interfaces.EnrichmentService, health interfaces.HealthMonitor) *Server {
	return &Server{
		port:       port,
		enrichment: enrichment,
		health:     health,
	}
}

// Router builds the HTTP routing table
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/api/v1/enrich", s.handleEnrich).Methods("POST")
	router.HandleFunc("/api/v1/enrich/batch", s.handleEnrichBatch).Methods("POST")
	router.HandleFunc("/api/v1/status", s.handleStatus).Methods("GET")
	router.HandleFunc("/api/v1/providers/health", s.handleProvidersHealth).Methods("GET")

	router.HandleFunc("/health", s.handleHealth)
	router.Handle("/metrics", promhttp.Handler())

	return router
}

// Start launches the HTTP listener
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:    ":" + s.port,
		Handler: s.Router(),
	}

	log.Printf("Server starting at http://localhost:%s", s.port)
	log.Println("Prometheus metrics available at /metrics endpoint")

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
		}
	}()

	return nil
}
