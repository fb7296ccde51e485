package api

import (
	"encoding/json"
	"net/http"

	"github.com/status-im/token-aggregator/interfaces"
)

// maxBatchSize caps one batch request; larger workloads should be
// split by the caller
const maxBatchSize = 500

// handleEnrich enriches a single token
func (s *Server) handleEnrich(w http.ResponseWriter, r *http.Request) {
	var req interfaces.EnrichmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.TokenAddress == "" {
		s.sendError(w, http.StatusBadRequest, "token_address is required")
		return
	}

	result := s.enrichment.Enrich(r.Context(), req)
	s.sendJSONResponse(w, http.StatusOK, result)
}

// handleEnrichBatch enriches a list of tokens in one call
func (s *Server) handleEnrichBatch(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Requests []interfaces.EnrichmentRequest `json:"requests"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(payload.Requests) == 0 {
		s.sendError(w, http.StatusBadRequest, "requests must not be empty")
		return
	}
	if len(payload.Requests) > maxBatchSize {
		s.sendError(w, http.StatusRequestEntityTooLarge, "batch too large")
		return
	}

	results := s.enrichment.EnrichBatch(r.Context(), payload.Requests)
	s.sendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"results": results,
	})
}

// handleStatus reports aggregate pipeline statistics
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.sendJSONResponse(w, http.StatusOK, s.enrichment.SystemStatus())
}

// handleProvidersHealth reports per-provider health views
func (s *Server) handleProvidersHealth(w http.ResponseWriter, r *http.Request) {
	s.sendJSONResponse(w, http.StatusOK, s.health.All())
}

// handleHealth responds with 200 OK to indicate the service is running
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	providerStates := make(map[string]string)
	for name, h := range s.health.All() {
		providerStates[name] = string(h.Status)
	}

	s.sendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"providers": providerStates,
	})
}
