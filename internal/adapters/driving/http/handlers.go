package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/custodia-labs/veridoc-core/internal/core/domain"
)

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"invalid request body"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// VersionResponse represents the API version response
// @Description API version response
type VersionResponse struct {
	Version string `json:"version" example:"1.0.0"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Returns the readiness status of the API (checks database and task queue connections)
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Failure      503  {object}  ErrorResponse  "A dependency is unreachable"
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unreachable")
			return
		}
	}
	if err := s.taskQueue.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "task queue unreachable")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleVersion godoc
// @Summary      Get API version
// @Description  Returns the current API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  VersionResponse
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// Analysis endpoints

// analyzeRequest represents a document analysis request
// @Description Document analysis request
type analyzeRequest struct {
	DocumentText string `json:"document_text" example:"This agreement is made between the undersigned parties..."`
	TopK         int    `json:"top_k,omitempty" example:"10"`
	MaxChunkSize int    `json:"max_chunk_size,omitempty" example:"1000"`
	ChunkOverlap int    `json:"chunk_overlap,omitempty" example:"200"`
}

// handleAnalyze godoc
// @Summary      Analyze a document
// @Description  Analyze a document against the loaded policies at the best available tier. Tier degradation is transparent: the response reports which tier actually produced the result.
// @Tags         Analysis
// @Accept       json
// @Produce      json
// @Param        request  body      analyzeRequest  true  "Document to analyze"
// @Success      200      {object}  domain.AnalysisReport
// @Failure      400      {object}  ErrorResponse  "Invalid request or empty document"
// @Failure      409      {object}  ErrorResponse  "No policies loaded"
// @Failure      500      {object}  ErrorResponse  "Analysis failed"
// @Router       /analyze [post]
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	opts := domain.AnalysisOptions{
		TopK:         req.TopK,
		MaxChunkSize: req.MaxChunkSize,
		ChunkOverlap: req.ChunkOverlap,
	}

	report, err := s.analysisService.Analyze(r.Context(), req.DocumentText, opts)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "document text is required")
		case errors.Is(err, domain.ErrNoPoliciesLoaded):
			writeError(w, http.StatusConflict, "no policies loaded")
		default:
			writeError(w, http.StatusInternalServerError, "analysis failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// capabilityStatus reports which analysis capabilities are currently up
// @Description Current analysis capabilities and effective tier
type capabilityStatus struct {
	Tier                domain.Tier `json:"tier" example:"rag"`
	RetrievalAvailable  bool        `json:"retrieval_available" example:"true"`
	GenerativeAvailable bool        `json:"generative_available" example:"true"`
	PolicyCount         int         `json:"policy_count" example:"3"`
}

// handleGetStatus godoc
// @Summary      Get analysis status
// @Description  Returns the effective analysis tier, the availability of retrieval and generative services, and the number of loaded policies
// @Tags         Analysis
// @Produce      json
// @Success      200  {object}  capabilityStatus
// @Failure      500  {object}  ErrorResponse  "Internal server error"
// @Router       /status [get]
func (s *Server) handleGetStatus(w http.ResponseWriter, r *http.Request) {
	count, err := s.policyService.Count(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to count policies")
		return
	}

	cfg := s.services.Config()
	writeJSON(w, http.StatusOK, capabilityStatus{
		Tier:                cfg.EffectiveTier(),
		RetrievalAvailable:  cfg.RetrievalAvailable(),
		GenerativeAvailable: cfg.GenerativeAvailable(),
		PolicyCount:         count,
	})
}

// Report endpoints

// handleListReports godoc
// @Summary      List reports
// @Description  Get the retained analysis reports, oldest first
// @Tags         Reports
// @Produce      json
// @Success      200  {array}   domain.AnalysisReport
// @Failure      500  {object}  ErrorResponse  "Internal server error"
// @Router       /reports [get]
func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := s.reportService.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list reports")
		return
	}

	writeJSON(w, http.StatusOK, reports)
}

// handleGetReport godoc
// @Summary      Get report
// @Description  Get an analysis report by ID
// @Tags         Reports
// @Produce      json
// @Param        id   path      string  true  "Report ID"
// @Success      200  {object}  domain.AnalysisReport
// @Failure      400  {object}  ErrorResponse  "Missing report ID"
// @Failure      404  {object}  ErrorResponse  "Report not found"
// @Failure      500  {object}  ErrorResponse  "Internal server error"
// @Router       /reports/{id} [get]
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing report id")
		return
	}

	report, err := s.reportService.Get(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "report not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to get report")
		}
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// Policy endpoints

// ingestPolicyRequest represents a policy ingestion request
// @Description Policy ingestion request
type ingestPolicyRequest struct {
	Name    string `json:"name" example:"Payment Policy"`
	Content string `json:"content" example:"All invoices must be paid within thirty days..."`
}

// handleIngestPolicy godoc
// @Summary      Ingest policy
// @Description  Create a policy from raw text. Keywords are derived immediately; retrieval indexing happens asynchronously.
// @Tags         Policies
// @Accept       json
// @Produce      json
// @Param        request  body      ingestPolicyRequest  true  "Policy document"
// @Success      201      {object}  domain.PolicySummary
// @Failure      400      {object}  ErrorResponse  "Invalid input"
// @Failure      500      {object}  ErrorResponse  "Ingestion failed"
// @Router       /policies [post]
func (s *Server) handleIngestPolicy(w http.ResponseWriter, r *http.Request) {
	var req ingestPolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	policy, err := s.policyService.Ingest(r.Context(), req.Name, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "policy name and content are required")
		default:
			writeError(w, http.StatusInternalServerError, "failed to ingest policy")
		}
		return
	}

	writeJSON(w, http.StatusCreated, policy.ToSummary())
}

// handleListPolicies godoc
// @Summary      List policies
// @Description  Get all loaded policies in ingestion order
// @Tags         Policies
// @Produce      json
// @Success      200  {array}   domain.PolicySummary
// @Failure      500  {object}  ErrorResponse  "Internal server error"
// @Router       /policies [get]
func (s *Server) handleListPolicies(w http.ResponseWriter, r *http.Request) {
	policies, err := s.policyService.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list policies")
		return
	}

	summaries := make([]*domain.PolicySummary, len(policies))
	for i, p := range policies {
		summaries[i] = p.ToSummary()
	}

	writeJSON(w, http.StatusOK, summaries)
}

// handleGetPolicy godoc
// @Summary      Get policy
// @Description  Get a policy by ID, including its full content
// @Tags         Policies
// @Produce      json
// @Param        id   path      string  true  "Policy ID"
// @Success      200  {object}  domain.Policy
// @Failure      400  {object}  ErrorResponse  "Missing policy ID"
// @Failure      404  {object}  ErrorResponse  "Policy not found"
// @Failure      500  {object}  ErrorResponse  "Internal server error"
// @Router       /policies/{id} [get]
func (s *Server) handleGetPolicy(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing policy id")
		return
	}

	policy, err := s.policyService.Get(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "policy not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to get policy")
		}
		return
	}

	writeJSON(w, http.StatusOK, policy)
}

// handleDeletePolicy godoc
// @Summary      Delete policy
// @Description  Delete a policy and queue removal of its indexed chunks
// @Tags         Policies
// @Produce      json
// @Param        id   path      string  true  "Policy ID"
// @Success      200  {object}  StatusResponse
// @Failure      400  {object}  ErrorResponse  "Missing policy ID"
// @Failure      404  {object}  ErrorResponse  "Policy not found"
// @Failure      500  {object}  ErrorResponse  "Internal server error"
// @Router       /policies/{id} [delete]
func (s *Server) handleDeletePolicy(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing policy id")
		return
	}

	if err := s.policyService.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "policy not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to delete policy")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Helper functions

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
