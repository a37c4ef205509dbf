// Package httpapi exposes the detection and validation queues for
// inspection over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	detectiondomain "github.com/DappGoose-Labs/arbagent/business/detection/domain"
	"github.com/DappGoose-Labs/arbagent/business/validation/domain"
	"github.com/DappGoose-Labs/arbagent/internal/logger"
)

// OpportunitySource serves the raw detection queue.
type OpportunitySource interface {
	Opportunities() []detectiondomain.Opportunity
	BestOpportunities(minProfit float64, limit int) []detectiondomain.Opportunity
}

// ValidatedSource serves the validated queue.
type ValidatedSource interface {
	Validated() []domain.ValidatedOpportunity
	BestValidated(minProfit float64, limit int) []domain.ValidatedOpportunity
}

// Server is the inspection HTTP API.
type Server struct {
	opportunities OpportunitySource
	validated     ValidatedSource
	log           logger.LoggerInterface
	srv           *http.Server
}

// New creates a Server listening on port.
func New(port int, opportunities OpportunitySource, validated ValidatedSource, log logger.LoggerInterface) *Server {
	s := &Server{
		opportunities: opportunities,
		validated:     validated,
		log:           log,
	}

	mux := http.NewServeMux()
	mux.Handle("GET /opportunities", otelhttp.NewHandler(http.HandlerFunc(s.handleOpportunities), "opportunities"))
	mux.Handle("GET /opportunities/validated", otelhttp.NewHandler(http.HandlerFunc(s.handleValidated), "opportunities_validated"))

	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.log.Info(context.Background(), "inspection api listening", "addr", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// query defaults: min_profit=0 returns everything detection retained,
// limit<0 means unbounded.
func queryParams(r *http.Request) (minProfit float64, limit int) {
	minProfit = 0
	limit = -1
	if raw := r.URL.Query().Get("min_profit"); raw != "" {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			minProfit = f
		}
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}
	return minProfit, limit
}

func (s *Server) handleOpportunities(w http.ResponseWriter, r *http.Request) {
	minProfit, limit := queryParams(r)
	s.writeJSON(w, r, s.opportunities.BestOpportunities(minProfit, limit))
}

func (s *Server) handleValidated(w http.ResponseWriter, r *http.Request) {
	minProfit, limit := queryParams(r)
	if r.URL.Query().Get("all") == "true" {
		s.writeJSON(w, r, s.validated.Validated())
		return
	}
	s.writeJSON(w, r, s.validated.BestValidated(minProfit, limit))
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn(r.Context(), "failed to encode api response", "error", err)
	}
}
