// Package http exposes a read-only query surface over a guild's state:
// members, proposals, the sponsorship queue, and vote tallies. It never
// accepts a state-mutating request — every entry point into the engine is
// submitted out of band (CLI, another service, a future transaction
// ingress) and this router only reports what the engine already decided.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"guildchain/crypto"
	"guildchain/native/guild"
)

// Server wires the read-only HTTP API to a guild Store.
type Server struct {
	store  guild.Store
	logger *slog.Logger
	obs    *Observability
}

// NewServer builds a chi router over store. A nil logger disables
// per-request logging. A nil registry leaves tracing/metrics disabled;
// passing a live registry turns on the OpenTelemetry span and Prometheus
// histogram recorded by Observability for every route.
func NewServer(store guild.Store, logger *slog.Logger, reg *prometheus.Registry) http.Handler {
	obs := NewObservability(ObservabilityConfig{Enabled: reg != nil}, reg)
	s := &Server{store: store, logger: logger, obs: obs}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestUUID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequest)
	r.Use(s.obs.Middleware)

	r.Get("/healthz", s.handleHealthz)
	r.Get("/guild", s.handleOrgConfig)
	r.Get("/members/{address}", s.handleMember)
	r.Get("/proposals/{id}", s.handleProposal)
	r.Get("/proposals/{id}/tally", s.handleTally)
	r.Get("/queue", s.handleQueue)
	r.Get("/audit", s.handleAudit)

	return r
}

// requestUUID stamps every request with a v4 identifier, independent of
// chi's own sequential RequestID, for cross-referencing against
// externally issued trace ids.
func requestUUID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("X-Request-Uuid", uuid.NewString())
		next.ServeHTTP(w, req)
	})
}

func (s *Server) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if s.logger != nil {
			s.logger.Info("http_request", slog.String("method", req.Method), slog.String("path", req.URL.Path))
		}
		next.ServeHTTP(w, req)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleOrgConfig(w http.ResponseWriter, r *http.Request) {
	cfg, ok, err := s.store.OrgConfig()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, errNotSummoned)
		return
	}
	totalShares, err := s.store.TotalShares()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	totalLoot, err := s.store.TotalLoot()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"config":       cfg,
		"total_shares": totalShares.String(),
		"total_loot":   totalLoot.String(),
	})
}

func (s *Server) handleMember(w http.ResponseWriter, r *http.Request) {
	addr, err := crypto.DecodeAddress(chi.URLParam(r, "address"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	member, ok, err := s.store.GetMember(addr)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if !ok || !member.Exists {
		writeError(w, http.StatusNotFound, errNoSuchMember)
		return
	}
	writeJSON(w, http.StatusOK, guild.MemberView(member))
}

func (s *Server) handleProposal(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	proposal, ok, err := s.store.GetProposal(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, errNoSuchProposal)
		return
	}
	writeJSON(w, http.StatusOK, guild.ProposalView(proposal))
}

func (s *Server) handleTally(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	proposal, ok, err := s.store.GetProposal(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, errNoSuchProposal)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"yes_votes":               proposal.YesVotes.String(),
		"no_votes":                proposal.NoVotes.String(),
		"max_total_shares_at_yes": proposal.MaxTotalSharesAtYes.String(),
		"flags":                   proposal.Flags,
	})
}

func (s *Server) handleQueue(w http.ResponseWriter, r *http.Request) {
	queue, err := s.store.Queue()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"queue": queue})
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	trail, err := s.store.AuditTrail()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	views := make([]any, len(trail))
	for i, rec := range trail {
		views[i] = guild.AuditView(rec)
	}
	writeJSON(w, http.StatusOK, map[string]any{"audit": views})
}
