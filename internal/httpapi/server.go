package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	apimw "github.com/hamed0406/netcollector/internal/httpapi/middleware"
	"github.com/hamed0406/netcollector/internal/repo"
	"github.com/hamed0406/netcollector/internal/scheduler"
)

const defaultRecent = 20

type Server struct {
	Logger *zap.Logger
	Roster scheduler.Roster
	Sweeps repo.SweepStore
}

func NewServer(l *zap.Logger, roster scheduler.Roster, sweeps repo.SweepStore) *Server {
	if l == nil {
		l = zap.NewNop()
	}
	return &Server{Logger: l, Roster: roster, Sweeps: sweeps}
}

// Router builds the status API. reqPerMin <= 0 disables rate limiting.
func (s *Server) Router(reqPerMin, burst int) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(cors.AllowAll().Handler)
	r.Use(apimw.RateLimit(reqPerMin, burst))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/devices", s.handleDevices)
		r.Get("/sweeps", s.handleRecentSweeps)
		r.Get("/sweeps/latest", s.handleLatestSweep)
		r.Post("/roster/refresh", s.handleRefresh)
	})

	return r
}

func (s *Server) handleDevices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Roster.Current())
}

func (s *Server) handleLatestSweep(w http.ResponseWriter, r *http.Request) {
	sw, err := s.Sweeps.Latest(r.Context())
	if err != nil {
		s.Logger.Error("latest_sweep_error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not load sweep")
		return
	}
	if sw == nil {
		writeError(w, http.StatusNotFound, "no sweep yet")
		return
	}
	writeJSON(w, http.StatusOK, sw)
}

func (s *Server) handleRecentSweeps(w http.ResponseWriter, r *http.Request) {
	n := defaultRecent
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		n = parsed
	}
	sweeps, err := s.Sweeps.Recent(r.Context(), n)
	if err != nil {
		s.Logger.Error("recent_sweeps_error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not list sweeps")
		return
	}
	writeJSON(w, http.StatusOK, sweeps)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.Roster.Refresh(r.Context()); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	n := len(s.Roster.Current())
	s.Logger.Info("roster_refresh_requested", zap.Int("devices", n))
	writeJSON(w, http.StatusOK, map[string]int{"devices": n})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
