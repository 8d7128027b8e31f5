// Package api exposes the optimizer, the DPS calculator and stored results
// over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"osrs_sim/internal/config"
	"osrs_sim/internal/data"
	"osrs_sim/internal/logger"
	"osrs_sim/internal/optimizer"
	"osrs_sim/internal/store"
	"osrs_sim/internal/tempoross"
)

// maxTrials caps the work one request may queue. maxGrid bounds the grid
// resolution, which yields 2*grid*grid strategies.
const (
	maxTrials = 10_000
	maxGrid   = 50
)

// Server handles HTTP requests. Store may be nil; result routes then answer
// 503.
type Server struct {
	Rules    *config.Rules
	Registry *tempoross.Registry
	Catalog  *data.Catalog
	Store    *store.Store
}

func NewServer(rules *config.Rules, reg *tempoross.Registry, cat *data.Catalog, st *store.Store) *Server {
	return &Server{Rules: rules, Registry: reg, Catalog: cat, Store: st}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(middleware.Timeout(5 * time.Minute))

	r.Get("/health", s.handleHealth)
	r.Get("/strategies", s.handleStrategies)
	r.Post("/optimize", s.handleOptimize)
	r.Post("/dps", s.handleDPS)
	r.Route("/results", func(r chi.Router) {
		r.Get("/", s.handleListResults)
		r.Get("/{id}", s.handleGetResult)
		r.Delete("/{id}", s.handleDeleteResult)
	})
	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).String(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"strategies": len(s.Registry.Names()),
		"store":      s.Store != nil,
	})
}

func (s *Server) handleStrategies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"strategies": s.Registry.Names(),
		"objectives": optimizer.Objectives(),
	})
}

func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	var req OptimizeRequest
	if !decode(w, r, &req) {
		return
	}
	switch {
	case req.Trials > maxTrials:
		writeError(w, fmt.Errorf("%w: trials %d above %d", ErrBadRequest, req.Trials, maxTrials))
		return
	case req.Strategy == "grid" && req.Grid > maxGrid:
		writeError(w, fmt.Errorf("%w: grid %d above %d", ErrBadRequest, req.Grid, maxGrid))
		return
	}
	strategies, opts, err := req.Build(s.Rules, s.Registry)
	if err != nil {
		writeError(w, err)
		return
	}
	if opts.Trials*len(strategies) > maxTrials {
		writeError(w, errors.Join(ErrBadRequest, errors.New("too many trials")))
		return
	}
	ranked, err := optimizer.Optimize(r.Context(), strategies, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := OptimizeResponse{
		Objective: opts.Objective,
		Player:    opts.Run.Player,
		Results:   ranked,
		Pareto:    ParetoNames(ranked),
	}
	if req.Save {
		if resp.ID, err = s.save(store.KindOptimize, req.Strategy, req.Seed, resp); err != nil {
			writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDPS(w http.ResponseWriter, r *http.Request) {
	var req DPSRequest
	if !decode(w, r, &req) {
		return
	}
	resp, err := RunDPS(r.Context(), s.Catalog, req)
	if err != nil {
		writeError(w, err)
		return
	}
	if req.Save {
		label := req.Weapon
		if req.Monster != "" {
			label += " vs " + req.Monster
		}
		if resp.ID, err = s.save(store.KindDPS, label, req.Seed, resp); err != nil {
			writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

var errNoStore = errors.New("result storage is disabled")

func (s *Server) save(kind, label string, seed int64, v any) (string, error) {
	if s.Store == nil {
		return "", errNoStore
	}
	rec, err := s.Store.Save(kind, label, seed, v)
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (s *Server) handleListResults(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		writeError(w, errNoStore)
		return
	}
	var (
		recs []store.Record
		err  error
	)
	if kind := r.URL.Query().Get("kind"); kind != "" {
		recs, err = s.Store.ListAll(kind)
		for i := range recs {
			recs[i].Payload = nil
		}
	} else {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		recs, err = s.Store.ListRecent(limit)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	if recs == nil {
		recs = []store.Record{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": recs})
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		writeError(w, errNoStore)
		return
	}
	rec, err := s.Store.Load(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteResult(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		writeError(w, errNoStore)
		return
	}
	if err := s.Store.Delete(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, errors.Join(ErrBadRequest, err))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warning("write response", "err", err)
	}
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, optimizer.ErrNoStrategies),
		errors.Is(err, optimizer.ErrNoTrials):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errNoStore):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	status := statusOf(err)
	if status >= 500 {
		logger.Error("request failed", "status", status, "err", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
