package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/san-kum/chaoslab/internal/coerce"
	"github.com/san-kum/chaoslab/internal/experiment"
	"github.com/san-kum/chaoslab/internal/forecast"
	"github.com/san-kum/chaoslab/internal/storage"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type systemInfo struct {
	Name         string             `json:"name"`
	Dim          int                `json:"dim"`
	Params       map[string]float64 `json:"params"`
	InitialState []float64          `json:"initial_state"`
}

func (s *Server) handleSystems(w http.ResponseWriter, r *http.Request) {
	systems := s.registry.Systems()
	out := make([]systemInfo, len(systems))
	for i, sys := range systems {
		out[i] = systemInfo{
			Name:         sys.Name(),
			Dim:          sys.Dim(),
			Params:       sys.DefaultParams(),
			InitialState: sys.DefaultState(),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// generateRequest fields are all optional and loosely typed;
// whatever arrives is coerced.
type generateRequest struct {
	System       any `json:"system"`
	N            any `json:"n"`
	Params       any `json:"params"`
	InitialState any `json:"initial_state"`
}

type generateResponse struct {
	OK        bool   `json:"ok"`
	RunID     string `json:"run_id"`
	System    string `json:"system"`
	Shape     [2]int `json:"shape"`
	Fallback  bool   `json:"fallback"`
	Initial   string `json:"initial"`
	Fallbacks int    `json:"fallbacks"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	system, _ := req.System.(string)
	if system == "" {
		system = s.cfg.System
	}
	n := s.cfg.Steps()
	if req.N != nil {
		n = coerce.Count(req.N)
	}
	if n > s.cfg.Server.MaxN {
		writeError(w, http.StatusBadRequest, fmt.Errorf("n=%d exceeds the limit of %d", n, s.cfg.Server.MaxN))
		return
	}
	params, _ := req.Params.(map[string]any)

	exp := experiment.New(experiment.Config{
		System:       system,
		N:            n,
		Params:       params,
		InitialState: req.InitialState,
		Integrator:   s.cfg.Integrator,
		Precision:    s.cfg.Precision,
	}, s.registry)

	result, meta, err := exp.Save(r.Context(), s.store)
	if err != nil {
		s.logger.Error("generate failed", "system", system, "err", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if result.FellBack {
		s.logger.Warn("unknown system, using default", "requested", system, "system", result.System)
	}

	writeJSON(w, http.StatusOK, generateResponse{
		OK:        true,
		RunID:     meta.ID,
		System:    result.System,
		Shape:     [2]int{meta.Steps, meta.Dim},
		Fallback:  result.FellBack,
		Initial:   result.Coercions.Initial.String(),
		Fallbacks: result.Coercions.Fallbacks,
	})
}

type forecastResponse struct {
	RunID    string      `json:"run_id"`
	Forecast [][]float64 `json:"forecast"`
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	steps := s.cfg.Forecast.Steps
	if raw := q.Get("steps"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid steps %q", raw))
			return
		}
		steps = v
	}
	if steps > s.cfg.Server.MaxN {
		writeError(w, http.StatusBadRequest, fmt.Errorf("steps=%d exceeds the limit of %d", steps, s.cfg.Server.MaxN))
		return
	}

	fc := s.cfg.Forecast
	if method := q.Get("method"); method != "" {
		fc.Method = method
	}

	meta, err := s.lookupRun(q.Get("run"))
	if err != nil {
		s.writeRunError(w, err)
		return
	}
	series, err := s.store.LoadSeries(meta.ID)
	if err != nil {
		s.writeRunError(w, err)
		return
	}

	model, err := forecast.Fit(series, fc)
	if errors.Is(err, forecast.ErrUnknownMethod) {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	out, err := model.Generate(series, steps)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	writeJSON(w, http.StatusOK, forecastResponse{RunID: meta.ID, Forecast: out.Rows()})
}

func (s *Server) lookupRun(id string) (*storage.RunMetadata, error) {
	if id == "" {
		return s.store.Latest()
	}
	return s.store.Load(id)
}

func (s *Server) writeRunError(w http.ResponseWriter, err error) {
	if errors.Is(err, os.ErrNotExist) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeError(w, http.StatusBadRequest, err)
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.store.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.store.Load(id); err != nil {
		s.writeRunError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	http.ServeFile(w, r, s.store.SeriesPath(id))
}
