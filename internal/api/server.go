package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/atharv3903/metronav/internal/algo"
	"github.com/atharv3903/metronav/internal/cache"
	"github.com/atharv3903/metronav/internal/graph"
	"github.com/atharv3903/metronav/internal/model"
	"github.com/atharv3903/metronav/internal/network"
)

type Server struct {
	Mux    *http.ServeMux
	Net    *network.Network
	RC     *cache.RouteCache
	Logger *zap.Logger
}

func New(net *network.Network, rc *cache.RouteCache, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		Mux:    http.NewServeMux(),
		Net:    net,
		RC:     rc,
		Logger: logger,
	}
	s.routes()
	return s
}

// Handler is the mux wrapped with request IDs and access logging.
func (s *Server) Handler() http.Handler {
	return withRequestLog(s.Logger, s.Mux)
}

func (s *Server) routes() {
	s.Mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})

	s.Mux.HandleFunc("GET /stations", s.handleStations)
	s.Mux.HandleFunc("GET /route", s.handleRoute)
	s.Mux.HandleFunc("POST /network/reload", s.handleReload)

	s.Mux.HandleFunc("POST /debug/clear_cache", func(w http.ResponseWriter, r *http.Request) {
		s.RC.Clear()
		loggerFrom(r.Context()).Info("route cache cleared")
		w.Write([]byte("cleared"))
	})
	s.Mux.HandleFunc("GET /debug/cache_stats", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, s.RC.Stats())
	})
}

func (s *Server) handleStations(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Net.Current()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, model.StationsResponse{
		Stations: snap.Graph.Stations(),
		Epoch:    snap.Epoch,
	})
}

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to := q.Get("from"), q.Get("to")
	if from == "" || to == "" {
		http.Error(w, "from and to are required", http.StatusBadRequest)
		return
	}

	snap, err := s.Net.Current()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	key := cache.RouteKey{Start: from, End: to, Epoch: snap.Epoch}
	if v, ok := s.RC.Get(key); ok {
		writeJSON(w, http.StatusOK, model.NewRouteResponse(v.Result, v.Explored, true))
		return
	}

	trace := algo.Search(snap.Graph, from, to)
	s.RC.Put(key, cache.Route{Result: trace.Result, Explored: trace.Explored})

	log := loggerFrom(r.Context())
	status := http.StatusOK
	if trace.Result.OK() {
		log.Debug("route found",
			zap.String("route", trace.Result.Short()),
			zap.Int("explored", trace.Explored),
		)
	} else {
		status = http.StatusNotFound
		log.Info("route not found", zap.String("from", from), zap.String("to", to), zap.String("reason", trace.Result.Err()))
	}

	writeJSON(w, status, model.NewRouteResponse(trace.Result, trace.Explored, false))
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Net.Load(r.Context())
	if err != nil {
		status := http.StatusInternalServerError
		var le *graph.LoadError
		if errors.As(err, &le) {
			status = http.StatusUnprocessableEntity
		}
		http.Error(w, err.Error(), status)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":       true,
		"epoch":    snap.Epoch,
		"stations": snap.Graph.Len(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
