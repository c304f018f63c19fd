package main

import (
	"encoding/json"
	"log"
	"net/http"
)

type server struct {
	poll      *poller
	hub       *wsHub
	view      *viewState
	staticDir string
}

func (s *server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/figure", s.handleFigure)
	mux.HandleFunc("/api/tracks.geojson", s.handleGeoJSON)
	mux.HandleFunc("/ws", s.handleWebSocket)

	fs := http.FileServer(http.Dir(s.staticDir))
	mux.Handle("/", withLogging(fs))
}

func (s *server) handleStatus(w http.ResponseWriter, r *http.Request) {
	individuals, _ := s.poll.lastSnapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"lastFetchMs": s.poll.lastFetch(),
		"individuals": len(individuals),
	})
}

func (s *server) handleFigure(w http.ResponseWriter, r *http.Request) {
	fig, ok := s.poll.lastFigure()
	if !ok {
		http.Error(w, "no data fetched yet", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, fig)
}

func (s *server) handleGeoJSON(w http.ResponseWriter, r *http.Request) {
	individuals, ok := s.poll.lastSnapshot()
	if !ok {
		http.Error(w, "no data fetched yet", http.StatusServiceUnavailable)
		return
	}
	palette, _ := s.view.snapshot()
	data, err := TracksGeoJSON(individuals, palette).MarshalJSON()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("response encode error: %v", err)
	}
}

func withLogging(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("%s %s", r.Method, r.URL.Path)
		h.ServeHTTP(w, r)
	})
}
