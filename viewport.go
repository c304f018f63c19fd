package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
)

// Viewport is the map center and zoom as last seen on the page.
type Viewport struct {
	Lon  float64 `json:"lon"`
	Lat  float64 `json:"lat"`
	Zoom float64 `json:"zoom"`
}

var DefaultViewport = Viewport{Lon: -76, Lat: 39, Zoom: 4}

func ViewportOrDefault(v *Viewport) Viewport {
	if v == nil {
		return DefaultViewport
	}
	return *v
}

// relayout numbers come back from the browser either as numbers or as strings.
type looseFloat struct {
	value float64
	set   bool
}

func (f *looseFloat) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		f.value, f.set = n, true
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("viewport number: %s", b)
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("viewport number %q: %w", s, err)
	}
	f.value, f.set = n, true
	return nil
}

type relayoutCenter struct {
	Lon looseFloat `json:"lon"`
	Lat looseFloat `json:"lat"`
}

type relayoutMapbox struct {
	Center *relayoutCenter `json:"center"`
	Zoom   looseFloat      `json:"zoom"`
}

type relayoutData struct {
	Mapbox     *relayoutMapbox `json:"mapbox"`
	FlatCenter *relayoutCenter `json:"mapbox.center"`
	FlatZoom   looseFloat      `json:"mapbox.zoom"`
}

// ViewportFromRelayout extracts the mapbox view from a plotly relayout value.
// Both the nested {mapbox:{center,zoom}} form and the flat "mapbox.center" /
// "mapbox.zoom" keys are understood. It returns nil when raw carries no
// complete view, e.g. an autosize event.
func ViewportFromRelayout(raw []byte) (*Viewport, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var rd relayoutData
	if err := json.Unmarshal(raw, &rd); err != nil {
		return nil, fmt.Errorf("relayout decode: %w", err)
	}
	center, zoom := rd.FlatCenter, rd.FlatZoom
	if rd.Mapbox != nil {
		center, zoom = rd.Mapbox.Center, rd.Mapbox.Zoom
	}
	if center == nil || !center.Lon.set || !center.Lat.set || !zoom.set {
		return nil, nil
	}
	return &Viewport{Lon: center.Lon.value, Lat: center.Lat.value, Zoom: zoom.value}, nil
}

// viewState holds what the page last reported. Only the websocket reader
// writes it; rendering reads a copy.
type viewState struct {
	mu       sync.Mutex
	viewport *Viewport
	palette  []string
}

func (s *viewState) setViewport(v *Viewport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v == nil {
		return
	}
	cp := *v
	s.viewport = &cp
}

func (s *viewState) setPalette(colors []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.palette = NormalizePalette(colors)
}

func (s *viewState) snapshot() ([]string, *Viewport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var vp *Viewport
	if s.viewport != nil {
		cp := *s.viewport
		vp = &cp
	}
	return append([]string(nil), s.palette...), vp
}
