package main

import "github.com/paulmach/orb"

// Individual is one tracked animal and its fixes, in upstream order.
type Individual struct {
	ID      string           `json:"id"`
	Samples []LocationSample `json:"samples"`
}

// LocationSample is a single GPS fix. Timestamp is epoch milliseconds.
type LocationSample struct {
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Timestamp int64   `json:"timestamp"`
}

// Path returns the samples as a line in [lon, lat] order.
func (ind Individual) Path() orb.LineString {
	ls := make(orb.LineString, len(ind.Samples))
	for i, s := range ind.Samples {
		ls[i] = orb.Point{s.Lon, s.Lat}
	}
	return ls
}
