package main

import (
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/geojson"
)

// TracksGeoJSON exports individuals as LineString features, colored the same
// way Render colors them.
func TracksGeoJSON(individuals []Individual, palette []string) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i, ind := range individuals {
		ls := ind.Path()
		f := geojson.NewFeature(ls)
		f.Properties["name"] = ind.ID
		f.Properties["color"] = ResolveColor(i, palette)
		f.Properties["samples"] = len(ind.Samples)
		f.Properties["length_m"] = geo.Length(ls)
		if n := len(ind.Samples); n > 0 {
			f.Properties["first_timestamp"] = ind.Samples[0].Timestamp
			f.Properties["last_timestamp"] = ind.Samples[n-1].Timestamp
		}
		fc.Append(f)
	}
	return fc
}
