package main

import (
	"encoding/json"
	"testing"
	"time"
)

func testRenderer() *Renderer {
	return &Renderer{
		AccessToken: "pk.test",
		Style:       "dark",
		LineWidth:   2,
		LegendTitle: "Individuals",
		Location:    time.UTC,
	}
}

func testIndividuals() []Individual {
	return []Individual{
		{ID: "a", Samples: []LocationSample{
			{Lat: 39, Lon: -76, Timestamp: 1577836800000},
			{Lat: 39.5, Lon: -76.5, Timestamp: 1577836860000},
			{Lat: 39, Lon: -76, Timestamp: 1577836920000},
		}},
		{ID: "b", Samples: []LocationSample{{Lat: 10, Lon: 20, Timestamp: 1577836800000}}},
		{ID: "c"},
	}
}

func TestFormatTimestamp(t *testing.T) {
	got := FormatTimestamp(1577836800000, time.UTC)
	if got != "2020-01-01 00:00:00" {
		t.Fatalf("expected 2020-01-01 00:00:00, got %s", got)
	}
	if again := FormatTimestamp(1577836800000, time.UTC); again != got {
		t.Errorf("not stable: %s vs %s", got, again)
	}
}

func TestRender_LayerPerIndividual(t *testing.T) {
	inds := testIndividuals()
	fig := testRenderer().Render(inds, nil, nil)
	if len(fig.Data) != len(inds) {
		t.Fatalf("expected %d layers, got %d", len(inds), len(fig.Data))
	}
	for i, ind := range inds {
		layer := fig.Data[i]
		if layer.Name != ind.ID {
			t.Errorf("layer %d: expected name %s, got %s", i, ind.ID, layer.Name)
		}
		if layer.Type != "scattermapbox" || layer.Mode != "lines" {
			t.Errorf("layer %d: unexpected type/mode %s/%s", i, layer.Type, layer.Mode)
		}
		if layer.Line.Width != 2 {
			t.Errorf("layer %d: expected width 2, got %v", i, layer.Line.Width)
		}
		if len(layer.Lat) != len(ind.Samples) || len(layer.Lon) != len(ind.Samples) || len(layer.Text) != len(ind.Samples) {
			t.Fatalf("layer %d: parallel arrays have wrong length", i)
		}
		for j, s := range ind.Samples {
			if layer.Lon[j] != s.Lon || layer.Lat[j] != s.Lat {
				t.Errorf("layer %d point %d: expected (%v,%v), got (%v,%v)", i, j, s.Lon, s.Lat, layer.Lon[j], layer.Lat[j])
			}
		}
	}
	if fig.Data[0].Text[0] != "2020-01-01 00:00:00" || fig.Data[0].Text[1] != "2020-01-01 00:01:00" {
		t.Errorf("unexpected hover text: %v", fig.Data[0].Text)
	}
}

func TestRender_Empty(t *testing.T) {
	fig := testRenderer().Render(nil, nil, nil)
	if fig.Data == nil || len(fig.Data) != 0 {
		t.Fatalf("expected empty non-nil data, got %v", fig.Data)
	}
	b, err := json.Marshal(fig)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if string(raw["data"]) != "[]" {
		t.Errorf("expected data [], got %s", raw["data"])
	}
}

func TestRender_DefaultViewport(t *testing.T) {
	fig := testRenderer().Render(testIndividuals(), nil, nil)
	mb := fig.Layout.Mapbox
	if mb.Center.Lon != -76 || mb.Center.Lat != 39 || mb.Zoom != 4 {
		t.Errorf("expected default view, got %+v zoom %v", mb.Center, mb.Zoom)
	}
	if mb.Style != "dark" || mb.AccessToken != "pk.test" {
		t.Errorf("unexpected mapbox config: %+v", mb)
	}
	if fig.Layout.Margin != (Margin{}) {
		t.Errorf("expected zero margins, got %+v", fig.Layout.Margin)
	}
}

func TestRender_EchoesViewport(t *testing.T) {
	vp, err := ViewportFromRelayout([]byte(`{"mapbox":{"center":{"lon":10,"lat":20},"zoom":7}}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	for _, inds := range [][]Individual{nil, testIndividuals()} {
		mb := testRenderer().Render(inds, nil, vp).Layout.Mapbox
		if mb.Center.Lon != 10 || mb.Center.Lat != 20 || mb.Zoom != 7 {
			t.Errorf("expected {10 20 7}, got %+v zoom %v", mb.Center, mb.Zoom)
		}
	}
}

func TestRender_Colors(t *testing.T) {
	palette := []string{"#010101", "#020202", "#030303"}
	fig := testRenderer().Render(testIndividuals(), palette, nil)
	for i := range palette {
		if fig.Data[i].Line.Color != palette[i] {
			t.Errorf("layer %d: expected %s, got %s", i, palette[i], fig.Data[i].Line.Color)
		}
	}

	fig = testRenderer().Render(testIndividuals(), nil, nil)
	for i := range fig.Data {
		if fig.Data[i].Line.Color != DefaultPalette[i] {
			t.Errorf("layer %d: expected %s, got %s", i, DefaultPalette[i], fig.Data[i].Line.Color)
		}
	}
	if fig.Data[0].Line.Color != "#d32f2f" {
		t.Errorf("expected #d32f2f, got %s", fig.Data[0].Line.Color)
	}
}

func TestRender_Deterministic(t *testing.T) {
	r := testRenderer()
	vp := &Viewport{Lon: 1, Lat: 2, Zoom: 3}
	a, err := json.Marshal(r.Render(testIndividuals(), []string{"#abcdef"}, vp))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	b, err := json.Marshal(r.Render(testIndividuals(), []string{"#abcdef"}, vp))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(a) != string(b) {
		t.Fatal("render output differs between identical calls")
	}
}

func TestRender_BackgroundInLayout(t *testing.T) {
	b, err := json.Marshal(testRenderer().Render(testIndividuals(), nil, nil))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw struct {
		Layout map[string]json.RawMessage `json:"layout"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if string(raw.Layout["plot_bgcolor"]) != `"#191A1A"` || string(raw.Layout["paper_bgcolor"]) != `"#020202"` {
		t.Errorf("expected background colors in layout, got %s / %s", raw.Layout["plot_bgcolor"], raw.Layout["paper_bgcolor"])
	}
	var top map[string]json.RawMessage
	if err := json.Unmarshal(b, &top); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(top) != 2 {
		t.Errorf("expected only data and layout at top level, got %d keys", len(top))
	}
}

func TestNewRenderer_TimeZone(t *testing.T) {
	cfg := defaultConfig().Map
	cfg.TimeZone = "UTC"
	r, err := NewRenderer(cfg)
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	if r.Location != time.UTC {
		t.Errorf("expected UTC, got %v", r.Location)
	}
	cfg.TimeZone = "Not/AZone"
	if _, err := NewRenderer(cfg); err == nil {
		t.Error("expected error for unknown zone")
	}
}
