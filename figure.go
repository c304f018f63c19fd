package main

import "time"

const timestampLayout = "2006-01-02 15:04:05"

// Figure is the plotly figure handed to the page on every refresh.
type Figure struct {
	Data   []LineLayer `json:"data"`
	Layout Layout      `json:"layout"`
}

// LineLayer draws one individual. Lat, Lon and Text are parallel.
type LineLayer struct {
	Type string    `json:"type"`
	Mode string    `json:"mode"`
	Lat  []float64 `json:"lat"`
	Lon  []float64 `json:"lon"`
	Line LineStyle `json:"line"`
	Name string    `json:"name"`
	Text []string  `json:"text"`
}

type LineStyle struct {
	Width float64 `json:"width"`
	Color string  `json:"color"`
}

type Layout struct {
	Legend       Legend       `json:"legend"`
	Mapbox       MapboxLayout `json:"mapbox"`
	Margin       Margin       `json:"margin"`
	PlotBgColor  string       `json:"plot_bgcolor"`
	PaperBgColor string       `json:"paper_bgcolor"`
}

type Legend struct {
	Title string `json:"title"`
}

type MapboxLayout struct {
	AccessToken string    `json:"accesstoken"`
	Center      MapCenter `json:"center"`
	Style       string    `json:"style"`
	Zoom        float64   `json:"zoom"`
}

type MapCenter struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

type Margin struct {
	L int `json:"l"`
	R int `json:"r"`
	T int `json:"t"`
	B int `json:"b"`
}

// Renderer turns fetched individuals into a Figure. It keeps no state between
// calls.
type Renderer struct {
	AccessToken string
	Style       string
	LineWidth   float64
	LegendTitle string
	Location    *time.Location
}

func NewRenderer(cfg MapConfig) (*Renderer, error) {
	loc := time.Local
	if cfg.TimeZone != "" {
		l, err := time.LoadLocation(cfg.TimeZone)
		if err != nil {
			return nil, err
		}
		loc = l
	}
	return &Renderer{
		AccessToken: cfg.AccessToken,
		Style:       cfg.Style,
		LineWidth:   cfg.LineWidth,
		LegendTitle: cfg.LegendTitle,
		Location:    loc,
	}, nil
}

// FormatTimestamp renders epoch milliseconds as local wall time in loc.
func FormatTimestamp(ms int64, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(ms).In(loc).Format(timestampLayout)
}

// Render builds the figure for individuals. Track i is colored with
// ResolveColor(i, palette); a nil viewport centers the map on DefaultViewport.
func (r *Renderer) Render(individuals []Individual, palette []string, viewport *Viewport) Figure {
	vp := ViewportOrDefault(viewport)
	layers := make([]LineLayer, 0, len(individuals))
	for i, ind := range individuals {
		layer := LineLayer{
			Type: "scattermapbox",
			Mode: "lines",
			Lat:  make([]float64, len(ind.Samples)),
			Lon:  make([]float64, len(ind.Samples)),
			Text: make([]string, len(ind.Samples)),
			Line: LineStyle{Width: r.LineWidth, Color: ResolveColor(i, palette)},
			Name: ind.ID,
		}
		for j, s := range ind.Samples {
			layer.Lat[j] = s.Lat
			layer.Lon[j] = s.Lon
			layer.Text[j] = FormatTimestamp(s.Timestamp, r.Location)
		}
		layers = append(layers, layer)
	}
	return Figure{
		Data: layers,
		Layout: Layout{
			PlotBgColor:  "#191A1A",
			PaperBgColor: "#020202",
			Legend:       Legend{Title: r.LegendTitle},
			Mapbox: MapboxLayout{
				AccessToken: r.AccessToken,
				Center:      MapCenter{Lon: vp.Lon, Lat: vp.Lat},
				Style:       r.Style,
				Zoom:        vp.Zoom,
			},
		},
	}
}
