package main

import "strings"

// DefaultPalette colors tracks when the page has not supplied its own colors.
var DefaultPalette = []string{
	"#d32f2f", "#d81b60", "#8e24aa", "#5e35b1", "#3949ab", "#1e88e5",
	"#81d4fa", "#006064", "#00897b", "#4caf50", "#ccff90", "#eeff41",
	"#ffeb3b", "#ffb300", "#fb8c00", "#ff8a65", "#8d6e63", "#bdbdbd", "#78909c",
}

// ResolveColor returns the color for the track at index. Entries of palette win
// when present and non-empty; any index past the end of palette falls back to
// DefaultPalette, which wraps around.
func ResolveColor(index int, palette []string) string {
	if index < 0 {
		index = 0
	}
	if index < len(palette) && palette[index] != "" {
		return palette[index]
	}
	return DefaultPalette[index%len(DefaultPalette)]
}

// NormalizePalette trims user supplied colors. A palette with no usable entry
// is returned as nil so callers treat it as absent.
func NormalizePalette(colors []string) []string {
	if len(colors) == 0 {
		return nil
	}
	out := make([]string, len(colors))
	usable := false
	for i, c := range colors {
		out[i] = strings.TrimSpace(c)
		if out[i] != "" {
			usable = true
		}
	}
	if !usable {
		return nil
	}
	return out
}
