package align

import (
	"fmt"

	"readmap/internal/index"
)

// Options tunes seeding and chaining. Zero fields take the map-ont defaults.
type Options struct {
	MinCount      int     // minimum anchors per chain
	MinChainScore int     // minimum chaining score
	MaxGap        int     // largest gap between chained anchors, either sequence
	Bandwidth     int     // largest diagonal drift between chained anchors
	MaxLookback   int     // predecessors considered per anchor
	BestN         int     // mappings kept per query
	PriRatio      float64 // secondary mappings need score >= PriRatio*best
}

var defaultOptions = Options{
	MinCount:      3,
	MinChainScore: 40,
	MaxGap:        5000,
	Bandwidth:     500,
	MaxLookback:   50,
	BestN:         5,
	PriRatio:      0.8,
}

func (o Options) withDefaults() Options {
	d := defaultOptions
	if o.MinCount > 0 {
		d.MinCount = o.MinCount
	}
	if o.MinChainScore > 0 {
		d.MinChainScore = o.MinChainScore
	}
	if o.MaxGap > 0 {
		d.MaxGap = o.MaxGap
	}
	if o.Bandwidth > 0 {
		d.Bandwidth = o.Bandwidth
	}
	if o.MaxLookback > 0 {
		d.MaxLookback = o.MaxLookback
	}
	if o.BestN > 0 {
		d.BestN = o.BestN
	}
	if o.PriRatio > 0 {
		d.PriRatio = o.PriRatio
	}
	return d
}

// Presets lists the names accepted by Preset.
var Presets = []string{"map-ont", "map-pb", "sr", "asm5"}

// Preset returns the index and mapping options for a named read type.
func Preset(name string) (index.Options, Options, error) {
	switch name {
	case "", "map-ont":
		return index.Options{K: 15, W: 10}, defaultOptions, nil
	case "map-pb":
		return index.Options{K: 19, W: 10}, defaultOptions, nil
	case "sr":
		o := defaultOptions
		o.MinCount, o.MinChainScore, o.MaxGap, o.Bandwidth = 2, 25, 100, 100
		return index.Options{K: 21, W: 11}, o, nil
	case "asm5":
		o := defaultOptions
		o.MinCount, o.MinChainScore, o.Bandwidth, o.PriRatio = 10, 40, 500, 0.9
		return index.Options{K: 19, W: 19}, o, nil
	}
	return index.Options{}, Options{}, fmt.Errorf("unknown preset %q", name)
}
