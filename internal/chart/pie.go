package chart

import "math"

// Slice is one wedge of a pie chart. Angles are radians; the first
// slice starts at 12 o'clock (-π/2) and sweeps clockwise in proportion
// to its value.
type Slice struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Start float64 `json:"start"`
	Sweep float64 `json:"sweep"`
}

// Pie computes the slice geometry for the given labeled values.
// Zero-value entries are skipped entirely; a zero total yields no
// slices.
func Pie(labels []string, values []float64) []Slice {
	var total float64
	for _, v := range values {
		if v > 0 {
			total += v
		}
	}
	if total <= 0 {
		return nil
	}

	var slices []Slice
	angle := -math.Pi / 2
	for i, v := range values {
		if v <= 0 {
			continue
		}
		sweep := v / total * 2 * math.Pi
		slices = append(slices, Slice{
			Label: labels[i],
			Value: v,
			Start: angle,
			Sweep: sweep,
		})
		angle += sweep
	}
	return slices
}
