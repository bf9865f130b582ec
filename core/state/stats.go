package state

import "gonum.org/v1/gonum/floats"

// Max returns the largest value of a numeric profile.
func Max[T float64 | int](p *Profile[T]) (float64, bool) {
	vals := toFloats(p)
	if len(vals) == 0 {
		return 0, false
	}
	return floats.Max(vals), true
}

// Min returns the smallest value of a numeric profile.
func Min[T float64 | int](p *Profile[T]) (float64, bool) {
	vals := toFloats(p)
	if len(vals) == 0 {
		return 0, false
	}
	return floats.Min(vals), true
}

func toFloats[T float64 | int](p *Profile[T]) []float64 {
	out := make([]float64, len(p.samples))
	for i, s := range p.samples {
		out[i] = float64(s.Value)
	}
	return out
}
