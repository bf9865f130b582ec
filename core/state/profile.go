package state

import (
	"fmt"
	"sort"
	"strconv"
)

// Value enumerates the scalar types a profile may hold.
type Value interface {
	float64 | int | bool
}

// Sample is one timestamped value.
type Sample[T Value] struct {
	Time  float64 `json:"time"`
	Value T       `json:"value"`
}

// Profile is an ordered, append-only sequence of samples.
type Profile[T Value] struct {
	samples []Sample[T]
}

// NewProfile builds a profile from samples that must already be strictly
// increasing in time.
func NewProfile[T Value](samples ...Sample[T]) (*Profile[T], error) {
	p := &Profile[T]{}
	for _, s := range samples {
		if err := p.Add(s.Time, s.Value); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Add appends a sample. Writing at or before the latest sample is rejected.
func (p *Profile[T]) Add(t float64, v T) error {
	if n := len(p.samples); n > 0 && t <= p.samples[n-1].Time {
		return fmt.Errorf("%w: write at %.2f, latest sample at %.2f", ErrCausality, t, p.samples[n-1].Time)
	}
	p.samples = append(p.samples, Sample[T]{Time: t, Value: v})
	return nil
}

// Last returns the most recent sample.
func (p *Profile[T]) Last() (Sample[T], bool) {
	if len(p.samples) == 0 {
		return Sample[T]{}, false
	}
	return p.samples[len(p.samples)-1], true
}

// ValueAt returns the value of the most recent sample at or before t.
func (p *Profile[T]) ValueAt(t float64) (T, bool) {
	i := sort.Search(len(p.samples), func(i int) bool { return p.samples[i].Time > t })
	if i == 0 {
		var zero T
		return zero, false
	}
	return p.samples[i-1].Value, true
}

// Len returns the number of samples.
func (p *Profile[T]) Len() int { return len(p.samples) }

// Values returns the sample values in time order.
func (p *Profile[T]) Values() []T {
	out := make([]T, len(p.samples))
	for i, s := range p.samples {
		out[i] = s.Value
	}
	return out
}

func (p *Profile[T]) lastTime() (float64, bool) {
	s, ok := p.Last()
	return s.Time, ok
}

func (p *Profile[T]) kind() byte {
	var zero T
	switch any(zero).(type) {
	case float64:
		return 'D'
	case int:
		return 'I'
	default:
		return 'B'
	}
}

func (p *Profile[T]) size() int { return len(p.samples) }

func (p *Profile[T]) parts(name string) []string {
	out := make([]string, len(p.samples))
	prefix := string(p.kind()) + ":" + name + ":"
	for i, s := range p.samples {
		out[i] = prefix + FormatFixed(s.Time) + ":" + formatValue(s.Value)
	}
	return out
}

func (p *Profile[T]) points() []Point {
	out := make([]Point, len(p.samples))
	for i, s := range p.samples {
		out[i] = Point{Time: s.Time, Value: formatValue(s.Value)}
	}
	return out
}

// FormatFixed renders a float with two decimals, the canonical form used in
// hashes and audit files.
func FormatFixed(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

func formatValue[T Value](v T) string {
	switch x := any(v).(type) {
	case float64:
		return FormatFixed(x)
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	}
	return ""
}
