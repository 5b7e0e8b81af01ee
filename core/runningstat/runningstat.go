// Package runningstat computes min, max, mean, and variance of a stream of inputs.
// Algorithm comes from https://www.johndcook.com/blog/standard_deviation/ .
package runningstat

import (
	"encoding/json"
	"math"

	binutils "github.com/jfoster/binary-utilities"
)

// RunningStat collects statistics.
// The zero value is ready to use and samples every input.
type RunningStat struct {
	i    uint64
	mask uint64
	n    uint64
	min  float64
	max  float64
	m1   float64
	m2   float64
}

// Init clears existing data and sets the sample interval.
// sampleInterval is adjusted to nearest power of two and truncated between 1 and 2^30.
func (s *RunningStat) Init(sampleInterval int) {
	interval := uint64(binutils.NearPowerOfTwo(int64(sampleInterval)))
	switch {
	case interval < 1:
		interval = 1
	case interval > 1<<30:
		interval = 1 << 30
	}
	*s = RunningStat{mask: interval - 1}
}

// Push adds an input.
// Only one in every sampleInterval inputs is collected into statistics.
func (s *RunningStat) Push(x float64) {
	i := s.i
	s.i++
	if i&s.mask != 0 {
		return
	}

	s.n++
	if s.n == 1 {
		s.min, s.max, s.m1, s.m2 = x, x, x, 0
		return
	}

	s.min, s.max = math.Min(s.min, x), math.Max(s.max, x)
	delta := x - s.m1
	s.m1 += delta / float64(s.n)
	s.m2 += delta * (x - s.m1)
}

// Combine merges another RunningStat into this one.
func (s *RunningStat) Combine(o RunningStat) {
	switch {
	case o.n == 0:
		s.i += o.i
		return
	case s.n == 0:
		i, mask := s.i, s.mask
		*s = o
		s.i, s.mask = s.i+i, mask
		return
	}

	s.i += o.i
	n := s.n + o.n
	delta := o.m1 - s.m1
	s.m2 += o.m2 + delta*delta*float64(s.n)*float64(o.n)/float64(n)
	s.m1 += delta * float64(o.n) / float64(n)
	s.min, s.max = math.Min(s.min, o.min), math.Max(s.max, o.max)
	s.n = n
}

// Read returns current statistics as Snapshot.
func (s RunningStat) Read() (o Snapshot) {
	o.Total, o.Count = s.i, s.n
	o.Min, o.Max, o.Mean, o.Variance = math.NaN(), math.NaN(), math.NaN(), math.NaN()
	if s.n > 0 {
		o.Min, o.Max, o.Mean = s.min, s.max, s.m1
	}
	if s.n > 1 {
		o.Variance = s.m2 / float64(s.n-1)
	}
	return o
}

// Snapshot contains RunningStat output.
// Unavailable values are NaN.
type Snapshot struct {
	// Total is the number of inputs.
	Total uint64
	// Count is the number of sampled inputs.
	Count    uint64
	Min      float64
	Max      float64
	Mean     float64
	Variance float64
}

// Stdev returns sample standard deviation.
func (o Snapshot) Stdev() float64 {
	return math.Sqrt(o.Variance)
}

// Scale multiplies every number by a ratio.
func (o Snapshot) Scale(ratio float64) Snapshot {
	o.Min *= ratio
	o.Max *= ratio
	o.Mean *= ratio
	o.Variance *= ratio * ratio
	return o
}

// MarshalJSON implements json.Marshaler.
// NaN values are omitted.
func (o Snapshot) MarshalJSON() ([]byte, error) {
	m := map[string]any{"total": o.Total, "count": o.Count}
	addUnlessNaN := func(key string, value float64) {
		if !math.IsNaN(value) {
			m[key] = value
		}
	}
	addUnlessNaN("min", o.Min)
	addUnlessNaN("max", o.Max)
	addUnlessNaN("mean", o.Mean)
	addUnlessNaN("stdev", o.Stdev())
	return json.Marshal(m)
}
