package paint

import (
	"math"
	"math/rand/v2"
)

// Channel is the input a Dynamic reads.
type Channel uint8

const (
	ChannelVelocity  Channel = iota // leg length / 20
	ChannelDirection                // leg angle mapped to [0, 1]
	ChannelPressure
	ChannelRotation
	ChannelRandom
)

// Target is the brush parameter a Dynamic drives.
type Target uint8

const (
	TargetSize     Target = iota // limited by Options.Size
	TargetOpacity                // limited by Options.Opacity
	TargetRotation               // limited by 2π
)

// Dynamic maps a smoothed input channel onto a brush parameter: the moving
// average of the last AvgOf inputs, clamped to [0, 1], is scaled into
// [Min, Max] and multiplied by the target's limit.
type Dynamic struct {
	Channel  Channel
	Target   Target
	Min, Max float64
	AvgOf    int
}

// DefaultDynamics returns the pressure-driven opacity and size set used by
// new tool configurations.
func DefaultDynamics() []Dynamic {
	return []Dynamic{
		{Channel: ChannelPressure, Target: TargetOpacity, Min: 0, Max: 1, AvgOf: 10},
		{Channel: ChannelPressure, Target: TargetSize, Min: 0, Max: 1, AvgOf: 10},
	}
}

// brushState is the per-stroke set of parameters dynamics modulate.
type brushState struct {
	size     float64
	alpha    float64
	rotation float64
}

func (b *brushState) field(t Target) *float64 {
	switch t {
	case TargetSize:
		return &b.size
	case TargetOpacity:
		return &b.alpha
	default:
		return &b.rotation
	}
}

// modulator is the running state of one Dynamic during a stroke.
//
// Per stroke the pen calls reset once, then for every leg start, step once
// per stamp, and stop; restore runs when the stroke ends.
type modulator struct {
	Dynamic

	window []float64
	count  int
	avg    float64

	limit float64
	saved float64
	value float64
	delta float64
	first bool
}

func newModulators(ds []Dynamic) []*modulator {
	ms := make([]*modulator, len(ds))
	for i, d := range ds {
		ms[i] = &modulator{Dynamic: d}
	}
	return ms
}

func (m *modulator) smooth(v float64) float64 {
	n := max(m.AvgOf, 1)
	if m.count == 0 {
		m.window = make([]float64, n)
		for i := range m.window {
			m.window[i] = v
		}
		m.avg = v
	} else {
		i := m.count % n
		m.avg += (v - m.window[i]) / float64(n)
		m.window[i] = v
	}
	m.count++
	return m.avg
}

func (m *modulator) reset(o *Options, b *brushState) {
	m.count = 0
	m.first = true
	switch m.Target {
	case TargetSize:
		m.limit = o.Size
	case TargetOpacity:
		m.limit = o.Opacity
	default:
		m.limit = 2 * math.Pi
	}
	m.saved = *b.field(m.Target)
}

func (m *modulator) start(b *brushState, dx, dy float64, s Sample) {
	var v float64
	switch m.Channel {
	case ChannelDirection:
		v = math.Atan2(dy, dx)/(2*math.Pi) + 0.5
	case ChannelPressure:
		v = s.Pressure
	case ChannelRotation:
		v = s.Rotation
	case ChannelRandom:
		v = rand.Float64()
	default:
		v = math.Hypot(dx, dy) / 20
	}
	v = min(max(m.smooth(v), 0), 1)
	m.value = (m.Min + (m.Max-m.Min)*v) * m.limit

	if m.first {
		m.stop(b)
		m.delta = 0
		m.first = false
		return
	}
	m.delta = m.value - *b.field(m.Target)
}

func (m *modulator) step(b *brushState, total int) {
	*b.field(m.Target) += m.delta / float64(total)
}

func (m *modulator) stop(b *brushState) {
	*b.field(m.Target) = m.value
}

func (m *modulator) restore(b *brushState) {
	*b.field(m.Target) = m.saved
}
