package paint

import (
	"math"
	"testing"
)

func TestModulatorSmoothing(t *testing.T) {
	o := Options{Size: 10, Opacity: 1}
	b := brushState{size: 10, alpha: 1}
	m := &modulator{Dynamic: Dynamic{Channel: ChannelPressure, Target: TargetSize, Min: 0, Max: 1, AvgOf: 2}}

	m.reset(&o, &b)
	m.start(&b, 0, 0, Sample{Pressure: 0.5})
	if b.size != 5 || m.delta != 0 {
		t.Fatalf("first start: size = %v, delta = %v, want 5, 0", b.size, m.delta)
	}

	m.start(&b, 0, 0, Sample{Pressure: 1})
	if m.value != 7.5 || m.delta != 2.5 {
		t.Fatalf("second start: value = %v, delta = %v, want 7.5, 2.5", m.value, m.delta)
	}
	m.step(&b, 5)
	if b.size != 5.5 {
		t.Errorf("after one of five steps size = %v, want 5.5", b.size)
	}
	m.stop(&b)
	if b.size != 7.5 {
		t.Errorf("after stop size = %v, want 7.5", b.size)
	}
	m.restore(&b)
	if b.size != 10 {
		t.Errorf("after restore size = %v, want 10", b.size)
	}
}

func TestModulatorChannels(t *testing.T) {
	tests := []struct {
		name   string
		d      Dynamic
		dx, dy float64
		s      Sample
		want   float64
	}{
		{"velocity", Dynamic{Channel: ChannelVelocity, Target: TargetOpacity, Max: 1}, 10, 0, Sample{}, 0.5},
		{"velocity clamped", Dynamic{Channel: ChannelVelocity, Target: TargetOpacity, Max: 1}, 100, 0, Sample{}, 1},
		{"direction", Dynamic{Channel: ChannelDirection, Target: TargetOpacity, Max: 1}, 1, 0, Sample{}, 0.5},
		{"pressure range", Dynamic{Channel: ChannelPressure, Target: TargetOpacity, Min: 0.5, Max: 1}, 0, 0, Sample{Pressure: 0}, 0.5},
		{"rotation", Dynamic{Channel: ChannelRotation, Target: TargetRotation, Max: 1}, 0, 0, Sample{Rotation: 0.25}, math.Pi / 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := Options{Size: 1, Opacity: 1}
			var b brushState
			m := &modulator{Dynamic: tt.d}
			m.reset(&o, &b)
			m.start(&b, tt.dx, tt.dy, tt.s)
			if got := *b.field(tt.d.Target); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("value = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestModulatorRandomInRange(t *testing.T) {
	o := Options{Size: 8, Opacity: 1}
	var b brushState
	m := &modulator{Dynamic: Dynamic{Channel: ChannelRandom, Target: TargetSize, Min: 0.25, Max: 0.5, AvgOf: 1}}
	m.reset(&o, &b)
	for range 100 {
		m.start(&b, 0, 0, Sample{})
		m.stop(&b)
		if b.size < 2 || b.size > 4 {
			t.Fatalf("size = %v, want within [2, 4]", b.size)
		}
	}
}

func TestPressureDrivesDab(t *testing.T) {
	a := newTestArea(t, 20, 20, 1)
	a.SetToolOptions(WithSize(8))
	a.PointerDown("pen", Sample{X: 10, Y: 10, Pressure: 0.5, Pointer: PointerPen})
	a.PointerUp("pen", Sample{X: 10, Y: 10, Pointer: PointerPen})

	// half pressure halves the opacity: black at 50% over white
	c := rgbaAt(a.Layer(0), 10, 10)
	if c.R < 100 || c.R > 155 {
		t.Errorf("centre = %v, want mid grey", c)
	}
	// and the diameter: 4px, so 3px from the centre stays white
	if c := rgbaAt(a.Layer(0), 13, 10); c != white {
		t.Errorf("pixel outside reduced dab = %v, want white", c)
	}
}
