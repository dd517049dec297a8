package flowfield

import (
	"testing"

	"github.com/decker502/mossfield/pkg/config"
)

func TestParticleReset_FieldsWithinRanges(t *testing.T) {
	s := config.DefaultSettings()
	rng := newTestRandom()
	const width, height = 800.0, 600.0

	for i := 0; i < 1000; i++ {
		p := Particle{Age: 99}
		p.Reset(rng, width, height, s)

		if p.Age != 0 {
			t.Fatalf("Age = %d after reset, want 0", p.Age)
		}
		if p.X < 0 || p.X >= width || p.Y < 0 || p.Y >= height {
			t.Fatalf("position (%v, %v) outside [0,%v)x[0,%v)", p.X, p.Y, width, height)
		}
		if p.MaxAge < config.ParticleBaseMaxAge || p.MaxAge >= config.ParticleBaseMaxAge+config.ParticleMaxAgeVariance {
			t.Fatalf("MaxAge = %v out of range", p.MaxAge)
		}
		if p.Speed < s.SpeedMin || p.Speed >= s.SpeedMin+s.SpeedRange {
			t.Fatalf("Speed = %v out of range", p.Speed)
		}
		if p.Len < s.LenMin || p.Len >= s.LenMin+s.LenRange {
			t.Fatalf("Len = %v out of range", p.Len)
		}
		if p.Alpha < s.AlphaMin || p.Alpha >= s.AlphaMin+s.AlphaRange {
			t.Fatalf("Alpha = %v out of range", p.Alpha)
		}
		if p.Offset < -0.25 || p.Offset >= 0.25 {
			t.Fatalf("Offset = %v outside [-0.25, 0.25)", p.Offset)
		}
	}
}

// 随机数全为 0 时，各字段仍然不会停留在零值
func TestParticleReset_NoZeroSentinels(t *testing.T) {
	s := config.DefaultSettings()
	var p Particle
	p.Reset(&seqRandom{values: []float64{0}}, 100, 100, s)

	if p.MaxAge <= 0 {
		t.Errorf("MaxAge = %v, want > 0", p.MaxAge)
	}
	if p.Speed != s.SpeedMin {
		t.Errorf("Speed = %v, want %v", p.Speed, s.SpeedMin)
	}
	if p.Len != s.LenMin {
		t.Errorf("Len = %v, want %v", p.Len, s.LenMin)
	}
	if p.Alpha != s.AlphaMin {
		t.Errorf("Alpha = %v, want %v", p.Alpha, s.AlphaMin)
	}
	if p.Offset != -0.25 {
		t.Errorf("Offset = %v, want -0.25", p.Offset)
	}
}

func TestParticleReset_DrawOrder(t *testing.T) {
	s := config.DefaultSettings()
	rng := &seqRandom{values: []float64{0.5, 0.25, 0.5, 0.5, 0.5, 0.5, 1.0}}
	var p Particle
	p.Reset(rng, 200, 400, s)

	if p.X != 100 || p.Y != 100 {
		t.Errorf("position = (%v, %v), want (100, 100)", p.X, p.Y)
	}
	if p.MaxAge != 230 {
		t.Errorf("MaxAge = %v, want 230", p.MaxAge)
	}
	if p.Offset != 0.25 {
		t.Errorf("Offset = %v, want 0.25", p.Offset)
	}
}

func TestParticleReset_ZeroViewport(t *testing.T) {
	var p Particle
	p.Reset(newTestRandom(), 0, -50, config.DefaultSettings())
	if p.X != 0 || p.Y != 0 {
		t.Errorf("position = (%v, %v), want (0, 0)", p.X, p.Y)
	}
}

func TestParticleExpired(t *testing.T) {
	tests := []struct {
		name   string
		age    int
		maxAge float64
		want   bool
	}{
		{"新生", 0, 150, false},
		{"恰好到期", 150, 150, false},
		{"超出一帧", 151, 150, true},
		{"小数寿命", 201, 200.5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Particle{Age: tt.age, MaxAge: tt.maxAge}
			if got := p.Expired(); got != tt.want {
				t.Errorf("Expired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOutOfBounds(t *testing.T) {
	const w, h = 1000.0, 500.0
	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"中心", 500, 250, false},
		{"左边缘内", -20, 10, false},
		{"左边缘外", -20.5, 10, true},
		{"右边缘内", w + 20, 10, false},
		{"右边缘外", w + 21, 10, true},
		{"上边缘外", 10, -21, true},
		{"下边缘外", 10, h + 21, true},
		{"下边缘内", 10, h + 19.9, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OutOfBounds(tt.x, tt.y, w, h); got != tt.want {
				t.Errorf("OutOfBounds(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}
