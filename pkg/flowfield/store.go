package flowfield

import (
	"math"

	"github.com/decker502/mossfield/pkg/config"
)

// ParticleCount returns max(minCount, floor(width*height/density)).
func ParticleCount(width, height float64, s config.FlowFieldSettings) int {
	n := 0
	area := nonNegative(width) * nonNegative(height)
	if area > 0 && s.Density > 0 {
		n = int(math.Floor(area / s.Density))
	}
	return max(s.MinCount, n)
}

// Store holds the fixed-size particle array for the current viewport.
// It is rebuilt from scratch whenever the viewport changes.
type Store struct {
	settings  config.FlowFieldSettings
	rng       Random
	particles []Particle
	width     float64
	height    float64
}

// NewStore creates an empty store; call Rebuild before the first Update.
func NewStore(settings config.FlowFieldSettings, rng Random) *Store {
	return &Store{
		settings: settings,
		rng:      rng,
	}
}

// Rebuild discards every particle and allocates a freshly reset array sized
// for a width×height viewport.
func (s *Store) Rebuild(width, height float64) {
	width, height = nonNegative(width), nonNegative(height)

	particles := make([]Particle, ParticleCount(width, height, s.settings))
	for i := range particles {
		particles[i].Reset(s.rng, width, height, s.settings)
	}

	s.particles = particles
	s.width = width
	s.height = height
}

// Len returns the number of particles. A nil store has none.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.particles)
}

// Particles returns the live particle slice. Callers may mutate elements
// in place but must not append or reslice.
func (s *Store) Particles() []Particle {
	return s.particles
}

// Bounds returns the viewport the store was last built for.
func (s *Store) Bounds() (width, height float64) {
	return s.width, s.height
}
