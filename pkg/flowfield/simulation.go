package flowfield

import "math"

// Segment is the stroke a particle contributes to one frame, in logical pixels.
type Segment struct {
	X0, Y0 float64
	X1, Y1 float64
	Alpha  float64 // particle.Alpha × fgOpacity × AgeAlpha
}

// AgeAlpha is the linear fade-out applied as a particle ages:
// max(0, 1 − age/maxAge). It is 0 exactly when age >= maxAge.
func AgeAlpha(age int, maxAge float64) float64 {
	if !(maxAge > 0) {
		return 0
	}
	return math.Max(0, 1-float64(age)/maxAge)
}

// Update advances every particle by one frame.
//
// For each particle, in order:
//  1. sample the field at (x, y, t) and scale by the particle offset
//  2. derive the velocity from the angle and speed
//  3. emit the segment from (x, y) to (x + vx·len, y + vy·len) through draw
//  4. advance position and age
//  5. reset the particle when it expired or left the viewport by more
//     than the reset margin
//
// draw may be nil. t is in seconds.
func (s *Store) Update(t float64, field Field, draw func(Segment)) {
	w, h := s.width, s.height
	fgOpacity := s.settings.FgOpacity

	for i := range s.particles {
		p := &s.particles[i]

		angle := field.Angle(p.X, p.Y, t, w, h) * p.Offset
		vx := math.Cos(angle) * p.Speed
		vy := math.Sin(angle) * p.Speed

		if draw != nil {
			draw(Segment{
				X0:    p.X,
				Y0:    p.Y,
				X1:    p.X + vx*p.Len,
				Y1:    p.Y + vy*p.Len,
				Alpha: p.Alpha * fgOpacity * AgeAlpha(p.Age, p.MaxAge),
			})
		}

		p.X += vx
		p.Y += vy
		p.Age++

		if p.Expired() || OutOfBounds(p.X, p.Y, w, h) {
			p.Reset(s.rng, w, h, s.settings)
		}
	}
}
