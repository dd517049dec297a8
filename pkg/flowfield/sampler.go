package flowfield

import (
	"math"

	"github.com/decker502/mossfield/pkg/config"
)

// Field is the pseudo-vector-field that steers every particle.
//
//	angle = sin(nx·Fx + t·Tc)·As + cos(ny·Fy − t·Tc·Tm)·Ac
//
// where nx, ny are the position normalized by the viewport size. Tm < 1 makes
// the cosine term drift slower than the sine term, so the pattern never
// settles into an obvious loop.
type Field struct {
	XFrequency     float64 // Fx
	YFrequency     float64 // Fy
	SinAmplitude   float64 // As
	CosAmplitude   float64 // Ac
	Tempo          float64 // Tc
	SecondaryTempo float64 // Tm
}

// DefaultField returns the field constants with the given tempo.
func DefaultField(tempo float64) Field {
	return Field{
		XFrequency:     config.FieldXFrequency,
		YFrequency:     config.FieldYFrequency,
		SinAmplitude:   config.FieldSinAmplitude,
		CosAmplitude:   config.FieldCosAmplitude,
		Tempo:          tempo,
		SecondaryTempo: config.FieldSecondaryTempoMultiplier,
	}
}

// FieldFor returns the field selected by the settings' tempo.
func FieldFor(s config.FlowFieldSettings) Field {
	return DefaultField(s.TempoValue())
}

// Angle samples the steering angle at (x, y) and time t (seconds).
// It is pure: equal inputs always give equal output. A zero, negative or
// non-finite viewport yields 0 instead of NaN.
func (f Field) Angle(x, y, t, width, height float64) float64 {
	if nonNegative(width) == 0 || nonNegative(height) == 0 {
		return 0
	}

	nx := x / width
	ny := y / height
	angle := math.Sin(nx*f.XFrequency+t*f.Tempo)*f.SinAmplitude +
		math.Cos(ny*f.YFrequency-t*(f.Tempo*f.SecondaryTempo))*f.CosAmplitude

	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		return 0
	}
	return angle
}
