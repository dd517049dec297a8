package flowfield

import (
	"math"

	"github.com/decker502/mossfield/pkg/config"
	"github.com/decker502/mossfield/pkg/utils"
)

// Random is the host-provided pseudo-random source.
// Float64 must return values in [0, 1); *rand.Rand satisfies it.
type Random interface {
	Float64() float64
}

// Particle is a single self-resetting stroke in the flow field.
//
// Particles are owned exclusively by a Store. They are never added or removed
// outside of Store.Rebuild: Reset is the only way a particle dies and is born.
type Particle struct {
	X, Y   float64 // 逻辑像素坐标
	Age    int     // 自上次重置以来的帧数
	MaxAge float64 // 寿命上限（帧），重置后恒 > 0
	Speed  float64 // 每帧步长
	Len    float64 // 绘制线段的长度倍数
	Alpha  float64 // 基础透明度
	Offset float64 // 角度系数 ∈ [-0.25, 0.25)，可缩放并翻转采样角度
}

// Reset repositions the particle inside the viewport and redraws every
// randomized field from the configured ranges.
func (p *Particle) Reset(rng Random, width, height float64, s config.FlowFieldSettings) {
	p.X = rng.Float64() * nonNegative(width)
	p.Y = rng.Float64() * nonNegative(height)
	p.Age = 0
	p.MaxAge = config.ParticleBaseMaxAge + rng.Float64()*config.ParticleMaxAgeVariance
	p.Speed = utils.Spread(s.SpeedMin, s.SpeedRange, rng.Float64())
	p.Len = utils.Spread(s.LenMin, s.LenRange, rng.Float64())
	p.Alpha = utils.Spread(s.AlphaMin, s.AlphaRange, rng.Float64())
	p.Offset = (rng.Float64() - 0.5) * config.ParticleOffsetSpread
}

// Expired reports whether the particle has outlived its MaxAge.
func (p *Particle) Expired() bool {
	return float64(p.Age) > p.MaxAge
}

// OutOfBounds reports whether (x, y) lies more than ParticleResetMargin
// outside any edge of a width×height viewport.
func OutOfBounds(x, y, width, height float64) bool {
	const m = config.ParticleResetMargin
	return x < -m || x > width+m || y < -m || y > height+m
}

// nonNegative maps negative, NaN and infinite extents to 0.
func nonNegative(v float64) float64 {
	if !(v > 0) || math.IsInf(v, 1) {
		return 0
	}
	return v
}
