package utils

import "math"

// Lerp 线性插值
// 在 a 和 b 之间根据 t 插值
// t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Spread 在 [min, min+span) 区间内按 t ∈ [0, 1) 取值
// 配置中的范围都以"下限 + 浮动量"的形式给出
func Spread(min, span, t float64) float64 {
	return Lerp(min, min+span, t)
}

// Clamp 将 v 限制在 [lo, hi] 范围内
// NaN 视为 lo
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 将 v 限制在 [0, 1] 范围内
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}
