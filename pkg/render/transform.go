package render

import "math"

// Affine 是 2D 仿射变换 [A C E; B D F]，与 canvas setTransform 参数顺序一致
type Affine struct {
	A, B, C, D, E, F float64
}

// Identity 单位变换
var Identity = Affine{A: 1, D: 1}

// Apply 变换一个点
func (m Affine) Apply(x, y float64) (float64, float64) {
	return m.A*x + m.C*y + m.E, m.B*x + m.D*y + m.F
}

// LineScale 返回线宽缩放系数（面积缩放的平方根）
func (m Affine) LineScale() float64 {
	return math.Sqrt(math.Abs(m.A*m.D - m.B*m.C))
}

// ApplyRect 变换矩形并返回设备空间的轴对齐包围盒
func (m Affine) ApplyRect(x, y, w, h float64) (x0, y0, x1, y1 float64) {
	ax, ay := m.Apply(x, y)
	bx, by := m.Apply(x+w, y)
	cx, cy := m.Apply(x, y+h)
	dx, dy := m.Apply(x+w, y+h)
	x0 = math.Min(math.Min(ax, bx), math.Min(cx, dx))
	y0 = math.Min(math.Min(ay, by), math.Min(cy, dy))
	x1 = math.Max(math.Max(ax, bx), math.Max(cx, dx))
	y1 = math.Max(math.Max(ay, by), math.Max(cy, dy))
	return
}

// Alpha8 将 [0, 1] 透明度转换为 8 位
func Alpha8(alpha float64) uint8 {
	if !(alpha > 0) {
		return 0
	}
	if alpha >= 1 {
		return 255
	}
	return uint8(math.Round(alpha * 255))
}
