package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"github.com/decker502/mossfield/pkg/flowfield"
)

// RasterSurface 在内存中的 *image.RGBA 上绘制，不依赖窗口或 GPU
type RasterSurface struct {
	canvas   *RasterCanvas
	displayW float64
	displayH float64
}

// NewRasterSurface 创建软件光栅化表面
func NewRasterSurface() *RasterSurface {
	return &RasterSurface{canvas: &RasterCanvas{m: Identity}}
}

// Context2D 实现 flowfield.Surface
func (s *RasterSurface) Context2D() flowfield.Canvas {
	return s.canvas
}

// Resize 重新分配像素缓冲并重置变换
func (s *RasterSurface) Resize(backingWidth, backingHeight int, displayWidth, displayHeight float64) {
	s.canvas.dst = image.NewRGBA(image.Rect(0, 0, max(0, backingWidth), max(0, backingHeight)))
	s.canvas.m = Identity
	s.displayW = displayWidth
	s.displayH = displayHeight
}

// Image 返回像素缓冲（预乘 alpha），Resize 之前为 nil
func (s *RasterSurface) Image() *image.RGBA {
	return s.canvas.dst
}

// DisplaySize 返回显示尺寸（逻辑像素）
func (s *RasterSurface) DisplaySize() (float64, float64) {
	return s.displayW, s.displayH
}

// Composite 将当前内容合成到纯色背景上并返回新图像
func (s *RasterSurface) Composite(background color.Color) *image.RGBA {
	src := s.canvas.dst
	if src == nil {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	out := image.NewRGBA(src.Bounds())
	draw.Draw(out, out.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), src, src.Bounds().Min, draw.Over)
	return out
}

// RasterCanvas 使用 golang.org/x/image/vector 光栅化线段
// 每条线段被展开为宽度为 lineWidth 的四边形，只在其包围盒内光栅化
type RasterCanvas struct {
	dst *image.RGBA
	m   Affine
	z   vector.Rasterizer
}

// ClearRect 将矩形区域置为全透明
func (c *RasterCanvas) ClearRect(x, y, w, h float64) {
	r, ok := c.deviceRect(x, y, w, h)
	if !ok {
		return
	}
	draw.Draw(c.dst, r, image.Transparent, image.Point{}, draw.Src)
}

// SetTransform 设置仿射变换
func (c *RasterCanvas) SetTransform(a, b, cc, d, e, f float64) {
	c.m = Affine{A: a, B: b, C: cc, D: d, E: e, F: f}
}

// StrokeSegment 以平头端点描边线段
func (c *RasterCanvas) StrokeSegment(x0, y0, x1, y1 float64, style flowfield.StrokeStyle) {
	if c.dst == nil {
		return
	}
	a := Alpha8(style.Alpha)
	if a == 0 {
		return
	}

	ax, ay := c.m.Apply(x0, y0)
	bx, by := c.m.Apply(x1, y1)
	hw := style.Width * c.m.LineScale() / 2
	if !(hw > 0) {
		return
	}

	// 法向量；零长度线段退化为边长为线宽的小方块
	dx, dy := bx-ax, by-ay
	length := math.Hypot(dx, dy)
	var nx, ny, tx, ty float64
	if length > 0 {
		nx, ny = -dy/length*hw, dx/length*hw
	} else {
		nx, ny = 0, hw
		tx, ty = hw, 0
	}

	quad := [4][2]float64{
		{ax + nx - tx, ay + ny - ty},
		{bx + nx + tx, by + ny + ty},
		{bx - nx + tx, by - ny + ty},
		{ax - nx - tx, ay - ny - ty},
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range quad {
		minX, maxX = math.Min(minX, p[0]), math.Max(maxX, p[0])
		minY, maxY = math.Min(minY, p[1]), math.Max(maxY, p[1])
	}
	bbox := image.Rect(
		int(math.Floor(minX)), int(math.Floor(minY)),
		int(math.Ceil(maxX)), int(math.Ceil(maxY)),
	)
	clipped := bbox.Intersect(c.dst.Bounds())
	if clipped.Empty() {
		return
	}

	// 光栅化器只覆盖裁剪后的包围盒，坐标以其左上角为原点；
	// 超出部分由光栅化器按列钳制累积
	ox, oy := float32(clipped.Min.X), float32(clipped.Min.Y)
	c.z.Reset(clipped.Dx(), clipped.Dy())
	c.z.DrawOp = draw.Over
	c.z.MoveTo(float32(quad[0][0])-ox, float32(quad[0][1])-oy)
	for _, p := range quad[1:] {
		c.z.LineTo(float32(p[0])-ox, float32(p[1])-oy)
	}
	c.z.ClosePath()

	src := image.NewUniform(color.NRGBA{R: style.Color.R, G: style.Color.G, B: style.Color.B, A: a})
	c.z.Draw(c.dst, clipped, src, image.Point{})
}

// FadeRect 按比例降低矩形区域内所有通道（预乘 alpha 下等价于降低不透明度）
func (c *RasterCanvas) FadeRect(x, y, w, h, amount float64) {
	r, ok := c.deviceRect(x, y, w, h)
	if !ok || !(amount > 0) {
		return
	}
	keep := 1 - math.Min(1, amount)
	for py := r.Min.Y; py < r.Max.Y; py++ {
		row := c.dst.Pix[c.dst.PixOffset(r.Min.X, py):c.dst.PixOffset(r.Max.X, py)]
		for i := range row {
			row[i] = uint8(float64(row[i]) * keep)
		}
	}
}

func (c *RasterCanvas) deviceRect(x, y, w, h float64) (image.Rectangle, bool) {
	if c.dst == nil {
		return image.Rectangle{}, false
	}
	x0, y0, x1, y1 := c.m.ApplyRect(x, y, w, h)
	r := image.Rect(
		int(math.Floor(x0)), int(math.Floor(y0)),
		int(math.Ceil(x1)), int(math.Ceil(y1)),
	).Intersect(c.dst.Bounds())
	return r, !r.Empty()
}
