// Package ebitensurface 在 *ebiten.Image 上实现 flowfield.Surface，供桌面端和移动端使用
//
// 与 render 包分开，使无窗口的截图工具和终端宿主不链接 Ebitengine。
package ebitensurface

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/decker502/mossfield/pkg/flowfield"
	"github.com/decker502/mossfield/pkg/render"
)

// Surface 持有一张离屏图像作为绘制后备缓冲
// 每帧由宿主在 Draw 中把它合成到屏幕上，拖尾模式因此可以跨帧保留内容
type Surface struct {
	image    *ebiten.Image
	canvas   *Canvas
	displayW float64
	displayH float64
}

// New 创建尚未分配后备缓冲的表面，首次 Resize 时分配
func New() *Surface {
	return &Surface{canvas: &Canvas{m: render.Identity}}
}

// Context2D 实现 flowfield.Surface
func (s *Surface) Context2D() flowfield.Canvas {
	return s.canvas
}

// Resize 重新分配后备缓冲并重置变换
func (s *Surface) Resize(backingWidth, backingHeight int, displayWidth, displayHeight float64) {
	// ebiten.NewImage 不接受零尺寸
	backingWidth = max(1, backingWidth)
	backingHeight = max(1, backingHeight)

	if s.image != nil {
		s.image.Deallocate()
	}
	s.image = ebiten.NewImage(backingWidth, backingHeight)
	s.displayW = displayWidth
	s.displayH = displayHeight

	s.canvas.target = s.image
	s.canvas.m = render.Identity
}

// Image 返回后备缓冲，Resize 之前为 nil
func (s *Surface) Image() *ebiten.Image {
	return s.image
}

// BackingSize 返回后备缓冲尺寸（物理像素）
func (s *Surface) BackingSize() (int, int) {
	if s.image == nil {
		return 0, 0
	}
	b := s.image.Bounds()
	return b.Dx(), b.Dy()
}

// DisplaySize 返回显示尺寸（逻辑像素）
func (s *Surface) DisplaySize() (float64, float64) {
	return s.displayW, s.displayH
}

// Canvas 在 *ebiten.Image 上实现 flowfield.Canvas
type Canvas struct {
	target *ebiten.Image
	m      render.Affine
	fade   *ebiten.Image
}

// ClearRect 清除矩形区域（变换后）
func (c *Canvas) ClearRect(x, y, w, h float64) {
	r, ok := c.deviceRect(x, y, w, h)
	if !ok {
		return
	}
	if r == c.target.Bounds() {
		c.target.Clear()
		return
	}
	c.target.SubImage(r).(*ebiten.Image).Clear()
}

// SetTransform 设置仿射变换
func (c *Canvas) SetTransform(a, b, cc, d, e, f float64) {
	c.m = render.Affine{A: a, B: b, C: cc, D: d, E: e, F: f}
}

// StrokeSegment 使用抗锯齿描边一条线段
func (c *Canvas) StrokeSegment(x0, y0, x1, y1 float64, style flowfield.StrokeStyle) {
	if c.target == nil {
		return
	}
	a := render.Alpha8(style.Alpha)
	if a == 0 {
		return
	}

	dx0, dy0 := c.m.Apply(x0, y0)
	dx1, dy1 := c.m.Apply(x1, y1)
	width := style.Width * c.m.LineScale()
	clr := color.NRGBA{R: style.Color.R, G: style.Color.G, B: style.Color.B, A: a}

	vector.StrokeLine(c.target, float32(dx0), float32(dy0), float32(dx1), float32(dy1), float32(width), clr, true)
}

// FadeRect 以 amount 比例淡出已有内容（dst *= 1 - amount）
func (c *Canvas) FadeRect(x, y, w, h, amount float64) {
	r, ok := c.deviceRect(x, y, w, h)
	if !ok || !(amount > 0) {
		return
	}
	if amount >= 1 {
		c.target.SubImage(r).(*ebiten.Image).Clear()
		return
	}
	if c.fade == nil {
		c.fade = ebiten.NewImage(1, 1)
		c.fade.Fill(color.White)
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(r.Dx()), float64(r.Dy()))
	op.GeoM.Translate(float64(r.Min.X), float64(r.Min.Y))
	op.ColorScale.ScaleAlpha(float32(amount))
	op.Blend = ebiten.BlendDestinationOut
	c.target.DrawImage(c.fade, op)
}

// deviceRect 将逻辑矩形变换到设备空间并裁剪到目标边界
func (c *Canvas) deviceRect(x, y, w, h float64) (image.Rectangle, bool) {
	if c.target == nil {
		return image.Rectangle{}, false
	}
	x0, y0, x1, y1 := c.m.ApplyRect(x, y, w, h)
	r := image.Rect(
		int(math.Floor(x0)), int(math.Floor(y0)),
		int(math.Ceil(x1)), int(math.Ceil(y1)),
	).Intersect(c.target.Bounds())
	return r, !r.Empty()
}
