package flowfield

import (
	"math/rand"
)

// seqRandom 按顺序循环返回预设值
type seqRandom struct {
	values []float64
	i      int
}

func (r *seqRandom) Float64() float64 {
	v := r.values[r.i%len(r.values)]
	r.i++
	return v
}

func newTestRandom() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

// canvasOp 记录一次绘制调用
type canvasOp struct {
	kind  string // "clear", "transform", "stroke", "fade"
	args  []float64
	style StrokeStyle
}

// recordingCanvas 记录所有绘制调用，用于断言绘制顺序与参数
type recordingCanvas struct {
	ops []canvasOp
}

func (c *recordingCanvas) ClearRect(x, y, w, h float64) {
	c.ops = append(c.ops, canvasOp{kind: "clear", args: []float64{x, y, w, h}})
}

func (c *recordingCanvas) SetTransform(a, b, cc, d, e, f float64) {
	c.ops = append(c.ops, canvasOp{kind: "transform", args: []float64{a, b, cc, d, e, f}})
}

func (c *recordingCanvas) StrokeSegment(x0, y0, x1, y1 float64, style StrokeStyle) {
	c.ops = append(c.ops, canvasOp{kind: "stroke", args: []float64{x0, y0, x1, y1}, style: style})
}

func (c *recordingCanvas) count(kind string) int {
	n := 0
	for _, op := range c.ops {
		if op.kind == kind {
			n++
		}
	}
	return n
}

func (c *recordingCanvas) reset() {
	c.ops = nil
}

// fadingCanvas 额外实现 Fader
type fadingCanvas struct {
	recordingCanvas
}

func (c *fadingCanvas) FadeRect(x, y, w, h, amount float64) {
	c.ops = append(c.ops, canvasOp{kind: "fade", args: []float64{x, y, w, h, amount}})
}

// fakeSurface 记录 Resize 参数
type fakeSurface struct {
	canvas        Canvas
	backingW      int
	backingH      int
	displayW      float64
	displayH      float64
	resizeCalls   int
	contextCalled bool
}

func (s *fakeSurface) Context2D() Canvas {
	s.contextCalled = true
	return s.canvas
}

func (s *fakeSurface) Resize(backingWidth, backingHeight int, displayWidth, displayHeight float64) {
	s.backingW, s.backingH = backingWidth, backingHeight
	s.displayW, s.displayH = displayWidth, displayHeight
	s.resizeCalls++
}

// fakeHost 基于 EventLoop 的测试宿主
type fakeHost struct {
	*EventLoop
	surfaces map[string]Surface
	width    float64
	height   float64
	dpr      float64
	rng      Random
}

func newFakeHost(width, height, dpr float64, surface Surface) *fakeHost {
	h := &fakeHost{
		EventLoop: NewEventLoop(),
		surfaces:  map[string]Surface{},
		width:     width,
		height:    height,
		dpr:       dpr,
		rng:       newTestRandom(),
	}
	if surface != nil {
		h.surfaces[SurfaceID] = surface
	}
	return h
}

func (h *fakeHost) Surface(id string) Surface {
	s, ok := h.surfaces[id]
	if !ok {
		return nil
	}
	return s
}

func (h *fakeHost) Viewport() (float64, float64) { return h.width, h.height }
func (h *fakeHost) DevicePixelRatio() float64    { return h.dpr }
func (h *fakeHost) Random() Random               { return h.rng }

func (h *fakeHost) setViewport(width, height float64) {
	h.width, h.height = width, height
	h.EmitResize()
}
