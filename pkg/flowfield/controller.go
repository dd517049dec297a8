package flowfield

import (
	"image/color"
	"log"
	"math"

	"github.com/decker502/mossfield/pkg/config"
)

// State is the controller lifecycle state.
type State int

const (
	// StateUninitialized 尚未调用 Start
	StateUninitialized State = iota
	// StateRunning 正在逐帧绘制；每次 resize 都会重新进入该状态
	StateRunning
	// StateTornDown 终态，不再恢复
	StateTornDown
	// StateInert 宿主缺少绘制表面或上下文，控制器什么也不做
	StateInert
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRunning:
		return "running"
	case StateTornDown:
		return "torn-down"
	case StateInert:
		return "inert"
	}
	return "unknown"
}

// Viewport is the logical viewport the controller last initialized for.
type Viewport struct {
	Width            float64
	Height           float64
	DevicePixelRatio float64
}

// Options are host-level rendering switches. They do not change Settings.
type Options struct {
	// Trails fades the previous frame by Settings.TrailFade instead of
	// clearing it, when the canvas implements Fader.
	Trails bool
}

// Controller owns the particle store, viewport and scheduled frame of one
// flow-field background. All methods must be called from the host's single
// event/frame loop.
type Controller struct {
	host     Host
	settings config.FlowFieldSettings
	field    Field
	stroke   color.NRGBA
	opts     Options

	state        State
	surface      Surface
	canvas       Canvas
	store        *Store
	viewport     Viewport
	frame        FrameHandle
	removeResize func()

	style StrokeStyle
	draw  func(Segment)
}

// NewController creates a controller in StateUninitialized.
func NewController(host Host, settings config.FlowFieldSettings, opts Options) *Controller {
	c := &Controller{
		host:     host,
		settings: settings,
		field:    FieldFor(settings),
		stroke:   settings.StrokeRGB(),
		opts:     opts,
		state:    StateUninitialized,
	}
	c.style = StrokeStyle{Color: c.stroke, Width: settings.LineWidth}
	c.draw = c.strokeSegment
	return c
}

// Start locates the surface, initializes, schedules the first frame and
// registers the resize and page-hide handlers. It returns false and leaves
// the controller inert when the surface or its drawing context is missing.
// Calling Start again has no effect.
func (c *Controller) Start() bool {
	if c.state != StateUninitialized {
		return c.state == StateRunning
	}

	surface := c.host.Surface(SurfaceID)
	if surface == nil {
		c.state = StateInert
		return false
	}
	canvas := surface.Context2D()
	if canvas == nil {
		c.state = StateInert
		return false
	}

	c.surface = surface
	c.canvas = canvas
	c.store = NewStore(c.settings, c.host.Random())
	c.state = StateRunning

	c.Initialize()
	c.frame = c.host.RequestFrame(c.Tick)
	c.removeResize = c.host.OnResize(c.Initialize)
	c.host.OnPageHide(c.Teardown)

	log.Printf("[FlowField] started: %d particles, tempo=%v", c.store.Len(), c.field.Tempo)
	return true
}

// Initialize re-reads the viewport and device pixel ratio, resizes the
// surface, resets the transform and rebuilds the particle store.
// It is the resize handler; outside StateRunning it does nothing.
func (c *Controller) Initialize() {
	if c.state != StateRunning {
		return
	}

	dpr := ResolveDevicePixelRatio(c.host.DevicePixelRatio())
	w, h := c.host.Viewport()
	w, h = nonNegative(w), nonNegative(h)

	c.viewport = Viewport{Width: w, Height: h, DevicePixelRatio: dpr}
	c.surface.Resize(int(math.Floor(w*dpr)), int(math.Floor(h*dpr)), w, h)
	c.canvas.SetTransform(dpr, 0, 0, dpr, 0, 0)
	c.store.Rebuild(w, h)

	log.Printf("[FlowField] initialize: %.0fx%.0f @%.2gx, %d particles", w, h, dpr, c.store.Len())
}

// Tick renders one frame at timestampMs and schedules the next one.
// After Teardown it is a no-op, so a stale callback cannot resurrect the loop.
func (c *Controller) Tick(timestampMs float64) {
	if c.state != StateRunning {
		return
	}

	t := timestampMs * config.TimeMsToSeconds
	vp := c.viewport

	if fader, ok := c.canvas.(Fader); ok && c.opts.Trails {
		fader.FadeRect(0, 0, vp.Width, vp.Height, c.settings.TrailFade)
	} else {
		c.canvas.ClearRect(0, 0, vp.Width, vp.Height)
	}

	c.store.Update(t, c.field, c.draw)

	c.frame = c.host.RequestFrame(c.Tick)
}

func (c *Controller) strokeSegment(seg Segment) {
	c.style.Alpha = seg.Alpha
	c.canvas.StrokeSegment(seg.X0, seg.Y0, seg.X1, seg.Y1, c.style)
}

// Teardown cancels the pending frame and removes the resize handler.
// StateTornDown is terminal.
func (c *Controller) Teardown() {
	if c.state != StateRunning {
		return
	}

	c.host.CancelFrame(c.frame)
	c.frame = 0
	if c.removeResize != nil {
		c.removeResize()
		c.removeResize = nil
	}
	c.state = StateTornDown

	log.Printf("[FlowField] torn down")
}

// SetTrails switches trail persistence on or off.
func (c *Controller) SetTrails(enabled bool) {
	c.opts.Trails = enabled
}

// Trails reports whether trail persistence is on.
func (c *Controller) Trails() bool {
	return c.opts.Trails
}

// State returns the lifecycle state.
func (c *Controller) State() State {
	return c.state
}

// Viewport returns the viewport of the last Initialize.
func (c *Controller) Viewport() Viewport {
	return c.viewport
}

// Store returns the particle store, nil before Start.
func (c *Controller) Store() *Store {
	return c.store
}

// PendingFrame returns the handle of the scheduled frame, 0 when none.
func (c *Controller) PendingFrame() FrameHandle {
	return c.frame
}

// Settings returns the settings the controller was built with.
func (c *Controller) Settings() config.FlowFieldSettings {
	return c.settings
}

// ResolveDevicePixelRatio applies the fallback for unavailable ratios and
// the MaxDevicePixelRatio cap.
func ResolveDevicePixelRatio(ratio float64) float64 {
	if !(ratio > 0) || math.IsInf(ratio, 0) {
		ratio = config.DevicePixelRatioFallback
	}
	return math.Min(config.MaxDevicePixelRatio, ratio)
}
