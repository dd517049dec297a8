package flowfield

import "image/color"

// SurfaceID identifies the drawing surface the controller renders into.
const SurfaceID = "portfolio-moss-canvas"

// StrokeStyle describes how a segment is stroked.
type StrokeStyle struct {
	Color color.NRGBA // RGB only, Color.A is ignored
	Alpha float64     // 0..1
	Width float64     // logical pixels
}

// Canvas is the 2D immediate-mode drawing context of a Surface.
// Coordinates pass through the affine transform set by SetTransform.
type Canvas interface {
	ClearRect(x, y, w, h float64)
	SetTransform(a, b, c, d, e, f float64)
	StrokeSegment(x0, y0, x1, y1 float64, style StrokeStyle)
}

// Fader is implemented by canvases that can fade existing content instead of
// clearing it. Only used when trails are enabled.
type Fader interface {
	FadeRect(x, y, w, h, amount float64)
}

// Surface is the drawing target owned by the host.
type Surface interface {
	// Context2D returns the drawing context, or nil when none is available.
	Context2D() Canvas
	// Resize sets the backing store size (physical pixels) and the display
	// size (logical pixels). Existing content and transform are discarded.
	Resize(backingWidth, backingHeight int, displayWidth, displayHeight float64)
}

// FrameHandle identifies a scheduled frame. The zero value is never issued.
type FrameHandle uint64

// FrameCallback receives a monotonic timestamp in milliseconds.
type FrameCallback func(timestampMs float64)

// Host bundles everything the controller needs from its environment.
type Host interface {
	// Surface looks up a surface by id; nil when absent.
	Surface(id string) Surface
	// Viewport returns the logical viewport size.
	Viewport() (width, height float64)
	// DevicePixelRatio returns 0 when the host cannot tell.
	DevicePixelRatio() float64
	Random() Random
	RequestFrame(cb FrameCallback) FrameHandle
	CancelFrame(h FrameHandle)
	// OnResize registers fn and returns a func that unregisters it.
	OnResize(fn func()) (remove func())
	// OnPageHide registers fn to run at most once, when the surface goes away.
	OnPageHide(fn func())
}
