package flowfield

// EventLoop implements the scheduling and notification half of Host.
// Hosts embed it and drive it from their own frame/event loop:
// RunFrame once per displayed frame, EmitResize when the viewport changes,
// FirePageHide when the surface goes away.
type EventLoop struct {
	frames   *FrameScheduler
	resize   Listeners
	pageHide OnceSignal
}

// NewEventLoop creates an idle event loop.
func NewEventLoop() *EventLoop {
	return &EventLoop{frames: NewFrameScheduler()}
}

func (l *EventLoop) RequestFrame(cb FrameCallback) FrameHandle {
	return l.frames.Request(cb)
}

func (l *EventLoop) CancelFrame(h FrameHandle) {
	l.frames.Cancel(h)
}

func (l *EventLoop) OnResize(fn func()) (remove func()) {
	return l.resize.Add(fn)
}

func (l *EventLoop) OnPageHide(fn func()) {
	l.pageHide.Add(fn)
}

// RunFrame dispatches the pending frame callbacks.
func (l *EventLoop) RunFrame(timestampMs float64) int {
	return l.frames.RunFrame(timestampMs)
}

// EmitResize notifies resize listeners.
func (l *EventLoop) EmitResize() {
	l.resize.Emit()
}

// FirePageHide fires the page-hide handlers; later calls do nothing.
func (l *EventLoop) FirePageHide() {
	l.pageHide.Fire()
}

// PendingFrames returns the number of callbacks queued for the next frame.
func (l *EventLoop) PendingFrames() int {
	return l.frames.Pending()
}

// ResizeListeners returns the number of registered resize handlers.
func (l *EventLoop) ResizeListeners() int {
	return l.resize.Len()
}

// Hidden reports whether the page-hide signal has fired.
func (l *EventLoop) Hidden() bool {
	return l.pageHide.Fired()
}
