package flowfield

// FrameScheduler is a host-side frame queue with requestAnimationFrame
// semantics: callbacks requested before RunFrame run in that frame, callbacks
// requested while a frame is running wait for the next one, and cancelled
// handles never run.
//
// Not safe for concurrent use; hosts drive it from their single frame loop.
type FrameScheduler struct {
	next    FrameHandle
	queue   []*scheduledFrame
	running []*scheduledFrame
}

type scheduledFrame struct {
	handle    FrameHandle
	cb        FrameCallback
	cancelled bool
}

// NewFrameScheduler creates an empty scheduler.
func NewFrameScheduler() *FrameScheduler {
	return &FrameScheduler{next: 1}
}

// Request queues cb for the next frame. A nil cb returns the zero handle.
func (s *FrameScheduler) Request(cb FrameCallback) FrameHandle {
	if cb == nil {
		return 0
	}
	h := s.next
	s.next++
	s.queue = append(s.queue, &scheduledFrame{handle: h, cb: cb})
	return h
}

// Cancel invalidates h. Unknown or already-run handles are ignored.
func (s *FrameScheduler) Cancel(h FrameHandle) {
	if h == 0 {
		return
	}
	for i, f := range s.queue {
		if f.handle == h {
			s.queue = append(s.queue[:i], s.queue[i+1:]...)
			return
		}
	}
	// 当前帧内尚未执行的回调
	for _, f := range s.running {
		if f.handle == h {
			f.cancelled = true
			return
		}
	}
}

// RunFrame invokes every callback queued before the call with timestampMs
// and returns how many ran.
func (s *FrameScheduler) RunFrame(timestampMs float64) int {
	s.running = s.queue
	s.queue = nil

	ran := 0
	for _, f := range s.running {
		if f.cancelled {
			continue
		}
		f.cancelled = true
		f.cb(timestampMs)
		ran++
	}
	s.running = nil
	return ran
}

// Pending returns the number of callbacks waiting for the next frame.
func (s *FrameScheduler) Pending() int {
	return len(s.queue)
}
