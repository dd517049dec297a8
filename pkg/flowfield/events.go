package flowfield

// Listeners is a registry of parameterless event handlers, used by hosts for
// resize notifications.
type Listeners struct {
	entries []*listener
}

type listener struct {
	fn      func()
	removed bool
}

// Add registers fn and returns a func that unregisters it. Calling the
// returned func more than once is harmless.
func (l *Listeners) Add(fn func()) (remove func()) {
	entry := &listener{fn: fn}
	l.entries = append(l.entries, entry)
	return func() {
		if entry.removed {
			return
		}
		entry.removed = true
		for i, e := range l.entries {
			if e == entry {
				l.entries = append(l.entries[:i], l.entries[i+1:]...)
				break
			}
		}
	}
}

// Emit calls every registered handler in registration order. A handler
// removed during Emit is not called afterwards.
func (l *Listeners) Emit() {
	snapshot := append([]*listener(nil), l.entries...)
	for _, e := range snapshot {
		if !e.removed && e.fn != nil {
			e.fn()
		}
	}
}

// Len returns the number of registered handlers.
func (l *Listeners) Len() int {
	return len(l.entries)
}

// OnceSignal fires its handlers at most once. Handlers added after the
// signal fired are dropped.
type OnceSignal struct {
	fired    bool
	handlers []func()
}

// Add registers fn.
func (s *OnceSignal) Add(fn func()) {
	if s.fired || fn == nil {
		return
	}
	s.handlers = append(s.handlers, fn)
}

// Fire runs the handlers the first time it is called.
func (s *OnceSignal) Fire() {
	if s.fired {
		return
	}
	s.fired = true
	handlers := s.handlers
	s.handlers = nil
	for _, fn := range handlers {
		fn()
	}
}

// Fired reports whether Fire has been called.
func (s *OnceSignal) Fired() bool {
	return s.fired
}
