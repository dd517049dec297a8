package flowfield

import "testing"

func TestFrameScheduler_RunsRequestedCallbacks(t *testing.T) {
	s := NewFrameScheduler()

	var got []float64
	h1 := s.Request(func(ts float64) { got = append(got, ts) })
	h2 := s.Request(func(ts float64) { got = append(got, ts+1) })

	if h1 == 0 || h2 == 0 || h1 == h2 {
		t.Fatalf("handles = %d, %d; want distinct non-zero", h1, h2)
	}
	if s.Pending() != 2 {
		t.Fatalf("Pending() = %d, want 2", s.Pending())
	}

	if ran := s.RunFrame(16); ran != 2 {
		t.Errorf("RunFrame() ran %d, want 2", ran)
	}
	if len(got) != 2 || got[0] != 16 || got[1] != 17 {
		t.Errorf("callbacks received %v, want [16 17]", got)
	}
	if s.Pending() != 0 {
		t.Errorf("Pending() after run = %d, want 0", s.Pending())
	}
}

// 帧内再次请求的回调推迟到下一帧
func TestFrameScheduler_RequestDuringFrameWaits(t *testing.T) {
	s := NewFrameScheduler()

	calls := 0
	var tick FrameCallback
	tick = func(float64) {
		calls++
		s.Request(tick)
	}
	s.Request(tick)

	s.RunFrame(0)
	if calls != 1 {
		t.Fatalf("calls after first frame = %d, want 1", calls)
	}
	s.RunFrame(16)
	if calls != 2 {
		t.Fatalf("calls after second frame = %d, want 2", calls)
	}
	if s.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", s.Pending())
	}
}

func TestFrameScheduler_Cancel(t *testing.T) {
	s := NewFrameScheduler()

	ran := false
	h := s.Request(func(float64) { ran = true })
	s.Cancel(h)
	s.RunFrame(0)

	if ran {
		t.Error("cancelled callback ran")
	}

	// 未知句柄和零句柄被忽略
	s.Cancel(0)
	s.Cancel(12345)
}

func TestFrameScheduler_CancelWithinSameFrame(t *testing.T) {
	s := NewFrameScheduler()

	secondRan := false
	var second FrameHandle
	s.Request(func(float64) { s.Cancel(second) })
	second = s.Request(func(float64) { secondRan = true })

	if ran := s.RunFrame(0); ran != 1 {
		t.Errorf("RunFrame() ran %d, want 1", ran)
	}
	if secondRan {
		t.Error("callback cancelled earlier in the same frame still ran")
	}
}

func TestFrameScheduler_NilCallback(t *testing.T) {
	s := NewFrameScheduler()
	if h := s.Request(nil); h != 0 {
		t.Errorf("Request(nil) = %d, want 0", h)
	}
	if s.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", s.Pending())
	}
}
