package main

import (
	"image/color"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/decker502/mossfield/pkg/config"
	"github.com/decker502/mossfield/pkg/flowfield"
	"github.com/decker502/mossfield/pkg/render"
)

var testBackground = color.NRGBA{R: 0x0e, G: 0x14, B: 0x10, A: 255}

func newTestHost(t *testing.T, cols, rows int) (*termHost, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen.Init: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(cols, rows)

	h := newTermHost(screen, config.DefaultSettings(), flowfield.Options{}, 3, testBackground)
	if !h.controller.Start() {
		t.Fatal("controller did not start")
	}
	return h, screen
}

// brailleCells 统计屏幕上的非空盲文单元
func brailleCells(screen tcell.SimulationScreen, cols, rows int) int {
	n := 0
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			r, _, _, _ := screen.GetContent(x, y)
			if r > 0x2800 && r <= 0x28ff {
				n++
			}
		}
	}
	return n
}

func TestTermHost_Viewport(t *testing.T) {
	h, _ := newTestHost(t, 40, 12)

	w, ht := h.Viewport()
	if w != 80 || ht != 48 {
		t.Errorf("Viewport() = %vx%v, want 80x48", w, ht)
	}

	cols, rows := h.surface.Canvas().Size()
	if cols != 40 || rows != 12 {
		t.Errorf("canvas size = %dx%d, want 40x12", cols, rows)
	}
	if vp := h.controller.Viewport(); vp.DevicePixelRatio != 1 {
		t.Errorf("DevicePixelRatio = %v, want 1", vp.DevicePixelRatio)
	}
}

func TestTermHost_FrameDrawsBraille(t *testing.T) {
	h, screen := newTestHost(t, 40, 12)

	for i := 0; i < 5; i++ {
		h.frame(float64(i) * 33)
	}

	if brailleCells(screen, 40, 12) == 0 {
		t.Error("no braille cells drawn after 5 frames")
	}
}

func TestTermHost_Resize(t *testing.T) {
	h, screen := newTestHost(t, 40, 12)

	screen.SetSize(60, 20)
	if !h.handleEvent(tcell.NewEventResize(60, 20)) {
		t.Fatal("resize event ended the loop")
	}

	// 120x80 点的面积低于密度阈值，数量保持下限
	if h.controller.Store().Len() != config.DefaultSettings().MinCount {
		t.Errorf("particles = %d, want %d", h.controller.Store().Len(), config.DefaultSettings().MinCount)
	}
	vp := h.controller.Viewport()
	if vp.Width != 60*render.DotsPerCellX || vp.Height != 20*render.DotsPerCellY {
		t.Errorf("viewport = %vx%v, want %dx%d", vp.Width, vp.Height, 60*render.DotsPerCellX, 20*render.DotsPerCellY)
	}
}

func TestTermHost_QuitKeys(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
	}{
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)},
		{"ctrl-c", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)},
		{"q", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHost(t, 20, 6)
			if h.handleEvent(tt.ev) {
				t.Error("handleEvent() = true, want false")
			}
			if h.controller.State() != flowfield.StateTornDown {
				t.Errorf("State() = %s, want torn-down", h.controller.State())
			}
			if h.PendingFrames() != 0 {
				t.Errorf("PendingFrames() = %d, want 0", h.PendingFrames())
			}
		})
	}
}

func TestTermHost_ToggleTrails(t *testing.T) {
	h, _ := newTestHost(t, 20, 6)

	if !h.handleEvent(tcell.NewEventKey(tcell.KeyRune, 't', tcell.ModNone)) {
		t.Fatal("handleEvent(t) ended the loop")
	}
	if !h.controller.Trails() {
		t.Error("Trails() = false after pressing t")
	}
}
