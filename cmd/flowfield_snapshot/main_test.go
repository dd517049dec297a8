package main

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/decker502/mossfield/pkg/config"
	"github.com/decker502/mossfield/pkg/flowfield"
)

var testBackground = color.NRGBA{R: 0x0e, G: 0x14, B: 0x10, A: 255}

func testOptions() snapshotOptions {
	return snapshotOptions{
		Width:      200,
		Height:     120,
		DPR:        1,
		Frames:     30,
		Settings:   config.DefaultSettings(),
		Seed:       7,
		Background: testBackground,
	}
}

// countDrawn 统计与背景色不同的像素
func countDrawn(img *image.RGBA) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if color.NRGBAModel.Convert(img.At(x, y)) != testBackground {
				n++
			}
		}
	}
	return n
}

func TestRenderSnapshot(t *testing.T) {
	img, controller, err := renderSnapshot(testOptions())
	if err != nil {
		t.Fatalf("renderSnapshot() error: %v", err)
	}

	if got := img.Bounds().Size(); got != image.Pt(200, 120) {
		t.Errorf("image size = %v, want 200x120", got)
	}
	if controller.State() != flowfield.StateTornDown {
		t.Errorf("State() = %s, want torn-down", controller.State())
	}
	if controller.Store().Len() != 140 {
		t.Errorf("particles = %d, want 140", controller.Store().Len())
	}
	if countDrawn(img) == 0 {
		t.Error("snapshot contains no strokes")
	}
}

func TestRenderSnapshot_DevicePixelRatio(t *testing.T) {
	tests := []struct {
		dpr  float64
		want image.Point
	}{
		{1, image.Pt(200, 120)},
		{2, image.Pt(400, 240)},
		{3, image.Pt(400, 240)}, // 上限为 2
		{0, image.Pt(200, 120)}, // 不可用时降级为 1
	}

	for _, tt := range tests {
		opts := testOptions()
		opts.DPR = tt.dpr
		opts.Frames = 1
		img, _, err := renderSnapshot(opts)
		if err != nil {
			t.Fatalf("renderSnapshot(dpr=%v) error: %v", tt.dpr, err)
		}
		if got := img.Bounds().Size(); got != tt.want {
			t.Errorf("dpr=%v: image size = %v, want %v", tt.dpr, got, tt.want)
		}
	}
}

func TestRenderSnapshot_Deterministic(t *testing.T) {
	a, _, err := renderSnapshot(testOptions())
	if err != nil {
		t.Fatalf("renderSnapshot() error: %v", err)
	}
	b, _, err := renderSnapshot(testOptions())
	if err != nil {
		t.Fatalf("renderSnapshot() error: %v", err)
	}
	if string(a.Pix) != string(b.Pix) {
		t.Error("same seed produced different snapshots")
	}
}

func TestWritePNG(t *testing.T) {
	img, _, err := renderSnapshot(testOptions())
	if err != nil {
		t.Fatalf("renderSnapshot() error: %v", err)
	}
	path := filepath.Join(t.TempDir(), "out.png")
	if err := writePNG(path, img); err != nil {
		t.Fatalf("writePNG() error: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Size() == 0 {
		t.Error("PNG file is empty")
	}
}
