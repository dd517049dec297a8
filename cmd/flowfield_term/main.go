// Package main runs the flow-field background in a terminal.
//
// Every cell is drawn as a braille character, so one logical pixel maps to
// one braille dot (2x4 dots per cell).
//
// Usage:
//
//	go run ./cmd/flowfield_term [flags]
//
// Controls:
//
//	t                   - toggle trails
//	q / Escape / Ctrl-C - quit
package main

import (
	"flag"
	"fmt"
	"image/color"
	"io"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/decker502/mossfield/pkg/config"
	"github.com/decker502/mossfield/pkg/flowfield"
	"github.com/decker502/mossfield/pkg/render"
)

var (
	presetFlag  = flag.String("preset", config.PresetCalm, "Preset name")
	configFlag  = flag.String("config", "", "Load presets from a YAML file")
	trailsFlag  = flag.Bool("trails", false, "Fade previous frames instead of clearing them")
	seedFlag    = flag.Int64("seed", 0, "Random seed (0 = current time)")
	bgFlag      = flag.String("bg", config.DefaultBackgroundHex, "Background color")
	fpsFlag     = flag.Int("fps", 30, "Frames per second")
	verboseFlag = flag.Bool("verbose", false, "Enable verbose logging to flowfield_term.log")
)

// termHost 把 tcell 屏幕适配为 flowfield.Host
type termHost struct {
	*flowfield.EventLoop

	screen     tcell.Screen
	surface    *render.TerminalSurface
	controller *flowfield.Controller
	rng        *rand.Rand
	background color.NRGBA
	started    time.Time
	cols, rows int
}

func newTermHost(screen tcell.Screen, settings config.FlowFieldSettings, opts flowfield.Options, seed int64, background color.NRGBA) *termHost {
	h := &termHost{
		EventLoop:  flowfield.NewEventLoop(),
		screen:     screen,
		surface:    render.NewTerminalSurface(),
		rng:        rand.New(rand.NewSource(seed)),
		background: background,
		started:    time.Now(),
	}
	h.cols, h.rows = screen.Size()
	h.controller = flowfield.NewController(h, settings, opts)
	return h
}

func (h *termHost) Surface(id string) flowfield.Surface {
	if id != flowfield.SurfaceID {
		return nil
	}
	return h.surface
}

// Viewport 以盲文点为逻辑像素
func (h *termHost) Viewport() (float64, float64) {
	return float64(h.cols * render.DotsPerCellX), float64(h.rows * render.DotsPerCellY)
}

// DevicePixelRatio 终端没有设备像素比，返回 0 由控制器降级为 1
func (h *termHost) DevicePixelRatio() float64 { return 0 }

func (h *termHost) Random() flowfield.Random { return h.rng }

// frame 推进一帧并刷新屏幕
func (h *termHost) frame(timestampMs float64) {
	h.RunFrame(timestampMs)
	h.surface.Canvas().Flush(h.screen, h.background)
	h.screen.Show()
}

// handleEvent 处理 tcell 事件，返回 false 表示退出
func (h *termHost) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			h.FirePageHide()
			return false
		}
		if ev.Key() == tcell.KeyRune && ev.Rune() == 't' {
			h.controller.SetTrails(!h.controller.Trails())
			log.Printf("[Term] Trails=%v", h.controller.Trails())
		}

	case *tcell.EventResize:
		cols, rows := h.screen.Size()
		if cols != h.cols || rows != h.rows {
			h.cols, h.rows = cols, rows
			h.screen.Clear()
			h.EmitResize()
		}
	}
	return true
}

func (h *termHost) run(fps int) {
	ticker := time.NewTicker(time.Second / time.Duration(max(1, fps)))
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !h.handleEvent(ev) {
				return
			}

		case <-ticker.C:
			h.frame(float64(time.Since(h.started).Microseconds()) / 1000)
		}
	}
}

func main() {
	flag.Parse()

	// 终端被屏幕占用，日志只能写文件
	log.SetOutput(io.Discard)
	if *verboseFlag {
		f, err := os.Create("flowfield_term.log")
		if err == nil {
			defer f.Close()
			log.SetOutput(f)
		}
	}

	settings, err := config.LoadSettings(*configFlag, *presetFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load preset: %v\n", err)
		os.Exit(1)
	}
	bg, err := config.ParseColor(*bgFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid background: %v\n", err)
		os.Exit(1)
	}
	seed := *seedFlag
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()
	screen.HideCursor()

	host := newTermHost(screen, settings, flowfield.Options{Trails: *trailsFlag}, seed, bg)
	if !host.controller.Start() {
		screen.Fini()
		fmt.Fprintln(os.Stderr, "Terminal surface unavailable")
		os.Exit(1)
	}

	host.run(*fpsFlag)
}
