// Package main renders the flow-field background headlessly and writes a PNG.
//
// Usage:
//
//	go run ./cmd/flowfield_snapshot [flags]
//
// Flags:
//
//	--width, --height   logical viewport (default 960x540)
//	--dpr <ratio>       device pixel ratio, capped at 2 (default 1)
//	--frames <n>        frames to simulate at 60Hz (default 240)
//	--preset <name>     preset name (calm / fast)
//	--config <path>     load presets from a YAML file
//	--trails            fade previous frames instead of clearing
//	--seed <n>          random seed (default 1)
//	--bg <hex>          background color (default #0e1410)
//	--out <path>        output file (default flowfield.png)
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log"
	"math/rand"
	"os"

	"github.com/decker502/mossfield/pkg/config"
	"github.com/decker502/mossfield/pkg/flowfield"
	"github.com/decker502/mossfield/pkg/render"
)

// frameIntervalMs 60Hz 下的帧间隔
const frameIntervalMs = 1000.0 / 60.0

var (
	widthFlag   = flag.Int("width", 960, "Logical viewport width")
	heightFlag  = flag.Int("height", 540, "Logical viewport height")
	dprFlag     = flag.Float64("dpr", 1, "Device pixel ratio")
	framesFlag  = flag.Int("frames", 240, "Number of frames to simulate")
	presetFlag  = flag.String("preset", config.PresetCalm, "Preset name")
	configFlag  = flag.String("config", "", "Load presets from a YAML file")
	trailsFlag  = flag.Bool("trails", false, "Fade previous frames instead of clearing them")
	seedFlag    = flag.Int64("seed", 1, "Random seed")
	bgFlag      = flag.String("bg", config.DefaultBackgroundHex, "Background color")
	outFlag     = flag.String("out", "flowfield.png", "Output PNG path")
	verboseFlag = flag.Bool("verbose", false, "Enable verbose logging (default off)")
)

// snapshotHost 是固定视口的无窗口宿主
type snapshotHost struct {
	*flowfield.EventLoop

	surface       *render.RasterSurface
	width, height float64
	dpr           float64
	rng           *rand.Rand
}

func newSnapshotHost(width, height int, dpr float64, seed int64) *snapshotHost {
	return &snapshotHost{
		EventLoop: flowfield.NewEventLoop(),
		surface:   render.NewRasterSurface(),
		width:     float64(width),
		height:    float64(height),
		dpr:       dpr,
		rng:       rand.New(rand.NewSource(seed)),
	}
}

func (h *snapshotHost) Surface(id string) flowfield.Surface {
	if id != flowfield.SurfaceID {
		return nil
	}
	return h.surface
}

func (h *snapshotHost) Viewport() (float64, float64) { return h.width, h.height }
func (h *snapshotHost) DevicePixelRatio() float64    { return h.dpr }
func (h *snapshotHost) Random() flowfield.Random     { return h.rng }

// snapshotOptions 渲染参数
type snapshotOptions struct {
	Width, Height int
	DPR           float64
	Frames        int
	Settings      config.FlowFieldSettings
	Trails        bool
	Seed          int64
	Background    color.Color
}

// renderSnapshot 运行指定帧数并返回合成后的图像
func renderSnapshot(opts snapshotOptions) (*image.RGBA, *flowfield.Controller, error) {
	host := newSnapshotHost(opts.Width, opts.Height, opts.DPR, opts.Seed)
	controller := flowfield.NewController(host, opts.Settings, flowfield.Options{Trails: opts.Trails})
	if !controller.Start() {
		return nil, controller, fmt.Errorf("controller did not start (state %s)", controller.State())
	}

	for i := 0; i < opts.Frames; i++ {
		host.RunFrame(float64(i) * frameIntervalMs)
	}
	host.FirePageHide()

	return host.surface.Composite(opts.Background), controller, nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return f.Close()
}

func main() {
	flag.Parse()
	if !*verboseFlag {
		log.SetOutput(io.Discard)
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

	img, controller, err := renderSnapshot(snapshotOptions{
		Width:      *widthFlag,
		Height:     *heightFlag,
		DPR:        *dprFlag,
		Frames:     *framesFlag,
		Settings:   settings,
		Trails:     *trailsFlag,
		Seed:       *seedFlag,
		Background: bg,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Render failed: %v\n", err)
		os.Exit(1)
	}

	if err := writePNG(*outFlag, img); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	log.Printf("[Snapshot] %d particles, %d frames -> %s (%dx%d)",
		controller.Store().Len(), *framesFlag, *outFlag, img.Bounds().Dx(), img.Bounds().Dy())
	fmt.Println(*outFlag)
}
