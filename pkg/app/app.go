// Package app 提供流场背景的桌面宿主
//
// 该包把 flowfield.Controller 接到 Ebitengine 的游戏循环上，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/decker502/mossfield/pkg/config"
	"github.com/decker502/mossfield/pkg/embedded"
	"github.com/decker502/mossfield/pkg/flowfield"
	"github.com/decker502/mossfield/pkg/prefs"
	"github.com/decker502/mossfield/pkg/render/ebitensurface"
)

// 默认窗口尺寸（逻辑像素）
const (
	DefaultWindowWidth  = 1280
	DefaultWindowHeight = 720
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ConfigPath 预设文件路径，为空则使用嵌入的 data/flowfield.yaml
	ConfigPath string
	// Preset 预设名称，为空则使用已保存的偏好
	Preset string
	// Trails 启用拖尾模式（与已保存的偏好取或）
	Trails bool
	// Seed 随机种子，0 表示使用当前时间
	Seed int64
	// ShowStats 显示统计浮层
	ShowStats bool
}

// App 是流场背景的桌面宿主，实现 ebiten.Game 和 flowfield.Host 接口
type App struct {
	*flowfield.EventLoop

	surface    *ebitensurface.Surface
	controller *flowfield.Controller
	prefs      *prefs.Manager
	rng        *rand.Rand
	background color.NRGBA

	viewport  viewportTracker // 当前逻辑视口
	started   time.Time
	showStats bool
	verbose   bool
}

// NewApp 创建并初始化流场应用
//
// 调用此函数前，应先调用 embedded.Init() 初始化嵌入数据；
// 未初始化时使用内置预设。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	prefsManager := prefs.Open(prefs.AppName)

	settings, opts, err := resolveSettings(cfg, prefsManager)
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	background, err := config.ParseColor(config.DefaultBackgroundHex)
	if err != nil {
		return nil, fmt.Errorf("背景色解析失败: %w", err)
	}

	a := &App{
		EventLoop:  flowfield.NewEventLoop(),
		surface:    ebitensurface.New(),
		prefs:      prefsManager,
		rng:        rand.New(rand.NewSource(seed)),
		background: background,
		started:    time.Now(),
		showStats:  cfg.ShowStats || prefsManager.Get().ShowStats,
		verbose:    cfg.Verbose,
	}
	a.controller = flowfield.NewController(a, settings, opts)

	log.Printf("[App] Preset=%s tempo=%s trails=%v seed=%d", prefsManager.Get().Preset, settings.Tempo, opts.Trails, seed)
	return a, nil
}

// resolveSettings 合并命令行参数与已保存偏好，选出流场配置
//
// 命令行显式指定的预设不存在时返回错误；偏好中保存的预设不存在时降级为 calm。
func resolveSettings(cfg Config, pm *prefs.Manager) (config.FlowFieldSettings, flowfield.Options, error) {
	presets := loadPresets(cfg.ConfigPath)

	name := cfg.Preset
	if name == "" {
		name = pm.Get().Preset
	}

	settings, err := config.SelectPreset(presets, name)
	if err != nil {
		if cfg.Preset != "" {
			return config.FlowFieldSettings{}, flowfield.Options{}, fmt.Errorf("预设选择失败: %w", err)
		}
		log.Printf("[App] Warning: saved preset unavailable: %v (using %s)", err, config.PresetCalm)
		name = config.PresetCalm
		settings, err = config.SelectPreset(presets, name)
		if err != nil {
			settings = config.DefaultSettings()
		}
	}
	pm.SetPreset(name)

	trails := cfg.Trails || pm.Get().Trails
	return settings, flowfield.Options{Trails: trails}, nil
}

// loadPresets 按优先级加载预设：外部文件 > 嵌入文件 > 内置预设
func loadPresets(path string) map[string]config.FlowFieldSettings {
	if path != "" {
		presets, err := config.LoadPresets(path)
		if err == nil {
			log.Printf("[Config] Loaded %d presets from %s", len(presets), path)
			return presets
		}
		log.Printf("[Config] Warning: %v (falling back)", err)
	}

	if embedded.IsInitialized() {
		data, err := embedded.ReadFile(embedded.PresetsPath)
		if err == nil {
			presets, err := config.ParsePresets(data)
			if err == nil {
				return presets
			}
		}
		log.Printf("[Config] Warning: embedded presets unavailable: %v", err)
	}

	return config.BuiltinPresets()
}

// Surface 实现 flowfield.Host
func (a *App) Surface(id string) flowfield.Surface {
	if id != flowfield.SurfaceID {
		return nil
	}
	return a.surface
}

// Viewport 实现 flowfield.Host，返回逻辑窗口尺寸
func (a *App) Viewport() (float64, float64) {
	return float64(a.viewport.width), float64(a.viewport.height)
}

// DevicePixelRatio 实现 flowfield.Host
// 返回 0 表示显示器信息不可用，由控制器降级为 1
func (a *App) DevicePixelRatio() float64 {
	if m := ebiten.Monitor(); m != nil {
		return m.DeviceScaleFactor()
	}
	return 0
}

// Random 实现 flowfield.Host
func (a *App) Random() flowfield.Random {
	return a.rng
}

// Update 处理输入
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	if ebiten.IsWindowBeingClosed() || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		a.shutdown()
		return ebiten.Termination
	}

	// F 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		fullscreen := !ebiten.IsFullscreen()
		ebiten.SetFullscreen(fullscreen)
		a.prefs.SetFullscreen(fullscreen)
		log.Printf("[App] Fullscreen=%v", fullscreen)
	}

	// T 切换拖尾
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		trails := !a.controller.Trails()
		a.controller.SetTrails(trails)
		a.prefs.SetTrails(trails)
		log.Printf("[App] Trails=%v", trails)
	}

	// D 切换统计浮层
	if inpututil.IsKeyJustPressed(ebiten.KeyD) {
		a.showStats = !a.showStats
		a.prefs.SetShowStats(a.showStats)
	}

	return nil
}

// shutdown 触发页面隐藏并保存偏好
func (a *App) shutdown() {
	a.FirePageHide()
	if err := a.prefs.Save(); err != nil {
		log.Printf("[App] Warning: %v", err)
	}
}

// Draw 推进一帧并把离屏表面合成到屏幕上
func (a *App) Draw(screen *ebiten.Image) {
	a.RunFrame(a.elapsedMs())

	screen.Fill(a.background)
	if img := a.surface.Image(); img != nil {
		screen.DrawImage(img, nil)
	}

	if a.showStats {
		vp := a.controller.Viewport()
		ebitenutil.DebugPrint(screen, fmt.Sprintf(
			"FPS: %.1f\nParticles: %d\nViewport: %.0fx%.0f @%.2g\nTrails: %v\nState: %s",
			ebiten.ActualFPS(), a.controller.Store().Len(),
			vp.Width, vp.Height, vp.DevicePixelRatio,
			a.controller.Trails(), a.controller.State()))
	}
}

// elapsedMs 返回自启动以来的毫秒数，作为帧时间戳
func (a *App) elapsedMs() float64 {
	return float64(time.Since(a.started).Microseconds()) / 1000
}

// Layout 跟踪窗口尺寸
//
// 返回后备缓冲尺寸，使屏幕图像与物理像素一一对应。
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.layout(outsideWidth, outsideHeight, flowfield.ResolveDevicePixelRatio(a.DevicePixelRatio()))
}

// layout 是 Layout 中不依赖显示器的部分，dpr 已经过 ResolveDevicePixelRatio
func (a *App) layout(outsideWidth, outsideHeight int, dpr float64) (int, int) {
	switch a.viewport.update(outsideWidth, outsideHeight, dpr, a.controller.State()) {
	case layoutStart:
		a.controller.Start()
	case layoutResize:
		a.EmitResize()
	}
	return backingSize(outsideWidth, dpr), backingSize(outsideHeight, dpr)
}

// layoutAction Layout 对控制器采取的动作
type layoutAction int

const (
	layoutNone   layoutAction = iota
	layoutStart                // 首次 Layout：启动控制器
	layoutResize               // 尺寸或设备像素比变化：触发 resize
)

// viewportTracker 记录最近一次 Layout 的逻辑视口
type viewportTracker struct {
	width, height int
	dpr           float64
}

// update 记录新视口并决定动作
// 控制器未启动时总是启动；运行中只在变化时 resize；惰性或已销毁时不做任何事
func (v *viewportTracker) update(width, height int, dpr float64, state flowfield.State) layoutAction {
	changed := width != v.width || height != v.height || dpr != v.dpr
	v.width, v.height, v.dpr = width, height, dpr

	switch state {
	case flowfield.StateUninitialized:
		return layoutStart
	case flowfield.StateRunning:
		if changed {
			return layoutResize
		}
	}
	return layoutNone
}

// backingSize 与 Controller.Initialize 使用相同的取整规则，最小为 1
func backingSize(logical int, dpr float64) int {
	return max(1, int(math.Floor(float64(logical)*dpr)))
}

// Controller 返回流场控制器
func (a *App) Controller() *flowfield.Controller {
	return a.controller
}

// Preferences 返回偏好管理器
func (a *App) Preferences() *prefs.Manager {
	return a.prefs
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
