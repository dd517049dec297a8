// Package main 是流场背景的桌面入口
//
// Usage:
//
//	go run . [flags]
//
// Flags:
//
//	--verbose          启用详细日志
//	--config <path>    从文件加载预设（默认使用嵌入的 data/flowfield.yaml）
//	--preset <name>    选择预设（calm / fast）
//	--trails           启用拖尾模式
//	--seed <n>         随机种子，0 表示使用当前时间
//	--stats            显示统计浮层
//
// Controls:
//
//	F       - 切换全屏
//	T       - 切换拖尾模式
//	D       - 切换统计浮层
//	Escape  - 退出
package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/mossfield/pkg/app"
	"github.com/decker502/mossfield/pkg/embedded"
)

var (
	verboseFlag = flag.Bool("verbose", false, "Enable verbose logging (default off)")
	configFlag  = flag.String("config", "", "Load presets from a YAML file instead of the embedded one")
	presetFlag  = flag.String("preset", "", "Preset name (calm, fast)")
	trailsFlag  = flag.Bool("trails", false, "Fade previous frames instead of clearing them")
	seedFlag    = flag.Int64("seed", 0, "Random seed (0 = current time)")
	statsFlag   = flag.Bool("stats", false, "Show the stats overlay")
)

func main() {
	flag.Parse()

	// 初始化嵌入数据（dataFS 在 embed.go 中声明）
	embedded.Init(dataFS)

	gameApp, err := app.NewApp(app.Config{
		Verbose:    *verboseFlag,
		ConfigPath: *configFlag,
		Preset:     *presetFlag,
		Trails:     *trailsFlag,
		Seed:       *seedFlag,
		ShowStats:  *statsFlag,
	})
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}

	ebiten.SetWindowSize(app.DefaultWindowWidth, app.DefaultWindowHeight)
	ebiten.SetWindowTitle("Mossfield")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetFullscreen(gameApp.Preferences().Get().Fullscreen)

	if err := ebiten.RunGame(gameApp); err != nil {
		log.Fatal(err)
	}
}
