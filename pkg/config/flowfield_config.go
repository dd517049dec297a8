package config

import (
	"fmt"
	"image/color"
	"math"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// ========== 粒子生命周期常量 ==========

// ParticleBaseMaxAge 粒子最大寿命的基础值（帧）
const ParticleBaseMaxAge = 120.0

// ParticleMaxAgeVariance 粒子最大寿命的随机浮动范围（帧）
// 实际寿命 = ParticleBaseMaxAge + rand * ParticleMaxAgeVariance
const ParticleMaxAgeVariance = 220.0

// ParticleResetMargin 粒子越出视口多少像素后被回收
const ParticleResetMargin = 20.0

// ParticleOffsetSpread 粒子 offset 的取值宽度，offset ∈ [-Spread/2, Spread/2]
const ParticleOffsetSpread = 0.5

// ========== 视口常量 ==========

// MaxDevicePixelRatio 设备像素比上限（限制高密度屏幕上的渲染开销）
const MaxDevicePixelRatio = 2.0

// DevicePixelRatioFallback 宿主无法提供设备像素比时使用的值
const DevicePixelRatioFallback = 1.0

// TimeMsToSeconds 帧时间戳（毫秒）到秒的换算系数
const TimeMsToSeconds = 0.001

// ========== 流场常量 ==========

const (
	FieldXFrequency               = 6.2
	FieldYFrequency               = 7.1
	FieldSinAmplitude             = 1.3
	FieldCosAmplitude             = 1.1
	FieldTempoCalm                = 0.07
	FieldTempoLanding             = 0.12
	FieldSecondaryTempoMultiplier = 0.83
)

// 流场节奏名称
const (
	TempoCalm    = "calm"
	TempoLanding = "landing"
)

// DefaultStrokeColor 线段描边颜色（不含透明度）
var DefaultStrokeColor = color.NRGBA{R: 171, G: 208, B: 173, A: 255}

// DefaultStrokeColorHex 与 DefaultStrokeColor 等价的十六进制表示
const DefaultStrokeColorHex = "#abd0ad"

// DefaultBackgroundHex 宿主在画布下方铺设的背景色
// 画布本身保持透明，背景由宿主负责
const DefaultBackgroundHex = "#0e1410"

// ParseColor 解析十六进制颜色，失败时返回错误
func ParseColor(hex string) (color.NRGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// 预设名称
const (
	PresetCalm = "calm"
	PresetFast = "fast"
)

// FlowFieldSettings 流场动画的数值配置
// 进程生命周期内只读，由 Controller 在构造时复制一份
type FlowFieldSettings struct {
	MinCount   int     `yaml:"minCount"`   // 粒子数量下限
	Density    float64 `yaml:"density"`    // 每个粒子占用的视口面积（像素²）
	SpeedMin   float64 `yaml:"speedMin"`   // 每帧步长下限
	SpeedRange float64 `yaml:"speedRange"` // 每帧步长浮动范围
	LenMin     float64 `yaml:"lenMin"`     // 线段长度倍数下限
	LenRange   float64 `yaml:"lenRange"`   // 线段长度倍数浮动范围
	AlphaMin   float64 `yaml:"alphaMin"`   // 基础透明度下限
	AlphaRange float64 `yaml:"alphaRange"` // 基础透明度浮动范围
	LineWidth  float64 `yaml:"lineWidth"`  // 描边宽度（逻辑像素）
	FgOpacity  float64 `yaml:"fgOpacity"`  // 前景整体透明度
	TrailFade  float64 `yaml:"trailFade"`  // 拖尾模式下每帧的淡出量（默认模式不使用）

	StrokeColor string `yaml:"strokeColor"` // 描边颜色，十六进制，例如 "#abd0ad"
	Tempo       string `yaml:"tempo"`       // 流场节奏："calm" 或 "landing"
}

// DefaultSettings 返回默认（calm）配置
func DefaultSettings() FlowFieldSettings {
	return FlowFieldSettings{
		MinCount:    140,
		Density:     100000,
		SpeedMin:    0.26,
		SpeedRange:  0.4,
		LenMin:      3.2,
		LenRange:    4.2,
		AlphaMin:    0.3,
		AlphaRange:  0.70,
		LineWidth:   0.72,
		FgOpacity:   0.8,
		TrailFade:   0.12,
		StrokeColor: DefaultStrokeColorHex,
		Tempo:       TempoCalm,
	}
}

// FastSettings 返回更密集、更快的备用配置
func FastSettings() FlowFieldSettings {
	return FlowFieldSettings{
		MinCount:    180,
		Density:     5000,
		SpeedMin:    0.45,
		SpeedRange:  0.7,
		LenMin:      4,
		LenRange:    7,
		AlphaMin:    0.04,
		AlphaRange:  0.08,
		LineWidth:   0.8,
		FgOpacity:   1,
		TrailFade:   0.08,
		StrokeColor: DefaultStrokeColorHex,
		Tempo:       TempoLanding,
	}
}

// BuiltinPresets 返回内置预设（嵌入的 YAML 不可用时的降级来源）
func BuiltinPresets() map[string]FlowFieldSettings {
	return map[string]FlowFieldSettings{
		PresetCalm: DefaultSettings(),
		PresetFast: FastSettings(),
	}
}

// TempoValue 返回配置对应的流场节奏常量
// 未设置时视为 calm
func (s FlowFieldSettings) TempoValue() float64 {
	if s.Tempo == TempoLanding {
		return FieldTempoLanding
	}
	return FieldTempoCalm
}

// StrokeRGB 解析描边颜色
// 解析失败时返回 DefaultStrokeColor（Validate 会提前报告此类错误）
func (s FlowFieldSettings) StrokeRGB() color.NRGBA {
	if s.StrokeColor == "" {
		return DefaultStrokeColor
	}
	c, err := ParseColor(s.StrokeColor)
	if err != nil {
		return DefaultStrokeColor
	}
	return c
}

// Validate 检查配置是否可用
//
// 要求：
//   - density > 0（计算粒子数量时作为除数）
//   - speedMin / lenMin / alphaMin > 0，重置后的粒子字段不会停留在零值
//   - 所有范围 >= 0，fgOpacity 和透明度落在 [0, 1]
func (s FlowFieldSettings) Validate() error {
	if s.MinCount < 0 {
		return fmt.Errorf("minCount must be >= 0, got %d", s.MinCount)
	}
	if !(s.Density > 0) || math.IsInf(s.Density, 0) {
		return fmt.Errorf("density must be a positive finite number, got %v", s.Density)
	}

	positives := []struct {
		name  string
		value float64
	}{
		{"speedMin", s.SpeedMin},
		{"lenMin", s.LenMin},
		{"alphaMin", s.AlphaMin},
		{"lineWidth", s.LineWidth},
	}
	for _, p := range positives {
		if !(p.value > 0) {
			return fmt.Errorf("%s must be > 0, got %v", p.name, p.value)
		}
	}

	ranges := []struct {
		name  string
		value float64
	}{
		{"speedRange", s.SpeedRange},
		{"lenRange", s.LenRange},
		{"alphaRange", s.AlphaRange},
	}
	for _, r := range ranges {
		if !(r.value >= 0) {
			return fmt.Errorf("%s must be >= 0, got %v", r.name, r.value)
		}
	}

	if s.AlphaMin+s.AlphaRange > 1 {
		return fmt.Errorf("alphaMin + alphaRange must be <= 1, got %v", s.AlphaMin+s.AlphaRange)
	}
	if s.FgOpacity < 0 || s.FgOpacity > 1 {
		return fmt.Errorf("fgOpacity must be between 0 and 1, got %v", s.FgOpacity)
	}
	if s.TrailFade < 0 || s.TrailFade > 1 {
		return fmt.Errorf("trailFade must be between 0 and 1, got %v", s.TrailFade)
	}

	if s.StrokeColor != "" {
		if _, err := colorful.Hex(s.StrokeColor); err != nil {
			return fmt.Errorf("invalid strokeColor %q: %w", s.StrokeColor, err)
		}
	}

	switch s.Tempo {
	case "", TempoCalm, TempoLanding:
	default:
		return fmt.Errorf("unknown tempo %q (want %q or %q)", s.Tempo, TempoCalm, TempoLanding)
	}

	return nil
}

// presetFile 预设文件的顶层结构
type presetFile struct {
	Presets map[string]yaml.Node `yaml:"presets"`
}

// ParsePresets 解析预设 YAML
//
// 文件格式：
//
//	presets:
//	  calm:
//	    minCount: 140
//	    ...
//
// 每个预设先填充 DefaultSettings()，再用 YAML 中出现的字段覆盖，
// 因此预设只需写出与默认值不同的字段。
func ParsePresets(data []byte) (map[string]FlowFieldSettings, error) {
	var file presetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse presets YAML: %w", err)
	}
	if len(file.Presets) == 0 {
		return nil, fmt.Errorf("presets cannot be empty")
	}

	presets := make(map[string]FlowFieldSettings, len(file.Presets))
	for name, node := range file.Presets {
		if name == "" {
			return nil, fmt.Errorf("preset name cannot be empty")
		}
		settings := DefaultSettings()
		if err := node.Decode(&settings); err != nil {
			return nil, fmt.Errorf("failed to decode preset %q: %w", name, err)
		}
		if err := settings.Validate(); err != nil {
			return nil, fmt.Errorf("invalid preset %q: %w", name, err)
		}
		presets[name] = settings
	}

	return presets, nil
}

// LoadPresetFile 从 YAML 文件加载预设
func LoadPresetFile(filePath string) (map[string]FlowFieldSettings, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read presets file: %w", err)
	}
	return ParsePresets(data)
}

// LoadPresets 加载预设；path 为空时返回内置预设
func LoadPresets(path string) (map[string]FlowFieldSettings, error) {
	if path == "" {
		return BuiltinPresets(), nil
	}
	return LoadPresetFile(path)
}

// LoadSettings 加载预设并按名称选择一个
// 供命令行工具使用：path 为空时从内置预设中选择，name 为空时选择 calm
func LoadSettings(path, name string) (FlowFieldSettings, error) {
	presets, err := LoadPresets(path)
	if err != nil {
		return FlowFieldSettings{}, err
	}
	return SelectPreset(presets, name)
}

// SelectPreset 按名称选择预设
//
// 参数：
//   - presets: 可用预设
//   - name: 预设名称，为空时使用 PresetCalm
//
// 返回：
//   - FlowFieldSettings: 选中的配置
//   - error: 预设不存在时返回错误
func SelectPreset(presets map[string]FlowFieldSettings, name string) (FlowFieldSettings, error) {
	if name == "" {
		name = PresetCalm
	}
	settings, ok := presets[name]
	if !ok {
		return FlowFieldSettings{}, fmt.Errorf("unknown preset %q", name)
	}
	return settings, nil
}
