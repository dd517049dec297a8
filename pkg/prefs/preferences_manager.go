// Package prefs 持久化查看器偏好（预设、拖尾、全屏、统计浮层）
//
// 偏好与流场配置分离：配置在进程生命周期内只读，偏好由用户在运行时切换，
// 下次启动时恢复。
package prefs

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/decker502/mossfield/pkg/config"
)

// AppName gdata 存储使用的应用名
const AppName = "mossfield"

// 存储路径常量
const (
	preferencesObject   = "preferences"
	preferencesProperty = "viewer"
)

// Preferences 查看器偏好
type Preferences struct {
	Preset     string `yaml:"preset"`     // 启动时使用的预设名称
	Trails     bool   `yaml:"trails"`     // 是否启用拖尾模式
	Fullscreen bool   `yaml:"fullscreen"` // 启动时是否全屏
	ShowStats  bool   `yaml:"showStats"`  // 是否显示统计浮层
}

// DefaultPreferences 返回默认偏好
func DefaultPreferences() *Preferences {
	return &Preferences{
		Preset:     config.PresetCalm,
		Trails:     false,
		Fullscreen: false,
		ShowStats:  false,
	}
}

// Manager 偏好管理器
// 负责偏好的加载、保存和内存管理
type Manager struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	prefs        *Preferences   // 当前偏好
}

// Open 打开应用的 gdata 存储并创建偏好管理器
// 存储不可用时返回降级模式的管理器（仅内存），不会返回 nil
func Open(appName string) *Manager {
	gdataManager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[Prefs] Warning: gdata unavailable: %v (preferences will not persist)", err)
		gdataManager = nil
	}
	m, _ := NewManager(gdataManager)
	return m
}

// NewManager 创建新的偏好管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存偏好）
//
// 返回：
//   - *Manager: 偏好管理器实例
//   - error: 始终为 nil；加载失败只记录日志，使用默认偏好
func NewManager(gdataManager *gdata.Manager) (*Manager, error) {
	m := &Manager{
		gdataManager: gdataManager,
		prefs:        DefaultPreferences(),
	}

	// 尝试加载已保存的偏好
	if err := m.Load(); err != nil {
		// 加载失败不是致命错误，使用默认偏好
		log.Printf("[Prefs] Warning: Failed to load preferences: %v (using defaults)", err)
	}

	return m, nil
}

// Load 从 gdata 加载偏好
//
// 如果 gdataManager 为 nil 或数据不存在，使用默认偏好
//
// 返回：
//   - error: 如果读取或反序列化失败返回错误
func (m *Manager) Load() error {
	// 降级模式：无法持久化，使用默认偏好
	if m.gdataManager == nil {
		m.prefs = DefaultPreferences()
		return nil
	}

	if !m.gdataManager.ObjectPropExists(preferencesObject, preferencesProperty) {
		m.prefs = DefaultPreferences()
		return nil
	}

	data, err := m.gdataManager.LoadObjectProp(preferencesObject, preferencesProperty)
	if err != nil {
		m.prefs = DefaultPreferences()
		return fmt.Errorf("failed to load preferences: %w", err)
	}

	// 先填充默认值，旧版本存档缺失的字段保持默认
	loaded := DefaultPreferences()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		m.prefs = DefaultPreferences()
		return fmt.Errorf("failed to unmarshal preferences: %w", err)
	}

	m.prefs = loaded
	log.Printf("[Prefs] Preferences loaded: preset=%s trails=%v", loaded.Preset, loaded.Trails)
	return nil
}

// Save 保存偏好到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
func (m *Manager) Save() error {
	if m.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(m.prefs)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	if err := m.gdataManager.SaveObjectProp(preferencesObject, preferencesProperty, data); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}

	log.Printf("[Prefs] Preferences saved")
	return nil
}

// Persistent 报告偏好是否会被持久化
func (m *Manager) Persistent() bool {
	return m.gdataManager != nil
}

// Get 获取当前偏好
func (m *Manager) Get() *Preferences {
	return m.prefs
}

// SetPreset 设置启动预设
// 注意：仅修改内存中的偏好，需调用 Save() 方法持久化
func (m *Manager) SetPreset(name string) {
	if name == "" {
		name = config.PresetCalm
	}
	m.prefs.Preset = name
}

// SetTrails 设置拖尾模式
func (m *Manager) SetTrails(enabled bool) {
	m.prefs.Trails = enabled
}

// SetFullscreen 设置全屏模式
func (m *Manager) SetFullscreen(enabled bool) {
	m.prefs.Fullscreen = enabled
}

// SetShowStats 设置统计浮层
func (m *Manager) SetShowStats(enabled bool) {
	m.prefs.ShowStats = enabled
}
