//go:build !mobile

// Package mobile 的桌面构建占位
//
// mobile.go 在 init() 中创建 app.App 并注册给 ebitenmobile，只在 -tags mobile 时编译；
// 桌面构建只保留 Dummy，让 ./... 在没有移动端工具链时也能通过编译。
package mobile

// Dummy 与移动端构建导出同一个符号
func Dummy() {}
