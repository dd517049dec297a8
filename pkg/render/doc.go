// Package render 提供 flowfield.Surface / flowfield.Canvas 的无窗口实现
//
//   - RasterSurface：*image.RGBA，golang.org/x/image/vector 软件光栅化，无窗口截图使用
//   - TerminalSurface：盲文点阵缓冲，通过 tcell 输出到终端
//
// 两者都实现 flowfield.Fader，支持拖尾模式。GPU 实现位于 ebitensurface 子包，
// 本包不依赖 Ebitengine。
package render
