package render

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/decker502/mossfield/pkg/flowfield"
	"github.com/decker502/mossfield/pkg/utils"
)

// 每个终端单元格对应 2x4 个盲文点，一个点即一个逻辑像素
const (
	DotsPerCellX = 2
	DotsPerCellY = 4
)

// brailleBase 盲文字符块起点 U+2800
const brailleBase = 0x2800

// brailleBits 点 (x, y) 在盲文码位中的比特
var brailleBits = [DotsPerCellY][DotsPerCellX]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// minVisibleIntensity 低于此亮度的单元格视为空
const minVisibleIntensity = 0.02

// TerminalCell 终端单元格的绘制状态
type TerminalCell struct {
	Bits      uint8       // 点亮的盲文点
	Intensity float64     // 累积不透明度 [0, 1]
	Color     color.NRGBA // 最近一次描边的颜色
}

// Rune 返回单元格对应的盲文字符；无点亮时返回空格
func (c TerminalCell) Rune() rune {
	if c.Bits == 0 {
		return ' '
	}
	return rune(brailleBase + int(c.Bits))
}

// TerminalSurface 以盲文点阵模拟像素画布
type TerminalSurface struct {
	canvas   *TerminalCanvas
	displayW float64
	displayH float64
}

// NewTerminalSurface 创建终端表面
func NewTerminalSurface() *TerminalSurface {
	return &TerminalSurface{canvas: &TerminalCanvas{m: Identity}}
}

// Context2D 实现 flowfield.Surface
func (s *TerminalSurface) Context2D() flowfield.Canvas {
	return s.canvas
}

// Resize 按点阵尺寸重新分配单元格
func (s *TerminalSurface) Resize(backingWidth, backingHeight int, displayWidth, displayHeight float64) {
	cols := (max(0, backingWidth) + DotsPerCellX - 1) / DotsPerCellX
	rows := (max(0, backingHeight) + DotsPerCellY - 1) / DotsPerCellY
	s.canvas.cols = cols
	s.canvas.rows = rows
	s.canvas.cells = make([]TerminalCell, cols*rows)
	s.canvas.m = Identity
	s.displayW = displayWidth
	s.displayH = displayHeight
}

// Canvas 返回具体画布，供宿主刷新到屏幕
func (s *TerminalSurface) Canvas() *TerminalCanvas {
	return s.canvas
}

// TerminalCanvas 在单元格缓冲上实现 flowfield.Canvas
type TerminalCanvas struct {
	cols  int
	rows  int
	cells []TerminalCell
	m     Affine
}

// Size 返回单元格行列数
func (c *TerminalCanvas) Size() (cols, rows int) {
	return c.cols, c.rows
}

// Cell 返回 (col, row) 处的单元格，越界返回零值
func (c *TerminalCanvas) Cell(col, row int) TerminalCell {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return TerminalCell{}
	}
	return c.cells[row*c.cols+col]
}

// ClearRect 清空覆盖矩形的所有单元格
func (c *TerminalCanvas) ClearRect(x, y, w, h float64) {
	c.eachCell(x, y, w, h, func(cell *TerminalCell) {
		*cell = TerminalCell{}
	})
}

// SetTransform 设置仿射变换
func (c *TerminalCanvas) SetTransform(a, b, cc, d, e, f float64) {
	c.m = Affine{A: a, B: b, C: cc, D: d, E: e, F: f}
}

// StrokeSegment 沿线段以半点步长采样并点亮经过的盲文点
func (c *TerminalCanvas) StrokeSegment(x0, y0, x1, y1 float64, style flowfield.StrokeStyle) {
	if !(style.Alpha > 0) || len(c.cells) == 0 {
		return
	}

	ax, ay := c.m.Apply(x0, y0)
	bx, by := c.m.Apply(x1, y1)
	steps := int(math.Ceil(math.Hypot(bx-ax, by-ay)*2)) + 1

	alpha := math.Min(1, style.Alpha)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		px := math.Floor(ax + (bx-ax)*t)
		py := math.Floor(ay + (by-ay)*t)
		if px < 0 || py < 0 {
			continue
		}
		dotX, dotY := int(px), int(py)
		col, row := dotX/DotsPerCellX, dotY/DotsPerCellY
		if col >= c.cols || row >= c.rows {
			continue
		}

		cell := &c.cells[row*c.cols+col]
		bit := brailleBits[dotY%DotsPerCellY][dotX%DotsPerCellX]
		if cell.Bits&bit == 0 {
			cell.Bits |= bit
			cell.Intensity = 1 - (1-cell.Intensity)*(1-alpha)
		}
		cell.Color = style.Color
	}
}

// FadeRect 降低单元格亮度，过暗的单元格被清空
func (c *TerminalCanvas) FadeRect(x, y, w, h, amount float64) {
	if !(amount > 0) {
		return
	}
	keep := 1 - math.Min(1, amount)
	c.eachCell(x, y, w, h, func(cell *TerminalCell) {
		cell.Intensity *= keep
		if cell.Intensity < minVisibleIntensity {
			*cell = TerminalCell{}
		}
	})
}

// Flush 将单元格写入 tcell 屏幕（不调用 Show）
// 前景色为描边颜色按亮度与背景混合
func (c *TerminalCanvas) Flush(screen tcell.Screen, background color.NRGBA) {
	bgStyle := tcell.StyleDefault.Background(toTcell(background))
	for row := 0; row < c.rows; row++ {
		for col := 0; col < c.cols; col++ {
			cell := c.cells[row*c.cols+col]
			style := bgStyle
			if cell.Bits != 0 {
				style = style.Foreground(toTcell(mix(background, cell.Color, cell.Intensity)))
			}
			screen.SetContent(col, row, cell.Rune(), nil, style)
		}
	}
}

func (c *TerminalCanvas) eachCell(x, y, w, h float64, fn func(*TerminalCell)) {
	if len(c.cells) == 0 {
		return
	}
	x0, y0, x1, y1 := c.m.ApplyRect(x, y, w, h)
	colMin := max(0, int(math.Floor(x0))/DotsPerCellX)
	rowMin := max(0, int(math.Floor(y0))/DotsPerCellY)
	colMax := min(c.cols, int(math.Ceil(x1/DotsPerCellX)))
	rowMax := min(c.rows, int(math.Ceil(y1/DotsPerCellY)))
	for row := rowMin; row < rowMax; row++ {
		for col := colMin; col < colMax; col++ {
			fn(&c.cells[row*c.cols+col])
		}
	}
}

// mix 在 bg 与 fg 之间按 t 线性混合
func mix(bg, fg color.NRGBA, t float64) color.NRGBA {
	t = utils.Clamp01(t)
	lerp := func(a, b uint8) uint8 {
		return uint8(math.Round(utils.Lerp(float64(a), float64(b), t)))
	}
	return color.NRGBA{R: lerp(bg.R, fg.R), G: lerp(bg.G, fg.G), B: lerp(bg.B, fg.B), A: 255}
}

func toTcell(c color.NRGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
