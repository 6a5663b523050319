// Package utils 提供渲染和输入相关的工具函数
//
// # 坐标系统
//
//   - 世界坐标：原点位于竞技场中心，Y 轴向上（arena.Vec2）
//   - 屏幕坐标：原点位于窗口左上角，Y 轴向下（ebiten 约定）
//
// 转换公式：
//
//	screenX = worldX + Width/2
//	screenY = Height/2 - worldY
package utils

import (
	"github.com/decker502/mazetd/pkg/arena"
)

// Viewport 逻辑屏幕尺寸
type Viewport struct {
	Width  float64
	Height float64
}

// WorldToScreen 世界坐标 -> 屏幕坐标
func (v Viewport) WorldToScreen(p arena.Vec2) (screenX, screenY float64) {
	return p.X + v.Width/2, v.Height/2 - p.Y
}

// ScreenToWorld 屏幕坐标 -> 世界坐标
func (v Viewport) ScreenToWorld(screenX, screenY float64) arena.Vec2 {
	return arena.Vec2{X: screenX - v.Width/2, Y: v.Height/2 - screenY}
}

// ScreenToCell 屏幕坐标下的格子
//
// 返回:
//   - arena.Cell: 格子坐标
//   - bool: 是否落在网格范围内
func (v Viewport) ScreenToCell(g *arena.Grid, screenX, screenY float64) (arena.Cell, bool) {
	c := g.WorldToCell(v.ScreenToWorld(screenX, screenY))
	return c, g.InBounds(c)
}

// CellScreenRect 格子在屏幕上的矩形（左上角和边长）
func (v Viewport) CellScreenRect(g *arena.Grid, c arena.Cell) (x, y, size float64) {
	bl := g.CellBottomLeft(c)
	size = g.CellSize()
	// 世界坐标中的左上角是 (bl.X, bl.Y+size)
	x, y = v.WorldToScreen(arena.Vec2{X: bl.X, Y: bl.Y + size})
	return x, y, size
}
