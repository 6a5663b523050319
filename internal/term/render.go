// Package term 在终端里运行对局（tcell 前端）
//
// 每个格子占两列字符，第 0 行画在最下面，和世界坐标的 Y 轴方向一致。
package term

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/decker502/mazetd/pkg/arena"
	"github.com/decker502/mazetd/pkg/simulation"
)

const (
	// gridX, gridY 网格左上角在屏幕上的位置
	gridX = 2
	gridY = 1

	// cellWidth 每个格子占的字符列数
	cellWidth = 2
)

var (
	styleDefault = tcell.StyleDefault
	styleEmpty   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	stylePath    = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleStart   = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorGreen)
	styleGoal    = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorRed)
	styleAgent   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleSlowed  = tcell.StyleDefault.Foreground(tcell.ColorLightBlue).Bold(true)
	styleDim     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleWarn    = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

// View 一帧需要的界面状态
type View struct {
	Cursor   arena.Cell
	Selected string
	Paused   bool
	Message  string
}

// Renderer 把对局画到 tcell 屏幕上
type Renderer struct {
	screen tcell.Screen
}

// NewRenderer 创建渲染器
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{screen: screen}
}

// CellOrigin 格子左边第一个字符的屏幕坐标
func CellOrigin(g *arena.Grid, c arena.Cell) (x, y int) {
	return gridX + c.Col*cellWidth, gridY + (g.Size() - 1 - c.Row)
}

// Draw 绘制整帧并刷新屏幕
func (r *Renderer) Draw(s *simulation.Session, v View) {
	r.screen.Clear()

	g := s.Grid()
	onPath := make(map[arena.Cell]bool)
	if path, ok := s.CurrentPath(); ok {
		for _, c := range path {
			onPath[c] = true
		}
	}

	for col := 0; col < g.Size(); col++ {
		for row := 0; row < g.Size(); row++ {
			c := arena.C(col, row)
			ch, style := '.', styleEmpty
			switch {
			case c == g.Start():
				ch, style = 'S', styleStart
			case c == g.Goal():
				ch, style = 'G', styleGoal
			case onPath[c]:
				ch, style = '+', stylePath
			}
			r.putCell(g, c, ch, style)
		}
	}

	cfg := s.TowerConfig()
	for _, t := range s.Towers() {
		kind, ok := cfg.GetTower(t.Kind)
		if !ok {
			continue
		}
		rgb := kind.RGBA()
		style := tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.NewRGBColor(int32(rgb.R), int32(rgb.G), int32(rgb.B)))
		if t.Flash > 0 {
			style = style.Bold(true)
		}
		r.putCell(g, t.Cell, towerRune(kind.Key), style)
	}

	for _, a := range s.Agents() {
		if !g.InBounds(a.Cell) {
			continue
		}
		style := styleAgent
		if a.Slowed {
			style = styleSlowed
		}
		x, y := CellOrigin(g, a.Cell)
		r.screen.SetContent(x, y, '@', nil, style)
	}

	if g.InBounds(v.Cursor) {
		x, y := CellOrigin(g, v.Cursor)
		mainc, _, style, _ := r.screen.GetContent(x, y)
		r.screen.SetContent(x, y, mainc, nil, style.Reverse(true))
		r.screen.SetContent(x+1, y, ' ', nil, styleDefault.Reverse(true))
	}

	r.drawStatus(s, v, gridY+g.Size()+1)
	r.screen.Show()
}

// putCell 在格子的两列字符里画一个符号
func (r *Renderer) putCell(g *arena.Grid, c arena.Cell, ch rune, style tcell.Style) {
	x, y := CellOrigin(g, c)
	r.screen.SetContent(x, y, ch, nil, style)
	r.screen.SetContent(x+1, y, ' ', nil, style)
}

// towerRune 塔用快捷键的大写字母表示
func towerRune(key string) rune {
	if key == "" {
		return '#'
	}
	return []rune(strings.ToUpper(key))[0]
}

// drawStatus 网格下方的状态栏
func (r *Renderer) drawStatus(s *simulation.Session, v View, y int) {
	p := s.Player()
	kills, target := s.Progress()
	st := s.Stats()

	r.putString(gridX, y, styleDefault, fmt.Sprintf("Level %d  next %.0fs  kills %d/%d", s.Level(), s.LevelTimeLeft(), kills, target))
	r.putString(gridX, y+1, styleDefault, fmt.Sprintf("HP %d/%d  Bricks %d  Leaked %d  Deaths %d", p.HP, p.MaxHP, p.Bricks, st.Leaked, st.Deaths))

	selected := v.Selected
	if kind, ok := s.TowerConfig().GetTower(v.Selected); ok {
		selected = fmt.Sprintf("%s (%d)", kind.Name, kind.Cost)
	}
	r.putString(gridX, y+2, styleDefault, "Build: "+selected)

	if v.Paused {
		r.putString(gridX, y+3, styleWarn, "PAUSED")
	} else if v.Message != "" {
		r.putString(gridX, y+3, styleWarn, v.Message)
	}

	var keys []string
	for _, id := range s.TowerConfig().IDs() {
		kind, _ := s.TowerConfig().GetTower(id)
		keys = append(keys, fmt.Sprintf("%s=%s", kind.Key, kind.Name))
	}
	r.putString(gridX, y+5, styleDim, strings.Join(keys, "  "))
	r.putString(gridX, y+6, styleDim, "arrows move  enter build  x remove  space pause  q quit")
}

// putString 从 (x, y) 开始横向写字符串
func (r *Renderer) putString(x, y int, style tcell.Style, str string) {
	for i, ch := range []rune(str) {
		r.screen.SetContent(x+i, y, ch, nil, style)
	}
}
