package scenes

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/decker502/mazetd/pkg/arena"
	"github.com/decker502/mazetd/pkg/systems"
	"github.com/decker502/mazetd/pkg/utils"
)

var (
	colorBackground = color.RGBA{R: 24, G: 26, B: 32, A: 255}
	colorArena      = color.RGBA{R: 44, G: 48, B: 58, A: 255}
	colorStart      = color.RGBA{R: 60, G: 140, B: 80, A: 255}
	colorGoal       = color.RGBA{R: 150, G: 60, B: 60, A: 255}
	colorGridLine   = color.RGBA{R: 90, G: 96, B: 110, A: 255}
	colorPath       = color.NRGBA{R: 255, G: 215, B: 0, A: 200}
	colorAgent      = color.RGBA{R: 230, G: 230, B: 230, A: 255}
	colorSlowed     = color.RGBA{R: 120, G: 190, B: 255, A: 255}
	colorHealthBg   = color.RGBA{R: 80, G: 0, B: 0, A: 255}
	colorHealth     = color.RGBA{R: 40, G: 220, B: 60, A: 255}
	colorHoverOK    = color.NRGBA{R: 80, G: 255, B: 80, A: 90}
	colorHoverBad   = color.NRGBA{R: 255, G: 60, B: 60, A: 90}
	colorRange      = color.NRGBA{R: 255, G: 255, B: 255, A: 70}
)

const (
	// towerInset 塔方块相对格子边缘的内缩（像素）
	towerInset = 4
	// agentRadiusRatio 敌人半径占格子边长的比例
	agentRadiusRatio = 0.22
)

// drawArena 绘制网格底色以及起点、终点
func (s *GameScene) drawArena(screen *ebiten.Image) {
	g := s.session.Grid()
	tl := g.Corners().TopLeft
	x, y := s.viewport.WorldToScreen(tl)
	extent := g.CellSize() * float64(g.Size())
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(extent), float32(extent), colorArena, false)

	s.fillCell(screen, g.Start(), colorStart, 0)
	s.fillCell(screen, g.Goal(), colorGoal, 0)
}

// drawGridLines 绘制格子分隔线
func (s *GameScene) drawGridLines(screen *ebiten.Image) {
	g := s.session.Grid()
	corners := g.Corners()
	left, top := s.viewport.WorldToScreen(corners.TopLeft)
	right, bottom := s.viewport.WorldToScreen(corners.BottomRight)
	size := g.CellSize()

	for i := 0; i <= g.Size(); i++ {
		offset := float64(i) * size
		vector.StrokeLine(screen, float32(left+offset), float32(top), float32(left+offset), float32(bottom), 1, colorGridLine, false)
		vector.StrokeLine(screen, float32(left), float32(top+offset), float32(right), float32(top+offset), 1, colorGridLine, false)
	}
}

// drawReachable 按到起点的步数给可达格子着色（越远越亮）
func (s *GameScene) drawReachable(screen *ebiten.Image) {
	reach := s.session.Reachable()
	maxSteps := 1
	for _, steps := range reach {
		if steps > maxSteps {
			maxSteps = steps
		}
	}
	for c, steps := range reach {
		a := uint8(20 + 80*steps/maxSteps)
		s.fillCell(screen, c, color.NRGBA{R: 0, G: 200, B: 220, A: a}, 1)
	}
}

// drawPath 绘制起点到终点的当前最短路径
func (s *GameScene) drawPath(screen *ebiten.Image) {
	path, ok := s.session.CurrentPath()
	if !ok || len(path) < 2 {
		return
	}
	g := s.session.Grid()
	for i := 1; i < len(path); i++ {
		x0, y0 := s.viewport.WorldToScreen(g.CellToWorld(path[i-1]))
		x1, y1 := s.viewport.WorldToScreen(g.CellToWorld(path[i]))
		vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), 3, colorPath, true)
	}
}

// drawTowers 绘制所有塔；武器塔中间画一个圆点，悬停时显示射程
func (s *GameScene) drawTowers(screen *ebiten.Image) {
	g := s.session.Grid()
	cfg := s.session.TowerConfig()
	for _, t := range s.session.Towers() {
		kind, ok := cfg.GetTower(t.Kind)
		if !ok {
			continue
		}
		if !kind.IsWeapon() {
			s.fillCell(screen, t.Cell, kind.RGBA(), 0)
			continue
		}

		s.fillCell(screen, t.Cell, kind.RGBA(), towerInset)
		cx, cy := s.viewport.WorldToScreen(t.Pos)
		vector.DrawFilledCircle(screen, float32(cx), float32(cy), float32(g.CellSize()*0.15), colorBackground, true)

		if s.hoverValid && s.hoverCell == t.Cell {
			r := kind.Range * g.CellSize()
			vector.StrokeCircle(screen, float32(cx), float32(cy), float32(r), 1, colorRange, true)
		}
	}
}

// drawAttacks 绘制攻击线，随剩余时间淡出
func (s *GameScene) drawAttacks(screen *ebiten.Image) {
	cfg := s.session.TowerConfig()
	for _, t := range s.session.Towers() {
		if t.Flash <= 0 {
			continue
		}
		kind, _ := cfg.GetTower(t.Kind)
		rgb := kind.RGBA()
		clr := color.NRGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: uint8(255 * utils.FadeAlpha(t.Flash, systems.AttackFlashDuration))}

		x0, y0 := s.viewport.WorldToScreen(t.Pos)
		x1, y1 := s.viewport.WorldToScreen(t.Target)
		vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), 2, clr, true)
	}
}

// drawAgents 绘制敌人和血条
func (s *GameScene) drawAgents(screen *ebiten.Image) {
	size := s.session.Grid().CellSize()
	radius := size * agentRadiusRatio
	for _, a := range s.session.Agents() {
		x, y := s.viewport.WorldToScreen(a.Pos)
		body := colorAgent
		if a.Slowed {
			body = colorSlowed
		}
		vector.DrawFilledCircle(screen, float32(x), float32(y), float32(radius), body, true)

		barW := radius * 2
		barY := y - radius - 6
		vector.DrawFilledRect(screen, float32(x-radius), float32(barY), float32(barW), 3, colorHealthBg, false)
		vector.DrawFilledRect(screen, float32(x-radius), float32(barY), float32(barW*math.Max(0, a.HealthRatio)), 3, colorHealth, false)
	}
}

// drawHover 预览建造结果：绿色可建造，红色会被拒绝
func (s *GameScene) drawHover(screen *ebiten.Image) {
	if !s.hoverValid || s.isPaused {
		return
	}
	clr := colorHoverOK
	if !s.canBuildHere(s.hoverCell) {
		clr = colorHoverBad
	}
	s.fillCell(screen, s.hoverCell, clr, 0)
}

// canBuildHere 所选塔能否建在 c（网格校验和余额都要满足）
func (s *GameScene) canBuildHere(c arena.Cell) bool {
	return s.session.CanBuild(c) == nil && s.session.CanAffordTower(s.selectedKind)
}

// fillCell 用纯色填充格子，inset 为四边内缩像素
func (s *GameScene) fillCell(screen *ebiten.Image, c arena.Cell, clr color.Color, inset float64) {
	x, y, size := s.viewport.CellScreenRect(s.session.Grid(), c)
	vector.DrawFilledRect(screen,
		float32(x+inset), float32(y+inset),
		float32(size-2*inset), float32(size-2*inset),
		clr, false)
}
