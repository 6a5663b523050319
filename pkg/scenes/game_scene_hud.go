package scenes

import (
	"bytes"
	"fmt"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/decker502/mazetd/pkg/config"
	"github.com/decker502/mazetd/pkg/utils"
)

const (
	hudFontSize   = 16
	titleFontSize = 32

	// helpPanelWidth 右侧帮助文字的最大宽度
	helpPanelWidth = 300
)

const helpText = "Build a maze with towers. Enemies walk from the green cell to the red one " +
	"and always take the shortest path, so every tower you place changes their route. " +
	"A tower that would close the last path is refused.\n\n" +
	"Left click: build   Right click / Backspace: remove\n" +
	"Esc: pause   N: new game   M: sound\n" +
	"P: path   G: grid   V: reachable cells\n" +
	"F5: save layout   F9: load layout\n" +
	"+/-: change level"

var (
	colorText       = color.RGBA{R: 235, G: 235, B: 235, A: 255}
	colorTextDim    = color.RGBA{R: 150, G: 150, B: 160, A: 255}
	colorTextShadow = color.NRGBA{R: 0, G: 0, B: 0, A: 180}
	colorSelected   = color.RGBA{R: 255, G: 215, B: 0, A: 255}
	colorPauseShade = color.NRGBA{R: 0, G: 0, B: 0, A: 140}
)

var (
	fontSourceOnce sync.Once
	fontSource     *text.GoTextFaceSource
	fontSourceErr  error
)

// newFace 创建 Go Regular 字体（字体源只解析一次）
func newFace(size float64) (*text.GoTextFace, error) {
	fontSourceOnce.Do(func() {
		fontSource, fontSourceErr = text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	})
	if fontSourceErr != nil {
		return nil, fontSourceErr
	}
	return &text.GoTextFace{Source: fontSource, Size: size}, nil
}

// drawText 带阴影的文字；没有字体时退回调试文字
func (s *GameScene) drawText(screen *ebiten.Image, str string, face *text.GoTextFace, x, y float64, clr color.Color) {
	if face == nil {
		ebitenutil.DebugPrintAt(screen, str, int(x), int(y))
		return
	}

	shadowOp := &text.DrawOptions{}
	shadowOp.GeoM.Translate(x+1, y+1)
	shadowOp.ColorScale.ScaleWithColor(colorTextShadow)
	text.Draw(screen, str, face, shadowOp)

	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, str, face, op)
}

// hudLines 左上角状态栏的内容
func (s *GameScene) hudLines() []string {
	p := s.session.Player()
	kills, target := s.session.Progress()
	st := s.session.Stats()
	return []string{
		fmt.Sprintf("Level %d   next in %.0fs   kills %d/%d", s.session.Level(), s.session.LevelTimeLeft(), kills, target),
		fmt.Sprintf("HP %d/%d   Bricks %d", p.HP, p.MaxHP, p.Bricks),
		fmt.Sprintf("Killed %d   Leaked %d   Deaths %d", st.Killed, st.Leaked, st.Deaths),
	}
}

// drawHUD 左上角状态栏
func (s *GameScene) drawHUD(screen *ebiten.Image) {
	for i, line := range s.hudLines() {
		s.drawText(screen, line, s.hudFace, config.HUDMarginX, float64(config.HUDMarginY+i*(config.HUDLineHeight+4)), colorText)
	}
}

// paletteLine 塔类型列表中的一行：快捷键、名称、花费
type paletteLine struct {
	label      string
	selected   bool
	affordable bool
}

func (s *GameScene) paletteLines() []paletteLine {
	cfg := s.session.TowerConfig()
	ids := cfg.IDs()
	lines := make([]paletteLine, 0, len(ids))
	for _, id := range ids {
		kind, _ := cfg.GetTower(id)
		label := fmt.Sprintf("[%s] %-10s %d", kind.Key, kind.Name, kind.Cost)
		if kind.IsWeapon() {
			label += fmt.Sprintf("   range %.1f  dmg %d", kind.Range, kind.Damage)
		}
		lines = append(lines, paletteLine{
			label:      label,
			selected:   id == s.selectedKind,
			affordable: s.session.CanAffordTower(id),
		})
	}
	return lines
}

// drawPalette 左下角的塔类型列表
func (s *GameScene) drawPalette(screen *ebiten.Image) {
	lines := s.paletteLines()
	lineHeight := float64(config.HUDLineHeight + 6)
	y := config.GameWindowHeight - config.HUDMarginY - lineHeight*float64(len(lines))
	for i, l := range lines {
		clr := color.Color(colorText)
		switch {
		case l.selected:
			clr = colorSelected
		case !l.affordable:
			clr = colorTextDim
		}
		s.drawText(screen, l.label, s.hudFace, config.HUDMarginX, y+float64(i)*lineHeight, clr)
	}
}

// drawHelp 右侧的操作说明
func (s *GameScene) drawHelp(screen *ebiten.Image) {
	x := float64(config.GameWindowWidth - helpPanelWidth - config.HUDMarginX)
	var measure utils.MeasureFunc
	if s.hudFace != nil {
		measure = utils.FaceMeasurer(s.hudFace)
	}
	for i, line := range utils.WrapText(helpText, helpPanelWidth, measure) {
		s.drawText(screen, line, s.hudFace, x, float64(config.HUDMarginY+i*(config.HUDLineHeight+4)), colorTextDim)
	}
}

// drawToast 屏幕下方居中的提示
func (s *GameScene) drawToast(screen *ebiten.Image) {
	if s.toast == "" {
		return
	}
	width := float64(len(s.toast) * 7)
	if s.hudFace != nil {
		width, _ = text.Measure(s.toast, s.hudFace, 0)
	}
	x := (config.GameWindowWidth - width) / 2
	y := float64(config.GameWindowHeight - 60)
	s.drawText(screen, s.toast, s.hudFace, x, y, colorText)
}

// drawPauseOverlay 暂停时的半透明遮罩
func (s *GameScene) drawPauseOverlay(screen *ebiten.Image) {
	vector.DrawFilledRect(screen, 0, 0, config.GameWindowWidth, config.GameWindowHeight, colorPauseShade, false)

	const label = "PAUSED"
	width := float64(len(label) * 7)
	if s.titleFace != nil {
		width, _ = text.Measure(label, s.titleFace, 0)
	}
	s.drawText(screen, label, s.titleFace, (config.GameWindowWidth-width)/2, config.GameWindowHeight/2-titleFontSize, colorText)
}

// drawFPS 右下角帧率
func (s *GameScene) drawFPS(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS: %.0f", ebiten.ActualFPS()), config.GameWindowWidth-80, config.GameWindowHeight-20)
}
