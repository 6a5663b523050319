package scenes

import (
	"errors"
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/decker502/mazetd/pkg/arena"
	"github.com/decker502/mazetd/pkg/game"
	"github.com/decker502/mazetd/pkg/utils"
)

// handleInput 读取本帧输入
//
// 鼠标：左键建造所选塔，右键拆除
// 字母键：塔快捷键优先，其余见 handleLetter
// Esc 暂停，Backspace/Delete 拆除悬停格子，F5 保存布局，F9 载入最近的布局，+/- 调整等级
func (s *GameScene) handleInput() {
	px, py := utils.GetPointerPosition()
	s.hoverCell, s.hoverValid = s.viewport.ScreenToCell(s.session.Grid(), float64(px), float64(py))

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		s.togglePause()
	}
	for _, r := range utils.JustPressedRunes() {
		s.handleLetter(r)
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyF5):
		if digest, err := s.saveLayout(); err != nil {
			s.showToast("Save failed")
		} else {
			s.showToast("Layout saved: " + digest)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyF9):
		s.loadLayout()
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual), inpututil.IsKeyJustPressed(ebiten.KeyNumpadAdd):
		s.changeLevel(1)
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus), inpututil.IsKeyJustPressed(ebiten.KeyNumpadSubtract):
		s.changeLevel(-1)
	}

	if s.isPaused {
		return
	}

	if clicked, x, y := utils.IsJustTouchedOrClicked(); clicked {
		if c, ok := s.viewport.ScreenToCell(s.session.Grid(), float64(x), float64(y)); ok {
			s.buildAt(c)
		}
	}
	if clicked, x, y := utils.IsJustRightClicked(); clicked {
		if c, ok := s.viewport.ScreenToCell(s.session.Grid(), float64(x), float64(y)); ok {
			s.removeAt(c)
		}
	}
	if s.hoverValid && (inpututil.IsKeyJustPressed(ebiten.KeyBackspace) || inpututil.IsKeyJustPressed(ebiten.KeyDelete)) {
		s.removeAt(s.hoverCell)
	}
}

// handleLetter 处理一个字母键
// 塔快捷键优先；否则 p/g/v 切换覆盖层，m 静音，n 重开一局
func (s *GameScene) handleLetter(r string) {
	if kind, ok := s.session.TowerConfig().ByKey(r); ok {
		s.selectKind(kind)
		return
	}

	switch r {
	case "p":
		s.showToast(onOff("Path overlay", s.settings.ToggleShowPath()))
	case "g":
		s.showToast(onOff("Grid lines", s.settings.ToggleShowGridLines()))
	case "v":
		s.showToast(onOff("Reachable cells", s.settings.ToggleShowReachable()))
	case "m":
		enabled := !s.settings.GetSettings().SoundEnabled
		s.settings.SetSoundEnabled(enabled)
		s.showToast(onOff("Sound", enabled))
	case "n":
		if s.sceneManager != nil && s.sceneManager.Restart() {
			log.Printf("[GameScene] Restarted")
		}
	}
}

func onOff(label string, on bool) string {
	if on {
		return label + ": on"
	}
	return label + ": off"
}

// selectKind 选择要建造的塔类型
func (s *GameScene) selectKind(kind string) bool {
	tower, ok := s.session.TowerConfig().GetTower(kind)
	if !ok {
		return false
	}
	s.selectedKind = kind
	s.showToast(fmt.Sprintf("%s selected (%d bricks)", tower.Name, tower.Cost))
	return true
}

// buildAt 在格子上建造所选的塔
// 拒绝原因由 onEvent 通过 BuildRejected 事件显示
func (s *GameScene) buildAt(c arena.Cell) error {
	if s.selectedKind == "" {
		return errors.New("no tower selected")
	}
	_, err := s.session.Build(c, s.selectedKind)
	return err
}

// removeAt 拆除格子上的塔（空格子不做任何事）
func (s *GameScene) removeAt(c arena.Cell) error {
	err := s.session.Remove(c)
	if err != nil {
		log.Printf("[GameScene] Remove %s failed: %v", c, err)
	}
	return err
}

// togglePause 暂停/继续
func (s *GameScene) togglePause() {
	s.isPaused = !s.isPaused
	log.Printf("[GameScene] Paused: %v", s.isPaused)
}

// changeLevel 调试用：直接调整等级
func (s *GameScene) changeLevel(delta int) {
	next := s.session.Level() + delta
	if next < 1 {
		return
	}
	s.session.SetLevel(next)
}

// currentLayout 当前迷宫布局
func (s *GameScene) currentLayout() game.Layout {
	return game.Layout{
		GridSize: s.session.Grid().Size(),
		Towers:   s.session.PlacedTowers(),
	}
}

// saveLayout 保存当前布局，返回摘要
func (s *GameScene) saveLayout() (string, error) {
	if s.layouts == nil {
		return "", errors.New("no layout store")
	}
	return s.layouts.Save(s.currentLayout())
}

// loadLayout 在当前对局上重建最近保存的布局
// 照常扣砖块；买不起或已被占用的格子会被跳过
func (s *GameScene) loadLayout() (int, error) {
	if s.layouts == nil {
		return 0, errors.New("no layout store")
	}
	layout, err := s.layouts.Last()
	if err != nil {
		if errors.Is(err, game.ErrLayoutNotFound) {
			s.showToast("No saved layout")
		}
		return 0, err
	}
	if layout.GridSize != s.session.Grid().Size() {
		s.showToast("Saved layout is for another arena size")
		return 0, fmt.Errorf("layout grid size %d does not match %d", layout.GridSize, s.session.Grid().Size())
	}

	built, err := s.session.ApplyLayout(layout.Towers)
	if err != nil {
		log.Printf("[GameScene] Layout partially applied: %v", err)
	}
	s.showToast(fmt.Sprintf("Layout loaded: %d of %d towers", built, len(layout.Towers)))
	return built, err
}
