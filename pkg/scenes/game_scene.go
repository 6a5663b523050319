package scenes

import (
	"errors"
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/decker502/mazetd/pkg/arena"
	"github.com/decker502/mazetd/pkg/config"
	"github.com/decker502/mazetd/pkg/events"
	"github.com/decker502/mazetd/pkg/game"
	"github.com/decker502/mazetd/pkg/simulation"
	"github.com/decker502/mazetd/pkg/systems"
	"github.com/decker502/mazetd/pkg/utils"
)

// toastDuration 提示文字显示时长（秒）
const toastDuration = 2.5

// GameScene 对局场景
//
// 场景只负责输入和绘制，所有规则都在 simulation.Session 中。
// 场景订阅会话事件来播放音效和显示提示。
type GameScene struct {
	session      *simulation.Session
	sceneManager *game.SceneManager
	settings     *game.SettingsManager
	audio        *game.AudioManager
	layouts      *game.LayoutStore

	viewport utils.Viewport

	// 玩家选择的塔类型（towers.yaml 中的ID）
	selectedKind string

	// 鼠标悬停的格子
	hoverCell  arena.Cell
	hoverValid bool

	isPaused bool

	// 屏幕下方的提示文字
	toast     string
	toastLeft float64

	// HUD 字体（加载失败时回退到 ebitenutil.DebugPrintAt）
	hudFace   *text.GoTextFace
	titleFace *text.GoTextFace
}

// NewGameScene 创建对局场景
//
// 参数:
//   - session: 对局会话
//   - sm: 场景管理器（N 键重开一局）
//   - settings: 设置管理器（覆盖层开关、音量）
//   - am: 音频管理器，可以是静音的
//   - layouts: 迷宫布局存储
func NewGameScene(session *simulation.Session, sm *game.SceneManager, settings *game.SettingsManager, am *game.AudioManager, layouts *game.LayoutStore) *GameScene {
	s := &GameScene{
		session:      session,
		sceneManager: sm,
		settings:     settings,
		audio:        am,
		layouts:      layouts,
		viewport: utils.Viewport{
			Width:  config.GameWindowWidth,
			Height: config.GameWindowHeight,
		},
		selectedKind: defaultKind(session.TowerConfig()),
	}

	var err error
	if s.hudFace, err = newFace(hudFontSize); err != nil {
		log.Printf("[GameScene] Warning: HUD font unavailable, using debug text: %v", err)
	}
	if s.titleFace, err = newFace(titleFontSize); err != nil {
		s.titleFace = nil
	}

	for _, t := range []events.EventType{
		events.EventBuildRejected,
		events.EventObstacleBuilt,
		events.EventAgentFinished,
		events.EventLevelChanged,
	} {
		session.Subscribe(t, s.onEvent)
	}

	log.Printf("[GameScene] Session %s ready, selected tower: %s", session.ID, s.selectedKind)
	return s
}

// defaultKind 默认选中最便宜的塔（通常是墙）
func defaultKind(towers *config.TowerConfig) string {
	best := ""
	bestCost := 0
	for _, id := range towers.IDs() {
		kind, _ := towers.GetTower(id)
		if best == "" || kind.Cost < bestCost {
			best, bestCost = id, kind.Cost
		}
	}
	return best
}

// Update 处理输入并推进对局
func (s *GameScene) Update(deltaTime float64) {
	s.handleInput()
	s.advance(deltaTime)
}

// advance 推进提示计时和对局（暂停时对局不动）
func (s *GameScene) advance(deltaTime float64) {
	if s.toastLeft > 0 {
		s.toastLeft -= deltaTime
		if s.toastLeft <= 0 {
			s.toast = ""
		}
	}

	if s.isPaused {
		return
	}
	s.session.Update(deltaTime)
}

// Draw 按层次绘制：背景 -> 覆盖层 -> 塔 -> 攻击 -> 敌人 -> 悬停 -> HUD
func (s *GameScene) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	s.drawArena(screen)
	if st := s.settings.GetSettings(); st != nil {
		if st.ShowReachable {
			s.drawReachable(screen)
		}
		if st.ShowPath {
			s.drawPath(screen)
		}
		if st.ShowGridLines {
			s.drawGridLines(screen)
		}
	}
	s.drawTowers(screen)
	s.drawAttacks(screen)
	s.drawAgents(screen)
	s.drawHover(screen)

	s.drawHUD(screen)
	s.drawPalette(screen)
	s.drawHelp(screen)
	s.drawToast(screen)
	if s.isPaused {
		s.drawPauseOverlay(screen)
	}
	s.drawFPS(screen)
}

// SaveOnExit 保存设置和当前迷宫布局
func (s *GameScene) SaveOnExit() bool {
	ok := true
	if err := s.settings.Save(); err != nil {
		log.Printf("[GameScene] Failed to save settings: %v", err)
		ok = false
	}
	if _, err := s.saveLayout(); err != nil {
		log.Printf("[GameScene] Failed to save layout: %v", err)
		ok = false
	}
	return ok
}

// Session 当前对局
func (s *GameScene) Session() *simulation.Session {
	return s.session
}

// onEvent 会话事件的观察者
func (s *GameScene) onEvent(ev events.GameEvent) {
	if s.audio != nil {
		s.audio.PlayForEvent(ev)
	}

	switch p := ev.Payload.(type) {
	case events.BuildRejectedPayload:
		s.showToast(rejectMessage(p))
	case events.LevelChangedPayload:
		if p.To > p.From {
			s.showToast(fmt.Sprintf("Level %d", p.To))
		} else {
			s.showToast(fmt.Sprintf("Level down: %d", p.To))
		}
	}
}

// rejectMessage 建造被拒绝时给玩家看的提示
func rejectMessage(p events.BuildRejectedPayload) string {
	switch {
	case errors.Is(p.Err, systems.ErrBlocksPath):
		return fmt.Sprintf("Cannot build at %s: it would block the path", p.Cell)
	case errors.Is(p.Err, systems.ErrUnaffordable):
		return "Not enough bricks"
	case errors.Is(p.Err, systems.ErrCellReserved):
		return "Cannot build on the start or goal"
	case errors.Is(p.Err, systems.ErrCellOccupied):
		return fmt.Sprintf("%s is already taken", p.Cell)
	case errors.Is(p.Err, arena.ErrOutOfBounds):
		return "Outside the arena"
	}
	return fmt.Sprintf("Cannot build at %s", p.Cell)
}

// showToast 在屏幕下方显示一条提示
func (s *GameScene) showToast(msg string) {
	s.toast = msg
	s.toastLeft = toastDuration
}
