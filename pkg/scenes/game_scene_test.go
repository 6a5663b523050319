package scenes

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/decker502/mazetd/pkg/arena"
	"github.com/decker502/mazetd/pkg/config"
	"github.com/decker502/mazetd/pkg/events"
	"github.com/decker502/mazetd/pkg/game"
	"github.com/decker502/mazetd/pkg/simulation"
	"github.com/decker502/mazetd/pkg/systems"
)

// newTestScene 创建使用内存存储和静音音频的场景
func newTestScene(t *testing.T, layouts *game.LayoutStore) *GameScene {
	t.Helper()
	towers, err := config.LoadTowerConfig(filepath.Join("..", "..", "data", "towers.yaml"))
	if err != nil {
		t.Fatalf("LoadTowerConfig failed: %v", err)
	}
	session, err := simulation.NewSession(config.DefaultGameConfig(), towers)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	if layouts == nil {
		layouts = game.NewLayoutStore(nil)
	}
	settings := game.NewSettingsManager(nil)
	return NewGameScene(session, game.NewSceneManager(), settings, game.NewAudioManager(nil, settings), layouts)
}

func TestNewGameScene(t *testing.T) {
	s := newTestScene(t, nil)

	var _ game.Scene = s
	var _ game.Saveable = s

	if s.selectedKind != "wall" {
		t.Errorf("Expected the cheapest tower to be selected, got %q", s.selectedKind)
	}
	if s.hudFace == nil || s.titleFace == nil {
		t.Error("Go Regular font faces should load from memory")
	}
	if s.isPaused {
		t.Error("Scene should not start paused")
	}
}

func TestGameScene_HandleLetter(t *testing.T) {
	s := newTestScene(t, nil)

	tests := []struct {
		name  string
		key   string
		check func(*GameScene) bool
	}{
		{"r 选择步枪塔", "r", func(s *GameScene) bool { return s.selectedKind == "rifle" }},
		{"i 选择冰塔", "i", func(s *GameScene) bool { return s.selectedKind == "ice" }},
		{"p 关闭路径覆盖层", "p", func(s *GameScene) bool { return !s.settings.GetSettings().ShowPath }},
		{"g 关闭网格线", "g", func(s *GameScene) bool { return !s.settings.GetSettings().ShowGridLines }},
		{"v 打开可达格子", "v", func(s *GameScene) bool { return s.settings.GetSettings().ShowReachable }},
		{"m 静音", "m", func(s *GameScene) bool { return !s.settings.GetSettings().SoundEnabled }},
		{"未绑定的键保持选择", "z", func(s *GameScene) bool { return s.selectedKind == "ice" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.handleLetter(tt.key)
			if !tt.check(s) {
				t.Errorf("Key %q had no effect (selected=%q settings=%+v)", tt.key, s.selectedKind, *s.settings.GetSettings())
			}
		})
	}
}

func TestGameScene_BuildAndRemove(t *testing.T) {
	s := newTestScene(t, nil)

	if err := s.buildAt(arena.C(5, 5)); err != nil {
		t.Fatalf("buildAt failed: %v", err)
	}
	if got := len(s.Session().Towers()); got != 1 {
		t.Fatalf("Expected 1 tower, got %d", got)
	}

	if err := s.buildAt(s.Session().Grid().Start()); !errors.Is(err, systems.ErrCellReserved) {
		t.Errorf("Expected ErrCellReserved, got %v", err)
	}
	if s.toast != "Cannot build on the start or goal" {
		t.Errorf("Rejection should show a toast, got %q", s.toast)
	}

	if s.canBuildHere(arena.C(5, 5)) {
		t.Error("Occupied cell should not be buildable")
	}
	if !s.canBuildHere(arena.C(2, 2)) {
		t.Error("Empty cell should be buildable")
	}

	if err := s.removeAt(arena.C(5, 5)); err != nil {
		t.Fatalf("removeAt failed: %v", err)
	}
	if got := len(s.Session().Towers()); got != 0 {
		t.Errorf("Expected no towers after removal, got %d", got)
	}
}

func TestGameScene_PauseStopsSession(t *testing.T) {
	s := newTestScene(t, nil)

	s.togglePause()
	s.advance(1)
	if s.Session().Stats().Ticks != 0 {
		t.Error("Paused scene should not advance the session")
	}

	s.togglePause()
	s.advance(1)
	if s.Session().Stats().Ticks != 1 {
		t.Errorf("Expected 1 tick after resuming, got %d", s.Session().Stats().Ticks)
	}
}

func TestGameScene_ToastExpires(t *testing.T) {
	s := newTestScene(t, nil)
	s.togglePause()

	s.showToast("hello")
	s.advance(toastDuration / 2)
	if s.toast != "hello" {
		t.Fatalf("Toast should still be visible, got %q", s.toast)
	}
	s.advance(toastDuration)
	if s.toast != "" {
		t.Errorf("Toast should have expired, got %q", s.toast)
	}
}

func TestGameScene_SaveAndLoadLayout(t *testing.T) {
	layouts := game.NewLayoutStore(nil)
	first := newTestScene(t, layouts)

	if _, err := first.loadLayout(); !errors.Is(err, game.ErrLayoutNotFound) {
		t.Errorf("Expected ErrLayoutNotFound before saving, got %v", err)
	}

	for _, c := range []arena.Cell{arena.C(5, 5), arena.C(5, 6)} {
		if err := first.buildAt(c); err != nil {
			t.Fatalf("buildAt %s failed: %v", c, err)
		}
	}
	digest, err := first.saveLayout()
	if err != nil || digest == "" {
		t.Fatalf("saveLayout failed: %q %v", digest, err)
	}

	second := newTestScene(t, layouts)
	built, err := second.loadLayout()
	if err != nil {
		t.Fatalf("loadLayout failed: %v", err)
	}
	if built != 2 {
		t.Errorf("Expected 2 towers rebuilt, got %d", built)
	}
	if second.Session().Player().Bricks != 3 {
		t.Errorf("Rebuilding should charge bricks as usual, got %d", second.Session().Player().Bricks)
	}
	if !second.SaveOnExit() {
		t.Error("SaveOnExit should succeed with in-memory stores")
	}
}

func TestRejectMessage(t *testing.T) {
	cell := arena.C(3, 4)
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"堵路", &systems.BuildRejectedError{Cell: cell, Reason: systems.RejectBlocksPath}, "block the path"},
		{"砖块不足", &systems.BuildRejectedError{Cell: cell, Reason: systems.RejectUnaffordable}, "Not enough bricks"},
		{"起点终点", &systems.BuildRejectedError{Cell: cell, Reason: systems.RejectReserved}, "start or goal"},
		{"已占用", &systems.BuildRejectedError{Cell: cell, Reason: systems.RejectOccupied}, "already taken"},
		{"越界", fmt.Errorf("wrapped: %w", arena.ErrOutOfBounds), "Outside the arena"},
		{"其他", errors.New("boom"), "Cannot build at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rejectMessage(events.BuildRejectedPayload{Cell: cell, Err: tt.err})
			if !strings.Contains(got, tt.want) {
				t.Errorf("rejectMessage() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestGameScene_HUDAndPalette(t *testing.T) {
	s := newTestScene(t, nil)

	lines := s.hudLines()
	if len(lines) != 3 {
		t.Fatalf("Expected 3 HUD lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "Level 1") || !strings.Contains(lines[1], "Bricks 5") {
		t.Errorf("Unexpected HUD %q", lines)
	}

	palette := s.paletteLines()
	if len(palette) != len(s.Session().TowerConfig().IDs()) {
		t.Fatalf("Expected one palette line per tower kind, got %d", len(palette))
	}
	for _, l := range palette {
		if strings.Contains(l.label, "Brick Wall") && !l.selected {
			t.Error("Wall should be highlighted as selected")
		}
		if strings.Contains(l.label, "Rifle") && !l.affordable {
			t.Error("5 bricks should afford a rifle")
		}
	}
}
