package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene 游戏场景（标题、对局等）
type Scene interface {
	// Update 推进场景逻辑，deltaTime 为距上一帧的秒数
	Update(deltaTime float64)

	// Draw 把场景绘制到 screen
	Draw(screen *ebiten.Image)
}

// Saveable 可选接口：场景在程序退出前保存状态（设置、最近的迷宫布局）
type Saveable interface {
	// SaveOnExit 返回 false 表示保存失败（程序仍会正常退出）
	SaveOnExit() bool
}
