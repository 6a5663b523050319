package game

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// SceneFactory 创建新对局场景的工厂函数，用于重新开局时避免循环依赖
type SceneFactory func() Scene

// SceneManager 管理当前活动的场景
// 同一时刻只有一个场景的 Update 和 Draw 会被调用
type SceneManager struct {
	currentScene Scene
	sceneFactory SceneFactory
}

// NewSceneManager 创建场景管理器（初始没有活动场景）
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SetSceneFactory 设置场景工厂函数
func (sm *SceneManager) SetSceneFactory(factory SceneFactory) {
	sm.sceneFactory = factory
}

// SwitchTo 切换到指定场景
func (sm *SceneManager) SwitchTo(scene Scene) {
	sm.currentScene = scene
}

// GetCurrentScene 返回当前活动的场景，没有时返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// Restart 通过工厂函数创建新场景并切换过去
//
// 返回：
//   - bool: 工厂未设置或创建失败时返回 false
func (sm *SceneManager) Restart() bool {
	if sm.sceneFactory == nil {
		log.Printf("[SceneManager] Error: SceneFactory not set")
		return false
	}

	next := sm.sceneFactory()
	if next == nil {
		log.Printf("[SceneManager] Error: SceneFactory returned nil")
		return false
	}
	sm.SwitchTo(next)
	log.Printf("[SceneManager] Restarted scene")
	return true
}

// Update 更新当前场景
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw 绘制当前场景
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}

// SaveOnExit 当前场景实现 Saveable 时调用其 SaveOnExit
func (sm *SceneManager) SaveOnExit() bool {
	if saveable, ok := sm.currentScene.(Saveable); ok {
		return saveable.SaveOnExit()
	}
	return true
}
