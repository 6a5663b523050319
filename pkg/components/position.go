// Package components 定义游戏中的 ECS 组件
//
// 组件只保存数据，行为由 pkg/systems 中的系统实现。
package components

import "github.com/decker502/mazetd/pkg/arena"

// PositionComponent 实体在竞技场中的世界坐标
type PositionComponent struct {
	Pos arena.Vec2
}
