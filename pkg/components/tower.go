package components

import (
	"github.com/decker502/mazetd/pkg/arena"
	"github.com/decker502/mazetd/pkg/ecs"
)

// TowerComponent 标识实体为塔（网格障碍物）
type TowerComponent struct {
	KindID string     // 塔类型（config.TowerConfig.Towers 中的键）
	Cell   arena.Cell // 占用的格子

	// Cooldown 距离下一次可以攻击的剩余时间（秒）
	Cooldown float64
	// TargetID 最近一次攻击的目标（用于绘制攻击线），0 表示无
	TargetID ecs.EntityID
	// FlashTime 攻击线剩余显示时间（秒）
	FlashTime float64
}
