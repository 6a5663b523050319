package components

import "github.com/decker502/mazetd/pkg/arena"

// PathFollowerComponent 敌人的寻路状态
//
// HasWaypoint 为 false 表示需要向寻路器查询下一步；
// WaypointCell 与 Waypoint 对应同一个格子（Waypoint 是其中心的世界坐标）。
type PathFollowerComponent struct {
	Waypoint     arena.Vec2
	WaypointCell arena.Cell
	HasWaypoint  bool
	BaseSpeed    float64 // 世界单位/秒

	// CurrentSpeed 上一个 tick 的实际速度（用于 HUD/调试显示）
	CurrentSpeed float64
}

// ClearWaypoint 清除当前路点，下一个 tick 将重新规划
func (p *PathFollowerComponent) ClearWaypoint() {
	p.HasWaypoint = false
	p.Waypoint = arena.Vec2{}
	p.WaypointCell = arena.Cell{}
}

// SetWaypoint 设置下一个路点
func (p *PathFollowerComponent) SetWaypoint(cell arena.Cell, world arena.Vec2) {
	p.WaypointCell = cell
	p.Waypoint = world
	p.HasWaypoint = true
}
