package systems

import (
	"github.com/decker502/mazetd/pkg/arena"
	"github.com/decker502/mazetd/pkg/components"
	"github.com/decker502/mazetd/pkg/ecs"
	"github.com/decker502/mazetd/pkg/events"
	"github.com/decker502/mazetd/pkg/pathfinding"
)

// WaypointEpsilon 与路点的距离小于该值即视为到达
const WaypointEpsilon = 1e-3

// PathFollowSystem 驱动敌人沿 BFS 路径走向终点
//
// 每个敌人只在到达路点（或尚无路点）时才重新寻路，而不是每帧寻路。
// 路点所在格子在两次 tick 之间被占用时，下一次 tick 会立即重新规划。
type PathFollowSystem struct {
	entityManager *ecs.EntityManager
	grid          *arena.Grid
	events        *events.Queue
}

// NewPathFollowSystem 创建寻路跟随系统
func NewPathFollowSystem(em *ecs.EntityManager, grid *arena.Grid, queue *events.Queue) *PathFollowSystem {
	return &PathFollowSystem{
		entityManager: em,
		grid:          grid,
		events:        queue,
	}
}

// Update 按实体ID升序推进所有敌人
func (s *PathFollowSystem) Update(dt float64) {
	entities := ecs.GetEntitiesWith2[*components.PositionComponent, *components.PathFollowerComponent](s.entityManager)
	for _, id := range entities {
		s.TickAgent(id, dt)
	}
}

// TickAgent 推进单个敌人一个 tick
func (s *PathFollowSystem) TickAgent(id ecs.EntityID, dt float64) {
	if s.entityManager.IsPendingDestroy(id) {
		return
	}
	pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
	if !ok {
		return
	}
	follower, ok := ecs.GetComponent[*components.PathFollowerComponent](s.entityManager, id)
	if !ok {
		return
	}

	// 1. 有效速度：先按当前效果计算，再让效果计时
	// 无论本 tick 是否移动，效果都要计时
	speed := follower.BaseSpeed
	if effects, ok := ecs.GetComponent[*components.StatusEffectsComponent](s.entityManager, id); ok {
		speed *= effects.SpeedMultiplier()
		effects.Tick(dt)
	}
	follower.CurrentSpeed = speed

	// 2. 需要时重新规划
	if !s.ensureWaypoint(id, pos, follower) {
		return
	}

	// 3. 移动；越过路点的剩余距离延续到下一段
	remaining := speed * dt
	for remaining > 0 {
		next, leftover := pos.Pos.MoveToward(follower.Waypoint, remaining)
		pos.Pos = next
		remaining = leftover

		if pos.Pos.DistanceTo(follower.Waypoint) >= WaypointEpsilon {
			return
		}

		// 4. 到达路点：终点则重生，否则规划下一段
		pos.Pos = follower.Waypoint
		if follower.WaypointCell == s.grid.Goal() {
			s.reachGoal(id, pos, follower)
			return
		}
		follower.ClearWaypoint()
		if remaining <= 0 {
			return
		}
		if !s.ensureWaypoint(id, pos, follower) {
			return
		}
	}
}

// ensureWaypoint 确保敌人有一个有效的路点
// 返回 false 表示本 tick 不再移动该敌人（到达终点或无路可走）
func (s *PathFollowSystem) ensureWaypoint(id ecs.EntityID, pos *components.PositionComponent, follower *components.PathFollowerComponent) bool {
	if follower.HasWaypoint {
		// 路点格子在选定之后被占用：放弃该路点
		if s.grid.InBounds(follower.WaypointCell) && s.grid.IsOccupied(follower.WaypointCell) {
			follower.ClearWaypoint()
		} else if pos.Pos.DistanceTo(follower.Waypoint) >= WaypointEpsilon {
			return true
		} else {
			follower.ClearWaypoint()
		}
	}

	current := s.grid.WorldToCell(pos.Pos)
	goal := s.grid.Goal()
	if current == goal {
		s.reachGoal(id, pos, follower)
		return false
	}

	path, found := pathfinding.FindPath(s.grid, current, goal)
	if !found || len(path) < 2 {
		follower.ClearWaypoint()
		s.events.Publish(events.EventAgentFinished, events.AgentFinishedPayload{
			Agent:  id,
			Cell:   current,
			Reason: events.ReasonStuck,
		})
		return false
	}

	next := path[1]
	follower.SetWaypoint(next, s.grid.CellToWorld(next))
	s.events.Publish(events.EventPathChanged, events.PathChangedPayload{
		Agent: id,
		Next:  next,
		Path:  path,
	})
	return true
}

// reachGoal 发布到达事件并把敌人放回起点
func (s *PathFollowSystem) reachGoal(id ecs.EntityID, pos *components.PositionComponent, follower *components.PathFollowerComponent) {
	s.events.Publish(events.EventAgentFinished, events.AgentFinishedPayload{
		Agent:  id,
		Cell:   s.grid.Goal(),
		Reason: events.ReasonReachedGoal,
	})
	pos.Pos = s.grid.CellToWorld(s.grid.Start())
	follower.ClearWaypoint()
}
