package simulation

import (
	"errors"
	"fmt"

	"github.com/decker502/mazetd/pkg/arena"
	"github.com/decker502/mazetd/pkg/components"
	"github.com/decker502/mazetd/pkg/ecs"
)

// AgentView 渲染一个敌人所需的只读数据
type AgentView struct {
	ID          ecs.EntityID
	Pos         arena.Vec2
	Cell        arena.Cell
	HealthRatio float64
	Slowed      bool
	Waypoint    arena.Cell
	HasWaypoint bool
}

// TowerView 渲染一座塔所需的只读数据
type TowerView struct {
	ID     ecs.EntityID
	Kind   string
	Cell   arena.Cell
	Pos    arena.Vec2
	Flash  float64
	Target arena.Vec2 // Flash > 0 时有效
}

// PlacedTower 布局中的一座塔
type PlacedTower struct {
	Cell arena.Cell `yaml:"cell"`
	Kind string     `yaml:"kind"`
}

// Agents 当前存活的敌人（按实体ID升序）
func (s *Session) Agents() []AgentView {
	ids := ecs.GetEntitiesWith2[*components.AgentComponent, *components.PositionComponent](s.entityManager)
	views := make([]AgentView, 0, len(ids))
	for _, id := range ids {
		if s.entityManager.IsPendingDestroy(id) {
			continue
		}
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		v := AgentView{
			ID:          id,
			Pos:         pos.Pos,
			Cell:        s.grid.WorldToCell(pos.Pos),
			HealthRatio: 1,
		}
		if health, ok := ecs.GetComponent[*components.HealthComponent](s.entityManager, id); ok {
			v.HealthRatio = health.Ratio()
		}
		if effects, ok := ecs.GetComponent[*components.StatusEffectsComponent](s.entityManager, id); ok {
			v.Slowed = effects.Has(components.EffectSlow)
		}
		if follower, ok := ecs.GetComponent[*components.PathFollowerComponent](s.entityManager, id); ok {
			v.Waypoint = follower.WaypointCell
			v.HasWaypoint = follower.HasWaypoint
		}
		views = append(views, v)
	}
	return views
}

// Towers 当前所有的塔（按实体ID升序）
func (s *Session) Towers() []TowerView {
	ids := ecs.GetEntitiesWith2[*components.TowerComponent, *components.PositionComponent](s.entityManager)
	views := make([]TowerView, 0, len(ids))
	for _, id := range ids {
		if s.entityManager.IsPendingDestroy(id) {
			continue
		}
		tower, _ := ecs.GetComponent[*components.TowerComponent](s.entityManager, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		v := TowerView{
			ID:    id,
			Kind:  tower.KindID,
			Cell:  tower.Cell,
			Pos:   pos.Pos,
			Flash: tower.FlashTime,
		}
		if tower.FlashTime > 0 {
			if target, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, tower.TargetID); ok {
				v.Target = target.Pos
			} else {
				v.Flash = 0
			}
		}
		views = append(views, v)
	}
	return views
}

// PlacedTowers 当前布局（用于保存）
func (s *Session) PlacedTowers() []PlacedTower {
	towers := s.Towers()
	placed := make([]PlacedTower, len(towers))
	for i, t := range towers {
		placed[i] = PlacedTower{Cell: t.Cell, Kind: t.Kind}
	}
	return placed
}

// ApplyLayout 按顺序建造布局中的塔（照常扣费和校验）
//
// 返回:
//   - int: 成功建造的数量
//   - error: 所有失败原因的合并，全部成功时为 nil
func (s *Session) ApplyLayout(towers []PlacedTower) (int, error) {
	built := 0
	var errs []error
	for _, t := range towers {
		if _, err := s.Build(t.Cell, t.Kind); err != nil {
			errs = append(errs, fmt.Errorf("%s at %s: %w", t.Kind, t.Cell, err))
			continue
		}
		built++
	}
	return built, errors.Join(errs...)
}
