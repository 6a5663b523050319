package systems

import (
	"log"
	"math"

	"github.com/decker502/mazetd/pkg/arena"
	"github.com/decker502/mazetd/pkg/components"
	"github.com/decker502/mazetd/pkg/config"
	"github.com/decker502/mazetd/pkg/ecs"
	"github.com/decker502/mazetd/pkg/events"
)

// AttackFlashDuration 攻击线显示时间（秒），渲染层据此计算淡出
const AttackFlashDuration = 0.15

// TowerSystem 塔的索敌与攻击
//
// 攻击是即时命中的：装填完成后，对射程内最近的敌人造成伤害并附加塔的状态效果。
// 生命值降到 0 的敌人发布 AgentFinished(ReasonKilled)，由刷怪系统移除。
type TowerSystem struct {
	entityManager *ecs.EntityManager
	grid          *arena.Grid
	towers        *config.TowerConfig
	events        *events.Queue
}

// NewTowerSystem 创建塔系统
func NewTowerSystem(em *ecs.EntityManager, grid *arena.Grid, towers *config.TowerConfig, queue *events.Queue) *TowerSystem {
	return &TowerSystem{
		entityManager: em,
		grid:          grid,
		towers:        towers,
		events:        queue,
	}
}

// Update 推进所有塔的装填并攻击
func (s *TowerSystem) Update(dt float64) {
	towers := ecs.GetEntitiesWith2[*components.TowerComponent, *components.PositionComponent](s.entityManager)
	for _, id := range towers {
		if s.entityManager.IsPendingDestroy(id) {
			continue
		}
		tower, _ := ecs.GetComponent[*components.TowerComponent](s.entityManager, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)

		if tower.FlashTime > 0 {
			tower.FlashTime = math.Max(0, tower.FlashTime-dt)
		}

		kind, ok := s.towers.GetTower(tower.KindID)
		if !ok || !kind.IsWeapon() {
			continue
		}

		if tower.Cooldown > 0 {
			tower.Cooldown -= dt
			if tower.Cooldown > 0 {
				continue
			}
		}

		target, found := s.findTarget(pos.Pos, kind.Range*s.grid.CellSize())
		if !found {
			// 保持就绪状态
			tower.Cooldown = 0
			continue
		}

		s.fire(id, tower, kind, target)
		tower.Cooldown = kind.Reload
	}
}

// findTarget 射程内距离最近的存活敌人（距离相同时取ID较小者）
func (s *TowerSystem) findTarget(from arena.Vec2, radius float64) (ecs.EntityID, bool) {
	agents := ecs.GetEntitiesWith3[*components.AgentComponent, *components.PositionComponent, *components.HealthComponent](s.entityManager)

	best := ecs.NoEntity
	bestDist := math.Inf(1)
	for _, id := range agents {
		if s.entityManager.IsPendingDestroy(id) {
			continue
		}
		health, _ := ecs.GetComponent[*components.HealthComponent](s.entityManager, id)
		if health.IsDead() {
			continue
		}
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		d := from.DistanceTo(pos.Pos)
		if d <= radius && d < bestDist {
			best = id
			bestDist = d
		}
	}
	return best, best != ecs.NoEntity
}

// fire 对目标造成伤害并附加效果
func (s *TowerSystem) fire(towerID ecs.EntityID, tower *components.TowerComponent, kind config.TowerKind, target ecs.EntityID) {
	tower.TargetID = target
	tower.FlashTime = AttackFlashDuration

	if kind.Effect != nil {
		if effects, ok := ecs.GetComponent[*components.StatusEffectsComponent](s.entityManager, target); ok {
			effectKind, err := components.ParseEffectKind(kind.Effect.Kind)
			if err == nil && effectKind != components.EffectNone {
				if err := effects.Apply(effectKind, kind.Effect.Duration, kind.Effect.Potency); err != nil {
					log.Printf("[TowerSystem] Warning: tower %d effect: %v", towerID, err)
				}
			}
		}
	}

	health, _ := ecs.GetComponent[*components.HealthComponent](s.entityManager, target)
	health.CurrentHealth -= kind.Damage
	if !health.IsDead() {
		return
	}

	cell := arena.Cell{}
	if pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, target); ok {
		cell = s.grid.WorldToCell(pos.Pos)
	}
	log.Printf("[TowerSystem] Tower %d (%s) killed agent %d", towerID, tower.KindID, target)
	s.events.Publish(events.EventAgentFinished, events.AgentFinishedPayload{
		Agent:  target,
		Cell:   cell,
		Reason: events.ReasonKilled,
	})
}
