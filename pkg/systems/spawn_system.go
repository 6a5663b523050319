package systems

import (
	"log"

	"github.com/decker502/mazetd/pkg/arena"
	"github.com/decker502/mazetd/pkg/components"
	"github.com/decker502/mazetd/pkg/config"
	"github.com/decker502/mazetd/pkg/ecs"
	"github.com/decker502/mazetd/pkg/events"
)

// SpawnSystem 管理刷怪器和敌人的生成/移除
//
// 每个等级部署一个刷怪器，刷怪器在起点格子中心生成敌人。
// 刷怪器ID由系统自己持有的 IDAllocator 分配，不依赖全局计数器。
type SpawnSystem struct {
	entityManager *ecs.EntityManager
	grid          *arena.Grid
	events        *events.Queue
	config        *config.GameConfig

	spawnerIDs ecs.IDAllocator
}

// NewSpawnSystem 创建刷怪系统
func NewSpawnSystem(em *ecs.EntityManager, grid *arena.Grid, cfg *config.GameConfig, queue *events.Queue) *SpawnSystem {
	return &SpawnSystem{
		entityManager: em,
		grid:          grid,
		events:        queue,
		config:        cfg,
	}
}

// Deploy 移除现有刷怪器并为 level 部署新的刷怪器
// level 超过配置的 MaxLevel 时不再部署（场上已有的敌人不受影响）
//
// 返回:
//   - ecs.EntityID: 新刷怪器实体；未部署时返回 ecs.NoEntity
func (s *SpawnSystem) Deploy(level int) ecs.EntityID {
	for _, id := range ecs.GetEntitiesWith1[*components.SpawnerComponent](s.entityManager) {
		s.entityManager.DestroyEntity(id)
	}

	if level > s.config.Level.MaxLevel {
		log.Printf("[SpawnSystem] Level %d exceeds max level %d, no spawner deployed", level, s.config.Level.MaxLevel)
		return ecs.NoEntity
	}

	spawn := s.config.Spawn
	spawner := &components.SpawnerComponent{
		ID:        s.spawnerIDs.Next(),
		Level:     level,
		AgentKind: spawn.AgentKind,
		Period:    spawn.SpawnPeriod(level),
		MaxCount:  spawn.MaxCount(level),
		MaxKill:   spawn.MaxKill(level),
	}

	id := s.entityManager.CreateEntity()
	ecs.AddComponent(s.entityManager, id, spawner)

	log.Printf("[SpawnSystem] Deployed spawner %d for level %d (period=%.2fs, maxCount=%d, maxKill=%d)",
		spawner.ID, level, spawner.Period, spawner.MaxCount, spawner.MaxKill)
	return id
}

// Update 推进刷怪计时器并清理越界的敌人
func (s *SpawnSystem) Update(dt float64) {
	for _, id := range ecs.GetEntitiesWith1[*components.SpawnerComponent](s.entityManager) {
		if s.entityManager.IsPendingDestroy(id) {
			continue
		}
		spawner, _ := ecs.GetComponent[*components.SpawnerComponent](s.entityManager, id)

		spawner.Timer += dt
		if spawner.Timer < spawner.Period {
			continue
		}
		if spawner.CurrentCount >= spawner.MaxCount {
			// 满员时保持就绪，有空位立即刷新
			spawner.Timer = spawner.Period
			continue
		}
		spawner.Timer -= spawner.Period
		s.spawnAgent(spawner)
	}

	s.despawnOutOfArena()
}

// spawnAgent 在起点生成一个敌人
func (s *SpawnSystem) spawnAgent(spawner *components.SpawnerComponent) ecs.EntityID {
	kind, ok := s.config.GetAgentKind(spawner.AgentKind)
	if !ok {
		log.Printf("[SpawnSystem] Warning: unknown agent kind %q, spawner %d skipped", spawner.AgentKind, spawner.ID)
		return ecs.NoEntity
	}

	// 生命值随等级线性增长
	health := kind.Health * spawner.Level

	id := s.entityManager.CreateEntity()
	ecs.AddComponent(s.entityManager, id, &components.PositionComponent{
		Pos: s.grid.CellToWorld(s.grid.Start()),
	})
	ecs.AddComponent(s.entityManager, id, &components.PathFollowerComponent{
		BaseSpeed: kind.Speed,
	})
	ecs.AddComponent(s.entityManager, id, components.NewStatusEffectsComponent())
	ecs.AddComponent(s.entityManager, id, &components.HealthComponent{
		CurrentHealth: health,
		MaxHealth:     health,
	})
	ecs.AddComponent(s.entityManager, id, &components.AgentComponent{
		SpawnerID: spawner.ID,
		Kind:      spawner.AgentKind,
		Bounty:    kind.Bounty,
	})

	spawner.CurrentCount++
	s.events.Publish(events.EventAgentSpawned, events.AgentSpawnedPayload{Agent: id, SpawnerID: spawner.ID})
	log.Printf("[SpawnSystem] Spawner %d spawned agent %d (%d/%d alive)", spawner.ID, id, spawner.CurrentCount, spawner.MaxCount)
	return id
}

// findSpawner 按刷怪器ID查找组件（刷怪器可能已随升级被移除）
func (s *SpawnSystem) findSpawner(spawnerID uint64) (*components.SpawnerComponent, bool) {
	for _, id := range ecs.GetEntitiesWith1[*components.SpawnerComponent](s.entityManager) {
		spawner, _ := ecs.GetComponent[*components.SpawnerComponent](s.entityManager, id)
		if spawner.ID == spawnerID {
			return spawner, true
		}
	}
	return nil, false
}

// Despawn 移除敌人并更新所属刷怪器的计数
// 对同一个敌人重复调用是安全的（只生效一次）
func (s *SpawnSystem) Despawn(agentID ecs.EntityID, reason events.FinishReason) {
	if !s.entityManager.Exists(agentID) || s.entityManager.IsPendingDestroy(agentID) {
		return
	}
	agent, ok := ecs.GetComponent[*components.AgentComponent](s.entityManager, agentID)
	if !ok {
		return
	}

	if spawner, ok := s.findSpawner(agent.SpawnerID); ok {
		if spawner.CurrentCount > 0 {
			spawner.CurrentCount--
		}
		if reason == events.ReasonKilled {
			spawner.CurrentKill++
		}
	}

	s.entityManager.DestroyEntity(agentID)
	s.events.Publish(events.EventAgentDespawned, events.AgentDespawnedPayload{
		Agent:     agentID,
		SpawnerID: agent.SpawnerID,
		Reason:    reason,
	})
	log.Printf("[SpawnSystem] Agent %d despawned (%s)", agentID, reason)
}

// despawnOutOfArena 场上敌人过多时清理离开网格范围的敌人
func (s *SpawnSystem) despawnOutOfArena() {
	agents := ecs.GetEntitiesWith2[*components.AgentComponent, *components.PositionComponent](s.entityManager)
	if len(agents) <= s.config.Spawn.DespawnCrowd {
		return
	}
	for _, id := range agents {
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		if !s.grid.ContainsWorld(pos.Pos) {
			s.Despawn(id, events.ReasonLeftArena)
		}
	}
}

// AllCompleted 所有刷怪器是否都达到了击杀目标
// 没有刷怪器时返回 false
func (s *SpawnSystem) AllCompleted() bool {
	spawners := ecs.GetEntitiesWith1[*components.SpawnerComponent](s.entityManager)
	if len(spawners) == 0 {
		return false
	}
	for _, id := range spawners {
		if s.entityManager.IsPendingDestroy(id) {
			return false
		}
		spawner, _ := ecs.GetComponent[*components.SpawnerComponent](s.entityManager, id)
		if !spawner.Completed() {
			return false
		}
	}
	return true
}

// AliveAgents 当前场上的敌人数量（不含待删除的）
func (s *SpawnSystem) AliveAgents() int {
	count := 0
	for _, id := range ecs.GetEntitiesWith1[*components.AgentComponent](s.entityManager) {
		if !s.entityManager.IsPendingDestroy(id) {
			count++
		}
	}
	return count
}

// Progress 当前刷怪器的击杀进度（用于 HUD）
func (s *SpawnSystem) Progress() (kills, target int) {
	for _, id := range ecs.GetEntitiesWith1[*components.SpawnerComponent](s.entityManager) {
		if s.entityManager.IsPendingDestroy(id) {
			continue
		}
		spawner, _ := ecs.GetComponent[*components.SpawnerComponent](s.entityManager, id)
		kills += spawner.CurrentKill
		target += spawner.MaxKill
	}
	return kills, target
}
