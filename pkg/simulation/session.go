// Package simulation 组装一局完整的塔防对局
//
// Session 持有实体管理器、占用网格、事件队列和所有系统，
// 按固定顺序推进一个 tick，并通过事件路由把系统之间的后果串起来
// （击杀奖励、漏怪扣血、死亡降级）。它不依赖任何渲染或输入库，
// ebiten 场景和终端前端都只是它的观察者。
package simulation

import (
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/decker502/mazetd/pkg/arena"
	"github.com/decker502/mazetd/pkg/components"
	"github.com/decker502/mazetd/pkg/config"
	"github.com/decker502/mazetd/pkg/ecs"
	"github.com/decker502/mazetd/pkg/events"
	"github.com/decker502/mazetd/pkg/pathfinding"
	"github.com/decker502/mazetd/pkg/systems"
)

// maxDispatchRounds 单个 tick 内事件连锁的最大轮数
// 正常情况下两轮即可清空（AgentFinished -> AgentDespawned）
const maxDispatchRounds = 8

// Stats 对局统计
type Stats struct {
	Ticks     int
	Elapsed   float64
	Spawned   int
	Killed    int
	Leaked    int
	Stuck     int
	LeftArena int
	Deaths    int
	Built     int
	Rejected  int
}

// Session 一局对局
type Session struct {
	ID string

	gameConfig  *config.GameConfig
	towerConfig *config.TowerConfig

	entityManager *ecs.EntityManager
	grid          *arena.Grid
	queue         *events.Queue
	router        *events.Router
	player        *Player

	occupancy  *systems.OccupancySystem
	build      *systems.BuildController
	spawns     *systems.SpawnSystem
	pathFollow *systems.PathFollowSystem
	towers     *systems.TowerSystem
	level      *systems.LevelSystem

	stats Stats

	// 路径覆盖层缓存，网格版本变化时重新计算
	pathVersion uint64
	pathCache   []arena.Cell
	pathValid   bool
}

// NewSession 根据配置创建对局并部署第一级刷怪器
//
// 参数:
//   - gameCfg: 游戏配置（竞技场、敌人、玩家、关卡、刷怪）
//   - towerCfg: 塔类型表
func NewSession(gameCfg *config.GameConfig, towerCfg *config.TowerConfig) (*Session, error) {
	if gameCfg == nil || towerCfg == nil {
		return nil, errors.New("simulation: game and tower configs are required")
	}

	a := gameCfg.Arena
	grid, err := arena.NewGridFromLayout(a.Height, a.Padding, a.SquareSize)
	if err != nil {
		return nil, fmt.Errorf("simulation: build grid: %w", err)
	}

	em := ecs.NewEntityManager()
	queue := events.NewQueue()
	player := NewPlayer(gameCfg.Player)
	occupancy := systems.NewOccupancySystem(grid, queue)
	spawns := systems.NewSpawnSystem(em, grid, gameCfg, queue)

	s := &Session{
		ID:            uuid.NewString(),
		gameConfig:    gameCfg,
		towerConfig:   towerCfg,
		entityManager: em,
		grid:          grid,
		queue:         queue,
		router:        events.NewRouter(queue),
		player:        player,
		occupancy:     occupancy,
		build:         systems.NewBuildController(em, occupancy, towerCfg, player, queue),
		spawns:        spawns,
		pathFollow:    systems.NewPathFollowSystem(em, grid, queue),
		towers:        systems.NewTowerSystem(em, grid, towerCfg, queue),
		level:         systems.NewLevelSystem(spawns, gameCfg.Level, queue),
	}
	s.subscribe()
	s.level.Start()
	s.dispatch()

	log.Printf("[Session] %s started: %dx%d grid, start=%s goal=%s",
		s.ID, grid.Size(), grid.Size(), grid.Start(), grid.Goal())
	return s, nil
}

// subscribe 注册系统之间的事件连锁
func (s *Session) subscribe() {
	s.router.Subscribe(events.EventAgentFinished, s.onAgentFinished)
	s.router.Subscribe(events.EventAgentSpawned, func(events.GameEvent) {
		s.stats.Spawned++
	})
	s.router.Subscribe(events.EventAgentDespawned, func(ev events.GameEvent) {
		if p, ok := ev.Payload.(events.AgentDespawnedPayload); ok && p.Reason == events.ReasonLeftArena {
			s.stats.LeftArena++
		}
	})
	s.router.Subscribe(events.EventObstacleBuilt, func(events.GameEvent) {
		s.stats.Built++
	})
	s.router.Subscribe(events.EventBuildRejected, func(events.GameEvent) {
		s.stats.Rejected++
	})
}

// onAgentFinished 敌人到达终点、被击杀或卡住
func (s *Session) onAgentFinished(ev events.GameEvent) {
	p, ok := ev.Payload.(events.AgentFinishedPayload)
	if !ok {
		return
	}

	switch p.Reason {
	case events.ReasonKilled:
		if agent, ok := ecs.GetComponent[*components.AgentComponent](s.entityManager, p.Agent); ok {
			s.player.Earn(agent.Bounty)
		}
		s.stats.Killed++
		s.spawns.Despawn(p.Agent, events.ReasonKilled)

	case events.ReasonStuck:
		s.stats.Stuck++
		s.spawns.Despawn(p.Agent, events.ReasonStuck)

	case events.ReasonReachedGoal:
		// 敌人已被送回起点，继续存活
		s.stats.Leaked++
		if s.player.Leak() {
			s.stats.Deaths++
			log.Printf("[Session] Player died at level %d", s.level.Level())
			s.player.Respawn()
			s.level.Demote()
		}
	}
}

// Subscribe 注册外部观察者（音效、日志、界面提示）
// 观察者在会话内部的处理函数之后被调用
func (s *Session) Subscribe(t events.EventType, h events.HandlerFunc) {
	s.router.Subscribe(t, h)
}

// Update 推进一个 tick
//
// 顺序：关卡计时 -> 刷怪 -> 敌人移动 -> 塔攻击 -> 事件连锁 -> 清理实体
func (s *Session) Update(dt float64) {
	if dt <= 0 {
		return
	}
	s.stats.Ticks++
	s.stats.Elapsed += dt

	s.level.Update(dt)
	s.spawns.Update(dt)
	s.pathFollow.Update(dt)
	s.towers.Update(dt)

	s.dispatch()
	s.entityManager.RemoveMarkedEntities()
}

// dispatch 分发事件直到队列清空
func (s *Session) dispatch() {
	for round := 0; round < maxDispatchRounds; round++ {
		if s.router.DispatchAll() == 0 {
			return
		}
	}
	log.Printf("[Session] Warning: event cascade exceeded %d rounds, %d events deferred", maxDispatchRounds, s.queue.Len())
}

// Build 在 cell 建造 kindID 类型的塔
func (s *Session) Build(cell arena.Cell, kindID string) (ecs.EntityID, error) {
	id, err := s.build.RequestBuild(cell, kindID)
	s.dispatch()
	return id, err
}

// Remove 拆除 cell 上的塔
func (s *Session) Remove(cell arena.Cell) error {
	err := s.build.RequestRemove(cell)
	s.dispatch()
	s.entityManager.RemoveMarkedEntities()
	return err
}

// CanBuild 试算在 cell 放置障碍物是否会被接受（不检查余额，不修改网格）
func (s *Session) CanBuild(cell arena.Cell) error {
	return s.occupancy.CanBuild(cell)
}

// CanAffordTower 玩家是否买得起 kindID
func (s *Session) CanAffordTower(kindID string) bool {
	cost, err := s.towerConfig.Cost(kindID)
	if err != nil {
		return false
	}
	return s.player.CanAfford(cost)
}

// CurrentPath 起点到终点的当前最短路径（网格不变时复用缓存）
func (s *Session) CurrentPath() ([]arena.Cell, bool) {
	if s.pathCache == nil || s.pathVersion != s.grid.Version() {
		s.pathCache, s.pathValid = pathfinding.FindPath(s.grid, s.grid.Start(), s.grid.Goal())
		s.pathVersion = s.grid.Version()
		if s.pathCache == nil {
			s.pathCache = []arena.Cell{}
		}
	}
	return s.pathCache, s.pathValid
}

// Reachable 从起点可达的格子及步数
func (s *Session) Reachable() map[arena.Cell]int {
	return pathfinding.Reachable(s.grid, s.grid.Start())
}

// SetLevel 直接切换等级（调试用）
func (s *Session) SetLevel(level int) {
	s.level.SetLevel(level)
	s.dispatch()
}

// Grid 占用网格
func (s *Session) Grid() *arena.Grid { return s.grid }

// Player 玩家状态
func (s *Session) Player() *Player { return s.player }

// Level 当前等级
func (s *Session) Level() int { return s.level.Level() }

// LevelTimeLeft 距离自动升级的剩余秒数
func (s *Session) LevelTimeLeft() float64 { return s.level.TimeLeft() }

// Progress 当前刷怪器的击杀进度
func (s *Session) Progress() (kills, target int) { return s.spawns.Progress() }

// Stats 对局统计的副本
func (s *Session) Stats() Stats { return s.stats }

// TowerConfig 塔类型表
func (s *Session) TowerConfig() *config.TowerConfig { return s.towerConfig }

// EntityManager 实体管理器（测试和调试工具使用）
func (s *Session) EntityManager() *ecs.EntityManager { return s.entityManager }
