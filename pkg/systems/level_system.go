package systems

import (
	"log"

	"github.com/decker502/mazetd/pkg/config"
	"github.com/decker502/mazetd/pkg/events"
)

// LevelSystem 关卡等级
//
// 两种方式升级：关卡计时器到期，或当前所有刷怪器都达到击杀目标。
// 玩家死亡时等级下降 DeathPenalty 级（最低为 1）。
// 每次等级变化都会重新部署刷怪器。
type LevelSystem struct {
	spawns *SpawnSystem
	config config.LevelConfig
	events *events.Queue

	level int
	timer float64
}

// NewLevelSystem 创建等级系统（初始等级 1，尚未部署刷怪器，需要调用 Start）
func NewLevelSystem(spawns *SpawnSystem, cfg config.LevelConfig, queue *events.Queue) *LevelSystem {
	return &LevelSystem{
		spawns: spawns,
		config: cfg,
		events: queue,
		level:  1,
	}
}

// Start 为当前等级部署刷怪器
func (s *LevelSystem) Start() {
	s.timer = 0
	s.spawns.Deploy(s.level)
	log.Printf("[LevelSystem] Started at level %d", s.level)
}

// Level 当前等级
func (s *LevelSystem) Level() int {
	return s.level
}

// TimeLeft 距离自动升级的剩余时间（秒）
func (s *LevelSystem) TimeLeft() float64 {
	left := s.config.Duration - s.timer
	if left < 0 {
		return 0
	}
	return left
}

// Update 推进关卡计时器
func (s *LevelSystem) Update(dt float64) {
	s.timer += dt
	if s.timer >= s.config.Duration {
		log.Printf("[LevelSystem] Level timer elapsed")
		s.SetLevel(s.level + 1)
		return
	}
	if s.spawns.AllCompleted() {
		log.Printf("[LevelSystem] All spawners reached their kill targets")
		s.SetLevel(s.level + 1)
	}
}

// Demote 玩家死亡后的降级
func (s *LevelSystem) Demote() {
	s.SetLevel(s.level - s.config.DeathPenalty)
}

// SetLevel 切换到指定等级（最低为 1），重置计时器并重新部署刷怪器
func (s *LevelSystem) SetLevel(level int) {
	if level < 1 {
		level = 1
	}
	from := s.level
	s.level = level
	s.timer = 0
	s.spawns.Deploy(level)

	log.Printf("[LevelSystem] Level %d -> %d", from, level)
	s.events.Publish(events.EventLevelChanged, events.LevelChangedPayload{From: from, To: level})
}
