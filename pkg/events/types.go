// Package events 游戏事件：系统之间的出站通知
//
// 核心系统（占用、寻路、刷怪）只负责 Publish，
// 场景层在每帧末尾 Drain 并分发给渲染、音效和 HUD。
package events

import (
	"github.com/decker502/mazetd/pkg/arena"
	"github.com/decker502/mazetd/pkg/ecs"
)

// EventType 事件类型
type EventType int

const (
	// EventPathChanged 敌人选定了新的下一步
	// 发布者: PathFollowSystem | Payload: PathChangedPayload
	EventPathChanged EventType = iota

	// EventAgentFinished 敌人到达终点或无路可走
	// 发布者: PathFollowSystem、TowerSystem | Payload: AgentFinishedPayload
	EventAgentFinished

	// EventBuildRejected 建造请求被拒绝，网格未改变
	// 发布者: OccupancySystem、BuildController | Payload: BuildRejectedPayload
	EventBuildRejected

	// EventObstacleBuilt 格子被成功占用
	// 发布者: OccupancySystem | Payload: ObstacleBuiltPayload
	EventObstacleBuilt

	// EventObstacleRemoved 格子占用被清除
	// 发布者: OccupancySystem | Payload: ObstacleRemovedPayload
	EventObstacleRemoved

	// EventAgentSpawned 刷怪器生成了新敌人
	// 发布者: SpawnSystem | Payload: AgentSpawnedPayload
	EventAgentSpawned

	// EventAgentDespawned 敌人实体被移除
	// 发布者: SpawnSystem | Payload: AgentDespawnedPayload
	EventAgentDespawned

	// EventLevelChanged 关卡等级变化（升级或玩家死亡后降级）
	// 发布者: LevelSystem | Payload: LevelChangedPayload
	EventLevelChanged
)

var eventTypeNames = map[EventType]string{
	EventPathChanged:     "PathChanged",
	EventAgentFinished:   "AgentFinished",
	EventBuildRejected:   "BuildRejected",
	EventObstacleBuilt:   "ObstacleBuilt",
	EventObstacleRemoved: "ObstacleRemoved",
	EventAgentSpawned:    "AgentSpawned",
	EventAgentDespawned:  "AgentDespawned",
	EventLevelChanged:    "LevelChanged",
}

// String 返回事件类型名称（用于日志）
func (t EventType) String() string {
	if name, ok := eventTypeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// GameEvent 队列中的一条事件
type GameEvent struct {
	Type    EventType
	Payload any
}

// FinishReason 敌人结束寻路的原因
type FinishReason int

const (
	// ReasonReachedGoal 到达终点格子
	ReasonReachedGoal FinishReason = iota
	// ReasonStuck 当前位置到终点不存在路径
	ReasonStuck
	// ReasonKilled 被塔击杀
	ReasonKilled
	// ReasonLeftArena 离开了竞技场范围
	ReasonLeftArena
)

// String 返回原因名称
func (r FinishReason) String() string {
	switch r {
	case ReasonReachedGoal:
		return "reached_goal"
	case ReasonStuck:
		return "stuck"
	case ReasonKilled:
		return "killed"
	case ReasonLeftArena:
		return "left_arena"
	default:
		return "unknown"
	}
}

// PathChangedPayload 新的路径（Path 从敌人当前格子到终点，供调试覆盖层绘制）
type PathChangedPayload struct {
	Agent ecs.EntityID
	Next  arena.Cell
	Path  []arena.Cell
}

// AgentFinishedPayload 敌人结束寻路
type AgentFinishedPayload struct {
	Agent  ecs.EntityID
	Cell   arena.Cell
	Reason FinishReason
}

// BuildRejectedPayload 建造被拒绝
// Err 为 *systems.BuildRejectedError，可以用 errors.Is/As 判断原因
type BuildRejectedPayload struct {
	Cell arena.Cell
	Err  error
}

// ObstacleBuiltPayload 障碍物（塔）已建造
type ObstacleBuiltPayload struct {
	Cell  arena.Cell
	Owner ecs.EntityID
}

// ObstacleRemovedPayload 障碍物已移除
type ObstacleRemovedPayload struct {
	Cell  arena.Cell
	Owner ecs.EntityID
}

// AgentSpawnedPayload 新敌人
type AgentSpawnedPayload struct {
	Agent     ecs.EntityID
	SpawnerID uint64
}

// AgentDespawnedPayload 敌人被移除
type AgentDespawnedPayload struct {
	Agent     ecs.EntityID
	SpawnerID uint64
	Reason    FinishReason
}

// LevelChangedPayload 等级变化
type LevelChangedPayload struct {
	From int
	To   int
}
