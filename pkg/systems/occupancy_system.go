package systems

import (
	"errors"
	"fmt"
	"log"

	"github.com/decker502/mazetd/pkg/arena"
	"github.com/decker502/mazetd/pkg/ecs"
	"github.com/decker502/mazetd/pkg/events"
	"github.com/decker502/mazetd/pkg/pathfinding"
)

var (
	// ErrCellReserved 格子是起点或终点
	ErrCellReserved = errors.New("cell is reserved for start or goal")
	// ErrCellOccupied 格子已被占用
	ErrCellOccupied = errors.New("cell is already occupied")
	// ErrBlocksPath 建造后起点到终点不再连通
	ErrBlocksPath = errors.New("build would block the only path")
	// ErrUnaffordable 砖块不足
	ErrUnaffordable = errors.New("not enough bricks")
)

// RejectReason 建造被拒绝的原因
type RejectReason int

const (
	RejectOutOfBounds RejectReason = iota
	RejectReserved
	RejectOccupied
	RejectBlocksPath
	RejectUnaffordable
	// RejectInvalidGrid 网格没有合法的起点/终点，无法校验连通性
	RejectInvalidGrid
)

// String 返回原因名称
func (r RejectReason) String() string {
	switch r {
	case RejectOutOfBounds:
		return "out_of_bounds"
	case RejectReserved:
		return "reserved"
	case RejectOccupied:
		return "occupied"
	case RejectBlocksPath:
		return "blocks_path"
	case RejectUnaffordable:
		return "unaffordable"
	case RejectInvalidGrid:
		return "invalid_grid"
	default:
		return "unknown"
	}
}

// sentinel 原因对应的哨兵错误
func (r RejectReason) sentinel() error {
	switch r {
	case RejectOutOfBounds:
		return arena.ErrOutOfBounds
	case RejectReserved:
		return ErrCellReserved
	case RejectOccupied:
		return ErrCellOccupied
	case RejectBlocksPath:
		return ErrBlocksPath
	case RejectUnaffordable:
		return ErrUnaffordable
	case RejectInvalidGrid:
		return arena.ErrInvalidEndpoints
	default:
		return nil
	}
}

// BuildRejectedError 建造请求被拒绝
// 可以用 errors.Is 匹配 ErrCellOccupied 等哨兵错误，也可以用 errors.As 取出格子和原因
type BuildRejectedError struct {
	Cell   arena.Cell
	Reason RejectReason
}

func (e *BuildRejectedError) Error() string {
	return fmt.Sprintf("build at %s rejected: %v", e.Cell, e.Reason.sentinel())
}

func (e *BuildRejectedError) Unwrap() error {
	return e.Reason.sentinel()
}

// OccupancySystem 网格占用状态的唯一修改者
//
// 维护不变量：任意时刻起点到终点都存在一条经过空格子的路径。
// 所有建造请求都先临时占用格子，再用 BFS 校验连通性，失败则回滚，
// 因此被拒绝的请求不会在网格上留下任何痕迹。
type OccupancySystem struct {
	grid   *arena.Grid
	events *events.Queue
}

// NewOccupancySystem 创建占用系统
// 参数:
//   - grid: 要管理的网格；起点/终点不合法时所有建造都会被拒绝
//   - queue: 事件队列，可为 nil
func NewOccupancySystem(grid *arena.Grid, queue *events.Queue) *OccupancySystem {
	if !grid.HasValidEndpoints() {
		log.Printf("[OccupancySystem] Warning: grid (size %d) has no valid start/goal, every build will be rejected", grid.Size())
	}
	return &OccupancySystem{
		grid:   grid,
		events: queue,
	}
}

// Grid 返回被管理的网格（只读使用）
func (s *OccupancySystem) Grid() *arena.Grid {
	return s.grid
}

// precheck 不修改网格的前置检查：网格可用、越界、保留格子、已占用
func (s *OccupancySystem) precheck(cell arena.Cell) *BuildRejectedError {
	if !s.grid.HasValidEndpoints() {
		return &BuildRejectedError{Cell: cell, Reason: RejectInvalidGrid}
	}
	if !s.grid.InBounds(cell) {
		return &BuildRejectedError{Cell: cell, Reason: RejectOutOfBounds}
	}
	if s.grid.IsEndpoint(cell) {
		return &BuildRejectedError{Cell: cell, Reason: RejectReserved}
	}
	if s.grid.IsOccupied(cell) {
		return &BuildRejectedError{Cell: cell, Reason: RejectOccupied}
	}
	return nil
}

// CanBuild 试算在 cell 建造是否会被接受（不改变网格，不发布事件）
// 用于鼠标悬停时的高亮提示
func (s *OccupancySystem) CanBuild(cell arena.Cell) error {
	if rej := s.precheck(cell); rej != nil {
		return rej
	}
	if rej := s.tentative(cell, ecs.NoEntity, false); rej != nil {
		return rej
	}
	return nil
}

// TryBuild 尝试在 cell 放置 owner 拥有的障碍物
//
// 流程：边界 -> 保留格子 -> 已占用 -> 临时占用 -> 连通性校验 -> 提交或回滚。
// 接受时发布 ObstacleBuilt；拒绝时发布 BuildRejected，网格与调用前逐位一致。
//
// 返回:
//   - error: nil 表示已提交；否则为 *BuildRejectedError
func (s *OccupancySystem) TryBuild(cell arena.Cell, owner ecs.EntityID) error {
	if rej := s.precheck(cell); rej != nil {
		return s.reject(rej)
	}
	if rej := s.tentative(cell, owner, true); rej != nil {
		return s.reject(rej)
	}

	log.Printf("[OccupancySystem] Built obstacle at %s (owner=%d)", cell, owner)
	s.events.Publish(events.EventObstacleBuilt, events.ObstacleBuiltPayload{Cell: cell, Owner: owner})
	return nil
}

// tentative 临时占用 cell 并检查连通性
// commit 为 false（试算）或检查失败时网格保持原样
func (s *OccupancySystem) tentative(cell arena.Cell, owner ecs.EntityID, commit bool) *BuildRejectedError {
	connected := func(g *arena.Grid) bool {
		return pathfinding.PathExists(g, g.Start(), g.Goal())
	}

	ok, err := s.grid.Tentative(cell, owner, commit, connected)
	if err != nil {
		return &BuildRejectedError{Cell: cell, Reason: RejectOccupied}
	}
	if !ok {
		return &BuildRejectedError{Cell: cell, Reason: RejectBlocksPath}
	}
	return nil
}

// reject 记录并发布拒绝事件
func (s *OccupancySystem) reject(rej *BuildRejectedError) error {
	log.Printf("[OccupancySystem] %v", rej)
	s.events.Publish(events.EventBuildRejected, events.BuildRejectedPayload{Cell: rej.Cell, Err: rej})
	return rej
}

// Remove 清除 cell 的占用（不做连通性检查：移除障碍物只会增加连通性）
//
// 返回:
//   - ecs.EntityID: 原占用者；格子本来为空时返回 ecs.NoEntity
//   - error: 越界时返回包装 arena.ErrOutOfBounds 的错误
func (s *OccupancySystem) Remove(cell arena.Cell) (ecs.EntityID, error) {
	if !s.grid.InBounds(cell) {
		return ecs.NoEntity, fmt.Errorf("remove obstacle: %w: %s", arena.ErrOutOfBounds, cell)
	}

	owner, occupied := s.grid.Occupant(cell)
	if !occupied {
		return ecs.NoEntity, nil
	}

	if err := s.grid.ClearOccupied(cell); err != nil {
		return ecs.NoEntity, fmt.Errorf("remove obstacle: %w", err)
	}

	log.Printf("[OccupancySystem] Removed obstacle at %s (owner=%d)", cell, owner)
	s.events.Publish(events.EventObstacleRemoved, events.ObstacleRemovedPayload{Cell: cell, Owner: owner})
	return owner, nil
}
