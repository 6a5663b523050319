package systems

import (
	"fmt"
	"log"

	"github.com/decker502/mazetd/pkg/arena"
	"github.com/decker502/mazetd/pkg/components"
	"github.com/decker502/mazetd/pkg/config"
	"github.com/decker502/mazetd/pkg/ecs"
	"github.com/decker502/mazetd/pkg/events"
)

// Wallet 建造时扣费的对象（*game.Player 实现该接口）
type Wallet interface {
	CanAfford(amount int) bool
	Spend(amount int) error
}

// BuildController 处理玩家的建造/拆除请求
//
// 建造顺序：查询花费 -> 检查余额 -> OccupancySystem.TryBuild -> 扣费。
// 余额不足时不会触碰网格；TryBuild 被拒绝时不会扣费。
type BuildController struct {
	entityManager *ecs.EntityManager
	occupancy     *OccupancySystem
	towers        *config.TowerConfig
	wallet        Wallet
	events        *events.Queue
}

// NewBuildController 创建建造控制器
// wallet 为 nil 时所有建造免费
func NewBuildController(em *ecs.EntityManager, occupancy *OccupancySystem, towers *config.TowerConfig, wallet Wallet, queue *events.Queue) *BuildController {
	return &BuildController{
		entityManager: em,
		occupancy:     occupancy,
		towers:        towers,
		wallet:        wallet,
		events:        queue,
	}
}

// RequestBuild 在 cell 建造 kindID 类型的塔
//
// 返回:
//   - ecs.EntityID: 新建的塔实体
//   - error: 未知塔类型返回普通错误；被拒绝时返回 *BuildRejectedError
func (c *BuildController) RequestBuild(cell arena.Cell, kindID string) (ecs.EntityID, error) {
	kind, ok := c.towers.GetTower(kindID)
	if !ok {
		return ecs.NoEntity, fmt.Errorf("unknown tower kind %q", kindID)
	}

	if c.wallet != nil && !c.wallet.CanAfford(kind.Cost) {
		rej := &BuildRejectedError{Cell: cell, Reason: RejectUnaffordable}
		log.Printf("[BuildController] %v (cost %d)", rej, kind.Cost)
		c.events.Publish(events.EventBuildRejected, events.BuildRejectedPayload{Cell: cell, Err: rej})
		return ecs.NoEntity, rej
	}

	// 先分配实体ID作为占用者，被拒绝时立即销毁
	id := c.entityManager.CreateEntity()
	if err := c.occupancy.TryBuild(cell, id); err != nil {
		c.entityManager.DestroyEntity(id)
		return ecs.NoEntity, err
	}

	ecs.AddComponent(c.entityManager, id, &components.TowerComponent{
		KindID: kindID,
		Cell:   cell,
	})
	ecs.AddComponent(c.entityManager, id, &components.PositionComponent{
		Pos: c.occupancy.Grid().CellToWorld(cell),
	})

	if c.wallet != nil {
		if err := c.wallet.Spend(kind.Cost); err != nil {
			// CanAfford 已经检查过，这里只在钱包实现不一致时发生
			log.Printf("[BuildController] Warning: spend %d failed after build: %v", kind.Cost, err)
		}
	}

	log.Printf("[BuildController] Built %s at %s (entity=%d, cost=%d)", kindID, cell, id, kind.Cost)
	return id, nil
}

// RequestRemove 拆除 cell 上的塔（不退还砖块）
// 格子为空时什么也不做
func (c *BuildController) RequestRemove(cell arena.Cell) error {
	owner, err := c.occupancy.Remove(cell)
	if err != nil {
		return err
	}
	if owner != ecs.NoEntity {
		c.entityManager.DestroyEntity(owner)
	}
	return nil
}
