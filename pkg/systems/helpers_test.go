package systems

import (
	"testing"

	"github.com/decker502/mazetd/pkg/arena"
	"github.com/decker502/mazetd/pkg/components"
	"github.com/decker502/mazetd/pkg/config"
	"github.com/decker502/mazetd/pkg/ecs"
	"github.com/decker502/mazetd/pkg/events"
)

// newTestGrid 5x5 网格，格子边长 10，左下角在原点
// 起点 (4,2) 中心 (45,25)，终点 (0,2) 中心 (5,25)
func newTestGrid() *arena.Grid {
	return arena.NewGrid(5, 10, arena.V(0, 0))
}

// newTestAgent 在 pos 处创建一个带寻路组件的敌人
func newTestAgent(em *ecs.EntityManager, pos arena.Vec2, speed float64) ecs.EntityID {
	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.PositionComponent{Pos: pos})
	ecs.AddComponent(em, id, &components.PathFollowerComponent{BaseSpeed: speed})
	ecs.AddComponent(em, id, components.NewStatusEffectsComponent())
	return id
}

// eventsOfType 过滤出指定类型的事件
func eventsOfType(evs []events.GameEvent, t events.EventType) []events.GameEvent {
	var out []events.GameEvent
	for _, ev := range evs {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

// testTowerConfig 测试用塔类型表
func testTowerConfig() *config.TowerConfig {
	return &config.TowerConfig{
		Towers: map[string]config.TowerKind{
			"wall": {Name: "Wall", Key: "b", Cost: 1},
			"ice": {
				Name: "Ice", Key: "i", Cost: 3,
				Range: 2, Damage: 1, Reload: 1,
				Effect: &config.EffectConfig{Kind: "slow", Potency: 50, Duration: 2},
			},
			"rifle": {Name: "Rifle", Key: "r", Cost: 4, Range: 10, Damage: 30, Reload: 5},
		},
	}
}

// fakeWallet 记录扣费的测试钱包
type fakeWallet struct {
	bricks int
	spent  []int
}

func (w *fakeWallet) CanAfford(amount int) bool {
	return w.bricks >= amount
}

func (w *fakeWallet) Spend(amount int) error {
	w.bricks -= amount
	w.spent = append(w.spent, amount)
	return nil
}

// mustPosition 获取实体位置
func mustPosition(t *testing.T, em *ecs.EntityManager, id ecs.EntityID) *components.PositionComponent {
	t.Helper()
	pos, ok := ecs.GetComponent[*components.PositionComponent](em, id)
	if !ok {
		t.Fatalf("entity %d has no PositionComponent", id)
	}
	return pos
}

// mustFollower 获取实体寻路组件
func mustFollower(t *testing.T, em *ecs.EntityManager, id ecs.EntityID) *components.PathFollowerComponent {
	t.Helper()
	f, ok := ecs.GetComponent[*components.PathFollowerComponent](em, id)
	if !ok {
		t.Fatalf("entity %d has no PathFollowerComponent", id)
	}
	return f
}
