package systems

import (
	"testing"

	"github.com/decker502/mazetd/pkg/components"
	"github.com/decker502/mazetd/pkg/config"
	"github.com/decker502/mazetd/pkg/ecs"
	"github.com/decker502/mazetd/pkg/events"
)

func newTestLevelSystem() (*LevelSystem, *SpawnSystem, *ecs.EntityManager, *events.Queue) {
	em := ecs.NewEntityManager()
	queue := events.NewQueue()
	cfg := config.DefaultGameConfig()
	spawns := NewSpawnSystem(em, newTestGrid(), cfg, queue)
	return NewLevelSystem(spawns, cfg.Level, queue), spawns, em, queue
}

// activeSpawner 返回当前未被移除的刷怪器
func activeSpawner(t *testing.T, em *ecs.EntityManager) *components.SpawnerComponent {
	t.Helper()
	for _, id := range ecs.GetEntitiesWith1[*components.SpawnerComponent](em) {
		if !em.IsPendingDestroy(id) {
			spawner, _ := ecs.GetComponent[*components.SpawnerComponent](em, id)
			return spawner
		}
	}
	t.Fatal("no active spawner")
	return nil
}

func TestLevelSystem_TimerAdvancesLevel(t *testing.T) {
	s, _, em, queue := newTestLevelSystem()
	s.Start()

	if s.Level() != 1 || activeSpawner(t, em).Level != 1 {
		t.Fatalf("Expected level 1 spawner after Start")
	}

	s.Update(44)
	if s.Level() != 1 {
		t.Fatalf("Level should not change before the timer elapses")
	}
	if s.TimeLeft() != 1 {
		t.Errorf("Expected 1s left, got %.2f", s.TimeLeft())
	}

	s.Update(1)
	if s.Level() != 2 {
		t.Fatalf("Expected level 2, got %d", s.Level())
	}
	if s.TimeLeft() != 45 {
		t.Errorf("Timer should reset, got %.2f left", s.TimeLeft())
	}
	if activeSpawner(t, em).Level != 2 {
		t.Error("Spawner should be redeployed for level 2")
	}

	changed := eventsOfType(queue.Drain(), events.EventLevelChanged)
	if len(changed) != 1 {
		t.Fatalf("Expected 1 LevelChanged event, got %d", len(changed))
	}
	if p := changed[0].Payload.(events.LevelChangedPayload); p.From != 1 || p.To != 2 {
		t.Errorf("Unexpected payload %+v", p)
	}
}

func TestLevelSystem_KillTargetAdvancesLevel(t *testing.T) {
	s, _, em, _ := newTestLevelSystem()
	s.Start()

	spawner := activeSpawner(t, em)
	spawner.CurrentKill = spawner.MaxKill

	s.Update(0.01)
	if s.Level() != 2 {
		t.Errorf("Completing the spawner should advance the level, got %d", s.Level())
	}
}

func TestLevelSystem_Demote(t *testing.T) {
	tests := []struct {
		name string
		from int
		want int
	}{
		{"正常降级", 8, 3},
		{"最低为 1", 3, 1},
		{"已经是 1", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, em, _ := newTestLevelSystem()
			s.SetLevel(tt.from)
			s.Demote()

			if s.Level() != tt.want {
				t.Errorf("Expected level %d, got %d", tt.want, s.Level())
			}
			if activeSpawner(t, em).Level != tt.want {
				t.Error("Spawner should follow the demoted level")
			}
		})
	}
}

func TestLevelSystem_BeyondMaxLevel(t *testing.T) {
	s, spawns, _, _ := newTestLevelSystem()
	s.SetLevel(11)

	if s.Level() != 11 {
		t.Errorf("Level should still advance, got %d", s.Level())
	}
	if kills, target := spawns.Progress(); kills != 0 || target != 0 {
		t.Errorf("No spawner expected above max level, got %d/%d", kills, target)
	}
	if spawns.AllCompleted() {
		t.Error("Without spawners the level must not auto-complete")
	}
}
