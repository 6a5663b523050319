package systems

import (
	"math"
	"testing"

	"github.com/decker502/mazetd/pkg/arena"
	"github.com/decker502/mazetd/pkg/components"
	"github.com/decker502/mazetd/pkg/ecs"
	"github.com/decker502/mazetd/pkg/events"
)

func TestPathFollow_FirstTickPlansAndMoves(t *testing.T) {
	em := ecs.NewEntityManager()
	grid := newTestGrid()
	queue := events.NewQueue()
	s := NewPathFollowSystem(em, grid, queue)

	id := newTestAgent(em, grid.CellToWorld(grid.Start()), 5)
	s.Update(1)

	follower := mustFollower(t, em, id)
	if !follower.HasWaypoint || follower.WaypointCell != arena.C(3, 2) {
		t.Fatalf("Expected waypoint (3,2), got %s (has=%v)", follower.WaypointCell, follower.HasWaypoint)
	}
	if pos := mustPosition(t, em, id).Pos; pos != arena.V(40, 25) {
		t.Errorf("Expected position (40,25), got %+v", pos)
	}

	changed := eventsOfType(queue.Drain(), events.EventPathChanged)
	if len(changed) != 1 {
		t.Fatalf("Expected 1 PathChanged event, got %d", len(changed))
	}
	payload := changed[0].Payload.(events.PathChangedPayload)
	if payload.Agent != id || payload.Next != arena.C(3, 2) {
		t.Errorf("Unexpected payload %+v", payload)
	}
	if len(payload.Path) != 5 || payload.Path[0] != arena.C(4, 2) || payload.Path[4] != arena.C(0, 2) {
		t.Errorf("Expected straight 5-cell path, got %v", payload.Path)
	}

	// 未到达路点时不重新寻路
	s.Update(1)
	if got := eventsOfType(queue.Drain(), events.EventPathChanged); len(got) != 0 {
		t.Errorf("Should not re-plan before reaching the waypoint, got %d events", len(got))
	}
}

func TestPathFollow_ReroutesWhenWaypointBlocked(t *testing.T) {
	em := ecs.NewEntityManager()
	grid := newTestGrid()
	queue := events.NewQueue()
	s := NewPathFollowSystem(em, grid, queue)
	occupancy := NewOccupancySystem(grid, queue)

	id := newTestAgent(em, grid.CellToWorld(grid.Start()), 1)
	s.Update(1)

	follower := mustFollower(t, em, id)
	if follower.WaypointCell != arena.C(3, 2) {
		t.Fatalf("Expected initial waypoint (3,2), got %s", follower.WaypointCell)
	}

	// 两个 tick 之间在路点上建塔
	if err := occupancy.TryBuild(arena.C(3, 2), 100); err != nil {
		t.Fatalf("Build on waypoint should be accepted: %v", err)
	}
	queue.Drain()

	s.Update(1)

	if follower.WaypointCell == arena.C(3, 2) {
		t.Fatal("Agent must abandon the occupied waypoint")
	}
	if follower.WaypointCell != arena.C(4, 3) {
		t.Errorf("Expected detour waypoint (4,3), got %s", follower.WaypointCell)
	}
	if grid.IsOccupied(follower.WaypointCell) {
		t.Error("New waypoint must be free")
	}
	if got := eventsOfType(queue.Drain(), events.EventPathChanged); len(got) != 1 {
		t.Errorf("Expected 1 PathChanged event after re-route, got %d", len(got))
	}
}

func TestPathFollow_ReachGoalRespawnsAtStart(t *testing.T) {
	em := ecs.NewEntityManager()
	grid := newTestGrid()
	queue := events.NewQueue()
	s := NewPathFollowSystem(em, grid, queue)

	// 从 (1,2) 出发，一个 tick 足以越过终点中心
	id := newTestAgent(em, grid.CellToWorld(arena.C(1, 2)), 100)
	s.Update(1)

	if pos := mustPosition(t, em, id).Pos; pos != grid.CellToWorld(grid.Start()) {
		t.Errorf("Agent should respawn at start %+v, got %+v", grid.CellToWorld(grid.Start()), pos)
	}
	if mustFollower(t, em, id).HasWaypoint {
		t.Error("Waypoint should be cleared after reaching the goal")
	}

	finished := eventsOfType(queue.Drain(), events.EventAgentFinished)
	if len(finished) != 1 {
		t.Fatalf("Expected 1 AgentFinished event, got %d", len(finished))
	}
	payload := finished[0].Payload.(events.AgentFinishedPayload)
	if payload.Reason != events.ReasonReachedGoal || payload.Agent != id {
		t.Errorf("Unexpected payload %+v", payload)
	}
}

func TestPathFollow_AgentOnGoalCell(t *testing.T) {
	em := ecs.NewEntityManager()
	grid := newTestGrid()
	queue := events.NewQueue()
	s := NewPathFollowSystem(em, grid, queue)

	id := newTestAgent(em, grid.CellToWorld(grid.Goal()), 1)
	s.Update(1)

	finished := eventsOfType(queue.Drain(), events.EventAgentFinished)
	if len(finished) != 1 || finished[0].Payload.(events.AgentFinishedPayload).Reason != events.ReasonReachedGoal {
		t.Fatalf("Expected reached-goal event, got %v", finished)
	}
	if pos := mustPosition(t, em, id).Pos; pos != grid.CellToWorld(grid.Start()) {
		t.Errorf("Expected respawn at start, got %+v", pos)
	}
}

func TestPathFollow_StuckIsDistinctFromGoal(t *testing.T) {
	em := ecs.NewEntityManager()
	grid := newTestGrid()
	queue := events.NewQueue()
	s := NewPathFollowSystem(em, grid, queue)

	// 直接写网格（绕过校验），把第 1 列整列封死
	for row := 0; row < 5; row++ {
		_ = grid.SetOccupied(arena.C(1, row), 1)
	}

	start := grid.CellToWorld(grid.Start())
	id := newTestAgent(em, start, 10)
	s.Update(1)

	finished := eventsOfType(queue.Drain(), events.EventAgentFinished)
	if len(finished) != 1 {
		t.Fatalf("Expected 1 AgentFinished event, got %d", len(finished))
	}
	payload := finished[0].Payload.(events.AgentFinishedPayload)
	if payload.Reason != events.ReasonStuck {
		t.Errorf("Expected ReasonStuck, got %s", payload.Reason)
	}
	if payload.Cell != grid.Start() {
		t.Errorf("Expected stuck cell %s, got %s", grid.Start(), payload.Cell)
	}

	if pos := mustPosition(t, em, id).Pos; pos != start {
		t.Errorf("Stuck agent must not move, got %+v", pos)
	}
	if mustFollower(t, em, id).HasWaypoint {
		t.Error("Stuck agent must not keep a waypoint")
	}
}

func TestPathFollow_SlowEffectExpiry(t *testing.T) {
	em := ecs.NewEntityManager()
	grid := arena.NewGrid(11, 10, arena.V(0, 0))
	s := NewPathFollowSystem(em, grid, nil)

	start := grid.CellToWorld(grid.Start())
	id := newTestAgent(em, start, 2)
	effects, _ := ecs.GetComponent[*components.StatusEffectsComponent](em, id)
	if err := effects.Apply(components.EffectSlow, 2, 50); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	follower := mustFollower(t, em, id)
	pos := mustPosition(t, em, id)

	expectedSpeeds := []float64{1, 1, 2}
	expectedX := []float64{start.X - 1, start.X - 2, start.X - 4}
	for tick, want := range expectedSpeeds {
		s.Update(1)
		if follower.CurrentSpeed != want {
			t.Errorf("Tick %d: expected speed %.1f, got %.1f", tick+1, want, follower.CurrentSpeed)
		}
		if math.Abs(pos.Pos.X-expectedX[tick]) > 1e-9 {
			t.Errorf("Tick %d: expected x %.1f, got %.1f", tick+1, expectedX[tick], pos.Pos.X)
		}
	}

	if len(effects.Effects) != 0 {
		t.Errorf("No residual effect entry expected, got %v", effects.Effects)
	}
}

func TestPathFollow_SlowEffectExpiryWithFrameTimes(t *testing.T) {
	tests := []struct {
		name string
		dt   float64
	}{
		{"60 帧每秒", 1.0 / 60},
		{"0.1 秒步长", 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for n := 3; n <= 10; n++ {
				em := ecs.NewEntityManager()
				grid := arena.NewGrid(11, 10, arena.V(0, 0))
				s := NewPathFollowSystem(em, grid, nil)

				id := newTestAgent(em, grid.CellToWorld(grid.Start()), 2)
				effects, _ := ecs.GetComponent[*components.StatusEffectsComponent](em, id)
				if err := effects.Apply(components.EffectSlow, float64(n)*tt.dt, 50); err != nil {
					t.Fatalf("Apply failed: %v", err)
				}
				follower := mustFollower(t, em, id)

				// 前 n 个 tick 半速，第 n+1 个 tick 恢复原速
				for tick := 1; tick <= n+1; tick++ {
					s.Update(tt.dt)
					want := 1.0
					if tick > n {
						want = 2
					}
					if follower.CurrentSpeed != want {
						t.Fatalf("n=%d tick %d: expected speed %.1f, got %.1f", n, tick, want, follower.CurrentSpeed)
					}
				}

				if len(effects.Effects) != 0 {
					t.Errorf("n=%d: no residual effect entry expected, got %v", n, effects.Effects)
				}
			}
		})
	}
}

func TestPathFollow_StuckAgentEffectsStillExpire(t *testing.T) {
	em := ecs.NewEntityManager()
	grid := newTestGrid()
	s := NewPathFollowSystem(em, grid, nil)

	// 第 1 列整列封死，敌人每个 tick 都无路可走
	for row := 0; row < 5; row++ {
		_ = grid.SetOccupied(arena.C(1, row), 1)
	}

	id := newTestAgent(em, grid.CellToWorld(grid.Start()), 10)
	effects, _ := ecs.GetComponent[*components.StatusEffectsComponent](em, id)
	if err := effects.Apply(components.EffectSlow, 2, 50); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	s.Update(1)
	if got := effects.Effects[components.EffectSlow].Remaining; math.Abs(got-1) > 1e-9 {
		t.Errorf("Expected 1s remaining after a stuck tick, got %.2f", got)
	}
	s.Update(1)
	if len(effects.Effects) != 0 {
		t.Errorf("Effect should expire even while stuck, got %v", effects.Effects)
	}
}

func TestPathFollow_OvershootContinuesIntoNextSegment(t *testing.T) {
	em := ecs.NewEntityManager()
	grid := newTestGrid()
	queue := events.NewQueue()
	s := NewPathFollowSystem(em, grid, queue)

	id := newTestAgent(em, grid.CellToWorld(grid.Start()), 25)
	s.Update(1)

	// 45 -> 35 -> 25 -> 20：跨越两个路点后停在第三段中间
	if pos := mustPosition(t, em, id).Pos; pos != arena.V(20, 25) {
		t.Errorf("Expected (20,25), got %+v", pos)
	}
	if got := mustFollower(t, em, id).WaypointCell; got != arena.C(1, 2) {
		t.Errorf("Expected waypoint (1,2), got %s", got)
	}
	if got := eventsOfType(queue.Drain(), events.EventPathChanged); len(got) != 3 {
		t.Errorf("Expected 3 PathChanged events, got %d", len(got))
	}
}

func TestPathFollow_SkipsPendingDestroy(t *testing.T) {
	em := ecs.NewEntityManager()
	grid := newTestGrid()
	s := NewPathFollowSystem(em, grid, nil)

	start := grid.CellToWorld(grid.Start())
	id := newTestAgent(em, start, 5)
	em.DestroyEntity(id)

	s.Update(1)
	if pos := mustPosition(t, em, id).Pos; pos != start {
		t.Errorf("Agent marked for removal must not move, got %+v", pos)
	}
}
