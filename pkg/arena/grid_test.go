package arena

import (
	"errors"
	"testing"

	"github.com/decker502/mazetd/pkg/ecs"
)

// expectOutOfBoundsPanic 断言 fn 以包装 ErrOutOfBounds 的错误 panic
func expectOutOfBoundsPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Errorf("%s: expected panic for out-of-bounds cell", name)
			return
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("%s: expected ErrOutOfBounds panic, got %v", name, r)
		}
	}()
	fn()
}

func TestNewGrid(t *testing.T) {
	g := NewGrid(5, 50, V(-125, -125))

	if g.Size() != 5 {
		t.Errorf("Expected size 5, got %d", g.Size())
	}
	if g.CellSize() != 50 {
		t.Errorf("Expected cell size 50, got %.1f", g.CellSize())
	}
	if len(g.OccupiedCells()) != 0 {
		t.Errorf("New grid should have no occupied cells, got %v", g.OccupiedCells())
	}

	// 默认起点/终点位于中线两端
	if g.Start() != C(4, 2) {
		t.Errorf("Expected start (4,2), got %s", g.Start())
	}
	if g.Goal() != C(0, 2) {
		t.Errorf("Expected goal (0,2), got %s", g.Goal())
	}
	if !g.HasValidEndpoints() {
		t.Error("5x5 grid should have valid endpoints")
	}
}

func TestNewGrid_ZeroSize(t *testing.T) {
	g := NewGrid(0, 50, V(0, 0))

	if g.HasValidEndpoints() {
		t.Error("Zero-size grid must not have valid endpoints")
	}
	if g.InBounds(C(0, 0)) {
		t.Error("No cell is in bounds on a zero-size grid")
	}
}

func TestNewGridFromLayout(t *testing.T) {
	// 竞技场 800 高，留白 250，格子 50 -> ceil(550/50) = 11
	g, err := NewGridFromLayout(800, 250, 50)
	if err != nil {
		t.Fatalf("NewGridFromLayout failed: %v", err)
	}

	if g.Size() != 11 {
		t.Errorf("Expected 11 squares, got %d", g.Size())
	}
	if g.Start() != C(10, 5) {
		t.Errorf("Expected start (10,5), got %s", g.Start())
	}
	if g.Goal() != C(0, 5) {
		t.Errorf("Expected goal (0,5), got %s", g.Goal())
	}

	corners := g.Corners()
	if corners.BottomLeft != V(-275, -275) {
		t.Errorf("Expected bottom-left (-275,-275), got %+v", corners.BottomLeft)
	}
	if corners.TopRight != V(275, 275) {
		t.Errorf("Expected top-right (275,275), got %+v", corners.TopRight)
	}

	t.Run("非法参数", func(t *testing.T) {
		cases := []struct {
			name                         string
			height, padding, squareSize float64
		}{
			{"格子尺寸为0", 800, 250, 0},
			{"留白超过高度", 800, 900, 50},
			{"只有一个格子", 100, 50, 50},
		}
		for _, tc := range cases {
			if _, err := NewGridFromLayout(tc.height, tc.padding, tc.squareSize); err == nil {
				t.Errorf("%s: expected error", tc.name)
			}
		}
	})
}

func TestSetEndpoints(t *testing.T) {
	g := NewGrid(5, 10, V(0, 0))

	if err := g.SetEndpoints(C(0, 0), C(4, 4)); err != nil {
		t.Fatalf("SetEndpoints failed: %v", err)
	}
	if g.Start() != C(0, 0) || g.Goal() != C(4, 4) {
		t.Errorf("Endpoints not updated: start=%s goal=%s", g.Start(), g.Goal())
	}

	if err := g.SetEndpoints(C(1, 1), C(1, 1)); !errors.Is(err, ErrInvalidEndpoints) {
		t.Errorf("Expected ErrInvalidEndpoints for identical cells, got %v", err)
	}
	if err := g.SetEndpoints(C(-1, 0), C(1, 1)); !errors.Is(err, ErrInvalidEndpoints) {
		t.Errorf("Expected ErrInvalidEndpoints for out-of-bounds start, got %v", err)
	}

	_ = g.SetOccupied(C(2, 2), 7)
	if err := g.SetEndpoints(C(2, 2), C(0, 0)); !errors.Is(err, ErrInvalidEndpoints) {
		t.Errorf("Expected ErrInvalidEndpoints for occupied start, got %v", err)
	}
}

func TestOccupancy(t *testing.T) {
	g := NewGrid(5, 10, V(0, 0))
	c := C(3, 1)

	if g.IsOccupied(c) {
		t.Fatal("Cell should start unoccupied")
	}

	before := g.Version()
	if err := g.SetOccupied(c, ecs.EntityID(42)); err != nil {
		t.Fatalf("SetOccupied failed: %v", err)
	}
	if !g.IsOccupied(c) {
		t.Error("Cell should be occupied after SetOccupied")
	}
	if owner, ok := g.Occupant(c); !ok || owner != 42 {
		t.Errorf("Expected occupant 42, got %d (ok=%v)", owner, ok)
	}
	if g.Version() == before {
		t.Error("Version should change after SetOccupied")
	}

	if err := g.ClearOccupied(c); err != nil {
		t.Fatalf("ClearOccupied failed: %v", err)
	}
	if g.IsOccupied(c) {
		t.Error("Cell should be free after ClearOccupied")
	}
	if owner, ok := g.Occupant(c); ok || owner != ecs.NoEntity {
		t.Errorf("Expected no occupant after clear, got %d (ok=%v)", owner, ok)
	}
}

func TestOutOfBounds(t *testing.T) {
	g := NewGrid(3, 10, V(0, 0))
	outside := []Cell{C(-1, 0), C(0, -1), C(3, 0), C(0, 3)}

	for _, c := range outside {
		expectOutOfBoundsPanic(t, "IsOccupied"+c.String(), func() { g.IsOccupied(c) })
		expectOutOfBoundsPanic(t, "Occupant"+c.String(), func() { g.Occupant(c) })

		if err := g.SetOccupied(c, 1); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("SetOccupied%s: expected ErrOutOfBounds, got %v", c, err)
		}
		if err := g.ClearOccupied(c); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("ClearOccupied%s: expected ErrOutOfBounds, got %v", c, err)
		}
	}
}

func TestSuccessors(t *testing.T) {
	g := NewGrid(5, 10, V(0, 0))

	tests := []struct {
		name     string
		cell     Cell
		expected int
	}{
		{"左下角", C(0, 0), 2},
		{"右上角", C(4, 4), 2},
		{"左上角", C(0, 4), 2},
		{"右下角", C(4, 0), 2},
		{"下边缘", C(2, 0), 3},
		{"左边缘", C(0, 2), 3},
		{"内部", C(2, 2), 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.Successors(tt.cell)
			if len(got) != tt.expected {
				t.Errorf("Successors(%s): expected %d, got %d (%v)", tt.cell, tt.expected, len(got), got)
			}
		})
	}

	t.Run("枚举顺序为上右下左", func(t *testing.T) {
		got := g.Successors(C(2, 2))
		want := []Cell{C(2, 3), C(3, 2), C(2, 1), C(1, 2)}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("Expected %v, got %v", want, got)
			}
		}
	})

	t.Run("排除被占用的邻居", func(t *testing.T) {
		_ = g.SetOccupied(C(2, 3), 1)
		_ = g.SetOccupied(C(1, 2), 2)

		got := g.Successors(C(2, 2))
		if len(got) != 2 {
			t.Fatalf("Expected 2 successors, got %v", got)
		}
		for _, c := range got {
			if g.IsOccupied(c) {
				t.Errorf("Successor %s is occupied", c)
			}
		}

		// 角落格子的唯一空邻居被占用后剩下 1 个
		_ = g.SetOccupied(C(1, 0), 3)
		if got := g.Successors(C(0, 0)); len(got) != 1 || got[0] != C(0, 1) {
			t.Errorf("Expected [(0,1)], got %v", got)
		}
	})

	t.Run("被占用的格子自身也能枚举邻居", func(t *testing.T) {
		h := NewGrid(3, 10, V(0, 0))
		_ = h.SetOccupied(C(1, 1), 9)
		if got := h.Successors(C(1, 1)); len(got) != 4 {
			t.Errorf("Expected 4 successors from occupied centre, got %v", got)
		}
	})
}

func TestWorldCellRoundTrip(t *testing.T) {
	grids := []*Grid{
		NewGrid(11, 50, V(-275, -275)),
		NewGrid(7, 13.5, V(3.25, -40)),
		NewGrid(1, 1, V(0, 0)),
	}

	for _, g := range grids {
		for col := 0; col < g.Size(); col++ {
			for row := 0; row < g.Size(); row++ {
				c := C(col, row)
				if got := g.WorldToCell(g.CellToWorld(c)); got != c {
					t.Errorf("Round trip failed for %s on size %d: got %s", c, g.Size(), got)
				}
			}
		}
	}
}

func TestWorldToCell(t *testing.T) {
	g := NewGrid(4, 10, V(0, 0))

	tests := []struct {
		pos      Vec2
		expected Cell
	}{
		{V(0, 0), C(0, 0)},
		{V(9.99, 9.99), C(0, 0)},
		{V(10, 0), C(1, 0)},
		{V(35, 25), C(3, 2)},
		{V(-0.1, 5), C(-1, 0)},
		{V(41, 5), C(4, 0)},
	}

	for _, tt := range tests {
		if got := g.WorldToCell(tt.pos); got != tt.expected {
			t.Errorf("WorldToCell(%+v): expected %s, got %s", tt.pos, tt.expected, got)
		}
	}

	if g.ContainsWorld(V(-0.1, 5)) {
		t.Error("Point left of the grid should not be contained")
	}
	if !g.ContainsWorld(V(39.9, 39.9)) {
		t.Error("Point in top-right cell should be contained")
	}
}

func TestCloneAndEqual(t *testing.T) {
	g := NewGrid(4, 10, V(0, 0))
	_ = g.SetOccupied(C(1, 1), 5)

	clone := g.Clone()
	if !g.Equal(clone) {
		t.Fatal("Clone should equal original")
	}

	_ = clone.SetOccupied(C(2, 2), 6)
	if g.IsOccupied(C(2, 2)) {
		t.Error("Mutating the clone must not affect the original")
	}
	if g.Equal(clone) {
		t.Error("Grids should differ after mutating the clone")
	}
}

func TestTentative(t *testing.T) {
	g := NewGrid(3, 10, V(0, 0))
	before := g.Clone()

	t.Run("检查失败时回滚", func(t *testing.T) {
		ok, err := g.Tentative(C(1, 1), 4, true, func(*Grid) bool { return false })
		if err != nil || ok {
			t.Fatalf("Expected (false, nil), got (%v, %v)", ok, err)
		}
		if !g.Equal(before) || g.Version() != before.Version() {
			t.Error("Grid must be unchanged after a failed check")
		}
	})

	t.Run("试算不提交", func(t *testing.T) {
		var seen bool
		ok, err := g.Tentative(C(1, 1), 4, false, func(h *Grid) bool {
			seen = h.IsOccupied(C(1, 1))
			return true
		})
		if err != nil || !ok {
			t.Fatalf("Expected (true, nil), got (%v, %v)", ok, err)
		}
		if !seen {
			t.Error("check should observe the tentative occupation")
		}
		if !g.Equal(before) || g.Version() != before.Version() {
			t.Error("Dry run must leave the grid unchanged")
		}
	})

	t.Run("提交", func(t *testing.T) {
		ok, err := g.Tentative(C(1, 1), 4, true, func(*Grid) bool { return true })
		if err != nil || !ok {
			t.Fatalf("Expected (true, nil), got (%v, %v)", ok, err)
		}
		if owner, occ := g.Occupant(C(1, 1)); !occ || owner != 4 {
			t.Errorf("Expected occupant 4, got %d (occupied=%v)", owner, occ)
		}
		if g.Version() == before.Version() {
			t.Error("Commit should bump the version")
		}
	})

	t.Run("非法格子", func(t *testing.T) {
		if _, err := g.Tentative(C(1, 1), 5, true, func(*Grid) bool { return true }); err == nil {
			t.Error("Expected error for an occupied cell")
		}
		if _, err := g.Tentative(C(5, 5), 5, true, func(*Grid) bool { return true }); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Expected ErrOutOfBounds, got %v", err)
		}
	})
}
