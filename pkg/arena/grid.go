package arena

import (
	"errors"
	"fmt"
	"math"

	"github.com/decker502/mazetd/pkg/ecs"
)

var (
	// ErrOutOfBounds 格子不在网格范围内
	ErrOutOfBounds = errors.New("cell out of bounds")
	// ErrInvalidEndpoints 起点/终点不合法（越界、重合或已被占用）
	ErrInvalidEndpoints = errors.New("invalid start/goal cells")
)

// Corners 网格四个角的世界坐标
type Corners struct {
	TopLeft     Vec2
	TopRight    Vec2
	BottomLeft  Vec2
	BottomRight Vec2
}

// Grid 占用网格
//
// occupied[col][row] 为 true 表示该格子阻挡通行；
// occupant 与 occupied 平行，记录占用者的实体ID（ecs.NoEntity 表示无）。
//
// 网格本身不校验连通性，"起点到终点始终可达"这一不变量
// 由 systems.OccupancySystem 负责维护。
type Grid struct {
	size     int
	cellSize float64
	origin   Vec2 // 左下角的世界坐标

	occupied [][]bool
	occupant [][]ecs.EntityID

	start Cell
	goal  Cell

	// version 每次占用状态变化时递增，用于检测路径是否需要重新规划
	version uint64
}

// NewGrid 创建一个全空的 size×size 网格
//
// 参数:
//   - size: 每边格子数，size 为 0 时网格没有合法的起点/终点，不能用于寻路
//   - cellSize: 格子边长（世界坐标单位）
//   - origin: 网格左下角的世界坐标
//
// 默认起点为 (size-1, size/2)，终点为 (0, size/2)；size<2 时两者相同且不可用。
func NewGrid(size int, cellSize float64, origin Vec2) *Grid {
	if size < 0 {
		size = 0
	}

	occupied := make([][]bool, size)
	occupant := make([][]ecs.EntityID, size)
	for col := 0; col < size; col++ {
		occupied[col] = make([]bool, size)
		occupant[col] = make([]ecs.EntityID, size)
	}

	g := &Grid{
		size:     size,
		cellSize: cellSize,
		origin:   origin,
		occupied: occupied,
		occupant: occupant,
	}
	if size > 0 {
		g.start = Cell{Col: size - 1, Row: size / 2}
		g.goal = Cell{Col: 0, Row: size / 2}
	}
	return g
}

// NewGridFromLayout 根据竞技场尺寸计算网格
//
// 网格高度为 arenaHeight - padding，格子数向上取整；
// 网格在世界坐标中水平居中，底边位于 -(arenaHeight-padding)/2。
// 终点位于最左列的中线，起点位于最右列的中线。
func NewGridFromLayout(arenaHeight, padding, squareSize float64) (*Grid, error) {
	if squareSize <= 0 {
		return nil, fmt.Errorf("square size must be positive, got %.2f", squareSize)
	}
	padHeight := arenaHeight - padding
	if padHeight <= 0 {
		return nil, fmt.Errorf("padding %.2f leaves no room in arena height %.2f", padding, arenaHeight)
	}

	squares := int(math.Ceil(padHeight / squareSize))
	if squares < 2 {
		return nil, fmt.Errorf("layout yields %d squares, need at least 2", squares)
	}

	lineLength := squareSize * float64(squares)
	origin := Vec2{X: -lineLength / 2, Y: -padHeight / 2}
	return NewGrid(squares, squareSize, origin), nil
}

// Size 每边格子数
func (g *Grid) Size() int { return g.size }

// CellSize 格子边长
func (g *Grid) CellSize() float64 { return g.cellSize }

// Origin 左下角世界坐标
func (g *Grid) Origin() Vec2 { return g.origin }

// Start 敌人起点
func (g *Grid) Start() Cell { return g.start }

// Goal 敌人终点
func (g *Grid) Goal() Cell { return g.goal }

// Version 占用状态版本号
func (g *Grid) Version() uint64 { return g.version }

// Corners 返回网格四角的世界坐标
func (g *Grid) Corners() Corners {
	extent := g.cellSize * float64(g.size)
	return Corners{
		TopLeft:     Vec2{X: g.origin.X, Y: g.origin.Y + extent},
		TopRight:    Vec2{X: g.origin.X + extent, Y: g.origin.Y + extent},
		BottomLeft:  g.origin,
		BottomRight: Vec2{X: g.origin.X + extent, Y: g.origin.Y},
	}
}

// SetEndpoints 设置起点和终点
// 两者必须在界内、互不相同、且当前未被占用
func (g *Grid) SetEndpoints(start, goal Cell) error {
	if !g.InBounds(start) || !g.InBounds(goal) {
		return fmt.Errorf("%w: start=%s goal=%s size=%d", ErrInvalidEndpoints, start, goal, g.size)
	}
	if start == goal {
		return fmt.Errorf("%w: start and goal are both %s", ErrInvalidEndpoints, start)
	}
	if g.occupied[start.Col][start.Row] || g.occupied[goal.Col][goal.Row] {
		return fmt.Errorf("%w: start %s or goal %s is occupied", ErrInvalidEndpoints, start, goal)
	}
	g.start = start
	g.goal = goal
	return nil
}

// HasValidEndpoints 网格是否可以用于寻路
func (g *Grid) HasValidEndpoints() bool {
	return g.size > 0 && g.InBounds(g.start) && g.InBounds(g.goal) && g.start != g.goal
}

// IsEndpoint 格子是否为起点或终点
func (g *Grid) IsEndpoint(c Cell) bool {
	return c == g.start || c == g.goal
}

// InBounds 检查格子是否在网格范围内
func (g *Grid) InBounds(c Cell) bool {
	return c.Col >= 0 && c.Col < g.size && c.Row >= 0 && c.Row < g.size
}

// mustInBounds 越界属于调用方的编程错误，立即 panic
func (g *Grid) mustInBounds(c Cell) {
	if !g.InBounds(c) {
		panic(fmt.Errorf("%w: %s (size %d)", ErrOutOfBounds, c, g.size))
	}
}

// IsOccupied 检查格子是否被占用
// 调用方必须先用 InBounds 检查；越界时 panic（错误包装 ErrOutOfBounds）
func (g *Grid) IsOccupied(c Cell) bool {
	g.mustInBounds(c)
	return g.occupied[c.Col][c.Row]
}

// Occupant 返回格子的占用者
// 越界时 panic，与 IsOccupied 一致
func (g *Grid) Occupant(c Cell) (ecs.EntityID, bool) {
	g.mustInBounds(c)
	if !g.occupied[c.Col][c.Row] {
		return ecs.NoEntity, false
	}
	return g.occupant[c.Col][c.Row], true
}

// SetOccupied 直接标记格子为占用（不做连通性校验）
func (g *Grid) SetOccupied(c Cell, owner ecs.EntityID) error {
	if !g.InBounds(c) {
		return fmt.Errorf("%w: %s (size %d)", ErrOutOfBounds, c, g.size)
	}
	g.occupied[c.Col][c.Row] = true
	g.occupant[c.Col][c.Row] = owner
	g.version++
	return nil
}

// ClearOccupied 直接清除格子的占用状态和占用者
func (g *Grid) ClearOccupied(c Cell) error {
	if !g.InBounds(c) {
		return fmt.Errorf("%w: %s (size %d)", ErrOutOfBounds, c, g.size)
	}
	g.occupied[c.Col][c.Row] = false
	g.occupant[c.Col][c.Row] = ecs.NoEntity
	g.version++
	return nil
}

// Tentative 临时占用 c 后调用 check 判断是否保留
//
// check 返回 false，或 commit 为 false（试算）时，占用状态和版本号都恢复原样，
// 网格与调用前逐位一致。c 必须在界内且当前为空。
//
// 返回:
//   - bool: check 的结果
//   - error: c 越界或已被占用
func (g *Grid) Tentative(c Cell, owner ecs.EntityID, commit bool, check func(*Grid) bool) (bool, error) {
	if !g.InBounds(c) {
		return false, fmt.Errorf("%w: %s (size %d)", ErrOutOfBounds, c, g.size)
	}
	if g.occupied[c.Col][c.Row] {
		return false, fmt.Errorf("tentative occupy %s: already occupied by %d", c, g.occupant[c.Col][c.Row])
	}

	version := g.version
	g.occupied[c.Col][c.Row] = true
	g.occupant[c.Col][c.Row] = owner
	g.version++

	ok := check(g)
	if ok && commit {
		return true, nil
	}

	g.occupied[c.Col][c.Row] = false
	g.occupant[c.Col][c.Row] = ecs.NoEntity
	g.version = version
	return ok, nil
}

// neighborOffsets 邻居枚举顺序：上、右、下、左
// 顺序只影响等长路径的选择，保持固定以便测试结果可复现
var neighborOffsets = [4][2]int{
	{0, 1},
	{1, 0},
	{0, -1},
	{-1, 0},
}

// Successors 返回界内且未被占用的正交邻居（0-4 个）
// c 自身可以是被占用的格子（敌人可能正处在刚建好的塔下）
func (g *Grid) Successors(c Cell) []Cell {
	result := make([]Cell, 0, 4)
	for _, off := range neighborOffsets {
		n := c.Add(off[0], off[1])
		if !g.InBounds(n) {
			continue
		}
		if g.occupied[n.Col][n.Row] {
			continue
		}
		result = append(result, n)
	}
	return result
}

// WorldToCell 世界坐标 -> 格子坐标（向下取整）
// 结果可能越界，调用方需要用 InBounds 检查
func (g *Grid) WorldToCell(p Vec2) Cell {
	return Cell{
		Col: int(math.Floor((p.X - g.origin.X) / g.cellSize)),
		Row: int(math.Floor((p.Y - g.origin.Y) / g.cellSize)),
	}
}

// CellToWorld 格子坐标 -> 格子中心的世界坐标
func (g *Grid) CellToWorld(c Cell) Vec2 {
	return Vec2{
		X: g.origin.X + (float64(c.Col)+0.5)*g.cellSize,
		Y: g.origin.Y + (float64(c.Row)+0.5)*g.cellSize,
	}
}

// CellBottomLeft 格子左下角的世界坐标（用于绘制）
func (g *Grid) CellBottomLeft(c Cell) Vec2 {
	return Vec2{
		X: g.origin.X + float64(c.Col)*g.cellSize,
		Y: g.origin.Y + float64(c.Row)*g.cellSize,
	}
}

// ContainsWorld 世界坐标是否落在网格范围内
func (g *Grid) ContainsWorld(p Vec2) bool {
	return g.InBounds(g.WorldToCell(p))
}

// OccupiedCells 返回所有被占用的格子（按列、行升序）
func (g *Grid) OccupiedCells() []Cell {
	result := make([]Cell, 0)
	for col := 0; col < g.size; col++ {
		for row := 0; row < g.size; row++ {
			if g.occupied[col][row] {
				result = append(result, Cell{Col: col, Row: row})
			}
		}
	}
	return result
}

// Clone 返回网格的深拷贝
// 并行更新敌人时应当在 tick 开始时取一份快照，所有读者共享同一状态
func (g *Grid) Clone() *Grid {
	clone := &Grid{
		size:     g.size,
		cellSize: g.cellSize,
		origin:   g.origin,
		start:    g.start,
		goal:     g.goal,
		version:  g.version,
		occupied: make([][]bool, g.size),
		occupant: make([][]ecs.EntityID, g.size),
	}
	for col := 0; col < g.size; col++ {
		clone.occupied[col] = append([]bool(nil), g.occupied[col]...)
		clone.occupant[col] = append([]ecs.EntityID(nil), g.occupant[col]...)
	}
	return clone
}

// Equal 比较两个网格的占用状态是否逐位一致（不比较版本号）
func (g *Grid) Equal(other *Grid) bool {
	if g.size != other.size || g.start != other.start || g.goal != other.goal {
		return false
	}
	for col := 0; col < g.size; col++ {
		for row := 0; row < g.size; row++ {
			if g.occupied[col][row] != other.occupied[col][row] {
				return false
			}
			if g.occupant[col][row] != other.occupant[col][row] {
				return false
			}
		}
	}
	return true
}
