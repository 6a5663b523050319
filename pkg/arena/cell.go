// Package arena 提供塔防地图的占用网格与坐标几何
//
// 网格是 N×N 的方格，每个格子可能被障碍物（塔）占用。
// 世界坐标系 Y 轴向上，原点位于屏幕中心；网格的参考角为左下角。
package arena

import "fmt"

// Cell 网格坐标 (列, 行)
// 值类型，可直接比较和作为 map 的键
type Cell struct {
	Col int
	Row int
}

// C 是 Cell{col, row} 的简写
func C(col, row int) Cell {
	return Cell{Col: col, Row: row}
}

// String 返回 "(col,row)" 形式
func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Col, c.Row)
}

// Add 返回偏移 (dc, dr) 后的格子
func (c Cell) Add(dc, dr int) Cell {
	return Cell{Col: c.Col + dc, Row: c.Row + dr}
}

// Less 先按列、再按行比较
func (c Cell) Less(other Cell) bool {
	if c.Col != other.Col {
		return c.Col < other.Col
	}
	return c.Row < other.Row
}

// Manhattan 返回两个格子之间的曼哈顿距离
func (c Cell) Manhattan(other Cell) int {
	return abs(c.Col-other.Col) + abs(c.Row-other.Row)
}

// Adjacent 判断两个格子是否正交相邻
func (c Cell) Adjacent(other Cell) bool {
	return c.Manhattan(other) == 1
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
