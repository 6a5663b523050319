// Package pathfinding 在占用网格上做广度优先搜索
//
// 所有函数都是只读的：不修改网格，只通过 Graph.Successors 扩展节点。
// BFS 保证返回的路径格子数最少；等长路径按 Successors 的枚举顺序决出。
package pathfinding

import "github.com/decker502/mazetd/pkg/arena"

// Graph 寻路所需的最小接口
// *arena.Grid 满足该接口
type Graph interface {
	Successors(c arena.Cell) []arena.Cell
}

// FindPath 从 from 到 to 的最短路径
//
// 返回的路径包含起止两端，相邻格子正交相邻且互不重复。
// from 可以是当前被占用的格子（搜索从它的空邻居展开）。
// from == to 时返回只含一个格子的平凡路径 [from]。
//
// 返回:
//   - []arena.Cell: 路径
//   - bool: false 表示 to 不可达
func FindPath(g Graph, from, to arena.Cell) ([]arena.Cell, bool) {
	if from == to {
		return []arena.Cell{from}, true
	}

	parents := map[arena.Cell]arena.Cell{from: from}
	queue := []arena.Cell{from}

	for head := 0; head < len(queue); head++ {
		current := queue[head]
		for _, next := range g.Successors(current) {
			if _, seen := parents[next]; seen {
				continue
			}
			parents[next] = current
			if next == to {
				return buildPath(parents, from, to), true
			}
			queue = append(queue, next)
		}
	}

	return nil, false
}

// buildPath 沿父节点回溯出 from -> to 的路径
func buildPath(parents map[arena.Cell]arena.Cell, from, to arena.Cell) []arena.Cell {
	path := []arena.Cell{to}
	for c := to; c != from; {
		c = parents[c]
		path = append(path, c)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// FindNextStep 返回最短路径上紧随 from 的下一个格子
// to 不可达或 from == to 时返回 false
func FindNextStep(g Graph, from, to arena.Cell) (arena.Cell, bool) {
	path, ok := FindPath(g, from, to)
	if !ok || len(path) < 2 {
		return arena.Cell{}, false
	}
	return path[1], true
}

// PathExists 判断 to 是否可以从 from 到达
func PathExists(g Graph, from, to arena.Cell) bool {
	_, ok := FindPath(g, from, to)
	return ok
}

// Reachable 从 from 出发的 BFS 距离场（步数）
// 包含 from 自身（距离 0），用于调试覆盖层显示可达区域
func Reachable(g Graph, from arena.Cell) map[arena.Cell]int {
	dist := map[arena.Cell]int{from: 0}
	queue := []arena.Cell{from}

	for head := 0; head < len(queue); head++ {
		current := queue[head]
		for _, next := range g.Successors(current) {
			if _, seen := dist[next]; seen {
				continue
			}
			dist[next] = dist[current] + 1
			queue = append(queue, next)
		}
	}
	return dist
}
