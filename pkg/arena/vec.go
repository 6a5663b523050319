package arena

import "math"

// Vec2 世界坐标中的点或向量
type Vec2 struct {
	X float64
	Y float64
}

// V 是 Vec2{x, y} 的简写
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add 向量加法
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub 向量减法
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale 数乘
func (v Vec2) Scale(k float64) Vec2 {
	return Vec2{X: v.X * k, Y: v.Y * k}
}

// Len 向量长度
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// DistanceTo 两点间的欧氏距离
func (v Vec2) DistanceTo(o Vec2) float64 {
	return v.Sub(o).Len()
}

// MoveToward 从 v 朝 target 移动 step 距离
// 返回新位置以及未用完的距离（到达 target 后剩余的部分）
func (v Vec2) MoveToward(target Vec2, step float64) (Vec2, float64) {
	delta := target.Sub(v)
	dist := delta.Len()
	if step >= dist {
		return target, step - dist
	}
	return v.Add(delta.Scale(step / dist)), 0
}
