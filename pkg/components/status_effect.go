package components

import "fmt"

// EffectKind 状态效果类型
type EffectKind int

const (
	// EffectNone 哨兵值，永远不会出现在效果表中
	EffectNone EffectKind = iota
	// EffectSlow 减速，Potency 为减速百分比（0-100）
	EffectSlow
)

// String 返回效果名称
func (k EffectKind) String() string {
	switch k {
	case EffectNone:
		return "none"
	case EffectSlow:
		return "slow"
	default:
		return fmt.Sprintf("effect(%d)", int(k))
	}
}

// ParseEffectKind 把配置中的效果名转换为 EffectKind
func ParseEffectKind(name string) (EffectKind, error) {
	switch name {
	case "slow":
		return EffectSlow, nil
	case "", "none":
		return EffectNone, nil
	default:
		return EffectNone, fmt.Errorf("unknown effect kind %q", name)
	}
}

// expiryEpsilon 剩余时间不超过该值即视为到期
// 逐帧累减 dt（如 1/60）会留下浮点残差，不能直接与 0 比较
const expiryEpsilon = 1e-9

// StatusEffect 单个状态效果
type StatusEffect struct {
	Remaining float64 // 剩余时间（秒）
	Potency   float64
}

// StatusEffectsComponent 实体身上的状态效果，每种类型至多一个
type StatusEffectsComponent struct {
	Effects map[EffectKind]StatusEffect
}

// NewStatusEffectsComponent 创建空的效果表
func NewStatusEffectsComponent() *StatusEffectsComponent {
	return &StatusEffectsComponent{Effects: make(map[EffectKind]StatusEffect)}
}

// Apply 添加效果；同类型的已有效果被直接替换（不叠加、不累加时长）
// EffectNone 会被拒绝
func (c *StatusEffectsComponent) Apply(kind EffectKind, duration, potency float64) error {
	if kind == EffectNone {
		return fmt.Errorf("cannot apply %s effect", kind)
	}
	if duration <= 0 {
		return fmt.Errorf("effect %s: duration must be positive, got %.2f", kind, duration)
	}
	if c.Effects == nil {
		c.Effects = make(map[EffectKind]StatusEffect)
	}
	c.Effects[kind] = StatusEffect{Remaining: duration, Potency: potency}
	return nil
}

// Has 是否存在指定类型的效果
func (c *StatusEffectsComponent) Has(kind EffectKind) bool {
	_, ok := c.Effects[kind]
	return ok
}

// SpeedMultiplier 当前所有效果对速度的乘积
func (c *StatusEffectsComponent) SpeedMultiplier() float64 {
	mult := 1.0
	for kind, effect := range c.Effects {
		if kind == EffectSlow {
			mult *= SlowMultiplier(effect.Potency)
		}
	}
	return mult
}

// Tick 所有效果的剩余时间减少 dt，移除到期的效果
// 返回: 本次移除的效果数量
func (c *StatusEffectsComponent) Tick(dt float64) int {
	removed := 0
	for kind, effect := range c.Effects {
		effect.Remaining -= dt
		if effect.Remaining <= expiryEpsilon {
			delete(c.Effects, kind)
			removed++
			continue
		}
		c.Effects[kind] = effect
	}
	return removed
}

// SlowMultiplier 减速百分比 -> 速度乘数，结果限制在 [0,1]
func SlowMultiplier(potency float64) float64 {
	m := 1 - potency/100
	if m < 0 {
		return 0
	}
	if m > 1 {
		return 1
	}
	return m
}
