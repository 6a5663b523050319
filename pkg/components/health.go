package components

// HealthComponent 存储实体的生命值信息
// 用于可以被塔攻击的敌人
type HealthComponent struct {
	CurrentHealth int // 当前生命值
	MaxHealth     int // 最大生命值
}

// IsDead 生命值是否耗尽
func (h *HealthComponent) IsDead() bool {
	return h.CurrentHealth <= 0
}

// Ratio 当前生命值比例（用于绘制血条）
func (h *HealthComponent) Ratio() float64 {
	if h.MaxHealth <= 0 {
		return 0
	}
	r := float64(h.CurrentHealth) / float64(h.MaxHealth)
	if r < 0 {
		return 0
	}
	return r
}
