package components

// AgentComponent 标识实体为敌人
type AgentComponent struct {
	SpawnerID uint64 // 所属刷怪器
	Kind      string // 敌人类型（config.GameConfig.Agents 中的键）
	Bounty    int    // 被击杀时奖励的砖块
}
