package components

// SpawnerComponent 刷怪器
//
// 每个等级部署一个刷怪器；CurrentCount 是当前存活的敌人数，
// CurrentKill 是被击杀的敌人数。所有刷怪器都达到 MaxKill 时升级。
type SpawnerComponent struct {
	ID        uint64
	Level     int
	AgentKind string

	Period float64 // 刷怪间隔（秒）
	Timer  float64 // 距离上次刷怪已经过的时间

	MaxCount     int
	CurrentCount int
	MaxKill      int
	CurrentKill  int
}

// Completed 是否已经达到击杀目标
func (s *SpawnerComponent) Completed() bool {
	return s.CurrentKill >= s.MaxKill
}
