package ecs

// IDAllocator 单调递增的ID分配器
//
// 由调用方持有并显式传递（例如刷怪器ID、实体ID），
// 替代进程级的全局原子计数器。零值即可使用，第一个ID为1。
type IDAllocator struct {
	last uint64
}

// Next 分配下一个ID
func (a *IDAllocator) Next() uint64 {
	a.last++
	return a.last
}

// Peek 返回下一次 Next 将分配的ID（不消耗）
func (a *IDAllocator) Peek() uint64 {
	return a.last + 1
}

// Reset 重置分配器，下一次 Next 返回 1
func (a *IDAllocator) Reset() {
	a.last = 0
}
