package events

// Queue 单线程 FIFO 事件队列
//
// 所有系统在同一个 tick 内顺序运行，因此不需要锁；
// 消费者（场景层）每帧调用一次 Drain。
type Queue struct {
	pending []GameEvent
}

// NewQueue 创建空队列
func NewQueue() *Queue {
	return &Queue{pending: make([]GameEvent, 0, 16)}
}

// Publish 追加一条事件
// nil 队列上调用是安全的（事件被丢弃），便于测试中省略消费者
func (q *Queue) Publish(t EventType, payload any) {
	if q == nil {
		return
	}
	q.pending = append(q.pending, GameEvent{Type: t, Payload: payload})
}

// Drain 按发布顺序返回所有待处理事件并清空队列
func (q *Queue) Drain() []GameEvent {
	if q == nil || len(q.pending) == 0 {
		return nil
	}
	out := q.pending
	q.pending = make([]GameEvent, 0, cap(out))
	return out
}

// Len 待处理事件数量
func (q *Queue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.pending)
}
