package events

// HandlerFunc 事件处理函数
type HandlerFunc func(ev GameEvent)

// Router 把队列中的事件分发给订阅者
// 同一类型的多个处理函数按订阅顺序调用
type Router struct {
	queue    *Queue
	handlers map[EventType][]HandlerFunc
}

// NewRouter 创建绑定到 queue 的路由器
func NewRouter(queue *Queue) *Router {
	return &Router{
		queue:    queue,
		handlers: make(map[EventType][]HandlerFunc),
	}
}

// Subscribe 订阅一种事件类型
func (r *Router) Subscribe(t EventType, h HandlerFunc) {
	r.handlers[t] = append(r.handlers[t], h)
}

// DispatchAll 取出队列中的全部事件并逐个分发
// 处理函数中新发布的事件留到下一次 DispatchAll
// 返回: 本次分发的事件数
func (r *Router) DispatchAll() int {
	evs := r.queue.Drain()
	for _, ev := range evs {
		for _, h := range r.handlers[ev.Type] {
			h(ev)
		}
	}
	return len(evs)
}

// HandlerCount 某类型已注册的处理函数数量
func (r *Router) HandlerCount(t EventType) int {
	return len(r.handlers[t])
}
