package term

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/decker502/mazetd/pkg/arena"
	"github.com/decker502/mazetd/pkg/events"
	"github.com/decker502/mazetd/pkg/simulation"
	"github.com/decker502/mazetd/pkg/systems"
)

// TickInterval 终端前端的刷新间隔（约 30 FPS）
const TickInterval = 33 * time.Millisecond

// Frontend 终端对局：读取按键、推进会话、重绘
type Frontend struct {
	screen   tcell.Screen
	session  *simulation.Session
	renderer *Renderer

	view View
}

// NewFrontend 创建终端前端，光标初始位于网格中心
func NewFrontend(screen tcell.Screen, session *simulation.Session, selected string) *Frontend {
	size := session.Grid().Size()
	f := &Frontend{
		screen:   screen,
		session:  session,
		renderer: NewRenderer(screen),
		view: View{
			Cursor:   arena.C(size/2, size/2),
			Selected: selected,
		},
	}
	session.Subscribe(events.EventBuildRejected, func(ev events.GameEvent) {
		if p, ok := ev.Payload.(events.BuildRejectedPayload); ok {
			f.view.Message = rejectText(p.Err)
		}
	})
	session.Subscribe(events.EventLevelChanged, func(ev events.GameEvent) {
		if p, ok := ev.Payload.(events.LevelChangedPayload); ok {
			f.view.Message = fmt.Sprintf("Level %d -> %d", p.From, p.To)
		}
	})
	return f
}

// rejectText 建造被拒绝的简短说明
func rejectText(err error) string {
	var rej *systems.BuildRejectedError
	if errors.As(err, &rej) {
		return fmt.Sprintf("cannot build at %s: %s", rej.Cell, rej.Reason)
	}
	return "cannot build here"
}

// View 当前界面状态（测试使用）
func (f *Frontend) View() View {
	return f.view
}

// HandleEvent 处理一个终端事件
//
// 返回:
//   - bool: false 表示玩家要求退出
func (f *Frontend) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return f.handleKey(ev)
	case *tcell.EventResize:
		f.screen.Sync()
	}
	return true
}

func (f *Frontend) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		f.moveCursor(0, 1)
	case tcell.KeyDown:
		f.moveCursor(0, -1)
	case tcell.KeyLeft:
		f.moveCursor(-1, 0)
	case tcell.KeyRight:
		f.moveCursor(1, 0)
	case tcell.KeyEnter:
		f.build()
	case tcell.KeyBackspace, tcell.KeyBackspace2, tcell.KeyDelete:
		f.remove()
	case tcell.KeyRune:
		return f.handleRune(ev.Rune())
	}
	return true
}

// handleRune 塔快捷键优先，其次是 x 拆除、空格暂停、q 退出
func (f *Frontend) handleRune(r rune) bool {
	if kind, ok := f.session.TowerConfig().ByKey(string(r)); ok {
		f.view.Selected = kind
		f.view.Message = ""
		return true
	}
	switch r {
	case 'x':
		f.remove()
	case ' ':
		f.view.Paused = !f.view.Paused
	case 'q':
		return false
	}
	return true
}

// moveCursor 移动光标，停在网格边缘
func (f *Frontend) moveCursor(dc, dr int) {
	next := f.view.Cursor.Add(dc, dr)
	if f.session.Grid().InBounds(next) {
		f.view.Cursor = next
	}
}

func (f *Frontend) build() {
	if _, err := f.session.Build(f.view.Cursor, f.view.Selected); err == nil {
		f.view.Message = ""
	} else if !errors.As(err, new(*systems.BuildRejectedError)) {
		f.view.Message = err.Error()
	}
}

func (f *Frontend) remove() {
	if err := f.session.Remove(f.view.Cursor); err != nil {
		f.view.Message = err.Error()
	}
}

// Step 推进一个 tick 并重绘
func (f *Frontend) Step(dt float64) {
	if !f.view.Paused {
		f.session.Update(dt)
	}
	f.renderer.Draw(f.session, f.view)
}

// Run 运行终端主循环，直到玩家退出或 ctx 被取消
func (f *Frontend) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go f.pollEvents(ctx, eventChan)

	last := time.Now()
	f.Step(0)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev := <-eventChan:
			if !f.HandleEvent(ev) {
				log.Printf("[Term] Quit after %d ticks", f.session.Stats().Ticks)
				return nil
			}
			f.renderer.Draw(f.session, f.view)

		case now := <-ticker.C:
			f.Step(now.Sub(last).Seconds())
			last = now
		}
	}
}

// pollEvents 把终端事件转发到 out；Run 返回后不再阻塞在发送上
func (f *Frontend) pollEvents(ctx context.Context, out chan<- tcell.Event) {
	for {
		ev := f.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case out <- ev:
		case <-ctx.Done():
			return
		}
	}
}
