package notify

import (
	"context"
	"sync"
	"time"

	"github.com/DriveEzzy/DriveEzzy/internal/common/logger"
)

// 事件类型。与旧系统的 SNS 通知主题对应。
const (
	KindUserSignup     = "user.signup"
	KindBookingCreated = "booking.created"
)

// Event 通知事件。
type Event struct {
	Kind    string `json:"kind"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Sink 通知投递端。实现必须保证 Notify 在 ctx 截止前返回。
type Sink interface {
	Notify(ctx context.Context, ev Event) error
}

// NopSink 空实现（notify.enabled=false 时使用）。
type NopSink struct{}

func (NopSink) Notify(context.Context, Event) error { return nil }

// Dispatcher 尽力而为的异步事件分发：
// - Publish 立即返回，投递在独立 goroutine 中带超时执行
// - 投递失败只记日志，绝不影响触发它的业务操作
type Dispatcher struct {
	sink    Sink
	log     logger.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewDispatcher(sink Sink, log logger.Logger, timeout time.Duration) *Dispatcher {
	if sink == nil {
		sink = NopSink{}
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Dispatcher{
		sink:    sink,
		log:     log,
		timeout: timeout,
	}
}

// Publish 发布事件（fire-and-forget）。
func (d *Dispatcher) Publish(ev Event) {
	if d == nil || d.sink == nil {
		return
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		if err := d.sink.Notify(ctx, ev); err != nil && d.log != nil {
			d.log.WithFields(map[string]interface{}{
				"kind":    ev.Kind,
				"subject": ev.Subject,
				"error":   err.Error(),
			}).Warn("notification dropped")
		}
	}()
}

// Close 等待在途投递结束（用于优雅退出）。
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.wg.Wait()
}
