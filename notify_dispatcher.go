package campusAuth

import (
	"context"
	"sync"
	"sync/atomic"
)

// notifyDispatcher delivers notifications. In synchronous mode Notify calls the sink
// directly; in async mode a single goroutine drains a buffered channel so delivery order
// matches emission order.
type notifyDispatcher struct {
	cfg       NotifyConfig
	sink      Notifier
	ch        chan Notification
	done      chan struct{}
	wg        sync.WaitGroup
	dropped   atomic.Uint64
	closed    atomic.Bool
	closeOnce sync.Once
}

func newNotifyDispatcher(cfg NotifyConfig, sink Notifier) *notifyDispatcher {
	if sink == nil {
		sink = NoOpNotifier{}
	}
	d := &notifyDispatcher{
		cfg:  cfg,
		sink: sink,
		done: make(chan struct{}),
	}
	if !cfg.Async {
		return d
	}
	if cfg.BufferSize <= 0 {
		d.cfg.BufferSize = 1
	}
	d.ch = make(chan Notification, d.cfg.BufferSize)

	d.wg.Add(1)
	go d.run()

	return d
}

func (d *notifyDispatcher) run() {
	defer d.wg.Done()

	for {
		select {
		case n := <-d.ch:
			d.sink.Notify(context.Background(), n)
		case <-d.done:
			for {
				select {
				case n := <-d.ch:
					d.sink.Notify(context.Background(), n)
				default:
					return
				}
			}
		}
	}
}

func (d *notifyDispatcher) Notify(ctx context.Context, n Notification) {
	if d == nil || d.closed.Load() {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if d.ch == nil {
		d.sink.Notify(ctx, n)
		return
	}

	if d.cfg.DropIfFull {
		select {
		case d.ch <- n:
		case <-d.done:
		default:
			d.dropped.Add(1)
		}
		return
	}

	select {
	case d.ch <- n:
	case <-ctx.Done():
	case <-d.done:
	}
}

// Close stops accepting notifications and flushes the queue.
func (d *notifyDispatcher) Close() {
	if d == nil {
		return
	}
	d.closeOnce.Do(func() {
		d.closed.Store(true)
		close(d.done)
		d.wg.Wait()
	})
}

func (d *notifyDispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}
