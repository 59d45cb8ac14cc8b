package portal

import (
	"context"
	"sync"

	campusAuth "github.com/MrEthical07/campusAuth"
)

// Toasts keeps the most recent notifications for the frontend to poll.
type Toasts struct {
	mu    sync.Mutex
	buf   []campusAuth.Notification
	next  int
	count int
}

func NewToasts(capacity int) *Toasts {
	if capacity <= 0 {
		capacity = 1
	}
	return &Toasts{buf: make([]campusAuth.Notification, capacity)}
}

// Notify implements campusAuth.Notifier. The oldest entry is overwritten when full.
func (t *Toasts) Notify(_ context.Context, n campusAuth.Notification) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf[t.next] = n
	t.next = (t.next + 1) % len(t.buf)
	if t.count < len(t.buf) {
		t.count++
	}
}

// Recent returns the retained notifications, oldest first.
func (t *Toasts) Recent() []campusAuth.Notification {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]campusAuth.Notification, 0, t.count)
	start := (t.next - t.count + len(t.buf)) % len(t.buf)
	for i := 0; i < t.count; i++ {
		out = append(out, t.buf[(start+i)%len(t.buf)])
	}
	return out
}
