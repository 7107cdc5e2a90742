package memory

import (
	"context"
	"sync"

	"github.com/Apurer/storefront-cart/internal/domains/cart/ports"
)

var _ ports.Notifier = (*Notifier)(nil)

// DefaultNotificationCapacity bounds how many undrained notifications are kept.
const DefaultNotificationCapacity = 50

// Notifier buffers notifications until a UI drains them. When the buffer is
// full the oldest entry is dropped.
type Notifier struct {
	mu       sync.Mutex
	pending  []ports.Notification
	capacity int
}

func NewNotifier(capacity int) *Notifier {
	if capacity <= 0 {
		capacity = DefaultNotificationCapacity
	}
	return &Notifier{capacity: capacity}
}

func (n *Notifier) ReportError(_ context.Context, notification ports.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.pending) == n.capacity {
		n.pending = n.pending[1:]
	}
	n.pending = append(n.pending, notification)
}

// Drain returns and clears the buffered notifications, oldest first.
func (n *Notifier) Drain() []ports.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.pending
	n.pending = nil
	if out == nil {
		return []ports.Notification{}
	}
	return out
}
