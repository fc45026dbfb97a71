package admission

import (
	"sync"
	"time"

	"gac/src/types"
)

// ToastMessage is a short-lived feedback message for the operator.
type ToastMessage struct {
	Kind      types.ToastKind `json:"kind"`
	Title     string          `json:"title"`
	Body      string          `json:"body"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// NotificationQueue holds at most one visible message. Admission
// attempts happen faster than a human can read a backlog, so a new
// message replaces the current one outright and restarts the TTL clock.
// Replacement is atomic with respect to the expiry timer: an old timer
// can never clear a newer message.
type NotificationQueue struct {
	mu    sync.Mutex
	ttl   time.Duration
	cur   *ToastMessage
	timer *time.Timer
	gen   uint64
}

func NewNotificationQueue(ttl time.Duration) *NotificationQueue {
	return &NotificationQueue{ttl: ttl}
}

func (q *NotificationQueue) Push(kind types.ToastKind, title, body string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.gen++
	gen := q.gen
	if q.timer != nil {
		q.timer.Stop()
	}
	q.cur = &ToastMessage{
		Kind:      kind,
		Title:     title,
		Body:      body,
		ExpiresAt: time.Now().Add(q.ttl),
	}
	q.timer = time.AfterFunc(q.ttl, func() {
		q.mu.Lock()
		defer q.mu.Unlock()
		if q.gen == gen {
			q.cur = nil
			q.timer = nil
		}
	})
}

// Current returns the visible message, or nil once the TTL has elapsed.
func (q *NotificationQueue) Current() *ToastMessage {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.cur == nil || time.Now().After(q.cur.ExpiresAt) {
		return nil
	}
	msg := *q.cur
	return &msg
}

func (q *NotificationQueue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.gen++
	if q.timer != nil {
		q.timer.Stop()
		q.timer = nil
	}
	q.cur = nil
}
