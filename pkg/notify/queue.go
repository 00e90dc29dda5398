// Package notify holds the process wide queue of transient user messages.
package notify

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"nexushub_back/models"
	"nexushub_back/pkg/metrics"
)

type pending struct {
	timer *time.Timer
	seq   uint64
}

// Queue keeps active notifications in insertion order and expires them
// after their duration. The zero value is not usable, use NewQueue.
type Queue struct {
	mu      sync.Mutex
	items   []models.Notification
	timers  map[string]pending
	counter uint64
	seq     uint64
	now     func() time.Time
}

func NewQueue() *Queue {
	return &Queue{
		timers: make(map[string]pending),
		now:    time.Now,
	}
}

// Add appends a notification and returns its id immediately. Positive
// durations are rounded up to whole milliseconds.
func (q *Queue) Add(typ models.NotificationType, title, message string, duration time.Duration) string {
	return q.Push(models.NotificationInput{
		Type:       typ,
		Title:      title,
		Message:    message,
		DurationMs: durationMs(duration),
	})
}

func durationMs(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	return int64((d + time.Millisecond - 1) / time.Millisecond)
}

// Push appends a notification built from in. A caller supplied id that is
// already active replaces the old entry.
func (q *Queue) Push(in models.NotificationInput) string {
	q.mu.Lock()
	defer q.mu.Unlock()

	id := in.ID
	if id == "" {
		q.counter++
		id = fmt.Sprintf("notification-%d-%d", q.now().UnixMilli(), q.counter)
	} else {
		q.removeLocked(id)
	}

	q.items = append(q.items, models.Notification{
		ID:         id,
		Type:       in.Type,
		Title:      in.Title,
		Message:    in.Message,
		DurationMs: in.DurationMs,
	})

	if in.DurationMs > 0 {
		q.seq++
		seq := q.seq
		t := time.AfterFunc(time.Duration(in.DurationMs)*time.Millisecond, func() {
			q.expire(id, seq)
		})
		q.timers[id] = pending{timer: t, seq: seq}
	}

	metrics.NotificationsTotal.WithLabelValues(string(in.Type)).Inc()
	logrus.WithFields(logrus.Fields{
		"id":   id,
		"type": in.Type,
	}).Debug(in.Message)

	return id
}

// Remove deletes id and cancels its expiry. Unknown ids are ignored.
func (q *Queue) Remove(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.removeLocked(id)
}

func (q *Queue) ClearAll() {
	q.mu.Lock()
	defer q.mu.Unlock()

	for id, p := range q.timers {
		p.timer.Stop()
		delete(q.timers, id)
	}
	q.items = nil
}

// List returns a copy of the active notifications in display order.
func (q *Queue) List() []models.Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]models.Notification, len(q.items))
	copy(out, q.items)
	return out
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// expire runs on the timer goroutine. seq guards against a timer that lost
// the race with Remove and would otherwise delete a reused id.
func (q *Queue) expire(id string, seq uint64) {
	q.mu.Lock()
	defer q.mu.Unlock()

	p, ok := q.timers[id]
	if !ok || p.seq != seq {
		return
	}
	delete(q.timers, id)
	q.deleteItem(id)
}

func (q *Queue) removeLocked(id string) {
	if p, ok := q.timers[id]; ok {
		p.timer.Stop()
		delete(q.timers, id)
	}
	q.deleteItem(id)
}

func (q *Queue) deleteItem(id string) {
	for i, n := range q.items {
		if n.ID == id {
			q.items = append(q.items[:i:i], q.items[i+1:]...)
			return
		}
	}
}
