package notify

import (
	"time"

	"nexushub_back/models"
)

const DefaultDuration = 3200 * time.Millisecond

var defaultTitles = map[models.NotificationType]string{
	models.NotificationSuccess: "Success",
	models.NotificationError:   "Something went wrong",
	models.NotificationWarning: "Heads up",
	models.NotificationInfo:    "Notice",
}

type Options struct {
	Title    string
	Message  string
	Duration time.Duration
}

// Notifier is the feedback surface other components depend on.
type Notifier interface {
	Success(opts Options) string
	Error(opts Options) string
	Warning(opts Options) string
	Info(opts Options) string
}

// Toaster fills in default titles and durations before pushing to a Queue.
type Toaster struct {
	queue    *Queue
	duration time.Duration
}

func NewToaster(queue *Queue, duration time.Duration) *Toaster {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Toaster{queue: queue, duration: duration}
}

func (t *Toaster) Success(opts Options) string {
	return t.push(models.NotificationSuccess, opts)
}

func (t *Toaster) Error(opts Options) string {
	return t.push(models.NotificationError, opts)
}

func (t *Toaster) Warning(opts Options) string {
	return t.push(models.NotificationWarning, opts)
}

func (t *Toaster) Info(opts Options) string {
	return t.push(models.NotificationInfo, opts)
}

func (t *Toaster) push(typ models.NotificationType, opts Options) string {
	title := opts.Title
	if title == "" {
		title = defaultTitles[typ]
	}
	duration := opts.Duration
	if duration == 0 {
		duration = t.duration
	}
	return t.queue.Add(typ, title, opts.Message, duration)
}
