// Package notify is the user-facing notification surface: short, transient
// messages shown after an operation succeeds or fails. Delivery is
// fire-and-forget; a notifier that cannot display a message drops it.
package notify

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeveritySuccess Severity = "success"
)

type Notification struct {
	ID       ulid.ULID
	Severity Severity
	Title    string
	Body     string
	At       time.Time
}

type Notifier interface {
	Notify(n Notification)
}

func newNotification(sev Severity, title, body string) Notification {
	now := time.Now()
	return Notification{
		ID:       ulid.MustNew(ulid.Timestamp(now), rand.Reader),
		Severity: sev,
		Title:    title,
		Body:     body,
		At:       now,
	}
}

func Error(title, body string) Notification {
	return newNotification(SeverityError, title, body)
}

func Success(title, body string) Notification {
	return newNotification(SeveritySuccess, title, body)
}

// WriterNotifier prints one line per notification.
type WriterNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

func (n *WriterNotifier) Notify(note Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	label := "OK"
	if note.Severity == SeverityError {
		label = "ERROR"
	}
	_, _ = fmt.Fprintf(n.w, "[%s] %s: %s\n", label, note.Title, note.Body)
}

// Recorder keeps the last Limit notifications in memory. A zero Limit keeps
// everything.
type Recorder struct {
	Limit int

	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Notify(note Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, note)
	if r.Limit > 0 && len(r.items) > r.Limit {
		r.items = append([]Notification(nil), r.items[len(r.items)-r.Limit:]...)
	}
}

// All returns a copy of the recorded notifications, oldest first.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

// Count returns how many recorded notifications have the given severity.
func (r *Recorder) Count(sev Severity) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, item := range r.items {
		if item.Severity == sev {
			n++
		}
	}
	return n
}

// Multi fans a notification out to every notifier in order.
type Multi []Notifier

func (m Multi) Notify(note Notification) {
	for _, n := range m {
		if n != nil {
			n.Notify(note)
		}
	}
}
