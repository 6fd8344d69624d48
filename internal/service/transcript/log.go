// Package transcript holds the ordered, append-only view of exchanged messages.
package transcript

import (
	"sync"
	"time"

	"github.com/zhouzirui/honeypot-console/internal/model/chat"
)

// Handle identifies an appended message for later removal. The zero Handle
// never refers to a message.
type Handle uint64

// Scroller is notified after every append so the view can follow the newest entry.
type Scroller interface {
	ScrollToBottom()
}

// ScrollFunc adapts a function to Scroller.
type ScrollFunc func()

// ScrollToBottom calls f.
func (f ScrollFunc) ScrollToBottom() { f() }

// Log is the message log of one session. Messages are never edited; a
// placeholder is appended and later removed.
type Log struct {
	mu       sync.RWMutex
	lastID   Handle
	messages []chat.Message
	scroller Scroller
}

// New returns an empty log. scroller may be nil.
func New(scroller Scroller) *Log {
	return &Log{
		messages: make([]chat.Message, 0, 16),
		scroller: scroller,
	}
}

// Append adds a message at the end of the log.
func (l *Log) Append(text string, role chat.Role) Handle {
	l.mu.Lock()
	l.lastID++
	id := l.lastID
	l.messages = append(l.messages, chat.Message{
		ID:        uint64(id),
		Role:      role,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	})
	scroller := l.scroller
	l.mu.Unlock()

	if scroller != nil {
		scroller.ScrollToBottom()
	}
	return id
}

// Remove deletes the message behind h. It reports whether a message was
// removed; removing twice is a no-op.
func (l *Log) Remove(h Handle) bool {
	if h == 0 {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for i, msg := range l.messages {
		if msg.ID == uint64(h) {
			l.messages = append(l.messages[:i], l.messages[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether h still refers to a message in the log.
func (l *Log) Contains(h Handle) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, msg := range l.messages {
		if msg.ID == uint64(h) {
			return true
		}
	}
	return false
}

// Messages returns a copy of the log in arrival order.
func (l *Log) Messages() []chat.Message {
	l.mu.RLock()
	defer l.mu.RUnlock()

	copied := make([]chat.Message, len(l.messages))
	copy(copied, l.messages)
	return copied
}

// Len returns the number of visible messages.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.messages)
}
