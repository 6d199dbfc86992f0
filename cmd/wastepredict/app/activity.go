package app

import (
	"sync"
	"time"
)

// DefaultActivitySize is the number of activity entries kept.
const DefaultActivitySize = 100

// Entry is one user-visible activity line.
type Entry struct {
	Time    time.Time `json:"time"`
	Level   string    `json:"level"`
	Message string    `json:"message"`
}

// activityLog is a bounded ring of entries, oldest first.
type activityLog struct {
	mu      sync.Mutex
	entries []Entry
	next    int
	full    bool
}

func newActivityLog(size int) *activityLog {
	if size <= 0 {
		size = DefaultActivitySize
	}
	return &activityLog{entries: make([]Entry, size)}
}

func (l *activityLog) add(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries[l.next] = Entry{Time: time.Now(), Level: level, Message: msg}
	l.next = (l.next + 1) % len(l.entries)
	if l.next == 0 {
		l.full = true
	}
}

func (l *activityLog) list() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.full {
		return append([]Entry(nil), l.entries[:l.next]...)
	}
	out := make([]Entry, 0, len(l.entries))
	out = append(out, l.entries[l.next:]...)
	return append(out, l.entries[:l.next]...)
}
