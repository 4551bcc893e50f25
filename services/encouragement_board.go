package services

import (
	"sync"
	"time"
)

// Toast is the transient encouragement shown after a completion.
type Toast struct {
	Ticket      uint64     `json:"ticket"`
	ChallengeID string     `json:"challengeId"`
	Message     string     `json:"message,omitempty"`
	Pending     bool       `json:"pending"`
	ShownAt     *time.Time `json:"shownAt,omitempty"`
}

// EncouragementBoard holds at most one toast. Only the latest ticket may
// resolve it; results for superseded or dismissed tickets are dropped.
type EncouragementBoard struct {
	mu      sync.Mutex
	seq     uint64
	current *Toast
	ttl     time.Duration
	now     func() time.Time
}

func NewEncouragementBoard(ttl time.Duration) *EncouragementBoard {
	return &EncouragementBoard{ttl: ttl, now: time.Now}
}

func (b *EncouragementBoard) SetClock(now func() time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.now = now
}

// Begin opens a pending toast and returns its ticket.
func (b *EncouragementBoard) Begin(challengeID string) Toast {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	b.current = &Toast{Ticket: b.seq, ChallengeID: challengeID, Pending: true}
	return *b.current
}

// Resolve reports whether the message was accepted.
func (b *EncouragementBoard) Resolve(ticket uint64, message string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil || b.current.Ticket != ticket || ticket != b.seq {
		return false
	}
	shownAt := b.now()
	b.current.Message = message
	b.current.Pending = false
	b.current.ShownAt = &shownAt
	return true
}

func (b *EncouragementBoard) Dismiss() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	b.current = nil
}

// Current returns the pending toast, or the resolved one until its ttl passes.
func (b *EncouragementBoard) Current() (Toast, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return Toast{}, false
	}
	if !b.current.Pending && b.ttl > 0 && b.now().Sub(*b.current.ShownAt) >= b.ttl {
		b.current = nil
		return Toast{}, false
	}
	return *b.current, true
}
