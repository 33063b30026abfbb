package resolver

import (
	"context"
	"sync"
)

// FieldTracker keeps at most one resolution in flight per input field.
// Beginning a new request cancels the previous one for the same field, and
// IsCurrent lets the caller drop any result that arrives late.
type FieldTracker struct {
	mu     sync.Mutex
	next   uint64
	fields map[string]inflight
}

type inflight struct {
	token  uint64
	cancel context.CancelFunc
}

// NewFieldTracker creates an empty tracker
func NewFieldTracker() *FieldTracker {
	return &FieldTracker{fields: make(map[string]inflight)}
}

// Begin starts a request for field, cancelling any earlier one
func (t *FieldTracker) Begin(parent context.Context, field string) (context.Context, uint64) {
	ctx, cancel := context.WithCancel(parent)

	t.mu.Lock()
	defer t.mu.Unlock()

	if prev, ok := t.fields[field]; ok {
		prev.cancel()
	}
	t.next++
	t.fields[field] = inflight{token: t.next, cancel: cancel}
	return ctx, t.next
}

// IsCurrent reports whether token is the latest request for field
func (t *FieldTracker) IsCurrent(field string, token uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	cur, ok := t.fields[field]
	return ok && cur.token == token
}

// Done releases the request's context. A stale token is ignored.
func (t *FieldTracker) Done(field string, token uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if cur, ok := t.fields[field]; ok && cur.token == token {
		cur.cancel()
		delete(t.fields, field)
	}
}

// CancelAll cancels every request in flight
func (t *FieldTracker) CancelAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for field, cur := range t.fields {
		cur.cancel()
		delete(t.fields, field)
	}
}
