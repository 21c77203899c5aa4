package chat

import "sync"

// PendingQuery holds a query handed to a conversation by an external
// trigger (a command palette, a deep link). It is a single-use token:
// Take atomically returns and clears the value, so a consumer acting on
// it can never act twice on the same injection.
type PendingQuery struct {
	mu sync.Mutex
	q  string
}

// Set replaces the pending query. An empty string clears it.
func (p *PendingQuery) Set(q string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.q = q
}

// Take returns the pending query and clears it.
func (p *PendingQuery) Take() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	q := p.q
	p.q = ""
	return q
}

// Peek returns the pending query without consuming it.
func (p *PendingQuery) Peek() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.q
}
