package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// ToastMsg carries a user-facing notification from the gateway
type ToastMsg struct {
	Text string
}

// SessionExpiredMsg signals that the gateway tore down the session; the
// app routes back to login when it arrives.
type SessionExpiredMsg struct{}

// Relay adapts the gateway's Events interface onto the tea event loop.
// Events that fire before Attach (during startup wiring) are dropped.
type Relay struct {
	mu sync.Mutex
	p  *tea.Program
}

// NewRelay creates an unattached relay
func NewRelay() *Relay {
	return &Relay{}
}

// Attach connects the relay to a running program
func (r *Relay) Attach(p *tea.Program) {
	r.mu.Lock()
	r.p = p
	r.mu.Unlock()
}

func (r *Relay) send(msg tea.Msg) {
	r.mu.Lock()
	p := r.p
	r.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// Notify implements api.Events
func (r *Relay) Notify(text string) {
	r.send(ToastMsg{Text: text})
}

// SessionInvalidated implements api.Events
func (r *Relay) SessionInvalidated() {
	r.send(SessionExpiredMsg{})
}
