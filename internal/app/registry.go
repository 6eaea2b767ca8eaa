package app

import (
	"context"
	"sync"

	"github.com/dkeye/Consult/internal/core"
	"github.com/dkeye/Consult/internal/domain"
	"github.com/rs/zerolog/log"
)

// Binding is one live connection holding a role in a session.
type Binding struct {
	SessionID core.SessionID
	Role      domain.Role
	Name      string
	ConnID    core.ConnID
	Conn      core.SignalConnection
	Session   *core.Session
	Cancel    context.CancelFunc
}

// Registry tracks which connection currently holds each role of each
// session. At most one connection per role is live.
type Registry struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]map[domain.Role]*Binding
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[core.SessionID]map[domain.Role]*Binding),
	}
}

// Bind installs b and returns the binding it superseded, if any.
func (r *Registry) Bind(b *Binding) *Binding {
	r.mu.Lock()
	defer r.mu.Unlock()
	roles, ok := r.sessions[b.SessionID]
	if !ok {
		roles = make(map[domain.Role]*Binding, 2)
		r.sessions[b.SessionID] = roles
	}
	old := roles[b.Role]
	roles[b.Role] = b
	log.Info().Str("module", "app.registry").Str("session_id", string(b.SessionID)).Str("role", string(b.Role)).Str("conn_id", string(b.ConnID)).Msg("bound connection")
	return old
}

// Unbind removes the binding only if connID still holds the role, so a
// superseded connection cannot evict its replacement.
func (r *Registry) Unbind(sid core.SessionID, role domain.Role, connID core.ConnID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	roles, ok := r.sessions[sid]
	if !ok {
		return false
	}
	b, ok := roles[role]
	if !ok || b.ConnID != connID {
		return false
	}
	delete(roles, role)
	if len(roles) == 0 {
		delete(r.sessions, sid)
	}
	log.Info().Str("module", "app.registry").Str("session_id", string(sid)).Str("role", string(role)).Str("conn_id", string(connID)).Msg("unbound connection")
	return true
}

func (r *Registry) Lookup(sid core.SessionID, role domain.Role) (*Binding, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.sessions[sid][role]
	return b, ok
}

// Count returns the number of live connections in sid.
func (r *Registry) Count(sid core.SessionID) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions[sid])
}

// Cancel tears down b's connection; its read loop then unbinds it.
func (r *Registry) Cancel(b *Binding) {
	if b.Cancel != nil {
		b.Cancel()
	}
	if b.Conn != nil {
		b.Conn.Close()
	}
	log.Info().Str("module", "app.registry").Str("session_id", string(b.SessionID)).Str("conn_id", string(b.ConnID)).Msg("canceled connection")
}
