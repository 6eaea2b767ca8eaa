package app

import (
	"sync"
	"time"

	"github.com/dkeye/Consult/internal/core"
	"github.com/rs/zerolog/log"
)

const DefaultGracePeriod = 10 * time.Second

// Evictor reclaims a session a grace period after its last disconnect.
// Firing only runs evict, which must itself re-check that the session is
// empty; a reconnect never needs to cancel anything.
type Evictor struct {
	grace time.Duration
	evict func(core.SessionID) bool

	mu     sync.Mutex
	timers map[core.SessionID]*pending
	closed bool
}

// pending is one armed timer. Its address identifies it before AfterFunc
// returns, so a fire can tell whether it is still the current one.
type pending struct {
	t *time.Timer
}

func NewEvictor(grace time.Duration, evict func(core.SessionID) bool) *Evictor {
	if grace <= 0 {
		grace = DefaultGracePeriod
	}
	return &Evictor{
		grace:  grace,
		evict:  evict,
		timers: make(map[core.SessionID]*pending),
	}
}

// Schedule starts, or restarts, the grace timer for sid.
func (e *Evictor) Schedule(sid core.SessionID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	if old, ok := e.timers[sid]; ok {
		old.t.Stop()
	}
	p := &pending{}
	e.timers[sid] = p
	p.t = time.AfterFunc(e.grace, func() { e.fire(sid, p) })
	log.Debug().Str("module", "app.evictor").Str("session_id", string(sid)).Dur("grace", e.grace).Msg("eviction scheduled")
}

func (e *Evictor) fire(sid core.SessionID, p *pending) {
	e.mu.Lock()
	current := e.timers[sid] == p
	if current {
		delete(e.timers, sid)
	}
	closed := e.closed
	e.mu.Unlock()
	// A restarted timer whose Stop lost the race: the newer one owns sid.
	if !current || closed {
		return
	}
	if e.evict(sid) {
		log.Info().Str("module", "app.evictor").Str("session_id", string(sid)).Msg("session evicted")
		return
	}
	log.Debug().Str("module", "app.evictor").Str("session_id", string(sid)).Msg("eviction skipped, session in use")
}

func (e *Evictor) Pending(sid core.SessionID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.timers[sid]
	return ok
}

// Stop cancels every pending timer. Later Schedule calls are ignored.
func (e *Evictor) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	for sid, p := range e.timers {
		p.t.Stop()
		delete(e.timers, sid)
	}
}
