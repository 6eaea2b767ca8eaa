package orch

import (
	"errors"
	"time"

	"github.com/dkeye/Consult/internal/app"
	"github.com/dkeye/Consult/internal/auth"
	"github.com/dkeye/Consult/internal/core"
	"github.com/rs/zerolog/log"
)

// TokenDecoder verifies an access link token.
type TokenDecoder interface {
	Decode(token string) (*auth.Claims, error)
}

type Orchestrator struct {
	Registry *app.Registry
	Sessions *core.Store
	Evictor  *app.Evictor
	Policy   app.Policy
	Tokens   TokenDecoder
}

func New(tokens TokenDecoder, grace time.Duration) *Orchestrator {
	o := &Orchestrator{
		Registry: app.NewRegistry(),
		Sessions: core.NewStore(),
		Policy:   app.SimplePolicy{},
		Tokens:   tokens,
	}
	o.Evictor = app.NewEvictor(grace, o.evictIfEmpty)
	return o
}

// Close stops pending evictions.
func (o *Orchestrator) Close() {
	o.Evictor.Stop()
}

func (o *Orchestrator) evictIfEmpty(sid core.SessionID) bool {
	return o.Sessions.DeleteIf(sid, func() bool {
		return o.Registry.Count(sid) == 0
	})
}

// forward delivers out to the counterpart of from, if one is connected.
func (o *Orchestrator) forward(from *app.Binding, out core.Outbound) {
	peer, ok := o.Registry.Lookup(from.SessionID, from.Role.Other())
	if !ok {
		return
	}
	o.send(peer, out)
}

func (o *Orchestrator) send(to *app.Binding, out core.Outbound) {
	frame, err := out.Encode()
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Str("type", string(out.Type)).Msg("encode event")
		return
	}
	err = to.Conn.TrySend(frame)
	if err == nil || !errors.Is(err, core.ErrBackpressure) {
		return
	}
	if o.Policy == nil {
		return
	}
	switch o.Policy.OnBackPressure(to) {
	case app.KickPeer:
		log.Warn().Str("module", "orch").Str("session_id", string(to.SessionID)).Str("role", string(to.Role)).Msg("kicking slow peer")
		o.Registry.Cancel(to)
	case app.DropEvent:
		log.Warn().Str("module", "orch").Str("session_id", string(to.SessionID)).Str("type", string(out.Type)).Msg("dropped event on backpressure")
	}
}

// Snapshot exposes the stored negotiation state of sid for observation.
func (o *Orchestrator) Snapshot(sid core.SessionID) (core.State, bool) {
	sess, ok := o.Sessions.Get(sid)
	if !ok {
		return core.State{}, false
	}
	return sess.Snapshot(), true
}
