package orch

import (
	"context"
	"fmt"

	"github.com/dkeye/Consult/internal/app"
	"github.com/dkeye/Consult/internal/core"
	"github.com/dkeye/Consult/internal/domain"
	"github.com/rs/zerolog/log"
)

// Connect authenticates a new connection by its token and joins it to its
// session. The newcomer learns whether its counterpart already joined and is
// ready; offer, answer and candidates are not replayed. Errors match
// domain.ErrUnauthorized and leave every session untouched.
func (o *Orchestrator) Connect(
	token string,
	connID core.ConnID,
	conn core.SignalConnection,
	cancel context.CancelFunc,
) (*app.Binding, error) {
	claims, err := o.Tokens.Decode(token)
	if err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("conn_id", string(connID)).Msg("connection refused")
		return nil, err
	}
	if claims.SessionID == "" {
		log.Warn().Str("module", "orch").Str("conn_id", string(connID)).Msg("token without session id")
		return nil, fmt.Errorf("%w: token without session id", domain.ErrUnauthorized)
	}

	b := &app.Binding{
		SessionID: core.SessionID(claims.SessionID),
		Role:      claims.Role(),
		Name:      claims.DisplayName(),
		ConnID:    connID,
		Conn:      conn,
		Cancel:    cancel,
	}
	if old := o.Registry.Bind(b); old != nil {
		log.Info().Str("module", "orch").Str("session_id", string(b.SessionID)).Str("role", string(b.Role)).Str("conn_id", string(old.ConnID)).Msg("superseded by reconnect")
		o.Registry.Cancel(old)
	}

	b.Session = o.Sessions.GetOrCreate(b.SessionID)
	other := b.Session.Join(b.Role)
	log.Info().Str("module", "orch").Str("session_id", string(b.SessionID)).Str("role", string(b.Role)).Str("name", b.Name).Msg("joined")

	// Two simultaneous joins can both announce themselves and replay each
	// other, so a newcomer may see the counterpart's joined event twice.
	o.forward(b, core.JoinedEvent(b.Role))
	if other.Joined {
		o.send(b, core.JoinedEvent(b.Role.Other()))
	}
	if other.Ready {
		o.send(b, core.ReadyEvent(b.Role.Other()))
	}
	return b, nil
}

// Disconnect releases b and arms eviction for its session. It is safe to
// call more than once and for a binding that was superseded.
func (o *Orchestrator) Disconnect(b *app.Binding) {
	if !o.Registry.Unbind(b.SessionID, b.Role, b.ConnID) {
		return
	}
	log.Info().Str("module", "orch").Str("session_id", string(b.SessionID)).Str("role", string(b.Role)).Msg("left")
	o.Evictor.Schedule(b.SessionID)
}
