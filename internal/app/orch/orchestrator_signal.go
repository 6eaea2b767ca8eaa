package orch

import (
	"fmt"

	"github.com/dkeye/Consult/internal/app"
	"github.com/dkeye/Consult/internal/core"
	"github.com/dkeye/Consult/internal/domain"
	"github.com/rs/zerolog/log"
)

// Dispatch applies one inbound event to b's session and relays it to the
// counterpart. A malformed event changes nothing and returns an error
// matching domain.ErrMalformedEvent; the connection stays usable.
func (o *Orchestrator) Dispatch(b *app.Binding, ev core.Inbound) error {
	if err := ev.Validate(); err != nil {
		return err
	}

	switch ev.Type {
	case core.EventReady:
		b.Session.MarkReady(b.Role)
		o.forward(b, core.ReadyEvent(b.Role))

	case core.EventNewOffer:
		b.Session.SetOffer(ev.Offer)
		o.forward(b, core.Outbound{
			Type:      core.EventNewOfferWaiting,
			SessionID: b.SessionID,
			Offer:     ev.Offer,
		})

	case core.EventNewAnswer:
		b.Session.SetAnswer(ev.Answer)
		o.forward(b, core.Outbound{
			Type:   core.EventAnswerToClient,
			Answer: ev.Answer,
		})

	case core.EventICECandidate:
		side, err := domain.ParseRole(string(ev.Side))
		if err != nil {
			return err
		}
		b.Session.AddCandidate(side, ev.Candidate)
		o.forward(b, core.Outbound{
			Type:      core.EventICEToClient,
			Candidate: ev.Candidate,
			Side:      side,
		})

	case core.EventToggleAudio:
		o.forward(b, core.Outbound{Type: core.EventToggleAudio, Muted: ev.Muted})

	case core.EventToggleVideo:
		o.forward(b, core.Outbound{Type: core.EventToggleVideo, Off: ev.Off})

	case core.EventPing:
		// answered by the transport

	default:
		return fmt.Errorf("%w: unknown event %q", domain.ErrMalformedEvent, ev.Type)
	}

	log.Debug().Str("module", "orch").Str("session_id", string(b.SessionID)).Str("role", string(b.Role)).Str("type", string(ev.Type)).Msg("relayed")
	return nil
}
