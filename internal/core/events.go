package core

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/dkeye/Consult/internal/domain"
	"github.com/pion/webrtc/v4"
)

type EventType string

// Inbound events.
const (
	EventReady        EventType = "ready"
	EventNewOffer     EventType = "newOffer"
	EventNewAnswer    EventType = "newAnswer"
	EventICECandidate EventType = "iceCandidate"
	EventToggleAudio  EventType = "toggleAudio"
	EventToggleVideo  EventType = "toggleVideo"
	EventPing         EventType = "ping"
)

// Outbound events. toggleAudio and toggleVideo are forwarded under their
// inbound names.
const (
	EventClientJoined    EventType = "clientJoined"
	EventProJoined       EventType = "proJoined"
	EventClientReady     EventType = "clientReady"
	EventProReady        EventType = "proReady"
	EventNewOfferWaiting EventType = "newOfferWaiting"
	EventAnswerToClient  EventType = "answerToClient"
	EventICEToClient     EventType = "iceToClient"
	EventPong            EventType = "pong"
	EventError           EventType = "error"
)

// Inbound is a decoded message from a participant. Offer, Answer and
// Candidate stay raw: they are checked for shape, never rewritten.
type Inbound struct {
	Type      EventType       `json:"type"`
	Offer     json.RawMessage `json:"offer,omitempty"`
	Answer    json.RawMessage `json:"answer,omitempty"`
	Candidate json.RawMessage `json:"candidate,omitempty"`
	Side      domain.Role     `json:"side,omitempty"`
	Muted     *bool           `json:"muted,omitempty"`
	Off       *bool           `json:"off,omitempty"`
}

// Outbound is a message delivered to a participant.
type Outbound struct {
	Type      EventType       `json:"type"`
	SessionID SessionID       `json:"sessionId,omitempty"`
	Offer     json.RawMessage `json:"offer,omitempty"`
	Answer    json.RawMessage `json:"answer,omitempty"`
	Candidate json.RawMessage `json:"candidate,omitempty"`
	Side      domain.Role     `json:"side,omitempty"`
	Muted     *bool           `json:"muted,omitempty"`
	Off       *bool           `json:"off,omitempty"`
	Error     string          `json:"error,omitempty"`
}

func JoinedEvent(role domain.Role) Outbound {
	if role == domain.RoleProfessional {
		return Outbound{Type: EventProJoined}
	}
	return Outbound{Type: EventClientJoined}
}

func ReadyEvent(role domain.Role) Outbound {
	if role == domain.RoleProfessional {
		return Outbound{Type: EventProReady}
	}
	return Outbound{Type: EventClientReady}
}

func ErrorEvent(reason string) Outbound {
	return Outbound{Type: EventError, Error: reason}
}

func (o Outbound) Encode() (Frame, error) {
	b, err := json.Marshal(o)
	if err != nil {
		return nil, err
	}
	return Frame(b), nil
}

// ParseInbound decodes and shape-checks one message. Every failure matches
// domain.ErrMalformedEvent.
func ParseInbound(data []byte) (Inbound, error) {
	var in Inbound
	if err := json.Unmarshal(data, &in); err != nil {
		return Inbound{}, fmt.Errorf("%w: %v", domain.ErrMalformedEvent, err)
	}
	if err := in.Validate(); err != nil {
		return Inbound{}, err
	}
	return in, nil
}

// Validate checks the payload shape required by the event type.
func (in Inbound) Validate() error {
	switch in.Type {
	case EventReady, EventPing:
		return nil
	case EventNewOffer:
		return checkDescription(in.Offer, webrtc.SDPTypeOffer)
	case EventNewAnswer:
		return checkDescription(in.Answer, webrtc.SDPTypeAnswer)
	case EventICECandidate:
		if _, err := domain.ParseRole(string(in.Side)); err != nil {
			return err
		}
		return checkCandidate(in.Candidate)
	case EventToggleAudio:
		if in.Muted == nil {
			return fmt.Errorf("%w: toggleAudio without muted", domain.ErrMalformedEvent)
		}
		return nil
	case EventToggleVideo:
		if in.Off == nil {
			return fmt.Errorf("%w: toggleVideo without off", domain.ErrMalformedEvent)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown event %q", domain.ErrMalformedEvent, in.Type)
	}
}

func checkDescription(raw json.RawMessage, want webrtc.SDPType) error {
	if !isObject(raw) {
		return fmt.Errorf("%w: %s must be an object", domain.ErrMalformedEvent, want)
	}
	var desc webrtc.SessionDescription
	if err := json.Unmarshal(raw, &desc); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrMalformedEvent, want, err)
	}
	if desc.Type != want || desc.SDP == "" {
		return fmt.Errorf("%w: expected non-empty %s description", domain.ErrMalformedEvent, want)
	}
	return nil
}

// A null candidate and an empty candidate string both mark the end of
// gathering and are relayed like any other.
func checkCandidate(raw json.RawMessage) error {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}
	if !isObject(raw) {
		return fmt.Errorf("%w: candidate must be an object", domain.ErrMalformedEvent)
	}
	var init webrtc.ICECandidateInit
	if err := json.Unmarshal(raw, &init); err != nil {
		return fmt.Errorf("%w: candidate: %v", domain.ErrMalformedEvent, err)
	}
	return nil
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}
