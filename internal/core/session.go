package core

import (
	"encoding/json"
	"slices"
	"sync"

	"github.com/dkeye/Consult/internal/domain"
)

type SessionID string

// State is the negotiation state of one session. Values returned by
// Session.Snapshot are copies and safe to keep.
type State struct {
	Offer              json.RawMessage
	Answer             json.RawMessage
	OffererCandidates  []json.RawMessage
	AnswererCandidates []json.RawMessage

	ClientJoined       bool
	ProfessionalJoined bool
	ClientReady        bool
	ProfessionalReady  bool
}

// Presence is what one role knows about its counterpart.
type Presence struct {
	Joined bool
	Ready  bool
}

// Session guards the State of one meeting. Each mutation is applied whole
// under the session lock.
type Session struct {
	id SessionID

	mu    sync.Mutex
	state State
}

func newSession(id SessionID) *Session {
	return &Session{id: id}
}

func (s *Session) ID() SessionID { return s.id }

// Join marks role as joined and reports the counterpart's presence.
func (s *Session) Join(role domain.Role) Presence {
	s.mu.Lock()
	defer s.mu.Unlock()
	if role == domain.RoleProfessional {
		s.state.ProfessionalJoined = true
		return Presence{Joined: s.state.ClientJoined, Ready: s.state.ClientReady}
	}
	s.state.ClientJoined = true
	return Presence{Joined: s.state.ProfessionalJoined, Ready: s.state.ProfessionalReady}
}

func (s *Session) MarkReady(role domain.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if role == domain.RoleProfessional {
		s.state.ProfessionalReady = true
		return
	}
	s.state.ClientReady = true
}

// SetOffer starts a renegotiation: the previous answer and every gathered
// candidate belong to the old offer and are dropped with it.
func (s *Session) SetOffer(offer json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Offer = slices.Clone(offer)
	s.state.Answer = nil
	s.state.OffererCandidates = nil
	s.state.AnswererCandidates = nil
}

func (s *Session) SetAnswer(answer json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Answer = slices.Clone(answer)
}

// AddCandidate appends in arrival order. Client candidates belong to the
// offerer, professional candidates to the answerer.
func (s *Session) AddCandidate(side domain.Role, candidate json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := json.RawMessage(slices.Clone(candidate))
	if side == domain.RoleClient {
		s.state.OffererCandidates = append(s.state.OffererCandidates, c)
		return
	}
	s.state.AnswererCandidates = append(s.state.AnswererCandidates, c)
}

func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.state
	out.Offer = slices.Clone(s.state.Offer)
	out.Answer = slices.Clone(s.state.Answer)
	out.OffererCandidates = cloneAll(s.state.OffererCandidates)
	out.AnswererCandidates = cloneAll(s.state.AnswererCandidates)
	return out
}

func cloneAll(in []json.RawMessage) []json.RawMessage {
	if in == nil {
		return nil
	}
	out := make([]json.RawMessage, len(in))
	for i, c := range in {
		out[i] = slices.Clone(c)
	}
	return out
}
