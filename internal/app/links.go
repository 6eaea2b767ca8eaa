package app

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dkeye/Consult/internal/auth"
	"github.com/dkeye/Consult/internal/domain"
	"github.com/google/uuid"
)

// LinkRequest describes one meeting to mint access links for.
type LinkRequest struct {
	SessionID        string
	ProfessionalName string
	ProfessionalID   string
	ClientName       string
	ScheduledAt      time.Time
}

type Links struct {
	SessionID  string `json:"uuid"`
	ExpiresIn  int64  `json:"expiresInSeconds"`
	ClientLink string `json:"clientLink"`
	ProLink    string `json:"proLink"`
}

// LinkIssuer mints the pair of role-scoped links for a meeting.
type LinkIssuer struct {
	Codec       *auth.Codec
	FrontendURL string
	NewID       func() string
}

func NewLinkIssuer(codec *auth.Codec, frontendURL string) *LinkIssuer {
	return &LinkIssuer{
		Codec:       codec,
		FrontendURL: strings.TrimRight(frontendURL, "/"),
		NewID:       uuid.NewString,
	}
}

func (l *LinkIssuer) Issue(req LinkRequest) (Links, error) {
	if err := validateNames(req.ProfessionalName, req.ClientName); err != nil {
		return Links{}, err
	}
	if req.ScheduledAt.IsZero() {
		return Links{}, fmt.Errorf("%w: scheduled time required", domain.ErrInvalidInput)
	}
	sid := req.SessionID
	if sid == "" {
		sid = l.NewID()
	}
	proID := req.ProfessionalID
	if proID == "" {
		proID = l.NewID()
	}

	clientTok, expiresIn, err := l.Codec.Issue(auth.Claims{
		SessionID:        sid,
		ProfessionalName: req.ProfessionalName,
		ClientName:       req.ClientName,
		ScheduledAt:      req.ScheduledAt.UnixMilli(),
	}, req.ScheduledAt)
	if err != nil {
		return Links{}, err
	}
	proTok, _, err := l.Codec.Issue(auth.Claims{
		SessionID:        sid,
		ProfessionalName: req.ProfessionalName,
		ProID:            auth.ProfessionalID(proID),
	}, req.ScheduledAt)
	if err != nil {
		return Links{}, err
	}

	return Links{
		SessionID:  sid,
		ExpiresIn:  expiresIn,
		ClientLink: l.link("/join-video", clientTok),
		ProLink:    l.link("/join-video-pro", proTok),
	}, nil
}

// ClientLink mints the client link of a booked appointment; the appointment
// id doubles as the session id.
func (l *LinkIssuer) ClientLink(a domain.Appointment) (string, error) {
	if err := validateNames(a.ProfessionalName, a.ClientName); err != nil {
		return "", err
	}
	tok, _, err := l.Codec.Issue(auth.Claims{
		SessionID:        string(a.ID),
		ProfessionalName: a.ProfessionalName,
		ClientName:       a.ClientName,
		ScheduledAt:      a.ScheduledAt.UnixMilli(),
	}, a.ScheduledAt)
	if err != nil {
		return "", err
	}
	return l.link("/join-video", tok), nil
}

func (l *LinkIssuer) link(path, token string) string {
	return l.FrontendURL + path + "?token=" + url.QueryEscape(token)
}

func validateNames(professional, client string) error {
	if err := domain.ValidateName(professional); err != nil {
		return fmt.Errorf("%w: professionalsFullName: %v", domain.ErrInvalidInput, err)
	}
	if err := domain.ValidateName(client); err != nil {
		return fmt.Errorf("%w: clientName: %v", domain.ErrInvalidInput, err)
	}
	return nil
}
