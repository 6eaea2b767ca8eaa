package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dkeye/Consult/internal/app"
	"github.com/dkeye/Consult/internal/app/orch"
	"github.com/dkeye/Consult/internal/auth"
	"github.com/dkeye/Consult/internal/domain"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

const (
	keySessionID = "session_id"
	keyRole      = "role"
	keyName      = "name"
)

type Handlers struct {
	Tokens       orch.TokenDecoder
	Links        *app.LinkIssuer
	Appointments *app.AppointmentBook
	ICEServers   []webrtc.ICEServer
}

type LinkRequest struct {
	ProfessionalName string              `json:"professionalsFullName" binding:"required"`
	ProfessionalID   auth.ProfessionalID `json:"proId"`
	ClientName       string              `json:"clientName" binding:"required"`
	ScheduledAt      int64               `json:"apptDate" binding:"required,gt=0"`
	SessionID        string              `json:"uuid"`
}

type ValidateRequest struct {
	Token string `json:"token" binding:"required"`
}

type WhoAmIResponse struct {
	SessionID string      `json:"uuid"`
	Role      domain.Role `json:"role"`
	Name      string      `json:"name"`
}

// CreateLinks mints the client and professional links for one meeting.
func (h *Handlers) CreateLinks(c *gin.Context) {
	var req LinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
		return
	}

	scheduledAt := time.UnixMilli(req.ScheduledAt)
	links, err := h.Links.Issue(app.LinkRequest{
		SessionID:        req.SessionID,
		ProfessionalName: req.ProfessionalName,
		ProfessionalID:   string(req.ProfessionalID),
		ClientName:       req.ClientName,
		ScheduledAt:      scheduledAt,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	// The meeting becomes bookable so /user-link can mint its client link again.
	h.Appointments.Put(domain.Appointment{
		ID:               domain.AppointmentID(links.SessionID),
		ProfessionalName: req.ProfessionalName,
		ClientName:       req.ClientName,
		ScheduledAt:      scheduledAt,
	})
	log.Info().Str("module", "adapters.http").Str("session_id", links.SessionID).Int64("expires_in", links.ExpiresIn).Msg("links issued")
	c.JSON(http.StatusOK, links)
}

// ValidateLink decodes a link token and remembers who the browser is.
func (h *Handlers) ValidateLink(c *gin.Context) {
	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: token required", domain.ErrInvalidInput))
		return
	}

	claims, err := h.Tokens.Decode(req.Token)
	if err != nil {
		writeError(c, err)
		return
	}

	s := sessions.Default(c)
	s.Set(keySessionID, claims.SessionID)
	s.Set(keyRole, string(claims.Role()))
	s.Set(keyName, claims.DisplayName())
	if err := s.Save(); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, claims)
}

func (h *Handlers) WhoAmI(c *gin.Context) {
	s := sessions.Default(c)
	sid, _ := s.Get(keySessionID).(string)
	if sid == "" {
		writeError(c, fmt.Errorf("%w: no validated link", domain.ErrNotFound))
		return
	}
	role, _ := s.Get(keyRole).(string)
	name, _ := s.Get(keyName).(string)
	c.JSON(http.StatusOK, WhoAmIResponse{
		SessionID: sid,
		Role:      domain.Role(role),
		Name:      name,
	})
}

// UserLink issues a fresh client link for a booked appointment.
func (h *Handlers) UserLink(c *gin.Context) {
	id := c.Query("uuid")
	if id == "" {
		writeError(c, fmt.Errorf("%w: uuid required", domain.ErrInvalidInput))
		return
	}
	appt, err := h.Appointments.Find(domain.AppointmentID(id))
	if err != nil {
		writeError(c, err)
		return
	}
	link, err := h.Links.ClientLink(appt)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"link": link})
}

func (h *Handlers) ICE(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"iceServers": h.ICEServers})
}

func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("module", "adapters.http").Str("path", c.FullPath()).Msg("request failed")
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
