package auth

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/dkeye/Consult/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// ProfessionalID identifies a professional. Links minted elsewhere carry it as
// a JSON number, ours carry a string; both decode to the same value.
type ProfessionalID string

func (p *ProfessionalID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*p = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*p = ProfessionalID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("proId: %w", err)
	}
	*p = ProfessionalID(n.String())
	return nil
}

// Claims is the payload of an access link. A professional link is the one
// carrying ProID; everything else is a client link.
type Claims struct {
	SessionID        string         `json:"uuid"`
	ProfessionalName string         `json:"professionalsFullName,omitempty"`
	ClientName       string         `json:"clientName,omitempty"`
	ScheduledAt      int64          `json:"apptDate,omitempty"`
	ProID            ProfessionalID `json:"proId,omitempty"`
	jwt.RegisteredClaims
}

// Role derives the participant role from the payload shape alone.
func (c *Claims) Role() domain.Role {
	if c.ProID != "" {
		return domain.RoleProfessional
	}
	return domain.RoleClient
}

// DisplayName is the name of the participant holding this link.
func (c *Claims) DisplayName() string {
	if c.Role() == domain.RoleProfessional || c.ClientName == "" {
		return c.ProfessionalName
	}
	return c.ClientName
}
