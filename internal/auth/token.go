package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dkeye/Consult/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

const (
	DefaultGraceWindow = 2 * time.Hour
	DefaultMinTTL      = 60 * time.Second

	// MaxScheduleAhead bounds meeting times so lifetimes stay well inside
	// the range of time.Duration.
	MaxScheduleAhead = 100 * 365 * 24 * time.Hour
)

var (
	ErrExpired      = fmt.Errorf("%w: token expired", domain.ErrUnauthorized)
	ErrBadSignature = fmt.Errorf("%w: bad signature", domain.ErrUnauthorized)
	ErrMalformed    = fmt.Errorf("%w: malformed token", domain.ErrUnauthorized)
)

// Codec signs and verifies access links with a shared HS256 secret.
type Codec struct {
	secret      []byte
	graceWindow time.Duration
	minTTL      time.Duration
	now         func() time.Time
}

type Option func(*Codec)

func WithGraceWindow(d time.Duration) Option {
	return func(c *Codec) { c.graceWindow = d }
}

func WithMinTTL(d time.Duration) Option {
	return func(c *Codec) { c.minTTL = d }
}

// WithClock replaces time.Now; tests use it to pin expiry arithmetic.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

func NewCodec(secret string, opts ...Option) *Codec {
	c := &Codec{
		secret:      []byte(secret),
		graceWindow: DefaultGraceWindow,
		minTTL:      DefaultMinTTL,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ExpiresIn returns the token lifetime in whole seconds for a meeting
// scheduled at scheduledAt: the grace window past the meeting, never less than
// the minimum TTL. Past MaxScheduleAhead the result saturates with
// time.Duration; Issue refuses such times.
func (c *Codec) ExpiresIn(scheduledAt time.Time) int64 {
	secs := int64(scheduledAt.Add(c.graceWindow).Sub(c.now()) / time.Second)
	if floor := int64(c.minTTL / time.Second); secs < floor {
		return floor
	}
	return secs
}

// Issue signs claims and returns the token with its lifetime in seconds.
func (c *Codec) Issue(claims Claims, scheduledAt time.Time) (string, int64, error) {
	if claims.SessionID == "" {
		return "", 0, fmt.Errorf("%w: session id required", domain.ErrInvalidInput)
	}
	if claims.ProfessionalName == "" && claims.ClientName == "" {
		return "", 0, fmt.Errorf("%w: identity label required", domain.ErrInvalidInput)
	}
	if scheduledAt.IsZero() {
		return "", 0, fmt.Errorf("%w: scheduled time required", domain.ErrInvalidInput)
	}
	now := c.now()
	if scheduledAt.Sub(now) > MaxScheduleAhead {
		return "", 0, fmt.Errorf("%w: scheduled time too far ahead", domain.ErrInvalidInput)
	}

	expiresIn := c.ExpiresIn(scheduledAt)
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(time.Duration(expiresIn) * time.Second))

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims).SignedString(c.secret)
	if err != nil {
		return "", 0, fmt.Errorf("sign token: %w", err)
	}
	return token, expiresIn, nil
}

// Decode verifies signature and expiry and returns the payload as signed.
// Every failure matches domain.ErrUnauthorized.
func (c *Codec) Decode(token string) (*Claims, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: empty token", ErrMalformed)
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	var claims Claims
	_, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	})
	switch {
	case err == nil:
		return &claims, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, fmt.Errorf("%w: %v", ErrExpired, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, fmt.Errorf("%w: %v", ErrBadSignature, err)
	default:
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}
