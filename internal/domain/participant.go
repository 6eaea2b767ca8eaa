// Package domain contains entities without logic, just meta-data
package domain

import (
	"errors"
	"strings"
)

const MaxNameLen = 64

var (
	ErrNameTooLong = errors.New("name too long")
	ErrNameEmpty   = errors.New("name empty")
)

// ValidateName checks a display name carried inside an access link.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameEmpty
	}
	if len(name) > MaxNameLen {
		return ErrNameTooLong
	}
	return nil
}
