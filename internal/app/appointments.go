package app

import (
	"fmt"
	"sync"

	"github.com/dkeye/Consult/internal/domain"
)

// AppointmentBook is the in-memory appointment directory links are minted from.
type AppointmentBook struct {
	mu   sync.RWMutex
	byID map[domain.AppointmentID]domain.Appointment
}

func NewAppointmentBook(appts []domain.Appointment) *AppointmentBook {
	b := &AppointmentBook{byID: make(map[domain.AppointmentID]domain.Appointment, len(appts))}
	for _, a := range appts {
		b.byID[a.ID] = a
	}
	return b
}

func (b *AppointmentBook) Put(a domain.Appointment) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.byID[a.ID] = a
}

func (b *AppointmentBook) Find(id domain.AppointmentID) (domain.Appointment, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	a, ok := b.byID[id]
	if !ok {
		return domain.Appointment{}, fmt.Errorf("%w: appointment %q", domain.ErrNotFound, id)
	}
	return a, nil
}
