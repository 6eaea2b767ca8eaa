package domain

import "time"

type AppointmentID string

// Appointment is a scheduled meeting between a professional and a client.
type Appointment struct {
	ID               AppointmentID
	ProfessionalName string
	ClientName       string
	ScheduledAt      time.Time
}
