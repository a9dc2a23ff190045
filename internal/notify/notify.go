package notify

import (
	"context"

	"github.com/KevinMitsi/MotorX-backend-sub001/internal/models"
)

type Event string

const (
	EventCreated    Event = "APPOINTMENT_CREATED"
	EventCancelled  Event = "APPOINTMENT_CANCELLED"
	EventReassigned Event = "TECHNICIAN_REASSIGNED"
)

// Notifier delivers an appointment event to the messaging collaborator.
// Delivery is best-effort: callers never block a booking decision on it.
type Notifier interface {
	Notify(ctx context.Context, appt models.Appointment, event Event, reason string) error
}
