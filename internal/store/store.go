package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/KevinMitsi/MotorX-backend-sub001/internal/models"
)

// RotationWindow is how far back assignment counts reach when ranking
// technicians for rotation.
const RotationWindow = 7 * 24 * time.Hour

// Scheduling is the transactional surface the booking core runs against.
// Writers must re-validate the technician/date/slot uniqueness inside
// their own transaction and return ErrConflict on a race loss; readers
// may serve snapshot data.
type Scheduling interface {
	// Vehicle resolves a registry snapshot; ErrNotFound when unknown.
	Vehicle(ctx context.Context, vehicleID string) (models.Vehicle, error)

	// Technicians lists the roster, optionally filtered by state.
	Technicians(ctx context.Context, state models.TechnicianState) ([]models.Technician, error)

	// TechnicianAppointments returns the technician's capacity-holding
	// appointments on the date, ordered by start time.
	TechnicianAppointments(ctx context.Context, technicianID string, date time.Time) ([]models.Appointment, error)

	// AssignmentCounts returns per-technician counts of capacity-holding
	// appointments with dates in [from, to].
	AssignmentCounts(ctx context.Context, from, to time.Time) (map[string]int, error)

	Appointment(ctx context.Context, id uuid.UUID) (models.Appointment, error)
	ListAppointments(ctx context.Context, date time.Time, technicianID string) ([]models.Appointment, error)

	// CreateAppointment persists the row, re-checking the technician's
	// slot inside the write transaction. Returns ErrConflict when the
	// technician was booked concurrently.
	CreateAppointment(ctx context.Context, appt models.Appointment) (models.Appointment, error)

	// CancelAppointment flips the row to CANCELLED with the reason.
	// The caller has already verified the status transition.
	CancelAppointment(ctx context.Context, id uuid.UUID, reason string) (models.Appointment, error)

	// ReassignTechnician swaps the technician reference, re-checking the
	// new technician's slot inside the write transaction. The slot
	// itself never moves.
	ReassignTechnician(ctx context.Context, id uuid.UUID, technicianID string) (models.Appointment, error)

	SetTechnicianState(ctx context.Context, technicianID string, state models.TechnicianState) (models.Technician, error)
}
