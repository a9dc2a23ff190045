package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/KevinMitsi/MotorX-backend-sub001/internal/models"
	"github.com/KevinMitsi/MotorX-backend-sub001/internal/notify"
	"github.com/KevinMitsi/MotorX-backend-sub001/internal/store"
)

// Cancel transitions a scheduled or in-progress appointment to
// CANCELLED with a mandatory reason. The technician's slot is freed
// implicitly: availability is always recomputed from capacity-holding
// rows, so no separate release bookkeeping exists.
func (s *Scheduler) Cancel(ctx context.Context, id uuid.UUID, reason string, notifyClient bool) (models.Appointment, error) {
	if strings.TrimSpace(reason) == "" {
		return models.Appointment{}, validationError("cancellation reason is required")
	}

	appt, err := s.Store.Appointment(ctx, id)
	if err != nil {
		return models.Appointment{}, err
	}
	if appt.Status == models.StatusCancelled {
		return models.Appointment{}, ErrAlreadyCancelled
	}
	if !appt.Status.Cancellable() {
		return models.Appointment{}, validationError("appointment in status " + string(appt.Status) + " cannot be cancelled")
	}

	cancelled, err := s.Store.CancelAppointment(ctx, id, strings.TrimSpace(reason))
	// The store re-checks the status inside its own transaction; losing
	// that race means the row stopped being cancellable after our read.
	if errors.Is(err, store.ErrConflict) {
		return models.Appointment{}, ErrAlreadyCancelled
	}
	if err != nil {
		return models.Appointment{}, err
	}

	if notifyClient {
		s.dispatch(cancelled, notify.EventCancelled, cancelled.CancelReason)
	}
	return cancelled, nil
}

// Reassign swaps the appointment's technician after validating the new
// technician is free at the existing slot. The appointment's date and
// window are never altered by this operation.
func (s *Scheduler) Reassign(ctx context.Context, id uuid.UUID, technicianID string, notifyClient bool) (models.Appointment, error) {
	if strings.TrimSpace(technicianID) == "" {
		return models.Appointment{}, validationError("technician_id is required")
	}

	appt, err := s.Store.Appointment(ctx, id)
	if err != nil {
		return models.Appointment{}, err
	}
	if !appt.Status.Holding() {
		return models.Appointment{}, validationError("appointment in status " + string(appt.Status) + " cannot be reassigned")
	}

	tech, err := s.technician(ctx, technicianID)
	if err != nil {
		return models.Appointment{}, err
	}
	if tech.State != models.TechnicianAvailable {
		return models.Appointment{}, ErrTechnicianConflict
	}

	mu := s.slots.forSlot(appt.Date, appt.StartTime)
	mu.Lock()
	defer mu.Unlock()

	existing, err := s.Store.TechnicianAppointments(ctx, technicianID, appt.Date)
	if err != nil {
		return models.Appointment{}, err
	}
	for _, other := range existing {
		if other.ID == appt.ID || !other.Status.Holding() {
			continue
		}
		if other.Overlaps(appt.StartTime, appt.EndTime) {
			return models.Appointment{}, ErrTechnicianConflict
		}
	}

	updated, err := s.Store.ReassignTechnician(ctx, id, technicianID)
	if errors.Is(err, store.ErrConflict) {
		return models.Appointment{}, ErrTechnicianConflict
	}
	if err != nil {
		return models.Appointment{}, err
	}

	if notifyClient {
		s.dispatch(updated, notify.EventReassigned, "")
	}
	return updated, nil
}
