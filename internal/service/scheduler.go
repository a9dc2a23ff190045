package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/KevinMitsi/MotorX-backend-sub001/internal/models"
	"github.com/KevinMitsi/MotorX-backend-sub001/internal/notify"
	"github.com/KevinMitsi/MotorX-backend-sub001/internal/schedule"
	"github.com/KevinMitsi/MotorX-backend-sub001/internal/store"
)

// Scheduler runs the end-to-end booking transaction: legality checks,
// plate restriction, feasibility, rotation pick, guarded commit, and
// best-effort notification.
type Scheduler struct {
	Store    store.Scheduling
	Notifier notify.Notifier
	Logger   zerolog.Logger

	slots slotLocks
}

type ScheduleInput struct {
	VehicleID   string
	Type        models.AppointmentType
	Date        time.Time
	StartTime   string
	ClientNotes string
}

// Schedule books a client-requested appointment. Validation failures are
// detected before any write; the commit itself is guarded per slot and
// retried once on a race loss.
func (s *Scheduler) Schedule(ctx context.Context, in ScheduleInput) (models.Appointment, error) {
	if in.Type == models.TypeRework {
		return models.Appointment{}, ErrReworkRequiresContact
	}
	if !in.Type.Valid() {
		return models.Appointment{}, validationError("unknown appointment type")
	}
	if !schedule.IsUserBookable(in.Type) {
		return models.Appointment{}, validationError("appointment type cannot be booked directly")
	}
	if strings.TrimSpace(in.VehicleID) == "" {
		return models.Appointment{}, validationError("vehicle_id is required")
	}

	vehicle, err := s.Store.Vehicle(ctx, in.VehicleID)
	if err != nil {
		return models.Appointment{}, err
	}
	if !schedule.IsBrandEligible(in.Type, vehicle.Brand) {
		return models.Appointment{}, ErrBrandNotEligible
	}

	if !schedule.IsValidSlot(in.Type, in.StartTime) {
		return models.Appointment{}, validationError("start time is not a valid slot for this appointment type")
	}

	// The plate rule is a regulatory constraint, checked before capacity:
	// a restricted vehicle is rejected even when technicians are free.
	if schedule.IsPlateRestricted(vehicle.LicensePlate, in.Date) {
		return models.Appointment{}, ErrLicensePlateRestricted
	}

	winStart, winEnd, err := schedule.SlotWindow(in.Date, in.StartTime, in.Type)
	if err != nil {
		return models.Appointment{}, validationError(err.Error())
	}

	appt := models.Appointment{
		ID:          uuid.New(),
		Type:        in.Type,
		Date:        dateOnly(in.Date),
		StartTime:   winStart,
		EndTime:     winEnd,
		Status:      models.StatusScheduled,
		VehicleID:   vehicle.ID,
		ClientNotes: strings.TrimSpace(in.ClientNotes),
	}

	created, err := s.assignAndCommit(ctx, appt)
	if err != nil {
		return models.Appointment{}, err
	}

	s.dispatch(created, notify.EventCreated, "")
	return created, nil
}

type UnplannedInput struct {
	VehicleID    string
	Type         models.AppointmentType
	Date         time.Time
	StartTime    string
	TechnicianID string
	AdminNotes   string
}

// ScheduleUnplanned books an admin-entered appointment outside the
// standard slot and brand rules: any start time is acceptable, lunch
// included, and any valid type may be recorded (UNPLANNED when omitted),
// with the window derived from that type's duration. The plate
// restriction still applies, and an explicitly requested technician is
// validated against the slot instead of running rotation.
func (s *Scheduler) ScheduleUnplanned(ctx context.Context, in UnplannedInput) (models.Appointment, error) {
	if strings.TrimSpace(in.VehicleID) == "" {
		return models.Appointment{}, validationError("vehicle_id is required")
	}
	typ := in.Type
	if typ == "" {
		typ = models.TypeUnplanned
	}
	if !typ.Valid() {
		return models.Appointment{}, validationError("unknown appointment type")
	}

	vehicle, err := s.Store.Vehicle(ctx, in.VehicleID)
	if err != nil {
		return models.Appointment{}, err
	}
	if schedule.IsPlateRestricted(vehicle.LicensePlate, in.Date) {
		return models.Appointment{}, ErrLicensePlateRestricted
	}

	winStart, err := schedule.At(in.Date, in.StartTime)
	if err != nil {
		return models.Appointment{}, validationError(err.Error())
	}
	// REWORK carries no rule-table duration; admin-entered rework takes
	// the default hour.
	dur := schedule.Duration(typ)
	if dur <= 0 {
		dur = schedule.Duration(models.TypeUnplanned)
	}
	winEnd := winStart.Add(dur)

	appt := models.Appointment{
		ID:         uuid.New(),
		Type:       typ,
		Date:       dateOnly(in.Date),
		StartTime:  winStart,
		EndTime:    winEnd,
		Status:     models.StatusScheduled,
		VehicleID:  vehicle.ID,
		AdminNotes: strings.TrimSpace(in.AdminNotes),
	}

	var created models.Appointment
	if in.TechnicianID != "" {
		created, err = s.commitWithTechnician(ctx, appt, in.TechnicianID)
	} else {
		created, err = s.assignAndCommit(ctx, appt)
	}
	if err != nil {
		return models.Appointment{}, err
	}

	s.dispatch(created, notify.EventCreated, "")
	return created, nil
}

// assignAndCommit runs the feasibility-assign-write step under the slot
// guard. A commit-time conflict is retried exactly once against a
// refreshed candidate set.
func (s *Scheduler) assignAndCommit(ctx context.Context, appt models.Appointment) (models.Appointment, error) {
	mu := s.slots.forSlot(appt.Date, appt.StartTime)
	mu.Lock()
	defer mu.Unlock()

	for attempt := 0; attempt < 2; attempt++ {
		candidates, err := s.freeTechnicians(ctx, appt.Date, appt.StartTime, appt.EndTime)
		if err != nil {
			return models.Appointment{}, err
		}
		counts, err := s.rotationCounts(ctx, appt.Date)
		if err != nil {
			return models.Appointment{}, err
		}
		pick, ok := PickTechnician(candidates, counts)
		if !ok {
			return models.Appointment{}, ErrNoTechnicianAvailable
		}

		appt.TechnicianID = &pick.ID
		created, err := s.Store.CreateAppointment(ctx, appt)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, store.ErrConflict) {
			return models.Appointment{}, err
		}
		s.Logger.Warn().
			Str("technician_id", pick.ID).
			Time("start_time", appt.StartTime).
			Msg("commit race lost, refreshing candidates")
	}
	return models.Appointment{}, ErrNoTechnicianAvailable
}

// commitWithTechnician validates an admin-chosen technician for the
// exact slot instead of invoking rotation.
func (s *Scheduler) commitWithTechnician(ctx context.Context, appt models.Appointment, technicianID string) (models.Appointment, error) {
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

	appts, err := s.Store.TechnicianAppointments(ctx, technicianID, appt.Date)
	if err != nil {
		return models.Appointment{}, err
	}
	if !technicianFree(appts, appt.StartTime, appt.EndTime) {
		return models.Appointment{}, ErrTechnicianConflict
	}

	appt.TechnicianID = &tech.ID
	created, err := s.Store.CreateAppointment(ctx, appt)
	if errors.Is(err, store.ErrConflict) {
		return models.Appointment{}, ErrTechnicianConflict
	}
	if err != nil {
		return models.Appointment{}, err
	}
	return created, nil
}

func (s *Scheduler) technician(ctx context.Context, id string) (models.Technician, error) {
	roster, err := s.Store.Technicians(ctx, "")
	if err != nil {
		return models.Technician{}, err
	}
	for _, t := range roster {
		if t.ID == id {
			return t, nil
		}
	}
	return models.Technician{}, store.ErrNotFound
}

func (s *Scheduler) rotationCounts(ctx context.Context, date time.Time) (map[string]int, error) {
	from := dateOnly(date).Add(-store.RotationWindow + 24*time.Hour)
	return s.Store.AssignmentCounts(ctx, from, dateOnly(date))
}

// dispatch emits the event outside the booking transaction. Failures
// are logged, never surfaced.
func (s *Scheduler) dispatch(appt models.Appointment, event notify.Event, reason string) {
	if s.Notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.Notifier.Notify(ctx, appt, event, reason); err != nil {
			s.Logger.Error().Err(err).
				Str("appointment_id", appt.ID.String()).
				Str("event", string(event)).
				Msg("notification failed")
		}
	}()
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
