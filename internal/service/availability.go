package service

import (
	"context"
	"time"

	"github.com/KevinMitsi/MotorX-backend-sub001/internal/models"
	"github.com/KevinMitsi/MotorX-backend-sub001/internal/schedule"
)

// AvailableSlots enumerates the type's rule-table slots on the date and
// keeps the ones with at least one free technician. Order follows the
// rule table, morning before afternoon. Read-only: this is the shared
// path behind the open-slots query and the scheduler's feasibility check.
func (s *Scheduler) AvailableSlots(ctx context.Context, date time.Time, typ models.AppointmentType) ([]models.SlotAvailability, error) {
	out := []models.SlotAvailability{}
	for _, start := range schedule.ValidSlots(typ) {
		winStart, winEnd, err := schedule.SlotWindow(date, start, typ)
		if err != nil {
			return nil, err
		}
		free, err := s.freeTechnicians(ctx, date, winStart, winEnd)
		if err != nil {
			return nil, err
		}
		if len(free) == 0 {
			continue
		}
		out = append(out, models.SlotAvailability{
			StartTime:         winStart,
			EndTime:           winEnd,
			FreeCount:         len(free),
			ReceptionDeadline: schedule.ReceptionDeadline(date, start),
		})
	}
	return out, nil
}

// freeTechnicians returns the AVAILABLE technicians with no
// capacity-holding appointment overlapping [start, end) on the date.
func (s *Scheduler) freeTechnicians(ctx context.Context, date, start, end time.Time) ([]models.Technician, error) {
	roster, err := s.Store.Technicians(ctx, models.TechnicianAvailable)
	if err != nil {
		return nil, err
	}

	free := make([]models.Technician, 0, len(roster))
	for _, tech := range roster {
		appts, err := s.Store.TechnicianAppointments(ctx, tech.ID, date)
		if err != nil {
			return nil, err
		}
		if technicianFree(appts, start, end) {
			free = append(free, tech)
		}
	}
	return free, nil
}

func technicianFree(appts []models.Appointment, start, end time.Time) bool {
	for _, a := range appts {
		if !a.Status.Holding() {
			continue
		}
		if a.Overlaps(start, end) {
			return false
		}
	}
	return true
}
