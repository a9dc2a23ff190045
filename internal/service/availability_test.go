package service

import (
	"context"
	"testing"

	"github.com/KevinMitsi/MotorX-backend-sub001/internal/models"
	"github.com/KevinMitsi/MotorX-backend-sub001/internal/schedule"
)

func TestAvailableSlotsChronologicalWithDeadlines(t *testing.T) {
	fs := newFakeStore()
	fs.addTechnician("t1", models.TechnicianAvailable)
	fs.addTechnician("t2", models.TechnicianAvailable)
	s := newTestScheduler(fs)

	slots, err := s.AvailableSlots(context.Background(), monday, models.TypeOilChange)
	if err != nil {
		t.Fatalf("available slots: %v", err)
	}
	if len(slots) != 14 {
		t.Fatalf("expected 14 oil change slots, got %d", len(slots))
	}
	for i := 1; i < len(slots); i++ {
		if !slots[i-1].StartTime.Before(slots[i].StartTime) {
			t.Fatalf("slots out of order at index %d", i)
		}
	}
	for _, slot := range slots {
		if slot.FreeCount != 2 {
			t.Fatalf("expected free count 2 at %s, got %d", slot.StartTime, slot.FreeCount)
		}
	}

	first := slots[0]
	if got := first.ReceptionDeadline.Format(schedule.TimeFormat); got != schedule.MorningDeadline {
		t.Fatalf("expected morning deadline %s, got %s", schedule.MorningDeadline, got)
	}
	last := slots[len(slots)-1]
	if got := last.ReceptionDeadline.Format(schedule.TimeFormat); got != schedule.AfternoonDeadline {
		t.Fatalf("expected afternoon deadline %s, got %s", schedule.AfternoonDeadline, got)
	}
}

func TestAvailableSlotsExcludesFullSlots(t *testing.T) {
	fs := newFakeStore()
	fs.addTechnician("t1", models.TechnicianAvailable)
	seedAppointment(fs, "t1", monday, "08:00", "08:30")
	s := newTestScheduler(fs)

	slots, err := s.AvailableSlots(context.Background(), monday, models.TypeOilChange)
	if err != nil {
		t.Fatalf("available slots: %v", err)
	}
	for _, slot := range slots {
		if slot.StartTime.Format(schedule.TimeFormat) == "08:00" {
			t.Fatalf("expected 08:00 to be excluded when the only technician is booked")
		}
	}
}

func TestAvailableSlotsCountOverlappingLongerJobs(t *testing.T) {
	fs := newFakeStore()
	fs.addTechnician("t1", models.TechnicianAvailable)
	// A 2h maintenance job blocks every half-hour slot it spans.
	seedAppointment(fs, "t1", monday, "08:00", "10:00")
	s := newTestScheduler(fs)

	slots, err := s.AvailableSlots(context.Background(), monday, models.TypeOilChange)
	if err != nil {
		t.Fatalf("available slots: %v", err)
	}
	for _, slot := range slots {
		start := slot.StartTime.Format(schedule.TimeFormat)
		if start < "10:00" {
			t.Fatalf("expected slots before 10:00 excluded, found %s", start)
		}
	}
}

func TestAvailableSlotsCancelledAppointmentFreesCapacity(t *testing.T) {
	fs := newFakeStore()
	fs.addTechnician("t1", models.TechnicianAvailable)
	seedAppointment(fs, "t1", monday, "08:00", "08:30")
	for id, a := range fs.appointments {
		a.Status = models.StatusCancelled
		fs.appointments[id] = a
	}
	s := newTestScheduler(fs)

	slots, err := s.AvailableSlots(context.Background(), monday, models.TypeOilChange)
	if err != nil {
		t.Fatalf("available slots: %v", err)
	}
	found := false
	for _, slot := range slots {
		if slot.StartTime.Format(schedule.TimeFormat) == "08:00" {
			found = true
			if slot.FreeCount != 1 {
				t.Fatalf("expected free count 1, got %d", slot.FreeCount)
			}
		}
	}
	if !found {
		t.Fatalf("expected 08:00 to be free after cancellation")
	}
}

func TestAvailableSlotsNoTechnicians(t *testing.T) {
	s := newTestScheduler(newFakeStore())
	slots, err := s.AvailableSlots(context.Background(), monday, models.TypeMaintenance)
	if err != nil {
		t.Fatalf("available slots: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("expected no slots with an empty roster, got %d", len(slots))
	}
}
