package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/KevinMitsi/MotorX-backend-sub001/internal/models"
	"github.com/KevinMitsi/MotorX-backend-sub001/internal/store"
)

// fakeStore is an in-memory store.Scheduling. CreateAppointment and
// ReassignTechnician re-check the technician's slot under the mutex,
// mirroring the transactional guarantee of the real store.
type fakeStore struct {
	mu           sync.Mutex
	vehicles     map[string]models.Vehicle
	technicians  map[string]models.Technician
	appointments map[uuid.UUID]models.Appointment
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		vehicles:     make(map[string]models.Vehicle),
		technicians:  make(map[string]models.Technician),
		appointments: make(map[uuid.UUID]models.Appointment),
	}
}

func (f *fakeStore) addVehicle(v models.Vehicle) {
	f.vehicles[v.ID] = v
}

func (f *fakeStore) addTechnician(id string, state models.TechnicianState) {
	f.technicians[id] = models.Technician{ID: id, Name: "Tech " + id, State: state}
}

func (f *fakeStore) Vehicle(ctx context.Context, vehicleID string) (models.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.vehicles[vehicleID]
	if !ok {
		return models.Vehicle{}, store.ErrNotFound
	}
	return v, nil
}

func (f *fakeStore) Technicians(ctx context.Context, state models.TechnicianState) ([]models.Technician, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Technician{}
	for _, t := range f.technicians {
		if state != "" && t.State != state {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) TechnicianAppointments(ctx context.Context, technicianID string, date time.Time) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.technicianAppointmentsLocked(technicianID, date, uuid.Nil)
	return out, nil
}

func (f *fakeStore) technicianAppointmentsLocked(technicianID string, date time.Time, exclude uuid.UUID) []models.Appointment {
	out := []models.Appointment{}
	for _, a := range f.appointments {
		if a.ID == exclude || a.TechnicianID == nil || *a.TechnicianID != technicianID {
			continue
		}
		if !sameDay(a.Date, date) || !a.Status.Holding() {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}

func (f *fakeStore) AssignmentCounts(ctx context.Context, from, to time.Time) (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[string]int)
	for _, a := range f.appointments {
		if a.TechnicianID == nil || !a.Status.Holding() {
			continue
		}
		if a.Date.Before(from) || a.Date.After(to) {
			continue
		}
		counts[*a.TechnicianID]++
	}
	return counts, nil
}

func (f *fakeStore) Appointment(ctx context.Context, id uuid.UUID) (models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.appointments[id]
	if !ok {
		return models.Appointment{}, store.ErrNotFound
	}
	return a, nil
}

func (f *fakeStore) ListAppointments(ctx context.Context, date time.Time, technicianID string) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Appointment{}
	for _, a := range f.appointments {
		if !sameDay(a.Date, date) {
			continue
		}
		if technicianID != "" && (a.TechnicianID == nil || *a.TechnicianID != technicianID) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (f *fakeStore) CreateAppointment(ctx context.Context, appt models.Appointment) (models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if appt.TechnicianID != nil {
		for _, other := range f.technicianAppointmentsLocked(*appt.TechnicianID, appt.Date, uuid.Nil) {
			if other.Overlaps(appt.StartTime, appt.EndTime) {
				return models.Appointment{}, store.ErrConflict
			}
		}
	}
	now := time.Now()
	appt.CreatedAt = now
	appt.UpdatedAt = now
	f.appointments[appt.ID] = appt
	return appt, nil
}

func (f *fakeStore) CancelAppointment(ctx context.Context, id uuid.UUID, reason string) (models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.appointments[id]
	if !ok {
		return models.Appointment{}, store.ErrNotFound
	}
	if !a.Status.Cancellable() {
		return models.Appointment{}, store.ErrConflict
	}
	a.Status = models.StatusCancelled
	a.CancelReason = reason
	a.UpdatedAt = time.Now()
	f.appointments[id] = a
	return a, nil
}

func (f *fakeStore) ReassignTechnician(ctx context.Context, id uuid.UUID, technicianID string) (models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.appointments[id]
	if !ok {
		return models.Appointment{}, store.ErrNotFound
	}
	for _, other := range f.technicianAppointmentsLocked(technicianID, a.Date, id) {
		if other.Overlaps(a.StartTime, a.EndTime) {
			return models.Appointment{}, store.ErrConflict
		}
	}
	a.TechnicianID = &technicianID
	a.UpdatedAt = time.Now()
	f.appointments[id] = a
	return a, nil
}

func (f *fakeStore) SetTechnicianState(ctx context.Context, technicianID string, state models.TechnicianState) (models.Technician, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.technicians[technicianID]
	if !ok {
		return models.Technician{}, store.ErrNotFound
	}
	t.State = state
	t.UpdatedAt = time.Now()
	f.technicians[technicianID] = t
	return t, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
