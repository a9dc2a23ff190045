package models

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentType string

const (
	TypeManualWarrantyReview AppointmentType = "MANUAL_WARRANTY_REVIEW"
	TypeAutecoWarranty       AppointmentType = "AUTECO_WARRANTY"
	TypeQuickService         AppointmentType = "QUICK_SERVICE"
	TypeMaintenance          AppointmentType = "MAINTENANCE"
	TypeOilChange            AppointmentType = "OIL_CHANGE"
	TypeUnplanned            AppointmentType = "UNPLANNED"
	TypeRework               AppointmentType = "REWORK"
)

func (t AppointmentType) Valid() bool {
	switch t {
	case TypeManualWarrantyReview, TypeAutecoWarranty, TypeQuickService,
		TypeMaintenance, TypeOilChange, TypeUnplanned, TypeRework:
		return true
	}
	return false
}

type AppointmentStatus string

const (
	StatusScheduled  AppointmentStatus = "SCHEDULED"
	StatusInProgress AppointmentStatus = "IN_PROGRESS"
	StatusCompleted  AppointmentStatus = "COMPLETED"
	StatusCancelled  AppointmentStatus = "CANCELLED"
	StatusRejected   AppointmentStatus = "REJECTED"
	StatusNoShow     AppointmentStatus = "NO_SHOW"
)

// Holding reports whether the appointment still occupies its technician's
// slot. Cancelled and rejected rows never block capacity.
func (s AppointmentStatus) Holding() bool {
	return s != StatusCancelled && s != StatusRejected
}

func (s AppointmentStatus) Cancellable() bool {
	return s == StatusScheduled || s == StatusInProgress
}

type Appointment struct {
	ID           uuid.UUID         `json:"id"`
	Type         AppointmentType   `json:"type"`
	Date         time.Time         `json:"date"`
	StartTime    time.Time         `json:"start_time"`
	EndTime      time.Time         `json:"end_time"`
	Status       AppointmentStatus `json:"status"`
	VehicleID    string            `json:"vehicle_id"`
	TechnicianID *string           `json:"technician_id"`
	ClientNotes  string            `json:"client_notes,omitempty"`
	AdminNotes   string            `json:"admin_notes,omitempty"`
	CancelReason string            `json:"cancel_reason,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// Overlaps reports whether the appointment intersects [start, end).
func (a Appointment) Overlaps(start, end time.Time) bool {
	return a.StartTime.Before(end) && a.EndTime.After(start)
}

type Vehicle struct {
	ID           string `json:"id"`
	Brand        string `json:"brand"`
	LicensePlate string `json:"license_plate"`
	OwnerID      string `json:"owner_id"`
}

type TechnicianState string

const (
	TechnicianAvailable    TechnicianState = "AVAILABLE"
	TechnicianNotAvailable TechnicianState = "NOT_AVAILABLE"
)

type Technician struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	State     TechnicianState `json:"state"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// SlotAvailability is one bookable window for a given date and appointment
// type, with the number of technicians still free in it.
type SlotAvailability struct {
	StartTime         time.Time `json:"start_time"`
	EndTime           time.Time `json:"end_time"`
	FreeCount         int       `json:"free_count"`
	ReceptionDeadline time.Time `json:"reception_deadline"`
}
