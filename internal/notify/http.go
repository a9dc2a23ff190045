package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/KevinMitsi/MotorX-backend-sub001/internal/models"
	"github.com/KevinMitsi/MotorX-backend-sub001/internal/schedule"
)

// HTTPNotifier posts appointment events to the notification service.
type HTTPNotifier struct {
	BaseURL string
	Client  *http.Client
}

type eventPayload struct {
	Event         string `json:"event"`
	AppointmentID string `json:"appointment_id"`
	Type          string `json:"type"`
	Status        string `json:"status"`
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	VehicleID     string `json:"vehicle_id"`
	TechnicianID  string `json:"technician_id,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

func (h HTTPNotifier) Notify(ctx context.Context, appt models.Appointment, event Event, reason string) error {
	if h.Client == nil {
		h.Client = &http.Client{Timeout: 10 * time.Second}
	}

	payload := eventPayload{
		Event:         string(event),
		AppointmentID: appt.ID.String(),
		Type:          string(appt.Type),
		Status:        string(appt.Status),
		Date:          appt.Date.Format(schedule.DateFormat),
		StartTime:     appt.StartTime.Format(schedule.TimeFormat),
		EndTime:       appt.EndTime.Format(schedule.TimeFormat),
		VehicleID:     appt.VehicleID,
		Reason:        reason,
	}
	if appt.TechnicianID != nil {
		payload.TechnicianID = *appt.TechnicianID
	}
	b, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.BaseURL+"/events", bytes.NewBuffer(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.New("notification service error")
	}
	return nil
}
