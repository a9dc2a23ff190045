package notify

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/KevinMitsi/MotorX-backend-sub001/internal/models"
)

// MockNotifier logs the event instead of delivering it. Used when no
// notification endpoint is configured.
type MockNotifier struct {
	Logger zerolog.Logger
}

func (m MockNotifier) Notify(ctx context.Context, appt models.Appointment, event Event, reason string) error {
	m.Logger.Info().
		Str("appointment_id", appt.ID.String()).
		Str("event", string(event)).
		Str("reason", reason).
		Msg("notification (mock)")
	return nil
}
