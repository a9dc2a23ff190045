package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KevinMitsi/MotorX-backend-sub001/internal/models"
	"github.com/KevinMitsi/MotorX-backend-sub001/internal/schedule"
	"github.com/KevinMitsi/MotorX-backend-sub001/internal/store"
	"github.com/KevinMitsi/MotorX-backend-sub001/internal/utils"
)

const appointmentColumns = `id, type, appointment_date, start_time, end_time, status,
	vehicle_id, technician_id, client_notes, admin_notes, cancel_reason, created_at, updated_at`

type Store struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	s.Pool.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

func (s *Store) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Store) Vehicle(ctx context.Context, vehicleID string) (models.Vehicle, error) {
	var v models.Vehicle
	err := s.Pool.QueryRow(ctx,
		`SELECT id, brand, license_plate, owner_id FROM vehicles WHERE id = $1`,
		vehicleID,
	).Scan(&v.ID, &v.Brand, &v.LicensePlate, &v.OwnerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Vehicle{}, store.ErrNotFound
	}
	if err != nil {
		return models.Vehicle{}, err
	}
	return v, nil
}

func (s *Store) Technicians(ctx context.Context, state models.TechnicianState) ([]models.Technician, error) {
	query := `SELECT id, name, state, updated_at FROM technicians`
	var args []any
	if state != "" {
		query += ` WHERE state = $1`
		args = append(args, state)
	}
	query += ` ORDER BY id ASC`

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Technician
	for rows.Next() {
		var t models.Technician
		if err := rows.Scan(&t.ID, &t.Name, &t.State, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) TechnicianAppointments(ctx context.Context, technicianID string, date time.Time) ([]models.Appointment, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE technician_id = $1
		  AND appointment_date = $2
		  AND status NOT IN ('CANCELLED', 'REJECTED')
		ORDER BY start_time ASC
	`, technicianID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAppointments(rows)
}

func (s *Store) AssignmentCounts(ctx context.Context, from, to time.Time) (map[string]int, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT technician_id, COUNT(*)
		FROM appointments
		WHERE technician_id IS NOT NULL
		  AND appointment_date BETWEEN $1 AND $2
		  AND status NOT IN ('CANCELLED', 'REJECTED')
		GROUP BY technician_id
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

func (s *Store) Appointment(ctx context.Context, id uuid.UUID) (models.Appointment, error) {
	row := s.Pool.QueryRow(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id)
	appt, err := scanAppointment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Appointment{}, store.ErrNotFound
	}
	return appt, err
}

func (s *Store) ListAppointments(ctx context.Context, date time.Time, technicianID string) ([]models.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE appointment_date = $1`
	args := []any{date}
	if technicianID != "" {
		query += ` AND technician_id = $2`
		args = append(args, technicianID)
	}
	query += ` ORDER BY start_time ASC, created_at ASC`

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAppointments(rows)
}

// CreateAppointment inserts the row inside a transaction that holds an
// advisory lock on the (technician, date, slot) key and re-checks the
// overlap before writing. The partial unique index on
// (technician_id, appointment_date, start_time) for non-cancelled rows
// backs the same invariant; either detection path surfaces ErrConflict.
func (s *Store) CreateAppointment(ctx context.Context, appt models.Appointment) (models.Appointment, error) {
	if appt.TechnicianID == nil {
		return models.Appointment{}, errors.New("appointment requires a technician before commit")
	}

	now := time.Now().UTC()
	appt.CreatedAt = now
	appt.UpdatedAt = now

	err := s.WithTx(ctx, func(tx pgx.Tx) error {
		if err := lockTechnicianSlot(ctx, tx, *appt.TechnicianID, appt.Date, appt.StartTime); err != nil {
			return err
		}

		var busy bool
		err := tx.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM appointments
				WHERE technician_id = $1
				  AND appointment_date = $2
				  AND start_time < $4 AND end_time > $3
				  AND status NOT IN ('CANCELLED', 'REJECTED')
			)
		`, *appt.TechnicianID, appt.Date, appt.StartTime, appt.EndTime).Scan(&busy)
		if err != nil {
			return err
		}
		if busy {
			return store.ErrConflict
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO appointments (`+appointmentColumns+`)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		`, appt.ID, appt.Type, appt.Date, appt.StartTime, appt.EndTime, appt.Status,
			appt.VehicleID, appt.TechnicianID, appt.ClientNotes, appt.AdminNotes,
			appt.CancelReason, appt.CreatedAt, appt.UpdatedAt)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return store.ErrConflict
			}
			return err
		}
		return nil
	})
	if err != nil {
		return models.Appointment{}, err
	}
	return appt, nil
}

func (s *Store) CancelAppointment(ctx context.Context, id uuid.UUID, reason string) (models.Appointment, error) {
	var out models.Appointment
	err := s.WithTx(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			UPDATE appointments
			SET status = 'CANCELLED', cancel_reason = $1, updated_at = NOW()
			WHERE id = $2 AND status IN ('SCHEDULED', 'IN_PROGRESS')
			RETURNING `+appointmentColumns,
			reason, id)
		appt, err := scanAppointment(row)
		if errors.Is(err, pgx.ErrNoRows) {
			// Distinguish a vanished row from a terminal status.
			var status models.AppointmentStatus
			selErr := tx.QueryRow(ctx, `SELECT status FROM appointments WHERE id = $1`, id).Scan(&status)
			if errors.Is(selErr, pgx.ErrNoRows) {
				return store.ErrNotFound
			}
			if selErr != nil {
				return selErr
			}
			return store.ErrConflict
		}
		if err != nil {
			return err
		}
		out = appt
		return nil
	})
	if err != nil {
		return models.Appointment{}, err
	}
	return out, nil
}

func (s *Store) ReassignTechnician(ctx context.Context, id uuid.UUID, technicianID string) (models.Appointment, error) {
	var out models.Appointment
	err := s.WithTx(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx,
			`SELECT `+appointmentColumns+` FROM appointments WHERE id = $1 FOR UPDATE`, id)
		appt, err := scanAppointment(row)
		if errors.Is(err, pgx.ErrNoRows) {
			return store.ErrNotFound
		}
		if err != nil {
			return err
		}

		if err := lockTechnicianSlot(ctx, tx, technicianID, appt.Date, appt.StartTime); err != nil {
			return err
		}

		var busy bool
		err = tx.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM appointments
				WHERE technician_id = $1
				  AND appointment_date = $2
				  AND id <> $3
				  AND start_time < $5 AND end_time > $4
				  AND status NOT IN ('CANCELLED', 'REJECTED')
			)
		`, technicianID, appt.Date, appt.ID, appt.StartTime, appt.EndTime).Scan(&busy)
		if err != nil {
			return err
		}
		if busy {
			return store.ErrConflict
		}

		row = tx.QueryRow(ctx, `
			UPDATE appointments
			SET technician_id = $1, updated_at = NOW()
			WHERE id = $2
			RETURNING `+appointmentColumns,
			technicianID, id)
		updated, err := scanAppointment(row)
		if err != nil {
			return err
		}
		out = updated
		return nil
	})
	if err != nil {
		return models.Appointment{}, err
	}
	return out, nil
}

func (s *Store) SetTechnicianState(ctx context.Context, technicianID string, state models.TechnicianState) (models.Technician, error) {
	var t models.Technician
	err := s.Pool.QueryRow(ctx, `
		UPDATE technicians
		SET state = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, name, state, updated_at
	`, state, technicianID).Scan(&t.ID, &t.Name, &t.State, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Technician{}, store.ErrNotFound
	}
	if err != nil {
		return models.Technician{}, err
	}
	return t, nil
}

// lockTechnicianSlot takes a transaction-scoped advisory lock so two
// writers racing for the same technician/date/slot serialize their
// re-check even before the unique index fires.
func lockTechnicianSlot(ctx context.Context, tx pgx.Tx, technicianID string, date, start time.Time) error {
	key := technicianID + "|" + date.Format(schedule.DateFormat) + "|" + start.Format("15:04:05")
	_, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(utils.HashStringToUint64(key)))
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAppointment(row rowScanner) (models.Appointment, error) {
	var a models.Appointment
	err := row.Scan(
		&a.ID, &a.Type, &a.Date, &a.StartTime, &a.EndTime, &a.Status,
		&a.VehicleID, &a.TechnicianID, &a.ClientNotes, &a.AdminNotes,
		&a.CancelReason, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

func scanAppointments(rows pgx.Rows) ([]models.Appointment, error) {
	var out []models.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
