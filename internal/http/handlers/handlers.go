package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/KevinMitsi/MotorX-backend-sub001/internal/db"
	"github.com/KevinMitsi/MotorX-backend-sub001/internal/models"
	"github.com/KevinMitsi/MotorX-backend-sub001/internal/schedule"
	"github.com/KevinMitsi/MotorX-backend-sub001/internal/service"
	"github.com/KevinMitsi/MotorX-backend-sub001/internal/store"
)

// ContactChannel is shown to clients whose rework request is redirected
// to the workshop's coordination line.
const ContactChannel = "servicio@motorx.com.co / +57 606 555 0147"

type Handler struct {
	Store     *db.Store
	Scheduler *service.Scheduler
	Validator *validator.Validate
	Logger    zerolog.Logger
	AdminKey  string
}

func (h *Handler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if err := h.Store.Ping(ctx); err != nil {
		writeError(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database unavailable", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary Available slots
// @Description Bookable windows for a date and appointment type, with free technician counts
// @Tags slots
// @Produce json
// @Param date query string true "Date (2006-01-02)"
// @Param type query string true "Appointment type"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /api/slots [get]
func (h *Handler) SlotsList(c *gin.Context) {
	date, ok := parseDateParam(c, c.Query("date"))
	if !ok {
		return
	}
	typ := models.AppointmentType(strings.ToUpper(strings.TrimSpace(c.Query("type"))))
	if !typ.Valid() {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "unknown appointment type", nil)
		return
	}

	slots, err := h.Scheduler.AvailableSlots(c.Request.Context(), date, typ)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to compute availability", err.Error())
		return
	}

	items := make([]gin.H, 0, len(slots))
	for _, s := range slots {
		items = append(items, gin.H{
			"start_time":         s.StartTime.Format(schedule.TimeFormat),
			"end_time":           s.EndTime.Format(schedule.TimeFormat),
			"free_count":         s.FreeCount,
			"reception_deadline": s.ReceptionDeadline.Format(schedule.TimeFormat),
		})
	}
	c.JSON(http.StatusOK, gin.H{"date": date.Format(schedule.DateFormat), "type": typ, "items": items})
}

// @Summary Check plate restriction
// @Tags slots
// @Produce json
// @Param plate query string true "License plate"
// @Param date query string true "Date (2006-01-02)"
// @Success 200 {object} map[string]any
// @Router /api/plate-restriction [get]
func (h *Handler) PlateRestriction(c *gin.Context) {
	plate := strings.ToUpper(strings.TrimSpace(c.Query("plate")))
	if plate == "" {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "plate is required", nil)
		return
	}
	date, ok := parseDateParam(c, c.Query("date"))
	if !ok {
		return
	}
	resp := gin.H{
		"plate":      plate,
		"date":       date.Format(schedule.DateFormat),
		"restricted": schedule.IsPlateRestricted(plate, date),
	}
	if days, ok := schedule.RestrictedWeekdays(plate[len(plate)-1]); ok {
		resp["restricted_days"] = []string{days[0].String(), days[1].String()}
	}
	c.JSON(http.StatusOK, resp)
}

type ScheduleRequest struct {
	VehicleID   string `json:"vehicle_id" validate:"required"`
	Type        string `json:"type" validate:"required"`
	Date        string `json:"date" validate:"required"`
	StartTime   string `json:"start_time" validate:"required"`
	ClientNotes string `json:"client_notes"`
}

// @Summary Schedule an appointment
// @Tags appointments
// @Accept json
// @Produce json
// @Param request body ScheduleRequest true "Booking request"
// @Success 201 {object} models.Appointment
// @Failure 400 {object} map[string]any
// @Failure 409 {object} map[string]any
// @Router /api/appointments [post]
func (h *Handler) ScheduleAppointment(c *gin.Context) {
	var req ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}
	date, err := time.Parse(schedule.DateFormat, req.Date)
	if err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "date must be formatted as 2006-01-02", nil)
		return
	}

	appt, err := h.Scheduler.Schedule(c.Request.Context(), service.ScheduleInput{
		VehicleID:   req.VehicleID,
		Type:        models.AppointmentType(strings.ToUpper(strings.TrimSpace(req.Type))),
		Date:        date,
		StartTime:   req.StartTime,
		ClientNotes: req.ClientNotes,
	})
	if err != nil {
		h.writeSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, appt)
}

type UnplannedRequest struct {
	VehicleID    string `json:"vehicle_id" validate:"required"`
	Type         string `json:"type"`
	Date         string `json:"date" validate:"required"`
	StartTime    string `json:"start_time" validate:"required"`
	TechnicianID string `json:"technician_id"`
	AdminNotes   string `json:"admin_notes"`
}

// @Summary Schedule an unplanned appointment
// @Description Admin-only booking outside the standard slot and brand rules
// @Tags appointments
// @Accept json
// @Produce json
// @Param request body UnplannedRequest true "Unplanned booking"
// @Success 201 {object} models.Appointment
// @Failure 409 {object} map[string]any
// @Router /api/appointments/unplanned [post]
func (h *Handler) ScheduleUnplanned(c *gin.Context) {
	var req UnplannedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}
	date, err := time.Parse(schedule.DateFormat, req.Date)
	if err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "date must be formatted as 2006-01-02", nil)
		return
	}

	appt, err := h.Scheduler.ScheduleUnplanned(c.Request.Context(), service.UnplannedInput{
		VehicleID:    req.VehicleID,
		Type:         models.AppointmentType(strings.ToUpper(strings.TrimSpace(req.Type))),
		Date:         date,
		StartTime:    req.StartTime,
		TechnicianID: strings.TrimSpace(req.TechnicianID),
		AdminNotes:   req.AdminNotes,
	})
	if err != nil {
		h.writeSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, appt)
}

func (h *Handler) AppointmentsList(c *gin.Context) {
	date, ok := parseDateParam(c, c.Query("date"))
	if !ok {
		return
	}
	items, err := h.Store.ListAppointments(c.Request.Context(), date, strings.TrimSpace(c.Query("technician_id")))
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list appointments", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) AppointmentDetails(c *gin.Context) {
	id, ok := parseAppointmentID(c)
	if !ok {
		return
	}
	appt, err := h.Store.Appointment(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Appointment not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to get appointment", err.Error())
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (h *Handler) TechniciansList(c *gin.Context) {
	state := models.TechnicianState(strings.ToUpper(strings.TrimSpace(c.Query("state"))))
	items, err := h.Store.Technicians(c.Request.Context(), state)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list technicians", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

type CancelRequest struct {
	Reason string `json:"reason" validate:"required"`
	Notify bool   `json:"notify"`
}

// @Summary Cancel an appointment
// @Tags appointments
// @Accept json
// @Produce json
// @Param id path string true "Appointment ID"
// @Param request body CancelRequest true "Cancellation"
// @Success 200 {object} models.Appointment
// @Failure 409 {object} map[string]any
// @Router /api/appointments/{id}/cancel [post]
func (h *Handler) CancelAppointment(c *gin.Context) {
	id, ok := parseAppointmentID(c)
	if !ok {
		return
	}
	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	appt, err := h.Scheduler.Cancel(c.Request.Context(), id, req.Reason, req.Notify)
	if err != nil {
		h.writeSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

type ReassignRequest struct {
	TechnicianID string `json:"technician_id" validate:"required"`
	Notify       bool   `json:"notify"`
}

// @Summary Reassign the technician
// @Description Swaps the assigned technician; the appointment's slot never moves
// @Tags appointments
// @Accept json
// @Produce json
// @Param id path string true "Appointment ID"
// @Param request body ReassignRequest true "Reassignment"
// @Success 200 {object} models.Appointment
// @Failure 409 {object} map[string]any
// @Router /api/appointments/{id}/reassign [post]
func (h *Handler) ReassignTechnician(c *gin.Context) {
	id, ok := parseAppointmentID(c)
	if !ok {
		return
	}
	var req ReassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	appt, err := h.Scheduler.Reassign(c.Request.Context(), id, req.TechnicianID, req.Notify)
	if err != nil {
		h.writeSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

type TechnicianStateRequest struct {
	State string `json:"state" validate:"required,oneof=AVAILABLE NOT_AVAILABLE"`
}

func (h *Handler) SetTechnicianState(c *gin.Context) {
	techID := strings.TrimSpace(c.Param("id"))
	var req TechnicianStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	tech, err := h.Store.SetTechnicianState(c.Request.Context(), techID, models.TechnicianState(req.State))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Technician not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to update technician", err.Error())
		return
	}
	c.JSON(http.StatusOK, tech)
}

// writeSchedulingError maps core scheduling errors onto the API error
// envelope.
func (h *Handler) writeSchedulingError(c *gin.Context, err error) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", vErr.Error(), nil)
	case errors.Is(err, store.ErrNotFound):
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Resource not found", nil)
	case errors.Is(err, service.ErrReworkRequiresContact):
		writeError(c, http.StatusUnprocessableEntity, "REWORK_REQUIRES_CONTACT",
			"Rework visits are coordinated directly with the workshop", gin.H{"contact": ContactChannel})
	case errors.Is(err, service.ErrBrandNotEligible):
		writeError(c, http.StatusUnprocessableEntity, "BRAND_NOT_ELIGIBLE", "Vehicle brand is not eligible for this appointment type", nil)
	case errors.Is(err, service.ErrLicensePlateRestricted):
		writeError(c, http.StatusUnprocessableEntity, "LICENSE_PLATE_RESTRICTED", "Vehicle cannot circulate on the requested date", nil)
	case errors.Is(err, service.ErrNoTechnicianAvailable):
		writeError(c, http.StatusConflict, "NO_TECHNICIAN_AVAILABLE", "No technician is free at the requested slot", nil)
	case errors.Is(err, service.ErrTechnicianConflict):
		writeError(c, http.StatusConflict, "TECHNICIAN_CONFLICT", "Technician is busy at the requested slot", nil)
	case errors.Is(err, service.ErrAlreadyCancelled):
		writeError(c, http.StatusConflict, "ALREADY_CANCELLED", "Appointment is already cancelled", nil)
	default:
		h.Logger.Error().Err(err).Msg("scheduling operation failed")
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Operation failed", err.Error())
	}
}

func parseDateParam(c *gin.Context, raw string) (time.Time, bool) {
	date, err := time.Parse(schedule.DateFormat, strings.TrimSpace(raw))
	if err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "date must be formatted as 2006-01-02", nil)
		return time.Time{}, false
	}
	return date, true
}

func parseAppointmentID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid appointment id", nil)
		return uuid.Nil, false
	}
	return id, true
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}
