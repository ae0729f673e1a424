package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medicarepro/booking-system/internal/api/metrics"
	"github.com/medicarepro/booking-system/internal/core/domain"
	"github.com/medicarepro/booking-system/internal/core/ports"
)

// AppointmentHandler serves /appointments and the booking part of /admin.
type AppointmentHandler struct {
	service ports.AppointmentService
}

func NewAppointmentHandler(service ports.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{service: service}
}

// List returns the caller's appointments; administrators see all of them.
//
// @Summary   List appointments
// @Tags      appointments
// @Produce   json
// @Security  BearerAuth
// @Param     status           query  string  false  "Status filter"
// @Param     appointmentType  query  string  false  "consultation or test"
// @Param     doctorId         query  string  false  "Doctor filter"
// @Param     page             query  int     false  "Page (default 1)"
// @Param     limit            query  int     false  "Page size (default 10, max 100)"
// @Success   200  {array}   ports.AppointmentDetail
// @Failure   401  {object}  errorResponse
// @Router    /appointments [get]
func (h *AppointmentHandler) List(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	page, err := h.service.List(c.Request().Context(), p, ports.ListAppointmentsFilter{
		Status:   c.QueryParam("status"),
		Type:     c.QueryParam("appointmentType"),
		DoctorID: c.QueryParam("doctorId"),
		Page:     pageRequest(c),
	})
	if err != nil {
		return err
	}
	return respondPage(c, http.StatusOK, page)
}

// Get godoc
// @Summary   Get appointment
// @Tags      appointments
// @Produce   json
// @Security  BearerAuth
// @Param     id   path      string  true  "Appointment id"
// @Success   200  {object}  ports.AppointmentDetail
// @Failure   403  {object}  errorResponse
// @Failure   404  {object}  errorResponse
// @Router    /appointments/{id} [get]
func (h *AppointmentHandler) Get(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	detail, err := h.service.Get(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, detail)
}

// Create books an appointment for the caller. The amount is taken from the
// catalog.
//
// @Summary   Book appointment
// @Tags      appointments
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body  body      createAppointmentRequest  true  "Booking"
// @Success   201   {object}  ports.AppointmentDetail
// @Failure   400   {object}  errorResponse
// @Failure   404   {object}  errorResponse
// @Router    /appointments [post]
func (h *AppointmentHandler) Create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req createAppointmentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	detail, err := h.service.Create(c.Request().Context(), p, req.toInput())
	if err != nil {
		return countConflict(err)
	}
	metrics.AppointmentsCreatedTotal.WithLabelValues(string(detail.Type)).Inc()
	return respondMessage(c, http.StatusCreated, "Appointment created successfully", detail)
}

// AdminCreate books on behalf of a user and starts confirmed.
//
// @Summary   Book appointment for a user
// @Tags      admin
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body  body      adminCreateAppointmentRequest  true  "Booking"
// @Success   201   {object}  ports.AppointmentDetail
// @Failure   400   {object}  errorResponse
// @Router    /admin/appointments [post]
func (h *AppointmentHandler) AdminCreate(c echo.Context) error {
	var req adminCreateAppointmentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	detail, err := h.service.AdminCreate(c.Request().Context(), req.toInput())
	if err != nil {
		return countConflict(err)
	}
	metrics.AppointmentsCreatedTotal.WithLabelValues(string(detail.Type)).Inc()
	return respondMessage(c, http.StatusCreated, "Appointment created successfully", detail)
}

// Update changes booking fields. Status, payment status and amount are only
// honoured for administrators.
//
// @Summary   Update appointment
// @Tags      appointments
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     id    path      string                    true  "Appointment id"
// @Param     body  body      updateAppointmentRequest  true  "Fields to change"
// @Success   200   {object}  ports.AppointmentDetail
// @Failure   400   {object}  errorResponse
// @Failure   422   {object}  errorResponse
// @Router    /appointments/{id} [put]
func (h *AppointmentHandler) Update(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req updateAppointmentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	detail, err := h.service.Update(c.Request().Context(), p, c.Param("id"), req.toInput())
	if err != nil {
		return countConflict(err)
	}
	return respondMessage(c, http.StatusOK, "Appointment updated successfully", detail)
}

// UpdateStatus godoc
// @Summary   Change appointment status
// @Tags      admin
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     id    path      string               true  "Appointment id"
// @Param     body  body      updateStatusRequest  true  "New status"
// @Success   200   {object}  ports.AppointmentDetail
// @Failure   422   {object}  errorResponse
// @Router    /admin/appointments/{id}/status [put]
func (h *AppointmentHandler) UpdateStatus(c echo.Context) error {
	var req updateStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	detail, err := h.service.UpdateStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "Appointment status updated successfully", detail)
}

// Cancel godoc
// @Summary   Cancel appointment
// @Tags      appointments
// @Produce   json
// @Security  BearerAuth
// @Param     id   path      string  true  "Appointment id"
// @Success   200  {object}  ports.AppointmentDetail
// @Failure   400  {object}  errorResponse
// @Router    /appointments/{id}/cancel [patch]
func (h *AppointmentHandler) Cancel(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	detail, err := h.service.Cancel(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	metrics.AppointmentsCancelledTotal.Inc()
	return respondMessage(c, http.StatusOK, "Appointment cancelled successfully", detail)
}

// Delete godoc
// @Summary   Delete appointment
// @Tags      appointments
// @Produce   json
// @Security  BearerAuth
// @Param     id   path      string  true  "Appointment id"
// @Success   200  {object}  envelope
// @Failure   404  {object}  errorResponse
// @Router    /appointments/{id} [delete]
func (h *AppointmentHandler) Delete(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), p, c.Param("id")); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "Appointment deleted successfully", nil)
}

func countConflict(err error) error {
	if errors.Is(err, domain.ErrSlotTaken) {
		metrics.SlotConflictsTotal.Inc()
	}
	return err
}
