package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medicarepro/booking-system/internal/core/ports"
)

// DoctorHandler serves the doctor catalog.
type DoctorHandler struct {
	service ports.DoctorService
}

func NewDoctorHandler(service ports.DoctorService) *DoctorHandler {
	return &DoctorHandler{service: service}
}

// List godoc
// @Summary  List doctors
// @Tags     doctors
// @Produce  json
// @Param    specialization  query  string  false  "Specialization (case-insensitive)"
// @Param    search          query  string  false  "Full-text search"
// @Param    minRating       query  number  false  "Minimum rating"
// @Param    maxFee          query  number  false  "Maximum consultation fee"
// @Param    page            query  int     false  "Page (default 1)"
// @Param    limit           query  int     false  "Page size (default 10, max 100)"
// @Success  200  {array}  domain.Doctor
// @Router   /doctors [get]
func (h *DoctorHandler) List(c echo.Context) error {
	page, err := h.service.List(c.Request().Context(), ports.DoctorFilter{
		Specialization: c.QueryParam("specialization"),
		Search:         c.QueryParam("search"),
		MinRating:      floatQuery(c, "minRating"),
		MaxFee:         floatQuery(c, "maxFee"),
		Page:           pageRequest(c),
	})
	if err != nil {
		return err
	}
	return respondPage(c, http.StatusOK, page)
}

// Specializations godoc
// @Summary  Distinct doctor specializations
// @Tags     doctors
// @Produce  json
// @Success  200  {array}  string
// @Router   /doctors/specializations [get]
func (h *DoctorHandler) Specializations(c echo.Context) error {
	specs, err := h.service.Specializations(c.Request().Context())
	if err != nil {
		return err
	}
	if specs == nil {
		specs = []string{}
	}
	return respond(c, http.StatusOK, specs)
}

// Get godoc
// @Summary  Get doctor
// @Tags     doctors
// @Produce  json
// @Param    id   path      string  true  "Doctor id"
// @Success  200  {object}  domain.Doctor
// @Failure  404  {object}  errorResponse
// @Router   /doctors/{id} [get]
func (h *DoctorHandler) Get(c echo.Context) error {
	doctor, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, doctor)
}

// Create godoc
// @Summary   Create doctor
// @Tags      doctors
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body  body      doctorRequest  true  "Doctor"
// @Success   201   {object}  domain.Doctor
// @Failure   400   {object}  errorResponse
// @Router    /doctors [post]
func (h *DoctorHandler) Create(c echo.Context) error {
	var req doctorRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	doctor, err := h.service.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	return respondMessage(c, http.StatusCreated, "Doctor created successfully", doctor)
}

// Update godoc
// @Summary   Update doctor
// @Tags      doctors
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     id    path      string               true  "Doctor id"
// @Param     body  body      updateDoctorRequest  true  "Fields to change"
// @Success   200   {object}  domain.Doctor
// @Failure   404   {object}  errorResponse
// @Router    /doctors/{id} [put]
func (h *DoctorHandler) Update(c echo.Context) error {
	var req updateDoctorRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	doctor, err := h.service.Update(c.Request().Context(), c.Param("id"), req.toUpdate())
	if err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "Doctor updated successfully", doctor)
}

// Delete godoc
// @Summary   Delete doctor
// @Tags      doctors
// @Produce   json
// @Security  BearerAuth
// @Param     id   path      string  true  "Doctor id"
// @Success   200  {object}  envelope
// @Failure   404  {object}  errorResponse
// @Router    /doctors/{id} [delete]
func (h *DoctorHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "Doctor deleted successfully", nil)
}
