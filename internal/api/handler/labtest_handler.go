package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medicarepro/booking-system/internal/core/ports"
)

// LabTestHandler serves the diagnostic test catalog.
type LabTestHandler struct {
	service ports.LabTestService
}

func NewLabTestHandler(service ports.LabTestService) *LabTestHandler {
	return &LabTestHandler{service: service}
}

func (h *LabTestHandler) filter(c echo.Context) ports.TestFilter {
	return ports.TestFilter{
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("search"),
		MinPrice: floatQuery(c, "minPrice"),
		MaxPrice: floatQuery(c, "maxPrice"),
		Page:     pageRequest(c),
	}
}

// List godoc
// @Summary  List available tests
// @Tags     tests
// @Produce  json
// @Param    category  query  string  false  "Category"
// @Param    search    query  string  false  "Full-text search"
// @Param    minPrice  query  number  false  "Minimum price"
// @Param    maxPrice  query  number  false  "Maximum price"
// @Param    page      query  int     false  "Page (default 1)"
// @Param    limit     query  int     false  "Page size (default 10, max 100)"
// @Success  200  {array}  domain.LabTest
// @Router   /tests [get]
func (h *LabTestHandler) List(c echo.Context) error {
	page, err := h.service.List(c.Request().Context(), h.filter(c))
	if err != nil {
		return err
	}
	return respondPage(c, http.StatusOK, page)
}

// ListAll is the admin listing, unavailable tests included.
//
// @Summary   List all tests
// @Tags      admin
// @Produce   json
// @Security  BearerAuth
// @Success   200  {array}  domain.LabTest
// @Router    /admin/tests [get]
func (h *LabTestHandler) ListAll(c echo.Context) error {
	f := h.filter(c)
	f.IncludeUnavailable = true
	page, err := h.service.List(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return respondPage(c, http.StatusOK, page)
}

// Categories godoc
// @Summary  Distinct test categories
// @Tags     tests
// @Produce  json
// @Success  200  {array}  string
// @Router   /tests/categories [get]
func (h *LabTestHandler) Categories(c echo.Context) error {
	cats, err := h.service.Categories(c.Request().Context())
	if err != nil {
		return err
	}
	if cats == nil {
		cats = []string{}
	}
	return respond(c, http.StatusOK, cats)
}

// Get godoc
// @Summary  Get test
// @Tags     tests
// @Produce  json
// @Param    id   path      string  true  "Test id"
// @Success  200  {object}  domain.LabTest
// @Failure  404  {object}  errorResponse
// @Router   /tests/{id} [get]
func (h *LabTestHandler) Get(c echo.Context) error {
	test, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, test)
}

// Create godoc
// @Summary   Create test
// @Tags      tests
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body  body      testRequest  true  "Test"
// @Success   201   {object}  domain.LabTest
// @Failure   400   {object}  errorResponse
// @Router    /tests [post]
func (h *LabTestHandler) Create(c echo.Context) error {
	var req testRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	test, err := h.service.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	return respondMessage(c, http.StatusCreated, "Test created successfully", test)
}

// Update godoc
// @Summary   Update test
// @Tags      tests
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     id    path      string             true  "Test id"
// @Param     body  body      updateTestRequest  true  "Fields to change"
// @Success   200   {object}  domain.LabTest
// @Failure   404   {object}  errorResponse
// @Router    /tests/{id} [put]
func (h *LabTestHandler) Update(c echo.Context) error {
	var req updateTestRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	test, err := h.service.Update(c.Request().Context(), c.Param("id"), req.toUpdate())
	if err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "Test updated successfully", test)
}

// Delete godoc
// @Summary   Delete test
// @Tags      tests
// @Produce   json
// @Security  BearerAuth
// @Param     id   path      string  true  "Test id"
// @Success   200  {object}  envelope
// @Failure   404  {object}  errorResponse
// @Router    /tests/{id} [delete]
func (h *LabTestHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "Test deleted successfully", nil)
}
