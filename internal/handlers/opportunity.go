package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"crm/internal/model"
	"crm/internal/service"
)

// OpportunityHTTPHandler is http handler for opportunities endpoint
type OpportunityHTTPHandler struct {
	opportunitySvc service.OpportunityService
}

// NewOpportunityHTTPHandler builds new OpportunityHTTPHandler
func NewOpportunityHTTPHandler(opportunitySvc service.OpportunityService) *OpportunityHTTPHandler {
	return &OpportunityHTTPHandler{opportunitySvc: opportunitySvc}
}

// GetAll lists opportunities with optional filters and paging, newest first
// @Summary     List opportunities
// @Tags        opportunities
// @Produce     json
// @Param       customerId query   int    false "owning customer"
// @Param       stage      query   string false "exact stage match"
// @Param       status     query   string false "exact status match"
// @Param       assignedTo query   string false "exact assignee match"
// @Param       page       query   int    false "1-based page" default(1)
// @Param       pageSize   query   int    false "page size"    default(10)
// @Success     200        {array} model.Opportunity
// @Router      /api/opportunities [get]
func (h *OpportunityHTTPHandler) GetAll(c echo.Context) error {
	customerID, err := optionalInt64(c, "customerId")
	if err != nil {
		return err
	}

	f := model.OpportunityFilter{
		CustomerID: customerID,
		Stage:      c.QueryParam("stage"),
		Status:     c.QueryParam("status"),
		AssignedTo: c.QueryParam("assignedTo"),
	}
	p := pagination(c)

	opportunities, total, err := h.opportunitySvc.List(c.Request().Context(), f, p)
	if err != nil {
		return err
	}

	writeListHeaders(c, total, p)
	return c.JSON(http.StatusOK, opportunities)
}

// Get returns a single opportunity with its resolved customer
// @Summary     Get opportunity
// @Tags        opportunities
// @Produce     json
// @Param       id  path     int true "opportunity id"
// @Success     200 {object} model.Opportunity
// @Failure     404 {object} echo.HTTPError
// @Router      /api/opportunities/{id} [get]
func (h *OpportunityHTTPHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	opportunity, err := h.opportunitySvc.FindByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, opportunity)
}

// GetByCustomer lists every opportunity of one customer, unpaginated
// @Summary     List opportunities of a customer
// @Tags        opportunities
// @Produce     json
// @Param       customerId path    int true "customer id"
// @Success     200        {array} model.Opportunity
// @Router      /api/opportunities/customer/{customerId} [get]
func (h *OpportunityHTTPHandler) GetByCustomer(c echo.Context) error {
	customerID, err := pathCustomerID(c)
	if err != nil {
		return err
	}

	opportunities, err := h.opportunitySvc.FindAllByCustomerID(c.Request().Context(), customerID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, opportunities)
}

// GetStats returns the pipeline aggregation over all opportunities
// @Summary     Opportunity statistics
// @Tags        opportunities
// @Produce     json
// @Success     200 {object} model.OpportunityStats
// @Router      /api/opportunities/stats [get]
func (h *OpportunityHTTPHandler) GetStats(c echo.Context) error {
	stats, err := h.opportunitySvc.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// Post creates a new opportunity for an existing customer
// @Summary     Create opportunity
// @Tags        opportunities
// @Accept      json
// @Produce     json
// @Param       opportunity body     model.Opportunity true "new opportunity"
// @Success     201         {object} model.Opportunity
// @Failure     400         {object} echo.HTTPError
// @Router      /api/opportunities [post]
func (h *OpportunityHTTPHandler) Post(c echo.Context) error {
	var opportunity model.Opportunity
	if err := c.Bind(&opportunity); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&opportunity); err != nil {
		return err
	}

	stored, err := h.opportunitySvc.Create(c.Request().Context(), &opportunity)
	if err != nil {
		return err
	}
	return created(c, fmt.Sprintf("/api/opportunities/%d", stored.ID), stored)
}

// Put updates an existing opportunity
// @Summary     Update opportunity
// @Tags        opportunities
// @Accept      json
// @Param       id          path int               true "opportunity id"
// @Param       opportunity body model.Opportunity true "updated opportunity, id must match path"
// @Success     204
// @Failure     400 {object} echo.HTTPError
// @Failure     404 {object} echo.HTTPError
// @Router      /api/opportunities/{id} [put]
func (h *OpportunityHTTPHandler) Put(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var opportunity model.Opportunity
	if err := c.Bind(&opportunity); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&opportunity); err != nil {
		return err
	}

	if err := h.opportunitySvc.Update(c.Request().Context(), id, &opportunity); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteByID deletes an opportunity
// @Summary     Delete opportunity
// @Tags        opportunities
// @Param       id path int true "opportunity id"
// @Success     204
// @Failure     404 {object} echo.HTTPError
// @Router      /api/opportunities/{id} [delete]
func (h *OpportunityHTTPHandler) DeleteByID(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.opportunitySvc.DeleteByID(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
