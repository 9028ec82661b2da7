package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"crm/internal/model"
	"crm/internal/service"
)

// ContactHTTPHandler is http handler for contacts endpoint
type ContactHTTPHandler struct {
	contactSvc service.ContactService
}

// NewContactHTTPHandler builds new ContactHTTPHandler
func NewContactHTTPHandler(contactSvc service.ContactService) *ContactHTTPHandler {
	return &ContactHTTPHandler{contactSvc: contactSvc}
}

// GetAll lists contacts with optional filters and paging, newest contact date first
// @Summary     List contacts
// @Tags        contacts
// @Produce     json
// @Param       customerId query   int    false "owning customer"
// @Param       type       query   string false "exact type match"
// @Param       status     query   string false "exact status match"
// @Param       page       query   int    false "1-based page" default(1)
// @Param       pageSize   query   int    false "page size"    default(10)
// @Success     200        {array} model.Contact
// @Router      /api/contacts [get]
func (h *ContactHTTPHandler) GetAll(c echo.Context) error {
	customerID, err := optionalInt64(c, "customerId")
	if err != nil {
		return err
	}

	f := model.ContactFilter{
		CustomerID: customerID,
		Type:       c.QueryParam("type"),
		Status:     c.QueryParam("status"),
	}
	p := pagination(c)

	contacts, total, err := h.contactSvc.List(c.Request().Context(), f, p)
	if err != nil {
		return err
	}

	writeListHeaders(c, total, p)
	return c.JSON(http.StatusOK, contacts)
}

// Get returns a single contact with its resolved customer
// @Summary     Get contact
// @Tags        contacts
// @Produce     json
// @Param       id  path     int true "contact id"
// @Success     200 {object} model.Contact
// @Failure     404 {object} echo.HTTPError
// @Router      /api/contacts/{id} [get]
func (h *ContactHTTPHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	contact, err := h.contactSvc.FindByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, contact)
}

// GetByCustomer lists every contact of one customer, unpaginated
// @Summary     List contacts of a customer
// @Tags        contacts
// @Produce     json
// @Param       customerId path    int true "customer id"
// @Success     200        {array} model.Contact
// @Router      /api/contacts/customer/{customerId} [get]
func (h *ContactHTTPHandler) GetByCustomer(c echo.Context) error {
	customerID, err := pathCustomerID(c)
	if err != nil {
		return err
	}

	contacts, err := h.contactSvc.FindAllByCustomerID(c.Request().Context(), customerID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, contacts)
}

// Post creates a new contact for an existing customer
// @Summary     Create contact
// @Tags        contacts
// @Accept      json
// @Produce     json
// @Param       contact body     model.Contact true "new contact"
// @Success     201     {object} model.Contact
// @Failure     400     {object} echo.HTTPError
// @Router      /api/contacts [post]
func (h *ContactHTTPHandler) Post(c echo.Context) error {
	var contact model.Contact
	if err := c.Bind(&contact); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&contact); err != nil {
		return err
	}

	stored, err := h.contactSvc.Create(c.Request().Context(), &contact)
	if err != nil {
		return err
	}
	return created(c, fmt.Sprintf("/api/contacts/%d", stored.ID), stored)
}

// Put updates an existing contact
// @Summary     Update contact
// @Tags        contacts
// @Accept      json
// @Param       id      path int           true "contact id"
// @Param       contact body model.Contact true "updated contact, id must match path"
// @Success     204
// @Failure     400 {object} echo.HTTPError
// @Failure     404 {object} echo.HTTPError
// @Router      /api/contacts/{id} [put]
func (h *ContactHTTPHandler) Put(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var contact model.Contact
	if err := c.Bind(&contact); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&contact); err != nil {
		return err
	}

	if err := h.contactSvc.Update(c.Request().Context(), id, &contact); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteByID deletes a contact
// @Summary     Delete contact
// @Tags        contacts
// @Param       id path int true "contact id"
// @Success     204
// @Failure     404 {object} echo.HTTPError
// @Router      /api/contacts/{id} [delete]
func (h *ContactHTTPHandler) DeleteByID(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.contactSvc.DeleteByID(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
