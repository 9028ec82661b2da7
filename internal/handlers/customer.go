package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"crm/internal/model"
	"crm/internal/service"
)

// CustomerHTTPHandler is http handler for customers endpoint
type CustomerHTTPHandler struct {
	customerSvc service.CustomerService
}

// NewCustomerHTTPHandler builds new CustomerHTTPHandler
func NewCustomerHTTPHandler(customerSvc service.CustomerService) *CustomerHTTPHandler {
	return &CustomerHTTPHandler{customerSvc: customerSvc}
}

// GetAll lists customers with optional filters and paging
// @Summary     List customers
// @Description Returns a page of customers, filtered by free-text search and status
// @Tags        customers
// @Produce     json
// @Param       search   query    string false "substring matched against first name, last name, email or company"
// @Param       status   query    string false "exact status match"
// @Param       page     query    int    false "1-based page"     default(1)
// @Param       pageSize query    int    false "page size"        default(10)
// @Success     200      {array}  model.Customer
// @Router      /api/customers [get]
func (h *CustomerHTTPHandler) GetAll(c echo.Context) error {
	f := model.CustomerFilter{
		Search: c.QueryParam("search"),
		Status: c.QueryParam("status"),
	}
	p := pagination(c)

	customers, total, err := h.customerSvc.List(c.Request().Context(), f, p)
	if err != nil {
		return err
	}

	writeListHeaders(c, total, p)
	return c.JSON(http.StatusOK, customers)
}

// Get returns a single customer with its contacts and opportunities
// @Summary     Get customer
// @Tags        customers
// @Produce     json
// @Param       id  path     int true "customer id"
// @Success     200 {object} model.Customer
// @Failure     404 {object} echo.HTTPError
// @Router      /api/customers/{id} [get]
func (h *CustomerHTTPHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	customer, err := h.customerSvc.FindByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, customer)
}

// Post creates a new customer
// @Summary     Create customer
// @Tags        customers
// @Accept      json
// @Produce     json
// @Param       customer body     model.Customer true "new customer"
// @Success     201      {object} model.Customer
// @Failure     400      {object} echo.HTTPError
// @Router      /api/customers [post]
func (h *CustomerHTTPHandler) Post(c echo.Context) error {
	var customer model.Customer
	if err := c.Bind(&customer); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&customer); err != nil {
		return err
	}

	stored, err := h.customerSvc.Create(c.Request().Context(), &customer)
	if err != nil {
		return err
	}
	return created(c, fmt.Sprintf("/api/customers/%d", stored.ID), stored)
}

// Put updates an existing customer
// @Summary     Update customer
// @Tags        customers
// @Accept      json
// @Param       id       path int            true "customer id"
// @Param       customer body model.Customer true "updated customer, id must match path"
// @Success     204
// @Failure     400 {object} echo.HTTPError
// @Failure     404 {object} echo.HTTPError
// @Router      /api/customers/{id} [put]
func (h *CustomerHTTPHandler) Put(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var customer model.Customer
	if err := c.Bind(&customer); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&customer); err != nil {
		return err
	}

	if err := h.customerSvc.Update(c.Request().Context(), id, &customer); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteByID deletes a customer together with its contacts and opportunities
// @Summary     Delete customer
// @Tags        customers
// @Param       id path int true "customer id"
// @Success     204
// @Failure     404 {object} echo.HTTPError
// @Router      /api/customers/{id} [delete]
func (h *CustomerHTTPHandler) DeleteByID(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.customerSvc.DeleteByID(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
