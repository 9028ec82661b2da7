package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"crm/internal/model"
)

// list responses expose paging metadata out-of-band via these headers
const (
	HeaderTotalCount = "X-Total-Count"
	HeaderPage       = "X-Page"
	HeaderPageSize   = "X-Page-Size"
)

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id must be an integer")
	}
	return id, nil
}

func pathCustomerID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("customerId"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "customerId must be an integer")
	}
	return id, nil
}

// pagination reads page/pageSize query params, falling back to defaults on
// anything non-positive or unparseable. pageSize is deliberately unbounded.
func pagination(c echo.Context) model.Pagination {
	p := model.Pagination{}
	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil {
		p.Page = v
	}
	if v, err := strconv.Atoi(c.QueryParam("pageSize")); err == nil {
		p.PageSize = v
	}
	return p.Normalized()
}

func writeListHeaders(c echo.Context, total int64, p model.Pagination) {
	h := c.Response().Header()
	h.Set(HeaderTotalCount, strconv.FormatInt(total, 10))
	h.Set(HeaderPage, strconv.Itoa(p.Page))
	h.Set(HeaderPageSize, strconv.Itoa(p.PageSize))
}

func created(c echo.Context, location string, body any) error {
	c.Response().Header().Set(echo.HeaderLocation, location)
	return c.JSON(http.StatusCreated, body)
}

func optionalInt64(c echo.Context, name string) (int64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("%s must be an integer", name))
	}
	return v, nil
}
