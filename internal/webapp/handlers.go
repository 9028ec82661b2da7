package webapp

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"crm/internal/model"
	"crm/pkg/crmclient"
)

const pageSize = 10

// Handler renders the server-side pages. All data comes through the API
// client, the web tier never touches the store. When the API call fails the
// page degrades to an empty view and the failure is logged, matching how the
// original front-end behaved, the typed error stays available here.
type Handler struct {
	api *crmclient.Client
}

func NewHandler(api *crmclient.Client) *Handler {
	return &Handler{api: api}
}

func render(c echo.Context, tmpl string, data echo.Map) error {
	if data == nil {
		data = echo.Map{}
	}
	return c.Render(http.StatusOK, tmpl, data)
}

func page(c echo.Context) int {
	p, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || p < 1 {
		return 1
	}
	return p
}

func totalPages(total int64) int64 {
	pages := total / pageSize
	if total%pageSize != 0 {
		pages++
	}
	if pages < 1 {
		pages = 1
	}
	return pages
}

// Dashboard shows the pipeline statistics and the most recent records
func (h *Handler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()

	stats, err := h.api.OpportunityStats(ctx)
	if err != nil {
		logrus.Errorf("dashboard: failed to load opportunity stats - %s", err)
		stats = &model.OpportunityStats{}
	}

	customers, _, err := h.api.Customers(ctx, crmclient.CustomerQuery{Page: 1, PageSize: 5})
	if err != nil {
		logrus.Errorf("dashboard: failed to load customers - %s", err)
	}

	opportunities, _, err := h.api.Opportunities(ctx, crmclient.OpportunityQuery{Page: 1, PageSize: 5})
	if err != nil {
		logrus.Errorf("dashboard: failed to load opportunities - %s", err)
	}

	return render(c, "dashboard.html", echo.Map{
		"Stats":         stats,
		"Customers":     customers,
		"Opportunities": opportunities,
	})
}

// CustomersIndex lists customers with search, status filter and paging
func (h *Handler) CustomersIndex(c echo.Context) error {
	q := crmclient.CustomerQuery{
		Search:   c.QueryParam("search"),
		Status:   c.QueryParam("status"),
		Page:     page(c),
		PageSize: pageSize,
	}

	customers, total, err := h.api.Customers(c.Request().Context(), q)
	if err != nil {
		logrus.Errorf("customers page: failed to load customers - %s", err)
	}

	return render(c, "customers_index.html", echo.Map{
		"Customers":  customers,
		"Search":     q.Search,
		"Status":     q.Status,
		"Page":       q.Page,
		"TotalPages": totalPages(total),
		"Total":      total,
	})
}

// CustomerDetails shows one customer with its contacts and opportunities
func (h *Handler) CustomerDetails(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.Redirect(http.StatusFound, "/customers")
	}

	customer, err := h.api.Customer(c.Request().Context(), id)
	if err != nil {
		if !crmclient.IsNotFound(err) {
			logrus.Errorf("customer details: failed to load customer %d - %s", id, err)
		}
		return c.Redirect(http.StatusFound, "/customers")
	}

	return render(c, "customers_details.html", echo.Map{"Customer": customer})
}

// CustomerNew shows the empty customer form
func (h *Handler) CustomerNew(c echo.Context) error {
	return render(c, "customers_form.html", echo.Map{
		"Title":    "New Customer",
		"Action":   "/customers/new",
		"Customer": &model.Customer{Status: model.DefaultCustomerStatus},
	})
}

// CustomerCreate submits the new customer form to the API
func (h *Handler) CustomerCreate(c echo.Context) error {
	customer := customerFromForm(c)

	stored, err := h.api.CreateCustomer(c.Request().Context(), customer)
	if err != nil {
		return render(c, "customers_form.html", echo.Map{
			"Title":    "New Customer",
			"Action":   "/customers/new",
			"Customer": customer,
			"Error":    formError(err),
		})
	}
	return c.Redirect(http.StatusFound, "/customers/"+strconv.FormatInt(stored.ID, 10))
}

// CustomerEdit shows the customer form prefilled
func (h *Handler) CustomerEdit(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.Redirect(http.StatusFound, "/customers")
	}

	customer, err := h.api.Customer(c.Request().Context(), id)
	if err != nil {
		if !crmclient.IsNotFound(err) {
			logrus.Errorf("customer edit: failed to load customer %d - %s", id, err)
		}
		return c.Redirect(http.StatusFound, "/customers")
	}

	return render(c, "customers_form.html", echo.Map{
		"Title":    "Edit Customer",
		"Action":   "/customers/" + strconv.FormatInt(id, 10) + "/edit",
		"Customer": customer,
	})
}

// CustomerUpdate submits the edited customer to the API
func (h *Handler) CustomerUpdate(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.Redirect(http.StatusFound, "/customers")
	}

	customer := customerFromForm(c)
	customer.ID = id

	if err := h.api.UpdateCustomer(c.Request().Context(), customer); err != nil {
		return render(c, "customers_form.html", echo.Map{
			"Title":    "Edit Customer",
			"Action":   "/customers/" + strconv.FormatInt(id, 10) + "/edit",
			"Customer": customer,
			"Error":    formError(err),
		})
	}
	return c.Redirect(http.StatusFound, "/customers/"+strconv.FormatInt(id, 10))
}

// CustomerDelete shows the delete confirmation
func (h *Handler) CustomerDelete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.Redirect(http.StatusFound, "/customers")
	}

	customer, err := h.api.Customer(c.Request().Context(), id)
	if err != nil {
		if !crmclient.IsNotFound(err) {
			logrus.Errorf("customer delete: failed to load customer %d - %s", id, err)
		}
		return c.Redirect(http.StatusFound, "/customers")
	}

	return render(c, "customers_delete.html", echo.Map{"Customer": customer})
}

// CustomerDestroy performs the delete and returns to the list
func (h *Handler) CustomerDestroy(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.Redirect(http.StatusFound, "/customers")
	}

	if err := h.api.DeleteCustomer(c.Request().Context(), id); err != nil && !crmclient.IsNotFound(err) {
		logrus.Errorf("customer delete: failed to delete customer %d - %s", id, err)
	}
	return c.Redirect(http.StatusFound, "/customers")
}

// ContactsIndex lists contacts with filters and paging
func (h *Handler) ContactsIndex(c echo.Context) error {
	customerID, _ := strconv.ParseInt(c.QueryParam("customerId"), 10, 64)
	q := crmclient.ContactQuery{
		CustomerID: customerID,
		Type:       c.QueryParam("type"),
		Status:     c.QueryParam("status"),
		Page:       page(c),
		PageSize:   pageSize,
	}

	contacts, total, err := h.api.Contacts(c.Request().Context(), q)
	if err != nil {
		logrus.Errorf("contacts page: failed to load contacts - %s", err)
	}

	return render(c, "contacts_index.html", echo.Map{
		"Contacts":   contacts,
		"Type":       q.Type,
		"Status":     q.Status,
		"CustomerID": customerID,
		"Page":       q.Page,
		"TotalPages": totalPages(total),
		"Total":      total,
	})
}

// OpportunitiesIndex lists opportunities with filters, paging and the stats strip
func (h *Handler) OpportunitiesIndex(c echo.Context) error {
	ctx := c.Request().Context()

	customerID, _ := strconv.ParseInt(c.QueryParam("customerId"), 10, 64)
	q := crmclient.OpportunityQuery{
		CustomerID: customerID,
		Stage:      c.QueryParam("stage"),
		Status:     c.QueryParam("status"),
		AssignedTo: c.QueryParam("assignedTo"),
		Page:       page(c),
		PageSize:   pageSize,
	}

	opportunities, total, err := h.api.Opportunities(ctx, q)
	if err != nil {
		logrus.Errorf("opportunities page: failed to load opportunities - %s", err)
	}

	stats, err := h.api.OpportunityStats(ctx)
	if err != nil {
		logrus.Errorf("opportunities page: failed to load stats - %s", err)
		stats = &model.OpportunityStats{}
	}

	return render(c, "opportunities_index.html", echo.Map{
		"Opportunities": opportunities,
		"Stats":         stats,
		"Stage":         q.Stage,
		"Status":        q.Status,
		"AssignedTo":    q.AssignedTo,
		"CustomerID":    customerID,
		"Page":          q.Page,
		"TotalPages":    totalPages(total),
		"Total":         total,
	})
}

func customerFromForm(c echo.Context) *model.Customer {
	return &model.Customer{
		FirstName:  c.FormValue("firstName"),
		LastName:   c.FormValue("lastName"),
		Email:      c.FormValue("email"),
		Phone:      optional(c.FormValue("phone")),
		Company:    optional(c.FormValue("company")),
		JobTitle:   optional(c.FormValue("jobTitle")),
		Address:    optional(c.FormValue("address")),
		City:       optional(c.FormValue("city")),
		State:      optional(c.FormValue("state")),
		PostalCode: optional(c.FormValue("postalCode")),
		Country:    optional(c.FormValue("country")),
		Status:     c.FormValue("status"),
		Notes:      optional(c.FormValue("notes")),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// formError turns an API rejection into a short message for the form page
func formError(err error) string {
	if statusErr, ok := err.(*crmclient.StatusError); ok && statusErr.Body != "" {
		return statusErr.Body
	}
	return "the CRM API is unavailable, please try again"
}
