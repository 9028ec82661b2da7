// Package crmclient is a typed HTTP client for the CRM REST API. Unlike the
// raw API it never leaves the caller guessing: any non-success response comes
// back as *StatusError, so "no data" and "request failed" stay distinguishable.
package crmclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"crm/internal/model"
)

const defaultTimeout = 10 * time.Second

// StatusError reports a non-success HTTP status together with the response body
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("crm api responded with status %d - %s", e.StatusCode, e.Body)
}

// IsNotFound tells whether err is a 404 response
func IsNotFound(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound
}

// Client talks to the CRM API over HTTP with a bounded timeout per call
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New builds a client for the API at baseURL (e.g. http://localhost:5000/api)
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// CustomerQuery mirrors the customers list filters
type CustomerQuery struct {
	Search   string
	Status   string
	Page     int
	PageSize int
}

func (q CustomerQuery) values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	setPaging(v, q.Page, q.PageSize)
	return v
}

// ContactQuery mirrors the contacts list filters
type ContactQuery struct {
	CustomerID int64
	Type       string
	Status     string
	Page       int
	PageSize   int
}

func (q ContactQuery) values() url.Values {
	v := url.Values{}
	if q.CustomerID != 0 {
		v.Set("customerId", strconv.FormatInt(q.CustomerID, 10))
	}
	if q.Type != "" {
		v.Set("type", q.Type)
	}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	setPaging(v, q.Page, q.PageSize)
	return v
}

// OpportunityQuery mirrors the opportunities list filters
type OpportunityQuery struct {
	CustomerID int64
	Stage      string
	Status     string
	AssignedTo string
	Page       int
	PageSize   int
}

func (q OpportunityQuery) values() url.Values {
	v := url.Values{}
	if q.CustomerID != 0 {
		v.Set("customerId", strconv.FormatInt(q.CustomerID, 10))
	}
	if q.Stage != "" {
		v.Set("stage", q.Stage)
	}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if q.AssignedTo != "" {
		v.Set("assignedTo", q.AssignedTo)
	}
	setPaging(v, q.Page, q.PageSize)
	return v
}

func setPaging(v url.Values, page, pageSize int) {
	if page < 1 {
		page = model.DefaultPage
	}
	if pageSize < 1 {
		pageSize = model.DefaultPageSize
	}
	v.Set("page", strconv.Itoa(page))
	v.Set("pageSize", strconv.Itoa(pageSize))
}

// Customers lists customers, returning the page and the total match count
func (c *Client) Customers(ctx context.Context, q CustomerQuery) ([]model.Customer, int64, error) {
	customers := make([]model.Customer, 0)
	total, err := c.getList(ctx, "/customers", q.values(), &customers)
	if err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}

// Customer fetches one customer with its contacts and opportunities
func (c *Client) Customer(ctx context.Context, id int64) (*model.Customer, error) {
	var customer model.Customer
	if err := c.getJSON(ctx, fmt.Sprintf("/customers/%d", id), nil, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// CreateCustomer posts a new customer and returns the stored entity
func (c *Client) CreateCustomer(ctx context.Context, customer *model.Customer) (*model.Customer, error) {
	var stored model.Customer
	if err := c.writeJSON(ctx, http.MethodPost, "/customers", customer, &stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

// UpdateCustomer puts updated customer fields, customer.ID selects the target
func (c *Client) UpdateCustomer(ctx context.Context, customer *model.Customer) error {
	return c.writeJSON(ctx, http.MethodPut, fmt.Sprintf("/customers/%d", customer.ID), customer, nil)
}

// DeleteCustomer removes a customer and everything it owns
func (c *Client) DeleteCustomer(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/customers/%d", id))
}

// Contacts lists contacts, returning the page and the total match count
func (c *Client) Contacts(ctx context.Context, q ContactQuery) ([]model.Contact, int64, error) {
	contacts := make([]model.Contact, 0)
	total, err := c.getList(ctx, "/contacts", q.values(), &contacts)
	if err != nil {
		return nil, 0, err
	}
	return contacts, total, nil
}

// Contact fetches one contact with its resolved customer
func (c *Client) Contact(ctx context.Context, id int64) (*model.Contact, error) {
	var contact model.Contact
	if err := c.getJSON(ctx, fmt.Sprintf("/contacts/%d", id), nil, &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

// ContactsByCustomer lists every contact of one customer
func (c *Client) ContactsByCustomer(ctx context.Context, customerID int64) ([]model.Contact, error) {
	contacts := make([]model.Contact, 0)
	if err := c.getJSON(ctx, fmt.Sprintf("/contacts/customer/%d", customerID), nil, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

// CreateContact posts a new contact and returns the stored entity
func (c *Client) CreateContact(ctx context.Context, contact *model.Contact) (*model.Contact, error) {
	var stored model.Contact
	if err := c.writeJSON(ctx, http.MethodPost, "/contacts", contact, &stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

// UpdateContact puts updated contact fields, contact.ID selects the target
func (c *Client) UpdateContact(ctx context.Context, contact *model.Contact) error {
	return c.writeJSON(ctx, http.MethodPut, fmt.Sprintf("/contacts/%d", contact.ID), contact, nil)
}

// DeleteContact removes a contact
func (c *Client) DeleteContact(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/contacts/%d", id))
}

// Opportunities lists opportunities, returning the page and the total match count
func (c *Client) Opportunities(ctx context.Context, q OpportunityQuery) ([]model.Opportunity, int64, error) {
	opportunities := make([]model.Opportunity, 0)
	total, err := c.getList(ctx, "/opportunities", q.values(), &opportunities)
	if err != nil {
		return nil, 0, err
	}
	return opportunities, total, nil
}

// Opportunity fetches one opportunity with its resolved customer
func (c *Client) Opportunity(ctx context.Context, id int64) (*model.Opportunity, error) {
	var opportunity model.Opportunity
	if err := c.getJSON(ctx, fmt.Sprintf("/opportunities/%d", id), nil, &opportunity); err != nil {
		return nil, err
	}
	return &opportunity, nil
}

// OpportunitiesByCustomer lists every opportunity of one customer
func (c *Client) OpportunitiesByCustomer(ctx context.Context, customerID int64) ([]model.Opportunity, error) {
	opportunities := make([]model.Opportunity, 0)
	if err := c.getJSON(ctx, fmt.Sprintf("/opportunities/customer/%d", customerID), nil, &opportunities); err != nil {
		return nil, err
	}
	return opportunities, nil
}

// CreateOpportunity posts a new opportunity and returns the stored entity
func (c *Client) CreateOpportunity(ctx context.Context, opportunity *model.Opportunity) (*model.Opportunity, error) {
	var stored model.Opportunity
	if err := c.writeJSON(ctx, http.MethodPost, "/opportunities", opportunity, &stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

// UpdateOpportunity puts updated opportunity fields, opportunity.ID selects the target
func (c *Client) UpdateOpportunity(ctx context.Context, opportunity *model.Opportunity) error {
	return c.writeJSON(ctx, http.MethodPut, fmt.Sprintf("/opportunities/%d", opportunity.ID), opportunity, nil)
}

// DeleteOpportunity removes an opportunity
func (c *Client) DeleteOpportunity(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/opportunities/%d", id))
}

// OpportunityStats fetches the pipeline aggregation
func (c *Client) OpportunityStats(ctx context.Context) (*model.OpportunityStats, error) {
	var stats model.OpportunityStats
	if err := c.getJSON(ctx, "/opportunities/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) getList(ctx context.Context, path string, query url.Values, out any) (int64, error) {
	resp, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return 0, err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return 0, fmt.Errorf("failed to decode response of GET %s - %w", path, err)
	}

	total, _ := strconv.ParseInt(resp.Header.Get("X-Total-Count"), 10, 64)
	return total, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response of GET %s - %w", path, err)
	}
	return nil
}

func (c *Client) writeJSON(ctx context.Context, method string, path string, in any, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode request body for %s %s - %w", method, path, err)
	}

	resp, err := c.do(ctx, method, path, nil, bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response of %s %s - %w", method, path, err)
		}
	}
	return nil
}

func (c *Client) delete(ctx context.Context, path string) error {
	resp, err := c.do(ctx, http.MethodDelete, path, nil, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return checkStatus(resp)
}

func (c *Client) do(ctx context.Context, method string, path string, query url.Values, body io.Reader) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s %s failed - %w", method, path, err)
	}
	return resp, nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
}
