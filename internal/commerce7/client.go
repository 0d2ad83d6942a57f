package commerce7

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"clubsignup/internal/config"
	"clubsignup/internal/domain"
	"go.uber.org/zap"
)

// HTTPDoer executes HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the Commerce7 REST API. Requests are never retried:
// Commerce7 create endpoints have no idempotency key.
type Client struct {
	baseURL    string
	authHeader string
	tenant     string
	httpClient HTTPDoer
	logger     *zap.Logger
}

// NewClient creates a Commerce7 client with a bounded per-request timeout.
func NewClient(cfg config.Commerce7Config, logger *zap.Logger) *Client {
	return NewClientWithDoer(cfg, &http.Client{Timeout: cfg.Timeout}, logger)
}

// NewClientWithDoer creates a client using the given transport.
func NewClientWithDoer(cfg config.Commerce7Config, doer HTTPDoer, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	token := base64.StdEncoding.EncodeToString([]byte(cfg.AppID + ":" + cfg.SecretKey))
	return &Client{
		baseURL:    cfg.BaseURL,
		authHeader: "Basic " + token,
		tenant:     cfg.TenantID,
		httpClient: doer,
		logger:     logger,
	}
}

// FindCustomers runs the Commerce7 customer search with q as the query.
func (c *Client) FindCustomers(ctx context.Context, q string) ([]domain.Customer, error) {
	var list customerList
	if err := c.do(ctx, http.MethodGet, "/customer", url.Values{"q": {q}}, nil, &list); err != nil {
		return nil, err
	}
	out := make([]domain.Customer, 0, len(list.Customers))
	for _, r := range list.Customers {
		out = append(out, r.toDomain())
	}
	return out, nil
}

// GetCustomer fetches a customer by id.
func (c *Client) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	var rec customerRecord
	if err := c.do(ctx, http.MethodGet, "/customer/"+url.PathEscape(id), nil, nil, &rec); err != nil {
		return nil, err
	}
	cust := rec.toDomain()
	return &cust, nil
}

// CreateCustomer creates a customer with a single email and optional phone.
func (c *Client) CreateCustomer(ctx context.Context, in domain.CustomerInfo) (*domain.Customer, error) {
	payload := customerPayload{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		BirthDate: in.BirthDate,
		Emails:    []emailEntry{{Email: in.Email}},
	}
	if in.Phone != "" {
		payload.Phones = []phoneEntry{{Phone: in.Phone}}
	}
	var rec customerRecord
	if err := c.do(ctx, http.MethodPost, "/customer", nil, payload, &rec); err != nil {
		return nil, err
	}
	cust := rec.toDomain()
	return &cust, nil
}

// UpdateCustomer overwrites the mutable name and birth date fields.
func (c *Client) UpdateCustomer(ctx context.Context, id string, in domain.CustomerInfo) (*domain.Customer, error) {
	payload := customerPayload{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		BirthDate: in.BirthDate,
	}
	var rec customerRecord
	if err := c.do(ctx, http.MethodPut, "/customer/"+url.PathEscape(id), nil, payload, &rec); err != nil {
		return nil, err
	}
	cust := rec.toDomain()
	return &cust, nil
}

// CreateAddress adds an address under a customer.
func (c *Client) CreateAddress(ctx context.Context, customerID string, addr domain.Address) (*domain.Address, error) {
	addr.ID = ""
	addr.CustomerID = ""
	var out domain.Address
	path := "/customer/" + url.PathEscape(customerID) + "/address"
	if err := c.do(ctx, http.MethodPost, path, nil, addr, &out); err != nil {
		return nil, err
	}
	if out.CustomerID == "" {
		out.CustomerID = customerID
	}
	return &out, nil
}

// CreateClubMembership creates a club membership.
func (c *Client) CreateClubMembership(ctx context.Context, m domain.ClubMembership) (*domain.ClubMembership, error) {
	var rec membershipRecord
	if err := c.do(ctx, http.MethodPost, "/club-membership", nil, newMembershipPayload(m), &rec); err != nil {
		return nil, err
	}
	out := rec.toDomain()
	return &out, nil
}

// GetClubMembership fetches a club membership by id.
func (c *Client) GetClubMembership(ctx context.Context, id string) (*domain.ClubMembership, error) {
	var rec membershipRecord
	if err := c.do(ctx, http.MethodGet, "/club-membership/"+url.PathEscape(id), nil, nil, &rec); err != nil {
		return nil, err
	}
	out := rec.toDomain()
	return &out, nil
}

// AuthCheck is the outcome of a credential probe.
type AuthCheck struct {
	Status int
	Data   json.RawMessage
}

// CheckAuth issues one read-only customer query to confirm the credential.
func (c *Client) CheckAuth(ctx context.Context) (*AuthCheck, error) {
	var data json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/customer", url.Values{"limit": {"1"}}, nil, &data); err != nil {
		return nil, err
	}
	return &AuthCheck{Status: http.StatusOK, Data: data}, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling %s %s body: %w", method, path, err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Tenant", c.tenant)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("commerce7 request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return fmt.Errorf("commerce7 %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("commerce7 %s %s: reading response: %w", method, path, err)
	}

	c.logger.Debug("commerce7 request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
		var eb errorBody
		if json.Unmarshal(respBody, &eb) == nil {
			apiErr.Type = eb.Type
			apiErr.Message = eb.Message
			apiErr.Errors = eb.Errors
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("commerce7 %s %s: %w: %w", method, path, domain.ErrMalformedResponse, err)
	}
	return nil
}
