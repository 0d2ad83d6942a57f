package commerce7

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clubsignup/internal/config"
	"clubsignup/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(config.Commerce7Config{
		BaseURL:   server.URL,
		AppID:     "app-id",
		SecretKey: "secret",
		TenantID:  "tenant-1",
		Timeout:   5 * time.Second,
	}, nil)
}

func TestClient_SendsCredentialOnEveryCall(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "app-id" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.Header.Get("Tenant") != "tenant-1" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		assert.Equal(t, "/customer", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"customers":[],"total":0}`)
	})

	check, err := client.CheckAuth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, check.Status)
	assert.JSONEq(t, `{"customers":[],"total":0}`, string(check.Data))
}

func TestClient_FindCustomers(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "jane@example.com", r.URL.Query().Get("q"))
		_, _ = io.WriteString(w, `{"customers":[{"id":"c-1","firstName":"Jane","lastName":"Doe","emails":[{"email":"jane@example.com"}],"phones":[{"phone":"+15555550100"}]}],"total":1}`)
	})

	customers, err := client.FindCustomers(context.Background(), "jane@example.com")
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, domain.Customer{
		ID: "c-1", FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", Phone: "+15555550100",
	}, customers[0])
}

func TestClient_CreateCustomerPayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/customer", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Jane", body["firstName"])
		assert.Equal(t, []any{map[string]any{"email": "jane@example.com"}}, body["emails"])
		assert.NotContains(t, body, "phones")
		assert.NotContains(t, body, "birthDate")
		_, _ = io.WriteString(w, `{"id":"c-new","firstName":"Jane","lastName":"Doe","emails":[{"email":"jane@example.com"}]}`)
	})

	cust, err := client.CreateCustomer(context.Background(), domain.CustomerInfo{
		FirstName: "Jane", LastName: "Doe", Email: "jane@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "c-new", cust.ID)
	assert.Equal(t, "jane@example.com", cust.Email)
}

func TestClient_UpdateCustomer(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/customer/c-1", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "1990-01-01", body["birthDate"])
		assert.NotContains(t, body, "emails")
		_, _ = io.WriteString(w, `{"id":"c-1","firstName":"Janet","birthDate":"1990-01-01"}`)
	})

	cust, err := client.UpdateCustomer(context.Background(), "c-1", domain.CustomerInfo{
		FirstName: "Janet", LastName: "Doe", BirthDate: "1990-01-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "Janet", cust.FirstName)
}

func TestClient_CreateAddress(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/customer/c-1/address", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NotContains(t, body, "id")
		assert.NotContains(t, body, "customerId")
		assert.Equal(t, "1 Main St", body["address"])
		assert.Equal(t, true, body["isDefault"])
		_, _ = io.WriteString(w, `{"id":"a-1","address":"1 Main St","city":"Poughkeepsie","stateCode":"NY","zipCode":"12601","countryCode":"US","isDefault":true}`)
	})

	addr, err := client.CreateAddress(context.Background(), "c-1", domain.Address{
		ID: "stale", Address: "1 Main St", City: "Poughkeepsie", StateCode: "NY", ZipCode: "12601", CountryCode: "US", IsDefault: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "a-1", addr.ID)
	assert.Equal(t, "c-1", addr.CustomerID)
}

func TestClient_CreateClubMembershipPayload(t *testing.T) {
	signup := time.Date(2026, 3, 1, 17, 4, 5, 0, time.FixedZone("EST", -5*3600))
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/club-membership", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "2026-03-01T22:04:05.000Z", body["signupDate"])
		assert.Equal(t, map[string]any{"club-calculator-sign-up": "true"}, body["metaData"])
		assert.Equal(t, "loc-1", body["pickupInventoryLocationId"])
		assert.NotContains(t, body, "shipToCustomerAddressId")
		_, _ = io.WriteString(w, `{"id":"m-1","customerId":"c-1","clubId":"triple-crown","billToCustomerAddressId":"a-1","pickupInventoryLocationId":"loc-1","orderDeliveryMethod":"Pickup","signupDate":"2026-03-01T22:04:05.000Z","metaData":{"club-calculator-sign-up":"true"}}`)
	})

	m, err := client.CreateClubMembership(context.Background(), domain.ClubMembership{
		CustomerID:          "c-1",
		ClubID:              "triple-crown",
		BillToAddressID:     "a-1",
		PickupLocationID:    "loc-1",
		OrderDeliveryMethod: domain.DeliveryPickup,
		SignupDate:          signup,
		MetaData:            domain.AttributionTag(),
	})
	require.NoError(t, err)
	assert.Equal(t, "m-1", m.ID)
	assert.True(t, m.SignupDate.Equal(signup))
	assert.Equal(t, "true", m.MetaData[domain.AttributionKey])
}

func TestClient_ValidationErrorBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, `{"statusCode":422,"type":"validationError","message":"Validation failed","errors":[{"field":"clubId","message":"is invalid"}]}`)
	})

	_, err := client.CreateClubMembership(context.Background(), domain.ClubMembership{CustomerID: "c-1"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "validationError", apiErr.Type)
	assert.Equal(t, "Validation failed (clubId: is invalid)", apiErr.PublicMessage())

	classified := domain.UpstreamFailure("failed to create club membership", err)
	assert.Equal(t, domain.KindUpstream, classified.Kind)
	assert.Equal(t, "failed to create club membership: Validation failed (clubId: is invalid)", classified.Message)
}

func TestClient_MalformedResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id":`)
	})

	_, err := client.GetCustomer(context.Background(), "c-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMalformedResponse))
	assert.Equal(t, domain.KindUnexpected, domain.UpstreamFailure("fetch customer", err).Kind)
}

func TestClient_TimeoutIsUpstreamError(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := client.FindCustomers(ctx, "jane@example.com")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, domain.KindUpstream, domain.UpstreamFailure("look up customer", err).Kind)
}

func TestClient_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"statusCode":404,"type":"notFound","message":"Club Membership not found"}`)
	})

	_, err := client.GetClubMembership(context.Background(), "m-missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, domain.KindUpstream, domain.KindOf(domain.UpstreamFailure("fetch membership", err)))
}
