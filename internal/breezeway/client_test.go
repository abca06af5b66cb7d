package breezeway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authOKHandler(t *testing.T, w http.ResponseWriter, r *http.Request) {
	t.Helper()
	body, _ := io.ReadAll(r.Body)
	var creds map[string]string
	require.NoError(t, json.Unmarshal(body, &creds))
	require.Equal(t, "id", creds["client_id"])
	require.Equal(t, "secret", creds["client_secret"])

	w.Header().Set("Content-Type", "application/json")
	io.WriteString(w, `{"access_token":"tok","refresh_token":"refresh"}`)
}

func TestAuthenticateResolvesCompany(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method + " " + r.URL.Path {
		case "POST /public/auth/v1/":
			authOKHandler(t, w, r)
		case "GET /public/inventory/v1/companies":
			require.Equal(t, "JWT tok", r.Header.Get("Authorization"))
			io.WriteString(w, `[{"id":9,"name":"PRVR"},{"id":10,"name":"Other"}]`)
		default:
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer server.Close()

	c := New(Config{ClientID: "id", ClientSecret: "secret", BaseURL: server.URL})
	require.NoError(t, c.Authenticate(context.Background()))

	assert.Equal(t, 9, c.CompanyID())
}

func TestAuthenticateKeepsConfiguredCompany(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method + " " + r.URL.Path {
		case "POST /public/auth/v1/":
			authOKHandler(t, w, r)
		default:
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer server.Close()

	c := New(Config{ClientID: "id", ClientSecret: "secret", BaseURL: server.URL, CompanyID: 42})
	require.NoError(t, c.Authenticate(context.Background()))

	assert.Equal(t, 42, c.CompanyID())
}

func TestAuthenticateNoCompaniesIsConfigurationError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method + " " + r.URL.Path {
		case "POST /public/auth/v1/":
			authOKHandler(t, w, r)
		case "GET /public/inventory/v1/companies":
			io.WriteString(w, `[]`)
		default:
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer server.Close()

	c := New(Config{ClientID: "id", ClientSecret: "secret", BaseURL: server.URL})
	err := c.Authenticate(context.Background())

	var confErr *ConfigurationError
	require.ErrorAs(t, err, &confErr)
}

func TestAuthenticateRejectedGatesDataCalls(t *testing.T) {
	var dataCalls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/public/auth/v1/" {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"error":"bad credentials"}`)
			return
		}
		dataCalls++
	}))
	defer server.Close()

	c := New(Config{ClientID: "id", ClientSecret: "wrong", BaseURL: server.URL, CompanyID: 1})

	var authErr *AuthenticationError
	require.ErrorAs(t, c.Authenticate(context.Background()), &authErr)

	// Without a session, no data call may reach the network.
	_, err := c.Properties(context.Background())
	require.ErrorAs(t, err, &authErr)
	_, err = c.People(context.Background())
	require.ErrorAs(t, err, &authErr)
	_, err = c.CreateTask(context.Background(), TaskDraft{PropertyID: 1, Department: DepartmentMaintenance})
	require.ErrorAs(t, err, &authErr)

	assert.Zero(t, dataCalls)
}

func TestPropertiesScopedToCompany(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method + " " + r.URL.Path {
		case "POST /public/auth/v1/":
			authOKHandler(t, w, r)
		case "GET /public/inventory/v1/property/external-id":
			require.Equal(t, "7", r.URL.Query().Get("reference_company_id"))
			require.Equal(t, "JWT tok", r.Header.Get("Authorization"))
			io.WriteString(w, `[{"id":1,"name":"Pool House"},{"id":2,"name":"Main House"}]`)
		default:
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer server.Close()

	c := New(Config{ClientID: "id", ClientSecret: "secret", BaseURL: server.URL, CompanyID: 7})
	require.NoError(t, c.Authenticate(context.Background()))

	properties, err := c.Properties(context.Background())
	require.NoError(t, err)
	require.Len(t, properties, 2)
	assert.Equal(t, Property{ID: 1, Name: "Pool House"}, properties[0])
}

func TestPeopleRequestsActiveFilterUpstream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method + " " + r.URL.Path {
		case "POST /public/auth/v1/":
			authOKHandler(t, w, r)
		case "GET /public/inventory/v1/people":
			require.Equal(t, "active", r.URL.Query().Get("status"))
			io.WriteString(w, `[{"id":5,"first_name":"Ana","last_name":"Gomez","active":true}]`)
		default:
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer server.Close()

	c := New(Config{ClientID: "id", ClientSecret: "secret", BaseURL: server.URL, CompanyID: 7})
	require.NoError(t, c.Authenticate(context.Background()))

	people, err := c.People(context.Background())
	require.NoError(t, err)
	require.Len(t, people, 1)
	assert.Equal(t, Person{ID: 5, FirstName: "Ana", LastName: "Gomez", Active: true}, people[0])
}

func TestDataCallErrorCarriesStatusAndBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/public/auth/v1/" {
			authOKHandler(t, w, r)
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		io.WriteString(w, `{"error":"maintenance window"}`)
	}))
	defer server.Close()

	c := New(Config{ClientID: "id", ClientSecret: "secret", BaseURL: server.URL, CompanyID: 7})
	require.NoError(t, c.Authenticate(context.Background()))

	_, err := c.Properties(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "maintenance window")
}

func TestExpiredSessionIsAuthenticationError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/public/auth/v1/" {
			authOKHandler(t, w, r)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	c := New(Config{ClientID: "id", ClientSecret: "secret", BaseURL: server.URL, CompanyID: 7})
	require.NoError(t, c.Authenticate(context.Background()))

	_, err := c.People(context.Background())
	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
}

func TestFailedReauthenticationKeepsPriorSession(t *testing.T) {
	rejectAuth := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method + " " + r.URL.Path {
		case "POST /public/auth/v1/":
			if rejectAuth {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			authOKHandler(t, w, r)
		case "GET /public/inventory/v1/people":
			require.Equal(t, "JWT tok", r.Header.Get("Authorization"))
			io.WriteString(w, `[]`)
		default:
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer server.Close()

	c := New(Config{ClientID: "id", ClientSecret: "secret", BaseURL: server.URL, CompanyID: 7})
	require.NoError(t, c.Authenticate(context.Background()))

	rejectAuth = true
	var authErr *AuthenticationError
	require.ErrorAs(t, c.Authenticate(context.Background()), &authErr)

	// The prior token pair stays in place, so data calls still go through.
	_, err := c.People(context.Background())
	require.NoError(t, err)
}

func TestTaskURL(t *testing.T) {
	c := New(Config{AppURL: "https://app.breezeway.io/"})
	assert.Equal(t, "https://app.breezeway.io/task/123", c.TaskURL(123))
}
