package breezeway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Config holds the credentials and endpoint for the Breezeway API. CompanyID
// may be left zero, in which case the client resolves it from the first
// company attached to the credentials after the first successful
// authentication.
type Config struct {
	ClientID     string
	ClientSecret string
	BaseURL      string // e.g. "https://api.breezeway.io"
	CompanyID    int
	AppURL       string // e.g. "https://app.breezeway.io", used for task links
}

// Client is the sole owner of network communication with Breezeway. It owns
// the authentication lifecycle: Authenticate must succeed before any data
// call will proceed.
type Client struct {
	cfg       Config
	companyID int
	tokens    tokenHolder
	limiter   *rate.Limiter
	client    *http.Client
}

// New creates a Breezeway client. It does not dial; call Authenticate before
// issuing data calls.
func New(cfg Config) *Client {
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	if cfg.AppURL == "" {
		cfg.AppURL = "https://app.breezeway.io"
	}

	return &Client{
		cfg:       cfg,
		companyID: cfg.CompanyID,
		limiter:   rate.NewLimiter(rate.Limit(5), 10),
		client:    &http.Client{},
	}
}

// CompanyID returns the resolved company scope. Zero until Authenticate has
// succeeded at least once (unless one was configured).
func (c *Client) CompanyID() int {
	return c.companyID
}

// TaskURL builds the app link for a created task.
func (c *Client) TaskURL(taskID int) string {
	return fmt.Sprintf("%s/task/%d", strings.TrimSuffix(c.cfg.AppURL, "/"), taskID)
}

// TokenExpired reports whether the held access token looks past its expiry.
// Callers use this to decide to re-authenticate before a data call; the
// client itself never retries.
func (c *Client) TokenExpired() bool {
	return c.tokens.expired()
}

type authResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Authenticate posts the client credentials to the auth endpoint and stores
// the returned token pair. On rejection it returns an AuthenticationError and
// leaves any previously held tokens unchanged. On the first success, if no
// company was configured, the company scope is resolved from the companies
// list; an empty list is a ConfigurationError.
func (c *Client) Authenticate(ctx context.Context) error {
	log.Info().Msg("Authenticating with Breezeway")

	payload, err := json.Marshal(map[string]string{
		"client_id":     c.cfg.ClientID,
		"client_secret": c.cfg.ClientSecret,
	})
	if err != nil {
		return fmt.Errorf("failed to encode auth payload: %w", err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/public/auth/v1/", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute auth request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Error().Int("status", resp.StatusCode).Str("body", string(body)).Msg("Breezeway authentication failed")
		return &AuthenticationError{Reason: fmt.Sprintf("credentials rejected with status %d", resp.StatusCode)}
	}

	var auth authResponse
	if err := json.Unmarshal(body, &auth); err != nil {
		return fmt.Errorf("failed to decode auth response: %w", err)
	}
	c.tokens.set(auth.AccessToken, auth.RefreshToken)
	log.Debug().Msg("Breezeway authentication successful")

	if c.companyID == 0 {
		companies, err := c.companies(ctx)
		if err != nil {
			return fmt.Errorf("failed to resolve company: %w", err)
		}
		if len(companies) == 0 {
			return &ConfigurationError{Reason: "credentials have no companies attached"}
		}
		c.companyID = companies[0].ID
		log.Info().Int("company_id", c.companyID).Msg("Resolved Breezeway company")
	}

	return nil
}

// do issues an authenticated request with a JSON body (nil for GETs) and
// returns the response body when the status matches wantStatus. Each call is
// an isolated request/response cycle with the current bearer token attached.
func (c *Client) do(ctx context.Context, method, path string, reqBody any, wantStatus int) ([]byte, error) {
	token, ok := c.tokens.accessToken()
	if !ok {
		return nil, &AuthenticationError{Reason: "no session; authenticate first"}
	}

	var body io.Reader
	if reqBody != nil {
		encoded, err := json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request payload: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "JWT "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusUnauthorized {
		return nil, &AuthenticationError{Reason: "session rejected with status 401"}
	}
	if resp.StatusCode != wantStatus {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	return respBody, nil
}
