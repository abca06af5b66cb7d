package breezeway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
)

// Company is a tenant scope under which properties and people are queried.
type Company struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Property is a home/unit known to Breezeway. Read-only snapshot per fetch.
type Property struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Person is a staff member. The client only ever fetches active people; the
// filter is an upstream query parameter, not applied client-side.
type Person struct {
	ID        int    `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Active    bool   `json:"active"`
}

func (c *Client) companies(ctx context.Context) ([]Company, error) {
	log.Info().Msg("Getting Breezeway companies")

	body, err := c.do(ctx, http.MethodGet, "/public/inventory/v1/companies", nil, http.StatusOK)
	if err != nil {
		return nil, err
	}

	var companies []Company
	if err := json.Unmarshal(body, &companies); err != nil {
		return nil, fmt.Errorf("failed to decode companies response: %w", err)
	}
	return companies, nil
}

// Properties lists the properties for the resolved company.
func (c *Client) Properties(ctx context.Context) ([]Property, error) {
	log.Info().Msg("Getting Breezeway properties")

	path := fmt.Sprintf("/public/inventory/v1/property/external-id?reference_company_id=%d", c.companyID)
	body, err := c.do(ctx, http.MethodGet, path, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}

	var properties []Property
	if err := json.Unmarshal(body, &properties); err != nil {
		return nil, fmt.Errorf("failed to decode properties response: %w", err)
	}
	return properties, nil
}

// People lists active people for the resolved company.
func (c *Client) People(ctx context.Context) ([]Person, error) {
	log.Info().Msg("Getting Breezeway people")

	body, err := c.do(ctx, http.MethodGet, "/public/inventory/v1/people?status=active", nil, http.StatusOK)
	if err != nil {
		return nil, err
	}

	var people []Person
	if err := json.Unmarshal(body, &people); err != nil {
		return nil, fmt.Errorf("failed to decode people response: %w", err)
	}
	return people, nil
}
