package breezeway

import "fmt"

// ConfigurationError indicates the client cannot determine its company scope,
// typically because the credentials have no companies attached.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("breezeway configuration error: %s", e.Reason)
}

// AuthenticationError indicates the service rejected our credentials, or that
// a data call was attempted without a valid session. Callers that hit this on
// a data call may re-authenticate and retry the call at most once.
type AuthenticationError struct {
	Reason string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("breezeway authentication error: %s", e.Reason)
}

// APIError is returned for any non-success HTTP status on a data call. It
// carries the status code and raw response body for logging.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("breezeway API request failed with status %d: %s", e.StatusCode, e.Body)
}
