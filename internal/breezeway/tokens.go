package breezeway

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenHolder owns the session token pair. All workflow invocations share one
// client, so access is guarded; tokens never leave the package and are never
// persisted.
type tokenHolder struct {
	mu      sync.RWMutex
	access  string
	refresh string
}

func (h *tokenHolder) set(access, refresh string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.access = access
	h.refresh = refresh
}

// accessToken returns the current access token and whether one is held.
func (h *tokenHolder) accessToken() (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.access, h.access != ""
}

// expired reports whether the held access token is past its exp claim. The
// token is parsed unverified since we only need the claim, not trust in it; a
// token we cannot parse is treated as expired.
func (h *tokenHolder) expired() bool {
	token, ok := h.accessToken()
	if !ok {
		return true
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		// No exp claim: assume the service enforces expiry server-side.
		return false
	}
	return time.Now().After(exp.Time)
}
