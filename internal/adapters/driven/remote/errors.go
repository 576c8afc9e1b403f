// Package remote maps HTTP and transport failures of remote backends onto
// the domain's retry classification errors.
package remote

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/custodia-labs/scout/internal/core/domain"
	"github.com/custodia-labs/scout/internal/retry"
)

// maxBodyInError bounds the response body echoed into error messages.
const maxBodyInError = 300

// StatusError builds the error for a non-success HTTP response from provider.
// Rate limits wrap domain.ErrRateLimited, timeouts domain.ErrBackendTimeout,
// other server failures domain.ErrTransient and auth failures
// domain.ErrAuthRequired. Everything else is permanent.
func StatusError(provider string, status int, body []byte) error {
	msg := strings.TrimSpace(string(body))
	if len(msg) > maxBodyInError {
		msg = msg[:maxBodyInError] + "..."
	}

	var sentinel error
	switch status {
	case http.StatusTooManyRequests:
		sentinel = domain.ErrRateLimited
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		sentinel = domain.ErrBackendTimeout
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		sentinel = domain.ErrTransient
	case http.StatusUnauthorized, http.StatusForbidden:
		sentinel = domain.ErrAuthRequired
	default:
		return fmt.Errorf("%s: API returned status %d: %s", provider, status, msg)
	}

	return fmt.Errorf("%s: API returned status %d: %s: %w", provider, status, msg, sentinel)
}

// TransportError wraps a failed request so callers can tell timeouts and
// network faults apart from permanent failures.
func TransportError(provider string, err error) error {
	switch {
	case retry.IsTimeout(err):
		return fmt.Errorf("%s: request timed out: %v: %w", provider, err, domain.ErrBackendTimeout)
	case retry.IsTransient(err):
		return fmt.Errorf("%s: send request: %v: %w", provider, err, domain.ErrTransient)
	default:
		return fmt.Errorf("%s: send request: %w", provider, err)
	}
}
