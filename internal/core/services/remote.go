package services

import (
	"errors"

	"github.com/custodia-labs/scout/internal/core/domain"
	"github.com/custodia-labs/scout/internal/retry"
)

// isRateLimitOrTimeout reports a failure an embedding batch may retry.
func isRateLimitOrTimeout(err error) bool {
	return errors.Is(err, domain.ErrRateLimited) ||
		errors.Is(err, domain.ErrBackendTimeout) ||
		retry.IsTimeout(err)
}

// isRetryableRemote reports a failure a search request may retry.
func isRetryableRemote(err error) bool {
	return isRateLimitOrTimeout(err) || errors.Is(err, domain.ErrTransient)
}
