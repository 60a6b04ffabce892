package controlplane

import (
	"errors"
	"fmt"
	"net/http"

	v1 "github.com/imamik/statehub/api/v1"
)

// ErrUnauthorized is returned by ValidateAuth when the token is rejected.
var ErrUnauthorized = errors.New("Unauthorized - perhaps an invalid token?") //nolint:staticcheck // user facing message

// Error is a non-2xx response from the management API.
type Error struct {
	Method     string
	Path       string
	StatusCode int
	Status     string
	Detail     v1.ErrorDetail
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Status)
}

// Code returns the server error code, if any.
func (e *Error) Code() v1.ErrorCode {
	return e.Detail.ErrorCode
}

func asError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsUnauthorized reports whether err is a 401/403 or an invalid token error.
func IsUnauthorized(err error) bool {
	if errors.Is(err, ErrUnauthorized) {
		return true
	}
	apiErr, ok := asError(err)
	if !ok {
		return false
	}
	return apiErr.StatusCode == http.StatusUnauthorized ||
		apiErr.StatusCode == http.StatusForbidden ||
		apiErr.Code() == v1.ErrInvalidToken
}

// IsNotFound reports whether err means the resource does not exist.
func IsNotFound(err error) bool {
	apiErr, ok := asError(err)
	if !ok {
		return false
	}
	return apiErr.StatusCode == http.StatusNotFound || apiErr.Code().IsNotFound()
}

// IsConflict reports whether err means the resource already exists.
func IsConflict(err error) bool {
	apiErr, ok := asError(err)
	if !ok {
		return false
	}
	return apiErr.Code().IsConflict()
}

// IsClusterIsStateOwner reports whether a cluster could not be removed
// because it still owns a state.
func IsClusterIsStateOwner(err error) bool {
	apiErr, ok := asError(err)
	return ok && apiErr.Code() == v1.ErrClusterIsStateOwner
}

func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}
