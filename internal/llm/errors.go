package llm

import (
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Cause categorizes a provider failure that callers should see directly.
type Cause string

const (
	// CauseQuota means the provider rejected the call for quota or rate limits.
	CauseQuota Cause = "quota"
	// CauseAuth means the API key was missing, invalid or not permitted.
	CauseAuth Cause = "auth"
	// CauseNetwork means the provider could not be reached.
	CauseNetwork Cause = "network"
)

// ProviderError is a classified failure from the model provider.
type ProviderError struct {
	Cause Cause
	Err   error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("AI provider error (%s): %v", e.Cause, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ParseError means the model reply held no recoverable JSON object.
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// api key reasons reported in google.rpc.ErrorInfo
var authReasons = map[string]bool{
	"API_KEY_INVALID":               true,
	"API_KEY_SERVICE_BLOCKED":       true,
	"API_KEY_HTTP_REFERRER_BLOCKED": true,
}

// classify turns a provider SDK error into a *ProviderError, or returns nil when
// the failure does not fall in a caller-visible category.
func classify(err error) *ProviderError {
	if err == nil {
		return nil
	}

	var perr *ProviderError
	if errors.As(err, &perr) {
		return perr
	}

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		if authReasons[apiErr.Reason()] {
			return &ProviderError{Cause: CauseAuth, Err: err}
		}
		if cause, ok := causeFromHTTP(apiErr.HTTPCode()); ok {
			return &ProviderError{Cause: cause, Err: err}
		}
		if st := apiErr.GRPCStatus(); st != nil {
			if cause, ok := causeFromGRPC(st.Code()); ok {
				return &ProviderError{Cause: cause, Err: err}
			}
		}
	}

	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		if cause, ok := causeFromHTTP(gErr.Code); ok {
			return &ProviderError{Cause: cause, Err: err}
		}
	}

	if st, ok := status.FromError(err); ok {
		if cause, ok := causeFromGRPC(st.Code()); ok {
			return &ProviderError{Cause: cause, Err: err}
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && !netErr.Timeout() {
		return &ProviderError{Cause: CauseNetwork, Err: err}
	}

	return nil
}

func causeFromHTTP(code int) (Cause, bool) {
	switch code {
	case http.StatusTooManyRequests:
		return CauseQuota, true
	case http.StatusUnauthorized, http.StatusForbidden:
		return CauseAuth, true
	default:
		return "", false
	}
}

func causeFromGRPC(code codes.Code) (Cause, bool) {
	switch code {
	case codes.ResourceExhausted:
		return CauseQuota, true
	case codes.Unauthenticated, codes.PermissionDenied:
		return CauseAuth, true
	case codes.Unavailable:
		return CauseNetwork, true
	default:
		return "", false
	}
}
