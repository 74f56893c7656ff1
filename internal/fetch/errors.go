package fetch

import "fmt"

// ErrorKind classifies why a fetch failed.
type ErrorKind string

const (
	KindInvalidURL  ErrorKind = "invalid_url"
	KindTimeout     ErrorKind = "timeout"
	KindDNS         ErrorKind = "dns"
	KindUnreachable ErrorKind = "unreachable"
	KindStatus      ErrorKind = "status"
	KindRateLimited ErrorKind = "rate_limited"
	KindRead        ErrorKind = "read"
	KindParse       ErrorKind = "parse"
)

// Error represents an error during URL fetching.
type Error struct {
	URL        string
	Kind       ErrorKind
	StatusCode int // set for KindStatus and KindRateLimited
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
