package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/company-enricher/internal/enrich"
	"github.com/jonathan/company-enricher/internal/fetch"
	"github.com/jonathan/company-enricher/internal/llm"
)

// Client-facing error messages.
const (
	msgWebsiteRequired = "Website URL is required"
	msgInvalidBody     = "Invalid request body"
	msgQuota           = "API quota exceeded. Please try again later."
	msgFetchFailed     = "Failed to fetch website content. The website may be unreachable."
	msgParseFailed     = "Failed to parse website content."
	msgAIAuth          = "API authentication failed."
)

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	status, _ := describe(err)
	return status
}

// ErrorMessage returns the message sent to clients for err.
func ErrorMessage(err error) string {
	_, msg := describe(err)
	return msg
}

func describe(err error) (int, string) {
	var vErr *enrich.ValidationError
	if errors.As(err, &vErr) {
		return http.StatusBadRequest, vErr.Message
	}

	var fErr *fetch.Error
	if errors.As(err, &fErr) {
		switch fErr.Kind {
		case fetch.KindRateLimited:
			return http.StatusTooManyRequests, msgQuota
		case fetch.KindParse:
			return http.StatusUnprocessableEntity, msgParseFailed
		default:
			return http.StatusBadGateway, msgFetchFailed
		}
	}

	var pErr *llm.ProviderError
	if errors.As(err, &pErr) {
		switch pErr.Cause {
		case llm.CauseQuota:
			return http.StatusTooManyRequests, msgQuota
		case llm.CauseNetwork:
			return http.StatusBadGateway, msgFetchFailed
		case llm.CauseAuth:
			return http.StatusInternalServerError, msgAIAuth
		}
	}

	return http.StatusInternalServerError, err.Error()
}
