package apisdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError is any non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
	Links      Links
}

func (e *APIError) Error() string {
	return fmt.Sprintf("soapbox: %d %s", e.StatusCode, e.Message)
}

// StatusCode returns the HTTP status behind err, or 0 when err is not an
// *APIError.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

func IsUnauthorized(err error) bool { return StatusCode(err) == http.StatusUnauthorized }
func IsForbidden(err error) bool    { return StatusCode(err) == http.StatusForbidden }
func IsNotFound(err error) bool     { return StatusCode(err) == http.StatusNotFound }

func parseErrorResponse(resp *http.Response, body []byte) error {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    http.StatusText(resp.StatusCode),
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		apiErr.Message = errResp.Error
		apiErr.Links = errResp.Links
	}
	return apiErr
}
