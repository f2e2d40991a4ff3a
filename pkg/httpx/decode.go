package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 1 << 20

// DecodeJSON reads a JSON object from the request body into dst. An empty
// body leaves dst untouched so field validation reports what is missing.
// Unknown fields are rejected.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return NewError(http.StatusRequestEntityTooLarge, "Request body too large")
		}
		if field, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
			return BadRequest(field + " is not allowed")
		}
		return &Error{Status: http.StatusBadRequest, Message: "Invalid request body", Err: fmt.Errorf("decode: %w", err)}
	}
	if dec.More() {
		return BadRequest("Invalid request body")
	}
	return nil
}
