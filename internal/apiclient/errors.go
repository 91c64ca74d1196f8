package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var ErrInvalidID = errors.New("id must be a positive integer")

// APIError is a backend response with an error status.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, http.StatusText(e.Status))
}

type errorBody struct {
	Error   json.RawMessage `json:"error"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
}

func parseAPIError(status int, data []byte) *APIError {
	apiErr := &APIError{Status: status}

	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		text := strings.TrimSpace(string(data))
		if len(text) > 200 {
			text = text[:200]
		}
		apiErr.Message = text
		return apiErr
	}

	var errText string
	if len(body.Error) > 0 {
		if err := json.Unmarshal(body.Error, &errText); err != nil {
			// some routes nest {error: {message, code}}
			var nested errorBody
			if json.Unmarshal(body.Error, &nested) == nil {
				errText = nested.Message
				if body.Code == "" {
					body.Code = nested.Code
				}
			}
		}
	}

	apiErr.Code = body.Code
	if apiErr.Code == "" && errText != "" && !strings.ContainsAny(errText, " .") {
		apiErr.Code = errText
	}

	switch {
	case body.Message != "":
		apiErr.Message = body.Message
	case errText != "":
		apiErr.Message = errText
	}
	return apiErr
}

// HasCode reports whether err is an APIError with the given code.
func HasCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// Message returns the server-provided message of err, or fallback.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
