package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

// ErrNotFound matches (via errors.Is) any ClientError caused by a 404 response.
var ErrNotFound = errors.New("resource not found")

// ClientError represents an error encountered when communicating with the Orion API
// StatusCode 0 = network/connection error, >0 = HTTP response received
type ClientError struct {
	StatusCode  int    `json:"status_code"`
	UserMessage string `json:"user_message"`
	LogMessage  string `json:"log_message"`
}

func (e *ClientError) Error() string {
	return e.LogMessage
}

// UserError returns the user-friendly message
func (e *ClientError) UserError() string {
	return e.UserMessage
}

func (e *ClientError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// NewClientConnectionError creates a ClientError for network/connection issues
func NewClientConnectionError(err error) *ClientError {
	return &ClientError{
		StatusCode:  0,
		UserMessage: "Unable to connect to the Orion server. Check that it is running and try again.",
		LogMessage:  fmt.Sprintf("network error: %v", err),
	}
}

// NewClientInternalError creates a ClientError for internal errors, supply the error and an explanation of what was being done when the error occurred
func NewClientInternalError(err error, while string) *ClientError {
	return &ClientError{
		StatusCode:  0,
		UserMessage: "An error occurred. Please try again later.",
		LogMessage:  fmt.Sprintf("internal error: %v while %v", err, while),
	}
}

// NewClientValidationError creates a ClientError for request input rejected before it is sent.
// The reason is shown to the user.
func NewClientValidationError(err error) *ClientError {
	return &ClientError{
		StatusCode:  0,
		UserMessage: fmt.Sprintf("Invalid request: %v", err),
		LogMessage:  fmt.Sprintf("validation error: %v", err),
	}
}

// NewClientApiError creates a ClientError from an error response sent by the Orion API.
func NewClientApiError(res *resty.Response) *ClientError {
	detail := errorDetail(res.Body())

	var userMsg string
	switch res.StatusCode() {
	case http.StatusNotFound:
		userMsg = "The requested resource could not be found."
	case http.StatusConflict:
		userMsg = "The resource already exists."
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		// validation errors carry a usable message
		if detail != "" {
			userMsg = detail
		} else {
			userMsg = "Invalid request. Please check your input and try again."
		}
	case http.StatusTooManyRequests:
		userMsg = "Too many requests. Please try again in a few moments."
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		userMsg = "The Orion server is temporarily unavailable. Please try again later."
	default:
		userMsg = "An error occurred. Please try again."
	}

	logMsg := fmt.Sprintf("orion api status %d", res.StatusCode())
	if res.Request != nil {
		logMsg = fmt.Sprintf("orion api %s %s status %d", res.Request.Method, res.Request.URL, res.StatusCode())
	}
	if detail != "" {
		logMsg += fmt.Sprintf(" - %s", detail)
	}

	return &ClientError{
		StatusCode:  res.StatusCode(),
		UserMessage: userMsg,
		LogMessage:  logMsg,
	}
}

// errorDetail extracts the message from an API error body.
// The detail field is either a string or a list of validation errors.
func errorDetail(body []byte) string {
	var errBody struct {
		Detail json.RawMessage `json:"detail"`
	}
	if len(body) == 0 || json.Unmarshal(body, &errBody) != nil || len(errBody.Detail) == 0 {
		return ""
	}

	var msg string
	if err := json.Unmarshal(errBody.Detail, &msg); err == nil {
		return msg
	}

	var validation []struct {
		Loc []any  `json:"loc"`
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(errBody.Detail, &validation); err != nil {
		return ""
	}

	msgs := make([]string, 0, len(validation))
	for _, v := range validation {
		if len(v.Loc) == 0 {
			msgs = append(msgs, v.Msg)
			continue
		}
		loc := make([]string, len(v.Loc))
		for i, l := range v.Loc {
			loc[i] = fmt.Sprint(l)
		}
		msgs = append(msgs, fmt.Sprintf("%s: %s", strings.Join(loc, "."), v.Msg))
	}
	return strings.Join(msgs, "; ")
}
