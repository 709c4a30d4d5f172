package apperrors

type ErrorCode string

const (
	ErrCodeInternalError       ErrorCode = "internal_error"
	ErrCodeNotFound            ErrorCode = "not_found"
	ErrCodeRateLimitExceeded   ErrorCode = "rate_limit_exceeded"
	ErrCodeOrionAPIUnavailable ErrorCode = "orion_api_unavailable"
	ErrCodeOrionAPIError       ErrorCode = "orion_api_error"
)

type ErrorResponse struct {
	StatusCode int       `json:"-"`
	ErrorCode  ErrorCode `json:"error_code"`
	Message    string    `json:"message"`
	ReqID      string    `json:"-"`
}
