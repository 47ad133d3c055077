package apperrors

// ErrorCode is sent in the JSON error responses of the non html endpoints (health checks and the API proxy)
type ErrorCode string

const (
	ErrCodeAPIUnavailable    ErrorCode = "api_unavailable"
	ErrCodeBadGateway        ErrorCode = "bad_gateway"
	ErrCodeInternalError     ErrorCode = "internal_error"
	ErrCodeRateLimitExceeded ErrorCode = "rate_limit_exceeded"
	ErrCodeRequestTooLarge   ErrorCode = "request_too_large"
)
