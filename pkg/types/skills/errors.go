package skills

import (
	"fmt"

	"github.com/junohq/agentskills/pkg/redact"
)

// Error codes returned in skill metadata. Validation codes are always
// non-retriable; TIMEOUT and NETWORK_ERROR may be retried by the caller
// at the action level.
const (
	CodeInvalidAction         = "INVALID_ACTION"
	CodeMissingInput          = "MISSING_INPUT"
	CodeInvalidInput          = "INVALID_INPUT"
	CodeMissingSymbol         = "MISSING_SYMBOL"
	CodeInvalidType           = "INVALID_TYPE"
	CodeInvalidPeriod         = "INVALID_PERIOD"
	CodeInvalidSymbols        = "INVALID_SYMBOLS"
	CodeProviderNotConfigured = "PROVIDER_NOT_CONFIGURED"
	CodeCostLimitExceeded     = "COST_LIMIT_EXCEEDED"
	CodeTimeout               = "TIMEOUT"
	CodeNetworkError          = "NETWORK_ERROR"
	CodeUpstreamError         = "UPSTREAM_ERROR"
	CodeGraphQLError          = "GRAPHQL_ERROR"
	CodeNoData                = "NO_DATA"
	CodeNotFound              = "NOT_FOUND"
)

// SkillError is a structured error carried in the response envelope.
// Message is always safe to show to the user; callers must redact
// upstream error text before wrapping it in a SkillError.
type SkillError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retriable bool   `json:"retriable"`
}

func (e *SkillError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewSkillError creates a SkillError with the given code and message.
func NewSkillError(code, message string, retriable bool) *SkillError {
	return &SkillError{Code: code, Message: message, Retriable: retriable}
}

// AsSkillError returns err as a *SkillError, wrapping unknown errors
// as UPSTREAM_ERROR so raw error types never leak into the envelope.
// Unknown error text is redacted; it may quote upstream responses or
// URLs carrying credentials.
func AsSkillError(err error) *SkillError {
	if err == nil {
		return nil
	}
	if se, ok := err.(*SkillError); ok {
		return se
	}
	return NewSkillError(CodeUpstreamError, redact.Redact(err.Error()), true)
}
