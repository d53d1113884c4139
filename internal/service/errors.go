package service

import "fmt"

// ServiceError represents a business logic error with a code
type ServiceError struct {
	Err     error
	Message string
	Code    string
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeInvalidInput       = "invalid_input"
	ErrCodeInvalidAmount      = "invalid_amount"
	ErrCodeInsufficientFunds  = "insufficient_funds"
	ErrCodeInvalidCredentials = "invalid_credentials"
	ErrCodeInvalidPIN         = "invalid_pin"
	ErrCodePINNotSet          = "pin_not_set"
	ErrCodeAccountLocked      = "account_locked"
	ErrCodeCardBlocked        = "card_blocked"
	ErrCodeSelfTransfer       = "self_transfer"
	ErrCodeEmailTaken         = "email_taken"
	ErrCodeAccountNotFound    = "account_not_found"
	ErrCodeCardNotFound       = "card_not_found"
	ErrCodeOTPInvalid         = "otp_invalid"
	ErrCodeOTPExpired         = "otp_expired"
	ErrCodeSessionInvalid     = "session_invalid"
	ErrCodeResetTokenInvalid  = "reset_token_invalid"
	ErrCodePriceUnavailable   = "price_unavailable"
	ErrCodeInternalError      = "internal_error"
)

func internalError(msg string, err error) *ServiceError {
	return &ServiceError{
		Code:    ErrCodeInternalError,
		Message: msg,
		Err:     err,
	}
}
