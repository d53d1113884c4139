package service

import "fmt"

const minPasswordLen = 8

// ValidateAmount checks that a money amount is positive.
func ValidateAmount(amountCents int64) error {
	if amountCents <= 0 {
		return &ServiceError{
			Code:    ErrCodeInvalidAmount,
			Message: "amount must be greater than 0",
		}
	}
	return nil
}

// ValidatePIN checks the PIN format: 4 to 6 digits.
func ValidatePIN(pin string) error {
	if len(pin) < 4 || len(pin) > 6 {
		return &ServiceError{
			Code:    ErrCodeInvalidInput,
			Message: "PIN must be 4 to 6 digits",
		}
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return &ServiceError{
				Code:    ErrCodeInvalidInput,
				Message: "PIN must contain only digits",
			}
		}
	}
	return nil
}

// ValidateNewPassword checks length and confirmation for a password change.
func ValidateNewPassword(newPassword, confirm string) error {
	if len(newPassword) < minPasswordLen {
		return &ServiceError{
			Code:    ErrCodeInvalidInput,
			Message: fmt.Sprintf("password must be at least %d characters", minPasswordLen),
		}
	}
	if newPassword != confirm {
		return &ServiceError{
			Code:    ErrCodeInvalidInput,
			Message: "passwords do not match",
		}
	}
	return nil
}

// formatCents renders a cent amount as a decimal string, e.g. -1250 -> "-12.50".
func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
