package models

import "errors"

// Domain errors that can be returned by repositories
var (
	// ErrNotFound indicates the requested entity was not found
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail indicates an account with the same email already exists
	ErrDuplicateEmail = errors.New("duplicate email")

	// ErrDuplicateIBAN indicates the generated IBAN collided with an existing one
	ErrDuplicateIBAN = errors.New("duplicate iban")

	// ErrDuplicateCardNumber indicates the generated card number is already in use
	ErrDuplicateCardNumber = errors.New("duplicate card number")

	// ErrInsufficientFunds indicates a debit would take the balance negative
	ErrInsufficientFunds = errors.New("insufficient funds")
)
