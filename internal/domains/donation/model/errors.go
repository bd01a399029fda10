package model

import "errors"

// =====================================================
// CUSTOM ERROR CODES
// =====================================================
const (
	ErrCodeDonationNotFound  = "DON001"
	ErrCodeClaimConflict     = "DON002"
	ErrCodeInvalidTransition = "DON003"
	ErrCodeForbidden         = "DON004"
	ErrCodeValidation        = "DON005"
	ErrCodeStorage           = "DON006"
	ErrCodeOwnClaim          = "DON007"
)

// =====================================================
// ERROR DEFINITIONS
// =====================================================
var (
	ErrDonationNotFound  = errors.New("donation not found")
	ErrClaimConflict     = errors.New("donation was claimed or changed concurrently")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrForbidden         = errors.New("caller is not allowed to perform this action")
	ErrOwnClaim          = errors.New("owner cannot claim their own donation")
	ErrExpiryInPast      = errors.New("expiry must be in the future")
)

// =====================================================
// CUSTOM ERROR TYPE
// =====================================================
type DonationError struct {
	Code    string
	Message string
	Err     error
}

func (e *DonationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DonationError) Unwrap() error {
	return e.Err
}

// NewDonationError creates a new DonationError
func NewDonationError(code, message string, err error) *DonationError {
	return &DonationError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
