package progress

import "errors"

var (
	// ErrUserNotFound is returned when the referenced user doesn't exist
	ErrUserNotFound = errors.New("user not found")

	// ErrNotEligible is returned when an advancement is attempted before
	// the requirements are met
	ErrNotEligible = errors.New("not eligible to advance")

	// ErrMaxLevel is returned when a C2 user attempts to advance
	ErrMaxLevel = errors.New("already at maximum level")

	// ErrInvalidModule is returned for module names outside the known set
	ErrInvalidModule = errors.New("invalid module")

	// ErrInvalidCheatCode is returned for unrecognized cheat codes
	ErrInvalidCheatCode = errors.New("invalid cheat code")
)
