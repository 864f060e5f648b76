package domain

import "errors"

// Error message string constants - single source of truth for error messages.
// Use these in assert.Contains() checks when testing error messages.
const (
	ErrMsgMemberNotFound     = "member not found"
	ErrMsgRoleNotFound       = "role not found"
	ErrMsgTwitchUserNotFound = "twitch user not found"
	ErrMsgAccountClaimed     = "twitch account already claimed"
	ErrMsgBirthdayNotFound   = "birthday not found"
	ErrMsgInvalidBirthday    = "invalid birthday date"
)

// Common domain errors.
// Wrap these with fmt.Errorf("%w: %s", domain.ErrXxx, details) for context.
var (
	ErrMemberNotFound     = errors.New(ErrMsgMemberNotFound)
	ErrRoleNotFound       = errors.New(ErrMsgRoleNotFound)
	ErrTwitchUserNotFound = errors.New(ErrMsgTwitchUserNotFound)
	ErrAccountClaimed     = errors.New(ErrMsgAccountClaimed)
	ErrBirthdayNotFound   = errors.New(ErrMsgBirthdayNotFound)
	ErrInvalidBirthday    = errors.New(ErrMsgInvalidBirthday)
)
