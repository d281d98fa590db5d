package service

import "errors"

var (
	ErrInvalidEmail      = errors.New("invalid email address")
	ErrInvalidExportType = errors.New("invalid export type")
	ErrEmailTransport    = errors.New("email could not be sent")

	ErrTokenNotFound = errors.New("download link is invalid")
	ErrTokenExpired  = errors.New("download link has expired")
	ErrTokenUsed     = errors.New("download link has already been used")

	ErrDeletionNotFound  = errors.New("deletion link is invalid")
	ErrDeletionExpired   = errors.New("deletion link has expired")
	ErrDeletionCompleted = errors.New("deletion has already been completed")

	ErrInvalidQuote = errors.New("invalid quote request")
	ErrInvalidRate  = errors.New("invalid pricing rate")
	ErrRateNotFound = errors.New("pricing rate not found")

	ErrBookingNotFound   = errors.New("booking not found")
	ErrInvalidTransition = errors.New("booking cannot move to that state")
	ErrInvalidStatus     = errors.New("invalid booking status")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAdminExists        = errors.New("admin already exists")

	ErrMediaNotFound     = errors.New("media file not found")
	ErrStorageDisabled   = errors.New("media storage is not configured")
	ErrLegalPageNotFound = errors.New("page not found")
)
