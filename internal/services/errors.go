package services

import "errors"

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTitleTaken         = errors.New("post title already exists")
	ErrRoleExists         = errors.New("user type already exists")
	ErrRoleNotFound       = errors.New("user type not found")
	ErrUploadsDisabled    = errors.New("image uploads are not enabled")
	ErrUnsupportedImage   = errors.New("unsupported image type")

	// ErrBlankContent is returned when rich text is empty once sanitized.
	ErrBlankContent = errors.New("content is empty after sanitizing")
)
