package services

import (
	"vyns/internal/common"
	"vyns/internal/repositories"
)

var (
	ErrInvalidName = common.NewError(common.KindValidation,
		"Username must be 3-20 characters, letters/numbers/underscores only")
	ErrInvalidNameLength = common.NewError(common.KindValidation, "Username must be 3-20 characters")
	ErrEmptyQuery        = common.NewError(common.KindValidation, "Search query required")
	ErrInvalidPrice      = common.NewError(common.KindValidation, "Price must be greater than zero")
	ErrNotOwner          = common.NewError(common.KindForbidden, "You do not own this username")

	ErrNameTaken              = repositories.ErrUsernameTaken
	ErrIdentityAlreadyHasName = repositories.ErrIdentityHasUsername

	ErrInvalidCredentials = common.NewError(common.KindAuthentication, "Invalid email or password")
	ErrInvalidSignature   = common.NewError(common.KindAuthentication, "Invalid signature")
	ErrWeakPassword       = common.NewError(common.KindValidation, "Password must be at least 6 characters")

	ErrInvalidActivity = common.NewError(common.KindValidation, "Activity type and description are required")
)
