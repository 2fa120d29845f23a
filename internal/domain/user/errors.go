package user

import "errors"

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrManagerAccessRequired = errors.New("manager or admin role required")
	ErrAdminAccessRequired   = errors.New("admin role required")
)
