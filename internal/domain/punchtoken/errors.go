package punchtoken

import "errors"

var (
	ErrTokenNotFound    = errors.New("punch token not found")
	ErrTokenExpired     = errors.New("punch token has expired")
	ErrTokenAlreadyUsed = errors.New("punch token has already been used")
)
