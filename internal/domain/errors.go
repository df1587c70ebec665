package domain

import "errors"

var (
	ErrMissingCredentials = errors.New("username and password are required")
	ErrUsernameExists     = errors.New("username already exists")
	ErrUsernameTaken      = errors.New("username taken")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrPasswordTooLong    = errors.New("password too long")
	ErrSelfFollow         = errors.New("cannot follow self")

	ErrEmptyPost    = errors.New("post content is required")
	ErrPostNotFound = errors.New("post not found")
	ErrEmptyComment = errors.New("comment text is required")

	ErrEmptyStory    = errors.New("story image is required")
	ErrStoryNotFound = errors.New("story not found")

	ErrInvalidMessage  = errors.New("recipient and content are required")
	ErrMessageTooLarge = errors.New("message too large")

	ErrInvalidInput = errors.New("invalid input")
)
