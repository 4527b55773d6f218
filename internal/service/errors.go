package service

import "errors"

var (
	ErrInvalidVoteType    = errors.New("invalid vote type")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrUserExists         = errors.New("username or email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
