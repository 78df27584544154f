package frame

import "errors"

var (
	ErrAlreadyExists = errors.New("frame already exists")
	ErrNotFound      = errors.New("frame not found")
)
