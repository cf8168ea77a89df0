package api

import "errors"

var (
	ErrUnavailable = errors.New("server unavailable")
)
