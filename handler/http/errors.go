package http

import "errors"

var (
	errRunNotFound = errors.New("run not found")
)
