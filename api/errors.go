package api

import (
	"errors"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrInvalidArg = errors.New("invalid arguments")
	ErrStaleState = errors.New("a newer state is already stored")

	ErrMaintenanceMode = errors.New("server in maintenance mode")
)
