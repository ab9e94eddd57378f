package errors

import (
	"fmt"
)

var (
	ErrValidation        = fmt.Errorf("validation failed")
	ErrPreflight         = fmt.Errorf("preflight check failed")
	ErrRuntime           = fmt.Errorf("container runtime call failed")
	ErrAlreadyExists     = fmt.Errorf("already exists")
	ErrAlreadyInProgress = fmt.Errorf("already in progress")
	ErrNotFound          = fmt.Errorf("not found")
	ErrCycle             = fmt.Errorf("dependency cycle")
	ErrInvalidState      = fmt.Errorf("invalid state")
	ErrNotSupported      = fmt.Errorf("not supported")
)
