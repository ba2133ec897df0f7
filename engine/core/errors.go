package core

import (
	"errors"
)

var (
	ErrInvalidLogLevel = errors.New("invalid log level")
	ErrEngineStopped   = errors.New("engine is not running")
	ErrUnknown         = errors.New("unknown")
)
