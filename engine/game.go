package engine

import (
	"github.com/spaghettifunk/skelmesh/engine/systems"
)

type Game struct {
	ApplicationConfig *ApplicationConfig
	SystemManager     *systems.SystemManager
	State             interface{}
	FnInitialize      Initialize
	FnUpdate          Update
	FnShutdown        Shutdown
}

type Initialize func() error
type Update func(deltaTime float64) error
type Shutdown func() error
