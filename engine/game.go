package engine

import (
	"github.com/bastion3d/bastion/engine/renderer"
)

type Game struct {
	ApplicationConfig *ApplicationConfig
	State             interface{}
	FnInitialize      Initialize
	FnUpdate          Update
	FnRender          Render
	FnOnResize        OnResize
}

type Initialize func() error
type Update func(deltaTime float64) error

// Render fills in the view-dependent parts of the packet; the engine has
// already stamped the timing fields.
type Render func(packet *renderer.RenderPacket, deltaTime float64) error
type OnResize func(width uint32, height uint32) error
type Shutdown func() error
