package testbed

import (
	"github.com/bastion3d/bastion/engine"
	"github.com/bastion3d/bastion/engine/core"
	"github.com/bastion3d/bastion/engine/math"
	"github.com/bastion3d/bastion/engine/renderer"
	"github.com/bastion3d/bastion/engine/renderer/components"
	"github.com/bastion3d/bastion/engine/renderer/frame"
)

const (
	// degrees of orbit per pixel of mouse drag
	orbitPerPixel = 0.25
	// world units of zoom per wheel notch
	zoomPerNotch = 2.0

	cameraNearClip = 1.0
	cameraFarClip  = 1000.0
	cameraFov      = 45.0
)

type TestGame struct {
	*engine.Game
}

type gameState struct {
	worldCamera *components.OrbitalCamera

	width  uint32
	height uint32

	spire      *frame.RenderItem
	spireAngle float32

	wireframe bool
}

func NewTestGame(config *engine.ApplicationConfig) *TestGame {
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: config,
			State: &gameState{
				worldCamera: components.NewOrbitalCamera(
					1.5*math.K_PI, 0.35*math.K_PI, 95.0, 20.0, 240.0),
				width:  config.StartWidth,
				height: config.StartHeight,
			},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnRender = tg.Render
	tg.FnOnResize = tg.OnResize

	return tg
}

func (g *TestGame) Initialize() error {
	core.LogDebug("TestGame Initialize fn....")
	state := g.State.(*gameState)

	bundle, err := buildCastleBundle()
	if err != nil {
		return err
	}
	if err := renderer.UploadGeometry(bundle); err != nil {
		return err
	}

	spire, err := placeCastle()
	if err != nil {
		return err
	}
	state.spire = spire

	core.EventRegister(core.EVENT_CODE_MOUSE_WHEEL, func(context core.EventContext) {
		mouseEvent, ok := context.Data.(*core.MouseEvent)
		if !ok {
			return
		}
		state.worldCamera.Zoom(float32(-mouseEvent.WheelDelta) * zoomPerNotch)
	})

	return nil
}

func (g *TestGame) Update(deltaTime float64) error {
	state := g.State.(*gameState)

	if core.InputIsKeyDown(core.KEY_ESCAPE) {
		core.EventFire(core.EventContext{Type: core.EVENT_CODE_APPLICATION_QUIT})
		return nil
	}

	if core.InputIsKeyDown(core.KEY_1) && !core.InputWasKeyDown(core.KEY_1) {
		state.wireframe = !state.wireframe
		core.LogInfo("Wireframe: %t", state.wireframe)
	}

	if core.InputIsButtonDown(core.BUTTON_LEFT) && core.InputWasButtonDown(core.BUTTON_LEFT) {
		x, y := core.InputGetMousePosition()
		prevX, prevY := core.InputGetPreviousMousePosition()
		deltaTheta := math.DegToRad(float32(x-prevX) * orbitPerPixel)
		deltaPhi := math.DegToRad(float32(y-prevY) * orbitPerPixel)
		state.worldCamera.Orbit(deltaTheta, deltaPhi)
	}

	// The keep's spire spins slowly, forcing a fresh transform through
	// the per-frame object upload.
	state.spireAngle += float32(0.5 * deltaTime)
	if state.spireAngle > 2*math.K_PI {
		state.spireAngle -= 2 * math.K_PI
	}
	state.spire.SetTransform(
		math.NewMat4EulerY(state.spireAngle).Mul(math.NewMat4Translation(math.NewVec3(0, 31, 0))))

	return nil
}

func (g *TestGame) Render(packet *renderer.RenderPacket, deltaTime float64) error {
	state := g.State.(*gameState)

	aspect := float32(state.width) / float32(state.height)
	packet.View = state.worldCamera.GetView()
	packet.Proj = math.NewMat4Perspective(math.DegToRad(cameraFov), aspect, cameraNearClip, cameraFarClip)
	packet.EyePos = state.worldCamera.GetPosition()
	packet.NearZ = cameraNearClip
	packet.FarZ = cameraFarClip
	packet.Wireframe = state.wireframe

	return nil
}

func (g *TestGame) OnResize(width, height uint32) error {
	state := g.State.(*gameState)
	if height == 0 {
		return nil
	}
	state.width = width
	state.height = height
	return nil
}
