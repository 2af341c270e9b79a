package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/bastion3d/bastion/engine/assets"
	"github.com/bastion3d/bastion/engine/core"
	"github.com/bastion3d/bastion/engine/platform"
	"github.com/bastion3d/bastion/engine/renderer"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently booting up
	EngineStageBooting
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

type Engine struct {
	currentStage Stage
	sessionID    uuid.UUID
	gameInstance *Game
	isRunning    bool
	isSuspended  bool
	platform     *platform.Platform
	assetWatcher *assets.Watcher
	width        uint32
	height       uint32
	clock        *core.Clock
	lastTime     float64

	// set by the asset watcher goroutine, consumed by the render loop
	shadersDirty atomic.Bool
}

func New(g *Game) (*Engine, error) {
	p, err := platform.New()
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	aw, err := assets.NewWatcher()
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	return &Engine{
		currentStage: EngineStageUninitialized,
		sessionID:    uuid.New(),
		gameInstance: g,
		clock:        core.NewClock(),
		platform:     p,
		assetWatcher: aw,
		isRunning:    true,
		isSuspended:  false,
		width:        g.ApplicationConfig.StartWidth,
		height:       g.ApplicationConfig.StartHeight,
		lastTime:     0,
	}, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing

	core.LogSetLevel(e.gameInstance.ApplicationConfig.ParsedLogLevel())
	core.LogInfo("Starting session %s", e.sessionID.String())

	if err := core.InputInitialize(); err != nil {
		return err
	}
	if err := core.MetricsInitialize(); err != nil {
		return err
	}
	if !core.EventSystemInitialize() {
		return fmt.Errorf("failed to initialize the event system")
	}

	core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, e.onEvent)
	core.EventRegister(core.EVENT_CODE_RESIZED, e.onResized)
	core.EventRegister(core.EVENT_CODE_ASSET_CHANGED, e.onAssetChanged)

	if err := e.platform.Startup(e.gameInstance.ApplicationConfig.Name,
		e.gameInstance.ApplicationConfig.StartPosX,
		e.gameInstance.ApplicationConfig.StartPosY,
		e.gameInstance.ApplicationConfig.StartWidth,
		e.gameInstance.ApplicationConfig.StartHeight); err != nil {
		return err
	}

	if err := renderer.Initialize(e.gameInstance.ApplicationConfig.Name,
		e.width, e.height,
		e.gameInstance.ApplicationConfig.RingDepth,
		e.gameInstance.ApplicationConfig.ObjectCapacity,
		e.gameInstance.ApplicationConfig.VSync,
		e.platform); err != nil {
		return err
	}

	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	if err := e.assetWatcher.Initialize(filepath.Join(wd, "assets", "shaders")); err != nil {
		return err
	}

	if err := e.gameInstance.FnInitialize(); err != nil {
		return err
	}
	if err := e.gameInstance.FnOnResize(e.width, e.height); err != nil {
		return err
	}

	e.currentStage = EngineStageInitialized
	return nil
}

func (e *Engine) Run() error {
	e.currentStage = EngineStageRunning

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	// process all the events around the engine on their own goroutine
	go core.ProcessEvents()

	var metricsAccumulator float64

	for e.isRunning {
		e.platform.PumpMessages()
		if e.platform.ShouldClose() {
			e.isRunning = false
		}

		if !e.isSuspended {
			e.clock.Update()

			var currentTime float64 = e.clock.Elapsed()
			var delta float64 = (currentTime - e.lastTime)
			var frameStartTime float64 = e.platform.GetAbsoluteTime()

			if e.shadersDirty.Swap(false) {
				if err := renderer.ReloadShaders(); err != nil {
					core.LogError("shader reload failed: %s", err.Error())
				}
			}

			if err := e.gameInstance.FnUpdate(delta); err != nil {
				core.LogFatal("Game update failed, shutting down.")
				e.isRunning = false
				break
			}

			packet := &renderer.RenderPacket{
				DeltaTime: delta,
				TotalTime: currentTime,
				Items:     renderer.Items(),
			}
			if err := e.gameInstance.FnRender(packet, delta); err != nil {
				core.LogFatal("Game render failed, shutting down.")
				e.isRunning = false
				break
			}

			if err := renderer.DrawFrame(packet); err != nil {
				core.LogError("frame draw failed: %s", err.Error())
				e.isRunning = false
				break
			}

			var frameEndTime float64 = e.platform.GetAbsoluteTime()
			core.MetricsUpdate(frameEndTime - frameStartTime)

			metricsAccumulator += delta
			if metricsAccumulator >= 1.0 {
				metricsAccumulator = 0
				fps, frameTime := core.MetricsFrame()
				core.LogDebug("%.0f fps, %.2f ms/frame", fps, frameTime)
			}

			// NOTE: Input update/state copying should always be handled
			// after any input should be recorded; I.E. before this line.
			// As a safety, input is the last thing to be updated before
			// this frame ends.
			core.InputUpdate(delta)

			e.lastTime = currentTime
		}
	}

	return nil
}

func (e *Engine) Shutdown() error {
	e.currentStage = EngineStageShuttingDown

	e.assetWatcher.Shutdown()
	if err := core.EventSystemShutdown(); err != nil {
		return err
	}
	if err := core.InputShutdown(); err != nil {
		return err
	}
	if err := renderer.Shutdown(); err != nil {
		return err
	}
	if err := e.platform.Shutdown(); err != nil {
		return err
	}
	return nil
}

// GetFramebufferSize returns the width and height (in this order) of the
// application framebuffer.
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

func (e *Engine) onEvent(context core.EventContext) {
	switch context.Type {
	case core.EVENT_CODE_APPLICATION_QUIT:
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.isRunning = false
	}
}

func (e *Engine) onResized(context core.EventContext) {
	systemEvent, ok := context.Data.(*core.SystemEvent)
	if !ok {
		return
	}
	width := systemEvent.WindowWidth
	height := systemEvent.WindowHeight

	if width == e.width && height == e.height {
		return
	}
	e.width = width
	e.height = height

	// Minimization comes through as a zero dimension.
	if width == 0 || height == 0 {
		core.LogInfo("Window minimized, suspending application.")
		e.isSuspended = true
		return
	}

	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
	}
	if err := e.gameInstance.FnOnResize(width, height); err != nil {
		core.LogError(err.Error())
	}
	if err := renderer.OnResize(uint16(width), uint16(height)); err != nil {
		core.LogError(err.Error())
	}
}

func (e *Engine) onAssetChanged(context core.EventContext) {
	e.shadersDirty.Store(true)
}
