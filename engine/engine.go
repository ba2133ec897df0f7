package engine

import (
	"fmt"
	"time"

	"github.com/spaghettifunk/skelmesh/engine/assets"
	"github.com/spaghettifunk/skelmesh/engine/core"
	"github.com/spaghettifunk/skelmesh/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
	// Engine has released its systems
	EngineStageStopped
)

func (s Stage) String() string {
	switch s {
	case EngineStageUninitialized:
		return "uninitialized"
	case EngineStageInitializing:
		return "initializing"
	case EngineStageInitialized:
		return "initialized"
	case EngineStageRunning:
		return "running"
	case EngineStageShuttingDown:
		return "shutting down"
	case EngineStageStopped:
		return "stopped"
	}
	return fmt.Sprintf("Stage(%d)", uint8(s))
}

// Engine drives a Game with a fixed-rate frame loop. Events are dispatched
// at the start of every frame on the loop goroutine, so game state is only
// ever touched from there.
type Engine struct {
	currentStage  Stage
	gameInstance  *Game
	isRunning     bool
	assetManager  *assets.AssetManager
	systemManager *systems.SystemManager
	clock         *core.Clock
	lastTime      float64
	frames        uint64
}

func New(g *Game) (*Engine, error) {
	if g == nil || g.ApplicationConfig == nil {
		return nil, fmt.Errorf("the game needs an application config")
	}
	if g.FnUpdate == nil {
		return nil, fmt.Errorf("the game needs an update function")
	}
	if g.ApplicationConfig.LogLevel != "" {
		if err := core.SetLogLevel(g.ApplicationConfig.LogLevel); err != nil {
			return nil, err
		}
	}

	am, err := assets.NewAssetManager(g.ApplicationConfig.Watch)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	workers := g.ApplicationConfig.Workers
	if workers <= 0 {
		workers = 1
	}
	sm, err := systems.NewSystemManager(workers, am)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	g.SystemManager = sm

	return &Engine{
		currentStage:  EngineStageUninitialized,
		gameInstance:  g,
		clock:         core.NewClock(),
		assetManager:  am,
		systemManager: sm,
	}, nil
}

func (e *Engine) Stage() Stage {
	return e.currentStage
}

// Frames returns the number of frames run so far.
func (e *Engine) Frames() uint64 {
	return e.frames
}

func (e *Engine) Initialize() error {
	if e.currentStage != EngineStageUninitialized {
		return fmt.Errorf("engine already %s", e.currentStage)
	}
	e.currentStage = EngineStageInitializing

	// initialize events
	if !core.EventSystemInitialize() {
		return fmt.Errorf("failed to initialize the event system")
	}
	core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, e.onEvent)

	if err := core.MetricsInitialize(); err != nil {
		return err
	}

	// initialize subsystems
	if dir := e.gameInstance.ApplicationConfig.AssetsDir; dir != "" {
		if err := e.assetManager.Initialize(dir); err != nil {
			return err
		}
	}

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(); err != nil {
			return err
		}
	}

	e.currentStage = EngineStageInitialized
	core.LogInfo("%s initialized", e.gameInstance.ApplicationConfig.Name)
	return nil
}

func (e *Engine) Run() error {
	if e.currentStage != EngineStageInitialized {
		return fmt.Errorf("cannot run an engine that is %s", e.currentStage)
	}
	e.currentStage = EngineStageRunning
	e.isRunning = true

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	cfg := e.gameInstance.ApplicationConfig
	var targetFrameSeconds float64 = 0
	if cfg.TargetFPS > 0 {
		targetFrameSeconds = 1.0 / float64(cfg.TargetFPS)
	}

	for e.isRunning {
		frameStart := time.Now()

		core.ProcessEvents()
		if !e.isRunning {
			break
		}

		e.clock.Update()
		var currentTime float64 = e.clock.Elapsed()
		var delta float64 = (currentTime - e.lastTime)

		if err := e.gameInstance.FnUpdate(delta); err != nil {
			core.LogError("Game update failed, shutting down: %s", err)
			e.isRunning = false
			return err
		}
		e.frames++

		var frameElapsedTime float64 = time.Since(frameStart).Seconds()
		var remainingSeconds float64 = targetFrameSeconds - frameElapsedTime
		if remainingSeconds > 0 {
			time.Sleep(time.Duration(remainingSeconds * float64(time.Second)))
		}
		core.MetricsUpdate(time.Since(frameStart).Seconds())

		e.lastTime = currentTime

		if cfg.DurationSeconds > 0 && currentTime >= cfg.DurationSeconds {
			e.isRunning = false
		}
	}

	fps, ms := core.MetricsFrame()
	core.LogInfo("stopped after %d frames (%.1f fps, %.3f ms/frame)", e.frames, fps, ms)
	return nil
}

// Stop asks the loop to exit at the start of the next frame. Safe to call
// from any goroutine.
func (e *Engine) Stop() bool {
	return core.EventFire(core.EventContext{Type: core.EVENT_CODE_APPLICATION_QUIT})
}

func (e *Engine) Shutdown() error {
	if e.currentStage == EngineStageStopped {
		return nil
	}
	e.currentStage = EngineStageShuttingDown
	e.isRunning = false
	e.clock.Stop()

	if e.gameInstance.FnShutdown != nil {
		if err := e.gameInstance.FnShutdown(); err != nil {
			core.LogError(err.Error())
		}
	}
	if err := e.systemManager.Shutdown(); err != nil {
		return err
	}
	if err := core.EventSystemShutdown(); err != nil {
		return err
	}
	e.currentStage = EngineStageStopped
	return nil
}

func (e *Engine) onEvent(context core.EventContext) {
	switch context.Type {
	case core.EVENT_CODE_APPLICATION_QUIT:
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.isRunning = false
	}
}
