package testbed

import (
	"fmt"
	"path/filepath"

	"github.com/spaghettifunk/skelmesh/engine"
	"github.com/spaghettifunk/skelmesh/engine/config"
	"github.com/spaghettifunk/skelmesh/engine/core"
	"github.com/spaghettifunk/skelmesh/engine/math"
	"github.com/spaghettifunk/skelmesh/engine/mesh"
)

// TestGame plays one animation clip on one mesh and evaluates the skeleton
// every frame.
type TestGame struct {
	*engine.Game
}

type gameState struct {
	meshPath string
	clipPath string
	clipName string
	speed    float64

	asset *mesh.MeshAsset

	// seconds since the root position was last logged
	logTimer     float64
	rootPosition math.Vec3
	reloads      int
}

func NewTestGame(cfg *config.Config, meshPath string, clipPath string) (*TestGame, error) {
	if meshPath == "" {
		return nil, fmt.Errorf("a mesh file is required")
	}
	state := &gameState{
		meshPath: filepath.Clean(meshPath),
		clipName: cfg.Clip,
		speed:    cfg.Speed,
	}
	if clipPath != "" {
		state.clipPath = filepath.Clean(clipPath)
	}

	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: &engine.ApplicationConfig{
				Name:            "skelmesh player",
				LogLevel:        cfg.LogLevel,
				AssetsDir:       cfg.AssetsDir,
				Watch:           cfg.Watch,
				Workers:         cfg.Workers,
				TargetFPS:       cfg.TargetFPS,
				DurationSeconds: cfg.DurationSeconds,
			},
			State: state,
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnShutdown = tg.Shutdown

	return tg, nil
}

func (g *TestGame) state() *gameState {
	return g.State.(*gameState)
}

func (g *TestGame) Initialize() error {
	core.LogDebug("TestGame Initialize fn....")

	if g.SystemManager == nil {
		return fmt.Errorf("the engine is not yet initialized with all the system managers ")
	}
	state := g.state()

	asset, err := g.loadMesh(state.meshPath)
	if err != nil {
		return err
	}
	state.asset = asset

	if state.clipPath != "" {
		if err := g.loadClip(state.clipPath); err != nil {
			return err
		}
	}
	if state.clipName != "" && state.asset.Clip(state.clipName) == nil {
		core.LogWarn("clip %q not found, playing the bind pose", state.clipName)
	}

	core.EventRegister(core.EVENT_CODE_ASSET_RELOADED, g.onAssetEvent)
	core.EventRegister(core.EVENT_CODE_ASSET_REMOVED, g.onAssetEvent)
	return nil
}

func (g *TestGame) Update(deltaTime float64) error {
	state := g.state()
	if state.asset == nil {
		return nil
	}

	if state.clipName != "" {
		state.asset.ApplyAnimation(state.clipName, float32(deltaTime*state.speed))
	}
	state.asset.CalculateBones(state.asset.RootID)

	if state.asset.RootID >= 0 && state.asset.RootID < len(state.asset.Bones) {
		state.rootPosition = state.asset.Bones[state.asset.RootID].Matrix.Position()
	}
	state.logTimer += deltaTime
	if state.logTimer >= 1 {
		state.logTimer = 0
		p := state.rootPosition
		core.LogInfo("root bone at [%.3f, %.3f, %.3f]", p.X, p.Y, p.Z)
	}
	return nil
}

func (g *TestGame) Shutdown() error {
	core.LogDebug("TestGame Shutdown fn....")
	g.state().asset = nil
	return nil
}

func (g *TestGame) loadMesh(path string) (*mesh.MeshAsset, error) {
	res, err := g.SystemManager.AssetManager.LoadAsset(path, nil)
	if err != nil {
		return nil, err
	}
	asset, ok := res.Data.(*mesh.MeshAsset)
	if !ok {
		return nil, fmt.Errorf("%s is not a mesh (%s)", path, res.Type)
	}
	core.LogInfo("loaded mesh '%s': %d vertices, %d bones", res.Name, len(asset.Vertices), len(asset.BoneIDs()))
	return asset, nil
}

func (g *TestGame) loadClip(path string) error {
	state := g.state()
	res, err := g.SystemManager.AssetManager.LoadAsset(path, nil)
	if err != nil {
		return err
	}
	clip, ok := res.Data.(*mesh.AnimationClip)
	if !ok {
		return fmt.Errorf("%s is not an animation (%s)", path, res.Type)
	}
	state.asset.AddClip(clip)
	if state.clipName == "" {
		state.clipName = clip.Name
	}
	core.LogInfo("loaded clip '%s': %d channels, %.3fs", clip.Name, len(clip.Channels), clip.Duration)
	return nil
}

// onAssetEvent swaps the mesh or the clip between two frames. A file that
// fails to decode keeps the previous version playing.
func (g *TestGame) onAssetEvent(context core.EventContext) {
	ev, ok := context.Data.(*core.AssetEvent)
	if !ok {
		return
	}
	state := g.state()
	if state.asset == nil || (ev.Path != state.meshPath && ev.Path != state.clipPath) {
		return
	}

	if context.Type == core.EVENT_CODE_ASSET_REMOVED {
		core.LogWarn("'%s' was removed, keeping the loaded version", ev.Path)
		return
	}

	switch ev.Path {
	case state.meshPath:
		asset, err := g.loadMesh(ev.Path)
		if err != nil {
			core.LogError("reloading '%s': %s", ev.Path, err)
			return
		}
		for _, clip := range state.asset.Clips {
			asset.AddClip(clip)
		}
		state.asset = asset
	case state.clipPath:
		if err := g.loadClip(ev.Path); err != nil {
			core.LogError("reloading '%s': %s", ev.Path, err)
			return
		}
	}
	state.reloads++
}
