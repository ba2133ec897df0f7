package systems

import (
	"github.com/spaghettifunk/skelmesh/engine/assets"
)

type SystemManager struct {
	JobSystem        *JobSystem
	MeshLoaderSystem *MeshLoaderSystem
	AssetManager     *assets.AssetManager
}

func NewSystemManager(workers int, am *assets.AssetManager) (*SystemManager, error) {
	js, err := NewJobSystem(workers, workers*4)
	if err != nil {
		return nil, err
	}
	mls, err := NewMeshLoaderSystem(js, am)
	if err != nil {
		_ = js.Shutdown()
		return nil, err
	}
	return &SystemManager{
		JobSystem:        js,
		MeshLoaderSystem: mls,
		AssetManager:     am,
	}, nil
}

func (sm *SystemManager) Shutdown() error {
	if err := sm.MeshLoaderSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.JobSystem.Shutdown(); err != nil {
		return err
	}
	return sm.AssetManager.Shutdown()
}
