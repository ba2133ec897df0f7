package systems

import (
	"fmt"
	"sync"

	"github.com/spaghettifunk/skelmesh/engine/assets"
	"github.com/spaghettifunk/skelmesh/engine/core"
	"github.com/spaghettifunk/skelmesh/engine/resources"
)

// LoadResult is the outcome of loading one asset of a batch.
type LoadResult struct {
	Path     string
	Resource *resources.Resource
	Err      error
}

type meshLoadParams struct {
	path   string
	params interface{}
}

// MeshLoaderSystem loads batches of assets on the job system. Every asset is
// still decoded by a single worker.
type MeshLoaderSystem struct {
	jobSystem    *JobSystem
	assetManager *assets.AssetManager
}

func NewMeshLoaderSystem(js *JobSystem, am *assets.AssetManager) (*MeshLoaderSystem, error) {
	if js == nil || am == nil {
		return nil, fmt.Errorf("mesh loader system needs a job system and an asset manager")
	}
	return &MeshLoaderSystem{
		jobSystem:    js,
		assetManager: am,
	}, nil
}

func (mls *MeshLoaderSystem) Shutdown() error {
	return nil
}

/**
 * @brief Loads every path through the asset manager and waits for all of them.
 *
 * @param paths The files to load.
 * @param params Loader parameters shared by every file.
 * @return One result per path, in the order of paths.
 */
func (mls *MeshLoaderSystem) LoadBatch(paths []string, params interface{}) []LoadResult {
	results := make([]LoadResult, len(paths))

	var wg sync.WaitGroup
	for i, p := range paths {
		i := i
		results[i].Path = p
		wg.Add(1)
		mls.jobSystem.Submit(JobTask{
			JobType:     JOB_TYPE_RESOURCE_LOAD,
			Priority:    JOB_PRIORITY_NORMAL,
			InputParams: &meshLoadParams{path: p, params: params},
			OnStart:     mls.meshLoadJobStart,
			OnComplete: func(out chan interface{}) {
				results[i].Resource = (<-out).(*resources.Resource)
			},
			OnFailure: func(out chan interface{}) {
				results[i].Err = (<-out).(error)
			},
			OnCompletionCallback: wg.Done,
		})
	}
	wg.Wait()

	return results
}

func (mls *MeshLoaderSystem) meshLoadJobStart(params interface{}, out chan interface{}) error {
	p, ok := params.(*meshLoadParams)
	if !ok {
		err := fmt.Errorf("failed to cast params to *meshLoadParams")
		out <- err
		return err
	}
	res, err := mls.assetManager.LoadAsset(p.path, p.params)
	if err != nil {
		out <- err
		return err
	}
	core.LogDebug("Successfully loaded '%s' (%s).", p.path, res.Type)
	out <- res
	return nil
}
