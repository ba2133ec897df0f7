package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/skelmesh/engine/assets/loaders"
	"github.com/spaghettifunk/skelmesh/engine/core"
	"github.com/spaghettifunk/skelmesh/engine/mesh"
	"github.com/spaghettifunk/skelmesh/engine/resources"
)

var (
	ErrManagerClosed = errors.New("asset manager already closed")
	ErrUnknownAsset  = errors.New("unknown asset type")
)

type AssetInfo struct {
	Path       string
	Type       resources.ResourceType
	LastLoaded time.Time
}

// AssetManager indexes the asset files under a directory and, when watching,
// keeps the index current and fires asset events on changes.
type AssetManager struct {
	assets    map[string]AssetInfo
	loaders   map[resources.ResourceType]Loader
	loaderIDs map[resources.ResourceType]uint32

	mutex sync.RWMutex

	done     chan struct{}
	wg       sync.WaitGroup
	fsnotify *fsnotify.Watcher
	isClosed bool

	// type of files LoadAsset is asked for whose extension is unknown
	fallbackType resources.ResourceType
}

// NewAssetManager creates a manager. A file-system watcher is only created
// when watch is set.
func NewAssetManager(watch bool) (*AssetManager, error) {
	am := &AssetManager{
		assets:    make(map[string]AssetInfo),
		loaders:   make(map[resources.ResourceType]Loader),
		loaderIDs: make(map[resources.ResourceType]uint32),
		done:      make(chan struct{}),
	}
	if watch {
		fsWatch, err := fsnotify.NewWatcher()
		if err != nil {
			return nil, err
		}
		am.fsnotify = fsWatch
	}

	// Register loaders
	am.registerLoader(resources.ResourceTypeBinary, &loaders.BinaryLoader{})
	am.registerLoader(resources.ResourceTypeMesh, &loaders.MeshLoader{Layout: mesh.LayoutChunked})
	am.registerLoader(resources.ResourceTypeMeshMinimal, &loaders.MeshLoader{Layout: mesh.LayoutMinimal})
	am.registerLoader(resources.ResourceTypeAnimation, &loaders.AnimationLoader{})

	return am, nil
}

// Initialize indexes assetsDir recursively and starts watching it if the
// manager was created with watch set.
func (am *AssetManager) Initialize(assetsDir string) error {
	if am.isClosed {
		return ErrManagerClosed
	}
	if err := am.watchRecursive(assetsDir, false); err != nil {
		return err
	}
	if am.fsnotify != nil {
		am.wg.Add(1)
		go am.start()
	}
	return nil
}

// Shutdown stops the watcher, if any.
func (am *AssetManager) Shutdown() error {
	if am.isClosed {
		return nil
	}
	am.isClosed = true
	if am.fsnotify == nil {
		return nil
	}
	close(am.done)
	am.wg.Wait()
	return nil
}

// SetFallbackType makes LoadAsset decode files with an unknown extension as
// assetType. ResourceTypeNone turns the fallback off.
func (am *AssetManager) SetFallbackType(assetType resources.ResourceType) {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	am.fallbackType = assetType
}

// Register loaders for each asset type
func (am *AssetManager) registerLoader(assetType resources.ResourceType, loader Loader) {
	am.loaders[assetType] = loader
	am.loaderIDs[assetType] = core.IdentifierAquireNewID(loader)
}

// Assets returns the indexed assets of the given type ordered by path.
func (am *AssetManager) Assets(assetType resources.ResourceType) []AssetInfo {
	am.mutex.RLock()
	defer am.mutex.RUnlock()

	out := []AssetInfo{}
	for _, a := range am.assets {
		if a.Type == assetType {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// LoadAsset loads the file at path with the loader of its type. Files that
// are not indexed yet are indexed on the way.
func (am *AssetManager) LoadAsset(path string, params interface{}) (*resources.Resource, error) {
	path = filepath.Clean(path)

	am.mutex.RLock()
	asset, exists := am.assets[path]
	fallback := am.fallbackType
	am.mutex.RUnlock()
	if !exists {
		assetType := determineAssetType(path)
		if assetType == resources.ResourceTypeNone {
			assetType = fallback
		}
		if assetType == resources.ResourceTypeNone {
			return nil, fmt.Errorf("%w: %s", ErrUnknownAsset, path)
		}
		asset = AssetInfo{Path: path, Type: assetType}
	}

	loader, loaderExists := am.loaders[asset.Type]
	if !loaderExists {
		return nil, fmt.Errorf("no loader registered for asset type: %s", asset.Type)
	}

	res, err := loader.Load(path, asset.Type, params)
	if err != nil {
		return nil, err
	}
	res.LoaderID = am.loaderIDs[asset.Type]

	// Update the loaded time
	asset.LastLoaded = time.Now()
	am.mutex.Lock()
	am.assets[path] = asset
	am.mutex.Unlock()

	return res, nil
}

func (am *AssetManager) UnloadAsset(res *resources.Resource) error {
	if res == nil {
		return nil
	}
	loader, ok := am.loaders[res.Type]
	if !ok {
		return fmt.Errorf("no loader registered for asset type: %s", res.Type)
	}
	return loader.Unload(res)
}

func (am *AssetManager) start() {
	defer am.wg.Done()
	for {
		select {

		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			am.handleWatchEvent(e)

		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError(err.Error())

		case <-am.done:
			am.fsnotify.Close()
			return
		}
	}
}

func (am *AssetManager) handleWatchEvent(e fsnotify.Event) {
	path := filepath.Clean(e.Name)

	s, err := os.Stat(path)
	if err == nil && s != nil && s.IsDir() {
		if e.Op&fsnotify.Create != 0 {
			if err := am.watchRecursive(path, false); err != nil {
				core.LogError(err.Error())
			}
		}
		return
	}

	// Handle create or modify events
	if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
		if am.handleFileEvent(path) {
			core.LogDebug("asset changed: %s", path)
			core.EventFire(core.EventContext{
				Type: core.EVENT_CODE_ASSET_RELOADED,
				Data: &core.AssetEvent{Path: path},
			})
		}
	}
	// Renamed files are gone from their old path as well.
	if e.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		if am.removeAsset(path) {
			core.EventFire(core.EventContext{
				Type: core.EVENT_CODE_ASSET_REMOVED,
				Data: &core.AssetEvent{Path: path},
			})
		}
	}
}

// watchRecursive indexes every asset file under path and, with a watcher,
// adds or removes all its directories.
func (am *AssetManager) watchRecursive(path string, unWatch bool) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			if am.fsnotify == nil {
				return nil
			}
			if unWatch {
				return am.fsnotify.Remove(walkPath)
			}
			return am.fsnotify.Add(walkPath)
		}
		am.handleFileEvent(filepath.Clean(walkPath))
		return nil
	})
}

// Handle the creation or modification of a file. Reports whether path is
// an asset.
func (am *AssetManager) handleFileEvent(path string) bool {
	assetType := determineAssetType(path)
	if assetType == resources.ResourceTypeNone {
		return false
	}

	am.mutex.Lock()
	defer am.mutex.Unlock()
	info := am.assets[path]
	info.Path = path
	info.Type = assetType
	am.assets[path] = info
	return true
}

// Remove the asset from the index if it was deleted
func (am *AssetManager) removeAsset(path string) bool {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	_, ok := am.assets[path]
	delete(am.assets, path)
	return ok
}

func determineAssetType(path string) resources.ResourceType {
	switch filepath.Ext(path) {
	case ".skm":
		return resources.ResourceTypeMesh
	case ".sk1":
		return resources.ResourceTypeMeshMinimal
	case ".ska":
		return resources.ResourceTypeAnimation
	case ".bin":
		return resources.ResourceTypeBinary
	default:
		return resources.ResourceTypeNone
	}
}
