package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spaghettifunk/skelmesh/engine"
	"github.com/spaghettifunk/skelmesh/engine/assets"
	"github.com/spaghettifunk/skelmesh/engine/config"
	"github.com/spaghettifunk/skelmesh/engine/core"
	"github.com/spaghettifunk/skelmesh/engine/export"
	"github.com/spaghettifunk/skelmesh/engine/inspect"
	"github.com/spaghettifunk/skelmesh/engine/mesh"
	"github.com/spaghettifunk/skelmesh/engine/resources"
	"github.com/spaghettifunk/skelmesh/engine/systems"
	"github.com/spaghettifunk/skelmesh/testbed"
)

func newSystemManager(cfg *config.Config) (*systems.SystemManager, error) {
	am, err := assets.NewAssetManager(false)
	if err != nil {
		return nil, err
	}
	if cfg.MeshLayout() == mesh.LayoutMinimal {
		am.SetFallbackType(resources.ResourceTypeMeshMinimal)
	} else {
		am.SetFallbackType(resources.ResourceTypeMesh)
	}
	return systems.NewSystemManager(cfg.Workers, am)
}

func baseName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// inspectCommand decodes files on the worker pool and writes one YAML
// document per file. Without files every asset under the assets directory
// is inspected.
func inspectCommand(cfg *config.Config, files []string, w io.Writer) error {
	sm, err := newSystemManager(cfg)
	if err != nil {
		return err
	}
	defer sm.Shutdown()

	if len(files) == 0 {
		if err := sm.AssetManager.Initialize(cfg.AssetsDir); err != nil {
			return err
		}
		for _, t := range []resources.ResourceType{resources.ResourceTypeMesh, resources.ResourceTypeMeshMinimal, resources.ResourceTypeAnimation} {
			for _, a := range sm.AssetManager.Assets(t) {
				files = append(files, a.Path)
			}
		}
		if len(files) == 0 {
			return fmt.Errorf("no assets found in %s", cfg.AssetsDir)
		}
	}

	results := sm.MeshLoaderSystem.LoadBatch(files, nil)
	docs := make([]interface{}, 0, len(results))
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			docs = append(docs, inspect.Summary{Name: baseName(r.Path), Path: r.Path, Error: r.Err.Error()})
			continue
		}
		switch data := r.Resource.Data.(type) {
		case *mesh.MeshAsset:
			s := inspect.Summarize(data, r.Resource.Name)
			s.Path = r.Path
			docs = append(docs, s)
		case *mesh.AnimationClip:
			s := inspect.SummarizeClip(data, nil)
			s.Path = r.Path
			docs = append(docs, s)
		default:
			failed++
			docs = append(docs, inspect.Summary{Name: r.Resource.Name, Path: r.Path, Error: fmt.Sprintf("cannot inspect %s resources", r.Resource.Type)})
		}
	}

	if err := inspect.Write(w, docs...); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be inspected", failed, len(results))
	}
	return nil
}

// exportCommand writes the mesh in files[0] together with the clips in the
// remaining files as one .glb. It returns the path written.
func exportCommand(cfg *config.Config, files []string) (string, error) {
	if len(files) == 0 {
		return "", fmt.Errorf("export needs a mesh file")
	}
	sm, err := newSystemManager(cfg)
	if err != nil {
		return "", err
	}
	defer sm.Shutdown()

	results := sm.MeshLoaderSystem.LoadBatch(files, nil)
	for _, r := range results {
		if r.Err != nil {
			return "", r.Err
		}
	}
	asset, ok := results[0].Resource.Data.(*mesh.MeshAsset)
	if !ok {
		return "", fmt.Errorf("%s is not a mesh", files[0])
	}
	for _, r := range results[1:] {
		clip, ok := r.Resource.Data.(*mesh.AnimationClip)
		if !ok {
			return "", fmt.Errorf("%s is not an animation", r.Path)
		}
		asset.AddClip(clip)
	}

	if err := os.MkdirAll(cfg.ExportDir, 0o755); err != nil {
		return "", err
	}
	name := results[0].Resource.Name
	out := filepath.Join(cfg.ExportDir, name+".glb")
	if err := export.SaveBinary(asset, name, out); err != nil {
		return "", err
	}
	core.LogInfo("exported %s with %d clips to %s", name, len(asset.Clips), out)
	return out, nil
}

// playCommand runs the player until the configured duration elapsed or the
// process is interrupted.
func playCommand(cfg *config.Config, files []string) error {
	if len(files) == 0 || len(files) > 2 {
		return fmt.Errorf("play needs a mesh file and at most one clip file")
	}
	clipPath := ""
	if len(files) == 2 {
		clipPath = files[1]
	}

	tb, err := testbed.NewTestGame(cfg, files[0], clipPath)
	if err != nil {
		return err
	}
	e, err := engine.New(tb.Game)
	if err != nil {
		return err
	}
	defer e.Shutdown()

	if err := e.Initialize(); err != nil {
		return err
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer signal.Stop(sigCh)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-sigCh:
			e.Stop()
		case <-done:
		}
	}()

	return e.Run()
}
