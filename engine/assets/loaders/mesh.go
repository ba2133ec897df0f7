package loaders

import (
	"fmt"

	"github.com/spaghettifunk/skelmesh/engine/core"
	"github.com/spaghettifunk/skelmesh/engine/mesh"
	"github.com/spaghettifunk/skelmesh/engine/resources"
)

// MeshLoader decodes mesh files of a single layout.
type MeshLoader struct {
	Layout mesh.Layout
	binary BinaryLoader
}

func (ml *MeshLoader) Load(path string, assetType resources.ResourceType, params interface{}) (*resources.Resource, error) {
	res, err := ml.binary.Load(path, assetType, params)
	if err != nil {
		return nil, err
	}

	asset, err := mesh.Decode(res.Data.([]byte), ml.Layout)
	if err != nil {
		return nil, fmt.Errorf("decoding %s mesh %s: %w", ml.Layout, path, err)
	}
	core.LogDebug("loaded mesh %s: %d vertices, %d indices", path, len(asset.Vertices), len(asset.Indices))

	res.Data = asset
	return res, nil
}

func (ml *MeshLoader) Unload(r *resources.Resource) error {
	return ml.binary.Unload(r)
}
