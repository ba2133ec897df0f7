package loaders

import (
	"fmt"

	"github.com/spaghettifunk/skelmesh/engine/core"
	"github.com/spaghettifunk/skelmesh/engine/mesh"
	"github.com/spaghettifunk/skelmesh/engine/resources"
)

type AnimationLoader struct {
	binary BinaryLoader
}

func (al *AnimationLoader) Load(path string, assetType resources.ResourceType, params interface{}) (*resources.Resource, error) {
	res, err := al.binary.Load(path, assetType, params)
	if err != nil {
		return nil, err
	}

	clip, err := mesh.DecodeAnimation(res.Data.([]byte))
	if err != nil {
		return nil, fmt.Errorf("decoding animation %s: %w", path, err)
	}
	core.LogDebug("loaded animation %s: clip %q, %d channels, %.3fs", path, clip.Name, len(clip.Channels), clip.Duration)

	res.Name = clip.Name
	res.Data = clip
	return res, nil
}

func (al *AnimationLoader) Unload(r *resources.Resource) error {
	return al.binary.Unload(r)
}
