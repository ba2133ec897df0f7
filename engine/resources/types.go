package resources

import (
	"fmt"

	"github.com/google/uuid"
)

type ResourceType int

/** @brief Pre-defined resource types. */
const (
	/** @brief Not a known resource. */
	ResourceTypeNone ResourceType = iota
	/** @brief Raw bytes. */
	ResourceTypeBinary
	/** @brief Skeletal mesh in the chunked layout (.skm). */
	ResourceTypeMesh
	/** @brief Mesh in the minimal layout (.sk1). */
	ResourceTypeMeshMinimal
	/** @brief Animation block (.ska). */
	ResourceTypeAnimation
)

func (t ResourceType) String() string {
	switch t {
	case ResourceTypeNone:
		return "none"
	case ResourceTypeBinary:
		return "binary"
	case ResourceTypeMesh:
		return "mesh"
	case ResourceTypeMeshMinimal:
		return "mesh-minimal"
	case ResourceTypeAnimation:
		return "animation"
	default:
		return fmt.Sprintf("ResourceType(%d)", int(t))
	}
}

/**
 * @brief A generic structure for a resource. All resource loaders
 * load data into these.
 */
type Resource struct {
	/** @brief Unique id of this loaded instance. */
	ID uuid.UUID
	/** @brief The identifier of the loader which handles this resource. */
	LoaderID uint32
	/** @brief The resource type. */
	Type ResourceType
	/** @brief The name of the resource. */
	Name string
	/** @brief The full file path of the resource. */
	FullPath string
	/** @brief The size of the file the resource was read from, in bytes. */
	DataSize uint64
	/**
	 * @brief The resource data: []byte for binary resources,
	 * *mesh.MeshAsset for meshes and *mesh.AnimationClip for animations.
	 */
	Data interface{}
}
