package mesh

import "github.com/spaghettifunk/skelmesh/engine/math"

// BoneCapacity is the fixed size of every bone table. Valid ids are 0-254.
const BoneCapacity = 255

/**
 * @brief A node of the skeleton. Bones live in the fixed-capacity table of
 * their MeshAsset and reference their children by table index.
 */
type Bone struct {
	/** @brief The id of the bone, equal to its index in the bone table. */
	ID uint8
	/** @brief The name of the bone. Empty for unused slots. */
	Name string

	/** @brief The bind position. */
	Position math.Vec3
	/** @brief The bind rotation. */
	Rotation math.Quaternion
	/** @brief Scale written by scale channels. Not used by the evaluator. */
	Scale math.Vec3
	/** @brief Maps model space into the bind space of this bone. */
	InverseBindMatrix math.Mat4

	/** @brief Runtime position offset, added to the bind position. */
	LocalPosition math.Vec3
	/** @brief Runtime rotation offset, applied after the bind rotation. */
	LocalRotation math.Quaternion

	/**
	 * @brief Set once decoding or animation touched this bone. It is never
	 * cleared, so bones that were never touched keep their last world matrix.
	 */
	Changed bool
	/** @brief The world matrix computed by CalculateBones. */
	Matrix math.Mat4

	/** @brief Table indices of the child bones. */
	Children []int
}

// NewBone returns the default bone used to fill unused table slots.
func NewBone() Bone {
	return Bone{
		Rotation:          math.NewQuatIdentity(),
		Scale:             math.NewVec3One(),
		InverseBindMatrix: math.NewMat4Identity(),
		LocalRotation:     math.NewQuatIdentity(),
		Matrix:            math.NewMat4Identity(),
	}
}

// Local returns the rotation by Rotation*LocalRotation followed by the
// translation by Position+LocalPosition.
func (b *Bone) Local() math.Mat4 {
	t := math.TransformFromPositionRotation(
		b.Position.Add(b.LocalPosition),
		b.Rotation.Mul(b.LocalRotation),
	)
	return t.GetLocal()
}
