package mesh

import (
	"github.com/spaghettifunk/skelmesh/engine/core"
	"github.com/spaghettifunk/skelmesh/engine/math"
)

// CalculateBones walks the hierarchy depth-first from rootID, parents before
// children. A changed bone gets world = local placed under its parent world;
// an unchanged bone keeps its matrix but still passes it to its children.
// A bone already on the current path is not entered again.
func (m *MeshAsset) CalculateBones(rootID int) {
	if rootID < 0 || rootID >= len(m.Bones) {
		core.LogWarn("root bone %d outside the bone table", rootID)
		return
	}
	onPath := make([]bool, len(m.Bones))
	m.calculateBone(rootID, math.NewMat4Identity(), onPath)
}

func (m *MeshAsset) calculateBone(id int, parent math.Mat4, onPath []bool) {
	if onPath[id] {
		core.LogWarn("bone %d is its own ancestor, skipping the cycle", id)
		return
	}

	bone := &m.Bones[id]
	if bone.Changed {
		bone.Matrix = bone.Local().Mul(parent)
	}

	onPath[id] = true
	for _, child := range bone.Children {
		if child < 0 || child >= len(m.Bones) {
			continue
		}
		m.calculateBone(child, bone.Matrix, onPath)
	}
	onPath[id] = false
}
