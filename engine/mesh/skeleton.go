package mesh

import (
	"github.com/spaghettifunk/skelmesh/engine/math"
)

func decodeSkeleton(r *reader, m *MeshAsset) error {
	count, err := r.u8()
	if err != nil {
		return err
	}

	for i := 0; i < int(count); i++ {
		name, err := r.str()
		if err != nil {
			return err
		}
		id, err := r.u8()
		if err != nil {
			return err
		}
		if int(id) >= BoneCapacity {
			return r.outOfRange(int(id))
		}

		// position xyz, rotation xyzw, then four rows of three columns
		var record [3 + 4 + 12]float32
		if err := r.number(&record); err != nil {
			return err
		}

		b := NewBone()
		b.ID = id
		b.Name = name
		b.Position = math.NewVec3(record[0], record[1], record[2])
		b.Rotation = math.Quaternion{X: record[3], Y: record[4], Z: record[5], W: record[6]}
		b.InverseBindMatrix = inverseBindMatrix(record[7:])
		b.Changed = true
		m.registerBone(b)
	}

	// The first byte of the hierarchy is the id of the root node.
	children := make([][]int, BoneCapacity)
	root, err := decodeHierarchy(r, children, 0)
	if err != nil {
		return err
	}
	m.RootID = root
	for id := range m.Bones {
		m.Bones[id].Children = children[id]
	}
	return nil
}

// inverseBindMatrix expands four 3-column rows into a matrix whose fourth
// column is 0, 0, 0, 1.
func inverseBindMatrix(rows []float32) math.Mat4 {
	out := math.Mat4{}
	for row := 0; row < 4; row++ {
		copy(out.Data[row*4:row*4+3], rows[row*3:row*3+3])
	}
	out.Data[15] = 1
	return out
}

// decodeHierarchy reads one node (id, child count, children...) and appends
// each child id to the list of its parent. It returns the node id.
func decodeHierarchy(r *reader, children [][]int, depth int) (int, error) {
	if depth >= BoneCapacity {
		return 0, r.malformed("bone hierarchy deeper than %d levels", BoneCapacity)
	}

	var node [2]uint8
	if err := r.number(&node); err != nil {
		return 0, err
	}
	id, childCount := int(node[0]), int(node[1])
	if id >= BoneCapacity {
		return 0, r.outOfRange(id)
	}

	for i := 0; i < childCount; i++ {
		child, err := decodeHierarchy(r, children, depth+1)
		if err != nil {
			return 0, err
		}
		children[id] = append(children[id], child)
	}
	return id, nil
}
