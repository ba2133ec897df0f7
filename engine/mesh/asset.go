package mesh

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spaghettifunk/skelmesh/engine/core"
	"github.com/spaghettifunk/skelmesh/engine/math"
)

// Layout selects the binary layout handed to Decode.
type Layout uint8

const (
	// LayoutMinimal holds only vertex, normal, index and uv streams.
	LayoutMinimal Layout = iota + 1
	// LayoutChunked is a sequence of named sections terminated by END.
	LayoutChunked
)

func (l Layout) String() string {
	switch l {
	case LayoutMinimal:
		return "minimal"
	case LayoutChunked:
		return "chunked"
	default:
		return fmt.Sprintf("Layout(%d)", uint8(l))
	}
}

// ParseLayout maps a layout name back to its Layout.
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(s) {
	case "minimal":
		return LayoutMinimal, nil
	case "chunked":
		return LayoutChunked, nil
	}
	return 0, fmt.Errorf("unknown layout %q", s)
}

// MeshAsset is a decoded skeletal mesh: geometry streams, the bone table
// and the animation clips attached to it.
type MeshAsset struct {
	// Version is the version byte of the INFO section, if any.
	Version uint8

	Vertices []math.Vec3
	// Normals are parallel to Vertices.
	Normals []math.Vec3
	UVs     []math.Vec2
	// BoneWeights holds four skin weights per vertex.
	BoneWeights []math.Vec4
	// BoneIndices holds four bone ids per vertex, stored as floats.
	BoneIndices []math.Vec4
	// Indices is a triangle list.
	Indices []uint32

	// Bones always has BoneCapacity entries.
	Bones  []Bone
	RootID int

	Clips []*AnimationClip

	boneIDs map[string]int
}

// NewMeshAsset returns an empty asset with a bone table filled with
// default bones.
func NewMeshAsset() *MeshAsset {
	m := &MeshAsset{
		Bones:   make([]Bone, BoneCapacity),
		boneIDs: make(map[string]int),
	}
	for i := range m.Bones {
		m.Bones[i] = NewBone()
	}
	return m
}

// Decode parses data with the given layout. No partial asset is returned
// on failure.
func Decode(data []byte, layout Layout) (*MeshAsset, error) {
	m := NewMeshAsset()
	r := newReader(data)

	var err error
	switch layout {
	case LayoutMinimal:
		err = decodeMinimal(r, m)
	case LayoutChunked:
		err = decodeChunked(r, m)
	default:
		return nil, fmt.Errorf("%w: unknown layout %d", ErrMalformedInput, layout)
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// BoneByName returns the bone registered under name.
func (m *MeshAsset) BoneByName(name string) (*Bone, bool) {
	id, ok := m.boneIDs[name]
	if !ok {
		return nil, false
	}
	return &m.Bones[id], true
}

// BoneIDs returns the ids of all named bones in ascending order.
func (m *MeshAsset) BoneIDs() []int {
	ids := make([]int, 0, len(m.boneIDs))
	seen := make(map[int]bool, len(m.boneIDs))
	for _, id := range m.boneIDs {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

// AddBone stores b in the slot of its id and makes it resolvable by name.
func (m *MeshAsset) AddBone(b Bone) error {
	if int(b.ID) >= BoneCapacity {
		return fmt.Errorf("%w: %d >= %d", ErrOutOfRangeID, b.ID, BoneCapacity)
	}
	m.registerBone(b)
	return nil
}

// registerBone stores b at its id and makes it resolvable by name.
func (m *MeshAsset) registerBone(b Bone) {
	m.Bones[b.ID] = b
	m.boneIDs[b.Name] = int(b.ID)
}

// AddClip attaches clip to the asset, replacing a clip with the same name.
func (m *MeshAsset) AddClip(clip *AnimationClip) {
	for i, c := range m.Clips {
		if c.Name == clip.Name {
			core.LogDebug("replacing animation clip %q", clip.Name)
			m.Clips[i] = clip
			return
		}
	}
	m.Clips = append(m.Clips, clip)
}

// Clip returns the clip with the given name, or nil.
func (m *MeshAsset) Clip(name string) *AnimationClip {
	for _, c := range m.Clips {
		if c.Name == name {
			return c
		}
	}
	return nil
}
