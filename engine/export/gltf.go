package export

import (
	"errors"
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/spaghettifunk/skelmesh/engine/core"
	"github.com/spaghettifunk/skelmesh/engine/math"
	"github.com/spaghettifunk/skelmesh/engine/mesh"
)

var ErrEmptyAsset = errors.New("asset has neither geometry nor bones")

type gltfExporter struct {
	*gltf.Document
	asset *mesh.MeshAsset
	// bone id -> node index
	boneNodes map[int]uint32
	// bone id -> joint index
	joints map[int]uint16
}

// Document converts a decoded asset into a glTF document holding its mesh,
// its skin and one animation per clip.
func Document(m *mesh.MeshAsset, name string) (*gltf.Document, error) {
	ids := m.BoneIDs()
	if len(m.Vertices) == 0 && len(ids) == 0 {
		return nil, ErrEmptyAsset
	}

	e := &gltfExporter{
		Document:  gltf.NewDocument(),
		asset:     m,
		boneNodes: map[int]uint32{},
		joints:    map[int]uint16{},
	}

	e.addBoneNodes(ids)
	var skin *uint32
	if len(ids) > 0 {
		skin = gltf.Index(e.addSkin(ids))
	}
	if len(m.Vertices) > 0 {
		e.addMesh(name, skin)
	}
	for _, clip := range m.Clips {
		e.addAnimation(clip)
	}
	return e.Document, nil
}

// SaveBinary writes m to path as a binary glTF (.glb).
func SaveBinary(m *mesh.MeshAsset, name string, path string) error {
	doc, err := Document(m, name)
	if err != nil {
		return err
	}
	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	core.LogDebug("exported %s: %d nodes, %d animations", path, len(doc.Nodes), len(doc.Animations))
	return nil
}

func (e *gltfExporter) addBoneNodes(ids []int) {
	for _, id := range ids {
		b := &e.asset.Bones[id]
		e.boneNodes[id] = uint32(len(e.Nodes))
		e.Nodes = append(e.Nodes, &gltf.Node{
			Name:        b.Name,
			Translation: [3]float32{b.Position.X, b.Position.Y, b.Position.Z},
			Rotation:    [4]float32{b.Rotation.X, b.Rotation.Y, b.Rotation.Z, b.Rotation.W},
		})
	}

	isChild := map[int]bool{}
	for _, id := range ids {
		node := e.Nodes[e.boneNodes[id]]
		for _, c := range e.asset.Bones[id].Children {
			n, ok := e.boneNodes[c]
			// a node may only have one parent
			if !ok || isChild[c] || c == id {
				continue
			}
			isChild[c] = true
			node.Children = append(node.Children, n)
		}
	}
	for _, id := range ids {
		if !isChild[id] {
			e.Scenes[0].Nodes = append(e.Scenes[0].Nodes, e.boneNodes[id])
		}
	}
}

// addMatrices stores one MAT4 accessor. Mat4 elements already follow the
// column-major order glTF expects.
func (e *gltfExporter) addMatrices(mats []math.Mat4) uint32 {
	a := make([][4]float32, len(mats)*4)
	for i, m := range mats {
		for r := 0; r < 4; r++ {
			copy(a[i*4+r][:], m.Data[r*4:r*4+4])
		}
	}
	acc := modeler.WriteTangent(e.Document, a)
	e.Accessors[acc].Type = gltf.AccessorMat4
	e.Accessors[acc].Count /= 4
	e.BufferViews[*e.Accessors[acc].BufferView].ByteStride *= 4
	return acc
}

func (e *gltfExporter) addSkin(ids []int) uint32 {
	joints := make([]uint32, len(ids))
	invmats := make([]math.Mat4, len(ids))
	for i, id := range ids {
		joints[i] = e.boneNodes[id]
		invmats[i] = e.asset.Bones[id].InverseBindMatrix
		e.joints[id] = uint16(i)
	}
	skin := &gltf.Skin{
		Name:                "skeleton",
		Joints:              joints,
		InverseBindMatrices: gltf.Index(e.addMatrices(invmats)),
	}
	if root, ok := e.boneNodes[e.asset.RootID]; ok {
		skin.Skeleton = gltf.Index(root)
	}
	e.Skins = append(e.Skins, skin)
	return uint32(len(e.Skins) - 1)
}

func (e *gltfExporter) addMesh(name string, skin *uint32) {
	m := e.asset
	count := len(m.Vertices)

	positions := make([][3]float32, count)
	for i, v := range m.Vertices {
		positions[i] = [3]float32{v.X, v.Y, v.Z}
	}
	attributes := map[string]uint32{
		"POSITION": modeler.WritePosition(e.Document, positions),
	}

	indices := validIndices(m.Indices, count)

	normals := m.Normals
	if len(normals) != count && len(indices) > 0 {
		core.LogDebug("generating %d face normals for %s", count, name)
		normals = math.GeometryGenerateNormals(m.Vertices, indices)
	}
	if len(normals) == count {
		out := make([][3]float32, count)
		for i, n := range normals {
			out[i] = [3]float32{n.X, n.Y, n.Z}
		}
		attributes["NORMAL"] = modeler.WriteNormal(e.Document, out)
	}

	if len(m.UVs) == count {
		uvs := make([][2]float32, count)
		for i, uv := range m.UVs {
			uvs[i] = [2]float32{uv.X, uv.Y}
		}
		attributes["TEXCOORD_0"] = modeler.WriteTextureCoord(e.Document, uvs)
	}

	if skin != nil && len(m.BoneIndices) == count && len(m.BoneWeights) == count {
		joints0, weights0 := e.skinAttributes()
		attributes["JOINTS_0"] = modeler.WriteJoints(e.Document, joints0)
		attributes["WEIGHTS_0"] = modeler.WriteWeights(e.Document, weights0)
	}

	primitive := &gltf.Primitive{
		Attributes: attributes,
	}
	if len(indices) > 0 {
		primitive.Indices = gltf.Index(modeler.WriteIndices(e.Document, indices))
	}
	e.Meshes = append(e.Meshes, &gltf.Mesh{
		Name:       name,
		Primitives: []*gltf.Primitive{primitive},
	})

	e.Nodes = append(e.Nodes, &gltf.Node{
		Name: name,
		Mesh: gltf.Index(uint32(len(e.Meshes) - 1)),
		Skin: skin,
	})
	e.Scenes[0].Nodes = append(e.Scenes[0].Nodes, uint32(len(e.Nodes)-1))
}

// skinAttributes maps the per-vertex bone ids onto joint indices. Ids that
// name no bone get joint 0 with a zero weight.
func (e *gltfExporter) skinAttributes() ([][4]uint16, [][4]float32) {
	m := e.asset
	joints0 := make([][4]uint16, len(m.BoneIndices))
	weights0 := make([][4]float32, len(m.BoneWeights))
	for v := range m.BoneIndices {
		ids := [4]float32{m.BoneIndices[v].X, m.BoneIndices[v].Y, m.BoneIndices[v].Z, m.BoneIndices[v].W}
		ws := [4]float32{m.BoneWeights[v].X, m.BoneWeights[v].Y, m.BoneWeights[v].Z, m.BoneWeights[v].W}
		for k := 0; k < 4; k++ {
			j, ok := e.joints[int(ids[k])]
			if !ok {
				continue
			}
			joints0[v][k] = j
			weights0[v][k] = ws[k]
		}
	}
	return joints0, weights0
}

// validIndices drops an incomplete trailing triangle. Any index outside the
// vertex range discards the whole list.
func validIndices(indices []uint32, count int) []uint32 {
	indices = indices[:len(indices)-len(indices)%3]
	for _, i := range indices {
		if int(i) >= count {
			core.LogWarn("index %d outside %d vertices, exporting without indices", i, count)
			return nil
		}
	}
	return indices
}

// addAnimation turns the translation and rotation channels of clip into
// samplers. Keys are offsets from the bind pose, so they are combined
// with it here.
func (e *gltfExporter) addAnimation(clip *mesh.AnimationClip) {
	a := &gltf.Animation{Name: clip.Name}
	for _, ch := range clip.Channels {
		id, ok := e.boneID(ch.Target)
		if !ok || len(ch.Times) == 0 || len(ch.Values) < len(ch.Times) {
			continue
		}
		b := &e.asset.Bones[id]

		var samples uint32
		var path gltf.TRSProperty
		switch ch.Kind {
		case mesh.ChannelTranslation:
			translations := make([][3]float32, len(ch.Times))
			for i := range ch.Times {
				p := b.Position.Add(ch.Values[i].ToVec3())
				translations[i] = [3]float32{p.X, p.Y, p.Z}
			}
			samples = modeler.WritePosition(e.Document, translations)
			path = gltf.TRSTranslation
		case mesh.ChannelRotation:
			rotations := make([][4]float32, len(ch.Times))
			for i := range ch.Times {
				q := b.Rotation.Mul(math.NewQuatFromVec4(ch.Values[i]))
				rotations[i] = [4]float32{q.X, q.Y, q.Z, q.W}
			}
			samples = modeler.WriteTangent(e.Document, rotations)
			path = gltf.TRSRotation
		default:
			// scale keys are not evaluated by the skeleton either
			continue
		}

		keys := modeler.WriteAccessor(e.Document, gltf.TargetArrayBuffer, ch.Times)
		a.Samplers = append(a.Samplers, &gltf.AnimationSampler{
			Input:         gltf.Index(keys),
			Output:        gltf.Index(samples),
			Interpolation: gltf.InterpolationLinear,
		})
		a.Channels = append(a.Channels, &gltf.Channel{
			Sampler: gltf.Index(uint32(len(a.Samplers) - 1)),
			Target: gltf.ChannelTarget{
				Node: gltf.Index(e.boneNodes[id]),
				Path: path,
			},
		})
	}
	if len(a.Channels) > 0 {
		e.Animations = append(e.Animations, a)
	}
}

func (e *gltfExporter) boneID(name string) (int, bool) {
	b, ok := e.asset.BoneByName(name)
	if !ok {
		return 0, false
	}
	_, exported := e.boneNodes[int(b.ID)]
	return int(b.ID), exported
}
