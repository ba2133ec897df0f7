package mesh

import (
	"github.com/spaghettifunk/skelmesh/engine/core"
)

// Section names of the chunked layout.
const (
	sectionInfo       = "INFO"
	sectionVertex     = "VERTEX"
	sectionNormal     = "NORMAL"
	sectionUV         = "UV"
	sectionIndex      = "INDEX"
	sectionBoneWeight = "BONE_WEIGHT"
	sectionBoneIndex  = "BONE_INDEX"
	sectionBone       = "BONE"
	sectionEnd        = "END"
)

// decodeChunked reads sections until END. Known sections consume exactly
// the bytes they parse; the declared size is only used to skip unknown
// sections.
func decodeChunked(r *reader, m *MeshAsset) error {
	p := defaultPrecisions()

	for {
		r.section = ""
		name, err := r.str()
		if err != nil {
			return err
		}
		r.section = name
		size, err := r.u32()
		if err != nil {
			return err
		}
		core.LogDebug("section %s: %d bytes at offset %d", name, size, r.offset())

		switch name {
		case sectionEnd:
			return nil
		case sectionInfo:
			err = decodeInfo(r, m, &p)
		case sectionVertex:
			m.Vertices, err = decodeVertices(r, p.vertex)
		case sectionNormal:
			m.Normals, err = decodeNormals(r, p.normal)
		case sectionUV:
			m.UVs, err = decodeUVs(r, p.uv)
		case sectionIndex:
			m.Indices, err = decodeIndices(r, p.index)
		case sectionBoneWeight:
			m.BoneWeights, err = decodeSkinBytes(r, maxUint8)
		case sectionBoneIndex:
			m.BoneIndices, err = decodeSkinBytes(r, 1)
		case sectionBone:
			err = decodeSkeleton(r, m)
		default:
			core.LogDebug("skipping unknown section %q", name)
			err = r.skip(int64(size))
		}
		if err != nil {
			return err
		}
	}
}
