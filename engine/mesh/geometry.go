package mesh

import (
	"github.com/spaghettifunk/skelmesh/engine/math"
)

const (
	// precisionFull selects 32-bit floats and 32-bit indices.
	precisionFull uint8 = 4
	// precisionHalf selects the quantized 16-bit forms.
	precisionHalf uint8 = 2

	maxInt16  = 0x7FFF
	maxUint16 = 0xFFFF
	maxUint8  = 0xFF
)

// precisions holds the per-attribute precision bytes of an INFO section.
type precisions struct {
	vertex uint8
	uv     uint8
	index  uint8
	normal uint8
}

func defaultPrecisions() precisions {
	return precisions{
		vertex: precisionFull,
		uv:     precisionFull,
		index:  precisionFull,
		normal: precisionFull,
	}
}

// normalizePrecision keeps the quantized form and maps everything else to
// the full-precision default.
func normalizePrecision(p uint8) uint8 {
	if p == precisionHalf {
		return precisionHalf
	}
	return precisionFull
}

func decodeInfo(r *reader, m *MeshAsset, p *precisions) error {
	var info [5]uint8
	if err := r.number(&info); err != nil {
		return err
	}
	m.Version = info[0]
	p.vertex = normalizePrecision(info[1])
	p.uv = normalizePrecision(info[2])
	p.index = normalizePrecision(info[3])
	p.normal = normalizePrecision(info[4])
	return nil
}

func decodeVertices(r *reader, precision uint8) ([]math.Vec3, error) {
	if precision == precisionHalf {
		n, err := r.count(3*2, 6*4)
		if err != nil {
			return nil, err
		}
		// min_x, max_x, min_y, max_y, min_z, max_z
		var bounds [6]float32
		if err := r.number(&bounds); err != nil {
			return nil, err
		}
		raw := make([]int16, n*3)
		if err := r.number(raw); err != nil {
			return nil, err
		}
		out := make([]math.Vec3, n)
		for i := range out {
			out[i] = math.NewVec3(
				math.Denormalize(float32(raw[i*3+0])/maxInt16, bounds[0], bounds[1]),
				math.Denormalize(float32(raw[i*3+1])/maxInt16, bounds[2], bounds[3]),
				math.Denormalize(float32(raw[i*3+2])/maxInt16, bounds[4], bounds[5]),
			)
		}
		return out, nil
	}
	return decodeVec3s(r)
}

func decodeNormals(r *reader, precision uint8) ([]math.Vec3, error) {
	if precision == precisionHalf {
		n, err := r.count(3*2, 0)
		if err != nil {
			return nil, err
		}
		raw := make([]int16, n*3)
		if err := r.number(raw); err != nil {
			return nil, err
		}
		out := make([]math.Vec3, n)
		for i := range out {
			out[i] = math.NewVec3(
				float32(raw[i*3+0])/maxInt16,
				float32(raw[i*3+1])/maxInt16,
				float32(raw[i*3+2])/maxInt16,
			)
		}
		return out, nil
	}
	return decodeVec3s(r)
}

func decodeUVs(r *reader, precision uint8) ([]math.Vec2, error) {
	if precision == precisionHalf {
		n, err := r.count(2*2, 0)
		if err != nil {
			return nil, err
		}
		raw := make([]uint16, n*2)
		if err := r.number(raw); err != nil {
			return nil, err
		}
		out := make([]math.Vec2, n)
		for i := range out {
			out[i] = math.NewVec2(
				float32(raw[i*2+0])/maxUint16,
				float32(raw[i*2+1])/maxUint16,
			)
		}
		return out, nil
	}
	n, err := r.count(2*4, 0)
	if err != nil {
		return nil, err
	}
	raw := make([]float32, n*2)
	if err := r.number(raw); err != nil {
		return nil, err
	}
	out := make([]math.Vec2, n)
	for i := range out {
		out[i] = math.NewVec2(raw[i*2+0], raw[i*2+1])
	}
	return out, nil
}

func decodeIndices(r *reader, precision uint8) ([]uint32, error) {
	if precision == precisionHalf {
		n, err := r.count(2, 0)
		if err != nil {
			return nil, err
		}
		raw := make([]uint16, n)
		if err := r.number(raw); err != nil {
			return nil, err
		}
		return widen(raw), nil
	}
	n, err := r.count(4, 0)
	if err != nil {
		return nil, err
	}
	out := make([]uint32, n)
	if err := r.number(out); err != nil {
		return nil, err
	}
	return out, nil
}

// decodeSkinBytes reads four bytes per entry, each divided by scale.
func decodeSkinBytes(r *reader, scale float32) ([]math.Vec4, error) {
	n, err := r.count(4, 0)
	if err != nil {
		return nil, err
	}
	raw := make([]uint8, n*4)
	if err := r.number(raw); err != nil {
		return nil, err
	}
	out := make([]math.Vec4, n)
	for i := range out {
		out[i] = math.NewVec4(
			float32(raw[i*4+0])/scale,
			float32(raw[i*4+1])/scale,
			float32(raw[i*4+2])/scale,
			float32(raw[i*4+3])/scale,
		)
	}
	return out, nil
}

func decodeVec3s(r *reader) ([]math.Vec3, error) {
	n, err := r.count(3*4, 0)
	if err != nil {
		return nil, err
	}
	return readVec3s(r, n)
}

func readVec3s(r *reader, n int) ([]math.Vec3, error) {
	raw := make([]float32, n*3)
	if err := r.number(raw); err != nil {
		return nil, err
	}
	out := make([]math.Vec3, n)
	for i := range out {
		out[i] = math.NewVec3(raw[i*3+0], raw[i*3+1], raw[i*3+2])
	}
	return out, nil
}

func widen(raw []uint16) []uint32 {
	out := make([]uint32, len(raw))
	for i, v := range raw {
		out[i] = uint32(v)
	}
	return out
}

// decodeMinimal reads the minimal layout: vertex, normal, index and uv
// streams, each prefixed by a 2-byte count.
func decodeMinimal(r *reader, m *MeshAsset) error {
	minimalCount := func(name string, stride int64) (int, error) {
		r.section = name
		n, err := r.u16()
		if err != nil {
			return 0, err
		}
		if err := r.need(int64(n), stride); err != nil {
			return 0, err
		}
		return int(n), nil
	}

	n, err := minimalCount(sectionVertex, 3*4)
	if err != nil {
		return err
	}
	if m.Vertices, err = readVec3s(r, n); err != nil {
		return err
	}

	if n, err = minimalCount(sectionNormal, 3*4); err != nil {
		return err
	}
	if m.Normals, err = readVec3s(r, n); err != nil {
		return err
	}

	if n, err = minimalCount(sectionIndex, 2); err != nil {
		return err
	}
	indices := make([]uint16, n)
	if err := r.number(indices); err != nil {
		return err
	}
	m.Indices = widen(indices)

	if n, err = minimalCount(sectionUV, 2*4); err != nil {
		return err
	}
	uvs := make([]float32, n*2)
	if err := r.number(uvs); err != nil {
		return err
	}
	m.UVs = make([]math.Vec2, n)
	for i := range m.UVs {
		m.UVs[i] = math.NewVec2(uvs[i*2+0], uvs[i*2+1])
	}
	return nil
}
