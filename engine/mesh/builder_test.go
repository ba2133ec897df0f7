package mesh

import (
	"bytes"
	stdmath "math"

	"github.com/anaminus/parse"
)

// builder assembles little-endian test fixtures.
type builder struct {
	buf bytes.Buffer
	fw  *parse.BinaryWriter
}

func newBuilder() *builder {
	b := &builder{}
	b.fw = parse.NewBinaryWriter(&b.buf)
	return b
}

func (b *builder) num(v interface{}) *builder {
	if b.fw.Number(v) {
		panic(b.fw.Err())
	}
	return b
}

func (b *builder) raw(p []byte) *builder {
	if b.fw.Bytes(p) {
		panic(b.fw.Err())
	}
	return b
}

func (b *builder) u8(v uint8) *builder    { return b.num(v) }
func (b *builder) u16(v uint16) *builder  { return b.num(v) }
func (b *builder) u32(v uint32) *builder  { return b.num(v) }
func (b *builder) f32(v float32) *builder { return b.num(v) }

func (b *builder) floats(v ...float32) *builder {
	for _, f := range v {
		b.f32(f)
	}
	return b
}

func (b *builder) str(s string) *builder {
	return b.u8(uint8(len(s))).raw([]byte(s))
}

// section writes a chunk header followed by payload.
func (b *builder) section(name string, payload []byte) *builder {
	return b.str(name).u32(uint32(len(payload))).raw(payload)
}

func (b *builder) end() *builder {
	return b.section(sectionEnd, nil)
}

func (b *builder) bytes() []byte {
	return append([]byte(nil), b.buf.Bytes()...)
}

func quantizeSigned(v, min, max float32) int16 {
	return int16(stdmath.Round(float64((v - min) / (max - min) * 32767)))
}

// hierarchy encodes a node and its children as id, child count, children.
type node struct {
	id       uint8
	children []node
}

func (b *builder) hierarchy(n node) *builder {
	b.u8(n.id).u8(uint8(len(n.children)))
	for _, c := range n.children {
		b.hierarchy(c)
	}
	return b
}

type boneRecord struct {
	name     string
	id       uint8
	position [3]float32
	rotation [4]float32
	ibm      [12]float32
}

func (b *builder) bone(r boneRecord) *builder {
	b.str(r.name).u8(r.id)
	b.floats(r.position[:]...)
	b.floats(r.rotation[:]...)
	return b.floats(r.ibm[:]...)
}

var identityRows = [12]float32{1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0}

// skeletonPayload builds a BONE section: root(0) -> spine(1) -> {head(2), arm(3)}.
func skeletonPayload() []byte {
	b := newBuilder()
	bones := []boneRecord{
		{name: "root", id: 0, rotation: [4]float32{0, 0, 0, 1}, ibm: identityRows},
		{name: "spine", id: 1, position: [3]float32{0, 1, 0}, rotation: [4]float32{0, 0, 0, 1}, ibm: identityRows},
		{name: "head", id: 2, position: [3]float32{0, 1, 0}, rotation: [4]float32{0, 0, 0.7071068, 0.7071068}, ibm: identityRows},
		{name: "arm", id: 3, position: [3]float32{1, 0, 0}, rotation: [4]float32{0, 0, 0, 1},
			ibm: [12]float32{1, 0, 0, 0, 1, 0, 0, 0, 1, -1, -1, 0}},
	}
	b.u8(uint8(len(bones)))
	for _, r := range bones {
		b.bone(r)
	}
	b.hierarchy(node{id: 0, children: []node{
		{id: 1, children: []node{{id: 2}, {id: 3}}},
	}})
	return b.bytes()
}

// chunkedFixture is a full-precision chunked asset with one triangle and
// the skeleton above.
func chunkedFixture() []byte {
	b := newBuilder()
	b.section(sectionInfo, []byte{1, 4, 4, 4, 4})
	b.section(sectionVertex, newBuilder().u32(3).floats(0, 0, 0, 1, 0, 0, 0, 1, 0).bytes())
	b.section(sectionNormal, newBuilder().u32(3).floats(0, 0, 1, 0, 0, 1, 0, 0, 1).bytes())
	b.section(sectionUV, newBuilder().u32(3).floats(0, 0, 1, 0, 0, 1).bytes())
	b.section(sectionIndex, newBuilder().u32(3).u32(0).u32(1).u32(2).bytes())
	b.section(sectionBoneWeight, newBuilder().u32(1).raw([]byte{255, 0, 51, 0}).bytes())
	b.section(sectionBoneIndex, newBuilder().u32(1).raw([]byte{1, 2, 3, 0}).bytes())
	b.section(sectionBone, skeletonPayload())
	return b.end().bytes()
}

// clipFixture is an animation block moving spine along X and turning head.
func clipFixture() []byte {
	b := newBuilder()
	b.u8(1)
	b.u8(2).u8(7).str("spine").u8(9).str("head")
	b.str("wave")
	b.u32(2)

	b.u8(7).u8(uint8(ChannelTranslation))
	b.u32(2).floats(0, 1)
	b.u32(2).floats(0, 0, 0, 10, 0, 0)

	b.u8(9).u8(uint8(ChannelRotation))
	b.u32(3).floats(0, 1, 2)
	b.u32(3).floats(0, 0, 0, 1, 0, 0, 1, 0, 0, 0, 0, 1)
	return b.bytes()
}
