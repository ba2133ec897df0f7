package math

import (
	"testing"
)

const eps = 0.00001

func TestQuaternionToMat4(t *testing.T) {
	// 90 degrees around Z takes +X to +Y.
	q := NewQuatFromAxisAngle(NewVec3(0, 0, 1), DegToRad(90), true)
	v := NewVec3(1, 0, 0).Transform(q.ToMat4())
	if !v.Compare(NewVec3(0, 1, 0), eps) {
		t.Error("rotated: ", v)
	}

	id := NewQuatIdentity().ToMat4()
	if id != NewMat4Identity() {
		t.Error("identity: ", id)
	}
}

func TestMat4Mul(t *testing.T) {
	tr := NewMat4Translation(NewVec3(1, 2, 3))
	rot := NewQuatFromAxisAngle(NewVec3(0, 0, 1), DegToRad(90), true).ToMat4()

	// rotate first, then translate
	m := rot.Mul(tr)
	v := NewVec3(1, 0, 0).Transform(m)
	if !v.Compare(NewVec3(1, 3, 3), eps) {
		t.Error("rotate then translate: ", v)
	}
	if !m.Position().Compare(NewVec3(1, 2, 3), eps) {
		t.Error("position: ", m.Position())
	}
}

func TestMat4Inverse(t *testing.T) {
	rot := NewQuatFromAxisAngle(NewVec3(1, 1, 0).Normalized(), 0.7, true).ToMat4()
	m := rot.Mul(NewMat4Translation(NewVec3(4, -2, 0.5)))

	inv := m.Inverse()
	r := m.Mul(inv)
	id := NewMat4Identity()
	for i := range r.Data {
		if kabs(r.Data[i]-id.Data[i]) > 0.0001 {
			t.Fatal("m * inv(m) != identity: ", r.Data)
		}
	}

	var zero Mat4
	if zero.Inverse() != zero {
		t.Error("singular inverse should be zero")
	}
}

func TestLerp(t *testing.T) {
	a := NewVec4(0, 0, 0, 1)
	b := NewVec4(1, 2, 3, 0)
	r := a.Lerp(b, 0.5)
	if !r.Compare(NewVec4(0.5, 1, 1.5, 0.5), eps) {
		t.Error("lerp: ", r)
	}

	q := NewQuatIdentity().Lerp(Quaternion{1, 0, 0, 0}, 0.5)
	if q != (Quaternion{0.5, 0, 0, 0.5}) {
		t.Error("quaternion lerp should not normalize: ", q)
	}

	if v := Denormalize(0.5, -2, 2); v != 0 {
		t.Error("denormalize: ", v)
	}
	if v := Clamp(1.5, 0.0, 1.0); v != 1 {
		t.Error("clamp: ", v)
	}
}

func TestTransformLocal(t *testing.T) {
	tf := TransformFromPositionRotation(NewVec3(0, 5, 0), NewQuatIdentity())
	l := tf.GetLocal()
	if !l.Position().Compare(NewVec3(0, 5, 0), eps) {
		t.Error("local: ", l.Position())
	}

	parent := NewMat4Translation(NewVec3(1, 0, 0))
	w := tf.GetWorld(parent)
	if !w.Position().Compare(NewVec3(1, 5, 0), eps) {
		t.Error("world: ", w.Position())
	}

	tf.SetPosition(NewVec3(0, 0, 1))
	if !tf.IsDirty {
		t.Error("transform should be dirty after SetPosition")
	}
	if !tf.GetLocal().Position().Compare(NewVec3(0, 0, 1), eps) {
		t.Error("local after update: ", tf.Local.Position())
	}
}

func TestGeometry(t *testing.T) {
	positions := []Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	normals := GeometryGenerateNormals(positions, []uint32{0, 1, 2, 7})
	for i, n := range normals {
		if !n.Compare(NewVec3(0, 0, 1), eps) {
			t.Error("normal ", i, n)
		}
	}

	ext := GeometryExtents(positions)
	if ext.Min != NewVec3Zero() || ext.Max != NewVec3(1, 1, 0) {
		t.Error("extents: ", ext)
	}
}
