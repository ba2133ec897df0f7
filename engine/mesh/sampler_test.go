package mesh

import (
	"testing"

	"github.com/spaghettifunk/skelmesh/engine/math"
)

func TestBracket(t *testing.T) {
	ch := &AnimationChannel{Kind: ChannelTranslation, Times: []float32{0, 1, 2}}

	cases := []struct {
		time       float32
		prev, next int
		t          float32
	}{
		{time: 1.5, prev: 1, next: 2, t: 0.5},
		{time: 0, prev: 0, next: 1, t: 0},
		{time: 1, prev: 1, next: 2, t: 0},
		// at or after the last key, and before the first
		{time: 2, prev: 0, next: 0, t: 0},
		{time: 5, prev: 0, next: 0, t: 0},
		{time: -1, prev: 0, next: 0, t: 0},
	}
	for _, c := range cases {
		prev, next, f := ch.Bracket(c.time)
		if prev != c.prev || next != c.next || f != c.t {
			t.Errorf("time %v: got (%d, %d, %v), want (%d, %d, %v)", c.time, prev, next, f, c.prev, c.next, c.t)
		}
	}

	// equal key times must not divide by zero
	flat := &AnimationChannel{Times: []float32{1, 1, 1}}
	if _, _, f := flat.Bracket(1); f != 0 {
		t.Error("zero width factor: ", f)
	}
}

func TestTick(t *testing.T) {
	clip := &AnimationClip{Duration: 2}
	clip.Tick(2.5)
	if clip.Time != 0.5 {
		t.Error("wrap: ", clip.Time)
	}

	clip.Tick(1.5)
	if clip.Time != 2 {
		t.Error("time equal to the duration does not wrap: ", clip.Time)
	}

	// a single subtraction only
	big := &AnimationClip{Duration: 1}
	big.Tick(3.5)
	if big.Time != 2.5 {
		t.Error("single wrap: ", big.Time)
	}
}

func TestSample(t *testing.T) {
	tr := &AnimationChannel{
		Kind:   ChannelTranslation,
		Times:  []float32{0, 1},
		Values: []math.Vec4{math.NewVec4(0, 0, 0, 0), math.NewVec4(10, 0, 0, 0)},
	}
	v, ok := tr.Sample(0.5)
	if !ok || v.ToVec3() != math.NewVec3(5, 0, 0) {
		t.Error("translation: ", v, ok)
	}
	if tr.Prev != 0 || tr.Next != 1 {
		t.Error("cached bracket: ", tr.Prev, tr.Next)
	}

	rot := &AnimationChannel{
		Kind:   ChannelRotation,
		Times:  []float32{0, 1},
		Values: []math.Vec4{math.NewVec4(0, 0, 0, 1), math.NewVec4(0, 0, 1, 0)},
	}
	v, _ = rot.Sample(0.5)
	if v != math.NewVec4(0, 0, 0.5, 0.5) {
		t.Error("rotation should be a raw component-wise blend: ", v)
	}

	short := &AnimationChannel{Kind: ChannelScale, Times: []float32{0, 1}, Values: []math.Vec4{{}}}
	if _, ok := short.Sample(0.5); ok {
		t.Error("channel with missing values should be skipped")
	}
	empty := &AnimationChannel{Kind: ChannelScale}
	if _, ok := empty.Sample(0.5); ok {
		t.Error("channel without keys should be skipped")
	}
}

func TestApplyAnimation(t *testing.T) {
	m := decodeFixture(t)
	clip, err := DecodeAnimation(clipFixture())
	if err != nil {
		t.Fatal(err)
	}
	m.AddClip(clip)

	m.ApplyAnimation("wave", 0.5)

	spine, _ := m.BoneByName("spine")
	if spine.LocalPosition != math.NewVec3(5, 0, 0) || !spine.Changed {
		t.Error("spine: ", spine.LocalPosition)
	}
	head, _ := m.BoneByName("head")
	if head.LocalRotation != (math.Quaternion{X: 0, Y: 0, Z: 0.5, W: 0.5}) {
		t.Error("head: ", head.LocalRotation)
	}
	// the bind pose is left alone
	if spine.Position != math.NewVec3(0, 1, 0) {
		t.Error("bind position changed: ", spine.Position)
	}

	m.CalculateBones(m.RootID)
	if p := m.Bones[1].Matrix.Position(); !p.Compare(math.NewVec3(5, 1, 0), 1e-6) {
		t.Error("animated spine: ", p)
	}

	// unknown clips are ignored
	m.ApplyAnimation("missing", 1)
	if clip.Time != 0.5 {
		t.Error("clip time: ", clip.Time)
	}
}

func TestApplyAnimationUnresolvedBone(t *testing.T) {
	m := decodeFixture(t)
	before := make([]Bone, len(m.Bones))
	copy(before, m.Bones)

	m.AddClip(&AnimationClip{
		Name:     "ghost",
		Duration: 1,
		Channels: []*AnimationChannel{{
			Target: "tail",
			Kind:   ChannelTranslation,
			Times:  []float32{0, 1},
			Values: []math.Vec4{{}, math.NewVec4(1, 1, 1, 0)},
		}},
	})
	m.ApplyAnimation("ghost", 0.5)
	m.SetBoneRotation("tail", math.NewQuatIdentity())
	m.SetBonePosition("tail", math.NewVec3One())

	for i := range m.Bones {
		a, b := m.Bones[i], before[i]
		if a.LocalPosition != b.LocalPosition || a.LocalRotation != b.LocalRotation ||
			a.Scale != b.Scale || a.Changed != b.Changed {
			t.Fatalf("bone %d changed by an unresolved channel", i)
		}
	}
}

func TestApplyScaleAndPoseEdits(t *testing.T) {
	m := decodeFixture(t)
	m.AddClip(&AnimationClip{
		Name:     "grow",
		Duration: 1,
		Channels: []*AnimationChannel{{
			Target: "arm",
			Kind:   ChannelScale,
			Times:  []float32{0, 1},
			Values: []math.Vec4{math.NewVec4(1, 1, 1, 0), math.NewVec4(3, 3, 3, 0)},
		}},
	})
	m.ApplyAnimation("grow", 0.5)
	arm, _ := m.BoneByName("arm")
	if arm.Scale != math.NewVec3(2, 2, 2) {
		t.Error("scale: ", arm.Scale)
	}

	m.SetBonePosition("arm", math.NewVec3(0, 0, 2))
	q := math.NewQuatFromAxisAngle(math.NewVec3(0, 1, 0), 1, true)
	m.SetBoneRotation("arm", q)
	if arm.LocalPosition != math.NewVec3(0, 0, 2) || arm.LocalRotation != q {
		t.Error("pose edit: ", arm.LocalPosition, arm.LocalRotation)
	}

	// replacing a clip keeps a single entry
	m.AddClip(&AnimationClip{Name: "grow"})
	if len(m.Clips) != 1 || len(m.Clip("grow").Channels) != 0 {
		t.Error("clip replacement: ", len(m.Clips))
	}
}
