package inspect

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spaghettifunk/skelmesh/engine/math"
	"github.com/spaghettifunk/skelmesh/engine/mesh"
	"gopkg.in/yaml.v2"
)

func testAsset(t *testing.T) *mesh.MeshAsset {
	t.Helper()
	m := mesh.NewMeshAsset()
	m.Version = 3
	m.Vertices = []math.Vec3{math.NewVec3(-1, 0, 2), math.NewVec3(1, 4, 0), math.NewVec3(0, 1, -2)}
	m.Indices = []uint32{0, 1, 2}
	m.BoneIndices = make([]math.Vec4, 3)
	m.BoneWeights = make([]math.Vec4, 3)

	hip := mesh.NewBone()
	hip.ID = 2
	hip.Name = "hip"
	hip.Children = []int{7, 200}
	knee := mesh.NewBone()
	knee.ID = 7
	knee.Name = "knee"
	knee.InverseBindMatrix = math.NewMat4Translation(math.NewVec3(0, -1, 0))
	for _, b := range []mesh.Bone{hip, knee} {
		if err := m.AddBone(b); err != nil {
			t.Fatal(err)
		}
	}
	m.RootID = 2

	m.AddClip(&mesh.AnimationClip{
		Name:     "kick",
		Duration: 1.5,
		Channels: []*mesh.AnimationChannel{
			{Target: "knee", Kind: mesh.ChannelRotation},
			{Target: "knee", Kind: mesh.ChannelTranslation},
			{Target: "toe", Kind: mesh.ChannelRotation},
		},
	})
	return m
}

func TestSummarize(t *testing.T) {
	s := Summarize(testAsset(t), "leg")

	if s.Name != "leg" || s.Version != 3 || s.Vertices != 3 || s.Triangles != 1 || !s.Skinned {
		t.Errorf("counts: %+v", s)
	}
	if s.Extents == nil || s.Extents.Min != [3]float32{-1, 0, -2} || s.Extents.Max != [3]float32{1, 4, 2} {
		t.Error("extents: ", s.Extents)
	}
	if s.RootBone != "hip" || len(s.Bones) != 2 {
		t.Fatalf("root %q, %d bones", s.RootBone, len(s.Bones))
	}
	hip, knee := s.Bones[0], s.Bones[1]
	if hip.Parent != "" || len(hip.Children) != 1 || hip.Children[0] != "knee" {
		t.Errorf("hip: %+v", hip)
	}
	if knee.Parent != "hip" || knee.BindPosition != [3]float32{0, 1, 0} {
		t.Errorf("knee: %+v", knee)
	}

	if len(s.Clips) != 1 {
		t.Fatal("clips: ", len(s.Clips))
	}
	c := s.Clips[0]
	if c.Channels != 3 || len(c.Targets) != 2 || c.Targets[0] != "knee" || c.Targets[1] != "toe" {
		t.Errorf("clip: %+v", c)
	}
	if len(c.Unresolved) != 1 || c.Unresolved[0] != "toe" {
		t.Error("unresolved: ", c.Unresolved)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(mesh.NewMeshAsset(), "empty")
	if s.Extents != nil || s.RootBone != "" || len(s.Bones) != 0 || s.Skinned {
		t.Errorf("empty summary: %+v", s)
	}
	if c := SummarizeClip(&mesh.AnimationClip{Name: "idle"}, nil); c.Name != "idle" || c.Unresolved != nil {
		t.Errorf("clip: %+v", c)
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	first := Summarize(testAsset(t), "leg")
	second := Summary{Name: "broken", Error: "malformed input"}
	if err := Write(&buf, first, second); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.Contains(out, "\n---\n") {
		t.Error("documents are not separated:\n", out)
	}

	dec := yaml.NewDecoder(strings.NewReader(out))
	var got Summary
	if err := dec.Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Name != "leg" || len(got.Bones) != 2 || got.Bones[1].BindPosition != first.Bones[1].BindPosition {
		t.Errorf("decoded: %+v", got)
	}
	got = Summary{}
	if err := dec.Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Name != "broken" || got.Error != "malformed input" {
		t.Errorf("decoded: %+v", got)
	}
}
