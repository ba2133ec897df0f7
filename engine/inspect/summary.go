package inspect

import (
	"io"
	"sort"

	"github.com/spaghettifunk/skelmesh/engine/math"
	"github.com/spaghettifunk/skelmesh/engine/mesh"
	"gopkg.in/yaml.v2"
)

// Summary describes a decoded asset.
type Summary struct {
	Name      string `yaml:"name"`
	Path      string `yaml:"path,omitempty"`
	Error     string `yaml:"error,omitempty"`
	Version   uint8  `yaml:"version"`
	Vertices  int    `yaml:"vertices"`
	Normals   int    `yaml:"normals"`
	UVs       int    `yaml:"uvs"`
	Indices   int    `yaml:"indices"`
	Triangles int    `yaml:"triangles"`
	Skinned   bool   `yaml:"skinned"`

	Extents *Extents `yaml:"extents,omitempty"`

	RootBone string        `yaml:"root_bone,omitempty"`
	Bones    []BoneSummary `yaml:"bones,omitempty"`
	Clips    []ClipSummary `yaml:"clips,omitempty"`
}

type Extents struct {
	Min [3]float32 `yaml:"min,flow"`
	Max [3]float32 `yaml:"max,flow"`
}

type BoneSummary struct {
	ID       int      `yaml:"id"`
	Name     string   `yaml:"name"`
	Parent   string   `yaml:"parent,omitempty"`
	Children []string `yaml:"children,omitempty,flow"`
	// BindPosition is the model space position of the bone in bind pose.
	BindPosition [3]float32 `yaml:"bind_position,flow"`
}

type ClipSummary struct {
	Name     string   `yaml:"name"`
	Path     string   `yaml:"path,omitempty"`
	Duration float32  `yaml:"duration"`
	Channels int      `yaml:"channels"`
	Targets  []string `yaml:"targets,omitempty,flow"`
	// Unresolved lists targets that name no bone of the asset.
	Unresolved []string `yaml:"unresolved,omitempty,flow"`
}

// Summarize collects the counts, bounds, skeleton and clips of m.
func Summarize(m *mesh.MeshAsset, name string) Summary {
	s := Summary{
		Name:      name,
		Version:   m.Version,
		Vertices:  len(m.Vertices),
		Normals:   len(m.Normals),
		UVs:       len(m.UVs),
		Indices:   len(m.Indices),
		Triangles: len(m.Indices) / 3,
		Skinned:   len(m.Vertices) > 0 && len(m.BoneIndices) == len(m.Vertices) && len(m.BoneWeights) == len(m.Vertices),
	}
	if len(m.Vertices) > 0 {
		ext := math.GeometryExtents(m.Vertices)
		s.Extents = &Extents{
			Min: [3]float32{ext.Min.X, ext.Min.Y, ext.Min.Z},
			Max: [3]float32{ext.Max.X, ext.Max.Y, ext.Max.Z},
		}
	}

	ids := m.BoneIDs()
	parents := map[int]int{}
	for _, id := range ids {
		for _, c := range m.Bones[id].Children {
			if _, ok := parents[c]; !ok && c != id {
				parents[c] = id
			}
		}
	}
	for _, id := range ids {
		b := &m.Bones[id]
		bs := BoneSummary{ID: id, Name: b.Name}
		if p, ok := parents[id]; ok {
			bs.Parent = m.Bones[p].Name
		}
		for _, c := range b.Children {
			if c >= 0 && c < len(m.Bones) && m.Bones[c].Name != "" {
				bs.Children = append(bs.Children, m.Bones[c].Name)
			}
		}
		p := b.InverseBindMatrix.Inverse().Position()
		bs.BindPosition = [3]float32{p.X, p.Y, p.Z}
		s.Bones = append(s.Bones, bs)
	}
	if len(ids) > 0 && m.RootID >= 0 && m.RootID < len(m.Bones) {
		s.RootBone = m.Bones[m.RootID].Name
	}

	for _, clip := range m.Clips {
		s.Clips = append(s.Clips, SummarizeClip(clip, m))
	}
	return s
}

// SummarizeClip describes clip. Targets are checked against m when it is
// not nil.
func SummarizeClip(clip *mesh.AnimationClip, m *mesh.MeshAsset) ClipSummary {
	cs := ClipSummary{
		Name:     clip.Name,
		Duration: clip.Duration,
		Channels: len(clip.Channels),
	}
	targets := map[string]bool{}
	for _, ch := range clip.Channels {
		targets[ch.Target] = true
	}
	for t := range targets {
		cs.Targets = append(cs.Targets, t)
		if m == nil {
			continue
		}
		if _, ok := m.BoneByName(t); !ok {
			cs.Unresolved = append(cs.Unresolved, t)
		}
	}
	sort.Strings(cs.Targets)
	sort.Strings(cs.Unresolved)
	return cs
}

// Write encodes summaries as a stream of YAML documents.
func Write(w io.Writer, summaries ...interface{}) error {
	enc := yaml.NewEncoder(w)
	for _, s := range summaries {
		if err := enc.Encode(s); err != nil {
			return err
		}
	}
	return enc.Close()
}
