package mesh

import (
	"github.com/spaghettifunk/skelmesh/engine/math"
)

// Tick advances the playback time by delta. Once the time passes the
// duration it is wrapped back by a single duration.
func (c *AnimationClip) Tick(delta float32) {
	c.Time += delta
	if c.Time > c.Duration {
		c.Time -= c.Duration
	}
}

// Bracket finds the keys i, i+1 with Times[i] <= time < Times[i+1] and the
// interpolation factor between them. Outside all intervals both keys are 0.
// A zero-width interval yields a factor of 0.
func (ch *AnimationChannel) Bracket(time float32) (prev int, next int, t float32) {
	for i := 0; i+1 < len(ch.Times); i++ {
		if time >= ch.Times[i] && time < ch.Times[i+1] {
			prev, next = i, i+1
			break
		}
	}
	if len(ch.Times) == 0 {
		return 0, 0, 0
	}

	width := ch.Times[next] - ch.Times[prev]
	if width == 0 {
		return prev, next, 0
	}
	return prev, next, math.Clamp((time-ch.Times[prev])/width, 0, 1)
}

// Sample interpolates the channel at time and caches the bracket used.
// Rotations are blended component-wise and not renormalized. It reports
// false for placeholder channels and channels without enough keys.
func (ch *AnimationChannel) Sample(time float32) (math.Vec4, bool) {
	if ch.Kind == ChannelNone || len(ch.Times) == 0 || len(ch.Values) < len(ch.Times) {
		return math.Vec4{}, false
	}

	prev, next, t := ch.Bracket(time)
	ch.Prev, ch.Next = prev, next

	switch ch.Kind {
	case ChannelTranslation, ChannelScale:
		return ch.Values[prev].Lerp(ch.Values[next], t), true
	case ChannelRotation:
		q := math.NewQuatFromVec4(ch.Values[prev]).Lerp(math.NewQuatFromVec4(ch.Values[next]), t)
		return q.ToVec4(), true
	}
	return math.Vec4{}, false
}

// ApplyAnimation advances the named clip by delta and writes every sampled
// channel into the runtime state of its bone. Unknown clips and channels
// targeting unknown bones are skipped.
func (m *MeshAsset) ApplyAnimation(name string, delta float32) {
	clip := m.Clip(name)
	if clip == nil {
		return
	}
	clip.Tick(delta)

	for _, ch := range clip.Channels {
		id, ok := m.boneIDs[ch.Target]
		if !ok {
			continue
		}
		v, ok := ch.Sample(clip.Time)
		if !ok {
			continue
		}

		bone := &m.Bones[id]
		switch ch.Kind {
		case ChannelTranslation:
			bone.LocalPosition = v.ToVec3()
		case ChannelRotation:
			bone.LocalRotation = math.NewQuatFromVec4(v)
		case ChannelScale:
			bone.Scale = v.ToVec3()
		}
		bone.Changed = true
	}
}

// SetBoneRotation overrides the runtime rotation of the named bone.
func (m *MeshAsset) SetBoneRotation(name string, q math.Quaternion) {
	if bone, ok := m.BoneByName(name); ok {
		bone.LocalRotation = q
		bone.Changed = true
	}
}

// SetBonePosition overrides the runtime position offset of the named bone.
func (m *MeshAsset) SetBonePosition(name string, v math.Vec3) {
	if bone, ok := m.BoneByName(name); ok {
		bone.LocalPosition = v
		bone.Changed = true
	}
}
