package mesh

import (
	"fmt"

	"github.com/spaghettifunk/skelmesh/engine/core"
	"github.com/spaghettifunk/skelmesh/engine/math"
)

// ChannelKind is the operation code of an animation channel.
type ChannelKind uint8

const (
	// ChannelNone is a placeholder channel. It is decoded but never applied.
	ChannelNone ChannelKind = iota
	ChannelTranslation
	ChannelRotation
	ChannelScale
)

func (k ChannelKind) String() string {
	switch k {
	case ChannelNone:
		return "none"
	case ChannelTranslation:
		return "translation"
	case ChannelRotation:
		return "rotation"
	case ChannelScale:
		return "scale"
	default:
		return fmt.Sprintf("ChannelKind(%d)", uint8(k))
	}
}

// AnimationChannel animates one attribute of one bone.
type AnimationChannel struct {
	// Target is the bone name, resolved when the channel is applied.
	Target string
	Kind   ChannelKind
	// Times are assumed to be increasing.
	Times []float32
	// Values are parallel to Times. Translation and scale keys use X, Y and
	// Z; rotation keys hold quaternion x, y, z, w.
	Values []math.Vec4

	// Prev and Next are the key bracket found by the last Sample call.
	Prev int
	Next int
}

// AnimationClip is a named set of channels played back over time.
type AnimationClip struct {
	Name    string
	Version uint8
	// Duration is the largest key time of all channels.
	Duration float32
	// Time is the current playback time.
	Time     float32
	Channels []*AnimationChannel
}

// DecodeAnimation parses a single animation block.
func DecodeAnimation(data []byte) (*AnimationClip, error) {
	r := newReader(data)
	clip := &AnimationClip{}

	r.section = "header"
	version, err := r.u8()
	if err != nil {
		return nil, err
	}
	clip.Version = version

	r.section = "index map"
	entries, err := r.u8()
	if err != nil {
		return nil, err
	}
	names := make(map[uint8]string, entries)
	for i := 0; i < int(entries); i++ {
		id, err := r.u8()
		if err != nil {
			return nil, err
		}
		name, err := r.str()
		if err != nil {
			return nil, err
		}
		names[id] = name
	}

	r.section = "clip"
	if clip.Name, err = r.str(); err != nil {
		return nil, err
	}
	// every channel carries at least its two header bytes and two counts
	channels, err := r.count(2+4+4, 0)
	if err != nil {
		return nil, err
	}
	core.LogDebug("decoding animation %q: %d channels", clip.Name, channels)

	clip.Channels = make([]*AnimationChannel, 0, channels)
	for i := 0; i < channels; i++ {
		r.section = fmt.Sprintf("channel %d", i)
		ch, err := decodeChannel(r, names, clip)
		if err != nil {
			return nil, err
		}
		clip.Channels = append(clip.Channels, ch)
	}
	return clip, nil
}

func decodeChannel(r *reader, names map[uint8]string, clip *AnimationClip) (*AnimationChannel, error) {
	var header [2]uint8
	if err := r.number(&header); err != nil {
		return nil, err
	}
	target, ok := names[header[0]]
	if !ok {
		return nil, r.malformed("bone id %d missing from the index map", header[0])
	}
	kind := ChannelKind(header[1])
	if kind > ChannelScale {
		return nil, r.malformed("unknown channel operation %d", header[1])
	}

	ch := &AnimationChannel{Target: target, Kind: kind}

	n, err := r.count(4, 0)
	if err != nil {
		return nil, err
	}
	ch.Times = make([]float32, n)
	if err := r.number(ch.Times); err != nil {
		return nil, err
	}
	for _, t := range ch.Times {
		clip.Duration = max(clip.Duration, t)
	}

	switch kind {
	case ChannelNone:
		if n, err = r.count(4, 0); err != nil {
			return nil, err
		}
		if err := r.skip(int64(n) * 4); err != nil {
			return nil, err
		}
		ch.Values = make([]math.Vec4, n)
	case ChannelTranslation, ChannelScale:
		if n, err = r.count(3*4, 0); err != nil {
			return nil, err
		}
		values, err := readVec3s(r, n)
		if err != nil {
			return nil, err
		}
		ch.Values = make([]math.Vec4, n)
		for i, v := range values {
			ch.Values[i] = math.NewVec4FromVec3(v, 0)
		}
	case ChannelRotation:
		if n, err = r.count(4*4, 0); err != nil {
			return nil, err
		}
		raw := make([]float32, n*4)
		if err := r.number(raw); err != nil {
			return nil, err
		}
		ch.Values = make([]math.Vec4, n)
		for i := range ch.Values {
			ch.Values[i] = math.NewVec4(raw[i*4+0], raw[i*4+1], raw[i*4+2], raw[i*4+3])
		}
	}
	return ch, nil
}
