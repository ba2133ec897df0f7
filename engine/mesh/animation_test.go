package mesh

import (
	"errors"
	"testing"

	"github.com/spaghettifunk/skelmesh/engine/math"
)

func TestDecodeAnimation(t *testing.T) {
	clip, err := DecodeAnimation(clipFixture())
	if err != nil {
		t.Fatal(err)
	}
	if clip.Name != "wave" || clip.Version != 1 {
		t.Error("clip: ", clip.Name, clip.Version)
	}
	if clip.Duration != 2 {
		t.Error("duration: ", clip.Duration)
	}
	if len(clip.Channels) != 2 {
		t.Fatal("channels: ", len(clip.Channels))
	}

	tr := clip.Channels[0]
	if tr.Target != "spine" || tr.Kind != ChannelTranslation {
		t.Error("translation channel: ", tr.Target, tr.Kind)
	}
	if tr.Values[1] != math.NewVec4(10, 0, 0, 0) {
		t.Error("translation key: ", tr.Values[1])
	}

	rot := clip.Channels[1]
	if rot.Target != "head" || rot.Kind != ChannelRotation || len(rot.Times) != 3 {
		t.Error("rotation channel: ", rot.Target, rot.Kind, rot.Times)
	}
	if rot.Values[1] != math.NewVec4(0, 0, 1, 0) {
		t.Error("rotation key: ", rot.Values[1])
	}
}

func TestDecodeAnimationPlaceholder(t *testing.T) {
	b := newBuilder()
	b.u8(1).u8(1).u8(0).str("root").str("idle").u32(1)
	b.u8(0).u8(uint8(ChannelNone)).u32(2).floats(0, 4).u32(2).u32(0xdeadbeef).u32(0xdeadbeef)

	clip, err := DecodeAnimation(b.bytes())
	if err != nil {
		t.Fatal(err)
	}
	ch := clip.Channels[0]
	if ch.Kind != ChannelNone || len(ch.Values) != 2 || ch.Values[1] != math.NewVec4Zero() {
		t.Error("placeholder: ", ch)
	}
	if clip.Duration != 4 {
		t.Error("duration: ", clip.Duration)
	}
	if _, ok := ch.Sample(1); ok {
		t.Error("placeholder channels should not produce values")
	}
}

func TestDecodeAnimationErrors(t *testing.T) {
	header := func() *builder {
		return newBuilder().u8(1).u8(1).u8(0).str("root").str("clip").u32(1)
	}

	cases := map[string][]byte{
		"index map miss": header().u8(5).u8(1).u32(0).u32(0).bytes(),
		"unknown op":     header().u8(0).u8(4).u32(0).u32(0).bytes(),
		"truncated keys": header().u8(0).u8(1).u32(2).floats(0).bytes(),
		"channel count":  newBuilder().u8(1).u8(0).str("clip").u32(1 << 30).bytes(),
		"empty":          nil,
	}
	for name, data := range cases {
		if _, err := DecodeAnimation(data); !errors.Is(err, ErrMalformedInput) {
			t.Errorf("%s: expected malformed input, got %v", name, err)
		}
	}
}

func TestChannelKindString(t *testing.T) {
	if ChannelRotation.String() != "rotation" || ChannelKind(9).String() != "ChannelKind(9)" {
		t.Error(ChannelRotation.String(), ChannelKind(9).String())
	}
}
