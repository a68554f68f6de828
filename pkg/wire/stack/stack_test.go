package stack

import (
    "bytes"
    "testing"

    "github.com/NilFoundation/network-marshalling/pkg/config"
    "github.com/NilFoundation/network-marshalling/pkg/wire"
)

func TestBuildDefaultProfile(t *testing.T) {
    f, err := Build(config.Default().Frame, nil)
    if err != nil {
        t.Fatalf("build: %v", err)
    }

    msg := wire.NewRaw(3)
    msg.SetPayload([]byte("profile roundtrip"))
    buf, st := f.EncodeAlloc(msg)
    if st != wire.Success {
        t.Fatalf("encode: %v", st)
    }
    res := f.Decode(buf)
    if res.Status != wire.Success {
        t.Fatalf("decode: %v", res.Status)
    }
    got := res.Msg.(*wire.Raw)
    if got.ID != 3 || !bytes.Equal(got.Body, []byte("profile roundtrip")) {
        t.Fatalf("roundtrip: %+v", got)
    }
}

func TestBuildSkipsZeroWidthLayers(t *testing.T) {
    fc := config.FrameConfig{} // everything disabled, payload only
    f, err := Build(fc, nil)
    if err != nil {
        t.Fatalf("build: %v", err)
    }
    if f.MinLength() != 0 {
        t.Fatalf("bare payload min length: %d", f.MinLength())
    }

    msg := wire.NewRaw(0)
    msg.SetPayload([]byte{1, 2, 3})
    buf, st := f.EncodeAlloc(msg)
    if st != wire.Success {
        t.Fatalf("encode: %v", st)
    }
    if !bytes.Equal(buf, []byte{1, 2, 3}) {
        t.Fatalf("bare payload frame: %v", buf)
    }
}

func TestBuildBigEndian(t *testing.T) {
    fc := config.FrameConfig{
        ByteOrder: "big",
        Length:    config.LengthConfig{Width: 2},
    }
    f, err := Build(fc, nil)
    if err != nil {
        t.Fatalf("build: %v", err)
    }
    msg := wire.NewRaw(0)
    msg.SetPayload([]byte{0xaa})
    buf, st := f.EncodeAlloc(msg)
    if st != wire.Success {
        t.Fatalf("encode: %v", st)
    }
    if !bytes.Equal(buf, []byte{0x00, 0x01, 0xaa}) {
        t.Fatalf("big-endian length prefix: %v", buf)
    }
}

func TestBuildMetaLayer(t *testing.T) {
    fc := config.Default().Frame
    fc.Meta.Width = 2
    f, err := Build(fc, nil)
    if err != nil {
        t.Fatalf("build: %v", err)
    }

    msg := wire.NewRaw(1)
    msg.Meta = 0x0102
    msg.SetPayload([]byte("with metadata"))
    buf, st := f.EncodeAlloc(msg)
    if st != wire.Success {
        t.Fatalf("encode: %v", st)
    }
    res := f.Decode(buf)
    if res.Status != wire.Success {
        t.Fatalf("decode: %v", res.Status)
    }
    if got := res.Msg.(*wire.Raw).Meta; got != 0x0102 {
        t.Fatalf("meta: %#x", got)
    }
}

func TestBuildRejectsUnknownAlgorithm(t *testing.T) {
    fc := config.Default().Frame
    fc.Checksum.Algorithm = "md5"
    if _, err := Build(fc, nil); err == nil {
        t.Fatalf("unknown checksum algorithm accepted")
    }
}

func TestBuildMaxIDCapsFactory(t *testing.T) {
    fc := config.Default().Frame
    fc.ID.MaxID = 16
    f, err := Build(fc, nil)
    if err != nil {
        t.Fatalf("build: %v", err)
    }

    over := wire.NewRaw(17)
    over.SetPayload([]byte{1})
    buf, st := f.EncodeAlloc(over)
    if st != wire.Success {
        t.Fatalf("encode: %v", st)
    }
    if res := f.Decode(buf); res.Status != wire.ProtocolError {
        t.Fatalf("id over cap: %v", res.Status)
    }
}
