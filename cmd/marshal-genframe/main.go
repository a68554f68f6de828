// marshal-genframe generates sample encoded frames for the configured frame
// profile: well-formed frames with JSON/CBOR/raw bodies, a sequentially
// written and then finalized frame, plus corrupted and truncated variants
// for decoder testing.
package main

import (
    "flag"
    "fmt"
    "log"
    "os"
    "path/filepath"

    "github.com/NilFoundation/network-marshalling/pkg/codec"
    "github.com/NilFoundation/network-marshalling/pkg/config"
    "github.com/NilFoundation/network-marshalling/pkg/wire"
    "github.com/NilFoundation/network-marshalling/pkg/wire/stack"
)

func main() {
    outDir := flag.String("out", "testdata/frame", "output directory for binary frames")
    cfgPath := flag.String("config", "", "config file path (yaml)")
    flag.Parse()

    cfg, err := config.Load(*cfgPath)
    if err != nil {
        log.Fatal(err)
    }
    if err := os.MkdirAll(*outDir, 0o755); err != nil {
        log.Fatal(err)
    }

    frame, err := stack.Build(cfg.Frame, nil)
    if err != nil {
        log.Fatal(err)
    }

    reg := codec.NewRegistry()
    if c, err := codec.CBOR(); err == nil {
        reg.Register(codec.FormatCBOR, c)
    }

    // 1) JSON body frame
    body, err := reg.EncodeBody(codec.FormatJSON, map[string]any{"ok": true, "n": 42})
    if err != nil {
        log.Fatal(err)
    }
    msg := wire.NewRaw(1)
    msg.SetPayload(body)
    writeOut(*outDir, "frame_json.bin", mustEncode(frame, msg))

    // 2) CBOR body frame
    body, err = reg.EncodeBody(codec.FormatCBOR, map[string]any{"seq": 7})
    if err != nil {
        log.Fatal(err)
    }
    msg = wire.NewRaw(2)
    msg.SetPayload(body)
    writeOut(*outDir, "frame_cbor.bin", mustEncode(frame, msg))

    // 3) Raw body frame
    msg = wire.NewRaw(3)
    msg.SetPayload([]byte{0x01, 0x02, 0x03})
    good := mustEncode(frame, msg)
    writeOut(*outDir, "frame_raw.bin", good)

    // 4) Sequential write + update pass, byte-identical to the single pass
    s := wire.NewStream()
    if st := frame.EncodeStream(msg, s); st != wire.UpdateRequired && st != wire.Success {
        log.Fatalf("stream encode: %v", st)
    }
    streamed := s.Bytes()
    if st := frame.Update(streamed); st != wire.Success {
        log.Fatalf("update: %v", st)
    }
    writeOut(*outDir, "frame_raw_streamed.bin", streamed)

    // 5) Corrupted copy: one bit flipped in the checksummed region
    bad := append([]byte(nil), good...)
    bad[len(bad)/2] ^= 0x01
    writeOut(*outDir, "frame_corrupt.bin", bad)

    // 6) Truncated copy
    writeOut(*outDir, "frame_truncated.bin", good[:len(good)-1])

    fmt.Println("Generated frames in", *outDir)
}

func mustEncode(frame interface {
    EncodeAlloc(wire.Message) ([]byte, wire.Status)
}, msg wire.Message) []byte {
    b, st := frame.EncodeAlloc(msg)
    if st != wire.Success {
        log.Fatalf("encode: %v", st)
    }
    return b
}

func writeOut(dir, name string, b []byte) {
    path := filepath.Join(dir, name)
    if err := os.WriteFile(path, b, 0o644); err != nil {
        log.Fatal(err)
    }
    fmt.Printf("  %s (%d bytes)\n", path, len(b))
}
