package stream

import (
    "bytes"
    "errors"
    "io"
    "testing"
    "testing/iotest"

    "github.com/NilFoundation/network-marshalling/pkg/wire"
    "github.com/NilFoundation/network-marshalling/pkg/wire/checksum"
    "github.com/NilFoundation/network-marshalling/pkg/wire/layer"
)

func testFrame(t *testing.T) *layer.Frame {
    t.Helper()
    p, err := layer.NewPayload()
    if err != nil {
        t.Fatalf("payload: %v", err)
    }
    id, err := layer.NewID(1, layer.RawFactory(255), p)
    if err != nil {
        t.Fatalf("id: %v", err)
    }
    cs, err := layer.NewChecksum(1, checksum.Sum, id)
    if err != nil {
        t.Fatalf("checksum: %v", err)
    }
    ln, err := layer.NewLength(2, cs)
    if err != nil {
        t.Fatalf("length: %v", err)
    }
    f, err := layer.NewFrame(ln)
    if err != nil {
        t.Fatalf("frame: %v", err)
    }
    return f
}

// duplex joins a read side and a write side into one io.ReadWriter.
type duplex struct {
    io.Reader
    io.Writer
}

func TestConnSendRecv(t *testing.T) {
    f := testFrame(t)
    var pipe bytes.Buffer
    conn := New(&duplex{&pipe, &pipe}, f)

    payloads := [][]byte{
        []byte("first"),
        []byte("second frame"),
        {},
    }
    for i, p := range payloads {
        msg := wire.NewRaw(uint64(i + 1))
        msg.SetPayload(p)
        if err := conn.Send(msg); err != nil {
            t.Fatalf("send %d: %v", i, err)
        }
    }

    for i, p := range payloads {
        msg, err := conn.Recv()
        if err != nil {
            t.Fatalf("recv %d: %v", i, err)
        }
        raw := msg.(*wire.Raw)
        if raw.ID != uint64(i+1) || !bytes.Equal(raw.Body, p) {
            t.Fatalf("recv %d: id=%d body=%q", i, raw.ID, raw.Body)
        }
    }

    if _, err := conn.Recv(); err != io.EOF {
        t.Fatalf("drained stream: %v", err)
    }
}

func TestConnRecvFromSlowReader(t *testing.T) {
    f := testFrame(t)

    var wireBytes bytes.Buffer
    sender := New(&duplex{new(bytes.Buffer), &wireBytes}, f)
    msg := wire.NewRaw(42)
    msg.SetPayload([]byte("trickled over the wire"))
    if err := sender.Send(msg); err != nil {
        t.Fatalf("send: %v", err)
    }

    // one byte per Read call; the receiver must assemble the frame anyway
    slow := iotest.OneByteReader(bytes.NewReader(wireBytes.Bytes()))
    conn := New(&duplex{slow, io.Discard}, f)
    got, err := conn.Recv()
    if err != nil {
        t.Fatalf("recv: %v", err)
    }
    raw := got.(*wire.Raw)
    if raw.ID != 42 || !bytes.Equal(raw.Body, []byte("trickled over the wire")) {
        t.Fatalf("recv: id=%d body=%q", raw.ID, raw.Body)
    }
}

func TestConnRecvProtocolError(t *testing.T) {
    f := testFrame(t)

    var wireBytes bytes.Buffer
    sender := New(&duplex{new(bytes.Buffer), &wireBytes}, f)
    msg := wire.NewRaw(1)
    msg.SetPayload([]byte{0xaa, 0xbb})
    if err := sender.Send(msg); err != nil {
        t.Fatalf("send: %v", err)
    }

    corrupted := wireBytes.Bytes()
    corrupted[len(corrupted)-1] ^= 0x01

    conn := New(&duplex{bytes.NewReader(corrupted), io.Discard}, f)
    if _, err := conn.Recv(); !errors.Is(err, ErrProtocol) {
        t.Fatalf("want ErrProtocol, got %v", err)
    }
}

func TestConnRecvFrameSizeCap(t *testing.T) {
    f := testFrame(t)

    // header declaring a 500-byte frame, body never sent
    hdr := []byte{0xf4, 0x01, 0x00, 0x00}
    conn := New(&duplex{bytes.NewReader(hdr), io.Discard}, f, MaxFrame(64))
    if _, err := conn.Recv(); !errors.Is(err, ErrTooLarge) {
        t.Fatalf("want ErrTooLarge, got %v", err)
    }

    // frames under the cap still flow
    var pipe bytes.Buffer
    capped := New(&duplex{&pipe, &pipe}, f, MaxFrame(64))
    msg := wire.NewRaw(7)
    msg.SetPayload([]byte("fits"))
    if err := capped.Send(msg); err != nil {
        t.Fatalf("send: %v", err)
    }
    got, err := capped.Recv()
    if err != nil {
        t.Fatalf("recv: %v", err)
    }
    if raw := got.(*wire.Raw); raw.ID != 7 || !bytes.Equal(raw.Body, []byte("fits")) {
        t.Fatalf("recv: %+v", raw)
    }
}

func TestConnRecvTruncatedStream(t *testing.T) {
    f := testFrame(t)

    var wireBytes bytes.Buffer
    sender := New(&duplex{new(bytes.Buffer), &wireBytes}, f)
    msg := wire.NewRaw(1)
    msg.SetPayload([]byte("cut short"))
    if err := sender.Send(msg); err != nil {
        t.Fatalf("send: %v", err)
    }

    frame := wireBytes.Bytes()
    conn := New(&duplex{bytes.NewReader(frame[:len(frame)-3]), io.Discard}, f)
    _, err := conn.Recv()
    if err == nil || err == io.EOF {
        t.Fatalf("mid-frame EOF must not look like a clean close: %v", err)
    }
}
