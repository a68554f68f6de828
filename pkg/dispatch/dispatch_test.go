package dispatch

import (
    "bytes"
    "context"
    "errors"
    "io"
    "testing"

    "github.com/NilFoundation/network-marshalling/pkg/wire"
    "github.com/NilFoundation/network-marshalling/pkg/wire/checksum"
    "github.com/NilFoundation/network-marshalling/pkg/wire/layer"
    "github.com/NilFoundation/network-marshalling/pkg/wire/stream"
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

type duplex struct {
    io.Reader
    io.Writer
}

func TestDispatchByID(t *testing.T) {
    d := New()
    var got []uint64
    d.Handle(1, func(ctx context.Context, m wire.Message) error {
        got = append(got, m.MsgID())
        return nil
    })
    d.Handle(2, func(ctx context.Context, m wire.Message) error {
        got = append(got, m.MsgID()*100)
        return nil
    })

    for _, id := range []uint64{2, 1, 1} {
        if err := d.Dispatch(context.Background(), wire.NewRaw(id)); err != nil {
            t.Fatalf("dispatch %d: %v", id, err)
        }
    }
    want := []uint64{200, 1, 1}
    for i := range want {
        if got[i] != want[i] {
            t.Fatalf("order: %v", got)
        }
    }
}

func TestDispatchFallback(t *testing.T) {
    d := New()
    // no handlers at all: dropped, not an error
    if err := d.Dispatch(context.Background(), wire.NewRaw(9)); err != nil {
        t.Fatalf("drop: %v", err)
    }

    hits := 0
    d.Fallback(func(ctx context.Context, m wire.Message) error {
        hits++
        return nil
    })
    if err := d.Dispatch(context.Background(), wire.NewRaw(9)); err != nil {
        t.Fatalf("fallback: %v", err)
    }
    if hits != 1 {
        t.Fatalf("fallback hits: %d", hits)
    }
}

func TestDuplicateHandlerPanics(t *testing.T) {
    d := New().Handle(1, func(context.Context, wire.Message) error { return nil })
    defer func() {
        if recover() == nil {
            t.Fatalf("duplicate handler did not panic")
        }
    }()
    d.Handle(1, func(context.Context, wire.Message) error { return nil })
}

func TestServe(t *testing.T) {
    f := testFrame(t)

    var pipe bytes.Buffer
    sender := stream.New(&duplex{new(bytes.Buffer), &pipe}, f)
    for _, id := range []uint64{1, 2, 1} {
        msg := wire.NewRaw(id)
        msg.SetPayload([]byte{byte(id)})
        if err := sender.Send(msg); err != nil {
            t.Fatalf("send %d: %v", id, err)
        }
    }

    counts := map[uint64]int{}
    d := New().
        Handle(1, func(ctx context.Context, m wire.Message) error { counts[1]++; return nil }).
        Handle(2, func(ctx context.Context, m wire.Message) error { counts[2]++; return nil })

    conn := stream.New(&duplex{&pipe, io.Discard}, f)
    if err := d.Serve(context.Background(), conn); err != nil {
        t.Fatalf("serve: %v", err)
    }
    if counts[1] != 2 || counts[2] != 1 {
        t.Fatalf("counts: %v", counts)
    }
}

func TestServeProtocolError(t *testing.T) {
    f := testFrame(t)

    var pipe bytes.Buffer
    sender := stream.New(&duplex{new(bytes.Buffer), &pipe}, f)
    msg := wire.NewRaw(1)
    msg.SetPayload([]byte{0xaa, 0xbb})
    if err := sender.Send(msg); err != nil {
        t.Fatalf("send: %v", err)
    }
    corrupted := pipe.Bytes()
    corrupted[len(corrupted)-1] ^= 0x01

    conn := stream.New(&duplex{bytes.NewReader(corrupted), io.Discard}, f)
    err := New().Serve(context.Background(), conn)
    if !errors.Is(err, stream.ErrProtocol) {
        t.Fatalf("want ErrProtocol, got %v", err)
    }
}
