package layer

import (
    "errors"

    "github.com/NilFoundation/network-marshalling/pkg/wire"
)

// Frame is the caller-facing entry to a layer chain. The chain is fixed at
// construction; a Frame carries no per-call state and may be shared across
// goroutines as long as each call gets its own buffer and message.
type Frame struct {
    top Layer
}

// NewFrame wraps the outermost layer of a chain.
func NewFrame(top Layer) (*Frame, error) {
    if top == nil {
        return nil, errors.New("frame: nil top layer")
    }
    return &Frame{top: top}, nil
}

// ReadResult is the outcome of one decode attempt.
type ReadResult struct {
    // Msg is the populated message on Success, nil or reset otherwise.
    Msg wire.Message
    // Consumed is how far the cursor advanced. On an error it pinpoints
    // where decoding stopped.
    Consumed int
    // Missing is the exact number of additional bytes a retry needs when
    // Status is NotEnoughData.
    Missing int
    Status  wire.Status
}

// Decode runs the chain top-down over buf. The message instance is produced
// by the chain's id layer; chains without one populate DecodeInto targets
// instead.
func (f *Frame) Decode(buf []byte) ReadResult {
    var msg wire.Message
    res := f.DecodeInto(&msg, buf)
    res.Msg = msg
    return res
}

// DecodeInto decodes buf into a caller-supplied message slot. The slot may
// hold a pre-allocated message for chains that do not dispatch by id.
func (f *Frame) DecodeInto(msg *wire.Message, buf []byte) ReadResult {
    cur := wire.NewCursor(buf)
    var missing int
    st := f.top.Read(msg, cur, len(buf), &missing)
    res := ReadResult{Consumed: cur.Pos(), Status: st}
    if st == wire.NotEnoughData {
        res.Missing = missing
    }
    return res
}

// Encode writes msg into buf using the random-access single-pass path and
// returns the number of bytes produced.
func (f *Frame) Encode(msg wire.Message, buf []byte) (int, wire.Status) {
    cur := wire.NewCursor(buf)
    st := f.top.Write(msg, cur, len(buf))
    return cur.Pos(), st
}

// EncodeAlloc encodes msg into a fresh, exactly sized buffer.
func (f *Frame) EncodeAlloc(msg wire.Message) ([]byte, wire.Status) {
    buf := make([]byte, f.Length(msg))
    n, st := f.Encode(msg, buf)
    return buf[:n], st
}

// EncodeStream writes msg through a sequential cursor. UpdateRequired means
// the bytes carry placeholder fields and Update must run over them once the
// buffer is materialized.
func (f *Frame) EncodeStream(msg wire.Message, s *wire.Stream) wire.Status {
    return f.top.Write(msg, s, f.Length(msg))
}

// Update finalizes deferred fields in a previously written buffer, in
// place. It is idempotent.
func (f *Frame) Update(buf []byte) wire.Status {
    return f.top.Update(wire.NewCursor(buf), len(buf))
}

// Length returns the exact encoded size of msg.
func (f *Frame) Length(msg wire.Message) int { return f.top.Length(msg) }

// MinLength returns the smallest buffer any frame of this chain occupies.
func (f *Frame) MinLength() int { return f.top.MinLength() }
