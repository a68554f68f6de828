// Package layer implements the protocol layer chain: an ordered composition
// of independent stages, each owning exactly one wire field and wrapping the
// layer beneath it. Chains are built once at configuration time and carry no
// per-call state, so one chain may decode and encode independent buffers
// concurrently.
package layer

import (
    "encoding/binary"
    "math"

    "github.com/NilFoundation/network-marshalling/pkg/wire"
)

// Layer is one stage of the codec chain. Read strips this layer's field and
// delegates the remaining bytes inward; Write produces the field around the
// inner layers' output; Update finalizes a field that a sequential write
// could only fill with a placeholder.
type Layer interface {
    // Read consumes this layer's field plus everything the inner layers
    // consume, populating msg. size is the number of bytes this layer may
    // consume; missing, when non-nil, receives the exact shortfall if the
    // result is NotEnoughData.
    Read(msg *wire.Message, cur *wire.Cursor, size int, missing *int) wire.Status

    // Write produces this layer's field and the inner layers' bytes from
    // msg. At most size bytes may be produced. msg is not mutated.
    Write(msg wire.Message, cur wire.WriteCursor, size int) wire.Status

    // Update rewrites this layer's field in place over a previously written
    // region of size bytes. It must be idempotent.
    Update(cur *wire.Cursor, size int) wire.Status

    // Length returns the exact number of bytes Write will produce for msg.
    Length(msg wire.Message) int

    // MinLength and MaxLength bound the bytes this layer and everything it
    // wraps can occupy on the wire.
    MinLength() int
    MaxLength() int
}

// base carries the bookkeeping every concrete layer shares: the fixed field
// width, the field byte order and exclusive ownership of the next layer.
type base struct {
    width int
    order binary.ByteOrder
    next  Layer
}

func (b *base) field() wire.Field {
    return wire.Field{Width: b.width, Order: b.order}
}

func (b *base) MinLength() int { return b.width + b.next.MinLength() }

func (b *base) MaxLength() int { return satAdd(b.width, b.next.MaxLength()) }

func (b *base) Length(msg wire.Message) int { return b.width + b.next.Length(msg) }

// updateMissing reports how many more bytes a retry needs to read this
// layer's field, given what remained when the attempt failed. Exact, never
// rounded, but at least one byte.
func (b *base) updateMissing(remaining int, missing *int) {
    if missing == nil {
        return
    }
    m := b.width - remaining
    if m < 1 {
        m = 1
    }
    *missing = m
}

// resetMessage clears msg before a terminal error is reported so partially
// populated messages never reach the caller.
func resetMessage(msg *wire.Message) {
    if msg != nil && *msg != nil {
        (*msg).Reset()
    }
}

// fieldMax returns the largest value a width-byte field can carry.
func fieldMax(width int) uint64 {
    if width >= 8 {
        return ^uint64(0)
    }
    return uint64(1)<<(8*width) - 1
}

func satAdd(a, b int) int {
    if b > math.MaxInt-a {
        return math.MaxInt
    }
    return a + b
}
