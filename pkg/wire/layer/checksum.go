package layer

import (
    "encoding/binary"
    "errors"

    "github.com/NilFoundation/network-marshalling/pkg/wire"
    "github.com/NilFoundation/network-marshalling/pkg/wire/checksum"
)

// Checksum appends a fixed-width checksum computed over exactly the bytes
// the inner layers write, and verifies it on read. The field always trails
// the inner data: [inner bytes][checksum].
//
// Wire layout and the read/write/update contract follow the classic
// field-plus-delegate shape; this layer is the reference for the rest of
// the chain.
type Checksum struct {
    base
    calc             checksum.Calculator
    verifyBeforeRead bool
}

// ChecksumOption adjusts checksum layer construction. Options are fixed for
// the lifetime of the chain.
type ChecksumOption func(*Checksum)

// VerifyBeforeRead makes the layer verify the trailing checksum before the
// inner layers run, so they never observe corrupted bytes. The default
// order runs the inner read first and verifies afterwards, which avoids a
// second pass over already-correct streams but lets inner layers act on
// unverified data until the mismatch is detected.
func VerifyBeforeRead() ChecksumOption {
    return func(l *Checksum) { l.verifyBeforeRead = true }
}

// ChecksumByteOrder sets the field byte order (default little-endian).
func ChecksumByteOrder(order binary.ByteOrder) ChecksumOption {
    return func(l *Checksum) { l.order = order }
}

// NewChecksum builds a checksum layer with a width-byte field over next.
// The field is fixed width by contract: width must be 1..8 bytes. calc
// results wider than the field are truncated, not saturated.
func NewChecksum(width int, calc checksum.Calculator, next Layer, opts ...ChecksumOption) (*Checksum, error) {
    if width < 1 || width > 8 {
        return nil, errors.New("checksum layer: field width must be 1..8 bytes")
    }
    if calc == nil {
        return nil, errors.New("checksum layer: nil calculator")
    }
    if next == nil {
        return nil, errors.New("checksum layer: nil next layer")
    }
    l := &Checksum{base: base{width: width, next: next}, calc: calc}
    for _, opt := range opts {
        opt(l)
    }
    return l, nil
}

func (l *Checksum) Read(msg *wire.Message, cur *wire.Cursor, size int, missing *int) wire.Status {
    if size < l.MinLength() {
        if missing != nil {
            *missing = l.MinLength() - size
        }
        return wire.NotEnoughData
    }
    if l.verifyBeforeRead {
        return l.readVerifyFirst(msg, cur, size, missing)
    }
    return l.readVerifyAfter(msg, cur, size, missing)
}

// readVerifyAfter runs the inner read over the leading size-width bytes,
// then reads the trailing field and compares it with the checksum of the
// region the inner layers actually consumed.
func (l *Checksum) readVerifyAfter(msg *wire.Message, cur *wire.Cursor, size int, missing *int) wire.Status {
    from := cur.Pos()

    st := l.next.Read(msg, cur, size-l.width, missing)
    if st == wire.NotEnoughData || st == wire.ProtocolError {
        return st
    }

    consumed := cur.Pos() - from
    remaining := size - consumed

    f := l.field()
    fst := f.ReadFrom(cur, remaining)
    if fst == wire.NotEnoughData {
        l.updateMissing(remaining, missing)
    }
    if fst != wire.Success {
        resetMessage(msg)
        return fst
    }

    if wire.Truncate(l.calc(cur.View(from, from+consumed)), l.width) != f.Value {
        resetMessage(msg)
        return wire.ProtocolError
    }
    return st
}

// readVerifyFirst reads the field from the tail of the region, verifies the
// checksum of the leading bytes, and only then lets the inner layers read
// them. The cursor lands after the field only when the inner read succeeds.
func (l *Checksum) readVerifyFirst(msg *wire.Message, cur *wire.Cursor, size int, missing *int) wire.Status {
    from := cur.Pos()
    tail := from + size - l.width

    fieldCur := cur.Fork(tail)
    f := l.field()
    if fst := f.ReadFrom(fieldCur, l.width); fst != wire.Success {
        return fst
    }

    if wire.Truncate(l.calc(cur.View(from, tail)), l.width) != f.Value {
        resetMessage(msg)
        return wire.ProtocolError
    }

    st := l.next.Read(msg, cur, size-l.width, missing)
    if st == wire.Success {
        cur.SetPos(fieldCur.Pos())
    }
    return st
}

func (l *Checksum) Write(msg wire.Message, cur wire.WriteCursor, size int) wire.Status {
    if ra, ok := cur.(wire.RandomAccess); ok {
        return l.writeRandomAccess(msg, ra, size)
    }
    return l.writeSequential(msg, cur, size)
}

// writeRandomAccess is the single-pass fast path: the inner output is
// re-read through the cursor to compute the checksum, so no buffering is
// needed. An UpdateRequired from inside still gets a placeholder field and
// defers finalization to the update pass.
func (l *Checksum) writeRandomAccess(msg wire.Message, cur wire.RandomAccess, size int) wire.Status {
    from := cur.Pos()

    st := l.next.Write(msg, cur, size)
    if st != wire.Success && st != wire.UpdateRequired {
        return st
    }

    produced := cur.Pos() - from
    remaining := size - produced
    if remaining < l.width {
        return wire.BufferOverflow
    }

    f := l.field()
    if st == wire.UpdateRequired {
        return statusFirst(f.WriteTo(cur, remaining), wire.UpdateRequired)
    }

    f.Value = wire.Truncate(l.calc(cur.View(from, from+produced)), l.width)
    return f.WriteTo(cur, remaining)
}

// writeSequential cannot rewind over what the inner layers produced, so it
// reserves the field's bytes with a placeholder and demands an update pass.
func (l *Checksum) writeSequential(msg wire.Message, cur wire.WriteCursor, size int) wire.Status {
    st := l.next.Write(msg, cur, size-l.width)
    if st != wire.Success && st != wire.UpdateRequired {
        return st
    }

    f := l.field()
    return statusFirst(f.WriteTo(cur, l.width), wire.UpdateRequired)
}

// Update relays the inner update over the leading bytes and then overwrites
// the trailing field with the checksum of that span. Repeating it over an
// unmodified buffer rewrites the identical value.
func (l *Checksum) Update(cur *wire.Cursor, size int) wire.Status {
    from := cur.Pos()

    st := l.next.Update(cur, size-l.width)
    if st != wire.Success {
        return st
    }

    updated := cur.Pos() - from
    remaining := size - updated

    f := l.field()
    f.Value = wire.Truncate(l.calc(cur.View(from, from+updated)), l.width)
    return f.WriteTo(cur, remaining)
}

// statusFirst returns fallback unless the field write itself failed.
func statusFirst(st wire.Status, fallback wire.Status) wire.Status {
    if st != wire.Success {
        return st
    }
    return fallback
}
