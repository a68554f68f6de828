package layer

import (
    "encoding/binary"
    "errors"
    "math"

    "github.com/NilFoundation/network-marshalling/pkg/wire"
)

// Length prefixes the inner layers' bytes with their byte count and, on
// read, restricts the size visible to them to exactly that count. The
// prefix value excludes the prefix field itself.
type Length struct {
    base
}

// LengthOption adjusts length layer construction.
type LengthOption func(*Length)

// LengthByteOrder sets the field byte order (default little-endian).
func LengthByteOrder(order binary.ByteOrder) LengthOption {
    return func(l *Length) { l.order = order }
}

// NewLength builds a length-prefix layer with a width-byte field over next.
func NewLength(width int, next Layer, opts ...LengthOption) (*Length, error) {
    if width < 1 || width > 8 {
        return nil, errors.New("length layer: field width must be 1..8 bytes")
    }
    if next == nil {
        return nil, errors.New("length layer: nil next layer")
    }
    l := &Length{base: base{width: width, next: next}}
    for _, opt := range opts {
        opt(l)
    }
    return l, nil
}

func (l *Length) Read(msg *wire.Message, cur *wire.Cursor, size int, missing *int) wire.Status {
    if size < l.MinLength() {
        if missing != nil {
            *missing = l.MinLength() - size
        }
        return wire.NotEnoughData
    }

    f := l.field()
    if fst := f.ReadFrom(cur, size); fst != wire.Success {
        return fst
    }

    if f.Value > uint64(math.MaxInt) {
        // no real frame declares a length this large; treating it as a
        // shortfall would ask the caller for an absurd allocation
        resetMessage(msg)
        return wire.ProtocolError
    }
    innerSize := int(f.Value)
    remaining := size - l.width
    if remaining < innerSize {
        if missing != nil {
            *missing = innerSize - remaining
        }
        return wire.NotEnoughData
    }

    from := cur.Pos()
    st := l.next.Read(msg, cur, innerSize, missing)
    if st != wire.Success {
        return st
    }
    if cur.Pos()-from != innerSize {
        // inner layers disagree with the declared length
        resetMessage(msg)
        return wire.ProtocolError
    }
    return st
}

// Write emits the prefix in one pass on any cursor class: the exact inner
// byte count is computable from the message up front, so no back-patching
// is needed. An inner byte count the field cannot represent is
// BufferOverflow; a truncated prefix would decode a shorter frame with
// both sides reporting success.
func (l *Length) Write(msg wire.Message, cur wire.WriteCursor, size int) wire.Status {
    if size < l.width {
        return wire.BufferOverflow
    }

    inner := l.next.Length(msg)
    if uint64(inner) > fieldMax(l.width) {
        return wire.BufferOverflow
    }

    f := l.field()
    f.Value = uint64(inner)
    if fst := f.WriteTo(cur, size); fst != wire.Success {
        return fst
    }
    return l.next.Write(msg, cur, size-l.width)
}

// Update skips the already-correct prefix and relays to the inner layers.
func (l *Length) Update(cur *wire.Cursor, size int) wire.Status {
    cur.Skip(l.width)
    return l.next.Update(cur, size-l.width)
}
