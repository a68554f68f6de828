package layer

import (
    "encoding/binary"
    "errors"

    "github.com/NilFoundation/network-marshalling/pkg/wire"
)

// Meta carries a transport metadata value (version, channel, hop count)
// in a fixed-width field and copies it into or out of a designated slot on
// the message itself rather than the payload. The slot is reached through
// injected accessors so the layer stays decoupled from message types.
type Meta struct {
    base
    get func(wire.Message) uint64
    set func(wire.Message, uint64)
}

// MetaOption adjusts meta layer construction.
type MetaOption func(*Meta)

// MetaByteOrder sets the field byte order (default little-endian).
func MetaByteOrder(order binary.ByteOrder) MetaOption {
    return func(l *Meta) { l.order = order }
}

// NewMeta builds a transport-metadata layer with a width-byte field over
// next. get supplies the value on write; set stores the read value once the
// inner layers have produced the message.
func NewMeta(width int, get func(wire.Message) uint64, set func(wire.Message, uint64), next Layer, opts ...MetaOption) (*Meta, error) {
    if width < 1 || width > 8 {
        return nil, errors.New("meta layer: field width must be 1..8 bytes")
    }
    if get == nil || set == nil {
        return nil, errors.New("meta layer: nil accessor")
    }
    if next == nil {
        return nil, errors.New("meta layer: nil next layer")
    }
    l := &Meta{base: base{width: width, next: next}, get: get, set: set}
    for _, opt := range opts {
        opt(l)
    }
    return l, nil
}

func (l *Meta) Read(msg *wire.Message, cur *wire.Cursor, size int, missing *int) wire.Status {
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

    st := l.next.Read(msg, cur, size-l.width, missing)
    if st == wire.Success && msg != nil && *msg != nil {
        // the message may only exist after the inner id layer ran
        l.set(*msg, f.Value)
    }
    return st
}

func (l *Meta) Write(msg wire.Message, cur wire.WriteCursor, size int) wire.Status {
    if size < l.width {
        return wire.BufferOverflow
    }

    f := l.field()
    f.Value = wire.Truncate(l.get(msg), l.width)
    if fst := f.WriteTo(cur, size); fst != wire.Success {
        return fst
    }
    return l.next.Write(msg, cur, size-l.width)
}

// Update skips the metadata field and relays to the inner layers.
func (l *Meta) Update(cur *wire.Cursor, size int) wire.Status {
    cur.Skip(l.width)
    return l.next.Update(cur, size-l.width)
}
