package layer

import (
    "encoding/binary"
    "errors"

    "github.com/NilFoundation/network-marshalling/pkg/wire"
)

// Sync verifies a fixed marker value at the front of the frame. A mismatch
// is always ProtocolError: no amount of extra bytes can repair a stream
// that lost synchronization, the caller has to re-scan for the marker.
type Sync struct {
    base
    marker uint64
}

// SyncOption adjusts sync layer construction.
type SyncOption func(*Sync)

// SyncByteOrder sets the field byte order (default little-endian).
func SyncByteOrder(order binary.ByteOrder) SyncOption {
    return func(l *Sync) { l.order = order }
}

// NewSync builds a sync-marker layer expecting marker in a width-byte field
// over next.
func NewSync(width int, marker uint64, next Layer, opts ...SyncOption) (*Sync, error) {
    if width < 1 || width > 8 {
        return nil, errors.New("sync layer: field width must be 1..8 bytes")
    }
    if next == nil {
        return nil, errors.New("sync layer: nil next layer")
    }
    l := &Sync{base: base{width: width, next: next}, marker: wire.Truncate(marker, width)}
    for _, opt := range opts {
        opt(l)
    }
    return l, nil
}

func (l *Sync) Read(msg *wire.Message, cur *wire.Cursor, size int, missing *int) wire.Status {
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
    if f.Value != l.marker {
        resetMessage(msg)
        return wire.ProtocolError
    }
    return l.next.Read(msg, cur, size-l.width, missing)
}

func (l *Sync) Write(msg wire.Message, cur wire.WriteCursor, size int) wire.Status {
    if size < l.width {
        return wire.BufferOverflow
    }

    f := l.field()
    f.Value = l.marker
    if fst := f.WriteTo(cur, size); fst != wire.Success {
        return fst
    }
    return l.next.Write(msg, cur, size-l.width)
}

// Update skips the constant marker and relays to the inner layers.
func (l *Sync) Update(cur *wire.Cursor, size int) wire.Status {
    cur.Skip(l.width)
    return l.next.Update(cur, size-l.width)
}
