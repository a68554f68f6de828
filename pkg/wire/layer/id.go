package layer

import (
    "encoding/binary"
    "errors"
    "fmt"
    "sort"

    "github.com/NilFoundation/network-marshalling/pkg/wire"
)

// Factory maps a numeric message id to a freshly constructed message
// instance. The second result is false for ids the factory does not know.
type Factory interface {
    Create(id uint64) (wire.Message, bool)
}

// ID reads a message id field, asks the factory for an instance of that
// type and hands the remaining bytes to the inner layers to populate it.
// On write it emits the message's own id.
type ID struct {
    base
    factory Factory
}

// IDOption adjusts id layer construction.
type IDOption func(*ID)

// IDByteOrder sets the field byte order (default little-endian).
func IDByteOrder(order binary.ByteOrder) IDOption {
    return func(l *ID) { l.order = order }
}

// NewID builds an id-dispatch layer with a width-byte field over next.
func NewID(width int, factory Factory, next Layer, opts ...IDOption) (*ID, error) {
    if width < 1 || width > 8 {
        return nil, errors.New("id layer: field width must be 1..8 bytes")
    }
    if factory == nil {
        return nil, errors.New("id layer: nil factory")
    }
    if next == nil {
        return nil, errors.New("id layer: nil next layer")
    }
    l := &ID{base: base{width: width, next: next}, factory: factory}
    for _, opt := range opts {
        opt(l)
    }
    return l, nil
}

func (l *ID) Read(msg *wire.Message, cur *wire.Cursor, size int, missing *int) wire.Status {
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

    created, ok := l.factory.Create(f.Value)
    if !ok {
        resetMessage(msg)
        return wire.ProtocolError
    }
    if msg != nil {
        *msg = created
    }
    return l.next.Read(msg, cur, size-l.width, missing)
}

// Write rejects ids the field cannot represent; a truncated id would
// round-trip to a different message type.
func (l *ID) Write(msg wire.Message, cur wire.WriteCursor, size int) wire.Status {
    if size < l.width {
        return wire.BufferOverflow
    }
    if msg.MsgID() > fieldMax(l.width) {
        return wire.BufferOverflow
    }

    f := l.field()
    f.Value = msg.MsgID()
    if fst := f.WriteTo(cur, size); fst != wire.Success {
        return fst
    }
    return l.next.Write(msg, cur, size-l.width)
}

// Update skips the id field and relays to the inner layers.
func (l *ID) Update(cur *wire.Cursor, size int) wire.Status {
    cur.Skip(l.width)
    return l.next.Update(cur, size-l.width)
}

// FactoryFunc adapts a function to the Factory interface.
type FactoryFunc func(id uint64) (wire.Message, bool)

func (f FactoryFunc) Create(id uint64) (wire.Message, bool) { return f(id) }

// DenseFactory dispatches dense, near-sequential id spaces by direct index.
// Registration is configuration-time work; registering the same id twice is
// a programming error and panics.
type DenseFactory struct {
    ctors []func() wire.Message
}

// NewDenseFactory returns an empty dense factory.
func NewDenseFactory() *DenseFactory { return &DenseFactory{} }

// Register adds a constructor for id, growing the table as needed.
func (f *DenseFactory) Register(id uint64, ctor func() wire.Message) *DenseFactory {
    for uint64(len(f.ctors)) <= id {
        f.ctors = append(f.ctors, nil)
    }
    if f.ctors[id] != nil {
        panic(fmt.Sprintf("dense factory: duplicate message id %d", id))
    }
    f.ctors[id] = ctor
    return f
}

func (f *DenseFactory) Create(id uint64) (wire.Message, bool) {
    if id >= uint64(len(f.ctors)) || f.ctors[id] == nil {
        return nil, false
    }
    return f.ctors[id](), true
}

// SparseFactory dispatches sparse id spaces through an ordered table and
// binary search. Same registration rules as DenseFactory.
type SparseFactory struct {
    ids   []uint64
    ctors []func() wire.Message
}

// NewSparseFactory returns an empty sparse factory.
func NewSparseFactory() *SparseFactory { return &SparseFactory{} }

// Register adds a constructor for id, keeping the table ordered.
func (f *SparseFactory) Register(id uint64, ctor func() wire.Message) *SparseFactory {
    i := sort.Search(len(f.ids), func(i int) bool { return f.ids[i] >= id })
    if i < len(f.ids) && f.ids[i] == id {
        panic(fmt.Sprintf("sparse factory: duplicate message id %d", id))
    }
    f.ids = append(f.ids, 0)
    copy(f.ids[i+1:], f.ids[i:])
    f.ids[i] = id
    f.ctors = append(f.ctors, nil)
    copy(f.ctors[i+1:], f.ctors[i:])
    f.ctors[i] = ctor
    return f
}

func (f *SparseFactory) Create(id uint64) (wire.Message, bool) {
    i := sort.Search(len(f.ids), func(i int) bool { return f.ids[i] >= id })
    if i >= len(f.ids) || f.ids[i] != id {
        return nil, false
    }
    return f.ctors[i](), true
}

// RawFactory produces wire.Raw messages for any id in [0, max]. Convenient
// for tools and tests that care about framing, not message schemas.
func RawFactory(max uint64) Factory {
    return FactoryFunc(func(id uint64) (wire.Message, bool) {
        if id > max {
            return nil, false
        }
        return wire.NewRaw(id), true
    })
}
