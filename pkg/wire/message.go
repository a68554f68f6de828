package wire

// Message is the opaque target of a frame read and the source of a frame
// write. It is owned by the caller across the whole chain invocation; a
// layer that detects a terminal error resets it so that partially populated
// messages never escape.
type Message interface {
    // MsgID returns the numeric wire id of this message type.
    MsgID() uint64
    // Reset restores the message to its default, unpopulated state.
    Reset()
}

// PayloadCarrier is implemented by messages whose body is an uninterpreted
// byte sequence. The terminal payload layer reads into and writes from it.
type PayloadCarrier interface {
    Payload() []byte
    SetPayload(p []byte)
}

// MetaCarrier is implemented by messages with a transport metadata slot
// (protocol version, channel number). The metadata layer copies its field
// value through it, outside the payload.
type MetaCarrier interface {
    MetaValue() uint64
    SetMetaValue(v uint64)
}

// Raw is a plain message: a numeric id, a transport metadata slot and an
// opaque payload. It is the default message type produced by factories that
// carry no schema.
type Raw struct {
    ID   uint64
    Meta uint64
    Body []byte
}

// NewRaw returns a Raw message with the given id.
func NewRaw(id uint64) *Raw { return &Raw{ID: id} }

func (m *Raw) MsgID() uint64 { return m.ID }

func (m *Raw) Payload() []byte { return m.Body }

// SetPayload copies p into the message so the frame buffer can be reused.
func (m *Raw) SetPayload(p []byte) { m.Body = append(m.Body[:0], p...) }

func (m *Raw) MetaValue() uint64 { return m.Meta }

func (m *Raw) SetMetaValue(v uint64) { m.Meta = v }

func (m *Raw) Reset() {
    m.Meta = 0
    m.Body = m.Body[:0]
}
