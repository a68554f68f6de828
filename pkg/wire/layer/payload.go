package layer

import (
    "errors"
    "math"

    "github.com/NilFoundation/network-marshalling/pkg/wire"
)

// Payload is the innermost, terminal layer. On read it copies every byte it
// is offered into the message's payload; on write it emits the payload
// verbatim. It never produces ProtocolError: a short or oversized body is a
// data-amount problem, not a framing one.
type Payload struct {
    fixed int // 0 means variable length
}

// PayloadOption adjusts payload layer construction.
type PayloadOption func(*Payload)

// FixedPayload pins the body to exactly n bytes. Reads of shorter regions
// report the exact shortfall instead of accepting a truncated body.
func FixedPayload(n int) PayloadOption {
    return func(l *Payload) { l.fixed = n }
}

// NewPayload builds the terminal payload layer.
func NewPayload(opts ...PayloadOption) (*Payload, error) {
    l := &Payload{}
    for _, opt := range opts {
        opt(l)
    }
    if l.fixed < 0 {
        return nil, errors.New("payload layer: negative fixed length")
    }
    return l, nil
}

func (l *Payload) Read(msg *wire.Message, cur *wire.Cursor, size int, missing *int) wire.Status {
    if l.fixed > 0 {
        if size < l.fixed {
            if missing != nil {
                *missing = l.fixed - size
            }
            return wire.NotEnoughData
        }
        size = l.fixed
    }

    b, ok := cur.Next(size)
    if !ok {
        if missing != nil {
            *missing = size - cur.Remaining()
        }
        return wire.NotEnoughData
    }

    if msg != nil && *msg != nil {
        if pc, ok := (*msg).(wire.PayloadCarrier); ok {
            pc.SetPayload(b)
        }
    }
    return wire.Success
}

func (l *Payload) Write(msg wire.Message, cur wire.WriteCursor, size int) wire.Status {
    body := payloadOf(msg)
    if len(body) > size {
        return wire.BufferOverflow
    }
    return cur.Append(body)
}

// Update has nothing to rewrite; it advances past the body so outer layers
// measure the right span.
func (l *Payload) Update(cur *wire.Cursor, size int) wire.Status {
    cur.Skip(size)
    return wire.Success
}

func (l *Payload) Length(msg wire.Message) int {
    if l.fixed > 0 {
        return l.fixed
    }
    return len(payloadOf(msg))
}

func (l *Payload) MinLength() int { return l.fixed }

func (l *Payload) MaxLength() int {
    if l.fixed > 0 {
        return l.fixed
    }
    return math.MaxInt
}

func payloadOf(msg wire.Message) []byte {
    if pc, ok := msg.(wire.PayloadCarrier); ok {
        return pc.Payload()
    }
    return nil
}
