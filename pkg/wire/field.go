package wire

import "encoding/binary"

// Field is a fixed-width unsigned integer wire element: the decoded form of
// one frame field (checksum value, length prefix, message id, sync marker).
// Width is 1..8 bytes; Order defaults to little-endian when nil, matching
// the rest of the stack. A Field is scoped to a single read/write/update
// call and holds one scalar after a successful read.
type Field struct {
    Width int
    Order binary.ByteOrder
    Value uint64
}

// Truncate narrows v to width bytes, discarding high bits. This is the
// narrowing cast applied to checksum calculator results before they are
// compared with or stored into a field.
func Truncate(v uint64, width int) uint64 {
    if width >= 8 {
        return v
    }
    return v & (1<<(uint(width)*8) - 1)
}

func (f *Field) order() binary.ByteOrder {
    if f.Order == nil {
        return binary.LittleEndian
    }
    return f.Order
}

// ReadFrom decodes the field from the cursor. At most size bytes may be
// consumed; fewer available than Width yields NotEnoughData and leaves the
// cursor in place.
func (f *Field) ReadFrom(c *Cursor, size int) Status {
    if size < f.Width || c.Remaining() < f.Width {
        return NotEnoughData
    }
    b, _ := c.Next(f.Width)
    var scratch [8]byte
    if f.order() == binary.ByteOrder(binary.BigEndian) {
        copy(scratch[8-f.Width:], b)
        f.Value = binary.BigEndian.Uint64(scratch[:])
    } else {
        copy(scratch[:f.Width], b)
        f.Value = binary.LittleEndian.Uint64(scratch[:])
    }
    return Success
}

// WriteTo encodes the field through the cursor. At most size bytes may be
// produced; size smaller than Width yields BufferOverflow.
func (f *Field) WriteTo(c WriteCursor, size int) Status {
    if size < f.Width {
        return BufferOverflow
    }
    var scratch [8]byte
    if f.order() == binary.ByteOrder(binary.BigEndian) {
        binary.BigEndian.PutUint64(scratch[:], Truncate(f.Value, f.Width))
        return c.Append(scratch[8-f.Width:])
    }
    binary.LittleEndian.PutUint64(scratch[:], Truncate(f.Value, f.Width))
    return c.Append(scratch[:f.Width])
}
