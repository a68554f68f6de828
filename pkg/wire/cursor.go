package wire

// WriteCursor is the minimal write capability: sequential append plus a
// produced-byte count. Layers that can emit their field in one forward pass
// need nothing else.
type WriteCursor interface {
    // Append writes p at the current position and advances. Returns
    // BufferOverflow when the destination has no room for all of p.
    Append(p []byte) Status
    // Pos reports the number of bytes produced so far.
    Pos() int
}

// RandomAccess marks a write cursor that can rewind and re-read what was
// written. Layers check for it once at the start of a write to pick the
// single-pass strategy; without it they fall back to placeholder values and
// UpdateRequired.
type RandomAccess interface {
    WriteCursor
    // SetPos repositions the cursor to an absolute offset.
    SetPos(n int)
    // View returns the [from, to) window of the underlying buffer without
    // copying. The window stays valid until the buffer owner reuses it.
    View(from, to int) []byte
}

// Cursor is a random-access position over a caller-owned byte slice. It is
// used both for reads and for in-place writes/updates; it never allocates
// and never grows the slice.
type Cursor struct {
    buf []byte
    pos int
}

// NewCursor returns a cursor at the start of buf.
func NewCursor(buf []byte) *Cursor { return &Cursor{buf: buf} }

// Pos returns the current absolute offset.
func (c *Cursor) Pos() int { return c.pos }

// SetPos moves the cursor to an absolute offset. Out-of-range positions are
// clamped to the buffer bounds.
func (c *Cursor) SetPos(n int) {
    if n < 0 {
        n = 0
    }
    if n > len(c.buf) {
        n = len(c.buf)
    }
    c.pos = n
}

// Remaining returns the number of bytes between the cursor and the end of
// the buffer.
func (c *Cursor) Remaining() int { return len(c.buf) - c.pos }

// Len returns the total buffer length.
func (c *Cursor) Len() int { return len(c.buf) }

// Bytes returns the whole underlying buffer.
func (c *Cursor) Bytes() []byte { return c.buf }

// View returns the [from, to) window of the buffer without copying.
func (c *Cursor) View(from, to int) []byte {
    if from < 0 || to > len(c.buf) || from > to {
        return nil
    }
    return c.buf[from:to]
}

// Next returns a view of the next n bytes and advances past them. The second
// result is false when fewer than n bytes remain; the cursor does not move
// in that case.
func (c *Cursor) Next(n int) ([]byte, bool) {
    if n < 0 || c.Remaining() < n {
        return nil, false
    }
    b := c.buf[c.pos : c.pos+n]
    c.pos += n
    return b, true
}

// Skip advances the cursor by n bytes, clamped to the buffer end.
func (c *Cursor) Skip(n int) { c.SetPos(c.pos + n) }

// Fork returns an independent cursor over the same buffer positioned at pos.
func (c *Cursor) Fork(pos int) *Cursor {
    f := &Cursor{buf: c.buf}
    f.SetPos(pos)
    return f
}

// Append overwrites the buffer at the current position and advances.
// Implements WriteCursor (and RandomAccess).
func (c *Cursor) Append(p []byte) Status {
    if c.Remaining() < len(p) {
        return BufferOverflow
    }
    copy(c.buf[c.pos:], p)
    c.pos += len(p)
    return Success
}

// Stream is a forward-only append cursor, the sequential capability class.
// It grows its buffer as needed up to an optional limit and cannot rewind,
// so layers that must re-read their output return UpdateRequired against it.
type Stream struct {
    buf   []byte
    limit int
}

// NewStream returns an unbounded append-only cursor.
func NewStream() *Stream { return &Stream{limit: -1} }

// NewStreamLimit returns an append-only cursor that rejects writes past
// limit bytes with BufferOverflow.
func NewStreamLimit(limit int) *Stream { return &Stream{limit: limit} }

// Append appends p to the stream.
func (s *Stream) Append(p []byte) Status {
    if s.limit >= 0 && len(s.buf)+len(p) > s.limit {
        return BufferOverflow
    }
    s.buf = append(s.buf, p...)
    return Success
}

// Pos reports the number of bytes appended so far.
func (s *Stream) Pos() int { return len(s.buf) }

// Bytes returns everything appended so far. The caller typically hands this
// to a random-access Update pass to finalize deferred fields.
func (s *Stream) Bytes() []byte { return s.buf }
