package wire

import (
    "bytes"
    "testing"
)

func TestCursorReadWrite(t *testing.T) {
    buf := make([]byte, 8)
    c := NewCursor(buf)
    if st := c.Append([]byte{1, 2, 3}); st != Success {
        t.Fatalf("append: %v", st)
    }
    if c.Pos() != 3 || c.Remaining() != 5 {
        t.Fatalf("pos=%d remaining=%d", c.Pos(), c.Remaining())
    }
    if st := c.Append(make([]byte, 6)); st != BufferOverflow {
        t.Fatalf("want overflow, got %v", st)
    }

    c.SetPos(0)
    b, ok := c.Next(3)
    if !ok || !bytes.Equal(b, []byte{1, 2, 3}) {
        t.Fatalf("next: %v %v", b, ok)
    }
    if _, ok := c.Next(6); ok {
        t.Fatalf("next past end should fail")
    }
    if c.Pos() != 3 {
        t.Fatalf("failed next moved cursor: %d", c.Pos())
    }
}

func TestCursorForkAndView(t *testing.T) {
    c := NewCursor([]byte{9, 8, 7, 6})
    f := c.Fork(2)
    if f.Pos() != 2 || c.Pos() != 0 {
        t.Fatalf("fork positions: %d %d", f.Pos(), c.Pos())
    }
    if v := c.View(1, 3); !bytes.Equal(v, []byte{8, 7}) {
        t.Fatalf("view: %v", v)
    }
    if v := c.View(3, 1); v != nil {
        t.Fatalf("inverted view should be nil")
    }
}

func TestStreamLimit(t *testing.T) {
    s := NewStreamLimit(4)
    if st := s.Append([]byte{1, 2, 3}); st != Success {
        t.Fatalf("append: %v", st)
    }
    if st := s.Append([]byte{4, 5}); st != BufferOverflow {
        t.Fatalf("want overflow, got %v", st)
    }
    if s.Pos() != 3 {
        t.Fatalf("overflowing append moved stream: %d", s.Pos())
    }
    if st := s.Append([]byte{4}); st != Success {
        t.Fatalf("append to limit: %v", st)
    }
    if !bytes.Equal(s.Bytes(), []byte{1, 2, 3, 4}) {
        t.Fatalf("bytes: %v", s.Bytes())
    }
}
