// Package stream bridges a layer chain onto io streams. Reads are driven by
// the exact missing-size contract: a partial frame tells the reader
// precisely how many more bytes to fetch before retrying.
package stream

import (
    "bufio"
    "errors"
    "fmt"
    "io"
    "net"

    "github.com/NilFoundation/network-marshalling/pkg/wire"
    "github.com/NilFoundation/network-marshalling/pkg/wire/layer"
)

// ErrProtocol reports a frame the chain rejected. The stream is no longer
// aligned on a frame boundary; the caller should drop the connection or
// re-scan for a sync marker.
var ErrProtocol = errors.New("stream: protocol error in received frame")

// ErrTooLarge reports a frame whose declared size exceeds the configured
// cap. Rejected before any buffer grows, so a hostile peer cannot force
// allocations by declaring absurd lengths.
var ErrTooLarge = errors.New("stream: frame exceeds size cap")

// Conn sends and receives framed messages over an io.ReadWriter.
type Conn struct {
    frame    *layer.Frame
    br       *bufio.Reader
    bw       *bufio.Writer
    rbuf     []byte
    maxFrame int
}

// Option adjusts connection construction.
type Option func(*Conn)

// MaxFrame caps the size of a single received frame. Zero (the default)
// means no cap.
func MaxFrame(n int) Option {
    return func(c *Conn) { c.maxFrame = n }
}

// New wraps rw with the given frame.
func New(rw io.ReadWriter, f *layer.Frame, opts ...Option) *Conn {
    c := &Conn{frame: f, br: bufio.NewReader(rw), bw: bufio.NewWriter(rw)}
    for _, opt := range opts {
        opt(c)
    }
    return c
}

// NewNetConn wraps a net.Conn.
func NewNetConn(nc net.Conn, f *layer.Frame, opts ...Option) *Conn { return New(nc, f, opts...) }

// Send encodes msg through the single-pass path and flushes it.
func (c *Conn) Send(msg wire.Message) error {
    buf, st := c.frame.EncodeAlloc(msg)
    if st != wire.Success {
        return fmt.Errorf("stream: encode frame: %v", st)
    }
    if _, err := c.bw.Write(buf); err != nil {
        return fmt.Errorf("stream: write frame: %w", err)
    }
    return c.bw.Flush()
}

// Recv reads exactly one frame and decodes it. It grows its buffer by the
// exact shortfall the chain reports, so no frame-size negotiation happens
// outside the chain itself. Returns io.EOF when the stream ends cleanly
// before the first byte of a frame.
func (c *Conn) Recv() (wire.Message, error) {
    c.rbuf = c.rbuf[:0]
    need := c.frame.MinLength()

    for {
        if c.maxFrame > 0 && need > c.maxFrame {
            return nil, fmt.Errorf("%w: need %d bytes, cap %d", ErrTooLarge, need, c.maxFrame)
        }
        if err := c.fill(need); err != nil {
            if err == io.EOF && len(c.rbuf) == 0 {
                return nil, io.EOF
            }
            return nil, fmt.Errorf("stream: read frame: %w", err)
        }

        res := c.frame.Decode(c.rbuf)
        switch res.Status {
        case wire.Success:
            return res.Msg, nil
        case wire.NotEnoughData:
            need = len(c.rbuf) + res.Missing
        default:
            return nil, fmt.Errorf("%w: %v", ErrProtocol, res.Status)
        }
    }
}

// fill reads until the buffer holds at least n bytes.
func (c *Conn) fill(n int) error {
    for len(c.rbuf) < n {
        grow := n - len(c.rbuf)
        off := len(c.rbuf)
        c.rbuf = append(c.rbuf, make([]byte, grow)...)
        if _, err := io.ReadFull(c.br, c.rbuf[off:]); err != nil {
            c.rbuf = c.rbuf[:off]
            if err == io.ErrUnexpectedEOF {
                return io.EOF
            }
            return err
        }
    }
    return nil
}
