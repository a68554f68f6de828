// Package dispatch routes decoded messages to registered handlers. It sits
// on top of a stream connection: frames come off the wire, the id layer
// resolves the concrete message, and the dispatcher hands it to the handler
// registered for that id.
package dispatch

import (
    "context"
    "errors"
    "fmt"
    "io"
    "sync"

    "go.uber.org/zap"

    "github.com/NilFoundation/network-marshalling/pkg/wire"
    "github.com/NilFoundation/network-marshalling/pkg/wire/stream"
)

// Handler processes one decoded message.
type Handler func(ctx context.Context, msg wire.Message) error

// Dispatcher maps message ids to handlers.
type Dispatcher struct {
    mu       sync.RWMutex
    handlers map[uint64]Handler
    fallback Handler
}

func New() *Dispatcher {
    return &Dispatcher{handlers: make(map[uint64]Handler)}
}

// Handle registers a handler for a message id. Registering the same id
// twice is a configuration error and panics.
func (d *Dispatcher) Handle(id uint64, h Handler) *Dispatcher {
    d.mu.Lock()
    defer d.mu.Unlock()
    if _, dup := d.handlers[id]; dup {
        panic(fmt.Sprintf("dispatch: duplicate handler for id %d", id))
    }
    d.handlers[id] = h
    return d
}

// Fallback registers the handler for ids with no dedicated handler. Without
// one, unhandled messages are dropped with a warning.
func (d *Dispatcher) Fallback(h Handler) *Dispatcher {
    d.mu.Lock()
    defer d.mu.Unlock()
    d.fallback = h
    return d
}

// Dispatch routes one message.
func (d *Dispatcher) Dispatch(ctx context.Context, msg wire.Message) error {
    d.mu.RLock()
    h, ok := d.handlers[msg.MsgID()]
    if !ok {
        h = d.fallback
    }
    d.mu.RUnlock()

    if h == nil {
        zap.L().Warn("no handler for message", zap.Uint64("id", msg.MsgID()))
        return nil
    }
    return h(ctx, msg)
}

// Serve reads frames from conn and dispatches them until the stream ends,
// the context is cancelled, or the chain reports an unrecoverable frame.
// A clean peer close returns nil.
func (d *Dispatcher) Serve(ctx context.Context, conn *stream.Conn) error {
    for {
        if err := ctx.Err(); err != nil {
            return err
        }
        msg, err := conn.Recv()
        if err != nil {
            if err == io.EOF {
                return nil
            }
            if errors.Is(err, stream.ErrProtocol) {
                zap.L().Warn("dropping connection on bad frame", zap.Error(err))
            }
            return err
        }
        if err := d.Dispatch(ctx, msg); err != nil {
            zap.L().Warn("handler failed",
                zap.Uint64("id", msg.MsgID()),
                zap.Error(err))
        }
    }
}
