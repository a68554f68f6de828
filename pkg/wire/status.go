// Package wire holds the shared vocabulary of the marshalling stack:
// operation statuses, buffer cursors, fixed-width fields and the message
// contract that protocol layers populate and inspect.
package wire

// Status is the outcome of a single layer operation. Exactly one status is
// returned per call; statuses are the only error signal crossing layer
// boundaries.
type Status uint8

const (
    // Success means the operation completed and the cursor advanced past
    // everything it consumed or produced.
    Success Status = iota

    // NotEnoughData means the read needs more bytes. The same read can be
    // retried from the same starting position once they arrive; the missing
    // output (when supplied) carries the exact shortfall.
    NotEnoughData

    // ProtocolError means the data is invalid for this frame (bad checksum,
    // bad sync marker, unknown message id). The message has been reset and
    // the caller must resynchronize rather than retry.
    ProtocolError

    // BufferOverflow means the destination has no room for what a write had
    // to produce.
    BufferOverflow

    // UpdateRequired is not an error: a sequential write could not finalize
    // a field in one pass and a random-access Update call over the written
    // bytes is mandatory before they are valid on the wire.
    UpdateRequired
)

func (s Status) String() string {
    switch s {
    case Success:
        return "success"
    case NotEnoughData:
        return "not enough data"
    case ProtocolError:
        return "protocol error"
    case BufferOverflow:
        return "buffer overflow"
    case UpdateRequired:
        return "update required"
    default:
        return "unknown status"
    }
}
