// Package codec provides the payload body encodings carried inside frames.
// The layer chain moves opaque bytes; these codecs give those bytes a
// structured interpretation, selected by a one-byte format marker at the
// front of the payload.
package codec

import "fmt"

// Codec marshals typed message bodies. Implementations should be
// deterministic and safe for cross-node exchange.
type Codec interface {
    ContentType() string
    Marshal(v any) ([]byte, error)
    Unmarshal(data []byte, v any) error
}

// Format is the compact on-wire indicator of the body encoding, carried as
// the first byte of the frame payload.
type Format uint8

const (
    FormatRaw Format = iota
    FormatJSON
    FormatCBOR
    FormatProto
)

// Content type aliases for the built-in formats.
const (
    ContentRaw   = "application/octet-stream"
    ContentJSON  = "application/json"
    ContentCBOR  = "application/cbor"
    ContentProto = "application/x-protobuf"
)

func (f Format) String() string {
    switch f {
    case FormatRaw:
        return ContentRaw
    case FormatJSON:
        return ContentJSON
    case FormatCBOR:
        return ContentCBOR
    case FormatProto:
        return ContentProto
    default:
        return fmt.Sprintf("unknown format %d", uint8(f))
    }
}

// Registry maps formats and content type aliases to codecs.
type Registry struct {
    byFormat map[Format]Codec
    byType   map[string]Codec
}

// NewRegistry constructs a registry preloaded with the codecs that need no
// initialization: Raw, JSON and Protobuf. CBOR is added explicitly once its
// mode options are resolved: reg.Register(FormatCBOR, c).
func NewRegistry() *Registry {
    r := &Registry{byFormat: make(map[Format]Codec), byType: make(map[string]Codec)}
    r.Register(FormatRaw, Raw())
    r.Register(FormatJSON, JSON())
    r.Register(FormatProto, Proto())
    return r
}

// Register adds a codec under a format marker and its content type.
func (r *Registry) Register(f Format, c Codec) {
    r.byFormat[f] = c
    r.byType[c.ContentType()] = c
}

// Get returns the codec for a format, or nil.
func (r *Registry) Get(f Format) Codec { return r.byFormat[f] }

// GetType returns the codec for a content type, or nil.
func (r *Registry) GetType(contentType string) Codec { return r.byType[contentType] }

// EncodeBody serializes v with the codec for f and prefixes the result with
// the format byte, producing the bytes the terminal payload layer carries.
func (r *Registry) EncodeBody(f Format, v any) ([]byte, error) {
    c := r.Get(f)
    if c == nil {
        return nil, fmt.Errorf("codec: no codec registered for %v", f)
    }
    b, err := c.Marshal(v)
    if err != nil {
        return nil, err
    }
    out := make([]byte, 1+len(b))
    out[0] = byte(f)
    copy(out[1:], b)
    return out, nil
}

// DecodeBody decodes a payload produced by EncodeBody into v and reports
// the embedded format.
func (r *Registry) DecodeBody(payload []byte, v any) (Format, error) {
    if len(payload) == 0 {
        return FormatRaw, fmt.Errorf("codec: empty payload")
    }
    f := Format(payload[0])
    c := r.Get(f)
    if c == nil {
        return f, fmt.Errorf("codec: no codec registered for %v", f)
    }
    return f, c.Unmarshal(payload[1:], v)
}
