package codec

import "fmt"

type rawCodec struct{}

// Raw returns the pass-through codec for uninterpreted byte bodies. Both
// sides must be *[]byte or []byte.
func Raw() Codec { return rawCodec{} }

func (rawCodec) ContentType() string { return ContentRaw }

func (rawCodec) Marshal(v any) ([]byte, error) {
    switch b := v.(type) {
    case []byte:
        return b, nil
    case *[]byte:
        return *b, nil
    default:
        return nil, fmt.Errorf("raw codec: want []byte, got %T", v)
    }
}

func (rawCodec) Unmarshal(data []byte, v any) error {
    out, ok := v.(*[]byte)
    if !ok {
        return fmt.Errorf("raw codec: want *[]byte, got %T", v)
    }
    *out = append((*out)[:0], data...)
    return nil
}
