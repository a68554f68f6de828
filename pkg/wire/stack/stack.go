// Package stack builds a layer chain from a configuration profile. The
// chain is assembled once at startup and immutable afterwards; every knob
// (widths, byte order, checksum algorithm, verify policy) comes from
// config.FrameConfig.
package stack

import (
    "encoding/binary"
    "fmt"
    "strings"

    "github.com/NilFoundation/network-marshalling/pkg/config"
    "github.com/NilFoundation/network-marshalling/pkg/wire"
    "github.com/NilFoundation/network-marshalling/pkg/wire/checksum"
    "github.com/NilFoundation/network-marshalling/pkg/wire/layer"
)

// Build assembles the frame sync | length | checksum | id | meta | payload
// from the profile, skipping layers whose width is zero. factory may be nil
// when the id layer is enabled; the default raw-message factory is used
// then.
func Build(fc config.FrameConfig, factory layer.Factory) (*layer.Frame, error) {
    var order binary.ByteOrder = binary.LittleEndian
    if strings.EqualFold(fc.ByteOrder, "big") || strings.EqualFold(fc.ByteOrder, "be") {
        order = binary.BigEndian
    }

    var popts []layer.PayloadOption
    if fc.Payload.FixedLength > 0 {
        popts = append(popts, layer.FixedPayload(fc.Payload.FixedLength))
    }
    top, err := layer.NewPayload(popts...)
    if err != nil {
        return nil, fmt.Errorf("stack: payload layer: %w", err)
    }
    var chain layer.Layer = top

    if fc.Meta.Width > 0 {
        chain, err = layer.NewMeta(fc.Meta.Width, metaGet, metaSet, chain, layer.MetaByteOrder(order))
        if err != nil {
            return nil, fmt.Errorf("stack: meta layer: %w", err)
        }
    }

    if fc.ID.Width > 0 {
        if factory == nil {
            max := fc.ID.MaxID
            if max == 0 {
                max = wire.Truncate(^uint64(0), fc.ID.Width)
            }
            factory = layer.RawFactory(max)
        }
        chain, err = layer.NewID(fc.ID.Width, factory, chain, layer.IDByteOrder(order))
        if err != nil {
            return nil, fmt.Errorf("stack: id layer: %w", err)
        }
    }

    if fc.Checksum.Width > 0 {
        calc, err := checksum.ByName(fc.Checksum.Algorithm)
        if err != nil {
            return nil, fmt.Errorf("stack: checksum layer: %w", err)
        }
        opts := []layer.ChecksumOption{layer.ChecksumByteOrder(order)}
        if fc.Checksum.VerifyBeforeRead {
            opts = append(opts, layer.VerifyBeforeRead())
        }
        chain, err = layer.NewChecksum(fc.Checksum.Width, calc, chain, opts...)
        if err != nil {
            return nil, fmt.Errorf("stack: checksum layer: %w", err)
        }
    }

    if fc.Length.Width > 0 {
        chain, err = layer.NewLength(fc.Length.Width, chain, layer.LengthByteOrder(order))
        if err != nil {
            return nil, fmt.Errorf("stack: length layer: %w", err)
        }
    }

    if fc.Sync.Width > 0 {
        chain, err = layer.NewSync(fc.Sync.Width, fc.Sync.Marker, chain, layer.SyncByteOrder(order))
        if err != nil {
            return nil, fmt.Errorf("stack: sync layer: %w", err)
        }
    }

    return layer.NewFrame(chain)
}

func metaGet(m wire.Message) uint64 {
    if mc, ok := m.(wire.MetaCarrier); ok {
        return mc.MetaValue()
    }
    return 0
}

func metaSet(m wire.Message, v uint64) {
    if mc, ok := m.(wire.MetaCarrier); ok {
        mc.SetMetaValue(v)
    }
}
