// marshal-inspect decodes frame files against the configured frame profile
// and reports what the chain saw: message id, metadata, payload size and
// body format, or the precise failure (shortfall or protocol error).
package main

import (
    "flag"
    "os"

    "go.uber.org/zap"

    "github.com/NilFoundation/network-marshalling/pkg/codec"
    "github.com/NilFoundation/network-marshalling/pkg/config"
    "github.com/NilFoundation/network-marshalling/pkg/observability"
    "github.com/NilFoundation/network-marshalling/pkg/wire"
    "github.com/NilFoundation/network-marshalling/pkg/wire/layer"
    "github.com/NilFoundation/network-marshalling/pkg/wire/stack"
)

func main() {
    cfgPath := flag.String("config", "", "config file path (yaml)")
    flag.Parse()

    cfg, err := config.Load(*cfgPath)
    if err != nil {
        zap.S().Fatalf("load config: %v", err)
    }
    logger, err := observability.SetupLogger(cfg.Log)
    if err != nil {
        zap.S().Fatalf("setup logger: %v", err)
    }
    defer logger.Sync()

    frame, err := stack.Build(cfg.Frame, nil)
    if err != nil {
        logger.Fatal("build frame", zap.Error(err))
    }

    if flag.NArg() == 0 {
        logger.Warn("no frame files given")
        return
    }

    failed := 0
    for _, path := range flag.Args() {
        if !inspect(logger, frame, path) {
            failed++
        }
    }
    if failed > 0 {
        logger.Error("inspection finished with failures", zap.Int("failed", failed))
        os.Exit(1)
    }
}

func inspect(logger *zap.Logger, frame *layer.Frame, path string) bool {
    buf, err := os.ReadFile(path)
    if err != nil {
        logger.Error("read frame file", zap.String("file", path), zap.Error(err))
        return false
    }

    res := frame.Decode(buf)
    switch res.Status {
    case wire.Success:
        logFrame(logger, path, res)
        return true
    case wire.NotEnoughData:
        logger.Warn("frame incomplete",
            zap.String("file", path),
            zap.Int("have", len(buf)),
            zap.Int("missing", res.Missing))
        return false
    default:
        logger.Warn("frame rejected",
            zap.String("file", path),
            zap.Stringer("status", res.Status),
            zap.Int("consumed", res.Consumed))
        return false
    }
}

func logFrame(logger *zap.Logger, path string, res layer.ReadResult) {
    fields := []zap.Field{
        zap.String("file", path),
        zap.Int("size", res.Consumed),
    }
    if res.Msg != nil {
        fields = append(fields, zap.Uint64("id", res.Msg.MsgID()))
        if mc, ok := res.Msg.(wire.MetaCarrier); ok {
            fields = append(fields, zap.Uint64("meta", mc.MetaValue()))
        }
        if pc, ok := res.Msg.(wire.PayloadCarrier); ok {
            body := pc.Payload()
            fields = append(fields, zap.Int("payload", len(body)))
            if len(body) > 0 {
                fields = append(fields, zap.Stringer("format", codec.Format(body[0])))
            }
        }
    }
    logger.Info("frame decoded", fields...)
}
