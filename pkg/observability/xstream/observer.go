package xstream

import (
	"context"
	"log/slog"
)

// NewSlogObserver 返回把全部事件输出为 slog 记录的 Handler，用于诊断：
//
//	l := xstream.New(paths, xstream.WithObserver(xstream.NewSlogObserver(slog.Default())))
//
// KindError 记为 Warn，消息事件记为 Debug，其余记为 Info。
func NewSlogObserver(logger *slog.Logger) Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(e Event) {
		ctx := context.Background()
		switch e.Kind {
		case KindOpened:
			logger.LogAttrs(ctx, slog.LevelInfo, "all streams open")
		case KindClosed:
			logger.LogAttrs(ctx, slog.LevelInfo, "all streams closed")
		case KindError:
			logger.LogAttrs(ctx, slog.LevelWarn, "stream error",
				slog.String("destination", e.Destination),
				slog.Any("error", e.Err),
			)
		case KindMessageReceived:
			logger.LogAttrs(ctx, slog.LevelDebug, "received message",
				slog.String("level", e.Level.String()),
				slog.String("message", e.Message),
			)
		case KindMessageLogged:
			logger.LogAttrs(ctx, slog.LevelDebug, "logged message",
				slog.String("level", e.Level.String()),
				slog.String("message", e.Message),
			)
		}
	}
}
