package notification

import (
	"context"

	"go.uber.org/zap"
)

// Pusher delivers a short message outside the app.
type Pusher interface {
	Push(ctx context.Context, title, body string, data map[string]string) error
}

// LogPusher only logs; used when no push backend is configured.
type LogPusher struct {
	Logger *zap.Logger
}

func (p *LogPusher) Push(ctx context.Context, title, body string, data map[string]string) error {
	p.Logger.Info("push (log only)", zap.String("title", title), zap.String("body", body))
	return nil
}
