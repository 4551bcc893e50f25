package notification

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

type FCMPusher struct {
	client *messaging.Client
	tokens []string
	logger *zap.Logger
}

// NewFCMPusher prefers base64 service-account JSON and falls back to a
// credentials file on disk.
func NewFCMPusher(ctx context.Context, encodedCreds, credentialsFile string, tokens []string, logger *zap.Logger) (*FCMPusher, error) {
	var opt option.ClientOption

	if encodedCreds != "" {
		decoded, err := base64.StdEncoding.DecodeString(encodedCreds)
		if err != nil {
			return nil, fmt.Errorf("failed to decode base64 firebase credentials: %w", err)
		}
		opt = option.WithCredentialsJSON(decoded)
		logger.Info("FCM: initializing from FCM_SERVICE_ACCOUNT_JSON")
	} else {
		if credentialsFile == "" {
			return nil, fmt.Errorf("no firebase credentials configured")
		}
		if _, err := os.Stat(credentialsFile); os.IsNotExist(err) {
			return nil, fmt.Errorf("firebase credentials file not found: %s", credentialsFile)
		}
		opt = option.WithCredentialsFile(credentialsFile)
		logger.Info("FCM: initializing from credentials file", zap.String("path", credentialsFile))
	}

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}

	return &FCMPusher{client: client, tokens: tokens, logger: logger}, nil
}

// Push sends to every configured device one by one. It fails only when
// every send failed.
func (p *FCMPusher) Push(ctx context.Context, title, body string, data map[string]string) error {
	if len(p.tokens) == 0 {
		return nil
	}

	successCount := 0
	failureCount := 0

	for _, token := range p.tokens {
		message := &messaging.Message{
			Token: token,
			Notification: &messaging.Notification{
				Title: title,
				Body:  body,
			},
			Data: data,
			Android: &messaging.AndroidConfig{
				Priority: "normal",
			},
		}

		if _, err := p.client.Send(ctx, message); err != nil {
			p.logger.Warn("FCM: send failed", zap.Error(err))
			failureCount++
		} else {
			successCount++
		}
	}

	p.logger.Debug("FCM: push finished", zap.Int("sent", successCount), zap.Int("failed", failureCount))

	if successCount == 0 && failureCount > 0 {
		return fmt.Errorf("all push notifications failed")
	}
	return nil
}

var _ Pusher = (*FCMPusher)(nil)
