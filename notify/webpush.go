// Package notify delivers browser push notifications over the Web Push
// protocol with VAPID authentication.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"

	"sslv_watcher/config"
	"sslv_watcher/models"
)

// ErrSubscriptionGone marks an endpoint that reports the subscription
// as expired or invalid; the caller is expected to remove it.
var ErrSubscriptionGone = errors.New("push subscription gone")

type payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type WebPush struct {
	vapid  config.VAPIDConfig
	client *http.Client
	ttl    int
}

func NewWebPush(vapid config.VAPIDConfig) (*WebPush, error) {
	if vapid.PublicKey == "" || vapid.PrivateKey == "" {
		return nil, errors.New("missing VAPID keys")
	}
	return &WebPush{
		vapid:  vapid,
		client: &http.Client{Timeout: 15 * time.Second},
		ttl:    3600,
	}, nil
}

// Send pushes one message to the subscription's endpoint. 404 and 410
// responses mean the endpoint no longer exists and surface as
// ErrSubscriptionGone.
func (w *WebPush) Send(ctx context.Context, sub *models.PushSubscription, title, body string) error {
	var s webpush.Subscription
	if err := json.Unmarshal([]byte(sub.Subscription), &s); err != nil {
		return fmt.Errorf("parse subscription: %w", err)
	}

	msg, err := json.Marshal(payload{Title: title, Body: body})
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	resp, err := webpush.SendNotificationWithContext(ctx, msg, &s, &webpush.Options{
		Subscriber:      w.vapid.Subscriber,
		VAPIDPublicKey:  w.vapid.PublicKey,
		VAPIDPrivateKey: w.vapid.PrivateKey,
		TTL:             w.ttl,
		HTTPClient:      w.client,
	})
	if err != nil {
		return fmt.Errorf("send push: %w", err)
	}
	defer resp.Body.Close()

	return classifyStatus(resp.StatusCode)
}

func classifyStatus(code int) error {
	switch {
	case code == http.StatusNotFound || code == http.StatusGone:
		return ErrSubscriptionGone
	case code >= 400:
		return fmt.Errorf("push endpoint returned %d", code)
	default:
		return nil
	}
}
