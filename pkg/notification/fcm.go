package notification

import (
	"context"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/quocanhngo/hifcm/internal/model"
	"google.golang.org/api/option"
)

// FCM rejects multicast messages addressed to more tokens than this
const maxMulticastTokens = 500

// TokenPruner removes tokens FCM no longer accepts
type TokenPruner interface {
	DeleteToken(ctx context.Context, token string) error
}

// Recorder stores sent notifications
type Recorder interface {
	Create(ctx context.Context, n *model.Notification) error
}

// multicaster is the part of *messaging.Client the sender uses
type multicaster interface {
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

// Sender delivers push messages through Firebase Cloud Messaging
type Sender struct {
	client   multicaster
	tokens   TokenPruner
	recorder Recorder
}

// NewSender creates an FCM sender. Without credentials delivery is skipped
// and notifications are only recorded.
func NewSender(ctx context.Context, credentialsFile string, tokens TokenPruner, recorder Recorder) *Sender {
	s := &Sender{tokens: tokens, recorder: recorder}
	if credentialsFile == "" {
		log.Println("⚠️ Firebase credentials not provided, push delivery disabled")
		return s
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		// Don't block server startup
		log.Printf("⚠️ Failed to initialize Firebase app: %v (push delivery disabled)", err)
		return s
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		log.Printf("⚠️ Failed to get messaging client: %v", err)
		return s
	}

	log.Println("✅ Firebase FCM initialized")
	s.client = client
	return s
}

// Devices sends msg to all devices, in multicasts of up to 500 tokens, and
// records it once per owner
func (s *Sender) Devices(ctx context.Context, devices []model.Device, msg model.PushMessage) error {
	tokens := make([]string, 0, len(devices))
	owners := make([]uint, 0, 1)
	seen := make(map[uint]bool)
	for _, d := range devices {
		if t := d.PushToken(); t != "" {
			tokens = append(tokens, t)
		}
		if !seen[d.UserID] {
			seen[d.UserID] = true
			owners = append(owners, d.UserID)
		}
	}

	for _, userID := range owners {
		if err := s.recorder.Create(ctx, msg.ToNotification(userID)); err != nil {
			log.Printf("⚠️ Failed to record notification for user %d: %v", userID, err)
		}
	}

	if s.client == nil || len(tokens) == 0 {
		return nil
	}

	var sendErr error
	for start := 0; start < len(tokens); start += maxMulticastTokens {
		end := min(start+maxMulticastTokens, len(tokens))
		if err := s.multicast(ctx, tokens[start:end], msg); err != nil && sendErr == nil {
			sendErr = err
		}
	}
	return sendErr
}

// multicast sends one batch of at most maxMulticastTokens tokens
func (s *Sender) multicast(ctx context.Context, tokens []string, msg model.PushMessage) error {
	br, err := s.client.SendEachForMulticast(ctx, BuildMessage(tokens, msg))
	if err != nil {
		return fmt.Errorf("error sending multicast message: %w", err)
	}

	if br.FailureCount > 0 {
		for idx, resp := range br.Responses {
			if resp.Success {
				continue
			}
			log.Printf("⚠️ FCM failure for token %s: %v", tokens[idx], resp.Error)
			if messaging.IsUnregistered(resp.Error) {
				if err := s.tokens.DeleteToken(ctx, tokens[idx]); err != nil {
					log.Printf("⚠️ Failed to prune token %s: %v", tokens[idx], err)
				}
			}
		}
	}

	log.Printf("📨 Multicast sent: %d success, %d failures", br.SuccessCount, br.FailureCount)
	return nil
}

// BuildMessage composes the multicast payload. Dialog fields only travel in
// the data map; empty values are left out.
func BuildMessage(tokens []string, msg model.PushMessage) *messaging.MulticastMessage {
	data := map[string]string{
		"type":    "custom_message",
		"title":   msg.Title,
		"message": msg.Message,
	}
	for k, v := range map[string]string{
		"image":        msg.Image,
		"dialog_title": msg.DialogTitle,
		"dialog_text":  msg.DialogText,
		"dialog_image": msg.DialogImage,
	} {
		if v != "" {
			data[k] = v
		}
	}

	return &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title:    msg.Title,
			Body:     msg.Message,
			ImageURL: msg.Image,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ClickAction: "FLUTTER_NOTIFICATION_CLICK",
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		},
	}
}
