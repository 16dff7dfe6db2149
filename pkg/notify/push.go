package notify

import (
	"context"
	"encoding/base64"
	"errors"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

type PushManager struct {
	FirebaseApp *firebase.App

	// DefaultTarget is the FCM registration token pushes go to when a
	// notification doesn't name one itself
	DefaultTarget string
}

func (m *PushManager) Setup() error {
	fireBaseAuthKey := os.Getenv("TREINWACHT_FIREBASE_SERVICE_ACCOUNT")

	decodedKey, err := base64.StdEncoding.DecodeString(fireBaseAuthKey)
	if err != nil {
		return err
	}

	opts := []option.ClientOption{option.WithCredentialsJSON(decodedKey)}

	// Initialize firebase app
	app, err := firebase.NewApp(context.Background(), nil, opts...)

	if err != nil {
		return err
	}

	m.FirebaseApp = app
	m.DefaultTarget = os.Getenv("TREINWACHT_PUSH_TOKEN")

	return nil
}

func (m *PushManager) SendPush(notification Notification) error {
	target := notification.TargetDevice
	if target == "" {
		target = m.DefaultTarget
	}
	if target == "" {
		return errors.New("no push notification target configured")
	}

	fcmClient, err := m.FirebaseApp.Messaging(context.Background())

	if err != nil {
		return err
	}

	_, err = fcmClient.Send(context.Background(), &messaging.Message{
		Notification: &messaging.Notification{
			Title: notification.Title,
			Body:  notification.Message,
		},
		Token: target,
	})

	if err != nil {
		return err
	}

	log.Info().Str("title", notification.Title).Msg("Sent Push Notification")

	return nil
}
