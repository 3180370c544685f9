package services

import (
	"context"
	"fmt"
	"sync"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	firebasestorage "firebase.google.com/go/v4/storage"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	"threadloom.com/threadloom-backend/pkg/logger"
)

var (
	firebaseApp     *firebase.App
	messagingClient *messaging.Client
	storageClient   *firebasestorage.Client
	once            sync.Once
	initError       error
)

// InitFirebase wires the Firebase app once: FCM for pushes, the default
// storage bucket for image objects.
func InitFirebase(credentialsPath, storageBucket string) error {
	once.Do(func() {
		ctx := context.Background()
		log := logger.Get()

		log.Info("initializing firebase", zap.String("credentials", credentialsPath))

		opt := option.WithCredentialsFile(credentialsPath)
		app, err := firebase.NewApp(ctx, &firebase.Config{StorageBucket: storageBucket}, opt)
		if err != nil {
			initError = fmt.Errorf("init firebase app: %w", err)
			return
		}
		firebaseApp = app

		messagingClient, err = app.Messaging(ctx)
		if err != nil {
			initError = fmt.Errorf("init messaging client: %w", err)
			return
		}

		storageClient, err = app.Storage(ctx)
		if err != nil {
			initError = fmt.Errorf("init storage client: %w", err)
			return
		}

		log.Info("firebase initialized")
	})

	return initError
}

func getMessagingClient() (*messaging.Client, error) {
	if messagingClient == nil {
		return nil, fmt.Errorf("firebase messaging not initialized: %w", errOrUninitialized())
	}
	return messagingClient, nil
}

func getStorageClient() (*firebasestorage.Client, error) {
	if storageClient == nil {
		return nil, fmt.Errorf("firebase storage not initialized: %w", errOrUninitialized())
	}
	return storageClient, nil
}

func errOrUninitialized() error {
	if initError != nil {
		return initError
	}
	return fmt.Errorf("InitFirebase not called")
}

// SendMultipleNotifications multicasts a push to the given device tokens and
// returns success/failure counts plus the tokens FCM reports as dead so the
// caller can prune them.
func SendMultipleNotifications(ctx context.Context, tokens []string, title, body string, data map[string]string) (int, int, []string, error) {
	client, err := getMessagingClient()
	if err != nil {
		return 0, 0, nil, err
	}
	log := logger.Get()

	message := &messaging.MulticastMessage{
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data:   data,
		Tokens: tokens,
	}

	response, err := client.SendEachForMulticast(ctx, message)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("multicast send: %w", err)
	}

	var dead []string
	for i, resp := range response.Responses {
		if resp.Success {
			continue
		}
		log.Warn("push delivery failed", zap.Error(resp.Error))
		if messaging.IsUnregistered(resp.Error) {
			dead = append(dead, tokens[i])
		}
	}

	log.Debug("multicast sent",
		zap.Int("success", response.SuccessCount),
		zap.Int("failure", response.FailureCount))
	return response.SuccessCount, response.FailureCount, dead, nil
}
