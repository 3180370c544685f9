package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"threadloom.com/threadloom-backend/database"
	"threadloom.com/threadloom-backend/pkg/logger"
	"threadloom.com/threadloom-backend/social"
	"threadloom.com/threadloom-backend/storage/postgres"
)

// Scheduled reconciliation job: completes follow edges left one-sided by a
// write that failed between the two halves of a toggle, and re-propagates
// current display fields into any reply a failed fan-out left stale.
func main() {
	_ = godotenv.Load()

	if err := logger.Init(os.Getenv("APP_ENV")); err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Get()

	db, err := database.ConnectDB()
	if err != nil {
		log.Fatal("repair: db connection failed", zap.Error(err))
	}
	defer db.Close()

	store := postgres.New(db)
	svc := social.NewService(store, store, nil, nil, log)
	ctx := context.Background()

	log.Info("running repair job")

	healed, err := svc.ReconcileFollowGraph(ctx)
	if err != nil {
		log.Error("edge reconciliation failed", zap.Error(err))
	} else {
		log.Info("edge reconciliation finished", zap.Int("writes", healed))
	}

	swept, err := svc.SweepReplyProfiles(ctx)
	if err != nil {
		log.Error("reply sweep failed", zap.Error(err))
	} else {
		log.Info("reply sweep finished", zap.Int("replies", swept))
	}
}
