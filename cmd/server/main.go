package main

import (
	"context"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"threadloom.com/threadloom-backend/database"
	"threadloom.com/threadloom-backend/pkg/logger"
	"threadloom.com/threadloom-backend/routes"
	"threadloom.com/threadloom-backend/services"
	"threadloom.com/threadloom-backend/social"
	"threadloom.com/threadloom-backend/storage"
	"threadloom.com/threadloom-backend/storage/memory"
	"threadloom.com/threadloom-backend/storage/postgres"
	"threadloom.com/threadloom-backend/utils"
)

func main() {
	_ = godotenv.Load()

	if err := logger.Init(os.Getenv("APP_ENV")); err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Get()

	var users storage.IdentityStore
	var posts storage.ContentStore
	if os.Getenv("DATABASE_URL") != "" {
		db, err := database.ConnectDB()
		if err != nil {
			log.Fatal("db connection failed", zap.Error(err))
		}
		defer db.Close()
		if err := database.Migrate(db); err != nil {
			log.Fatal("db migration failed", zap.Error(err))
		}
		store := postgres.New(db)
		users, posts = store, store
		log.Info("using postgres storage")
	} else {
		store := memory.New()
		users, posts = store, store
		log.Info("DATABASE_URL not set, using in-memory storage")
	}

	var images social.ImageStore
	var notify social.Notifier
	if credsPath := os.Getenv("FIREBASE_CREDENTIALS_PATH"); credsPath != "" {
		bucket := os.Getenv("FIREBASE_STORAGE_BUCKET")
		if err := services.InitFirebase(credsPath, bucket); err != nil {
			log.Error("firebase init failed, pushes and uploads disabled", zap.Error(err))
		} else {
			images = services.NewImageStore(bucket)
			notify = services.NewPushNotifier(users, posts)
		}
	}

	svc := social.NewService(users, posts, images, notify, log)

	router := mux.NewRouter()
	router.HandleFunc("/api/test", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Awaking Server"))
	}).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	routes.CreateUserRoutes(svc, users, api)
	routes.CreatePostRoutes(svc, users, api)

	if pingURL := os.Getenv("SELF_PING_URL"); pingURL != "" {
		utils.StartKeepAlive(context.Background(), pingURL, utils.KeepAlivePeriod)
		log.Info("keep-alive ping enabled", zap.String("url", pingURL))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}

	log.Info("server started", zap.String("port", port))
	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatal("server failed", zap.Error(err))
	}
}
