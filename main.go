package main

import (
	"context"
	"log"

	api "pairdle-backend/cmd/api"
	authdomain "pairdle-backend/internal/auth/domain"
	authRepo "pairdle-backend/internal/auth/repository"
	authUsecase "pairdle-backend/internal/auth/usecase"
	"pairdle-backend/internal/feed"
	gamedomain "pairdle-backend/internal/game/domain"
	gameRepo "pairdle-backend/internal/game/repository"
	gameUsecase "pairdle-backend/internal/game/usecase"
	"pairdle-backend/internal/notification"
	"pairdle-backend/internal/realtime"
	"pairdle-backend/pkg/config"
	"pairdle-backend/pkg/database"
	"pairdle-backend/pkg/webpush"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(
		&authdomain.Profile{},
		&authdomain.RefreshToken{},
		&authdomain.PushSubscription{},
		&gamedomain.Puzzle{},
		&gamedomain.Favorite{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	profileRepo := authRepo.NewProfileRepository(db)
	subRepo := authRepo.NewPushSubscriptionRepository(db)
	puzzleRepo := gameRepo.NewGormPuzzleRepository(db)
	favoriteRepo := gameRepo.NewGormFavoriteRepository(db)

	// Change feed: redis when configured, in-process otherwise
	var changeFeed feed.Feed
	if cfg.RedisAddr != "" {
		redisFeed, err := feed.NewRedisFeed(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Fatal("Failed to connect to redis:", err)
		}
		changeFeed = redisFeed
		log.Printf("[Feed] Using redis change feed at %s", cfg.RedisAddr)
	} else {
		changeFeed = feed.NewMemoryFeed()
		log.Println("[Feed] REDIS_ADDR not set, using in-process change feed")
	}

	// Web push client (optional, notifications are skipped without VAPID keys)
	var pusher notification.Pusher
	if cfg.VAPIDPublicKey != "" && cfg.VAPIDPrivateKey != "" {
		client, err := webpush.NewClient(cfg.VAPIDSubject, cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey)
		if err != nil {
			log.Printf("[WARN] Failed to initialize web push client (notifications disabled): %v", err)
		} else {
			pusher = client
		}
	} else {
		log.Println("[WARN] VAPID keys not configured, push notifications disabled")
	}

	// Notification fan-out and reminder sweep
	notifService := notification.NewService(subRepo, pusher)
	scheduler := notification.NewReminderScheduler(profileRepo, puzzleRepo, notifService, cfg.ReminderInterval)
	scheduler.Start()
	defer scheduler.Stop()

	// Realtime hub consumes the puzzles feed for connected browsers
	hub := realtime.NewHub()
	go func() {
		if err := hub.Run(context.Background(), changeFeed); err != nil && err != context.Canceled {
			log.Printf("[Realtime] Hub stopped: %v", err)
		}
	}()

	// Initialize use cases (dependency injection)
	authUsecaseInstance := authUsecase.NewAuthUsecase(profileRepo, subRepo, cfg)
	puzzleUsecaseInstance := gameUsecase.NewPuzzleUsecase(puzzleRepo, favoriteRepo, changeFeed, notifService, cfg.WriteTimeout)

	// Initialize HTTP handler
	handler := api.NewHandler(authUsecaseInstance, puzzleUsecaseInstance, hub)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
