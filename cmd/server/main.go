package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"socialite/internal/archive"
	"socialite/internal/config"
	"socialite/internal/handler"
	"socialite/internal/push"
	"socialite/internal/queue"
	"socialite/internal/redis"
	"socialite/internal/service"
	"socialite/internal/store"
	transport "socialite/internal/transport/http"
	"socialite/internal/worker"
	"socialite/pkg/logger"
)

func main() {
	log := logger.NewLogger()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// In-memory stores are the source of truth while running.
	users := store.NewUserStore(store.SystemClock)
	posts := store.NewPostStore(store.SystemClock)
	messages := store.NewMessageStore(store.SystemClock)
	notifications := store.NewNotificationStore(store.SystemClock)
	credentials := store.NewCredentialStore(store.SystemClock)

	// Optional archive: restore on boot, snapshot periodically and on exit.
	var arch *archive.Archive
	if cfg.DatabaseURL != "" {
		db, err := archive.Connect(cfg.DatabaseURL)
		if err != nil {
			log.WithError(err).Fatal("failed to connect to archive database")
		}
		defer db.Close()

		arch = archive.New(db, log)
		if err := arch.EnsureSchema(ctx); err != nil {
			log.WithError(err).Fatal("failed to create archive schema")
		}

		st, err := arch.Load(ctx)
		if err != nil {
			log.WithError(err).Fatal("failed to load archived state")
		}
		users.Restore(st.Profiles)
		posts.Restore(st.Posts, st.PostSeq, st.CommentSeq)
		messages.Restore(st.Messages, st.MessageSeq)
		notifications.Restore(st.Notifications, st.NotificationSeq)
		credentials.Restore(st.Credentials)
		log.WithField("users", len(st.Profiles)).Info("state restored from archive")
	}

	// Optional Redis: notification events flow through a stream to delivery
	// workers. Without it, notifications are still stored, just never pushed.
	var publisher queue.Publisher
	var manager *worker.Manager
	if cfg.RedisURL != "" {
		redisClient, err := redis.NewClient(cfg.RedisURL)
		if err != nil {
			log.WithError(err).Fatal("failed to create redis client")
		}
		defer redisClient.Close()
		if err := redisClient.Ping(ctx); err != nil {
			log.WithError(err).Fatal("failed to ping redis")
		}

		publisher = queue.NewPublisher(redisClient.Client, log)

		var sender worker.PushSender
		if cfg.PushGatewayURL != "" {
			sender = push.NewWebhookClient(cfg.PushGatewayURL, log)
		}
		consumer := queue.NewConsumer(redisClient.Client, log)
		manager = worker.NewManager(consumer, worker.NewHandler(sender, log), worker.ManagerConfig{
			WorkerCount: cfg.WorkerCount,
		}, log)
		if err := manager.Start(ctx); err != nil {
			log.WithError(err).Fatal("failed to start delivery workers")
		}
		defer manager.Stop()
	}

	notificationService := service.NewNotificationService(notifications, publisher, log)
	userService := service.NewUserService(users, notificationService, log)
	postService := service.NewPostService(posts, users, notificationService, log)
	messageService := service.NewMessageService(messages, users, notificationService, log)
	feedService := service.NewFeedService(posts, users)
	authService := service.NewAuthService(credentials, userService, cfg, log)

	routerCfg := transport.RouterConfig{
		AuthHandler:         handler.NewAuthHandler(authService, log),
		UserHandler:         handler.NewUserHandler(userService, log),
		PostHandler:         handler.NewPostHandler(postService, log),
		FeedHandler:         handler.NewFeedHandler(feedService),
		MessageHandler:      handler.NewMessageHandler(messageService, log),
		NotificationHandler: handler.NewNotificationHandler(notificationService, log),
		JWTSecret:           cfg.JWTSecret,
	}

	if cfg.MediaEnabled() {
		mediaService, err := service.NewMediaService(ctx, cfg)
		if err != nil {
			log.WithError(err).Fatal("failed to create media service")
		}
		routerCfg.MediaHandler = handler.NewMediaHandler(mediaService, log)
	}

	snapshot := func() archive.State {
		profiles := users.Snapshot()
		allPosts, postSeq, commentSeq := posts.Snapshot()
		allMessages, messageSeq := messages.Snapshot()
		allNotifications, notificationSeq := notifications.Snapshot()
		return archive.State{
			Profiles:        profiles,
			Posts:           allPosts,
			PostSeq:         postSeq,
			CommentSeq:      commentSeq,
			Messages:        allMessages,
			MessageSeq:      messageSeq,
			Notifications:   allNotifications,
			NotificationSeq: notificationSeq,
			Credentials:     credentials.Snapshot(),
		}
	}

	if arch != nil {
		interval := time.Duration(cfg.SnapshotIntervalSeconds) * time.Second
		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if err := arch.Save(ctx, snapshot()); err != nil {
						log.WithError(err).Error("periodic archive save failed")
					}
				}
			}
		}()
	}

	server := transport.NewServer(cfg.ServerPort, transport.NewRouter(routerCfg), log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.WithError(err).Fatal("server failed")
		}
	case sig := <-sigCh:
		log.WithField("signal", sig.String()).Info("shutting down")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown failed")
	}

	if arch != nil {
		if err := arch.Save(shutdownCtx, snapshot()); err != nil {
			log.WithError(err).Error("final archive save failed")
		}
	}
}
