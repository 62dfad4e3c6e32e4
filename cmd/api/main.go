package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/blog-service/internal/api/http"
	"github.com/spec-kit/blog-service/internal/api/http/handlers"
	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/chat"
	"github.com/spec-kit/blog-service/internal/config"
	"github.com/spec-kit/blog-service/internal/events"
	"github.com/spec-kit/blog-service/internal/observability"
	"github.com/spec-kit/blog-service/internal/persistence"
	"github.com/spec-kit/blog-service/internal/repository"
	"github.com/spec-kit/blog-service/internal/service"
	"github.com/spec-kit/blog-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var (
		dispatcher events.Dispatcher
		relay      worker.Relay
	)
	if redis.Reachable() {
		rd := events.NewRedisDispatcher(redis.Client, cfg.Redis.EventsChannel, logger)
		dispatcher, relay = rd, rd
	} else {
		logger.Warn("redis unavailable; chat events stay on this instance")
		dispatcher = events.NewInMemoryDispatcher(logger)
	}

	pool := pg.PoolHandle()
	tx := repository.NewTransactor(pool)
	userRepo := repository.NewUserRepository(pool)
	postRepo := repository.NewPostRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo: userRepo,
		Logger:   logger,
	})
	userService := service.NewUserService(service.UserDependencies{
		UserRepo:   userRepo,
		FollowRepo: repository.NewFollowRepository(pool),
		Transactor: tx,
		Logger:     logger,
	})
	postService := service.NewPostService(service.PostDependencies{
		PostRepo:   postRepo,
		Transactor: tx,
	})
	commentService := service.NewCommentService(service.CommentDependencies{
		CommentRepo: commentRepo,
		PostRepo:    postRepo,
		Transactor:  tx,
	})
	chatService := service.NewChatService(service.ChatDependencies{
		ChatRepo:    repository.NewChatRepository(pool),
		MessageRepo: repository.NewMessageRepository(pool),
		Transactor:  tx,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})

	authMiddleware := auth.NewMiddleware(authService.TokenManager(), userRepo)

	hub := chat.NewHub(logger)
	hub.Subscribe(dispatcher)
	service.NewActivityService(dispatcher, logger).RegisterHandlers()
	relayDone := worker.StartEventRelay(ctx, relay, logger)

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.ErrorHandler(logger, metrics),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(userService),
		Posts:          handlers.NewPostsHandler(postService),
		Comments:       handlers.NewCommentsHandler(commentService),
		Chats:          handlers.NewChatsHandler(chatService),
		Gateway:        chat.NewGateway(hub, chatService, authMiddleware, logger),
		Metrics:        metrics,
		AuthMiddleware: authMiddleware,
		PostIsMine:     postService.IsPostMine,
		CommentIsMine:  commentService.IsCommentMine,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	cancel()
	<-relayDone
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
