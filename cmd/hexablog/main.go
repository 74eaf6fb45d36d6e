package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	chatApp "github.com/davicafu/hexablog/internal/chat/application"
	chatDomain "github.com/davicafu/hexablog/internal/chat/domain"
	chatHttp "github.com/davicafu/hexablog/internal/chat/infra/inbound/http"
	chatWS "github.com/davicafu/hexablog/internal/chat/infra/inbound/ws"
	commentApp "github.com/davicafu/hexablog/internal/comment/application"
	commentDomain "github.com/davicafu/hexablog/internal/comment/domain"
	commentHttp "github.com/davicafu/hexablog/internal/comment/infra/inbound/http"
	"github.com/davicafu/hexablog/internal/config"
	postApp "github.com/davicafu/hexablog/internal/post/application"
	postDomain "github.com/davicafu/hexablog/internal/post/domain"
	postEvents "github.com/davicafu/hexablog/internal/post/infra/inbound/events"
	postHttp "github.com/davicafu/hexablog/internal/post/infra/inbound/http"
	sharedEvents "github.com/davicafu/hexablog/internal/shared/domain/events"
	infraEvents "github.com/davicafu/hexablog/internal/shared/infra/events"
	sharedAuth "github.com/davicafu/hexablog/internal/shared/infra/platform/auth"
	sharedBus "github.com/davicafu/hexablog/internal/shared/infra/platform/bus"
	sharedCache "github.com/davicafu/hexablog/internal/shared/infra/platform/cache"
	"github.com/davicafu/hexablog/internal/shared/infra/relayer"
	userApp "github.com/davicafu/hexablog/internal/user/application"
	userDomain "github.com/davicafu/hexablog/internal/user/domain"
	userHttp "github.com/davicafu/hexablog/internal/user/infra/inbound/http"
	"github.com/davicafu/hexablog/internal/user/infra/outbound/crypto"
	"github.com/davicafu/hexablog/pkg/logger"
)

const postsConsumerGroup = "hexablog-posts"

// ---------------- Main ----------------
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "logger init error: %v\n", err)
		os.Exit(1)
	}
	log := logger.Logger()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	// ---------------- DB ----------------
	blog, err := openBlogStores(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open blog stores: %w", err)
	}
	defer blog.close()

	chats, err := openChatStores(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open chat stores: %w", err)
	}
	defer chats.close()

	analytics, closeAnalytics, err := openAnalytics(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeAnalytics()

	// ---------------- Cache ----------------
	var cache sharedCache.Cache
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("⚠️ Redis no disponible, cache en memoria", zap.Error(err))
		cache = sharedCache.NewInMemoryCache(cfg.CacheTTL, 3*cfg.CacheTTL)
	} else {
		cache = sharedCache.NewRedisCache(rdb, "hexablog:", cfg.CacheTTL)
		log.Info("✅ Redis conectado, cache habilitado")
	}
	defer rdb.Close()

	// --------------- Servicios --------------
	tokens := sharedAuth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	postService := postApp.NewPostService(blog.posts, analytics, cache, cfg.CacheTTL, cfg.PublicURL, log)
	commentService := commentApp.NewCommentService(blog.comments, blog.posts, cache, cfg.PublicURL, log)
	userService := userApp.NewUserService(blog.users, crypto.NewBcryptHasher(cfg.HashCost), tokens, cfg.PublicURL, log)
	followService := userApp.NewFollowService(blog.users, blog.follows, cfg.PublicURL, log)
	chatService := chatApp.NewChatService(chats.chats, chats.messages, blog.users, cfg.PublicURL, log)

	// ---------------- Events ---------------
	postConsumer := postEvents.NewPostConsumer(cache, analytics, cfg.AnalyticsBatch, log)
	postConsumer.StartFlusher(ctx, cfg.AnalyticsInterval)

	var publisher sharedBus.EventBus
	if cfg.UseKafka {
		log.Info("🚀 Usando Kafka como bus de eventos", zap.Strings("brokers", cfg.KafkaBrokers))
		kafkaPublisher := infraEvents.NewKafkaPublisher(infraEvents.NewKafkaWriter(cfg.KafkaBrokers), log)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher

		reader := infraEvents.NewKafkaReader(cfg.KafkaBrokers, postDomain.PostTopic, postsConsumerGroup)
		infraEvents.NewConsumerAdapter(reader, postConsumer, log).Start(ctx)
	} else {
		log.Info("⚡️ Usando bus de eventos en memoria (canales de Go)")
		bus := infraEvents.NewInMemoryBus()
		bus.Consume(ctx, postDomain.PostTopic, postConsumer, log)
		publisher = bus
	}

	// ------------ Outbox Workers ------------
	blogRegistry := sharedEvents.Merge(
		postDomain.NewEventRegistry(),
		commentDomain.NewEventRegistry(),
		userDomain.NewEventRegistry(),
	)
	go relayer.NewOutboxWorker(blog.outbox, publisher, blogRegistry, cfg.OutboxPeriod, cfg.OutboxLimit, log).Start(ctx)
	go relayer.NewOutboxWorker(chats.outbox, publisher, chatDomain.NewEventRegistry(), cfg.OutboxPeriod, cfg.OutboxLimit, log).Start(ctx)

	// ---------------- HTTP ----------------
	requireAuth := sharedAuth.Require(tokens, sharedAuth.AccessToken)
	gateway := chatWS.NewGateway(chatWS.NewHub(log), chatService, log)

	router := gin.Default()
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	userHttp.RegisterUserRoutes(router, userHttp.NewUserHandler(userService), requireAuth)
	userHttp.RegisterFollowRoutes(router, userHttp.NewFollowHandler(followService), requireAuth)
	postHttp.RegisterPostRoutes(router, postHttp.NewPostHandler(postService), requireAuth)
	commentHttp.RegisterCommentRoutes(router, commentHttp.NewCommentHandler(commentService), requireAuth)
	chatHttp.RegisterChatRoutes(router, chatHttp.NewChatHandler(chatService), gateway.ServeWS, requireAuth)

	srv := &http.Server{Addr: ":" + cfg.HTTPPort, Handler: router}
	errCh := make(chan error, 1)
	go func() {
		log.Info("🚀 Server running", zap.String("url", cfg.PublicURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("🛑 Apagando servidor")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
