package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	chatDomain "github.com/davicafu/hexablog/internal/chat/domain"
	chatMemory "github.com/davicafu/hexablog/internal/chat/infra/outbound/db/memory"
	chatMongo "github.com/davicafu/hexablog/internal/chat/infra/outbound/db/mongodb"
	commentDomain "github.com/davicafu/hexablog/internal/comment/domain"
	commentMemory "github.com/davicafu/hexablog/internal/comment/infra/outbound/db/memory"
	commentSQL "github.com/davicafu/hexablog/internal/comment/infra/outbound/db/sqlrepo"
	"github.com/davicafu/hexablog/internal/config"
	postDomain "github.com/davicafu/hexablog/internal/post/domain"
	postClickhouse "github.com/davicafu/hexablog/internal/post/infra/outbound/analytics/clickhouse"
	postAnalyticsMemory "github.com/davicafu/hexablog/internal/post/infra/outbound/analytics/memory"
	postMemory "github.com/davicafu/hexablog/internal/post/infra/outbound/db/memory"
	postSQL "github.com/davicafu/hexablog/internal/post/infra/outbound/db/sqlrepo"
	sharedDomain "github.com/davicafu/hexablog/internal/shared/domain"
	sharedMemory "github.com/davicafu/hexablog/internal/shared/infra/platform/db/memory"
	sharedMongo "github.com/davicafu/hexablog/internal/shared/infra/platform/db/mongodb"
	"github.com/davicafu/hexablog/internal/shared/infra/platform/db/sqldb"
	userDomain "github.com/davicafu/hexablog/internal/user/domain"
	userMemory "github.com/davicafu/hexablog/internal/user/infra/outbound/db/memory"
	userSQL "github.com/davicafu/hexablog/internal/user/infra/outbound/db/sqlrepo"
)

// blogStores agrupa los repositorios de posts, comentarios, usuarios y
// seguimientos, que comparten base de datos y tabla outbox.
type blogStores struct {
	posts    postDomain.PostRepository
	comments commentDomain.CommentRepository
	users    userDomain.UserRepository
	follows  userDomain.FollowRepository
	outbox   sharedDomain.OutboxRepository
	close    func()
}

func openBlogStores(ctx context.Context, cfg *config.Config, log *zap.Logger) (*blogStores, error) {
	if cfg.DBDriver == "memory" {
		log.Warn("⚠️ DB_DRIVER=memory: los datos se pierden al reiniciar")
		outbox := sharedMemory.NewOutbox()
		posts := postMemory.NewPostRepo(outbox)
		comments := commentMemory.NewCommentRepo(posts, outbox)
		posts.OnDelete(comments.RemoveByPost)
		users := userMemory.NewUserRepo(outbox)
		return &blogStores{
			posts:    posts,
			comments: comments,
			users:    users,
			follows:  userMemory.NewFollowRepo(users, outbox),
			outbox:   outbox,
			close:    func() {},
		}, nil
	}

	dialect, err := sqldb.ParseDialect(cfg.DBDriver)
	if err != nil {
		return nil, err
	}
	dsn := cfg.DatabaseURL
	if dialect == sqldb.SQLite {
		dsn = cfg.SQLitePath
	}
	db, err := sqldb.Open(ctx, dialect, dsn)
	if err != nil {
		return nil, err
	}

	inits := []func() error{
		func() error { return sqldb.InitOutbox(ctx, db, dialect) },
		func() error { return postSQL.InitSchema(ctx, db, dialect) },
		func() error { return commentSQL.InitSchema(ctx, db, dialect) },
		func() error { return userSQL.InitSchema(ctx, db, dialect) },
		func() error { return userSQL.InitFollowSchema(ctx, db, dialect) },
	}
	for _, initSchema := range inits {
		if err := initSchema(); err != nil {
			db.Close()
			return nil, err
		}
	}
	log.Info("✅ Base de datos lista", zap.String("driver", dialect.String()))

	return &blogStores{
		posts:    postSQL.NewPostRepo(db, dialect),
		comments: commentSQL.NewCommentRepo(db, dialect),
		users:    userSQL.NewUserRepo(db, dialect),
		follows:  userSQL.NewFollowRepo(db, dialect),
		outbox:   sqldb.NewOutboxRepo(db, dialect),
		close:    func() { db.Close() },
	}, nil
}

// chatStores vive en MongoDB si hay MONGO_URI; si no, en memoria con su propio outbox.
type chatStores struct {
	chats    chatDomain.ChatRepository
	messages chatDomain.MessageRepository
	outbox   sharedDomain.OutboxRepository
	close    func()
}

func openChatStores(ctx context.Context, cfg *config.Config, log *zap.Logger) (*chatStores, error) {
	if cfg.MongoURI == "" {
		log.Warn("⚠️ MONGO_URI vacío, chats en memoria")
		outbox := sharedMemory.NewOutbox()
		return &chatStores{
			chats:    chatMemory.NewChatRepo(outbox),
			messages: chatMemory.NewMessageRepo(outbox),
			outbox:   outbox,
			close:    func() {},
		}, nil
	}

	client, err := sharedMongo.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return nil, err
	}
	if err := chatMongo.InitIndexes(ctx, client, cfg.MongoDB); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	log.Info("✅ MongoDB conectado", zap.String("db", cfg.MongoDB))

	return &chatStores{
		chats:    chatMongo.NewChatRepoMongoDB(client, cfg.MongoDB),
		messages: chatMongo.NewMessageRepoMongoDB(client, cfg.MongoDB),
		outbox:   sharedMongo.NewOutboxRepo(client.Database(cfg.MongoDB)),
		close:    func() { _ = client.Disconnect(context.Background()) },
	}, nil
}

// openAnalytics usa ClickHouse si hay CLICKHOUSE_ADDR; si no, agrega en memoria.
func openAnalytics(ctx context.Context, cfg *config.Config, log *zap.Logger) (postDomain.PostAnalyticsRepository, func(), error) {
	if cfg.ClickHouseAddr == "" {
		log.Warn("⚠️ CLICKHOUSE_ADDR vacío, analítica en memoria")
		return postAnalyticsMemory.NewPostAnalyticsRepo(), func() {}, nil
	}

	repo, err := postClickhouse.NewPostAnalyticsRepo(ctx, cfg.ClickHouseAddr, cfg.ClickHouseDB)
	if err != nil {
		return nil, nil, fmt.Errorf("clickhouse: %w", err)
	}
	if err := repo.InitSchema(ctx); err != nil {
		repo.Close()
		return nil, nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	log.Info("✅ ClickHouse conectado", zap.String("addr", cfg.ClickHouseAddr))
	return repo, func() { repo.Close() }, nil
}
