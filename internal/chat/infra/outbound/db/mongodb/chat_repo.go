package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	chatDomain "github.com/davicafu/hexablog/internal/chat/domain"
	sharedDomain "github.com/davicafu/hexablog/internal/shared/domain"
	sharedMongo "github.com/davicafu/hexablog/internal/shared/infra/platform/db/mongodb"
	sharedQuery "github.com/davicafu/hexablog/internal/shared/infra/platform/query"
)

const (
	chatsCollection    = "chats"
	messagesCollection = "messages"
)

var chatFields = sharedMongo.Fields{
	"id":        "_id",
	"userIds":   "userIds",
	"createdAt": "createdAt",
	"updatedAt": "updatedAt",
}

var messageFields = sharedMongo.Fields{
	"id":        "_id",
	"chatId":    "chatId",
	"authorId":  "authorId",
	"message":   "message",
	"createdAt": "createdAt",
	"updatedAt": "updatedAt",
}

// --- Structs de BSON para el mapeo ---
// Se definen aquí para no meter tags de BSON en el dominio.

type mongoChat struct {
	ID        int64     `bson:"_id"`
	UserIDs   []int64   `bson:"userIds"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

type mongoMessage struct {
	ID        int64     `bson:"_id"`
	ChatID    int64     `bson:"chatId"`
	AuthorID  int64     `bson:"authorId"`
	Message   string    `bson:"message"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// ChatRepoMongoDB guarda los chats con ids int64 de la colección counters.
type ChatRepoMongoDB struct {
	client *mongo.Client
	db     *mongo.Database
	coll   *mongo.Collection
}

func NewChatRepoMongoDB(client *mongo.Client, dbName string) *ChatRepoMongoDB {
	db := client.Database(dbName)
	return &ChatRepoMongoDB{client: client, db: db, coll: db.Collection(chatsCollection)}
}

func (r *ChatRepoMongoDB) HasField(field string) bool {
	return chatFields.HasField(field)
}

// Create inserta chat y evento outbox en la misma transacción.
func (r *ChatRepoMongoDB) Create(ctx context.Context, c *chatDomain.Chat, evt sharedDomain.OutboxEvent) error {
	id, err := sharedMongo.NextID(ctx, r.db, chatsCollection)
	if err != nil {
		return err
	}
	c.ID = id
	if evt.AggregateID == "" {
		evt.AggregateID = strconv.FormatInt(id, 10)
	}

	return sharedMongo.RunInTx(ctx, r.client, func(sessCtx mongo.SessionContext) error {
		if _, err := r.coll.InsertOne(sessCtx, toMongoChat(c)); err != nil {
			return fmt.Errorf("insert chat: %w", err)
		}
		return sharedMongo.InsertOutbox(sessCtx, r.db, evt)
	})
}

func (r *ChatRepoMongoDB) GetByID(ctx context.Context, id int64) (*chatDomain.Chat, error) {
	var mc mongoChat
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&mc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, chatDomain.ErrChatNotFound
		}
		return nil, err
	}
	return fromMongoChat(&mc), nil
}

func (r *ChatRepoMongoDB) Find(ctx context.Context, opts sharedQuery.FindOptions) ([]*chatDomain.Chat, error) {
	cursor, err := find(ctx, r.coll, chatFields, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var chats []*chatDomain.Chat
	for cursor.Next(ctx) {
		var mc mongoChat
		if err := cursor.Decode(&mc); err != nil {
			return nil, err
		}
		chats = append(chats, fromMongoChat(&mc))
	}
	return chats, cursor.Err()
}

func (r *ChatRepoMongoDB) Count(ctx context.Context, where []sharedDomain.Criterion) (int, error) {
	return count(ctx, r.coll, chatFields, where)
}

// MessageRepoMongoDB guarda los mensajes; chatId está indexado.
type MessageRepoMongoDB struct {
	client *mongo.Client
	db     *mongo.Database
	coll   *mongo.Collection
}

func NewMessageRepoMongoDB(client *mongo.Client, dbName string) *MessageRepoMongoDB {
	db := client.Database(dbName)
	return &MessageRepoMongoDB{client: client, db: db, coll: db.Collection(messagesCollection)}
}

func (r *MessageRepoMongoDB) HasField(field string) bool {
	return messageFields.HasField(field)
}

func (r *MessageRepoMongoDB) Create(ctx context.Context, m *chatDomain.Message, evt sharedDomain.OutboxEvent) error {
	id, err := sharedMongo.NextID(ctx, r.db, messagesCollection)
	if err != nil {
		return err
	}
	m.ID = id
	if evt.AggregateID == "" {
		evt.AggregateID = strconv.FormatInt(m.ChatID, 10)
	}

	return sharedMongo.RunInTx(ctx, r.client, func(sessCtx mongo.SessionContext) error {
		if _, err := r.coll.InsertOne(sessCtx, toMongoMessage(m)); err != nil {
			return fmt.Errorf("insert message: %w", err)
		}
		return sharedMongo.InsertOutbox(sessCtx, r.db, evt)
	})
}

func (r *MessageRepoMongoDB) Find(ctx context.Context, opts sharedQuery.FindOptions) ([]*chatDomain.Message, error) {
	cursor, err := find(ctx, r.coll, messageFields, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []*chatDomain.Message
	for cursor.Next(ctx) {
		var mm mongoMessage
		if err := cursor.Decode(&mm); err != nil {
			return nil, err
		}
		messages = append(messages, fromMongoMessage(&mm))
	}
	return messages, cursor.Err()
}

func (r *MessageRepoMongoDB) Count(ctx context.Context, where []sharedDomain.Criterion) (int, error) {
	return count(ctx, r.coll, messageFields, where)
}

// ------------------ Inicialización ------------------

// InitIndexes crea los índices de membresía y de mensajes por chat.
func InitIndexes(ctx context.Context, client *mongo.Client, dbName string) error {
	db := client.Database(dbName)
	if _, err := db.Collection(chatsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userIds", Value: 1}},
	}); err != nil {
		return fmt.Errorf("create chats index: %w", err)
	}
	if _, err := db.Collection(messagesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "chatId", Value: 1}, {Key: "_id", Value: 1}},
	}); err != nil {
		return fmt.Errorf("create messages index: %w", err)
	}
	if _, err := db.Collection("outbox").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "processed", Value: 1}, {Key: "createdAt", Value: 1}},
		Options: options.Index().SetName("outbox_pending"),
	}); err != nil {
		return fmt.Errorf("create outbox index: %w", err)
	}
	return nil
}

// --- Helpers de consulta y mapeo ---

func find(ctx context.Context, coll *mongo.Collection, fields sharedMongo.Fields, opts sharedQuery.FindOptions) (*mongo.Cursor, error) {
	filter, err := fields.Filter(opts.Where)
	if err != nil {
		return nil, err
	}
	findOpts, err := fields.FindOptions(opts)
	if err != nil {
		return nil, err
	}
	return coll.Find(ctx, filter, findOpts)
}

func count(ctx context.Context, coll *mongo.Collection, fields sharedMongo.Fields, where []sharedDomain.Criterion) (int, error) {
	filter, err := fields.Filter(where)
	if err != nil {
		return 0, err
	}
	n, err := coll.CountDocuments(ctx, filter)
	return int(n), err
}

func toMongoChat(c *chatDomain.Chat) *mongoChat {
	return &mongoChat{ID: c.ID, UserIDs: c.UserIDs, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
}

func fromMongoChat(mc *mongoChat) *chatDomain.Chat {
	return &chatDomain.Chat{ID: mc.ID, UserIDs: mc.UserIDs, CreatedAt: mc.CreatedAt, UpdatedAt: mc.UpdatedAt}
}

func toMongoMessage(m *chatDomain.Message) *mongoMessage {
	return &mongoMessage{
		ID: m.ID, ChatID: m.ChatID, AuthorID: m.AuthorID, Message: m.Message,
		CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}
}

func fromMongoMessage(mm *mongoMessage) *chatDomain.Message {
	return &chatDomain.Message{
		ID: mm.ID, ChatID: mm.ChatID, AuthorID: mm.AuthorID, Message: mm.Message,
		CreatedAt: mm.CreatedAt, UpdatedAt: mm.UpdatedAt,
	}
}

var _ chatDomain.ChatRepository = (*ChatRepoMongoDB)(nil)
var _ chatDomain.MessageRepository = (*MessageRepoMongoDB)(nil)
