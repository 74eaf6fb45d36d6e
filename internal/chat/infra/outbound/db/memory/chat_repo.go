package memory

import (
	"context"
	"strconv"

	chatDomain "github.com/davicafu/hexablog/internal/chat/domain"
	sharedDomain "github.com/davicafu/hexablog/internal/shared/domain"
	sharedMemory "github.com/davicafu/hexablog/internal/shared/infra/platform/db/memory"
	sharedQuery "github.com/davicafu/hexablog/internal/shared/infra/platform/query"
)

type ChatRepo struct {
	chats  *sharedMemory.Collection[*chatDomain.Chat]
	outbox *sharedMemory.Outbox
}

func NewChatRepo(outbox *sharedMemory.Outbox) *ChatRepo {
	return &ChatRepo{
		chats:  sharedMemory.NewCollection[*chatDomain.Chat](chatDomain.ChatFields...),
		outbox: outbox,
	}
}

func (r *ChatRepo) HasField(field string) bool {
	return r.chats.HasField(field)
}

func (r *ChatRepo) Create(ctx context.Context, c *chatDomain.Chat, evt sharedDomain.OutboxEvent) error {
	c.ID = r.chats.NextID()
	if evt.AggregateID == "" {
		evt.AggregateID = strconv.FormatInt(c.ID, 10)
	}
	r.chats.Put(cloneChat(c))
	r.outbox.Append(sharedMemory.Snapshot(evt))
	return nil
}

func (r *ChatRepo) GetByID(ctx context.Context, id int64) (*chatDomain.Chat, error) {
	c, ok := r.chats.Get(id)
	if !ok {
		return nil, chatDomain.ErrChatNotFound
	}
	return cloneChat(c), nil
}

func (r *ChatRepo) Find(ctx context.Context, opts sharedQuery.FindOptions) ([]*chatDomain.Chat, error) {
	found, err := r.chats.Find(ctx, opts)
	if err != nil {
		return nil, err
	}
	out := make([]*chatDomain.Chat, len(found))
	for i, c := range found {
		out[i] = cloneChat(c)
	}
	return out, nil
}

func (r *ChatRepo) Count(ctx context.Context, where []sharedDomain.Criterion) (int, error) {
	return r.chats.Count(ctx, where)
}

func cloneChat(c *chatDomain.Chat) *chatDomain.Chat {
	cp := *c
	cp.UserIDs = append([]int64(nil), c.UserIDs...)
	return &cp
}

// MessageRepo guarda los mensajes de todos los chats en una colección.
type MessageRepo struct {
	messages *sharedMemory.Collection[*chatDomain.Message]
	outbox   *sharedMemory.Outbox
}

func NewMessageRepo(outbox *sharedMemory.Outbox) *MessageRepo {
	return &MessageRepo{
		messages: sharedMemory.NewCollection[*chatDomain.Message](chatDomain.MessageFields...),
		outbox:   outbox,
	}
}

func (r *MessageRepo) HasField(field string) bool {
	return r.messages.HasField(field)
}

func (r *MessageRepo) Create(ctx context.Context, m *chatDomain.Message, evt sharedDomain.OutboxEvent) error {
	m.ID = r.messages.NextID()
	if evt.AggregateID == "" {
		evt.AggregateID = strconv.FormatInt(m.ChatID, 10)
	}
	cp := *m
	r.messages.Put(&cp)
	r.outbox.Append(sharedMemory.Snapshot(evt))
	return nil
}

func (r *MessageRepo) Find(ctx context.Context, opts sharedQuery.FindOptions) ([]*chatDomain.Message, error) {
	found, err := r.messages.Find(ctx, opts)
	if err != nil {
		return nil, err
	}
	out := make([]*chatDomain.Message, len(found))
	for i, m := range found {
		cp := *m
		out[i] = &cp
	}
	return out, nil
}

func (r *MessageRepo) Count(ctx context.Context, where []sharedDomain.Criterion) (int, error) {
	return r.messages.Count(ctx, where)
}

var _ chatDomain.ChatRepository = (*ChatRepo)(nil)
var _ chatDomain.MessageRepository = (*MessageRepo)(nil)
