package domain

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Chat es una sala con sus miembros; el creador siempre forma parte.
type Chat struct {
	ID        int64     `json:"id"`
	UserIDs   []int64   `json:"userIds"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ChatFields admite where__userIds=<id> para "chats de los que es miembro".
var ChatFields = []string{"id", "userIds", "createdAt", "updatedAt"}

// NewChat une creador e invitados sin duplicados. Hace falta al menos otro miembro.
func NewChat(creatorID int64, userIDs []int64) (*Chat, error) {
	if creatorID <= 0 {
		return nil, ErrInvalidChat
	}
	seen := map[int64]struct{}{creatorID: {}}
	members := []int64{creatorID}
	for _, id := range userIDs {
		if id <= 0 {
			return nil, ErrInvalidChat
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		members = append(members, id)
	}
	if len(members) < 2 {
		return nil, ErrInvalidChat
	}
	sort.Slice(members, func(i, j int) bool { return members[i] < members[j] })

	now := time.Now().UTC()
	return &Chat{UserIDs: members, CreatedAt: now, UpdatedAt: now}, nil
}

func (c *Chat) IsMember(userID int64) bool {
	for _, id := range c.UserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Room es el nombre de la sala en el gateway.
func (c *Chat) Room() string {
	return RoomName(c.ID)
}

func RoomName(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}

func (c *Chat) CursorID() int64 {
	return c.ID
}

func (c *Chat) PartitionKey() string {
	return strconv.FormatInt(c.ID, 10)
}

func (c *Chat) FieldValue(field string) (interface{}, bool) {
	switch field {
	case "id":
		return c.ID, true
	case "userIds":
		return c.UserIDs, true
	case "createdAt":
		return c.CreatedAt, true
	case "updatedAt":
		return c.UpdatedAt, true
	}
	return nil, false
}

// Message es un mensaje enviado a un chat.
type Message struct {
	ID        int64     `json:"id"`
	ChatID    int64     `json:"chatId"`
	AuthorID  int64     `json:"authorId"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

var MessageFields = []string{"id", "chatId", "authorId", "message", "createdAt", "updatedAt"}

func NewMessage(chatID, authorID int64, text string) (*Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrInvalidMessage
	}
	now := time.Now().UTC()
	return &Message{ChatID: chatID, AuthorID: authorID, Message: text, CreatedAt: now, UpdatedAt: now}, nil
}

func (m *Message) CursorID() int64 {
	return m.ID
}

func (m *Message) PartitionKey() string {
	return strconv.FormatInt(m.ChatID, 10)
}

func (m *Message) FieldValue(field string) (interface{}, bool) {
	switch field {
	case "id":
		return m.ID, true
	case "chatId":
		return m.ChatID, true
	case "authorId":
		return m.AuthorID, true
	case "message":
		return m.Message, true
	case "createdAt":
		return m.CreatedAt, true
	case "updatedAt":
		return m.UpdatedAt, true
	}
	return nil, false
}
