package domain

import (
	"reflect"

	sharedEvents "github.com/davicafu/hexablog/internal/shared/domain/events"
)

const (
	ChatCreated = "chat.created"
	MessageSent = "chat.message_sent"
)

const (
	ChatTopic     = "chats"
	AggregateType = "chat"
)

func NewEventRegistry() sharedEvents.Registry {
	return sharedEvents.Registry{
		ChatCreated: {Type: reflect.TypeOf(Chat{}), Topic: ChatTopic},
		MessageSent: {Type: reflect.TypeOf(Message{}), Topic: ChatTopic},
	}
}
