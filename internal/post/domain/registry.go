package domain

import (
	"reflect"

	sharedEvents "github.com/davicafu/hexablog/internal/shared/domain/events"
)

const (
	PostCreated = "post.created"
	PostUpdated = "post.updated"
	PostDeleted = "post.deleted"
)

const (
	PostTopic     = "posts"
	AggregateType = "post"
)

// PostDeletedPayload es lo que viaja al borrar: el post ya no existe.
type PostDeletedPayload struct {
	ID       int64 `json:"id"`
	AuthorID int64 `json:"authorId"`
}

// PostEventPayload es la vista común de los tres eventos, suficiente para el consumidor.
type PostEventPayload struct {
	ID       int64 `json:"id"`
	AuthorID int64 `json:"authorId"`
}

func NewEventRegistry() sharedEvents.Registry {
	return sharedEvents.Registry{
		PostCreated: {Type: reflect.TypeOf(Post{}), Topic: PostTopic},
		PostUpdated: {Type: reflect.TypeOf(Post{}), Topic: PostTopic},
		PostDeleted: {Type: reflect.TypeOf(PostDeletedPayload{}), Topic: PostTopic},
	}
}
