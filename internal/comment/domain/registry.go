package domain

import (
	"reflect"

	sharedEvents "github.com/davicafu/hexablog/internal/shared/domain/events"
)

const (
	CommentCreated = "comment.created"
	CommentUpdated = "comment.updated"
	CommentDeleted = "comment.deleted"
)

const (
	CommentTopic  = "comments"
	AggregateType = "comment"
)

type CommentDeletedPayload struct {
	ID     int64 `json:"id"`
	PostID int64 `json:"postId"`
}

func NewEventRegistry() sharedEvents.Registry {
	return sharedEvents.Registry{
		CommentCreated: {Type: reflect.TypeOf(Comment{}), Topic: CommentTopic},
		CommentUpdated: {Type: reflect.TypeOf(Comment{}), Topic: CommentTopic},
		CommentDeleted: {Type: reflect.TypeOf(CommentDeletedPayload{}), Topic: CommentTopic},
	}
}
