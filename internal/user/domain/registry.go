package domain

import (
	"reflect"

	sharedEvents "github.com/davicafu/hexablog/internal/shared/domain/events"
)

const (
	UserRegistered = "user.registered"

	FollowRequested = "follow.requested"
	FollowConfirmed = "follow.confirmed"
	FollowDeleted   = "follow.deleted"
)

const (
	UserTopic     = "users"
	AggregateType = "user"

	FollowTopic         = "follows"
	FollowAggregateType = "follow"
)

// UserRegisteredPayload es lo que sale al broker: sin contraseña.
type UserRegisteredPayload struct {
	ID       int64  `json:"id"`
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
}

func NewEventRegistry() sharedEvents.Registry {
	return sharedEvents.Registry{
		UserRegistered:  {Type: reflect.TypeOf(UserRegisteredPayload{}), Topic: UserTopic},
		FollowRequested: {Type: reflect.TypeOf(Follow{}), Topic: FollowTopic},
		FollowConfirmed: {Type: reflect.TypeOf(Follow{}), Topic: FollowTopic},
		FollowDeleted:   {Type: reflect.TypeOf(Follow{}), Topic: FollowTopic},
	}
}
