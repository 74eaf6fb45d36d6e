package domain

import (
	"strconv"
	"time"
)

// Follow es una solicitud de seguimiento de FollowerID hacia FolloweeID.
// Solo cuenta en los contadores cuando el seguido la confirma.
type Follow struct {
	ID          int64         `json:"id"`
	FollowerID  int64         `json:"followerId"`
	FolloweeID  int64         `json:"followeeId"`
	IsConfirmed bool          `json:"isConfirmed"`
	Follower    *FollowerInfo `json:"follower,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// FollowerInfo son los datos públicos del seguidor que acompañan al listado.
type FollowerInfo struct {
	ID       int64  `json:"id"`
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
}

var FollowFields = []string{"id", "followerId", "followeeId", "isConfirmed", "createdAt"}

// NewFollow valida la solicitud; nadie se sigue a sí mismo.
func NewFollow(followerID, followeeID int64) (*Follow, error) {
	if followerID <= 0 || followeeID <= 0 || followerID == followeeID {
		return nil, ErrInvalidFollow
	}
	now := time.Now().UTC()
	return &Follow{
		FollowerID: followerID,
		FolloweeID: followeeID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

func (f *Follow) CursorID() int64 {
	return f.ID
}

func (f *Follow) PartitionKey() string {
	return strconv.FormatInt(f.ID, 10)
}

func (f *Follow) FieldValue(field string) (interface{}, bool) {
	switch field {
	case "id":
		return f.ID, true
	case "followerId":
		return f.FollowerID, true
	case "followeeId":
		return f.FolloweeID, true
	case "isConfirmed":
		return f.IsConfirmed, true
	case "createdAt":
		return f.CreatedAt, true
	}
	return nil, false
}
