package domain

import (
	"strconv"
	"strings"
	"time"
)

// Comment pertenece a un post; el id lo asigna el repositorio.
type Comment struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"postId"`
	AuthorID  int64     `json:"authorId"`
	Content   string    `json:"comment"`
	LikeCount int64     `json:"likeCount"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

var Fields = []string{"id", "postId", "authorId", "comment", "likeCount", "createdAt", "updatedAt"}

func NewComment(postID, authorID int64, content string) (*Comment, error) {
	content = strings.TrimSpace(content)
	if postID <= 0 || authorID <= 0 || content == "" {
		return nil, ErrInvalidComment
	}
	now := time.Now().UTC()
	return &Comment{
		PostID:    postID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (c *Comment) Update(content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return ErrInvalidComment
	}
	c.Content = content
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (c *Comment) IsAuthor(userID int64) bool {
	return c.AuthorID == userID
}

func (c *Comment) CursorID() int64 {
	return c.ID
}

func (c *Comment) PartitionKey() string {
	return strconv.FormatInt(c.PostID, 10)
}

func (c *Comment) FieldValue(field string) (interface{}, bool) {
	switch field {
	case "id":
		return c.ID, true
	case "postId":
		return c.PostID, true
	case "authorId":
		return c.AuthorID, true
	case "comment":
		return c.Content, true
	case "likeCount":
		return c.LikeCount, true
	case "createdAt":
		return c.CreatedAt, true
	case "updatedAt":
		return c.UpdatedAt, true
	}
	return nil, false
}
