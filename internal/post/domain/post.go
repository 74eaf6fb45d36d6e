package domain

import (
	"strconv"
	"strings"
	"time"

	sharedBus "github.com/davicafu/hexablog/internal/shared/infra/platform/bus"
)

// Post es una entrada del blog. El id lo asigna el repositorio y es monótono.
type Post struct {
	ID           int64     `json:"id"`
	AuthorID     int64     `json:"authorId"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	LikeCount    int64     `json:"likeCount"`
	CommentCount int64     `json:"commentCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Fields son los campos públicos por los que se puede filtrar y ordenar.
var Fields = []string{"id", "authorId", "title", "content", "likeCount", "commentCount", "createdAt", "updatedAt"}

// NewPost valida y construye un post sin id.
func NewPost(authorID int64, title, content string) (*Post, error) {
	title, content = strings.TrimSpace(title), strings.TrimSpace(content)
	if authorID <= 0 || title == "" || content == "" {
		return nil, ErrInvalidPost
	}
	now := time.Now().UTC()
	return &Post{
		AuthorID:  authorID,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Update aplica los campos presentes. Un título o contenido vacío no es válido.
func (p *Post) Update(title, content *string) error {
	if title != nil {
		if strings.TrimSpace(*title) == "" {
			return ErrInvalidPost
		}
		p.Title = strings.TrimSpace(*title)
	}
	if content != nil {
		if strings.TrimSpace(*content) == "" {
			return ErrInvalidPost
		}
		p.Content = strings.TrimSpace(*content)
	}
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// IsAuthor indica si userID puede modificar el post.
func (p *Post) IsAuthor(userID int64) bool {
	return p.AuthorID == userID
}

func (p *Post) CursorID() int64 {
	return p.ID
}

func (p *Post) PartitionKey() string {
	return strconv.FormatInt(p.ID, 10)
}

// FieldValue expone los campos públicos al store en memoria.
func (p *Post) FieldValue(field string) (interface{}, bool) {
	switch field {
	case "id":
		return p.ID, true
	case "authorId":
		return p.AuthorID, true
	case "title":
		return p.Title, true
	case "content":
		return p.Content, true
	case "likeCount":
		return p.LikeCount, true
	case "commentCount":
		return p.CommentCount, true
	case "createdAt":
		return p.CreatedAt, true
	case "updatedAt":
		return p.UpdatedAt, true
	}
	return nil, false
}

// Verificación estática para asegurar que Post implementa la interfaz
var _ sharedBus.Keyer = (*Post)(nil)
