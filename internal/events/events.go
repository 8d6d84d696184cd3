package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/inkwell-hq/inkwell/internal/models"
)

type Kind string

const (
	PostCreated Kind = "post:created"
	PostUpdated Kind = "post:updated"
	PostDeleted Kind = "post:deleted"
)

// PostEvent is the payload published on every post mutation. It carries
// enough of the post for consumers to act without hitting the store.
type PostEvent struct {
	Kind           Kind      `json:"kind"`
	PostID         uuid.UUID `json:"post_id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	Category       string    `json:"category"`
	Thumbnail      string    `json:"thumbnail,omitempty"`
	AuthorID       uuid.UUID `json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	PostCreatedAt  time.Time `json:"post_created_at"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// NewPostEvent builds an event from a post snapshot.
func NewPostEvent(kind Kind, post *models.Post) PostEvent {
	ev := PostEvent{
		Kind:           kind,
		PostID:         post.ID,
		Title:          post.Title,
		Content:        post.Content,
		Category:       string(post.Category),
		AuthorID:       post.AuthorID,
		AuthorUsername: post.Author.Username,
		PostCreatedAt:  post.CreatedAt,
		OccurredAt:     time.Now(),
	}
	if post.Thumbnail != nil {
		ev.Thumbnail = *post.Thumbnail
	}
	return ev
}

// Bus decouples post mutations from their side effects. Publishers never
// wait for consumers; consumers receive events on their own goroutine via
// the subscription channel.
type Bus interface {
	Publish(ev PostEvent) error
	Subscribe() (<-chan PostEvent, error)
	Close() error
}
