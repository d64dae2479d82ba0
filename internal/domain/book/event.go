package book

import "time"

// EventType 图书事件类型,同时用作消息的routing key
type EventType string

const (
	EventCreated EventType = "book.created"
	EventUpdated EventType = "book.updated"
	EventDeleted EventType = "book.deleted"
)

// Event 图书变更事件
type Event struct {
	Type       EventType `json:"type"`
	BookID     string    `json:"book_id"`
	ISBN       string    `json:"isbn,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEvent 创建事件
func NewEvent(t EventType, id ID, isbn string) Event {
	return Event{
		Type:       t,
		BookID:     id.String(),
		ISBN:       isbn,
		OccurredAt: time.Now().UTC(),
	}
}
