package core

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single role-tagged entry in a session's history.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserMessage creates a user message with a fresh ID.
func NewUserMessage(content string) Message {
	return Message{
		ID:        uuid.New().String(),
		Role:      RoleUser,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
}

// NewAssistantMessage creates an assistant message with a fresh ID.
func NewAssistantMessage(content string) Message {
	return Message{
		ID:        uuid.New().String(),
		Role:      RoleAssistant,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
}
