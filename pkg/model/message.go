package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const MessageMaxContentLength = 2000

var ErrMessageContentEmpty = errors.New("message content cannot be empty")
var ErrMessageContentTooLong = fmt.Errorf("message content exceeds %d characters", MessageMaxContentLength)

// Reaction is a single emoji reaction on a message.
type Reaction struct {
	UserID string `json:"user_id"`
	Emoji  string `json:"emoji"`
}

// Message is one entry in a channel's history. The backend assigns ID
// and CreatedAt; the client never reorders or deduplicates.
type Message struct {
	ID        string      `json:"id"`
	ChannelID string      `json:"channel_id"`
	UserID    string      `json:"user_id"`
	Username  string      `json:"username"`
	Avatar    string      `json:"avatar,omitempty"`
	Content   string      `json:"content"`
	Type      MessageType `json:"type"`
	FileURL   string      `json:"file_url,omitempty"`
	Reactions []Reaction  `json:"reactions,omitempty"`
	CreatedAt time.Time   `json:"created_at,omitzero"`
	EditedAt  *time.Time  `json:"edited_at,omitempty"`
}

// ValidateContent checks outbound text content before any network call.
// Voice messages carry their payload as an attachment and skip this.
func ValidateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return ErrMessageContentEmpty
	}
	if utf8.RuneCountInString(content) > MessageMaxContentLength {
		return ErrMessageContentTooLong
	}
	return nil
}
