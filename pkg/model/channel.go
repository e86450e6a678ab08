package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxChannelNameLength = 64
	MaxChannelDescLength = 256
)

var ErrChannelNameEmpty = errors.New("channel name must not be empty")
var ErrChannelNameTooLong = errors.New("channel name too long")
var ErrChannelDescTooLong = errors.New("channel description too long")
var ErrChannelTypeInvalid = errors.New("channel type must be text or voice")

// Channel represents a text or voice room on the hub.
type Channel struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Type        ChannelType `json:"type"`
	Description string      `json:"description,omitempty"`
	IsPrivate   bool        `json:"is_private"`
	CreatedBy   string      `json:"created_by,omitempty"`
	CreatedAt   time.Time   `json:"created_at,omitzero"`
}

// Validate checks a channel before it is submitted for creation.
func (ch *Channel) Validate() error {
	if strings.TrimSpace(ch.Name) == "" {
		return ErrChannelNameEmpty
	}
	if utf8.RuneCountInString(ch.Name) > MaxChannelNameLength {
		return ErrChannelNameTooLong
	}
	if utf8.RuneCountInString(ch.Description) > MaxChannelDescLength {
		return ErrChannelDescTooLong
	}
	if !ch.Type.Valid() {
		return ErrChannelTypeInvalid
	}
	return nil
}
