// Package model defines the core domain types for the DEADSIDE hub client.
package model

// ChannelType distinguishes text chat rooms from voice rooms.
type ChannelType string

const (
	ChannelText  ChannelType = "text"
	ChannelVoice ChannelType = "voice"
)

// Valid reports whether the channel type is one the backend understands.
func (t ChannelType) Valid() bool {
	return t == ChannelText || t == ChannelVoice
}

// MessageType distinguishes plain text messages from voice recordings.
type MessageType string

const (
	MessageText  MessageType = "text"
	MessageVoice MessageType = "voice"
)

// Valid reports whether the message type is one the backend understands.
func (t MessageType) Valid() bool {
	return t == MessageText || t == MessageVoice
}

// Role represents a user's permission level on the hub.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// CanModerate reports whether the role may delete other users' messages
// or kick participants out of voice channels.
func (r Role) CanModerate() bool {
	return r == RoleModerator || r == RoleAdmin
}
