package realtime

import "encoding/json"

// Outbound event names.
const (
	EventIdentify    = "identify"
	EventJoinChannel = "join_channel"
	EventTypingStart = "typing_start"
	EventTypingStop  = "typing_stop"
	EventJoinVoice   = "join_voice_room"
)

// Inbound event names.
const (
	EventNewMessage        = "new_message"
	EventUserTyping        = "user_typing"
	EventUserStoppedTyping = "user_stopped_typing"
	EventUserJoinedVoice   = "user_joined_voice"
	EventUserLeftVoice     = "user_left_voice"
	EventMessageDeleted    = "message_deleted"
	EventReactionAdded     = "reaction_added"
)

// Event is the wire envelope for both directions.
type Event struct {
	Name string          `json:"event"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Identity is the handshake payload sent right after connecting.
type Identity struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}
