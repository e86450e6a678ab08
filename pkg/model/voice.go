package model

import "time"

// VoiceParticipant is one user present in a voice channel. Rosters are
// ephemeral client state, keyed by channel id.
type VoiceParticipant struct {
	UserID   string    `json:"user_id"`
	Username string    `json:"username"`
	Avatar   string    `json:"avatar,omitempty"`
	IsMuted  bool      `json:"is_muted"`
	JoinedAt time.Time `json:"joined_at,omitzero"`
}
