package model

import "time"

// EventType categorizes community events published by the hub.
type EventType string

const (
	EventTournament EventType = "tournament"
	EventBonus      EventType = "bonus"
	EventUpdate     EventType = "update"
	EventGeneric    EventType = "event"
)

// Event is a community announcement (tournament, bonus weekend, patch).
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
	Type        EventType `json:"type"`
	Image       string    `json:"image,omitempty"`
	CreatedBy   string    `json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitzero"`
}

// ServerStatus is a snapshot of the game server's health.
type ServerStatus struct {
	Online     bool   `json:"online"`
	Players    int    `json:"players"`
	MaxPlayers int    `json:"max_players"`
	Uptime     string `json:"uptime"`
	Ping       int    `json:"ping"`
	Version    string `json:"version"`
}

// OnlinePlayer is one row of the live player list.
type OnlinePlayer struct {
	Nickname string `json:"nickname"`
	Playtime string `json:"playtime"`
	Level    int    `json:"level,omitempty"`
}
