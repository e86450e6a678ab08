package api

import (
	"context"

	"github.com/deadside-ru/hub/pkg/model"
)

// Events returns the published community events.
func (c *Client) Events(ctx context.Context) ([]model.Event, error) {
	var events []model.Event
	if err := c.getJSON(ctx, "/events", &events); err != nil {
		return nil, err
	}
	return events, nil
}

// ServerStatus returns a snapshot of the game server's health.
func (c *Client) ServerStatus(ctx context.Context) (*model.ServerStatus, error) {
	var status model.ServerStatus
	if err := c.getJSON(ctx, "/server/status", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// OnlinePlayers returns the live player list.
func (c *Client) OnlinePlayers(ctx context.Context) ([]model.OnlinePlayer, error) {
	var players []model.OnlinePlayer
	if err := c.getJSON(ctx, "/server/players", &players); err != nil {
		return nil, err
	}
	return players, nil
}
