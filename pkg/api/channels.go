package api

import (
	"context"

	"github.com/deadside-ru/hub/pkg/model"
)

// Channels returns the full channel list.
func (c *Client) Channels(ctx context.Context) ([]model.Channel, error) {
	var channels []model.Channel
	if err := c.getJSON(ctx, "/channels", &channels); err != nil {
		return nil, err
	}
	return channels, nil
}

// CreateChannel creates a new text or voice channel and returns it.
func (c *Client) CreateChannel(ctx context.Context, name string, chType model.ChannelType, description string, isPrivate bool) (*model.Channel, error) {
	ch := model.Channel{Name: name, Type: chType, Description: description, IsPrivate: isPrivate}
	if err := ch.Validate(); err != nil {
		return nil, err
	}

	var created model.Channel
	err := c.postJSON(ctx, "/channels", map[string]any{
		"name":        name,
		"type":        chType,
		"description": description,
		"is_private":  isPrivate,
	}, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}
