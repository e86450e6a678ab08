package api

import (
	"context"
	"net/url"

	"github.com/deadside-ru/hub/pkg/model"
)

// JoinVoice registers the current user as a participant of a voice
// channel. Presence broadcasts follow via the realtime connection.
func (c *Client) JoinVoice(ctx context.Context, channelID string) error {
	return c.postJSON(ctx, "/voice/join/"+url.PathEscape(channelID), nil, nil)
}

// LeaveVoice removes the current user from a voice channel.
func (c *Client) LeaveVoice(ctx context.Context, channelID string) error {
	return c.postJSON(ctx, "/voice/leave/"+url.PathEscape(channelID), nil, nil)
}

// VoiceParticipants returns the current roster of a voice channel.
func (c *Client) VoiceParticipants(ctx context.Context, channelID string) ([]model.VoiceParticipant, error) {
	var participants []model.VoiceParticipant
	if err := c.getJSON(ctx, "/voice/channels/"+url.PathEscape(channelID)+"/participants", &participants); err != nil {
		return nil, err
	}
	return participants, nil
}
