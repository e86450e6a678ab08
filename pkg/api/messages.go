package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/deadside-ru/hub/pkg/model"
)

// Messages returns a channel's history in chronological order, as
// delivered by the backend.
func (c *Client) Messages(ctx context.Context, channelID string) ([]model.Message, error) {
	var messages []model.Message
	if err := c.getJSON(ctx, "/channels/"+url.PathEscape(channelID)+"/messages", &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// SendMessage submits a message as a multipart form. The voice attachment
// is only sent for voice messages. The created message is not returned to
// the caller for local insertion; it arrives via the realtime broadcast.
func (c *Client) SendMessage(ctx context.Context, channelID, content string, msgType model.MessageType, voice *Attachment) error {
	files := map[string]*Attachment{}
	if voice != nil {
		files["voice_file"] = voice
	}
	return c.submitMultipart(ctx, http.MethodPost, "/channels/"+url.PathEscape(channelID)+"/messages", map[string]string{
		"content":      content,
		"message_type": string(msgType),
	}, files, nil)
}

// DeleteMessage removes a message. The backend enforces that only the
// author or a moderator may delete.
func (c *Client) DeleteMessage(ctx context.Context, messageID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.url("/messages/"+url.PathEscape(messageID)), nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// ToggleReaction adds the emoji reaction for the current user, or removes
// it if already present. The backend expects a form field, not JSON.
func (c *Client) ToggleReaction(ctx context.Context, messageID, emoji string) error {
	return c.submitMultipart(ctx, http.MethodPost, "/messages/"+url.PathEscape(messageID)+"/reactions", map[string]string{
		"emoji": emoji,
	}, nil, nil)
}
