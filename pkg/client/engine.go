// Package client implements the hub's realtime session engine.
//
// One Engine coordinates the realtime connection, channel list, message
// history cache, typing presence, and voice rosters for a single
// authenticated session. All state lives behind one mutex; inbound
// events and outbound calls interleave freely without corrupting it.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/deadside-ru/hub/pkg/api"
	"github.com/deadside-ru/hub/pkg/model"
	"github.com/deadside-ru/hub/pkg/realtime"
)

// typingTimeout is how long a user stays in the typing set after their
// last typing_start signal.
const typingTimeout = 3 * time.Second

var ErrNotConnected = errors.New("client: not connected")
var ErrNoActiveChannel = errors.New("client: no active channel")
var ErrAlreadyConnected = errors.New("client: already connected")
var ErrUnknownChannel = errors.New("client: unknown channel")

// EventConn is the slice of realtime.Conn the engine needs. Tests
// substitute an in-memory fake.
type EventConn interface {
	SetEventHandler(realtime.Handler)
	Start()
	Send(name string, data any) error
	Close() error
	Done() <-chan struct{}
}

// DialFunc opens the realtime connection for an identity.
type DialFunc func(ctx context.Context, identity realtime.Identity) (EventConn, error)

// Engine is the realtime session manager. Construct with New, then
// Connect once the session is authenticated. Callbacks fire with the
// engine's lock released.
type Engine struct {
	mu     sync.Mutex
	api    *api.Client
	dial   DialFunc
	conn   EventConn
	user   model.User

	channels      []model.Channel
	activeID      string
	messages      map[string][]model.Message
	historyOnce   map[string]bool
	typingTimers  map[string]*time.Timer
	voiceRosters  map[string][]model.VoiceParticipant
	typingTimeout time.Duration

	// Callbacks for the presentation layer.
	OnChannels    func(channels []model.Channel)
	OnActive      func(ch *model.Channel)
	OnMessage     func(msg model.Message)
	OnTyping      func(userIDs []string)
	OnVoiceRoster func(channelID string, roster []model.VoiceParticipant)
	OnDisconnect  func()
}

// New creates an engine around the REST client and a dialer for the
// realtime connection.
func New(apiClient *api.Client, dial DialFunc) *Engine {
	return &Engine{
		api:           apiClient,
		dial:          dial,
		messages:      make(map[string][]model.Message),
		historyOnce:   make(map[string]bool),
		typingTimers:  make(map[string]*time.Timer),
		voiceRosters:  make(map[string][]model.VoiceParticipant),
		typingTimeout: typingTimeout,
	}
}

// Connect opens the realtime connection for the authenticated user and
// loads the channel list. If the list is non-empty and no channel is
// active, the first channel becomes active. List and history failures
// are logged and leave state empty; they are not retried.
func (e *Engine) Connect(ctx context.Context, user model.User) error {
	e.mu.Lock()
	if e.conn != nil {
		e.mu.Unlock()
		return ErrAlreadyConnected
	}
	e.user = user
	e.mu.Unlock()

	conn, err := e.dial(ctx, realtime.Identity{UserID: user.ID, Username: user.Username})
	if err != nil {
		return fmt.Errorf("client: connect: %w", err)
	}
	conn.SetEventHandler(e.handleEvent)
	conn.Start()

	e.mu.Lock()
	e.conn = conn
	e.mu.Unlock()

	go func() {
		<-conn.Done()
		e.mu.Lock()
		lost := e.conn == conn
		e.mu.Unlock()
		if lost {
			e.Disconnect()
		}
	}()

	channels, err := e.api.Channels(ctx)
	if err != nil {
		slog.Error("failed to load channels", "err", err)
		return nil
	}

	e.mu.Lock()
	e.channels = channels
	active := e.activeID
	e.mu.Unlock()

	if e.OnChannels != nil {
		e.OnChannels(channels)
	}

	if len(channels) > 0 && active == "" {
		if err := e.SetActiveChannel(ctx, channels[0].ID); err != nil {
			slog.Error("failed to activate first channel", "err", err)
		}
	}
	return nil
}

// SetActiveChannel switches the single active channel pointer. The
// channel's history is fetched the first time it becomes active and
// cached; revisiting does not refetch. After a first successful load the
// engine joins the channel's broadcast room.
func (e *Engine) SetActiveChannel(ctx context.Context, channelID string) error {
	e.mu.Lock()
	ch := e.findChannel(channelID)
	if ch == nil {
		e.mu.Unlock()
		return ErrUnknownChannel
	}
	e.activeID = channelID
	needHistory := !e.historyOnce[channelID]
	if needHistory {
		e.historyOnce[channelID] = true
	}
	conn := e.conn
	active := *ch
	e.mu.Unlock()

	if needHistory {
		e.loadHistory(ctx, channelID, conn)
	}

	if e.OnActive != nil {
		e.OnActive(&active)
	}
	return nil
}

func (e *Engine) loadHistory(ctx context.Context, channelID string, conn EventConn) {
	history, err := e.api.Messages(ctx, channelID)
	if err != nil {
		slog.Error("failed to load message history", "channel", channelID, "err", err)
		// A later visit may try again; the cache key stays unset.
		e.mu.Lock()
		delete(e.historyOnce, channelID)
		e.mu.Unlock()
		return
	}

	// The fetch is keyed by channel id, so a slow response landing after
	// another switch still fills its own slot only.
	e.mu.Lock()
	e.messages[channelID] = history
	e.mu.Unlock()

	if conn != nil {
		if err := conn.Send(realtime.EventJoinChannel, map[string]string{"channel_id": channelID}); err != nil {
			slog.Error("failed to join channel room", "channel", channelID, "err", err)
		}
	}
}

// SendMessage submits a message to the active channel. Text content is
// validated before any network call. The engine never appends locally;
// the message arrives back through the new_message broadcast.
func (e *Engine) SendMessage(ctx context.Context, content string, msgType model.MessageType, attachment *api.Attachment) error {
	e.mu.Lock()
	active := e.activeID
	connected := e.conn != nil
	e.mu.Unlock()

	if !connected {
		return ErrNotConnected
	}
	if active == "" {
		return ErrNoActiveChannel
	}
	if msgType == model.MessageText {
		if err := model.ValidateContent(content); err != nil {
			return err
		}
	}

	if err := e.api.SendMessage(ctx, active, content, msgType, attachment); err != nil {
		slog.Error("failed to send message", "channel", active, "err", err)
		return err
	}
	return nil
}

// StartTyping signals that the user began typing in the active channel.
func (e *Engine) StartTyping() error {
	return e.sendTyping(realtime.EventTypingStart)
}

// StopTyping signals that the user stopped typing in the active channel.
func (e *Engine) StopTyping() error {
	return e.sendTyping(realtime.EventTypingStop)
}

func (e *Engine) sendTyping(event string) error {
	e.mu.Lock()
	conn := e.conn
	active := e.activeID
	userID := e.user.ID
	e.mu.Unlock()

	if conn == nil {
		return ErrNotConnected
	}
	if active == "" {
		return ErrNoActiveChannel
	}
	return conn.Send(event, map[string]string{
		"channel_id": active,
		"user_id":    userID,
	})
}

// JoinVoiceChannel registers presence in a voice channel, then joins its
// broadcast room so roster updates arrive.
func (e *Engine) JoinVoiceChannel(ctx context.Context, channelID string) error {
	e.mu.Lock()
	conn := e.conn
	e.mu.Unlock()

	if conn == nil {
		return ErrNotConnected
	}
	if err := e.api.JoinVoice(ctx, channelID); err != nil {
		slog.Error("failed to join voice channel", "channel", channelID, "err", err)
		return err
	}
	if err := conn.Send(realtime.EventJoinVoice, map[string]string{"channel_id": channelID}); err != nil {
		slog.Error("failed to join voice room", "channel", channelID, "err", err)
	}

	// Seed the roster from a snapshot; broadcasts keep it current from
	// here on.
	roster, err := e.api.VoiceParticipants(ctx, channelID)
	if err != nil {
		slog.Debug("failed to fetch voice roster", "channel", channelID, "err", err)
		return nil
	}
	e.mu.Lock()
	e.voiceRosters[channelID] = roster
	snapshot := make([]model.VoiceParticipant, len(roster))
	copy(snapshot, roster)
	e.mu.Unlock()

	if e.OnVoiceRoster != nil {
		e.OnVoiceRoster(channelID, snapshot)
	}
	return nil
}

// DeleteMessage asks the backend to remove a message. The local cache
// is updated by the message_deleted broadcast, not here.
func (e *Engine) DeleteMessage(ctx context.Context, messageID string) error {
	return e.api.DeleteMessage(ctx, messageID)
}

// React toggles an emoji reaction on a message. The cache is updated by
// the reaction_added broadcast.
func (e *Engine) React(ctx context.Context, messageID, emoji string) error {
	return e.api.ToggleReaction(ctx, messageID, emoji)
}

// LeaveVoiceChannel removes presence from a voice channel.
func (e *Engine) LeaveVoiceChannel(ctx context.Context, channelID string) error {
	if err := e.api.LeaveVoice(ctx, channelID); err != nil {
		slog.Error("failed to leave voice channel", "channel", channelID, "err", err)
		return err
	}
	return nil
}

// Disconnect tears the session down: the connection is closed, timers
// stopped, and all ephemeral state cleared. Safe to call repeatedly.
func (e *Engine) Disconnect() {
	e.mu.Lock()
	conn := e.conn
	e.conn = nil
	for userID, timer := range e.typingTimers {
		timer.Stop()
		delete(e.typingTimers, userID)
	}
	e.channels = nil
	e.activeID = ""
	e.messages = make(map[string][]model.Message)
	e.historyOnce = make(map[string]bool)
	e.voiceRosters = make(map[string][]model.VoiceParticipant)
	e.mu.Unlock()

	if conn == nil {
		return
	}
	_ = conn.Close()
	if e.OnDisconnect != nil {
		e.OnDisconnect()
	}
}

// Channels returns a copy of the channel list.
func (e *Engine) Channels() []model.Channel {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.Channel, len(e.channels))
	copy(out, e.channels)
	return out
}

// ActiveChannel returns the single active channel, or nil.
func (e *Engine) ActiveChannel() *model.Channel {
	e.mu.Lock()
	defer e.mu.Unlock()
	ch := e.findChannel(e.activeID)
	if ch == nil {
		return nil
	}
	active := *ch
	return &active
}

// Messages returns a copy of a channel's cached history, in arrival
// order.
func (e *Engine) Messages(channelID string) []model.Message {
	e.mu.Lock()
	defer e.mu.Unlock()
	msgs := e.messages[channelID]
	out := make([]model.Message, len(msgs))
	copy(out, msgs)
	return out
}

// TypingUsers returns the ids of users currently typing.
func (e *Engine) TypingUsers() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.typingIDsLocked()
}

// VoiceRoster returns a copy of a voice channel's participant roster.
func (e *Engine) VoiceRoster(channelID string) []model.VoiceParticipant {
	e.mu.Lock()
	defer e.mu.Unlock()
	roster := e.voiceRosters[channelID]
	out := make([]model.VoiceParticipant, len(roster))
	copy(out, roster)
	return out
}

// findChannel must be called with the lock held.
func (e *Engine) findChannel(id string) *model.Channel {
	for i := range e.channels {
		if e.channels[i].ID == id {
			return &e.channels[i]
		}
	}
	return nil
}

func (e *Engine) typingIDsLocked() []string {
	ids := make([]string, 0, len(e.typingTimers))
	for id := range e.typingTimers {
		ids = append(ids, id)
	}
	return ids
}

// handleEvent dispatches one inbound event into a state update. It runs
// on the connection's read goroutine.
func (e *Engine) handleEvent(ev realtime.Event) {
	switch ev.Name {
	case realtime.EventNewMessage:
		var msg model.Message
		if err := json.Unmarshal(ev.Data, &msg); err != nil {
			slog.Debug("malformed new_message event", "err", err)
			return
		}
		e.appendMessage(msg)

	case realtime.EventUserTyping:
		var p struct {
			UserID string `json:"user_id"`
		}
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			return
		}
		e.markTyping(p.UserID)

	case realtime.EventUserStoppedTyping:
		var p struct {
			UserID string `json:"user_id"`
		}
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			return
		}
		e.clearTyping(p.UserID)

	case realtime.EventUserJoinedVoice:
		var p struct {
			ChannelID string     `json:"channel_id"`
			User      model.User `json:"user"`
		}
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			return
		}
		e.voiceJoined(p.ChannelID, p.User)

	case realtime.EventUserLeftVoice:
		var p struct {
			ChannelID string `json:"channel_id"`
			UserID    string `json:"user_id"`
		}
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			return
		}
		e.voiceLeft(p.ChannelID, p.UserID)

	case realtime.EventMessageDeleted:
		var p struct {
			MessageID string `json:"message_id"`
		}
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			return
		}
		e.removeMessage(p.MessageID)

	case realtime.EventReactionAdded:
		var p struct {
			MessageID string `json:"message_id"`
			UserID    string `json:"user_id"`
			Emoji     string `json:"emoji"`
		}
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			return
		}
		e.toggleReaction(p.MessageID, p.UserID, p.Emoji)

	default:
		slog.Debug("ignoring unknown event", "event", ev.Name)
	}
}

// appendMessage adds a broadcast message to its channel's sequence in
// arrival order. No deduplication, no reordering.
func (e *Engine) appendMessage(msg model.Message) {
	e.mu.Lock()
	e.messages[msg.ChannelID] = append(e.messages[msg.ChannelID], msg)
	e.mu.Unlock()

	if e.OnMessage != nil {
		e.OnMessage(msg)
	}
}

// markTyping adds a user to the typing set and debounces their removal:
// one timer per user, reset on every fresh signal.
func (e *Engine) markTyping(userID string) {
	e.mu.Lock()
	if timer, ok := e.typingTimers[userID]; ok {
		timer.Reset(e.typingTimeout)
		e.mu.Unlock()
		return
	}
	e.typingTimers[userID] = time.AfterFunc(e.typingTimeout, func() {
		e.clearTyping(userID)
	})
	ids := e.typingIDsLocked()
	e.mu.Unlock()

	if e.OnTyping != nil {
		e.OnTyping(ids)
	}
}

func (e *Engine) clearTyping(userID string) {
	e.mu.Lock()
	timer, ok := e.typingTimers[userID]
	if !ok {
		e.mu.Unlock()
		return
	}
	timer.Stop()
	delete(e.typingTimers, userID)
	ids := e.typingIDsLocked()
	e.mu.Unlock()

	if e.OnTyping != nil {
		e.OnTyping(ids)
	}
}

// voiceJoined applies replace semantics: any prior roster entry for the
// user is dropped before the new one is inserted.
func (e *Engine) voiceJoined(channelID string, user model.User) {
	participant := model.VoiceParticipant{
		UserID:   user.ID,
		Username: user.Username,
		Avatar:   user.Avatar,
	}

	e.mu.Lock()
	roster := e.voiceRosters[channelID][:0:0]
	for _, p := range e.voiceRosters[channelID] {
		if p.UserID != user.ID {
			roster = append(roster, p)
		}
	}
	roster = append(roster, participant)
	e.voiceRosters[channelID] = roster
	snapshot := make([]model.VoiceParticipant, len(roster))
	copy(snapshot, roster)
	e.mu.Unlock()

	if e.OnVoiceRoster != nil {
		e.OnVoiceRoster(channelID, snapshot)
	}
}

func (e *Engine) voiceLeft(channelID, userID string) {
	e.mu.Lock()
	roster := e.voiceRosters[channelID][:0:0]
	for _, p := range e.voiceRosters[channelID] {
		if p.UserID != userID {
			roster = append(roster, p)
		}
	}
	e.voiceRosters[channelID] = roster
	snapshot := make([]model.VoiceParticipant, len(roster))
	copy(snapshot, roster)
	e.mu.Unlock()

	if e.OnVoiceRoster != nil {
		e.OnVoiceRoster(channelID, snapshot)
	}
}

func (e *Engine) removeMessage(messageID string) {
	e.mu.Lock()
	for channelID, msgs := range e.messages {
		for i := range msgs {
			if msgs[i].ID == messageID {
				e.messages[channelID] = append(msgs[:i:i], msgs[i+1:]...)
				break
			}
		}
	}
	e.mu.Unlock()
}

// toggleReaction mirrors the backend's toggle: an existing identical
// reaction is removed, otherwise the reaction is added.
func (e *Engine) toggleReaction(messageID, userID, emoji string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for channelID, msgs := range e.messages {
		for i := range msgs {
			if msgs[i].ID != messageID {
				continue
			}
			reactions := msgs[i].Reactions
			found := false
			for j, r := range reactions {
				if r.UserID == userID && r.Emoji == emoji {
					reactions = append(reactions[:j:j], reactions[j+1:]...)
					found = true
					break
				}
			}
			if !found {
				reactions = append(reactions, model.Reaction{UserID: userID, Emoji: emoji})
			}
			e.messages[channelID][i].Reactions = reactions
			return
		}
	}
}
