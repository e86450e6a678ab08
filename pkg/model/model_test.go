package model

import (
	"strings"
	"testing"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"valid simple", "survivor", nil},
		{"valid with numbers", "player123", nil},
		{"valid with underscore", "pvp_king", nil},
		{"valid with hyphen", "ru-sniper", nil},
		{"valid max length", strings.Repeat("a", MaxUsernameLength), nil},
		{"empty", "", ErrUsernameEmpty},
		{"too long", strings.Repeat("a", MaxUsernameLength+1), ErrUsernameTooLong},
		{"contains space", "has space", ErrUsernameInvalidChars},
		{"contains dot", "user.name", ErrUsernameInvalidChars},
		{"contains @", "user@name", ErrUsernameInvalidChars},
		{"cyrillic", "игрок", ErrUsernameInvalidChars},
		{"newline", "user\nname", ErrUsernameInvalidChars},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.input)
			if err != tt.wantErr {
				t.Errorf("ValidateUsername(%q) = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"valid", "user@example.com", nil},
		{"valid short", "a@b", nil},
		{"empty", "", ErrEmailInvalid},
		{"no at", "userexample.com", ErrEmailInvalid},
		{"at first", "@example.com", ErrEmailInvalid},
		{"at last", "user@", ErrEmailInvalid},
		{"double at", "a@b@c", ErrEmailInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateEmail(tt.input); err != tt.wantErr {
				t.Errorf("ValidateEmail(%q) = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateContent(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"valid", "привет из лагеря", nil},
		{"valid max length", strings.Repeat("x", MessageMaxContentLength), nil},
		{"empty", "", ErrMessageContentEmpty},
		{"whitespace only", "   \t\n ", ErrMessageContentEmpty},
		{"too long", strings.Repeat("x", MessageMaxContentLength+1), ErrMessageContentTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateContent(tt.input); err != tt.wantErr {
				t.Errorf("ValidateContent(len=%d) = %v, want %v", len(tt.input), err, tt.wantErr)
			}
		})
	}
}

func TestChannelValidate(t *testing.T) {
	tests := []struct {
		name    string
		ch      Channel
		wantErr error
	}{
		{"valid text", Channel{Name: "Общий", Type: ChannelText}, nil},
		{"valid voice", Channel{Name: "PvP Команды", Type: ChannelVoice, Description: "Голосовой канал для PvP команд"}, nil},
		{"empty name", Channel{Name: "  ", Type: ChannelText}, ErrChannelNameEmpty},
		{"name too long", Channel{Name: strings.Repeat("n", MaxChannelNameLength+1), Type: ChannelText}, ErrChannelNameTooLong},
		{"desc too long", Channel{Name: "ok", Type: ChannelText, Description: strings.Repeat("d", MaxChannelDescLength+1)}, ErrChannelDescTooLong},
		{"bad type", Channel{Name: "ok", Type: ChannelType("video")}, ErrChannelTypeInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.ch.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRoleCanModerate(t *testing.T) {
	if RoleUser.CanModerate() {
		t.Error("RoleUser should not moderate")
	}
	if !RoleModerator.CanModerate() || !RoleAdmin.CanModerate() {
		t.Error("moderator and admin should moderate")
	}
}
