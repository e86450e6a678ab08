package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deadside-ru/hub/pkg/model"
)

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/auth/login" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("login must not carry an Authorization header")
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm: %v", err)
		}
		if got := r.FormValue("username"); got != "survivor" {
			t.Errorf("username = %q, want %q", got, "survivor")
		}
		if got := r.FormValue("password"); got != "secret" {
			t.Errorf("password = %q, want %q", got, "secret")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-123","token_type":"bearer","user":{"id":"u1","username":"survivor"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	resp, err := c.Login(context.Background(), "survivor", "secret")
	if err != nil {
		t.Fatalf("Login: unexpected error: %v", err)
	}
	if resp.AccessToken != "tok-123" {
		t.Errorf("AccessToken = %q, want %q", resp.AccessToken, "tok-123")
	}
	if resp.User.ID != "u1" || resp.User.Username != "survivor" {
		t.Errorf("unexpected user: %+v", resp.User)
	}
}

func TestLoginFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Неверное имя пользователя или пароль"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Login(context.Background(), "survivor", "wrong")
	if err == nil {
		t.Fatal("Login: expected error")
	}

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *api.Error, got %T", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d, want 401", apiErr.StatusCode)
	}
	if apiErr.Detail != "Неверное имя пользователя или пароль" {
		t.Errorf("Detail = %q", apiErr.Detail)
	}
}

func TestErrorUndecodableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Channels(context.Background())

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *api.Error, got %v", err)
	}
	if apiErr.Detail != "" {
		t.Errorf("Detail = %q, want empty", apiErr.Detail)
	}
}

func TestBearerAttached(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"u1","username":"survivor"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	c.SetTokenFunc(func() string { return "tok-456" })

	if _, err := c.Profile(context.Background()); err != nil {
		t.Fatalf("Profile: unexpected error: %v", err)
	}
	if gotAuth != "Bearer tok-456" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer tok-456")
	}

	// Empty token means no header at all.
	c.SetTokenFunc(func() string { return "" })
	if _, err := c.Profile(context.Background()); err != nil {
		t.Fatalf("Profile: unexpected error: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("Authorization = %q, want empty", gotAuth)
	}
}

func TestSendMessageMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/channels/ch1/messages" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm: %v", err)
		}
		if got := r.FormValue("content"); got != "Голосовое сообщение" {
			t.Errorf("content = %q", got)
		}
		if got := r.FormValue("message_type"); got != "voice" {
			t.Errorf("message_type = %q", got)
		}
		file, header, err := r.FormFile("voice_file")
		if err != nil {
			t.Fatalf("FormFile: %v", err)
		}
		defer file.Close()
		if header.Filename != "voice_message.wav" {
			t.Errorf("filename = %q", header.Filename)
		}
		data, _ := io.ReadAll(file)
		if string(data) != "RIFFdata" {
			t.Errorf("file data = %q", data)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	err := c.SendMessage(context.Background(), "ch1", "Голосовое сообщение", model.MessageVoice, &Attachment{
		Filename:    "voice_message.wav",
		ContentType: "audio/wav",
		Data:        []byte("RIFFdata"),
	})
	if err != nil {
		t.Fatalf("SendMessage: unexpected error: %v", err)
	}
}

func TestServerStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/server/status" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"online":true,"players":247,"max_players":300,"uptime":"99.8%","ping":15,"version":"0.7.1.2"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	status, err := c.ServerStatus(context.Background())
	if err != nil {
		t.Fatalf("ServerStatus: unexpected error: %v", err)
	}
	if !status.Online || status.Players != 247 || status.MaxPlayers != 300 {
		t.Errorf("unexpected status: %+v", status)
	}
}
