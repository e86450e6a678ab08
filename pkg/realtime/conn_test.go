package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestSocketURL(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"http", "http://localhost:8000", "ws://localhost:8000/ws", false},
		{"https", "https://hub.deadside.ru", "wss://hub.deadside.ru/ws", false},
		{"trailing slash", "http://localhost:8000/", "ws://localhost:8000/ws", false},
		{"ws passthrough", "ws://localhost:8000", "ws://localhost:8000/ws", false},
		{"bad scheme", "ftp://x", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := socketURL(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("socketURL(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("socketURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// socketServer upgrades incoming requests and hands the server side of
// the connection to fn.
func socketServer(t *testing.T, fn func(*websocket.Conn)) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ws" {
			http.NotFound(w, r)
			return
		}
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		fn(ws)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDialSendsIdentify(t *testing.T) {
	received := make(chan Event, 1)
	srv := socketServer(t, func(ws *websocket.Conn) {
		defer ws.Close()
		var ev Event
		if err := ws.ReadJSON(&ev); err != nil {
			t.Errorf("read identify: %v", err)
			return
		}
		received <- ev
	})

	conn, err := Dial(context.Background(), srv.URL, Identity{UserID: "u1", Username: "survivor"})
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	select {
	case ev := <-received:
		if ev.Name != EventIdentify {
			t.Errorf("first event = %q, want %q", ev.Name, EventIdentify)
		}
		var id Identity
		if err := json.Unmarshal(ev.Data, &id); err != nil {
			t.Fatalf("unmarshal identity: %v", err)
		}
		if id.UserID != "u1" || id.Username != "survivor" {
			t.Errorf("identity = %+v", id)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server never received the identify event")
	}
}

func TestInboundEventsDispatchedToHandler(t *testing.T) {
	srv := socketServer(t, func(ws *websocket.Conn) {
		defer ws.Close()
		var ev Event
		_ = ws.ReadJSON(&ev) // identify
		_ = ws.WriteJSON(Event{Name: EventUserTyping, Data: json.RawMessage(`{"user_id":"u2"}`)})
	})

	conn, err := Dial(context.Background(), srv.URL, Identity{UserID: "u1", Username: "survivor"})
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	got := make(chan Event, 1)
	conn.SetEventHandler(func(ev Event) { got <- ev })
	conn.Start()

	select {
	case ev := <-got:
		if ev.Name != EventUserTyping {
			t.Errorf("event = %q, want %q", ev.Name, EventUserTyping)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("handler never received the event")
	}
}

func TestDoneClosesWhenServerHangsUp(t *testing.T) {
	srv := socketServer(t, func(ws *websocket.Conn) {
		var ev Event
		_ = ws.ReadJSON(&ev) // identify
		_ = ws.Close()
	})

	conn, err := Dial(context.Background(), srv.URL, Identity{UserID: "u1", Username: "survivor"})
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()
	conn.Start()

	select {
	case <-conn.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Done was not closed after server hangup")
	}
}
