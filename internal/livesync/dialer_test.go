package livesync

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tessro/jukebox/internal/core"
)

// pushServer upgrades every request and writes the given frames.
func pushServer(t *testing.T, frames func(c *websocket.Conn)) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer c.Close()
		frames(c)
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestWebsocketDialer(t *testing.T) {
	url := pushServer(t, func(c *websocket.Conn) {
		_ = c.WriteMessage(websocket.TextMessage, []byte(`{"mrl":"text"}`))
		_ = c.WriteMessage(websocket.BinaryMessage, []byte(`{"mrl":"binary"}`))
	})

	conn, err := (&WebsocketDialer{}).Dial(context.Background(), url)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}
	if s, ok := msg.(string); !ok || s != `{"mrl":"text"}` {
		t.Errorf("text frame = %#v", msg)
	}

	msg, err = conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}
	if b, ok := msg.([]byte); !ok || string(b) != `{"mrl":"binary"}` {
		t.Errorf("binary frame = %#v", msg)
	}

	if _, err := conn.ReadMessage(); err == nil {
		t.Error("ReadMessage() after server close expected error")
	}
}

func TestWebsocketDialerRejected(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := (&WebsocketDialer{}).Dial(context.Background(), "ws"+strings.TrimPrefix(srv.URL, "http"))
	if err == nil {
		t.Fatal("Dial() expected error for a non-websocket endpoint")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("error = %v, want status in message", err)
	}
}

func TestSessionOverWebsocket(t *testing.T) {
	release := make(chan struct{})
	url := pushServer(t, func(c *websocket.Conn) {
		_ = c.WriteMessage(websocket.TextMessage, []byte(`{"data":{"mrl":"file:///live.mp3","playState":"PLAYING","durationMs":180000,"elapsedMs":90000}}`))
		<-release
	})
	defer close(release)

	// The seed fetch fails so only the push channel can supply state.
	s := New(&fakeSource{err: errors.New("offline")}, &WebsocketDialer{}, Options{
		PushURL:      url,
		PollInterval: time.Hour,
	})
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer s.Stop()

	waitFor(t, "push update", func() bool { return currentMRL(s) == "file:///live.mp3" })

	u := s.Current()
	if u.State != core.StateConnected {
		t.Errorf("State = %s, want connected", u.State)
	}
	if p := u.Snapshot.Progress; p == nil || p.CurrentSeconds != 90 || p.DurationSeconds != 180 {
		t.Errorf("Progress = %+v, want 90/180", p)
	}
}
