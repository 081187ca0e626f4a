package livesync

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
)

// Conn is an open push channel.
type Conn interface {
	// ReadMessage blocks for the next message. Text frames are returned as
	// string and binary frames as []byte.
	ReadMessage() (any, error)
	Close() error
}

// Dialer opens push channels.
type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

// WebsocketDialer dials push channels over websocket.
type WebsocketDialer struct {
	Dialer *websocket.Dialer
	Header http.Header
}

// Dial performs the websocket handshake.
func (d *WebsocketDialer) Dial(ctx context.Context, url string) (Conn, error) {
	dialer := d.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}

	c, resp, err := dialer.DialContext(ctx, url, d.Header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %w (status %d)", url, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return &wsConn{conn: c}, nil
}

type wsConn struct {
	conn *websocket.Conn
}

func (w *wsConn) ReadMessage() (any, error) {
	for {
		mt, data, err := w.conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		switch mt {
		case websocket.TextMessage:
			return string(data), nil
		case websocket.BinaryMessage:
			return data, nil
		}
	}
}

func (w *wsConn) Close() error {
	return w.conn.Close()
}
