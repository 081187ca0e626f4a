package core

// ConnectionState describes the health of the live now-playing feed.
type ConnectionState string

const (
	StateConnecting   ConnectionState = "connecting"
	StateConnected    ConnectionState = "connected"
	StateReconnecting ConnectionState = "reconnecting"
	StateFallback     ConnectionState = "fallback"
)

// Label returns a short human-readable description of the state.
func (s ConnectionState) Label() string {
	switch s {
	case StateConnecting:
		return "WS connecting"
	case StateConnected:
		return "WS connected"
	case StateReconnecting:
		return "WS reconnecting"
	case StateFallback:
		return "WS fallback polling"
	default:
		return "WS unknown"
	}
}
