package stream

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Connection timeouts
	PING_INTERVAL = 20 * time.Second
	PONG_TIMEOUT  = 60 * time.Second
)

// WebSocketClient manages the connection to the exchange stream
type WebSocketClient struct {
	wsURL     string
	conn      *websocket.Conn
	stopCh    chan struct{}
	onMessage func(message []byte) error
}

// NewWebSocketClient creates a new WebSocket client
func NewWebSocketClient(wsURL string, stopCh chan struct{}, onMessage func(message []byte) error) *WebSocketClient {
	return &WebSocketClient{
		wsURL:     wsURL,
		stopCh:    stopCh,
		onMessage: onMessage,
	}
}

// Connect establishes the WebSocket connection
func (wsc *WebSocketClient) Connect() error {
	conn, _, err := websocket.DefaultDialer.Dial(wsc.wsURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to quote stream: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(PONG_TIMEOUT))

	wsc.conn = conn
	return nil
}

// SetupPingPong sets up ping/pong handlers for the WebSocket connection
func (wsc *WebSocketClient) SetupPingPong() {
	go func() {
		ticker := time.NewTicker(PING_INTERVAL)
		defer ticker.Stop()

		for {
			select {
			case <-wsc.stopCh:
				return
			case <-ticker.C:
				if err := wsc.conn.WriteControl(websocket.PongMessage, []byte{}, time.Now().Add(PING_INTERVAL)); err != nil {
					log.Printf("Stream: error sending pong: %v", err)
					return
				}
			}
		}
	}()

	wsc.conn.SetPingHandler(func(string) error {
		wsc.conn.SetReadDeadline(time.Now().Add(PONG_TIMEOUT))
		return nil
	})
}

// StartMessageLoop begins reading messages from the WebSocket connection
func (wsc *WebSocketClient) StartMessageLoop(ctx context.Context, reconnectFn func()) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-wsc.stopCh:
			return
		default:
			if wsc.conn == nil {
				time.Sleep(time.Second)
				reconnectFn()
				continue
			}

			_, message, err := wsc.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Printf("Stream: error reading WebSocket message: %v", err)
				}
				reconnectFn()
				continue
			}

			if err := wsc.onMessage(message); err != nil {
				log.Printf("Stream: %v", err)
			}
		}
	}
}

// Close closes the WebSocket connection
func (wsc *WebSocketClient) Close() {
	if wsc.conn != nil {
		wsc.conn.Close()
		wsc.conn = nil
	}
}
