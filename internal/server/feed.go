package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/tartampluch/go-vernissage/internal/config"
	"github.com/tartampluch/go-vernissage/internal/engine"
)

// subscriber is one WebSocket client of the countdown stream.
type subscriber struct {
	id   uuid.UUID
	conn *websocket.Conn
	send chan []byte
}

// Feed broadcasts countdown snapshots as JSON, both as a pollable document
// and as a WebSocket stream. Publishing never blocks on a slow client:
// a full send queue drops the frame for that client only.
type Feed struct {
	latest atomic.Pointer[[]byte]

	mu      sync.Mutex
	clients map[uuid.UUID]*subscriber
	closed  bool

	upgrader websocket.Upgrader
}

// NewFeed creates an empty feed.
func NewFeed() *Feed {
	return &Feed{
		clients: make(map[uuid.UUID]*subscriber),
		upgrader: websocket.Upgrader{
			// The feed is public and read-only, like the CORS policy.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Publish stores the snapshot as the latest one and queues it for every client.
func (f *Feed) Publish(s engine.Snapshot) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrEncodeSnapshot, err)
	}
	f.latest.Store(&data)

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, sub := range f.clients {
		select {
		case sub.send <- data:
		default:
			slog.Debug(config.MsgWSDropped,
				config.LogKeyComponent, config.CompFeed,
				config.LogKeyClient, sub.id.String())
		}
	}
	return nil
}

// Clients returns the number of connected stream subscribers.
func (f *Feed) Clients() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.clients)
}

// Close disconnects every subscriber and refuses new ones.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	for id, sub := range f.clients {
		delete(f.clients, id)
		close(sub.send)
	}
}

// serveSnapshot answers the latest snapshot as a JSON document.
func (f *Feed) serveSnapshot(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r) {
		return
	}
	data := f.latest.Load()
	if data == nil {
		notReady(w)
		return
	}

	w.Header().Set(config.HeaderContentType, config.MimeJSON)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlNoStore)
	if r.Method == http.MethodGet {
		if _, err := w.Write(*data); err != nil {
			slog.Error(config.ErrWriteResp,
				config.LogKeyComponent, config.CompFeed,
				config.LogKeyError, err)
		}
	}
}

// serveStream upgrades the request and streams every published snapshot.
func (f *Feed) serveStream(w http.ResponseWriter, r *http.Request) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader already wrote the HTTP error.
		slog.Warn(config.ErrWSUpgrade,
			config.LogKeyComponent, config.CompFeed,
			config.LogKeyError, err)
		return
	}

	sub := &subscriber{
		id:   uuid.New(),
		conn: conn,
		send: make(chan []byte, config.WSSendQueue),
	}
	if !f.register(sub) {
		_ = conn.Close()
		return
	}

	go f.writePump(sub)
	f.readPump(sub)
}

// register adds sub and queues the latest snapshot so the client renders at once.
func (f *Feed) register(sub *subscriber) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return false
	}
	if data := f.latest.Load(); data != nil {
		sub.send <- *data
	}
	f.clients[sub.id] = sub

	slog.Info(config.MsgWSConnected,
		config.LogKeyComponent, config.CompFeed,
		config.LogKeyClient, sub.id.String(),
		config.LogKeyCount, len(f.clients))
	return true
}

func (f *Feed) unregister(sub *subscriber) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.clients[sub.id]; !ok {
		return
	}
	delete(f.clients, sub.id)
	close(sub.send)

	slog.Info(config.MsgWSClosed,
		config.LogKeyComponent, config.CompFeed,
		config.LogKeyClient, sub.id.String(),
		config.LogKeyCount, len(f.clients))
}

// writePump owns every write on the connection.
func (f *Feed) writePump(sub *subscriber) {
	ticker := time.NewTicker(config.WSPingInterval)
	defer func() {
		ticker.Stop()
		_ = sub.conn.Close()
	}()

	for {
		select {
		case data, ok := <-sub.send:
			_ = sub.conn.SetWriteDeadline(time.Now().Add(config.WSWriteTimeout))
			if !ok {
				_ = sub.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := sub.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				slog.Debug(config.ErrWSWrite,
					config.LogKeyComponent, config.CompFeed,
					config.LogKeyClient, sub.id.String(),
					config.LogKeyError, err)
				return
			}
		case <-ticker.C:
			_ = sub.conn.SetWriteDeadline(time.Now().Add(config.WSWriteTimeout))
			if err := sub.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards client messages and detects disconnects through pongs.
func (f *Feed) readPump(sub *subscriber) {
	defer func() {
		f.unregister(sub)
		_ = sub.conn.Close()
	}()

	sub.conn.SetReadLimit(config.WSReadLimit)
	_ = sub.conn.SetReadDeadline(time.Now().Add(config.WSPongTimeout))
	sub.conn.SetPongHandler(func(string) error {
		return sub.conn.SetReadDeadline(time.Now().Add(config.WSPongTimeout))
	})

	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			return
		}
	}
}
