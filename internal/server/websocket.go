package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/boxes/internal/logging"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// sendBuffer is how many changes a slow watcher may fall behind by
	// before it is disconnected.
	sendBuffer = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Watchers are editors on other machines, not browsers.
	CheckOrigin: func(*http.Request) bool { return true },
}

// watcher is one websocket following a handle.
type watcher struct {
	handle string
	conn   *websocket.Conn
	send   chan string
}

// Hub fans accepted changes out to the watchers of each handle.
type Hub struct {
	mu       sync.Mutex
	watchers map[string]map[*watcher]struct{}
	wg       sync.WaitGroup
	closed   bool
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{watchers: make(map[string]map[*watcher]struct{})}
}

func (h *Hub) add(w *watcher) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	set, ok := h.watchers[w.handle]
	if !ok {
		set = make(map[*watcher]struct{})
		h.watchers[w.handle] = set
	}
	set[w] = struct{}{}
	h.wg.Add(1)
	return true
}

func (h *Hub) remove(w *watcher) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.watchers[w.handle]
	if _, ok := set[w]; !ok {
		return
	}
	delete(set, w)
	close(w.send)
	if len(set) == 0 {
		delete(h.watchers, w.handle)
	}
}

// Count returns the number of watchers following handle.
func (h *Hub) Count(handle string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.watchers[handle])
}

// Broadcast queues stored for every watcher of handle. Watchers whose
// buffer is full are dropped.
func (h *Hub) Broadcast(handle, stored string) {
	h.mu.Lock()
	var slow []*watcher
	for w := range h.watchers[handle] {
		select {
		case w.send <- stored:
		default:
			slow = append(slow, w)
		}
	}
	h.mu.Unlock()

	for _, w := range slow {
		logging.Warn("Dropping slow watcher",
			zap.String("handle", handle),
			zap.String("remote_addr", w.conn.RemoteAddr().String()),
		)
		h.remove(w)
	}
	logging.LogWatchEvent(handle, "broadcast")
}

// Serve upgrades r to a websocket and streams changes to handle, starting
// with its current string in docs when it is hosted. It returns when the
// connection ends.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, handle string, docs *Documents) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error("WebSocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}
	remoteAddr := conn.RemoteAddr().String()

	wt := &watcher{handle: handle, conn: conn, send: make(chan string, sendBuffer)}
	added := false
	docs.Watch(handle, func(current string) {
		if current != "" {
			wt.send <- current
		}
		added = h.add(wt)
	})
	if !added {
		conn.Close()
		return
	}
	logging.LogConnection(remoteAddr, "watch_opened")

	defer h.wg.Done()
	defer func() {
		h.remove(wt)
		_ = conn.Close()
		logging.LogConnection(remoteAddr, "watch_closed")
	}()

	go h.readPump(wt)
	h.writePump(wt)
}

// readPump discards client messages and keeps the read deadline alive.
// Closing the connection unblocks writePump through remove.
func (h *Hub) readPump(w *watcher) {
	defer h.remove(w)
	_ = w.conn.SetReadDeadline(time.Now().Add(pongWait))
	w.conn.SetPongHandler(func(string) error {
		return w.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		msgType, data, err := w.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.Debug("Watch read ended", zap.String("handle", w.handle), zap.Error(err))
			}
			return
		}
		logging.LogWebSocketMessage(w.conn.RemoteAddr().String(), "recv", msgType, data)
	}
}

func (h *Hub) writePump(w *watcher) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case stored, ok := <-w.send:
			_ = w.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = w.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := w.conn.WriteMessage(websocket.TextMessage, []byte(stored)); err != nil {
				return
			}
			logging.LogWebSocketMessage(w.conn.RemoteAddr().String(), "send", websocket.TextMessage, []byte(stored))
		case <-ticker.C:
			_ = w.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := w.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Close disconnects every watcher and waits for their handlers to return.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	var all []*watcher
	for _, set := range h.watchers {
		for w := range set {
			all = append(all, w)
		}
	}
	h.mu.Unlock()

	for _, w := range all {
		h.remove(w)
	}
	h.wg.Wait()
}
