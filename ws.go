package main

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	clientSendSize = 8
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// figureMessage is sent to the page; clientMessage is what the page sends back.
type figureMessage struct {
	Type   string `json:"type"`
	Figure Figure `json:"figure"`
}

type clientMessage struct {
	Type   string          `json:"type"`
	Data   json.RawMessage `json:"data,omitempty"`
	Colors []string        `json:"colors,omitempty"`
}

// wsClient queues outgoing frames; only its writePump touches the conn for writing.
type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

type wsHub struct {
	mu      sync.Mutex
	clients map[*wsClient]struct{}
}

func newHub() *wsHub {
	return &wsHub{clients: make(map[*wsClient]struct{})}
}

func encodeFigure(fig Figure) ([]byte, error) {
	return json.Marshal(figureMessage{Type: "figure", Figure: fig})
}

// add registers c and queues the figure returned by initial, if any. Both
// happen under the hub lock so a concurrent broadcast lands after it.
func (h *wsHub) add(c *wsClient, initial func() (Figure, bool)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if fig, ok := initial(); ok {
		if data, err := encodeFigure(fig); err == nil {
			c.send <- data
		} else {
			log.Printf("figure encode error: %v", err)
		}
	}
	h.clients[c] = struct{}{}
}

func (h *wsHub) remove(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// broadcast never blocks on a client. A client whose queue is full is dropped.
func (h *wsHub) broadcast(fig Figure) {
	data, err := encodeFigure(fig)
	if err != nil {
		log.Printf("figure encode error: %v", err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			log.Printf("ws client too slow, dropping")
			delete(h.clients, c)
			close(c.send)
		}
	}
}

func (s *server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade error: %v", err)
		return
	}
	c := &wsClient{conn: conn, send: make(chan []byte, clientSendSize)}
	// A fresh page gets the last good figure right away instead of waiting a full interval.
	s.hub.add(c, s.poll.lastFigure)
	go writePump(c)
	go s.readPump(c)
}

func writePump(c *wsClient) {
	defer c.conn.Close()
	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

func (s *server) readPump(c *wsClient) {
	defer func() {
		s.hub.remove(c)
		_ = c.conn.Close()
	}()
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		s.handleClientMessage(data)
	}
}

func (s *server) handleClientMessage(data []byte) {
	var msg clientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Printf("ws message decode error: %v", err)
		return
	}
	switch msg.Type {
	case "relayout":
		vp, err := ViewportFromRelayout(msg.Data)
		if err != nil {
			log.Printf("relayout error: %v", err)
			return
		}
		s.view.setViewport(vp)
	case "palette":
		s.view.setPalette(msg.Colors)
		log.Printf("palette changed: %d colors", len(msg.Colors))
		s.poll.requestRefresh()
	default:
		log.Printf("ws message ignored: type %q", msg.Type)
	}
}
