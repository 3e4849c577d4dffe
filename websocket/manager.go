package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"blogview/feed"
)

// Lists resolves the post list a socket searches over.
type Lists interface {
	Lookup(visitor string, kind feed.Kind) (*feed.PostList, bool)
}

type Manager struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
	lists      Lists
}

type Client struct {
	conn    *websocket.Conn
	visitor string
	kind    feed.Kind
	send    chan []byte
	manager *Manager
}

type envelope struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

type inbound struct {
	Type string `json:"type"`
	Term string `json:"term"`
}

func NewManager(lists Lists) *Manager {
	return &Manager{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 16),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		lists:      lists,
	}
}

func (m *Manager) Start() {
	for {
		select {
		case <-m.done:
			m.mu.Lock()
			for client := range m.clients {
				close(client.send)
				delete(m.clients, client)
			}
			m.mu.Unlock()
			return

		case client := <-m.register:
			m.mu.Lock()
			m.clients[client] = true
			n := len(m.clients)
			m.mu.Unlock()
			log.Printf("✅ Search socket registered. Total clients: %d", n)

		case client := <-m.unregister:
			m.mu.Lock()
			if _, ok := m.clients[client]; ok {
				delete(m.clients, client)
				close(client.send)
			}
			n := len(m.clients)
			m.mu.Unlock()
			log.Printf("❌ Search socket unregistered. Total clients: %d", n)

		case message := <-m.broadcast:
			m.mu.Lock()
			for client := range m.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(m.clients, client)
				}
			}
			m.mu.Unlock()
		}
	}
}

func (m *Manager) Stop() {
	close(m.done)
}

// BroadcastFeedChanged tells every open listing that the post set moved on
// so it can offer a refresh.
func (m *Manager) BroadcastFeedChanged(action, postID string) {
	msg, err := json.Marshal(envelope{
		Type: "feed_changed",
		Payload: map[string]interface{}{
			"action": action,
			"postId": postID,
			"time":   time.Now().Unix(),
		},
	})
	if err != nil {
		log.Printf("❌ Error marshaling feed change: %v", err)
		return
	}

	select {
	case m.broadcast <- msg:
	case <-m.done:
	}
}

func (m *Manager) ConnectedClients() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Serve upgrades the request into a search socket over the visitor's list
// of the given kind.
func (m *Manager) Serve(w http.ResponseWriter, r *http.Request, visitor string, kind feed.Kind) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("❌ WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		conn:    conn,
		visitor: visitor,
		kind:    kind,
		send:    make(chan []byte, 64),
		manager: m,
	}

	select {
	case m.register <- client:
	case <-m.done:
		conn.Close()
		return
	}
	client.reply(envelope{Type: "connected", Payload: map[string]interface{}{
		"feed": string(kind),
		"time": time.Now().Unix(),
	}})

	go client.writePump()
	go client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.manager.unregister <- c:
		case <-c.manager.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(1024)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("❌ WebSocket read error: %v", err)
			}
			break
		}

		var in inbound
		if err := json.Unmarshal(message, &in); err != nil {
			log.Printf("❌ WebSocket message unmarshal error: %v", err)
			continue
		}

		switch in.Type {
		case "search":
			c.handleSearch(in.Term)
		case "ping":
			c.reply(envelope{Type: "pong", Payload: map[string]interface{}{"time": time.Now().Unix()}})
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleSearch narrows the visitor's already loaded list. The backend is
// never consulted.
func (c *Client) handleSearch(term string) {
	list, ok := c.manager.lists.Lookup(c.visitor, c.kind)
	if !ok {
		c.reply(envelope{Type: "error", Payload: map[string]interface{}{
			"message": "Nothing loaded to search, reload the page",
		}})
		return
	}

	list.SetSearchTerm(term)
	ids := list.FilteredIDs()
	c.reply(envelope{Type: "results", Payload: map[string]interface{}{
		"term":  term,
		"ids":   ids,
		"count": len(ids),
		"total": len(list.Snapshot().Posts),
	}})
}

func (c *Client) reply(e envelope) {
	msg, err := json.Marshal(e)
	if err != nil {
		log.Printf("❌ Error marshaling %s: %v", e.Type, err)
		return
	}
	defer func() {
		// send may already be closed by the hub
		recover()
	}()
	select {
	case c.send <- msg:
	default:
		log.Printf("⚠️ Dropping %s for slow search socket", e.Type)
	}
}
