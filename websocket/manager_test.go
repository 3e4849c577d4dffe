package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"blogview/feed"
	"blogview/models"
)

type staticBackend struct{ posts []models.Post }

func (b staticBackend) AllPosts(ctx context.Context) ([]models.Post, error) { return b.posts, nil }
func (b staticBackend) UserPosts(ctx context.Context, userID string) (string, []models.Post, error) {
	return "", b.posts, nil
}
func (b staticBackend) DeletePost(ctx context.Context, postID string) error { return nil }

type message struct {
	Type    string                 `json:"type"`
	Payload map[string]interface{} `json:"payload"`
}

func dial(t *testing.T, m *Manager, visitor string) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.Serve(w, r, visitor, feed.KindAll)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn, want string) message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		var msg message
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read %s: %v", want, err)
		}
		if msg.Type == want {
			return msg
		}
	}
}

func TestSearch_PushesFilteredIDs(t *testing.T) {
	backend := staticBackend{posts: []models.Post{
		{ID: "1", Title: "Ocean"},
		{ID: "2", Title: "Mountain Trail"},
		{ID: "3", Title: "ocean breeze"},
	}}
	reg := feed.NewRegistry(backend, feed.Options{})
	if err := reg.Feed("v1").Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	m := NewManager(reg)
	go m.Start()
	defer m.Stop()

	conn := dial(t, m, "v1")
	read(t, conn, "connected")

	if err := conn.WriteJSON(map[string]string{"type": "search", "term": "OCEAN"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	msg := read(t, conn, "results")

	ids, _ := msg.Payload["ids"].([]interface{})
	if len(ids) != 2 || ids[0] != "1" || ids[1] != "3" {
		t.Fatalf("unexpected ids %v", msg.Payload["ids"])
	}
	if got := reg.Feed("v1").Snapshot().Term; got != "OCEAN" {
		t.Fatalf("term not stored on the list: %q", got)
	}
}

func TestSearch_NothingLoaded(t *testing.T) {
	m := NewManager(feed.NewRegistry(staticBackend{}, feed.Options{}))
	go m.Start()
	defer m.Stop()

	conn := dial(t, m, "ghost")
	read(t, conn, "connected")
	conn.WriteJSON(map[string]string{"type": "search", "term": "x"})
	read(t, conn, "error")
}

func TestBroadcastFeedChanged(t *testing.T) {
	m := NewManager(feed.NewRegistry(staticBackend{}, feed.Options{}))
	go m.Start()
	defer m.Stop()

	conn := dial(t, m, "v1")
	read(t, conn, "connected")

	m.BroadcastFeedChanged("deleted", "p1")
	msg := read(t, conn, "feed_changed")
	if msg.Payload["action"] != "deleted" || msg.Payload["postId"] != "p1" {
		t.Fatalf("unexpected payload %v", msg.Payload)
	}
}

func TestSearch_WideningReturnsEveryLoadedPost(t *testing.T) {
	backend := staticBackend{posts: []models.Post{
		{ID: "1", Title: "Ocean"},
		{ID: "2", Title: "Mountain Trail"},
		{ID: "3", Title: "ocean breeze"},
	}}
	reg := feed.NewRegistry(backend, feed.Options{})
	list := reg.Feed("v1")
	list.SetSearchTerm("ocean")
	if err := list.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	m := NewManager(reg)
	go m.Start()
	defer m.Stop()

	conn := dial(t, m, "v1")
	read(t, conn, "connected")
	conn.WriteJSON(map[string]string{"type": "search", "term": ""})
	msg := read(t, conn, "results")

	ids, _ := msg.Payload["ids"].([]interface{})
	if len(ids) != 3 {
		t.Fatalf("clearing the search should return all posts, got %v", msg.Payload["ids"])
	}
	if total, _ := msg.Payload["total"].(float64); total != 3 {
		t.Fatalf("total = %v, want 3", msg.Payload["total"])
	}
}

func TestConnectedClients(t *testing.T) {
	m := NewManager(feed.NewRegistry(staticBackend{}, feed.Options{}))
	go m.Start()
	defer m.Stop()

	conn := dial(t, m, "v1")
	read(t, conn, "connected")

	deadline := time.Now().Add(time.Second)
	for m.ConnectedClients() != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("ConnectedClients = %d, want 1", m.ConnectedClients())
		}
		time.Sleep(10 * time.Millisecond)
	}
}
