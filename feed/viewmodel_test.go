package feed

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"blogview/models"
)

type fakeBackend struct {
	mu        sync.Mutex
	posts     []models.Post
	username  string
	err       error
	deleteErr error
	deleted   []string
	calls     int
}

func (f *fakeBackend) AllPosts(ctx context.Context) ([]models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.Post(nil), f.posts...), nil
}

func (f *fakeBackend) UserPosts(ctx context.Context, userID string) (string, []models.Post, error) {
	posts, err := f.AllPosts(ctx)
	if err != nil {
		return "", nil, err
	}
	var mine []models.Post
	for _, p := range posts {
		if p.Author.ID == userID {
			mine = append(mine, p)
		}
	}
	return f.username, mine, nil
}

func (f *fakeBackend) DeletePost(ctx context.Context, postID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, postID)
	f.posts = without(f.posts, postID)
	return nil
}

func TestLoad_ReplacesCollections(t *testing.T) {
	backend := &fakeBackend{posts: samplePosts()}
	list := New(AllPosts(backend), backend, Options{})

	if err := list.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	st := list.Snapshot()
	equalIDs(t, st.Posts, "1", "2", "3")
	equalIDs(t, st.Filtered, "1", "2", "3")
	if st.Loading || !st.Loaded || st.Err != nil {
		t.Fatalf("unexpected flags: %+v", st)
	}
}

func TestLoad_FirstFailureLeavesEmpty(t *testing.T) {
	backend := &fakeBackend{err: errors.New("boom")}
	list := New(AllPosts(backend), backend, Options{})

	if err := list.Load(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	st := list.Snapshot()
	if len(st.Posts) != 0 || len(st.Filtered) != 0 {
		t.Fatalf("expected empty collections, got %d/%d", len(st.Posts), len(st.Filtered))
	}
	if st.Loading {
		t.Fatal("loading indicator not cleared")
	}
	if st.Err == nil {
		t.Fatal("error indicator not set")
	}
	if backend.calls != 1 {
		t.Fatalf("expected no retry, got %d calls", backend.calls)
	}
}

func TestLoad_FailureKeepsPrevious(t *testing.T) {
	backend := &fakeBackend{posts: samplePosts()}
	list := New(AllPosts(backend), backend, Options{})
	list.Load(context.Background())

	backend.err = errors.New("down")
	if err := list.Refresh(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	st := list.Snapshot()
	equalIDs(t, st.Posts, "1", "2", "3")
	if st.Err == nil {
		t.Fatal("error indicator not set")
	}
}

func TestLoad_AppliesCurrentTerm(t *testing.T) {
	backend := &fakeBackend{posts: samplePosts()}
	list := New(AllPosts(backend), backend, Options{})
	list.SetSearchTerm("ocean")
	list.Load(context.Background())

	equalIDs(t, list.Snapshot().Filtered, "1", "3")
}

func TestSetSearchTerm_RecomputesWithoutFetch(t *testing.T) {
	backend := &fakeBackend{posts: samplePosts()}
	list := New(AllPosts(backend), backend, Options{})
	list.Load(context.Background())

	list.SetSearchTerm("o")
	list.SetSearchTerm("oc")
	list.SetSearchTerm("ocean")
	equalIDs(t, list.Snapshot().Filtered, "1", "3")

	list.SetSearchTerm("")
	equalIDs(t, list.Snapshot().Filtered, "1", "2", "3")

	if backend.calls != 1 {
		t.Fatalf("search hit the backend: %d calls", backend.calls)
	}
}

// gatedSource hands out responses only when the test releases them.
type gatedSource struct {
	mu    sync.Mutex
	gates []chan Result
}

func (g *gatedSource) Fetch(ctx context.Context) (Result, error) {
	ch := make(chan Result, 1)
	g.mu.Lock()
	g.gates = append(g.gates, ch)
	g.mu.Unlock()
	return <-ch, nil
}

func (g *gatedSource) waitFor(t *testing.T, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		g.mu.Lock()
		got := len(g.gates)
		g.mu.Unlock()
		if got >= n {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d fetches", n)
}

func (g *gatedSource) release(i int, r Result) {
	g.mu.Lock()
	ch := g.gates[i]
	g.mu.Unlock()
	ch <- r
}

func TestRefresh_StaleResponseDiscarded(t *testing.T) {
	src := &gatedSource{}
	list := New(src, &fakeBackend{}, Options{})

	first := make(chan error, 1)
	go func() { first <- list.Load(context.Background()) }()
	src.waitFor(t, 1)

	second := make(chan error, 1)
	go func() { second <- list.Refresh(context.Background()) }()
	src.waitFor(t, 2)

	newer := samplePosts()[:1]
	older := samplePosts()

	src.release(1, Result{Posts: newer})
	if err := <-second; err != nil {
		t.Fatalf("latest refresh: %v", err)
	}
	src.release(0, Result{Posts: older})
	if err := <-first; !errors.Is(err, ErrStale) {
		t.Fatalf("expected ErrStale, got %v", err)
	}

	equalIDs(t, list.Snapshot().Posts, "1")
}

func TestClose_LateResponseIgnored(t *testing.T) {
	src := &gatedSource{}
	list := New(src, &fakeBackend{}, Options{})

	done := make(chan error, 1)
	go func() { done <- list.Load(context.Background()) }()
	src.waitFor(t, 1)

	list.Close()
	src.release(0, Result{Posts: samplePosts()})

	if err := <-done; !errors.Is(err, ErrStale) {
		t.Fatalf("expected ErrStale, got %v", err)
	}
	if n := len(list.Snapshot().Posts); n != 0 {
		t.Fatalf("closed list was mutated: %d posts", n)
	}
	if err := list.Load(context.Background()); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestRemove_SplicesLocally(t *testing.T) {
	backend := &fakeBackend{posts: samplePosts()}
	list := New(AllPosts(backend), backend, Options{})
	list.Load(context.Background())
	list.SetSearchTerm("ocean")

	if err := list.Remove(context.Background(), "3"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	st := list.Snapshot()
	equalIDs(t, st.Posts, "1", "2")
	equalIDs(t, st.Filtered, "1")
	if backend.calls != 1 {
		t.Fatalf("local remove should not refetch, got %d calls", backend.calls)
	}
}

func TestRemove_FailureLeavesListUnchanged(t *testing.T) {
	backend := &fakeBackend{posts: samplePosts(), deleteErr: errors.New("nope")}
	list := New(AllPosts(backend), backend, Options{})
	list.Load(context.Background())

	if err := list.Remove(context.Background(), "2"); err == nil {
		t.Fatal("expected error")
	}
	equalIDs(t, list.Snapshot().Posts, "1", "2", "3")
	if backend.calls != 1 {
		t.Fatalf("failed delete triggered a reload: %d calls", backend.calls)
	}
}

func TestRemove_ReloadOnRemove(t *testing.T) {
	backend := &fakeBackend{posts: samplePosts()}
	list := New(AllPosts(backend), backend, Options{ReloadOnRemove: true})
	list.Load(context.Background())

	if err := list.Remove(context.Background(), "1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if backend.calls != 2 {
		t.Fatalf("expected a reload, got %d calls", backend.calls)
	}
	equalIDs(t, list.Snapshot().Posts, "2", "3")
}

func TestUserPosts_CarriesUsername(t *testing.T) {
	backend := &fakeBackend{posts: samplePosts(), username: "ana"}
	list := New(UserPosts(backend, "u1"), backend, Options{})
	list.Load(context.Background())

	st := list.Snapshot()
	if st.Username != "ana" {
		t.Fatalf("expected username ana, got %q", st.Username)
	}
	equalIDs(t, st.Posts, "1", "3")
}
