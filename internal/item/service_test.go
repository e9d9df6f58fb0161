package item

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/leg100/rawlink/internal"
	"github.com/leg100/rawlink/internal/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu    sync.Mutex
	items map[string]*Item
	// collisions is the number of Put calls that report an existing ID.
	collisions int
}

func newFakeStore() *fakeStore {
	return &fakeStore{items: make(map[string]*Item)}
}

func (f *fakeStore) Get(_ context.Context, id string) (*Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	item, ok := f.items[id]
	if !ok {
		return nil, internal.ErrResourceNotFound
	}
	return item, nil
}

func (f *fakeStore) Put(_ context.Context, item *Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.collisions > 0 {
		f.collisions--
		return internal.ErrResourceAlreadyExists
	}
	if _, ok := f.items[item.ID]; ok {
		return internal.ErrResourceAlreadyExists
	}
	f.items[item.ID] = item
	return nil
}

func (f *fakeStore) List(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ids := make([]string, 0, len(f.items))
	for id := range f.items {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

type fakeSharer struct{}

func (fakeSharer) IssueURL(_ *http.Request, id string) (string, error) {
	return "https://links.example.com/signed/" + id, nil
}

func newTestService(store Store, maxUploadSize int64) *Service {
	return NewService(Options{
		Logger:        logr.Discard(),
		Store:         store,
		Sharer:        fakeSharer{},
		MaxUploadSize: maxUploadSize,
	})
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("create", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store, 0)

		item, err := svc.Create(ctx, []byte("print(1)"))
		require.NoError(t, err)

		got, err := svc.Get(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, item, got)
	})

	t.Run("empty", func(t *testing.T) {
		svc := newTestService(newFakeStore(), 0)

		_, err := svc.Create(ctx, nil)
		assert.ErrorIs(t, err, internal.ErrEmptyUpload)
	})

	t.Run("regenerates colliding id", func(t *testing.T) {
		store := newFakeStore()
		store.collisions = maxCreateAttempts - 1
		svc := newTestService(store, 0)

		_, err := svc.Create(ctx, []byte("print(1)"))
		require.NoError(t, err)
	})

	t.Run("gives up after repeated collisions", func(t *testing.T) {
		store := newFakeStore()
		store.collisions = maxCreateAttempts
		svc := newTestService(store, 0)

		_, err := svc.Create(ctx, []byte("print(1)"))
		assert.ErrorIs(t, err, internal.ErrResourceAlreadyExists)
	})
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeStore(), 0)

	var want []string
	for i := range 3 {
		item, err := svc.Create(ctx, fmt.Appendf(nil, "print(%d)", i))
		require.NoError(t, err)
		want = append(want, item.ID)
	}
	slices.Sort(want)

	got, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestAPI(t *testing.T) {
	store := newFakeStore()
	r := mux.NewRouter()
	newTestService(store, 16).AddHandlers(r)

	t.Run("upload", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("POST", "/api/v1/items", bytes.NewBufferString("print(1)")))
		require.Equal(t, 201, w.Code, w.Body.String())

		var resp CreateResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "https://links.example.com/signed/"+resp.ID, resp.IssueURL)

		item, err := store.Get(context.Background(), resp.ID)
		require.NoError(t, err)
		assert.Equal(t, resp.Token, item.Token)
		assert.Equal(t, "print(1)", string(item.Content))
	})

	t.Run("upload too large", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("POST", "/api/v1/items", bytes.NewBufferString("print('way too long')")))
		assert.Equal(t, 413, w.Code)
	})

	t.Run("upload empty", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("POST", "/api/v1/items", nil))
		assert.Equal(t, 400, w.Code)
	})

	t.Run("list", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/items", nil))
		require.Equal(t, 200, w.Code)

		var resp ListResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Len(t, resp.Items, 1)
	})
}

func TestAPI_ListEmpty(t *testing.T) {
	r := mux.NewRouter()
	newTestService(newFakeStore(), 0).AddHandlers(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/items", nil))
	require.Equal(t, 200, w.Code)
	assert.JSONEq(t, `{"items":[]}`, w.Body.String())
}
