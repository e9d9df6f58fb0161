package link

import (
	"context"
	"testing"
	"time"

	"github.com/leg100/rawlink/internal"
	"github.com/leg100/rawlink/internal/item"
	"github.com/leg100/rawlink/internal/logr"
	"github.com/stretchr/testify/require"
)

var (
	testSecret = []byte("test-secret-0123456789")
	testTime   = time.Unix(1_700_000_000, 0)
)

type fakeItems map[string]*item.Item

func (f fakeItems) Get(_ context.Context, id string) (*item.Item, error) {
	it, ok := f[id]
	if !ok {
		return nil, internal.ErrResourceNotFound
	}
	return it, nil
}

func newFakeItems() fakeItems {
	return fakeItems{
		"abc123": {ID: "abc123", Content: []byte("print(1)"), Token: "tok_xyz"},
		"def456": {ID: "def456", Content: []byte("print(2)"), Token: "tok_abc"},
	}
}

// clock is a settable clock for tests.
type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestService(t *testing.T, opts Options) (*Service, *clock) {
	t.Helper()

	clk := &clock{t: testTime}
	if opts.Items == nil {
		opts.Items = newFakeItems()
	}
	if opts.Secret == nil {
		opts.Secret = testSecret
	}
	if opts.OriginPolicy == nil {
		opts.OriginPolicy = PrefixPolicy("roblox")
	}
	opts.Logger = logr.Discard()
	opts.Clock = clk.now
	svc, err := NewService(opts)
	require.NoError(t, err)
	return svc, clk
}
