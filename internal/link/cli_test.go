package link

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/leg100/rawlink/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShareCommand(t *testing.T) {
	t.Run("unsigned", func(t *testing.T) {
		cmd := (&CLI{client: &fakeCLIClient{}}).shareCommand()
		cmd.SetArgs([]string{"abc123"})
		got := bytes.Buffer{}
		cmd.SetOut(&got)
		require.NoError(t, cmd.Execute())
		assert.Equal(t, "http://localhost:10000/signed/abc123\n", got.String())
	})

	t.Run("signed", func(t *testing.T) {
		expiry := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
		cmd := (&CLI{client: &fakeCLIClient{expiresAt: &expiry}}).shareCommand()
		cmd.SetArgs([]string{"abc123"})
		got, stderr := bytes.Buffer{}, bytes.Buffer{}
		cmd.SetOut(&got)
		cmd.SetErr(&stderr)
		require.NoError(t, cmd.Execute())
		assert.Equal(t, "Expires at 2026-10-18 12:00:00 UTC\n", stderr.String())
	})

	t.Run("missing id", func(t *testing.T) {
		cmd := (&CLI{client: &fakeCLIClient{}}).shareCommand()
		cmd.SetArgs([]string{})
		err := cmd.Execute()
		assert.EqualError(t, err, "accepts 1 arg(s), received 0")
	})
}

func TestFetchCommand(t *testing.T) {
	t.Run("default identity", func(t *testing.T) {
		client := &fakeCLIClient{}
		cmd := (&CLI{client: client}).fetchCommand()
		cmd.SetArgs([]string{"abc123"})
		got := bytes.Buffer{}
		cmd.SetOut(&got)
		require.NoError(t, cmd.Execute())

		assert.Equal(t, "print(1)", got.String())
		assert.Equal(t, "User-Agent", client.header)
		assert.Equal(t, DefaultClientIdentity, client.identity)
	})

	t.Run("custom identity", func(t *testing.T) {
		client := &fakeCLIClient{}
		cmd := (&CLI{client: client}).fetchCommand()
		cmd.SetArgs([]string{"abc123", "--client-identity", "RobloxStudio", "--client-identity-header", "X-Client"})
		cmd.SetOut(&bytes.Buffer{})
		require.NoError(t, cmd.Execute())

		assert.Equal(t, "X-Client", client.header)
		assert.Equal(t, "RobloxStudio", client.identity)
	})

	t.Run("unknown item", func(t *testing.T) {
		cmd := (&CLI{client: &fakeCLIClient{}}).fetchCommand()
		cmd.SetArgs([]string{"nope"})
		err := cmd.Execute()
		assert.ErrorIs(t, err, internal.ErrResourceNotFound)
	})
}

type fakeCLIClient struct {
	expiresAt *time.Time
	header    string
	identity  string
}

func (f *fakeCLIClient) Share(_ context.Context, id string) (*ShareResponse, error) {
	if id != "abc123" {
		return nil, internal.ErrResourceNotFound
	}
	return &ShareResponse{
		ID:        id,
		IssueURL:  "http://localhost:10000/signed/" + id,
		ExpiresAt: f.expiresAt,
	}, nil
}

func (f *fakeCLIClient) Issue(context.Context, string) (string, string, error) {
	rawURL := "http://localhost:10000/raw/abc123?token=tok_xyz&ts=1700000000&sig=00"
	return `loadstring(game:HttpGet("` + rawURL + `"))()`, rawURL, nil
}

func (f *fakeCLIClient) Fetch(_ context.Context, _, header, identity string) ([]byte, error) {
	f.header = header
	f.identity = identity
	return []byte("print(1)"), nil
}
