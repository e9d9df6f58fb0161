package item

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	item, err := New([]byte("print(1)"))
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{8}$`), item.ID)
	assert.Regexp(t, regexp.MustCompile(`^[A-Za-z0-9_-]{16}$`), item.Token)
	assert.Equal(t, "print(1)", string(item.Content))
	assert.False(t, item.CreatedAt.IsZero())

	other, err := New([]byte("print(1)"))
	require.NoError(t, err)
	assert.NotEqual(t, item.ID, other.ID)
	assert.NotEqual(t, item.Token, other.Token)
}
