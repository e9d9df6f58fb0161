package internal

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeMap(t *testing.T) {
	m := NewSafeMap[string, int]()

	assert.True(t, m.SetIfAbsent("a", 1))
	assert.False(t, m.SetIfAbsent("a", 2))

	got, ok := m.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, got)

	m.Set("b", 3)
	assert.ElementsMatch(t, []string{"a", "b"}, m.Keys())
	assert.Equal(t, 2, m.Len())
}

func TestSafeMap_Concurrent(t *testing.T) {
	m := NewSafeMap[string, int]()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			m.Set(fmt.Sprint(i), i)
		}()
		go func() {
			defer wg.Done()
			m.Get(fmt.Sprint(i))
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, m.Len())
}
