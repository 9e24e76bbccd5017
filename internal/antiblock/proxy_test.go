package antiblock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProxyManager_RoundRobin(t *testing.T) {
	m := NewProxyManager([]string{"a:1", "b:2", "c:3"})

	var got []string
	for i := 0; i < 4; i++ {
		p, ok := m.Next()
		assert.True(t, ok)
		got = append(got, p)
	}
	assert.Equal(t, []string{"a:1", "b:2", "c:3", "a:1"}, got)
}

func TestProxyManager_SkipsFailed(t *testing.T) {
	m := NewProxyManager([]string{"a:1", "b:2", "c:3"})
	m.MarkFailed("b:2")
	assert.Equal(t, 2, m.Healthy())

	var got []string
	for i := 0; i < 3; i++ {
		p, _ := m.Next()
		got = append(got, p)
	}
	assert.Equal(t, []string{"a:1", "c:3", "a:1"}, got)
}

func TestProxyManager_ResetsWhenAllFailed(t *testing.T) {
	m := NewProxyManager([]string{"a:1", "b:2"})
	m.MarkFailed("a:1")
	m.MarkFailed("b:2")

	p, ok := m.Next()
	assert.True(t, ok)
	assert.Equal(t, "a:1", p)
	assert.Equal(t, 2, m.Healthy())
}

func TestProxyManager_Empty(t *testing.T) {
	m := NewProxyManager(nil)
	_, ok := m.Next()
	assert.False(t, ok)
}
