package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEventKey(t *testing.T) {
	assert.Equal(t, "events:id:42", EventKey(42))
	assert.NotEqual(t, EventKey(1), EventListKey)
}

func TestConfigEnabled(t *testing.T) {
	assert.False(t, Config{}.Enabled())
	assert.True(t, Config{Addr: "localhost:6379"}.Enabled())
}

func TestTTLSeconds(t *testing.T) {
	assert.Equal(t, "60", ttlSeconds(time.Minute))
	assert.Equal(t, "1", ttlSeconds(200*time.Millisecond))
}
