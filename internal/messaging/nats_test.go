package messaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigEnabled(t *testing.T) {
	assert.False(t, Config{ClusterID: "techzeon"}.Enabled())
	assert.True(t, Config{URL: "nats://localhost:4222"}.Enabled())
}

func TestCloseWithoutConnection(t *testing.T) {
	assert.NoError(t, (&NATSClient{}).Close())
}
