package mypubsub

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFakePubSub(t *testing.T) {
	c := context.TODO()
	ps := NewFakePubSub()

	t.Run("create topic is idempotent", func(t *testing.T) {
		assert.NoError(t, ps.CreateTopic(c, "payment"))
		assert.NoError(t, ps.CreateTopic(c, "payment"))
		assert.Empty(t, ps.Published("payment"))
	})

	t.Run("published in order", func(t *testing.T) {
		assert.NoError(t, ps.Publish(c, "payment", "first"))
		assert.NoError(t, ps.Publish(c, "payment", "second"))
		assert.Equal(t, []string{"first", "second"}, ps.Published("payment"))
		assert.Empty(t, ps.Published("other"))
	})
}
