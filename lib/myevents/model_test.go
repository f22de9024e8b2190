package myevents

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEventEnvelope(t *testing.T) {
	t.Run("push request", func(t *testing.T) {
		envelope := EventEnvelope{
			UID:           "123",
			Topic:         "payment",
			AggregateUID:  "s1",
			EventTypeName: "payment.started",
			EventPayload:  `{"SessionUID":"s1"}`,
		}
		data, _ := json.Marshal(envelope)
		body, _ := json.Marshal(PushRequest{Message: PushMessage{Data: data}, Subscription: "payment"})

		parsed, err := ParseEventEnvelope(strings.NewReader(string(body)))

		assert.NoError(t, err)
		assert.Equal(t, envelope, parsed)
		assert.Equal(t, "payment.payment.started.s1", parsed.String())
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ParseEventEnvelope(strings.NewReader("{"))

		assert.Error(t, err)
	})
}
