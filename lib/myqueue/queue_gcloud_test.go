package myqueue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComposeTaskName(t *testing.T) {
	t.Setenv("GOOGLE_CLOUD_PROJECT", "zappay-prod")
	t.Setenv("LOCATION_ID", "europe-west1")
	t.Setenv("QUEUE_NAME", "")

	assert.Equal(t, "projects/zappay-prod/locations/europe-west1/queues/default", composeQueueName())
	assert.Equal(t, "projects/zappay-prod/locations/europe-west1/queues/default/tasks/abc", composeTaskName("abc"))
}
