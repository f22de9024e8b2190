package mypublisher

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/zaptech/zappay/lib/myevents"
	"github.com/zaptech/zappay/lib/mypubsub"
	"github.com/zaptech/zappay/lib/myqueue"
	"github.com/zaptech/zappay/lib/mystore"
	"github.com/zaptech/zappay/lib/mytime"
)

type somethingHappened struct {
	SessionUID string
	Value      int
}

func (e somethingHappened) GetEventTypeName() string { return "something.happened" }
func (e somethingHappened) GetAggregateName() string { return e.SessionUID }

func TestPublisher(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c := context.TODO()

	setup := func() (*mux.Router, *TransactionalPublisher, *mystore.InMemoryStore[myevents.EventEnvelope], *mypubsub.FakePubSub, *myqueue.MockTaskQueuer) {
		nower := mytime.NewMockNower(ctrl)
		nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()
		queue := myqueue.NewMockTaskQueuer(ctrl)
		outbox, _, _ := mystore.NewInMemoryStore[myevents.EventEnvelope](c)
		pubsub := mypubsub.NewFakePubSub()

		sut := NewWithOutbox(outbox, pubsub, queue, nower)
		router := mux.NewRouter()
		err := sut.RegisterEndpoints(c, router)
		assert.NoError(t, err)

		return router, sut, outbox, pubsub, queue
	}

	t.Run("publish stores in outbox and enqueues trigger", func(t *testing.T) {
		// given
		_, sut, outbox, pubsub, queue := setup()
		queue.EXPECT().Enqueue(gomock.Any(), gomock.Any()).DoAndReturn(func(c context.Context, task myqueue.Task) error {
			assert.Equal(t, "/pubsub/payment/"+task.UID, task.WebhookURLPath)
			return nil
		})

		// when
		err := sut.Publish(c, "payment", somethingHappened{SessionUID: "abc", Value: 1})

		// then
		assert.NoError(t, err)
		envelopes, err := outbox.List(c)
		assert.NoError(t, err)
		assert.Len(t, envelopes, 1)
		assert.Equal(t, "payment", envelopes[0].Topic)
		assert.Equal(t, "abc", envelopes[0].AggregateUID)
		assert.Equal(t, "something.happened", envelopes[0].EventTypeName)
		assert.Equal(t, `{"SessionUID":"abc","Value":1}`, envelopes[0].EventPayload)
		assert.False(t, envelopes[0].Published)
		assert.Empty(t, pubsub.Published("payment"))
	})

	t.Run("same event twice is stored once", func(t *testing.T) {
		// given
		_, sut, outbox, _, queue := setup()
		queue.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Return(nil).Times(2)

		// when
		assert.NoError(t, sut.Publish(c, "payment", somethingHappened{SessionUID: "abc", Value: 1}))
		assert.NoError(t, sut.Publish(c, "payment", somethingHappened{SessionUID: "abc", Value: 1}))

		// then
		envelopes, err := outbox.List(c)
		assert.NoError(t, err)
		assert.Len(t, envelopes, 1)
	})

	t.Run("trigger moves outbox to pubsub", func(t *testing.T) {
		// given
		router, sut, outbox, pubsub, queue := setup()
		queue.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Return(nil).Times(2)
		assert.NoError(t, sut.Publish(c, "payment", somethingHappened{SessionUID: "abc", Value: 1}))
		assert.NoError(t, sut.Publish(c, "payment", somethingHappened{SessionUID: "abc", Value: 2}))

		// when
		request, err := http.NewRequest(http.MethodPut, "/pubsub/payment/xyz", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, http.StatusOK, response.Code)
		assert.Contains(t, response.Body.String(), "Successfully published 2 events")

		published := pubsub.Published("payment")
		assert.Len(t, published, 2)
		envelope := myevents.EventEnvelope{}
		assert.NoError(t, json.Unmarshal([]byte(published[0]), &envelope))
		assert.Equal(t, "something.happened", envelope.EventTypeName)

		unpublished, err := outbox.Query(c, []mystore.Filter{{Field: "Published", Compare: "=", Value: false}}, "")
		assert.NoError(t, err)
		assert.Empty(t, unpublished)
	})
}
