package myratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/zaptech/zappay/lib/mytime"
)

func TestLimiter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("burst then refuse then refill", func(t *testing.T) {
		// given
		now := mytime.ExampleTime
		nower := mytime.NewMockNower(ctrl)
		nower.EXPECT().Now().DoAndReturn(func() time.Time { return now }).AnyTimes()
		sut := New(1, 2, nower)

		// when then
		assert.True(t, sut.Allow("10.0.0.1"))
		assert.True(t, sut.Allow("10.0.0.1"))
		assert.False(t, sut.Allow("10.0.0.1"))
		assert.True(t, sut.Allow("10.0.0.2"))

		now = now.Add(time.Second)
		assert.True(t, sut.Allow("10.0.0.1"))
	})

	t.Run("idle clients are forgotten", func(t *testing.T) {
		// given
		now := mytime.ExampleTime
		nower := mytime.NewMockNower(ctrl)
		nower.EXPECT().Now().DoAndReturn(func() time.Time { return now }).AnyTimes()
		sut := New(1, 1, nower)
		sut.Allow("10.0.0.1")
		now = now.Add(10 * time.Minute)
		sut.Allow("10.0.0.2")

		// when
		now = now.Add(25 * time.Minute)
		forgotten := sut.forgetIdle()

		// then
		assert.Equal(t, 1, forgotten)
		assert.Len(t, sut.clients, 1)
	})

	t.Run("wrapped handler answers 429", func(t *testing.T) {
		// given
		nower := mytime.NewMockNower(ctrl)
		nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()
		sut := New(1, 1, nower)
		handler := sut.Wrap(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})

		// when
		codes := []int{}
		for i := 0; i < 2; i++ {
			request := httptest.NewRequest(http.MethodGet, "/payment?token=abc", nil)
			request.Header.Set("X-Forwarded-For", "1.2.3.4")
			response := httptest.NewRecorder()
			handler(response, request)
			codes = append(codes, response.Code)
		}

		// then
		assert.Equal(t, []int{http.StatusNoContent, http.StatusTooManyRequests}, codes)
	})
}
