package warmup

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/zaptech/zappay/lib/mystore"
)

type brokenStore struct {
	mystore.Store[string]
}

func (s brokenStore) Get(c context.Context, uid string) (string, bool, error) {
	return "", false, fmt.Errorf("datastore unavailable")
}

func TestWarmup(t *testing.T) {
	c := context.TODO()

	warmup := func(store mystore.Store[string]) *httptest.ResponseRecorder {
		router := mux.NewRouter()
		err := NewService(store).RegisterEndpoints(c, router)
		assert.NoError(t, err)

		request, err := http.NewRequest(http.MethodGet, "/_ah/warmup", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)
		return response
	}

	t.Run("store reachable", func(t *testing.T) {
		store, _, _ := mystore.NewInMemoryStore[string](c)

		response := warmup(store)

		assert.Equal(t, http.StatusOK, response.Code)
		assert.Contains(t, response.Body.String(), "Successfully processed warmup request")
	})

	t.Run("store unreachable", func(t *testing.T) {
		response := warmup(brokenStore{})

		assert.Equal(t, http.StatusServiceUnavailable, response.Code)
	})
}
