package warmup

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/zaptech/zappay/lib/mycontext"
	"github.com/zaptech/zappay/lib/myerrors"
	"github.com/zaptech/zappay/lib/myhttp"
	"github.com/zaptech/zappay/lib/mylog"
	"github.com/zaptech/zappay/lib/mystore"
)

type webService struct {
	logger mylog.Logger
	touch  func(c context.Context) error
}

// NewService warms up the instance by doing a lookup in the given store
func NewService[T any](store mystore.Store[T]) *webService {
	return &webService{
		logger: mylog.New("warmup"),
		touch: func(c context.Context) error {
			_, _, err := store.Get(c, "warmup")
			return err
		},
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/_ah/warmup", s.warmupPage()).Methods("GET")
	return nil
}

func (s *webService) warmupPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		err := s.touch(c)
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewUnavailableError(err))
			return
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{
			Message: "Successfully processed warmup request",
		})
	}
}
