package paymentaudit

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/zaptech/zappay/lib/mycontext"
	"github.com/zaptech/zappay/lib/myhttp"
	"github.com/zaptech/zappay/lib/mylog"
	"github.com/zaptech/zappay/lib/mypubsub"
	"github.com/zaptech/zappay/lib/mystore"
	"github.com/zaptech/zappay/lib/mytime"
	"github.com/zaptech/zappay/lib/myuuid"
	"github.com/zaptech/zappay/services/paymentevents"
)

const eventPath = "/api/paymentaudit/event"

type webService struct {
	service *service
	logger  mylog.Logger
}

// NewService keeps an audit trail of payment events; serviceURL is the public origin pubsub pushes to
func NewService(store mystore.Store[Entry], subscriber mypubsub.PubSub, nower mytime.Nower, uuider myuuid.UUIDer, serviceURL string) *webService {
	logger := mylog.New("paymentaudit")
	return &webService{
		service: newService(store, subscriber, nower, uuider, logger, serviceURL+eventPath),
		logger:  logger,
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	// pubsub push-subscription
	router.HandleFunc(eventPath, s.handleEvent()).Methods("POST")

	router.HandleFunc("/api/paymentaudit/session/{sessionUID}", s.listEntries()).Methods("GET")

	err := s.service.Subscribe(c)
	if err != nil {
		return err
	}

	return nil
}

func (s *webService) handleEvent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		err := paymentevents.DispatchEvent(c, r.Body, s.service)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{
			Message: "Successfully processed payment event",
		})
	}
}

func (s *webService) listEntries() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		sessionUID := mux.Vars(r)["sessionUID"]

		entries, err := s.service.listEntries(c, sessionUID)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, entries)
	}
}
