package paymentaudit

import (
	"context"
	"fmt"

	"github.com/zaptech/zappay/lib/myerrors"
	"github.com/zaptech/zappay/lib/mylog"
	"github.com/zaptech/zappay/lib/mypubsub"
	"github.com/zaptech/zappay/lib/mystore"
	"github.com/zaptech/zappay/lib/mytime"
	"github.com/zaptech/zappay/lib/myuuid"
	"github.com/zaptech/zappay/services/paymentevents"
)

type service struct {
	store       mystore.Store[Entry]
	subscriber  mypubsub.PubSub
	nower       mytime.Nower
	uuider      myuuid.UUIDer
	logger      mylog.Logger
	callbackURL string
}

func newService(store mystore.Store[Entry], subscriber mypubsub.PubSub, nower mytime.Nower, uuider myuuid.UUIDer, logger mylog.Logger, callbackURL string) *service {
	return &service{
		store:       store,
		subscriber:  subscriber,
		nower:       nower,
		uuider:      uuider,
		logger:      logger,
		callbackURL: callbackURL,
	}
}

func (s *service) Subscribe(c context.Context) error {
	err := s.subscriber.Subscribe(c, paymentevents.TopicName, s.callbackURL)
	if err != nil {
		return fmt.Errorf("error subscribing to topic %s: %w", paymentevents.TopicName, err)
	}
	return nil
}

func (s *service) OnPaymentStarted(c context.Context, topic string, event paymentevents.PaymentStarted) error {
	s.logger.Log(c, event.SessionUID, mylog.SeverityInfo, "Audit: order %s started for %d %s", event.OrderID, event.AmountInPaise, event.Currency)

	return s.record(c, Entry{
		SessionUID: event.SessionUID,
		EventType:  event.GetEventTypeName(),
		OrderID:    event.OrderID,
	})
}

func (s *service) OnPaymentCompleted(c context.Context, topic string, event paymentevents.PaymentCompleted) error {
	severity := mylog.SeverityInfo
	if !event.Success {
		severity = mylog.SeverityWarn
	}
	s.logger.Log(c, event.SessionUID, severity, "Audit: order %s completed with status %s", event.OrderID, event.Status)

	return s.record(c, Entry{
		SessionUID:  event.SessionUID,
		EventType:   event.GetEventTypeName(),
		OrderID:     event.OrderID,
		PaymentID:   event.PaymentID,
		Status:      string(event.Status),
		Success:     event.Success,
		Description: event.Description,
	})
}

func (s *service) record(c context.Context, entry Entry) error {
	entry.UID = s.uuider.Create()
	entry.ReceivedAt = s.nower.Now()

	err := s.store.Put(c, entry.UID, entry)
	if err != nil {
		return myerrors.NewInternalError(err)
	}
	return nil
}

func (s *service) listEntries(c context.Context, sessionUID string) ([]Entry, error) {
	entries, err := s.store.Query(c, []mystore.Filter{{Field: "SessionUID", Compare: "=", Value: sessionUID}}, "ReceivedAt")
	if err != nil {
		return nil, myerrors.NewInternalError(err)
	}
	return entries, nil
}
