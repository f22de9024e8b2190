package paymentevents

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/zaptech/zappay/lib/myerrors"
	"github.com/zaptech/zappay/lib/myevents"
)

const (
	TopicName            = "payment"
	paymentStartedName   = TopicName + ".started"
	paymentCompletedName = TopicName + ".completed"
)

//go:generate mockgen -source=events.go -package paymentevents -destination event_service_mock.go PaymentEventService
type PaymentEventService interface {
	OnPaymentStarted(c context.Context, topic string, event PaymentStarted) error
	OnPaymentCompleted(c context.Context, topic string, event PaymentCompleted) error
}

func DispatchEvent(c context.Context, reader io.Reader, service PaymentEventService) error {
	envelope, err := myevents.ParseEventEnvelope(reader)
	if err != nil {
		return myerrors.NewInvalidInputError(err)
	}

	switch envelope.EventTypeName {
	case paymentStartedName:
		event := PaymentStarted{}
		err := json.Unmarshal([]byte(envelope.EventPayload), &event)
		if err != nil {
			return myerrors.NewInvalidInputError(err)
		}
		return service.OnPaymentStarted(c, envelope.Topic, event)
	case paymentCompletedName:
		event := PaymentCompleted{}
		err := json.Unmarshal([]byte(envelope.EventPayload), &event)
		if err != nil {
			return myerrors.NewInvalidInputError(err)
		}
		return service.OnPaymentCompleted(c, envelope.Topic, event)
	default:
		return myerrors.NewNotImplementedError(fmt.Errorf("unknown event type %s", envelope.EventTypeName))
	}
}

// PaymentStarted is published once the server-side order exists and the widget is handed off
type PaymentStarted struct {
	SessionUID    string
	OrderID       string
	AmountInPaise int64
	Currency      string
}

func (e PaymentStarted) GetEventTypeName() string {
	return paymentStartedName
}

func (e PaymentStarted) GetAggregateName() string {
	return e.SessionUID
}

type PaymentStatus string

const (
	PaymentStatusSuccess            PaymentStatus = "success"
	PaymentStatusFailed             PaymentStatus = "failed"
	PaymentStatusVerificationFailed PaymentStatus = "verificationFailed"
)

type PaymentCompleted struct {
	SessionUID  string
	OrderID     string
	PaymentID   string
	Status      PaymentStatus
	Success     bool
	Description string
}

func (e PaymentCompleted) GetEventTypeName() string {
	return paymentCompletedName
}

func (e PaymentCompleted) GetAggregateName() string {
	return e.SessionUID
}
