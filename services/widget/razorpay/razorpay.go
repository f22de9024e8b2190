package razorpay

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/zaptech/zappay/lib/myerrors"
	"github.com/zaptech/zappay/services/widget"
)

const ScriptURL = "https://checkout.razorpay.com/v1/checkout.js"

type prefill struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Contact string `json:"contact"`
}

type theme struct {
	Color string `json:"color,omitempty"`
}

// options as understood by the Razorpay constructor in the browser
type options struct {
	Key         string            `json:"key"`
	Amount      int64             `json:"amount"`
	Currency    string            `json:"currency"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	OrderID     string            `json:"order_id"`
	Prefill     prefill           `json:"prefill"`
	Notes       map[string]string `json:"notes,omitempty"`
	Theme       theme             `json:"theme"`
}

type checkout struct{}

func New() *checkout {
	return &checkout{}
}

func (rp *checkout) CreateSession(c context.Context, config widget.Config) (widget.Session, error) {
	if config.Key == "" {
		return nil, myerrors.NewInvalidInputError(fmt.Errorf("widget configuration lacks a key"))
	}
	if config.OrderID == "" {
		return nil, myerrors.NewInvalidInputError(fmt.Errorf("widget configuration lacks an order id"))
	}
	if config.SuccessURL == "" || config.FailureURL == "" {
		return nil, myerrors.NewInvalidInputError(fmt.Errorf("widget configuration lacks callback urls"))
	}

	return &session{
		options: options{
			Key:         config.Key,
			Amount:      config.Amount,
			Currency:    config.Currency,
			Name:        config.Name,
			Description: config.Description,
			OrderID:     config.OrderID,
			Prefill: prefill{
				Name:    config.Prefill.Name,
				Email:   config.Prefill.Email,
				Contact: config.Prefill.Contact,
			},
			Notes: config.Notes,
			Theme: theme{Color: config.Theme.Color},
		},
		successURL: config.SuccessURL,
		failureURL: config.FailureURL,
	}, nil
}

type session struct {
	options    options
	successURL string
	failureURL string
}

// Open does not wait for the payer: the outcome arrives later on the callback urls
func (s *session) Open(c context.Context) (widget.Handoff, error) {
	optionsJSON, err := json.Marshal(s.options)
	if err != nil {
		return widget.Handoff{}, myerrors.NewInternalError(fmt.Errorf("error marshalling widget options: %w", err))
	}

	return widget.Handoff{
		ScriptURL:   ScriptURL,
		OptionsJSON: string(optionsJSON),
		SuccessURL:  s.successURL,
		FailureURL:  s.failureURL,
	}, nil
}
