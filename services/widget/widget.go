package widget

import (
	"context"

	"github.com/zaptech/zappay/services/backendapi"
)

type Prefill struct {
	Name    string
	Email   string
	Contact string
}

type Theme struct {
	Color string
}

// Config describes one checkout attempt for a server-side order
type Config struct {
	Key         string
	Amount      int64 // in the smallest currency unit
	Currency    string
	OrderID     string
	Name        string
	Description string
	Prefill     Prefill
	Notes       map[string]string
	Theme       Theme
	SuccessURL  string
	FailureURL  string
}

// Handoff is everything the browser needs to open the overlay and report back
type Handoff struct {
	ScriptURL   string
	OptionsJSON string
	SuccessURL  string
	FailureURL  string
}

// Event is the outcome the widget reports: Succeeded or Failed
type Event interface {
	isEvent()
}

type Succeeded struct {
	Confirmation backendapi.Confirmation
}

type Failed struct {
	Description string
}

func (Succeeded) isEvent() {}
func (Failed) isEvent()    {}

//go:generate mockgen -source=widget.go -package widget -destination widget_mock.go Widget Session
type Widget interface {
	CreateSession(c context.Context, config Config) (Session, error)
}

type Session interface {
	Open(c context.Context) (Handoff, error)
}
