package payment

import (
	"time"
)

const (
	// Amount is the price of Zap Pro in rupees
	Amount   = 99
	Currency = "INR"

	msgScriptNotLoaded    = "Razorpay script not loaded. Please try again."
	msgGenericError       = "An error occurred. Please try again."
	msgPaymentSuccessful  = "Payment Successful! You are now a Premium user."
	msgVerificationFailed = "Payment completed but verification failed. Please contact support."
	msgPaymentFailedFmt   = "Payment Failed: %s"

	redirectDelay = 2 * time.Second
)

type TokenCheck string

const (
	TokenPending TokenCheck = "pending"
	TokenValid   TokenCheck = "valid"
	TokenInvalid TokenCheck = "invalid"
)

type Redirect struct {
	URL   string
	Delay time.Duration
}

// Session is the state of a single payment page view
type Session struct {
	UID                  string
	CreatedAt            time.Time
	LastModified         *time.Time
	AccessToken          string `datastore:",noindex"`
	TokenCheck           TokenCheck
	UserEmail            string
	Amount               int
	Processing           bool
	StatusMessage        string
	ScriptLoaded         bool
	OrderID              string
	Terminal             bool
	Redirect             *Redirect
	ConfirmationConsumed bool
}

// PayLocked tells if the pay control must stay disabled regardless of the script state
func (s Session) PayLocked() bool {
	return s.Processing || s.Terminal
}

// Branding is the configurable copy shown to the payer and passed to the widget
type Branding struct {
	Name        string
	Description string
	Address     string
	ThemeColor  string
	PrefillName string
}

type Config struct {
	KeyID           string
	RedirectBaseURL string
	ScriptURL       string
	Branding        Branding
}
