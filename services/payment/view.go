package payment

import (
	"fmt"
	"strings"

	"github.com/zaptech/zappay/services/widget"
)

type PageKind string

const (
	PageLoading PageKind = "loading"
	PageInvalid PageKind = "invalid"
	PageForm    PageKind = "form"
)

type StatusKind string

const (
	StatusNone    StatusKind = ""
	StatusSuccess StatusKind = "success"
	StatusFailure StatusKind = "failure"
)

type RedirectView struct {
	URL          string
	DelaySeconds int
}

// PageView is everything the template needs; it is derived from the session only
type PageView struct {
	Kind          PageKind
	SessionUID    string
	Branding      Branding
	ProductName   string
	AmountLabel   string
	PayLabel      string
	Processing    bool
	PayLocked     bool
	ScriptURL     string
	StatusMessage string
	StatusKind    StatusKind
	Redirect      *RedirectView
	Handoff       *widget.Handoff
}

func newPageView(session Session, config Config, handoff *widget.Handoff) PageView {
	view := PageView{
		SessionUID: session.UID,
		Branding:   config.Branding,
	}

	switch session.TokenCheck {
	case TokenPending:
		view.Kind = PageLoading
		return view
	case TokenValid:
		view.Kind = PageForm
	default:
		view.Kind = PageInvalid
		return view
	}

	amountLabel := formatRupees(session.Amount)
	view.ProductName = config.Branding.Name + " Pro"
	view.AmountLabel = amountLabel
	view.PayLabel = fmt.Sprintf("Pay %s Now", amountLabel)
	view.Processing = session.Processing
	view.PayLocked = session.PayLocked()
	view.ScriptURL = config.ScriptURL
	view.StatusMessage = session.StatusMessage
	view.StatusKind = classifyStatus(session.StatusMessage)
	if session.Redirect != nil {
		view.Redirect = &RedirectView{
			URL:          session.Redirect.URL,
			DelaySeconds: int(session.Redirect.Delay.Seconds()),
		}
	}
	if handoff != nil && !view.PayLocked {
		view.Handoff = handoff
	}

	return view
}

func classifyStatus(message string) StatusKind {
	if message == "" {
		return StatusNone
	}
	if strings.Contains(message, "Successful") {
		return StatusSuccess
	}
	return StatusFailure
}

func formatRupees(amount int) string {
	return fmt.Sprintf("₹%d.00", amount)
}
