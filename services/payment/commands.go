package payment

import (
	"context"
	"fmt"
	"net/url"

	"github.com/zaptech/zappay/lib/myerrors"
	"github.com/zaptech/zappay/lib/myevents"
	"github.com/zaptech/zappay/lib/mylog"
	"github.com/zaptech/zappay/services/backendapi"
	"github.com/zaptech/zappay/services/paymentevents"
	"github.com/zaptech/zappay/services/widget"
)

// openSession validates the access token and, only for a valid token, resolves the email.
// Sessions with an invalid token are not stored.
func (s *service) openSession(c context.Context, token string, credentials backendapi.Credentials) (Session, error) {
	sessionUID := s.uuider.Create()
	now := s.nower.Now()

	session := Session{
		UID:         sessionUID,
		CreatedAt:   now,
		AccessToken: token,
		TokenCheck:  TokenPending,
		Amount:      Amount,
	}

	if !s.validator.validate(c, sessionUID, token) {
		session.TokenCheck = TokenInvalid
		session.AccessToken = ""
		return session, nil
	}
	session.TokenCheck = TokenValid
	session.UserEmail = s.resolver.resolve(c, sessionUID, credentials)

	s.logger.Log(c, sessionUID, mylog.SeverityInfo, "Opening payment session %s (email known: %t)", sessionUID, session.UserEmail != "")

	err := s.sessionStore.Put(c, sessionUID, session)
	if err != nil {
		return Session{}, myerrors.NewInternalError(err)
	}

	return session, nil
}

func (s *service) getSession(c context.Context, sessionUID string) (Session, error) {
	session, found, err := s.sessionStore.Get(c, sessionUID)
	if err != nil {
		return Session{}, myerrors.NewInternalError(err)
	}
	if !found {
		return Session{}, myerrors.NewNotFoundError(fmt.Errorf("payment session with uid %s not found", sessionUID))
	}
	return session, nil
}

// initiatePayment runs when the payer clicks pay. It returns the hand-off for the browser
// when the widget should be opened; a nil hand-off means the page only shows the session state.
func (s *service) initiatePayment(c context.Context, sessionUID string, scriptLoaded bool) (Session, *widget.Handoff, error) {
	var session Session
	proceed := false

	err := s.sessionStore.RunInTransaction(c, func(c context.Context) error {
		var err error
		session, err = s.getSession(c, sessionUID)
		if err != nil {
			return err
		}
		if session.TokenCheck != TokenValid {
			return myerrors.NewAuthenticationError(fmt.Errorf("payment session %s has no valid access token", sessionUID))
		}
		if session.Terminal {
			s.logger.Log(c, sessionUID, mylog.SeverityInfo, "Ignore pay request: session is terminal")
			return nil
		}
		if session.Processing {
			s.logger.Log(c, sessionUID, mylog.SeverityInfo, "Ignore pay request: payment already in progress")
			return nil
		}

		now := s.nower.Now()
		session.LastModified = &now
		session.ScriptLoaded = scriptLoaded
		if !scriptLoaded {
			session.StatusMessage = msgScriptNotLoaded
		} else {
			session.Processing = true
			session.StatusMessage = ""
			proceed = true
		}

		err = s.sessionStore.Put(c, sessionUID, session)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return Session{}, nil, err
	}
	if !proceed {
		return session, nil, nil
	}

	handoff, order, handoffErr := s.handOff(c, session)

	err = s.sessionStore.RunInTransaction(c, func(c context.Context) error {
		var err error
		session, err = s.getSession(c, sessionUID)
		if err != nil {
			return err
		}

		now := s.nower.Now()
		session.LastModified = &now
		session.Processing = false
		if handoffErr != nil {
			session.StatusMessage = msgGenericError
		} else {
			session.OrderID = order.OrderID
		}

		err = s.sessionStore.Put(c, sessionUID, session)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		if handoffErr == nil {
			s.publish(c, sessionUID, paymentevents.PaymentStarted{
				SessionUID:    sessionUID,
				OrderID:       order.OrderID,
				AmountInPaise: order.Amount,
				Currency:      Currency,
			})
		}
		return nil
	})
	if err != nil {
		return Session{}, nil, err
	}
	if handoffErr != nil {
		return session, nil, nil
	}

	return session, &handoff, nil
}

// handOff creates the server-side order and hands the checkout over to the widget
func (s *service) handOff(c context.Context, session Session) (widget.Handoff, backendapi.Order, error) {
	order, err := s.backend.CreateOrder(c, session.AccessToken, Amount)
	if err != nil {
		s.logger.Log(c, session.UID, mylog.SeverityError, "Error creating order: %s", err)
		return widget.Handoff{}, backendapi.Order{}, err
	}
	if order.OrderID == "" {
		err = fmt.Errorf("order id not received from backend")
		s.logger.Log(c, session.UID, mylog.SeverityError, "Error creating order: %s", err)
		return widget.Handoff{}, backendapi.Order{}, err
	}
	if order.Amount == 0 {
		order.Amount = Amount * 100
	}

	widgetSession, err := s.widget.CreateSession(c, s.widgetConfig(session, order))
	if err != nil {
		s.logger.Log(c, session.UID, mylog.SeverityError, "Widget rejected configuration for order %s: %s", order.OrderID, err)
		return widget.Handoff{}, backendapi.Order{}, err
	}

	handoff, err := widgetSession.Open(c)
	if err != nil {
		s.logger.Log(c, session.UID, mylog.SeverityError, "Error opening widget for order %s: %s", order.OrderID, err)
		return widget.Handoff{}, backendapi.Order{}, err
	}

	s.logger.Log(c, session.UID, mylog.SeverityInfo, "Handed order %s over to widget", order.OrderID)

	return handoff, order, nil
}

func (s *service) widgetConfig(session Session, order backendapi.Order) widget.Config {
	branding := s.config.Branding
	notes := map[string]string{}
	if branding.Address != "" {
		notes["address"] = branding.Address
	}
	return widget.Config{
		Key:         s.config.KeyID,
		Amount:      order.Amount,
		Currency:    Currency,
		OrderID:     order.OrderID,
		Name:        branding.Name,
		Description: branding.Description,
		Prefill: widget.Prefill{
			Name:  branding.PrefillName,
			Email: session.UserEmail,
		},
		Notes:      notes,
		Theme:      widget.Theme{Color: branding.ThemeColor},
		SuccessURL: fmt.Sprintf("/payment/%s/widget/success", session.UID),
		FailureURL: fmt.Sprintf("/payment/%s/widget/failure", session.UID),
	}
}

// onWidgetEvent processes the outcome reported by the widget
func (s *service) onWidgetEvent(c context.Context, sessionUID string, event widget.Event) (Session, error) {
	switch e := event.(type) {
	case widget.Succeeded:
		return s.onPaymentSucceeded(c, sessionUID, e.Confirmation)
	case widget.Failed:
		return s.onPaymentFailed(c, sessionUID, e.Description)
	default:
		return Session{}, myerrors.NewInvalidInputError(fmt.Errorf("unsupported widget event %T", event))
	}
}

func (s *service) onPaymentSucceeded(c context.Context, sessionUID string, confirmation backendapi.Confirmation) (Session, error) {
	var session Session
	consumed := false

	// a confirmation is verified at most once per session
	err := s.sessionStore.RunInTransaction(c, func(c context.Context) error {
		var err error
		session, err = s.getSession(c, sessionUID)
		if err != nil {
			return err
		}
		if session.TokenCheck != TokenValid {
			return myerrors.NewAuthenticationError(fmt.Errorf("payment session %s has no valid access token", sessionUID))
		}
		if session.Terminal || session.ConfirmationConsumed {
			s.logger.Log(c, sessionUID, mylog.SeverityWarn, "Ignore confirmation of payment %s: already handled", confirmation.PaymentID)
			return nil
		}
		if session.OrderID != "" && confirmation.OrderID != session.OrderID {
			return myerrors.NewInvalidInputError(fmt.Errorf("confirmation for order %s does not match order %s", confirmation.OrderID, session.OrderID))
		}

		now := s.nower.Now()
		session.LastModified = &now
		session.ConfirmationConsumed = true
		consumed = true

		err = s.sessionStore.Put(c, sessionUID, session)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return Session{}, err
	}
	if !consumed {
		return session, nil
	}

	verified, verifyErr := s.backend.VerifyPayment(c, session.AccessToken, confirmation)
	if verifyErr != nil {
		s.logger.Log(c, sessionUID, mylog.SeverityError, "Error verifying payment %s: %s", confirmation.PaymentID, verifyErr)
	} else if !verified {
		s.logger.Log(c, sessionUID, mylog.SeverityError, "Payment %s not confirmed by backend", confirmation.PaymentID)
	}
	success := verifyErr == nil && verified

	err = s.sessionStore.RunInTransaction(c, func(c context.Context) error {
		var err error
		session, err = s.getSession(c, sessionUID)
		if err != nil {
			return err
		}

		now := s.nower.Now()
		session.LastModified = &now
		session.Terminal = true
		status := paymentevents.PaymentStatusVerificationFailed
		if success {
			status = paymentevents.PaymentStatusSuccess
			session.StatusMessage = msgPaymentSuccessful
			session.Redirect = &Redirect{
				URL:   s.postPaymentURL(),
				Delay: redirectDelay,
			}
		} else {
			session.StatusMessage = msgVerificationFailed
		}

		err = s.sessionStore.Put(c, sessionUID, session)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		s.publish(c, sessionUID, paymentevents.PaymentCompleted{
			SessionUID: sessionUID,
			OrderID:    confirmation.OrderID,
			PaymentID:  confirmation.PaymentID,
			Status:     status,
			Success:    success,
		})
		return nil
	})
	if err != nil {
		return Session{}, err
	}

	s.logger.Log(c, sessionUID, mylog.SeverityInfo, "Payment %s completed: verified=%t", confirmation.PaymentID, success)

	return session, nil
}

func (s *service) onPaymentFailed(c context.Context, sessionUID string, description string) (Session, error) {
	var session Session

	err := s.sessionStore.RunInTransaction(c, func(c context.Context) error {
		var err error
		session, err = s.getSession(c, sessionUID)
		if err != nil {
			return err
		}
		if session.TokenCheck != TokenValid {
			return myerrors.NewAuthenticationError(fmt.Errorf("payment session %s has no valid access token", sessionUID))
		}
		if session.Terminal || session.ConfirmationConsumed {
			s.logger.Log(c, sessionUID, mylog.SeverityWarn, "Ignore payment failure: payment already confirmed")
			return nil
		}

		s.logger.Log(c, sessionUID, mylog.SeverityWarn, "Payment for order %s failed: %s", session.OrderID, description)

		now := s.nower.Now()
		session.LastModified = &now
		session.StatusMessage = fmt.Sprintf(msgPaymentFailedFmt, description)

		err = s.sessionStore.Put(c, sessionUID, session)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		s.publish(c, sessionUID, paymentevents.PaymentCompleted{
			SessionUID:  sessionUID,
			OrderID:     session.OrderID,
			Status:      paymentevents.PaymentStatusFailed,
			Success:     false,
			Description: description,
		})
		return nil
	})
	if err != nil {
		return Session{}, err
	}

	return session, nil
}

// publish only runs after the session change is stored. A lost event is logged and
// never undoes that change.
func (s *service) publish(c context.Context, sessionUID string, event myevents.Event) {
	err := s.publisher.Publish(c, paymentevents.TopicName, event)
	if err != nil {
		s.logger.Log(c, sessionUID, mylog.SeverityError, "Error publishing %s event: %s", event.GetEventTypeName(), err)
	}
}

func (s *service) postPaymentURL() string {
	destination, err := url.JoinPath(s.config.RedirectBaseURL, "chat")
	if err != nil {
		destination = s.config.RedirectBaseURL + "/chat"
	}
	return destination + "?paid=true"
}
