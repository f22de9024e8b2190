package payment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/zaptech/zappay/services/widget"
)

func TestNewPageView(t *testing.T) {
	t.Run("pending token shows loading", func(t *testing.T) {
		view := newPageView(Session{UID: "s1", TokenCheck: TokenPending}, exampleConfig, nil)

		assert.Equal(t, PageLoading, view.Kind)
	})

	t.Run("invalid token", func(t *testing.T) {
		view := newPageView(Session{UID: "s1", TokenCheck: TokenInvalid}, exampleConfig, &handoff)

		assert.Equal(t, PageInvalid, view.Kind)
		assert.Nil(t, view.Handoff)
	})

	t.Run("fresh form", func(t *testing.T) {
		view := newPageView(validSession, exampleConfig, nil)

		assert.Equal(t, PageForm, view.Kind)
		assert.Equal(t, "Zap Pro", view.ProductName)
		assert.Equal(t, "₹99.00", view.AmountLabel)
		assert.Equal(t, "Pay ₹99.00 Now", view.PayLabel)
		assert.False(t, view.PayLocked)
		assert.Equal(t, StatusNone, view.StatusKind)
		assert.Nil(t, view.Redirect)
	})

	t.Run("terminal session never hands off", func(t *testing.T) {
		session := validSession
		session.Terminal = true
		session.StatusMessage = msgVerificationFailed

		view := newPageView(session, exampleConfig, &handoff)

		assert.True(t, view.PayLocked)
		assert.Nil(t, view.Handoff)
		assert.Equal(t, StatusFailure, view.StatusKind)
	})

	t.Run("redirect in whole seconds", func(t *testing.T) {
		session := validSession
		session.Terminal = true
		session.StatusMessage = msgPaymentSuccessful
		session.Redirect = &Redirect{URL: "https://zap.example/chat?paid=true", Delay: 2 * time.Second}

		view := newPageView(session, exampleConfig, nil)

		assert.Equal(t, &RedirectView{URL: "https://zap.example/chat?paid=true", DelaySeconds: 2}, view.Redirect)
		assert.Equal(t, StatusSuccess, view.StatusKind)
	})

	t.Run("hand-off passed through", func(t *testing.T) {
		view := newPageView(validSession, exampleConfig, &widget.Handoff{OptionsJSON: "{}"})

		assert.Equal(t, &widget.Handoff{OptionsJSON: "{}"}, view.Handoff)
	})
}

func TestClassifyStatus(t *testing.T) {
	for message, kind := range map[string]StatusKind{
		"":                              StatusNone,
		msgPaymentSuccessful:            StatusSuccess,
		msgScriptNotLoaded:              StatusFailure,
		msgGenericError:                 StatusFailure,
		msgVerificationFailed:           StatusFailure,
		"Payment Failed: Card declined": StatusFailure,
	} {
		assert.Equal(t, kind, classifyStatus(message), message)
	}
}
