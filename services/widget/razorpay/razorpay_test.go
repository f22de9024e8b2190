package razorpay

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zaptech/zappay/lib/myerrors"
	"github.com/zaptech/zappay/services/backendapi"
	"github.com/zaptech/zappay/services/widget"
)

func exampleConfig() widget.Config {
	return widget.Config{
		Key:         "rzp_test_123",
		Amount:      9900,
		Currency:    "INR",
		OrderID:     "ord_1",
		Name:        "Zap",
		Description: "Zap Pro - One-time lifetime access",
		Prefill:     widget.Prefill{Name: "Zap User", Email: "user@x.com"},
		Notes:       map[string]string{"address": "Zap Technologies, India"},
		Theme:       widget.Theme{Color: "#6D28D9"},
		SuccessURL:  "/payment/s1/widget/success",
		FailureURL:  "/payment/s1/widget/failure",
	}
}

func TestCreateSession(t *testing.T) {
	c := context.TODO()

	t.Run("open hands off options", func(t *testing.T) {
		// given
		session, err := New().CreateSession(c, exampleConfig())
		assert.NoError(t, err)

		// when
		handoff, err := session.Open(c)

		// then
		assert.NoError(t, err)
		assert.Equal(t, "https://checkout.razorpay.com/v1/checkout.js", handoff.ScriptURL)
		assert.Equal(t, "/payment/s1/widget/success", handoff.SuccessURL)
		assert.Equal(t, "/payment/s1/widget/failure", handoff.FailureURL)
		assert.JSONEq(t, `{
			"key": "rzp_test_123",
			"amount": 9900,
			"currency": "INR",
			"name": "Zap",
			"description": "Zap Pro - One-time lifetime access",
			"order_id": "ord_1",
			"prefill": {"name": "Zap User", "email": "user@x.com", "contact": ""},
			"notes": {"address": "Zap Technologies, India"},
			"theme": {"color": "#6D28D9"}
		}`, handoff.OptionsJSON)
	})

	t.Run("email omitted when unknown", func(t *testing.T) {
		config := exampleConfig()
		config.Prefill.Email = ""
		session, err := New().CreateSession(c, config)
		assert.NoError(t, err)

		handoff, err := session.Open(c)

		assert.NoError(t, err)
		assert.NotContains(t, handoff.OptionsJSON, "email")
	})

	t.Run("rejects missing key", func(t *testing.T) {
		config := exampleConfig()
		config.Key = ""

		_, err := New().CreateSession(c, config)

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, myerrors.GetHTTPStatus(err))
	})

	t.Run("rejects missing order", func(t *testing.T) {
		config := exampleConfig()
		config.OrderID = ""

		_, err := New().CreateSession(c, config)

		assert.Error(t, err)
	})
}

func post(values url.Values) *http.Request {
	request := httptest.NewRequest(http.MethodPost, "/payment/s1/widget/success", strings.NewReader(values.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return request
}

func TestParseSuccess(t *testing.T) {
	t.Run("complete", func(t *testing.T) {
		event, err := ParseSuccess(post(url.Values{
			"razorpay_order_id":   {"ord_1"},
			"razorpay_payment_id": {"pay_1"},
			"razorpay_signature":  {"sig_1"},
		}))

		assert.NoError(t, err)
		assert.Equal(t, backendapi.Confirmation{OrderID: "ord_1", PaymentID: "pay_1", Signature: "sig_1"}, event.Confirmation)
	})

	t.Run("incomplete", func(t *testing.T) {
		_, err := ParseSuccess(post(url.Values{
			"razorpay_order_id": {"ord_1"},
		}))

		assert.ErrorContains(t, err, "missing razorpay_payment_id, razorpay_signature")
		assert.Equal(t, http.StatusBadRequest, myerrors.GetHTTPStatus(err))
	})
}

func TestParseFailure(t *testing.T) {
	event, err := ParseFailure(post(url.Values{
		"code":        {"BAD_REQUEST_ERROR"},
		"description": {"Card declined"},
		"reason":      {"payment_failed"},
	}))

	assert.NoError(t, err)
	assert.Equal(t, widget.Failed{Description: "Card declined"}, event)
}
