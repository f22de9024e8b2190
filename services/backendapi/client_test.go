package backendapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zaptech/zappay/lib/myerrors"
	"github.com/zaptech/zappay/lib/myhttpclient"
)

type recorded struct {
	method  string
	path    string
	headers http.Header
	body    string
}

func setup(t *testing.T, status int, response string) (*httpClient, *[]recorded) {
	calls := []recorded{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		calls = append(calls, recorded{
			method:  r.Method,
			path:    r.URL.Path,
			headers: r.Header.Clone(),
			body:    string(body),
		})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(server.Close)

	return New(server.URL+"/", myhttpclient.New()), &calls
}

func TestVerifyAccessToken(t *testing.T) {
	c := context.TODO()

	t.Run("valid", func(t *testing.T) {
		// given
		sut, calls := setup(t, http.StatusOK, `{"valid":true}`)

		// when
		valid, err := sut.VerifyAccessToken(c, "abc")

		// then
		assert.NoError(t, err)
		assert.True(t, valid)
		assert.Len(t, *calls, 1)
		assert.Equal(t, http.MethodPost, (*calls)[0].method)
		assert.Equal(t, "/api/verify-payment-token", (*calls)[0].path)
		assert.JSONEq(t, `{"token":"abc"}`, (*calls)[0].body)
	})

	t.Run("invalid", func(t *testing.T) {
		sut, _ := setup(t, http.StatusOK, `{"valid":false}`)

		valid, err := sut.VerifyAccessToken(c, "abc")

		assert.NoError(t, err)
		assert.False(t, valid)
	})

	t.Run("server error", func(t *testing.T) {
		sut, calls := setup(t, http.StatusInternalServerError, `{}`)

		valid, err := sut.VerifyAccessToken(c, "abc")

		assert.Error(t, err)
		assert.False(t, valid)
		assert.Equal(t, http.StatusBadGateway, myerrors.GetHTTPStatus(err))
		assert.Len(t, *calls, 1)
	})
}

func TestGetEmail(t *testing.T) {
	c := context.TODO()

	t.Run("cookies are forwarded", func(t *testing.T) {
		// given
		sut, calls := setup(t, http.StatusOK, `{"email":"user@x.com"}`)

		// when
		email, err := sut.GetEmail(c, Credentials{Cookies: []*http.Cookie{
			{Name: "session", Value: "s1"},
			{Name: "theme", Value: "dark"},
		}})

		// then
		assert.NoError(t, err)
		assert.Equal(t, "user@x.com", email)
		assert.Equal(t, http.MethodGet, (*calls)[0].method)
		assert.Equal(t, "/api/get-email", (*calls)[0].path)
		assert.Equal(t, "session=s1; theme=dark", (*calls)[0].headers.Get("Cookie"))
		assert.Empty(t, (*calls)[0].body)
	})

	t.Run("missing email", func(t *testing.T) {
		sut, _ := setup(t, http.StatusOK, `{}`)

		email, err := sut.GetEmail(c, Credentials{})

		assert.NoError(t, err)
		assert.Equal(t, "", email)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		sut, _ := setup(t, http.StatusUnauthorized, `{}`)

		_, err := sut.GetEmail(c, Credentials{})

		assert.Error(t, err)
		assert.Equal(t, http.StatusForbidden, myerrors.GetHTTPStatus(err))
	})
}

func TestCreateOrder(t *testing.T) {
	c := context.TODO()

	t.Run("success", func(t *testing.T) {
		// given
		sut, calls := setup(t, http.StatusOK, `{"orderId":"ord_1","amount":9900,"currency":"INR"}`)

		// when
		order, err := sut.CreateOrder(c, "abc", 99)

		// then
		assert.NoError(t, err)
		assert.Equal(t, Order{OrderID: "ord_1", Amount: 9900, Currency: "INR"}, order)
		assert.Equal(t, "/api/create-order", (*calls)[0].path)
		assert.Equal(t, "Bearer abc", (*calls)[0].headers.Get("Authorization"))
		assert.Equal(t, "application/json", (*calls)[0].headers.Get("Content-Type"))
		assert.JSONEq(t, `{"amount":99}`, (*calls)[0].body)
	})

	t.Run("missing order id", func(t *testing.T) {
		sut, _ := setup(t, http.StatusOK, `{"amount":9900}`)

		_, err := sut.CreateOrder(c, "abc", 99)

		assert.ErrorContains(t, err, "order id not received from backend")
		assert.Equal(t, http.StatusBadGateway, myerrors.GetHTTPStatus(err))
	})

	t.Run("garbage response", func(t *testing.T) {
		sut, _ := setup(t, http.StatusOK, `<html>`)

		_, err := sut.CreateOrder(c, "abc", 99)

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadGateway, myerrors.GetHTTPStatus(err))
	})

	t.Run("backend unreachable", func(t *testing.T) {
		sut := New("http://127.0.0.1:1", myhttpclient.New())

		_, err := sut.CreateOrder(c, "abc", 99)

		assert.Error(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, myerrors.GetHTTPStatus(err))
	})
}

func TestVerifyPayment(t *testing.T) {
	c := context.TODO()
	confirmation := Confirmation{OrderID: "ord_1", PaymentID: "pay_1", Signature: "sig_1"}

	t.Run("request", func(t *testing.T) {
		// given
		sut, calls := setup(t, http.StatusOK, `{"success":true}`)

		// when
		verified, err := sut.VerifyPayment(c, "abc", confirmation)

		// then
		assert.NoError(t, err)
		assert.True(t, verified)
		assert.Equal(t, "/api/verify-payment", (*calls)[0].path)
		assert.Equal(t, "Bearer abc", (*calls)[0].headers.Get("Authorization"))
		sent := map[string]string{}
		assert.NoError(t, json.Unmarshal([]byte((*calls)[0].body), &sent))
		assert.Equal(t, map[string]string{
			"razorpay_order_id":   "ord_1",
			"razorpay_payment_id": "pay_1",
			"razorpay_signature":  "sig_1",
		}, sent)
	})

	for _, tc := range []struct {
		body     string
		verified bool
	}{
		{body: ``, verified: false},
		{body: `null`, verified: false},
		{body: `false`, verified: false},
		{body: `0`, verified: false},
		{body: `""`, verified: false},
		{body: `true`, verified: true},
		{body: `1`, verified: true},
		{body: `"ok"`, verified: true},
		{body: `{}`, verified: true},
		{body: `[]`, verified: true},
		{body: `OK`, verified: true},
	} {
		t.Run("body "+tc.body, func(t *testing.T) {
			sut, _ := setup(t, http.StatusOK, tc.body)

			verified, err := sut.VerifyPayment(c, "abc", confirmation)

			assert.NoError(t, err)
			assert.Equal(t, tc.verified, verified)
		})
	}

	t.Run("rejected", func(t *testing.T) {
		sut, _ := setup(t, http.StatusBadRequest, `{"error":"invalid signature"}`)

		verified, err := sut.VerifyPayment(c, "abc", confirmation)

		assert.Error(t, err)
		assert.False(t, verified)
		assert.Equal(t, http.StatusBadRequest, myerrors.GetHTTPStatus(err))
	})
}
