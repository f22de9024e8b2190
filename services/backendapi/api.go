package backendapi

import (
	"context"
	"net/http"
)

// Credentials carry the implicit identity of the browser session: its cookies
type Credentials struct {
	Cookies []*http.Cookie
}

type Order struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency,omitempty"`
}

// Confirmation is what the widget hands over after a successful payment
type Confirmation struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

//go:generate mockgen -source=api.go -package backendapi -destination client_mock.go Client
type Client interface {
	VerifyAccessToken(c context.Context, token string) (bool, error)
	GetEmail(c context.Context, credentials Credentials) (string, error)
	CreateOrder(c context.Context, bearer string, amount int) (Order, error)
	VerifyPayment(c context.Context, bearer string, confirmation Confirmation) (bool, error)
}
