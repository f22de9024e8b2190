package backendapi

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/zaptech/zappay/lib/myerrors"
	"github.com/zaptech/zappay/lib/myuuid"
)

// FakeUserCookie identifies the user towards the fake backend
const FakeUserCookie = "zap_token"

// FakeBackend behaves like the real backend, in memory. Signatures follow the
// Razorpay scheme: hex(hmac-sha256(orderID + "|" + paymentID, keySecret)).
type FakeBackend struct {
	sync.Mutex
	keySecret string
	uuider    myuuid.UUIDer
	users     map[string]string
	orders    map[string]Order
}

func NewFakeBackend(keySecret string, uuider myuuid.UUIDer) *FakeBackend {
	return &FakeBackend{
		keySecret: keySecret,
		uuider:    uuider,
		users:     map[string]string{},
		orders:    map[string]Order{},
	}
}

// AddUser makes token a valid access token for the user with the given email
func (f *FakeBackend) AddUser(token string, email string) {
	f.Lock()
	defer f.Unlock()

	f.users[token] = email
}

func (f *FakeBackend) Sign(orderID string, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(f.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func (f *FakeBackend) VerifyAccessToken(c context.Context, token string) (bool, error) {
	f.Lock()
	defer f.Unlock()

	_, known := f.users[token]
	return known, nil
}

func (f *FakeBackend) GetEmail(c context.Context, credentials Credentials) (string, error) {
	f.Lock()
	defer f.Unlock()

	for _, cookie := range credentials.Cookies {
		if cookie.Name == FakeUserCookie {
			if email, known := f.users[cookie.Value]; known {
				return email, nil
			}
		}
	}
	return "", myerrors.NewAuthenticationError(fmt.Errorf("not logged in"))
}

func (f *FakeBackend) CreateOrder(c context.Context, bearer string, amount int) (Order, error) {
	f.Lock()
	defer f.Unlock()

	if _, known := f.users[bearer]; !known {
		return Order{}, myerrors.NewAuthenticationError(fmt.Errorf("unknown bearer token"))
	}
	if amount <= 0 {
		return Order{}, myerrors.NewInvalidInputError(fmt.Errorf("invalid amount %d", amount))
	}

	order := Order{
		OrderID:  "order_" + f.uuider.Create(),
		Amount:   int64(amount) * 100,
		Currency: "INR",
	}
	f.orders[order.OrderID] = order

	return order, nil
}

func (f *FakeBackend) VerifyPayment(c context.Context, bearer string, confirmation Confirmation) (bool, error) {
	if _, known := f.knownUser(bearer); !known {
		return false, myerrors.NewAuthenticationError(fmt.Errorf("unknown bearer token"))
	}

	f.Lock()
	_, found := f.orders[confirmation.OrderID]
	f.Unlock()
	if !found {
		return false, myerrors.NewNotFoundError(fmt.Errorf("order %s not found", confirmation.OrderID))
	}

	expected := f.Sign(confirmation.OrderID, confirmation.PaymentID)
	return hmac.Equal([]byte(expected), []byte(confirmation.Signature)), nil
}

func (f *FakeBackend) knownUser(token string) (string, bool) {
	f.Lock()
	defer f.Unlock()

	email, known := f.users[token]
	return email, known
}
