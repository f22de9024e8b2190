package backendapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/zaptech/zappay/lib/mycontext"
	"github.com/zaptech/zappay/lib/myerrors"
	"github.com/zaptech/zappay/lib/myhttp"
	"github.com/zaptech/zappay/lib/mylog"
)

type verifyPaymentResponse struct {
	Success bool `json:"success"`
}

// RegisterEndpoints serves the fake over http, the same way the real backend does
func (f *FakeBackend) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/api/verify-payment-token", f.verifyTokenHandler()).Methods("POST")
	router.HandleFunc("/api/get-email", f.getEmailHandler()).Methods("GET")
	router.HandleFunc("/api/create-order", f.createOrderHandler()).Methods("POST")
	router.HandleFunc("/api/verify-payment", f.verifyPaymentHandler()).Methods("POST")
	return nil
}

func (f *FakeBackend) verifyTokenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		writer := myhttp.NewWriter(mylog.New("fakebackend"))

		req := verifyTokenRequest{}
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			writer.WriteError(c, w, 1, myerrors.NewInvalidInputError(err))
			return
		}

		valid, err := f.VerifyAccessToken(c, req.Token)
		if err != nil {
			writer.WriteError(c, w, 1, err)
			return
		}
		writer.Write(c, w, http.StatusOK, verifyTokenResponse{Valid: valid})
	}
}

func (f *FakeBackend) getEmailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		writer := myhttp.NewWriter(mylog.New("fakebackend"))

		email, err := f.GetEmail(c, Credentials{Cookies: r.Cookies()})
		if err != nil {
			writer.WriteError(c, w, 2, err)
			return
		}
		writer.Write(c, w, http.StatusOK, getEmailResponse{Email: &email})
	}
}

func (f *FakeBackend) createOrderHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		writer := myhttp.NewWriter(mylog.New("fakebackend"))

		bearer, err := bearerOf(r)
		if err != nil {
			writer.WriteError(c, w, 3, err)
			return
		}
		req := createOrderRequest{}
		err = json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			writer.WriteError(c, w, 3, myerrors.NewInvalidInputError(err))
			return
		}

		order, err := f.CreateOrder(c, bearer, req.Amount)
		if err != nil {
			writer.WriteError(c, w, 3, err)
			return
		}
		writer.Write(c, w, http.StatusOK, order)
	}
}

func (f *FakeBackend) verifyPaymentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		writer := myhttp.NewWriter(mylog.New("fakebackend"))

		bearer, err := bearerOf(r)
		if err != nil {
			writer.WriteError(c, w, 4, err)
			return
		}
		req := Confirmation{}
		err = json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			writer.WriteError(c, w, 4, myerrors.NewInvalidInputError(err))
			return
		}

		verified, err := f.VerifyPayment(c, bearer, req)
		if err != nil {
			writer.WriteError(c, w, 4, err)
			return
		}
		if !verified {
			writer.Write(c, w, http.StatusOK, false)
			return
		}
		writer.Write(c, w, http.StatusOK, verifyPaymentResponse{Success: true})
	}
}

func bearerOf(r *http.Request) (string, error) {
	const prefix = "Bearer "
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, prefix) {
		return "", myerrors.NewAuthenticationError(fmt.Errorf("missing bearer token"))
	}
	return strings.TrimPrefix(header, prefix), nil
}
