package razorpay

import (
	"fmt"
	"net/http"
	"strings"

	formcodec "github.com/go-playground/form/v4"

	"github.com/zaptech/zappay/lib/myerrors"
	"github.com/zaptech/zappay/services/backendapi"
	"github.com/zaptech/zappay/services/widget"
)

// successForm is posted by the page with the fields of the checkout handler response
type successForm struct {
	OrderID   string `form:"razorpay_order_id"`
	PaymentID string `form:"razorpay_payment_id"`
	Signature string `form:"razorpay_signature"`
}

// failureForm is posted by the page from the payment.failed error object
type failureForm struct {
	Code        string `form:"code"`
	Description string `form:"description"`
	Reason      string `form:"reason"`
	OrderID     string `form:"order_id"`
	PaymentID   string `form:"payment_id"`
}

func ParseSuccess(r *http.Request) (widget.Succeeded, error) {
	form := successForm{}
	err := decode(r, &form)
	if err != nil {
		return widget.Succeeded{}, err
	}

	missing := []string{}
	if form.OrderID == "" {
		missing = append(missing, "razorpay_order_id")
	}
	if form.PaymentID == "" {
		missing = append(missing, "razorpay_payment_id")
	}
	if form.Signature == "" {
		missing = append(missing, "razorpay_signature")
	}
	if len(missing) > 0 {
		return widget.Succeeded{}, myerrors.NewInvalidInputError(fmt.Errorf("missing %s", strings.Join(missing, ", ")))
	}

	return widget.Succeeded{
		Confirmation: backendapi.Confirmation{
			OrderID:   form.OrderID,
			PaymentID: form.PaymentID,
			Signature: form.Signature,
		},
	}, nil
}

func ParseFailure(r *http.Request) (widget.Failed, error) {
	form := failureForm{}
	err := decode(r, &form)
	if err != nil {
		return widget.Failed{}, err
	}

	return widget.Failed{
		Description: form.Description,
	}, nil
}

func decode(r *http.Request, dest any) error {
	err := r.ParseForm()
	if err != nil {
		return myerrors.NewInvalidInputError(err)
	}
	err = formcodec.NewDecoder().Decode(dest, r.PostForm)
	if err != nil {
		return myerrors.NewInvalidInputError(fmt.Errorf("error decoding widget callback: %w", err))
	}
	return nil
}
