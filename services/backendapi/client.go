package backendapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/zaptech/zappay/lib/myerrors"
	"github.com/zaptech/zappay/lib/myhttpclient"
	"github.com/zaptech/zappay/lib/mylog"
)

type verifyTokenRequest struct {
	Token string `json:"token"`
}

type verifyTokenResponse struct {
	Valid bool `json:"valid"`
}

type getEmailResponse struct {
	Email *string `json:"email"`
}

type createOrderRequest struct {
	Amount int `json:"amount"`
}

type httpClient struct {
	baseURL string
	sender  myhttpclient.HTTPSender
	logger  mylog.Logger
}

// New talks to the backend at baseURL; every operation is a single attempt
func New(baseURL string, sender myhttpclient.HTTPSender) *httpClient {
	return &httpClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		sender:  sender,
		logger:  mylog.New("backendapi"),
	}
}

func (bc *httpClient) VerifyAccessToken(c context.Context, token string) (bool, error) {
	resp := verifyTokenResponse{}
	err := bc.call(c, http.MethodPost, "/api/verify-payment-token", http.Header{}, verifyTokenRequest{Token: token}, &resp)
	if err != nil {
		return false, fmt.Errorf("error verifying access token: %w", err)
	}
	return resp.Valid, nil
}

func (bc *httpClient) GetEmail(c context.Context, credentials Credentials) (string, error) {
	headers := http.Header{}
	cookies := []string{}
	for _, cookie := range credentials.Cookies {
		cookies = append(cookies, (&http.Cookie{Name: cookie.Name, Value: cookie.Value}).String())
	}
	if len(cookies) > 0 {
		headers.Set("Cookie", strings.Join(cookies, "; "))
	}

	resp := getEmailResponse{}
	err := bc.call(c, http.MethodGet, "/api/get-email", headers, nil, &resp)
	if err != nil {
		return "", fmt.Errorf("error fetching email: %w", err)
	}
	if resp.Email == nil {
		return "", nil
	}
	return *resp.Email, nil
}

func (bc *httpClient) CreateOrder(c context.Context, bearer string, amount int) (Order, error) {
	order := Order{}
	err := bc.call(c, http.MethodPost, "/api/create-order", bearerHeader(bearer), createOrderRequest{Amount: amount}, &order)
	if err != nil {
		return Order{}, fmt.Errorf("error creating order: %w", err)
	}
	if order.OrderID == "" {
		return Order{}, myerrors.NewBadGatewayError(fmt.Errorf("order id not received from backend"))
	}
	return order, nil
}

func (bc *httpClient) VerifyPayment(c context.Context, bearer string, confirmation Confirmation) (bool, error) {
	respBody, err := bc.send(c, http.MethodPost, "/api/verify-payment", bearerHeader(bearer), confirmation)
	if err != nil {
		return false, fmt.Errorf("error verifying payment %s: %w", confirmation.PaymentID, err)
	}
	return isTruthy(respBody), nil
}

func (bc *httpClient) call(c context.Context, method string, path string, headers http.Header, request any, response any) error {
	respBody, err := bc.send(c, method, path, headers, request)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	err = json.Unmarshal(respBody, response)
	if err != nil {
		return myerrors.NewBadGatewayError(fmt.Errorf("error parsing response of %s %s: %w", method, path, err))
	}
	return nil
}

func (bc *httpClient) send(c context.Context, method string, path string, headers http.Header, request any) ([]byte, error) {
	var reqBody []byte
	if request != nil {
		var err error
		reqBody, err = json.Marshal(request)
		if err != nil {
			return nil, myerrors.NewInternalError(fmt.Errorf("error marshalling request of %s %s: %w", method, path, err))
		}
	}

	httpStatus, respBody, err := bc.sender.Send(c, method, bc.baseURL+path, headers, reqBody)
	if err != nil {
		return nil, myerrors.NewUnavailableError(err)
	}

	if httpStatus < 200 || httpStatus >= 300 {
		bc.logger.Log(c, "", mylog.SeverityWarn, "%s %s answered %d", method, path, httpStatus)
		return nil, classify(httpStatus, fmt.Errorf("%s %s answered %d", method, path, httpStatus))
	}

	return respBody, nil
}

func classify(httpStatus int, err error) error {
	switch {
	case httpStatus == http.StatusUnauthorized || httpStatus == http.StatusForbidden:
		return myerrors.NewAuthenticationError(err)
	case httpStatus == http.StatusNotFound:
		return myerrors.NewNotFoundError(err)
	case httpStatus == http.StatusTooManyRequests:
		return myerrors.NewTooManyRequestsError(err)
	case httpStatus >= 400 && httpStatus < 500:
		return myerrors.NewInvalidInputError(err)
	default:
		return myerrors.NewBadGatewayError(err)
	}
}

func bearerHeader(bearer string) http.Header {
	headers := http.Header{}
	headers.Set("Authorization", "Bearer "+bearer)
	return headers
}

// isTruthy applies the loose truthiness browsers use: empty, null, false, 0 and "" are false
func isTruthy(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return false
	}

	var value any
	err := json.Unmarshal(trimmed, &value)
	if err != nil {
		// not json: a non-empty text body
		return true
	}

	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		return v != ""
	default:
		return true
	}
}
