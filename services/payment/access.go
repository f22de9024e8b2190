package payment

import (
	"context"

	"github.com/zaptech/zappay/lib/mylog"
	"github.com/zaptech/zappay/services/backendapi"
)

// accessValidator fails closed: anything but an explicit yes from the backend is invalid
type accessValidator struct {
	backend backendapi.Client
	logger  mylog.Logger
}

func (v accessValidator) validate(c context.Context, sessionUID string, token string) bool {
	if token == "" {
		v.logger.Log(c, sessionUID, mylog.SeverityInfo, "No access token presented")
		return false
	}

	valid, err := v.backend.VerifyAccessToken(c, token)
	if err != nil {
		v.logger.Log(c, sessionUID, mylog.SeverityWarn, "Error verifying access token: %s", err)
		return false
	}
	if !valid {
		v.logger.Log(c, sessionUID, mylog.SeverityInfo, "Access token rejected by backend")
	}

	return valid
}

// emailResolver never blocks the payment: failures leave the email absent
type emailResolver struct {
	backend backendapi.Client
	logger  mylog.Logger
}

func (r emailResolver) resolve(c context.Context, sessionUID string, credentials backendapi.Credentials) string {
	email, err := r.backend.GetEmail(c, credentials)
	if err != nil {
		r.logger.Log(c, sessionUID, mylog.SeverityWarn, "Error fetching user email: %s", err)
		return ""
	}
	return email
}
