package payment

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	formcodec "github.com/go-playground/form/v4"
	"github.com/gorilla/mux"

	"github.com/zaptech/zappay/lib/mycontext"
	"github.com/zaptech/zappay/lib/myerrors"
	"github.com/zaptech/zappay/lib/myhttp"
	"github.com/zaptech/zappay/lib/mylog"
	"github.com/zaptech/zappay/lib/mypublisher"
	"github.com/zaptech/zappay/lib/mystore"
	"github.com/zaptech/zappay/lib/mytime"
	"github.com/zaptech/zappay/lib/myuuid"
	"github.com/zaptech/zappay/services/backendapi"
	"github.com/zaptech/zappay/services/widget"
	"github.com/zaptech/zappay/services/widget/razorpay"
)

type requestLimiter interface {
	Wrap(next http.HandlerFunc) http.HandlerFunc
}

type payForm struct {
	ScriptLoaded bool `form:"scriptLoaded"`
}

type webService struct {
	service *service
	limiter requestLimiter
	logger  mylog.Logger
}

// Use dependency injection to isolate the infrastructure and ease testing
func NewService(config Config, sessionStore mystore.Store[Session], backend backendapi.Client, wdgt widget.Widget, pub mypublisher.Publisher, nower mytime.Nower, uuider myuuid.UUIDer, limiter requestLimiter) *webService {
	logger := mylog.New("payment")
	return &webService{
		service: newService(config, sessionStore, backend, wdgt, pub, nower, uuider, logger),
		limiter: limiter,
		logger:  logger,
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/", s.rootRedirect()).Methods("GET")

	// Endpoints that compose the payment page
	router.HandleFunc("/payment", s.limiter.Wrap(s.openPage())).Methods("GET")
	router.HandleFunc("/payment/{sessionUID}", s.sessionPage()).Methods("GET")
	router.HandleFunc("/payment/{sessionUID}", s.limiter.Wrap(s.payPage())).Methods("POST")

	// The page posts the outcome of the widget here
	router.HandleFunc("/payment/{sessionUID}/widget/success", s.widgetSuccessCallback()).Methods("POST")
	router.HandleFunc("/payment/{sessionUID}/widget/failure", s.widgetFailureCallback()).Methods("POST")

	err := s.service.CreateTopics(c)
	if err != nil {
		return err
	}

	return nil
}

//go:embed templates
var templateFolder embed.FS
var (
	paymentPageTemplate *template.Template
)

func init() {
	paymentPageTemplate = template.Must(template.ParseFS(templateFolder, "templates/payment.html"))
}

func (s *webService) rootRedirect() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target := "/payment"
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, target, http.StatusFound)
	}
}

func (s *webService) openPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		token := r.URL.Query().Get("token")

		session, err := s.service.openSession(c, token, backendapi.Credentials{Cookies: r.Cookies()})
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		if session.TokenCheck != TokenValid {
			s.render(c, w, http.StatusOK, newPageView(session, s.service.config, nil))
			return
		}

		// Keep the token out of the address bar from here on
		http.Redirect(w, r, fmt.Sprintf("/payment/%s", session.UID), http.StatusSeeOther)
	}
}

func (s *webService) sessionPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		sessionUID := mux.Vars(r)["sessionUID"]

		session, err := s.service.getSession(c, sessionUID)
		if err != nil {
			if myerrors.GetHTTPStatus(err) == http.StatusNotFound {
				s.render(c, w, http.StatusNotFound, newPageView(Session{UID: sessionUID, TokenCheck: TokenInvalid}, s.service.config, nil))
				return
			}
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		s.render(c, w, http.StatusOK, newPageView(session, s.service.config, nil))
	}
}

func (s *webService) payPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		sessionUID := mux.Vars(r)["sessionUID"]

		err := r.ParseForm()
		if err != nil {
			errorWriter.WriteError(c, w, 3, myerrors.NewInvalidInputError(err))
			return
		}
		form := payForm{}
		err = formcodec.NewDecoder().Decode(&form, r.PostForm)
		if err != nil {
			errorWriter.WriteError(c, w, 3, myerrors.NewInvalidInputError(err))
			return
		}

		session, handoff, err := s.service.initiatePayment(c, sessionUID, form.ScriptLoaded)
		if err != nil {
			errorWriter.WriteError(c, w, 4, err)
			return
		}

		s.render(c, w, http.StatusOK, newPageView(session, s.service.config, handoff))
	}
}

func (s *webService) widgetSuccessCallback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		sessionUID := mux.Vars(r)["sessionUID"]

		event, err := razorpay.ParseSuccess(r)
		if err != nil {
			errorWriter.WriteError(c, w, 5, err)
			return
		}

		_, err = s.service.onWidgetEvent(c, sessionUID, event)
		if err != nil {
			errorWriter.WriteError(c, w, 6, err)
			return
		}

		http.Redirect(w, r, fmt.Sprintf("/payment/%s", sessionUID), http.StatusSeeOther)
	}
}

func (s *webService) widgetFailureCallback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		sessionUID := mux.Vars(r)["sessionUID"]

		event, err := razorpay.ParseFailure(r)
		if err != nil {
			errorWriter.WriteError(c, w, 7, err)
			return
		}

		_, err = s.service.onWidgetEvent(c, sessionUID, event)
		if err != nil {
			errorWriter.WriteError(c, w, 8, err)
			return
		}

		http.Redirect(w, r, fmt.Sprintf("/payment/%s", sessionUID), http.StatusSeeOther)
	}
}

func (s *webService) render(c context.Context, w http.ResponseWriter, httpStatus int, view PageView) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(httpStatus)
	err := paymentPageTemplate.Execute(w, view)
	if err != nil {
		s.logger.Log(c, view.SessionUID, mylog.SeverityError, "Error rendering payment page: %s", err)
	}
}
