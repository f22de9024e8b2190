package payment

import (
	"context"

	"github.com/zaptech/zappay/lib/mylog"
	"github.com/zaptech/zappay/lib/mypublisher"
	"github.com/zaptech/zappay/lib/mystore"
	"github.com/zaptech/zappay/lib/mytime"
	"github.com/zaptech/zappay/lib/myuuid"
	"github.com/zaptech/zappay/services/backendapi"
	"github.com/zaptech/zappay/services/paymentevents"
	"github.com/zaptech/zappay/services/widget"
)

type service struct {
	config       Config
	sessionStore mystore.Store[Session]
	backend      backendapi.Client
	validator    accessValidator
	resolver     emailResolver
	widget       widget.Widget
	publisher    mypublisher.Publisher
	nower        mytime.Nower
	uuider       myuuid.UUIDer
	logger       mylog.Logger
}

func newService(config Config, sessionStore mystore.Store[Session], backend backendapi.Client, wdgt widget.Widget, pub mypublisher.Publisher, nower mytime.Nower, uuider myuuid.UUIDer, logger mylog.Logger) *service {
	return &service{
		config:       config,
		sessionStore: sessionStore,
		backend:      backend,
		validator:    accessValidator{backend: backend, logger: logger},
		resolver:     emailResolver{backend: backend, logger: logger},
		widget:       wdgt,
		publisher:    pub,
		nower:        nower,
		uuider:       uuider,
		logger:       logger,
	}
}

func (s *service) CreateTopics(c context.Context) error {
	return s.publisher.CreateTopic(c, paymentevents.TopicName)
}
