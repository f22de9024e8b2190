package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/zaptech/zappay/lib/myconfig"
	"github.com/zaptech/zappay/lib/myhttpclient"
	"github.com/zaptech/zappay/lib/mypublisher"
	"github.com/zaptech/zappay/lib/mypubsub"
	"github.com/zaptech/zappay/lib/myqueue"
	"github.com/zaptech/zappay/lib/myratelimit"
	"github.com/zaptech/zappay/lib/mystore"
	"github.com/zaptech/zappay/lib/mytime"
	"github.com/zaptech/zappay/lib/myuuid"
	"github.com/zaptech/zappay/services/backendapi"
	"github.com/zaptech/zappay/services/payment"
	"github.com/zaptech/zappay/services/paymentaudit"
	"github.com/zaptech/zappay/services/warmup"
	"github.com/zaptech/zappay/services/widget/razorpay"
)

func main() {
	c, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := myconfig.Load(os.Getenv("ZAPPAY_CONFIG"))
	if err != nil {
		log.Fatalf("Error loading configuration: %s", err)
	}

	router := mux.NewRouter()

	nower := mytime.RealNower{}
	uuider := myuuid.RealUUIDer{}

	queue, queueCleanup, err := myqueue.New(c)
	if err != nil {
		log.Fatalf("Error creating queue: %s", err)
	}
	defer queueCleanup()

	pubsub, pubsubCleanup, err := mypubsub.New(c)
	if err != nil {
		log.Fatalf("Error creating pubsub: %s", err)
	}
	defer pubsubCleanup()

	publisher, publisherCleanup, err := mypublisher.New(c, pubsub, queue, nower)
	if err != nil {
		log.Fatalf("Error creating publisher: %s", err)
	}
	defer publisherCleanup()
	err = publisher.RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering publisher endpoints: %s", err)
	}

	sessionStore, sessionStoreCleanup, err := mystore.New[payment.Session](c)
	if err != nil {
		log.Fatalf("Error creating session store: %s", err)
	}
	defer sessionStoreCleanup()

	limiter := myratelimit.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst, nower)
	go limiter.Cleanup(c)

	if cfg.FakeBackend.Enabled {
		fake := backendapi.NewFakeBackend(cfg.FakeBackend.KeySecret, uuider)
		fake.AddUser(cfg.FakeBackend.Token, cfg.FakeBackend.Email)
		err = fake.RegisterEndpoints(c, router)
		if err != nil {
			log.Fatalf("Error registering fake backend endpoints: %s", err)
		}
		log.Printf("Serving fake backend on %s (token %q)", cfg.APIURL, cfg.FakeBackend.Token)
	}

	{
		paymentService := payment.NewService(payment.Config{
			KeyID:           cfg.RazorpayKeyID,
			RedirectBaseURL: cfg.RedirectBaseURL,
			ScriptURL:       razorpay.ScriptURL,
			Branding: payment.Branding{
				Name:        cfg.Branding.Name,
				Description: cfg.Branding.Description,
				Address:     cfg.Branding.Address,
				ThemeColor:  cfg.Branding.ThemeColor,
				PrefillName: cfg.Branding.PrefillName,
			},
		}, sessionStore, backendapi.New(cfg.APIURL, myhttpclient.New()), razorpay.New(), publisher, nower, uuider, limiter)
		err = paymentService.RegisterEndpoints(c, router)
		if err != nil {
			log.Fatalf("Error registering payment endpoints: %s", err)
		}
	}

	{
		auditStore, auditStoreCleanup, err := mystore.New[paymentaudit.Entry](c)
		if err != nil {
			log.Fatalf("Error creating audit store: %s", err)
		}
		defer auditStoreCleanup()

		auditService := paymentaudit.NewService(auditStore, pubsub, nower, uuider, cfg.ServiceURL)
		err = auditService.RegisterEndpoints(c, router)
		if err != nil {
			log.Fatalf("Error registering payment audit endpoints: %s", err)
		}
	}

	{
		warmupService := warmup.NewService(sessionStore)
		err = warmupService.RegisterEndpoints(c, router)
		if err != nil {
			log.Fatalf("Error registering warmup endpoints: %s", err)
		}
	}

	startWebServerBlocking(cfg.Port, router)
}

func startWebServerBlocking(port string, router *mux.Router) {
	log.Printf("Starting webserver on port %s (try http://localhost:%s/payment?token=...)", port, port)
	err := http.ListenAndServe(fmt.Sprintf(":%s", port), router)
	if err != nil {
		log.Fatalf("Error starting webserver on port %s: %s", port, err)
	}
}
