package myratelimit

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/zaptech/zappay/lib/mycontext"
	"github.com/zaptech/zappay/lib/myerrors"
	"github.com/zaptech/zappay/lib/myhttp"
	"github.com/zaptech/zappay/lib/mylog"
	"github.com/zaptech/zappay/lib/mytime"
)

const (
	idleTimeout     = 30 * time.Minute
	cleanupInterval = 5 * time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter keeps a token bucket per client address
type Limiter struct {
	sync.Mutex
	rps     rate.Limit
	burst   int
	nower   mytime.Nower
	clients map[string]*clientLimiter
	logger  mylog.Logger
}

func New(rps float64, burst int, nower mytime.Nower) *Limiter {
	return &Limiter{
		rps:     rate.Limit(rps),
		burst:   burst,
		nower:   nower,
		clients: map[string]*clientLimiter{},
		logger:  mylog.New("ratelimit"),
	}
}

func (l *Limiter) Allow(clientAddress string) bool {
	l.Lock()
	defer l.Unlock()

	now := l.nower.Now()
	client, found := l.clients[clientAddress]
	if !found {
		client = &clientLimiter{
			limiter: rate.NewLimiter(l.rps, l.burst),
		}
		l.clients[clientAddress] = client
	}
	client.lastSeen = now

	return client.limiter.AllowN(now, 1)
}

// Wrap refuses requests with 429 once the client exceeds its budget
func (l *Limiter) Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		address := myhttp.ClientAddress(r)
		if !l.Allow(address) {
			c := mycontext.ContextFromHTTPRequest(r)
			myhttp.NewWriter(l.logger).WriteError(c, w, 1,
				myerrors.NewTooManyRequestsError(fmt.Errorf("too many requests from %s", address)))
			return
		}
		next(w, r)
	}
}

// Cleanup forgets clients that have been idle, until the context is done
func (l *Limiter) Cleanup(c context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.Done():
			return
		case <-ticker.C:
			l.forgetIdle()
		}
	}
}

func (l *Limiter) forgetIdle() int {
	l.Lock()
	defer l.Unlock()

	now := l.nower.Now()
	forgotten := 0
	for address, client := range l.clients {
		if now.Sub(client.lastSeen) > idleTimeout {
			delete(l.clients, address)
			forgotten++
		}
	}
	return forgotten
}
