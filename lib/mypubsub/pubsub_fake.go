package mypubsub

import (
	"context"
	"os"
	"sync"
)

// FakePubSub keeps published messages in memory, per topic
type FakePubSub struct {
	sync.Mutex
	topics    map[string][]string
	listeners map[string][]string
}

func init() {
	if os.Getenv("GOOGLE_CLOUD_PROJECT") == "" {
		New = newFakePubSub
	}
}

func newFakePubSub(c context.Context) (PubSub, func(), error) {
	return NewFakePubSub(), func() {}, nil
}

func NewFakePubSub() *FakePubSub {
	return &FakePubSub{
		topics:    map[string][]string{},
		listeners: map[string][]string{},
	}
}

func (ps *FakePubSub) Subscribe(c context.Context, topic string, urlToPostTo string) error {
	ps.Lock()
	defer ps.Unlock()

	ps.listeners[topic] = append(ps.listeners[topic], urlToPostTo)
	return nil
}

func (ps *FakePubSub) CreateTopic(c context.Context, topic string) error {
	ps.Lock()
	defer ps.Unlock()

	if _, exists := ps.topics[topic]; !exists {
		ps.topics[topic] = []string{}
	}
	return nil
}

func (ps *FakePubSub) Publish(c context.Context, topic string, data string) error {
	ps.Lock()
	defer ps.Unlock()

	ps.topics[topic] = append(ps.topics[topic], data)
	return nil
}

func (ps *FakePubSub) Published(topic string) []string {
	ps.Lock()
	defer ps.Unlock()

	return append([]string{}, ps.topics[topic]...)
}
