// Package mediator provides the in-process publish/subscribe bus that
// decouples the experiment loop from its observers.
//
// Delivery is synchronous and in subscription order: Publish does not
// return until every handler has returned, and a handler error
// propagates to the publisher. Channels are identified by name only
// and exist implicitly on first Subscribe or Publish.
package mediator

import (
	"github.com/propel-ml/propel/report"
)

// Channel names produced by the experiment core.
const (
	// DoneEpoch carries the merged report at the end of every epoch.
	DoneEpoch = "doneEpoch"
	// DoneExperiment carries the final report and a termination reason.
	DoneExperiment = "doneExperiment"
)

// Event is the payload delivered on a channel. Which fields are
// populated is a convention between publisher and subscribers.
type Event struct {
	Channel string
	Epoch   int
	Report  *report.Node
	Reason  string
}

// Handler reacts to one Event. A non-nil error aborts the dispatch and
// is returned from Publish.
type Handler func(Event) error

// Subscription identifies one registered handler so it can later be
// removed. Handlers are funcs and not comparable, so Subscribe hands
// out tokens instead.
type Subscription struct {
	channel string
	handler Handler
}

// Mediator is a named-channel synchronous event bus. It is not safe
// for concurrent use; the experiment core is single-threaded by
// design. It does tolerate re-entrant Subscribe, Unsubscribe and
// Publish calls from within a handler.
type Mediator struct {
	channels map[string][]*Subscription
}

// New returns an empty Mediator.
func New() *Mediator {
	return &Mediator{channels: make(map[string][]*Subscription)}
}

// Subscribe registers handler on channel and returns a token for
// Unsubscribe. Handlers fire in subscription order.
func (m *Mediator) Subscribe(channel string, handler Handler) *Subscription {
	sub := &Subscription{channel: channel, handler: handler}
	m.channels[channel] = append(m.channels[channel], sub)
	return sub
}

// Unsubscribe removes a previously registered handler. Removing a
// handler during a dispatch round does not affect that round: the
// remaining handlers still run exactly once.
func (m *Mediator) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	subs := m.channels[sub.channel]
	for i, s := range subs {
		if s == sub {
			m.channels[sub.channel] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Publish delivers e to every handler subscribed to channel, in
// subscription order, and returns the first handler error. The
// subscriber list is snapshotted before dispatch so handlers may
// subscribe, unsubscribe, or publish without corrupting the round.
func (m *Mediator) Publish(channel string, e Event) error {
	e.Channel = channel
	subs := m.channels[channel]
	round := make([]*Subscription, len(subs))
	copy(round, subs)
	for _, sub := range round {
		if err := sub.handler(e); err != nil {
			return err
		}
	}
	return nil
}

// Subscribers returns how many handlers are registered on channel.
func (m *Mediator) Subscribers(channel string) int {
	return len(m.channels[channel])
}
