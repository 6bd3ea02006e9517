// Package realtime contains the change subscription hub.
// Row changes are published by the database trigger on Channel and fanned out to subscribers.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("layer", "realtime").WithField("package", "realtime")

// Channel is a notification channel the change trigger publishes to.
const Channel = "fomo_changes"

// ErrInvalidFilter ...
var ErrInvalidFilter = errors.New("invalid filter")

// EventType ...
type EventType string

const (
	// EventInsert ...
	EventInsert EventType = "INSERT"
	// EventUpdate ...
	EventUpdate EventType = "UPDATE"
	// EventDelete ...
	EventDelete EventType = "DELETE"
)

// Event is a row change.
type Event struct {
	Table           string                 `json:"table"`
	Type            EventType              `json:"type"`
	Record          map[string]interface{} `json:"record,omitempty"`
	OldRecord       map[string]interface{} `json:"old_record,omitempty"`
	CommitTimestamp time.Time              `json:"commit_timestamp"`
	// Truncated is set when record is reduced to key columns.
	Truncated bool `json:"truncated,omitempty"`
}

// Filter selects events delivered to a subscription.
type Filter struct {
	// Tables subscription is scoped to. Empty means all tables.
	Tables []string
	// Column and Value are an optional row filter: Column equals Value.
	Column string
	Value  string
}

// ParseFilter parses tables list and a row filter in "column=eq.value" form.
func ParseFilter(tables []string, row string) (Filter, error) {
	f := Filter{Tables: tables}

	if row == "" {
		return f, nil
	}

	i := strings.Index(row, "=eq.")
	if i <= 0 {
		return Filter{}, fmt.Errorf("%w: %s", ErrInvalidFilter, row)
	}

	f.Column, f.Value = row[:i], row[i+len("=eq."):]

	return f, nil
}

// Match returns true if event passes the filter.
// Deleted rows are matched by their old record. Truncated events keep key columns only,
// so they pass filters on other columns and subscribers re-read the row.
func (f Filter) Match(e Event) bool {
	if len(f.Tables) > 0 {
		ok := false
		for _, v := range f.Tables {
			if v == e.Table {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}

	if f.Column == "" {
		return true
	}

	rec := e.Record
	if e.Type == EventDelete {
		rec = e.OldRecord
	}

	v, ok := rec[f.Column]
	if !ok && e.Truncated {
		return true
	}
	if !ok || v == nil {
		return false
	}

	return fmt.Sprint(v) == f.Value
}

// Listener is a source of notifications. *pq.Listener satisfies it.
type Listener interface {
	Listen(channel string) error
	NotificationChannel() <-chan *pq.Notification
	Ping() error
	Close() error
}

// Subscription is a handle returned by Hub.Subscribe.
type Subscription struct {
	f  Filter
	cb func(e Event)

	mu     sync.Mutex
	closed bool
}

func (s *Subscription) deliver(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	s.cb(e)
}

// Hub delivers events to subscriptions in the order the listener receives them.
// Callbacks are called from the Run goroutine one at a time, so a slow callback delays others.
type Hub struct {
	l Listener

	mu   sync.RWMutex
	subs []*Subscription

	events int64
}

// New creates new instance of Hub.
func New(l Listener) *Hub {
	return &Hub{
		l: l,
	}
}

// Subscribe registers cb for events passing f.
func (h *Hub) Subscribe(f Filter, cb func(e Event)) *Subscription {
	s := &Subscription{
		f:  f,
		cb: cb,
	}

	h.mu.Lock()
	h.subs = append(h.subs, s)
	h.mu.Unlock()

	return s
}

// Unsubscribe removes subscription. No callback of s is invoked after it returns.
// It must not be called from inside the subscription's own callback.
func (h *Hub) Unsubscribe(s *Subscription) {
	h.mu.Lock()
	for i, v := range h.subs {
		if v == s {
			h.subs = append(h.subs[:i:i], h.subs[i+1:]...)
			break
		}
	}
	h.mu.Unlock()

	// waits for running callback
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// Ping checks listener connection.
func (h *Hub) Ping(_ context.Context) error {
	if err := h.l.Ping(); err != nil {
		return fmt.Errorf("failed to ping listener: %w", err)
	}
	return nil
}

// Run listens Channel and dispatches events until ctx is done.
func (h *Hub) Run(ctx context.Context) error {
	if err := h.l.Listen(Channel); err != nil && !errors.Is(err, pq.ErrChannelAlreadyOpen) {
		return fmt.Errorf("failed to listen %s: %w", Channel, err)
	}

	ch := h.l.NotificationChannel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case n, ok := <-ch:
			if !ok {
				return errors.New("notification channel is closed")
			}

			// nil notification is sent after connection was re-established
			if n == nil {
				log.Warn("listener reconnected, changes may have been missed")
				continue
			}

			h.dispatch(n)
		}
	}
}

func (h *Hub) dispatch(n *pq.Notification) {
	var e Event
	if err := json.Unmarshal([]byte(n.Extra), &e); err != nil {
		log.WithError(err).WithField("payload", n.Extra).Error("failed to decode change")
		return
	}

	atomic.AddInt64(&h.events, 1)

	h.mu.RLock()
	subs := make([]*Subscription, len(h.subs))
	copy(subs, h.subs)
	h.mu.RUnlock()

	for _, s := range subs {
		if s.f.Match(e) {
			s.deliver(e)
		}
	}
}

// Events returns number of dispatched events.
func (h *Hub) Events() int64 {
	return atomic.LoadInt64(&h.events)
}
