package relay

import (
	"context"
	"strings"
	"sync"
)

// DefaultEventName is the event name of a regular token group.
const DefaultEventName = "message"

// ErrorEventName is the event name of the final event of a failed stream.
const ErrorEventName = "error"

// TokenGroup is one aggregated piece of text delivered to a sink.
type TokenGroup struct {
	ID    string `json:"id"`
	Event string `json:"event"`
	Text  string `json:"text"`
	Final bool   `json:"final,omitempty"`
}

// Sink receives the groups of exactly one session.
//
// Accept may block until the consumer is ready. After Complete or Fail no more calls are made.
type Sink interface {
	Accept(ctx context.Context, g TokenGroup) error
	Complete() error
	Fail(err error)
}

// BufferSink accumulates every group and exposes the full text once the stream ended.
type BufferSink struct {
	mu   sync.Mutex
	buf  strings.Builder
	done bool
	err  error
}

// NewBufferSink creates an empty buffer sink.
func NewBufferSink() *BufferSink {
	return &BufferSink{}
}

func (s *BufferSink) Accept(_ context.Context, g TokenGroup) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf.WriteString(g.Text)
	return nil
}

func (s *BufferSink) Complete() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done = true
	return nil
}

func (s *BufferSink) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done = true
	s.err = err
}

// Result returns the concatenated text and the failure, if any.
// Before the stream ended it returns the partial text and a nil error.
func (s *BufferSink) Result() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String(), s.err
}

// Event is one server-sent event.
type Event struct {
	ID   string
	Name string
	Data string
}

// EventSink turns groups into events on an unbuffered channel.
// The channel is closed once the stream completes or fails.
type EventSink struct {
	ctx    context.Context
	events chan Event
	once   sync.Once

	mu  sync.Mutex
	err error
}

// NewEventSink creates an event sink whose deliveries give up when ctx is done.
func NewEventSink(ctx context.Context) *EventSink {
	return &EventSink{ctx: ctx, events: make(chan Event)}
}

// Events returns the channel the consumer reads from.
func (s *EventSink) Events() <-chan Event { return s.events }

func (s *EventSink) Accept(ctx context.Context, g TokenGroup) error {
	name := g.Event
	if name == "" {
		name = DefaultEventName
	}
	select {
	case s.events <- Event{ID: g.ID, Name: name, Data: g.Text}:
		return nil
	case <-ctx.Done():
		return &TransportError{Err: ctx.Err()}
	case <-s.ctx.Done():
		return &TransportError{Err: s.ctx.Err()}
	}
}

func (s *EventSink) Complete() error {
	s.once.Do(func() { close(s.events) })
	return nil
}

// Fail records err and, if the consumer is still reading, sends a final error event.
func (s *EventSink) Fail(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()

	s.once.Do(func() {
		select {
		case s.events <- Event{Name: ErrorEventName, Data: err.Error()}:
		case <-s.ctx.Done():
		}
		close(s.events)
	})
}

// Err returns the failure that ended the stream, if any.
func (s *EventSink) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// queueSink holds groups until a Sequence consumer takes them.
type queueSink struct {
	queue     []TokenGroup
	completed bool
	err       error
}

func (s *queueSink) Accept(_ context.Context, g TokenGroup) error {
	s.queue = append(s.queue, g)
	return nil
}

func (s *queueSink) Complete() error {
	s.completed = true
	return nil
}

func (s *queueSink) Fail(err error) {
	s.err = err
}

func (s *queueSink) pop() (TokenGroup, bool) {
	if len(s.queue) == 0 {
		return TokenGroup{}, false
	}
	g := s.queue[0]
	s.queue = s.queue[1:]
	return g, true
}
