package relay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/zoobzio/capitan"

	"holidays-app/internal/contextutil"
	"holidays-app/internal/llm"
)

// DefaultIdleTimeout bounds the wait for the next upstream chunk on event streams.
const DefaultIdleTimeout = 60 * time.Second

// SinkKind selects the transport of a session.
type SinkKind string

const (
	SinkBuffer   SinkKind = "buffer"
	SinkEvents   SinkKind = "events"
	SinkSequence SinkKind = "sequence"
)

// Options tunes a session.
type Options struct {
	// FlushThreshold is the buffered length, in characters, that forces a flush.
	FlushThreshold int
	// IdleTimeout bounds the wait for each upstream chunk on event streams. Zero disables it.
	IdleTimeout time.Duration
	// FlushOnError delivers the buffered remainder before the failure instead of discarding it.
	FlushOnError bool
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		FlushThreshold: DefaultFlushThreshold,
		IdleTimeout:    DefaultIdleTimeout,
	}
}

// Option overrides a single option for one session.
type Option func(*Options)

// WithFlushThreshold overrides the flush threshold.
func WithFlushThreshold(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.FlushThreshold = n
		}
	}
}

// WithIdleTimeout overrides the idle timeout.
func WithIdleTimeout(d time.Duration) Option {
	return func(o *Options) {
		if d >= 0 {
			o.IdleTimeout = d
		}
	}
}

// WithFlushOnError overrides the error flush policy.
func WithFlushOnError(v bool) Option {
	return func(o *Options) {
		o.FlushOnError = v
	}
}

// Relay opens upstream sources and drives them into sinks, one session per call.
// It holds no per-session state.
type Relay struct {
	opener Opener
	opts   Options
}

// New creates a Relay with the given defaults.
func New(opener Opener, opts Options) *Relay {
	if opts.FlushThreshold < 1 {
		opts.FlushThreshold = DefaultFlushThreshold
	}
	if opts.IdleTimeout < 0 {
		opts.IdleTimeout = DefaultIdleTimeout
	}
	return &Relay{opener: opener, opts: opts}
}

// Handle is the result of Run. Exactly one of Text, Stream and Sequence is set,
// according to Kind.
type Handle struct {
	ID       string
	Kind     SinkKind
	Text     string
	Stream   *EventStream
	Sequence *Sequence
}

// Run starts a session with the sink of the given kind.
func (r *Relay) Run(ctx context.Context, req llm.ChatRequest, kind SinkKind, opts ...Option) (Handle, error) {
	switch kind {
	case SinkBuffer:
		s, err := r.open(ctx, req, kind, NewBufferSink(), opts)
		if err != nil {
			return Handle{}, err
		}
		text, err := s.bufferResult(ctx)
		return Handle{ID: s.id, Kind: kind, Text: text}, err
	case SinkEvents:
		stream, err := r.Events(ctx, req, opts...)
		if err != nil {
			return Handle{}, err
		}
		return Handle{ID: stream.ID, Kind: kind, Stream: stream}, nil
	case SinkSequence:
		seq, err := r.Sequence(ctx, req, opts...)
		if err != nil {
			return Handle{}, err
		}
		return Handle{ID: seq.ID, Kind: kind, Sequence: seq}, nil
	default:
		return Handle{}, fmt.Errorf("unknown sink kind %q", kind)
	}
}

// Buffered runs a session to completion and returns the full text. On failure the
// partial text delivered so far is returned together with the error.
func (r *Relay) Buffered(ctx context.Context, req llm.ChatRequest, opts ...Option) (string, error) {
	s, err := r.open(ctx, req, SinkBuffer, NewBufferSink(), opts)
	if err != nil {
		return "", err
	}
	return s.bufferResult(ctx)
}

// EventStream is a running event-stream session.
type EventStream struct {
	ID   string
	sink *EventSink
	done chan struct{}
}

// Events returns the event channel. It is closed when the session ends.
func (e *EventStream) Events() <-chan Event { return e.sink.Events() }

// Wait blocks until the session goroutine has exited and returns its failure, if any.
func (e *EventStream) Wait() error {
	<-e.done
	return e.sink.Err()
}

// Events starts a session that delivers groups as events from a background goroutine.
// The session stops when ctx is done.
func (r *Relay) Events(ctx context.Context, req llm.ChatRequest, opts ...Option) (*EventStream, error) {
	sink := NewEventSink(ctx)
	s, err := r.open(ctx, req, SinkEvents, sink, opts)
	if err != nil {
		return nil, err
	}
	stream := &EventStream{ID: s.id, sink: sink, done: make(chan struct{})}
	go func() {
		defer close(stream.done)
		_ = s.run(ctx)
	}()
	return stream, nil
}

// Sequence starts a lazy session. Nothing is read from upstream until Next is called.
func (r *Relay) Sequence(ctx context.Context, req llm.ChatRequest, opts ...Option) (*Sequence, error) {
	sink := &queueSink{}
	s, err := r.open(ctx, req, SinkSequence, sink, opts)
	if err != nil {
		return nil, err
	}
	return &Sequence{ID: s.id, s: s, sink: sink}, nil
}

func (r *Relay) open(ctx context.Context, req llm.ChatRequest, kind SinkKind, sink Sink, opts []Option) (*session, error) {
	o := r.opts
	for _, opt := range opts {
		opt(&o)
	}
	if kind != SinkEvents {
		o.IdleTimeout = 0
	}

	id := uuid.New().String()
	src, err := r.opener.Open(ctx, req)
	if err != nil {
		capitan.Error(ctx, SessionFailed,
			SessionIDKey.Field(id),
			SinkKindKey.Field(string(kind)),
			ErrorKey.Field(err.Error()),
		)
		return nil, &SourceError{Err: err}
	}

	s := &session{
		id:      id,
		kind:    kind,
		src:     src,
		agg:     NewAggregator(o.FlushThreshold, o.FlushOnError),
		sink:    sink,
		opts:    o,
		started: time.Now(),
	}
	contextutil.LoggerFromContext(ctx).DebugContext(ctx, "relay session started",
		"session_id", id, "sink", kind, "flush_threshold", o.FlushThreshold, "idle_timeout", o.IdleTimeout)
	capitan.Info(ctx, SessionStarted,
		SessionIDKey.Field(id),
		SinkKindKey.Field(string(kind)),
		ModelKey.Field(req.Model),
	)
	return s, nil
}

// session wires one source, one aggregator and one sink.
type session struct {
	id      string
	kind    SinkKind
	src     Source
	agg     *Aggregator
	sink    Sink
	opts    Options
	started time.Time

	groups int
	chars  int
	ended  bool
	err    error

	cancelled atomic.Bool
}

func (s *session) bufferResult(ctx context.Context) (string, error) {
	err := s.run(ctx)
	text, _ := s.sink.(*BufferSink).Result()
	return text, err
}

func (s *session) run(ctx context.Context) error {
	for !s.ended {
		s.step(ctx)
	}
	return s.err
}

// step pulls one chunk and delivers whatever groups it produces.
func (s *session) step(ctx context.Context) {
	if s.ended {
		return
	}
	if s.cancelled.Load() {
		s.ended = true
		s.err = ErrCancelled
		return
	}

	c, err := s.next(ctx)
	switch {
	case errors.Is(err, io.EOF):
		if rest, ok := s.agg.Drain(); ok {
			if err := s.accept(ctx, rest, true); err != nil {
				s.fail(ctx, err)
				return
			}
		}
		s.complete(ctx)
	case err != nil:
		s.fail(ctx, err)
	default:
		texts, err := s.agg.Push(c)
		if err != nil {
			s.fail(ctx, err)
			return
		}
		for _, text := range texts {
			if err := s.accept(ctx, text, false); err != nil {
				s.fail(ctx, err)
				return
			}
		}
	}
}

func (s *session) next(ctx context.Context) (Chunk, error) {
	if s.opts.IdleTimeout <= 0 {
		return s.src.Next(ctx)
	}
	nctx, cancel := context.WithTimeout(ctx, s.opts.IdleTimeout)
	defer cancel()
	c, err := s.src.Next(nctx)
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return c, &TimeoutError{After: s.opts.IdleTimeout}
	}
	return c, err
}

func (s *session) accept(ctx context.Context, text string, final bool) error {
	g := TokenGroup{ID: uuid.New().String(), Event: DefaultEventName, Text: text, Final: final}
	if err := s.sink.Accept(ctx, g); err != nil {
		return err
	}
	s.groups++
	s.chars += len([]rune(text))
	return nil
}

func (s *session) complete(ctx context.Context) {
	s.ended = true
	_ = s.src.Close()
	_ = s.sink.Complete()
	contextutil.LoggerFromContext(ctx).DebugContext(ctx, "relay session completed",
		"session_id", s.id, "groups", s.groups, "chars", s.chars)
	capitan.Info(ctx, SessionCompleted,
		SessionIDKey.Field(s.id),
		SinkKindKey.Field(string(s.kind)),
		GroupsKey.Field(s.groups),
		CharsKey.Field(s.chars),
		DurationMsKey.Field(int(time.Since(s.started).Milliseconds())),
	)
}

func (s *session) fail(ctx context.Context, err error) {
	s.ended = true
	if s.cancelled.Load() {
		s.err = ErrCancelled
		return
	}
	s.err = err
	_ = s.src.Close()

	var transportErr *TransportError
	if rest, ok := s.agg.Fail(); ok && !errors.As(err, &transportErr) {
		_ = s.accept(ctx, rest, true)
	}
	s.sink.Fail(err)

	contextutil.LoggerFromContext(ctx).WarnContext(ctx, "relay session failed",
		"session_id", s.id, "sink", s.kind, "groups", s.groups, "error", err)
	capitan.Error(ctx, SessionFailed,
		SessionIDKey.Field(s.id),
		SinkKindKey.Field(string(s.kind)),
		GroupsKey.Field(s.groups),
		CharsKey.Field(s.chars),
		DurationMsKey.Field(int(time.Since(s.started).Milliseconds())),
		ErrorKey.Field(err.Error()),
	)
}

// cancel may be called from any goroutine. The source is closed immediately and no
// further chunk is pulled.
func (s *session) cancel(ctx context.Context) {
	if s.cancelled.Swap(true) {
		return
	}
	_ = s.src.Close()
	capitan.Info(ctx, SessionCancelled,
		SessionIDKey.Field(s.id),
		SinkKindKey.Field(string(s.kind)),
	)
}
