package relay

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/capitan"

	"holidays-app/internal/contextutil"
	"holidays-app/internal/llm"
)

// scriptedSource replays fixed chunks, then ends, fails or stalls.
type scriptedSource struct {
	mu        sync.Mutex
	chunks    []string
	err       error
	stall     bool
	pos       int
	nextCalls int
	closed    bool
}

func (s *scriptedSource) Next(ctx context.Context) (Chunk, error) {
	s.mu.Lock()
	s.nextCalls++
	if s.closed {
		s.mu.Unlock()
		return Chunk{}, ErrSourceClosed
	}
	if s.pos < len(s.chunks) {
		s.pos++
		c := Chunk{Seq: uint64(s.pos), Text: s.chunks[s.pos-1]}
		s.mu.Unlock()
		return c, nil
	}
	stall, failure := s.stall, s.err
	s.mu.Unlock()

	if stall {
		<-ctx.Done()
		return Chunk{}, ctx.Err()
	}
	if failure != nil {
		return Chunk{Terminal: TerminalError, Err: failure}, &SourceError{Err: failure}
	}
	return Chunk{Terminal: TerminalEnd}, io.EOF
}

func (s *scriptedSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *scriptedSource) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextCalls
}

func (s *scriptedSource) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

type scriptedOpener struct {
	src *scriptedSource
	err error
}

func (o *scriptedOpener) Open(context.Context, llm.ChatRequest) (Source, error) {
	if o.err != nil {
		return nil, o.err
	}
	return o.src, nil
}

func newTestRelay(src *scriptedSource) *Relay {
	return New(&scriptedOpener{src: src}, DefaultOptions())
}

func collect(t *testing.T, stream *EventStream) []Event {
	t.Helper()
	var events []Event
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-stream.Events():
			if !ok {
				return events
			}
			events = append(events, ev)
		case <-timeout:
			t.Fatal("event stream did not close")
		}
	}
}

func TestRelay_Buffered(t *testing.T) {
	src := &scriptedSource{chunks: []string{"Hel", "lo, ", "wor", "ld!"}}
	text, err := newTestRelay(src).Buffered(context.Background(), llm.ChatRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Hello, world!", text)
	assert.True(t, src.isClosed())
}

func TestRelay_Buffered_UpstreamError(t *testing.T) {
	tests := []struct {
		name     string
		opts     []Option
		wantText string
	}{
		{name: "remainder discarded", wantText: "Hello, "},
		{name: "remainder flushed", opts: []Option{WithFlushOnError(true)}, wantText: "Hello, wor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			boom := errors.New("reset")
			src := &scriptedSource{chunks: []string{"Hel", "lo, ", "wor"}, err: boom}
			text, err := newTestRelay(src).Buffered(context.Background(), llm.ChatRequest{}, tt.opts...)

			var srcErr *SourceError
			require.ErrorAs(t, err, &srcErr)
			assert.ErrorIs(t, err, boom)
			assert.Equal(t, tt.wantText, text)
			assert.True(t, src.isClosed())
		})
	}
}

func TestRelay_OpenError(t *testing.T) {
	r := New(&scriptedOpener{err: errors.New("dial failed")}, DefaultOptions())
	_, err := r.Buffered(context.Background(), llm.ChatRequest{})
	var srcErr *SourceError
	assert.ErrorAs(t, err, &srcErr)
}

func TestRelay_Events(t *testing.T) {
	src := &scriptedSource{chunks: []string{"Hel", "lo, ", "wor", "ld!"}}
	stream, err := newTestRelay(src).Events(context.Background(), llm.ChatRequest{})
	require.NoError(t, err)
	require.NotEmpty(t, stream.ID)

	events := collect(t, stream)
	require.Len(t, events, 2)
	assert.Equal(t, "Hello, ", events[0].Data)
	assert.Equal(t, "world!", events[1].Data)
	for _, ev := range events {
		assert.Equal(t, DefaultEventName, ev.Name)
		assert.NotEmpty(t, ev.ID)
	}
	assert.NotEqual(t, events[0].ID, events[1].ID)
	assert.NoError(t, stream.Wait())
	assert.True(t, src.isClosed())
}

func TestRelay_Events_ErrorEvent(t *testing.T) {
	src := &scriptedSource{chunks: []string{"one ", "tw"}, err: errors.New("upstream 500")}
	stream, err := newTestRelay(src).Events(context.Background(), llm.ChatRequest{})
	require.NoError(t, err)

	events := collect(t, stream)
	require.Len(t, events, 2)
	assert.Equal(t, "one ", events[0].Data)
	assert.Equal(t, ErrorEventName, events[1].Name)
	assert.Contains(t, events[1].Data, "upstream 500")

	var srcErr *SourceError
	assert.ErrorAs(t, stream.Wait(), &srcErr)
}

func TestRelay_Events_IdleTimeout(t *testing.T) {
	src := &scriptedSource{chunks: []string{"Hi "}, stall: true}
	stream, err := newTestRelay(src).Events(context.Background(), llm.ChatRequest{}, WithIdleTimeout(30*time.Millisecond))
	require.NoError(t, err)

	events := collect(t, stream)
	require.Len(t, events, 2)
	assert.Equal(t, "Hi ", events[0].Data)
	assert.Equal(t, ErrorEventName, events[1].Name)

	err = stream.Wait()
	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.True(t, src.isClosed())
}

func TestRelay_Events_ConsumerGone(t *testing.T) {
	src := &scriptedSource{chunks: []string{"a ", "b ", "c ", "d "}}
	ctx, cancel := context.WithCancel(context.Background())
	stream, err := newTestRelay(src).Events(ctx, llm.ChatRequest{})
	require.NoError(t, err)

	first := <-stream.Events()
	assert.Equal(t, "a ", first.Data)
	cancel()

	err = stream.Wait()
	var transportErr *TransportError
	assert.ErrorAs(t, err, &transportErr)
	assert.True(t, src.isClosed())
}

func TestRelay_Sequence_Lazy(t *testing.T) {
	src := &scriptedSource{chunks: []string{"Hel", "lo, ", "wor", "ld!"}}
	seq, err := newTestRelay(src).Sequence(context.Background(), llm.ChatRequest{})
	require.NoError(t, err)
	assert.Equal(t, 0, src.calls())

	g, err := seq.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Hello, ", g.Text)
	assert.Equal(t, 2, src.calls())

	g, err = seq.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "world!", g.Text)

	_, err = seq.Next(context.Background())
	assert.ErrorIs(t, err, io.EOF)
	assert.True(t, src.isClosed())
}

func TestRelay_Sequence_Cancel(t *testing.T) {
	src := &scriptedSource{chunks: []string{"a ", "b ", "c "}}
	seq, err := newTestRelay(src).Sequence(context.Background(), llm.ChatRequest{})
	require.NoError(t, err)

	_, err = seq.Next(context.Background())
	require.NoError(t, err)
	calls := src.calls()

	seq.Cancel()
	seq.Cancel()
	assert.True(t, src.isClosed())

	_, err = seq.Next(context.Background())
	assert.ErrorIs(t, err, ErrCancelled)
	assert.Equal(t, calls, src.calls())
}

func TestRelay_Sequence_AllBreakCancels(t *testing.T) {
	src := &scriptedSource{chunks: []string{"a ", "b ", "c "}}
	seq, err := newTestRelay(src).Sequence(context.Background(), llm.ChatRequest{})
	require.NoError(t, err)

	var got []string
	for g, err := range seq.All(context.Background()) {
		require.NoError(t, err)
		got = append(got, g.Text)
		break
	}
	assert.Equal(t, []string{"a "}, got)
	assert.True(t, src.isClosed())
	assert.Equal(t, 1, src.calls())
}

func TestRelay_Sequence_AllFailure(t *testing.T) {
	src := &scriptedSource{chunks: []string{"a ", "b"}, err: errors.New("boom")}
	seq, err := newTestRelay(src).Sequence(context.Background(), llm.ChatRequest{})
	require.NoError(t, err)

	var texts []string
	var last error
	for g, err := range seq.All(context.Background()) {
		if err != nil {
			last = err
			continue
		}
		texts = append(texts, g.Text)
	}
	assert.Equal(t, "a ", strings.Join(texts, ""))
	var srcErr *SourceError
	assert.ErrorAs(t, last, &srcErr)
}

func TestRelay_Run(t *testing.T) {
	tests := []struct {
		kind SinkKind
	}{
		{kind: SinkBuffer},
		{kind: SinkEvents},
		{kind: SinkSequence},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			src := &scriptedSource{chunks: []string{"x y"}}
			h, err := newTestRelay(src).Run(context.Background(), llm.ChatRequest{}, tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, h.Kind)
			assert.NotEmpty(t, h.ID)

			switch tt.kind {
			case SinkBuffer:
				assert.Equal(t, "x y", h.Text)
			case SinkEvents:
				require.NotNil(t, h.Stream)
				assert.Len(t, collect(t, h.Stream), 2)
			case SinkSequence:
				require.NotNil(t, h.Sequence)
				assert.Equal(t, 0, src.calls())
			}
		})
	}

	_, err := newTestRelay(&scriptedSource{}).Run(context.Background(), llm.ChatRequest{}, SinkKind("carrier-pigeon"))
	assert.Error(t, err)
}

func TestRelay_CompletedHook(t *testing.T) {
	received := make(chan int, 1)
	listener := capitan.Hook(SessionCompleted, func(_ context.Context, e *capitan.Event) {
		kind, _ := SinkKindKey.From(e)
		if kind != string(SinkBuffer) {
			return
		}
		groups, _ := GroupsKey.From(e)
		select {
		case received <- groups:
		default:
		}
	})
	defer listener.Close()

	src := &scriptedSource{chunks: []string{"Hel", "lo, ", "wor", "ld!"}}
	_, err := newTestRelay(src).Buffered(context.Background(), llm.ChatRequest{})
	require.NoError(t, err)

	select {
	case groups := <-received:
		assert.Equal(t, 2, groups)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for completed hook")
	}
}

func TestRelay_LogsEachOutcomeOnce(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := contextutil.WithLogger(context.Background(), logger)

	_, err := newTestRelay(&scriptedSource{chunks: []string{"Hello, ", "world"}}).Buffered(ctx, llm.ChatRequest{})
	require.NoError(t, err)
	_, err = newTestRelay(&scriptedSource{chunks: []string{"Hel"}, err: errors.New("reset")}).Buffered(ctx, llm.ChatRequest{})
	require.Error(t, err)

	logs := buf.String()
	assert.Equal(t, 2, strings.Count(logs, `"msg":"relay session started"`))
	assert.Equal(t, 1, strings.Count(logs, `"msg":"relay session completed"`))
	assert.Equal(t, 1, strings.Count(logs, `"msg":"relay session failed"`))
}
