package relay

import (
	"context"
	"errors"
	"io"
	"sync"

	"holidays-app/internal/llm"
)

// TerminalKind marks whether a chunk ends the stream.
type TerminalKind int

const (
	TerminalNone TerminalKind = iota
	TerminalEnd
	TerminalError
)

// Chunk is one upstream text fragment. Seq starts at 1 and increases by one per chunk.
type Chunk struct {
	Seq      uint64
	Text     string
	Terminal TerminalKind
	Err      error
}

// Source is a pull-based stream of chunks for a single session.
//
// Next returns text chunks with a nil error. At end-of-stream it returns a TerminalEnd
// chunk with io.EOF, on upstream failure a TerminalError chunk with a *SourceError.
// Both are sticky. A context error is returned as is and leaves the source usable.
type Source interface {
	Next(ctx context.Context) (Chunk, error)
	Close() error
}

// Opener starts a Source for a chat request.
type Opener interface {
	Open(ctx context.Context, req llm.ChatRequest) (Source, error)
}

// StreamFunc is a push-style streaming call, such as llm.Client.StreamChat.
type StreamFunc func(ctx context.Context, req llm.ChatRequest, callback func(chunk string) error) error

// StreamOpener adapts a StreamFunc to the Opener contract.
type StreamOpener struct {
	stream StreamFunc
}

// NewStreamOpener creates an Opener over a push-style stream.
func NewStreamOpener(stream StreamFunc) *StreamOpener {
	return &StreamOpener{stream: stream}
}

// Open starts the upstream call on a feeder goroutine. Chunks are handed over through
// a queue of capacity one, so the upstream reader is paced by the consumer.
func (o *StreamOpener) Open(ctx context.Context, req llm.ChatRequest) (Source, error) {
	fctx, cancel := context.WithCancel(ctx)
	s := &streamSource{
		ch:     make(chan Chunk, 1),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go s.feed(fctx, o.stream, req)
	return s, nil
}

type streamSource struct {
	ch        chan Chunk
	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once

	// consumer side
	terminal *Chunk
}

func (s *streamSource) feed(ctx context.Context, stream StreamFunc, req llm.ChatRequest) {
	defer close(s.done)
	defer close(s.ch)

	var seq uint64
	send := func(c Chunk) bool {
		select {
		case s.ch <- c:
			return true
		case <-ctx.Done():
			return false
		}
	}

	err := stream(ctx, req, func(text string) error {
		if text == "" {
			return nil
		}
		seq++
		if !send(Chunk{Seq: seq, Text: text}) {
			return ctx.Err()
		}
		return nil
	})

	if ctx.Err() != nil {
		return
	}
	seq++
	if err != nil {
		send(Chunk{Seq: seq, Terminal: TerminalError, Err: err})
		return
	}
	send(Chunk{Seq: seq, Terminal: TerminalEnd})
}

func (s *streamSource) Next(ctx context.Context) (Chunk, error) {
	if s.terminal != nil {
		return *s.terminal, terminalErr(*s.terminal)
	}

	select {
	case c, ok := <-s.ch:
		if !ok {
			return Chunk{}, ErrSourceClosed
		}
		if c.Terminal != TerminalNone {
			if c.Terminal == TerminalError {
				c.Err = &SourceError{Err: c.Err}
			}
			s.terminal = &c
			return c, terminalErr(c)
		}
		return c, nil
	case <-ctx.Done():
		return Chunk{}, ctx.Err()
	}
}

func terminalErr(c Chunk) error {
	if c.Terminal == TerminalError {
		var srcErr *SourceError
		if errors.As(c.Err, &srcErr) {
			return srcErr
		}
		return &SourceError{Err: c.Err}
	}
	return io.EOF
}

// Close cancels the upstream call and waits for the feeder to exit.
func (s *streamSource) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
		<-s.done
	})
	return nil
}
