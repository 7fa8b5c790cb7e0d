package relay

import (
	"context"
	"io"
	"iter"
	"sync"
)

// Sequence is a lazily pulled session. Upstream chunks are only read inside Next, on the
// caller's goroutine. Next must not be called concurrently; Cancel may be called from anywhere.
type Sequence struct {
	ID string

	mu   sync.Mutex
	s    *session
	sink *queueSink
}

// Next returns the next group. It returns io.EOF once the stream completed, ErrCancelled
// after Cancel, and the session failure otherwise.
func (q *Sequence) Next(ctx context.Context) (TokenGroup, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for {
		if q.s.cancelled.Load() {
			return TokenGroup{}, ErrCancelled
		}
		if g, ok := q.sink.pop(); ok {
			return g, nil
		}
		if q.s.ended {
			if q.s.err != nil {
				return TokenGroup{}, q.s.err
			}
			return TokenGroup{}, io.EOF
		}
		q.s.step(ctx)
	}
}

// Cancel stops the session and closes the upstream source. It is idempotent.
func (q *Sequence) Cancel() {
	q.s.cancel(context.Background())
}

// All iterates over the remaining groups. Breaking out of the loop cancels the session.
// A terminal failure is yielded once as the error of the last pair.
func (q *Sequence) All(ctx context.Context) iter.Seq2[TokenGroup, error] {
	return func(yield func(TokenGroup, error) bool) {
		for {
			g, err := q.Next(ctx)
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(TokenGroup{}, err)
				return
			}
			if !yield(g, nil) {
				q.Cancel()
				return
			}
		}
	}
}
