package relay

import (
	"strings"
	"unicode/utf8"
)

// DefaultFlushThreshold is the buffered length, in characters, that forces a flush.
const DefaultFlushThreshold = 8

// State is the aggregator lifecycle state.
type State int

const (
	StateAccumulating State = iota
	StateFlushReady
	StateDraining
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateAccumulating:
		return "accumulating"
	case StateFlushReady:
		return "flush_ready"
	case StateDraining:
		return "draining"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Aggregator regroups upstream chunks into word-sized groups.
//
// A group is emitted when the buffer contains a separator (whitespace or one of ,.!?;:),
// up to and including the last separator, or when appending the next chunk would push a
// buffer that is still within the threshold past it. Upstream chunks are never split, so a
// buffer already longer than the threshold waits for a separator. The remainder is emitted by Drain.
// The concatenation of all emitted groups equals the concatenation of all pushed chunks.
type Aggregator struct {
	threshold    int
	flushOnError bool

	buf     strings.Builder
	bufLen  int
	lastSeq uint64
	state   State
}

// NewAggregator creates an aggregator. A threshold below one falls back to the default.
func NewAggregator(threshold int, flushOnError bool) *Aggregator {
	if threshold < 1 {
		threshold = DefaultFlushThreshold
	}
	return &Aggregator{threshold: threshold, flushOnError: flushOnError}
}

// State returns the current lifecycle state.
func (a *Aggregator) State() State { return a.state }

// Buffered returns the text held back since the last emitted group.
func (a *Aggregator) Buffered() string { return a.buf.String() }

// Push appends a text chunk and returns the groups that became ready, in order.
func (a *Aggregator) Push(c Chunk) ([]string, error) {
	switch a.state {
	case StateDraining, StateCompleted, StateFailed:
		return nil, &AggregationError{Seq: c.Seq, LastSeq: a.lastSeq, Message: "push after " + a.state.String()}
	}
	if c.Seq <= a.lastSeq {
		a.state = StateFailed
		return nil, &AggregationError{Seq: c.Seq, LastSeq: a.lastSeq, Message: "chunk out of order"}
	}
	a.lastSeq = c.Seq
	a.state = StateAccumulating

	var out []string
	n := utf8.RuneCountInString(c.Text)
	// An oversized buffer keeps growing until a separator or drain, so every
	// mid-stream group is within the threshold or ends with a separator.
	if a.bufLen > 0 && a.bufLen <= a.threshold && a.bufLen+n > a.threshold {
		out = append(out, a.take())
	}
	a.buf.WriteString(c.Text)
	a.bufLen += n

	buffered := a.buf.String()
	if i := strings.LastIndexFunc(buffered, isSeparator); i >= 0 {
		// separators are single-byte
		head, tail := buffered[:i+1], buffered[i+1:]
		out = append(out, head)
		a.buf.Reset()
		a.buf.WriteString(tail)
		a.bufLen = utf8.RuneCountInString(tail)
	}

	if len(out) > 0 {
		a.state = StateFlushReady
	}
	return out, nil
}

// Drain ends the stream and returns the non-empty remainder, if any. It only yields once.
func (a *Aggregator) Drain() (string, bool) {
	if a.state == StateCompleted || a.state == StateFailed {
		return "", false
	}
	a.state = StateDraining
	rest := a.take()
	a.state = StateCompleted
	return rest, rest != ""
}

// Fail moves the aggregator to the failed state. The buffered remainder is returned
// only when the aggregator was built with flushOnError, otherwise it is discarded.
func (a *Aggregator) Fail() (string, bool) {
	if a.state == StateCompleted || a.state == StateFailed {
		return "", false
	}
	rest := a.take()
	a.state = StateFailed
	if !a.flushOnError {
		return "", false
	}
	return rest, rest != ""
}

func (a *Aggregator) take() string {
	s := a.buf.String()
	a.buf.Reset()
	a.bufLen = 0
	return s
}

func isSeparator(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r', ',', '.', '!', '?', ';', ':':
		return true
	}
	return false
}
