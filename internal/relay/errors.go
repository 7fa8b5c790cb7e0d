package relay

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrTimeout is wrapped by TimeoutError.
	ErrTimeout = errors.New("idle timeout")
	// ErrCancelled is returned by a Sequence after Cancel.
	ErrCancelled = errors.New("session cancelled")
	// ErrSourceClosed is returned by Source.Next after Close.
	ErrSourceClosed = errors.New("source closed")
)

// SourceError reports an upstream failure. It is delivered exactly once per session.
type SourceError struct {
	Err error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("upstream stream failed: %v", e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// AggregationError reports an internal inconsistency in the aggregator.
type AggregationError struct {
	Seq     uint64
	LastSeq uint64
	Message string
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("aggregation failed at chunk %d (last %d): %s", e.Seq, e.LastSeq, e.Message)
}

// TransportError reports that the consumer could no longer receive groups.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// TimeoutError reports that no upstream chunk arrived within the idle timeout.
type TimeoutError struct {
	After time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("no upstream chunk within %s", e.After)
}

func (e *TimeoutError) Unwrap() error { return ErrTimeout }
