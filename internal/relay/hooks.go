package relay

import "github.com/zoobzio/capitan"

// Session lifecycle signals.
const (
	SessionStarted   = capitan.Signal("relay.session.started")
	SessionCompleted = capitan.Signal("relay.session.completed")
	SessionFailed    = capitan.Signal("relay.session.failed")
	SessionCancelled = capitan.Signal("relay.session.cancelled")
)

// Event field keys.
var (
	SessionIDKey  = capitan.NewStringKey("relay.session.id")
	SinkKindKey   = capitan.NewStringKey("relay.sink.kind")
	ModelKey      = capitan.NewStringKey("relay.model")
	GroupsKey     = capitan.NewIntKey("relay.groups")
	CharsKey      = capitan.NewIntKey("relay.chars")
	DurationMsKey = capitan.NewIntKey("relay.duration.ms")
	ErrorKey      = capitan.NewStringKey("relay.error")
)
