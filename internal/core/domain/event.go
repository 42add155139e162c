package domain

// BuildEventKind identifies a build lifecycle transition.
type BuildEventKind string

const (
	// BuildEventBuilding is published when a build starts.
	BuildEventBuilding BuildEventKind = "building"
	// BuildEventSuccess is published when a build completes.
	BuildEventSuccess BuildEventKind = "success"
	// BuildEventError is published when a build fails.
	BuildEventError BuildEventKind = "error"
)

// BuildEvent is a lifecycle notification about one build attempt.
// Its JSON form is {"type":"building"}, {"type":"success"} or
// {"type":"error","error":"<message>"}.
type BuildEvent struct {
	Kind  BuildEventKind `json:"type"`
	Error string         `json:"error,omitempty"`
}

// BuildingEvent returns the event published when a build starts.
func BuildingEvent() BuildEvent {
	return BuildEvent{Kind: BuildEventBuilding}
}

// SuccessEvent returns the event published when a build succeeds.
func SuccessEvent() BuildEvent {
	return BuildEvent{Kind: BuildEventSuccess}
}

// ErrorEvent returns the event published when a build fails with the given message.
func ErrorEvent(msg string) BuildEvent {
	return BuildEvent{Kind: BuildEventError, Error: msg}
}

// Terminal reports whether the event ends a build.
func (e BuildEvent) Terminal() bool {
	return e.Kind == BuildEventSuccess || e.Kind == BuildEventError
}
