package hmtmodels

// Event kinds published by the scheduler loop.
const (
	EventKindReading    = "reading"
	EventKindAdvisories = "advisories"
)

// Wire labels used by the live-update transport when forwarding events
// to connected viewers.
const (
	WireLabelReading    = "sensor_data"
	WireLabelAdvisories = "new_suggestions"
)

// Event is one item on the live broadcast stream: either a single Reading
// or the batch of Advisories derived from one Reading.
type Event struct {
	Kind       string     `json:"kind"`
	Reading    *Reading   `json:"reading,omitempty"`
	Advisories []Advisory `json:"advisories,omitempty"`
}

// ReadingEvent wraps a reading for broadcast.
func ReadingEvent(r Reading) Event {
	return Event{Kind: EventKindReading, Reading: &r}
}

// AdvisoriesEvent wraps an advisory batch for broadcast.
func AdvisoriesEvent(advisories []Advisory) Event {
	return Event{Kind: EventKindAdvisories, Advisories: advisories}
}

// WireLabel returns the transport label for the event kind.
func (e Event) WireLabel() string {
	if e.Kind == EventKindAdvisories {
		return WireLabelAdvisories
	}
	return WireLabelReading
}
